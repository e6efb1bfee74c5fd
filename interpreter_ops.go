// interpreter_ops.go — PRIVATE: operator dispatch and value protocols.
//   - Binary/unary operator tables over the Value cross-product, with an
//     explicit TypeError arm for every unsupported combination.
//   - Truthiness, equality, ordering, subscripting and bound attributes.
//
// Public API is in interpreter.go. The walk itself is in interpreter_exec.go.
package interpreted

import (
	"math"
	"strings"
)

// typeName reports the user-facing name of a value's kind, used in
// TypeError messages.
func typeName(v Value) string {
	switch v.Tag {
	case VTNone:
		return "NoneType"
	case VTBool:
		return "bool"
	case VTInt:
		return "int"
	case VTNum:
		return "float"
	case VTStr:
		return "str"
	case VTList:
		return "list"
	case VTFun:
		return "function"
	default:
		return "object"
	}
}

// isTruthy follows the usual rules: None and False are false, numbers by
// non-zeroness, strings and lists by non-emptiness, functions are true.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VTNone:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTList:
		return len(v.Data.(*ListObject).Elems) > 0
	default:
		return true
	}
}

func isNumber(v Value) bool { return v.Tag == VTInt || v.Tag == VTNum }

func toFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

// valuesEqual implements ==. Ints and floats compare numerically across
// tags; lists compare element-wise; functions by identity; values of
// otherwise different kinds are simply unequal.
func valuesEqual(l, r Value) bool {
	if isNumber(l) && isNumber(r) {
		if l.Tag == VTInt && r.Tag == VTInt {
			return l.Data.(int64) == r.Data.(int64)
		}
		return toFloat(l) == toFloat(r)
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case VTNone:
		return true
	case VTBool:
		return l.Data.(bool) == r.Data.(bool)
	case VTStr:
		return l.Data.(string) == r.Data.(string)
	case VTList:
		ls, rs := l.Data.(*ListObject).Elems, r.Data.(*ListObject).Elems
		if len(ls) != len(rs) {
			return false
		}
		for i := range ls {
			if !valuesEqual(ls[i], rs[i]) {
				return false
			}
		}
		return true
	case VTFun:
		return l.Data.(*Fun) == r.Data.(*Fun)
	default:
		return false
	}
}

// applyBinary dispatches a binary operator on two evaluated operands.
// The and/or operators never reach this point (they short-circuit in the
// walker).
func (ip *Interpreter) applyBinary(n Node, op string, l, r Value) Value {
	switch op {
	case "==":
		return Bool(valuesEqual(l, r))
	case "!=":
		return Bool(!valuesEqual(l, r))
	case "<", "<=", ">", ">=":
		return ip.compare(n, op, l, r)
	case "in":
		return Bool(contains(n, r, l))
	case "not in":
		return Bool(!contains(n, r, l))
	case "+":
		if l.Tag == VTStr && r.Tag == VTStr {
			return Str(l.Data.(string) + r.Data.(string))
		}
		if l.Tag == VTList && r.Tag == VTList {
			ls, rs := l.Data.(*ListObject).Elems, r.Data.(*ListObject).Elems
			out := make([]Value, 0, len(ls)+len(rs))
			out = append(out, ls...)
			out = append(out, rs...)
			return List(out)
		}
		if isNumber(l) && isNumber(r) {
			if l.Tag == VTInt && r.Tag == VTInt {
				return Int(l.Data.(int64) + r.Data.(int64))
			}
			return Num(toFloat(l) + toFloat(r))
		}
	case "-":
		if isNumber(l) && isNumber(r) {
			if l.Tag == VTInt && r.Tag == VTInt {
				return Int(l.Data.(int64) - r.Data.(int64))
			}
			return Num(toFloat(l) - toFloat(r))
		}
	case "*":
		if isNumber(l) && isNumber(r) {
			if l.Tag == VTInt && r.Tag == VTInt {
				return Int(l.Data.(int64) * r.Data.(int64))
			}
			return Num(toFloat(l) * toFloat(r))
		}
	case "/":
		if isNumber(l) && isNumber(r) {
			// true division always yields a float
			if toFloat(r) == 0 {
				failAt(n, "ZeroDivisionError", "division by zero")
			}
			return Num(toFloat(l) / toFloat(r))
		}
	case "//":
		if isNumber(l) && isNumber(r) {
			if l.Tag == VTInt && r.Tag == VTInt {
				d := r.Data.(int64)
				if d == 0 {
					failAt(n, "ZeroDivisionError", "integer division or modulo by zero")
				}
				return Int(floorDivInt(l.Data.(int64), d))
			}
			d := toFloat(r)
			if d == 0 {
				failAt(n, "ZeroDivisionError", "float floor division by zero")
			}
			return Num(math.Floor(toFloat(l) / d))
		}
	case "%":
		if isNumber(l) && isNumber(r) {
			if l.Tag == VTInt && r.Tag == VTInt {
				d := r.Data.(int64)
				if d == 0 {
					failAt(n, "ZeroDivisionError", "integer division or modulo by zero")
				}
				return Int(floorModInt(l.Data.(int64), d))
			}
			d := toFloat(r)
			if d == 0 {
				failAt(n, "ZeroDivisionError", "float modulo")
			}
			m := math.Mod(toFloat(l), d)
			if m != 0 && (m < 0) != (d < 0) {
				m += d
			}
			return Num(m)
		}
	}
	failAt(n, "TypeError", "unsupported operand type(s) for %s: '%s' and '%s'",
		op, typeName(l), typeName(r))
	return None
}

// compare handles < <= > >= for number pairs and string pairs. Each
// operator is its own comparison, so a NaN operand makes all of them
// false rather than turning > and >= into the negation of <.
func (ip *Interpreter) compare(n Node, op string, l, r Value) Value {
	switch {
	case isNumber(l) && isNumber(r):
		lf, rf := toFloat(l), toFloat(r)
		switch op {
		case "<":
			return Bool(lf < rf)
		case "<=":
			return Bool(lf <= rf)
		case ">":
			return Bool(lf > rf)
		default: // ">="
			return Bool(lf >= rf)
		}
	case l.Tag == VTStr && r.Tag == VTStr:
		ls, rs := l.Data.(string), r.Data.(string)
		switch op {
		case "<":
			return Bool(ls < rs)
		case "<=":
			return Bool(ls <= rs)
		case ">":
			return Bool(ls > rs)
		default: // ">="
			return Bool(ls >= rs)
		}
	default:
		failAt(n, "TypeError", "'%s' not supported between instances of '%s' and '%s'",
			op, typeName(l), typeName(r))
		return None
	}
}

// contains implements membership: element equality for lists, substring
// search for strings.
func contains(n Node, container, item Value) bool {
	switch container.Tag {
	case VTList:
		for _, el := range container.Data.(*ListObject).Elems {
			if valuesEqual(el, item) {
				return true
			}
		}
		return false
	case VTStr:
		if item.Tag != VTStr {
			failAt(n, "TypeError", "'in <string>' requires string as left operand, not '%s'", typeName(item))
		}
		return strings.Contains(container.Data.(string), item.Data.(string))
	default:
		failAt(n, "TypeError", "argument of type '%s' is not iterable", typeName(container))
		return false
	}
}

func (ip *Interpreter) applyUnary(n Node, op string, v Value) Value {
	switch op {
	case "not":
		return Bool(!isTruthy(v))
	case "-":
		switch v.Tag {
		case VTInt:
			return Int(-v.Data.(int64))
		case VTNum:
			return Num(-v.Data.(float64))
		}
	case "+":
		if isNumber(v) {
			return v
		}
	}
	failAt(n, "TypeError", "bad operand type for unary %s: '%s'", op, typeName(v))
	return None
}

// floorDivInt and floorModInt give floored division semantics (the sign
// of the modulo result follows the divisor), unlike Go's truncation.
func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// listIndex validates a subscript key against a sequence of length n,
// resolving negative indices from the end.
func listIndex(node Node, n int, key Value) int {
	if key.Tag != VTInt {
		failAt(node, "TypeError", "indices must be integers, not '%s'", typeName(key))
	}
	i := key.Data.(int64)
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		failAt(node, "IndexError", "index out of range")
	}
	return int(i)
}

// subscript implements obj[key] for lists and strings.
func (ip *Interpreter) subscript(n Node, obj, key Value) Value {
	switch obj.Tag {
	case VTList:
		xs := obj.Data.(*ListObject).Elems
		return xs[listIndex(n, len(xs), key)]
	case VTStr:
		rs := []rune(obj.Data.(string))
		return Str(string(rs[listIndex(n, len(rs), key)]))
	default:
		failAt(n, "TypeError", "'%s' object is not subscriptable", typeName(obj))
		return None
	}
}

// attribute resolves obj.name to a bound method for the builtin kinds
// that carry one.
func (ip *Interpreter) attribute(n Node, obj Value, name string) Value {
	switch obj.Tag {
	case VTList:
		lst := obj.Data.(*ListObject)
		if name == "append" {
			return FunVal(&Fun{Name: "append", Native: func(ip *Interpreter, args []Value) Value {
				if len(args) != 1 {
					ip.failCall("ArityError", "append() takes 1 argument but %d were given", len(args))
				}
				lst.Elems = append(lst.Elems, args[0])
				return None
			}})
		}
	case VTStr:
		sep := obj.Data.(string)
		if name == "join" {
			return FunVal(&Fun{Name: "join", Native: func(ip *Interpreter, args []Value) Value {
				if len(args) != 1 {
					ip.failCall("ArityError", "join() takes 1 argument but %d were given", len(args))
				}
				if args[0].Tag != VTList {
					ip.failCall("TypeError", "join() argument must be a list, not '%s'", typeName(args[0]))
				}
				parts := []string{}
				for _, el := range args[0].Data.(*ListObject).Elems {
					if el.Tag != VTStr {
						ip.failCall("TypeError", "sequence item: expected str, got '%s'", typeName(el))
					}
					parts = append(parts, el.Data.(string))
				}
				return Str(strings.Join(parts, sep))
			}})
		}
	}
	failAt(n, "TypeError", "'%s' object has no attribute '%s'", typeName(obj), name)
	return None
}
