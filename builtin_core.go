package interpreted

import (
	"fmt"
	"strconv"
	"strings"
)

// ---- core built-ins ----------------------------------------------------

// initCore installs the builtin functions into the Core environment
// (parent of Global), so user code can read but never rebind them in
// place: an assignment to "print" merely shadows it in the local scope.
func (ip *Interpreter) initCore() {
	builtin := func(name string, impl NativeImpl) {
		ip.Core.Define(name, FunVal(&Fun{Name: name, Native: impl}))
	}

	// print(...) -> None
	// Joins the display strings of its arguments with single spaces and
	// writes one line to the interpreter's output writer.
	builtin("print", func(ip *Interpreter, args []Value) Value {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, displayString(a))
		}
		fmt.Fprintln(ip.Stdout, strings.Join(parts, " "))
		return None
	})

	// len(x) -> Int, for strings and lists
	builtin("len", func(ip *Interpreter, args []Value) Value {
		if len(args) != 1 {
			ip.failCall("ArityError", "len() takes 1 argument but %d were given", len(args))
		}
		switch v := args[0]; v.Tag {
		case VTStr:
			return Int(int64(len([]rune(v.Data.(string)))))
		case VTList:
			return Int(int64(len(v.Data.(*ListObject).Elems)))
		default:
			ip.failCall("TypeError", "object of type '%s' has no len()", typeName(v))
			return None
		}
	})

	// int(x) -> Int
	builtin("int", func(ip *Interpreter, args []Value) Value {
		if len(args) != 1 {
			ip.failCall("ArityError", "int() takes 1 argument but %d were given", len(args))
		}
		switch v := args[0]; v.Tag {
		case VTInt:
			return v
		case VTNum:
			return Int(int64(v.Data.(float64)))
		case VTBool:
			if v.Data.(bool) {
				return Int(1)
			}
			return Int(0)
		case VTStr:
			s := strings.TrimSpace(v.Data.(string))
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				ip.failCall("ValueError", "invalid literal for int(): %q", v.Data.(string))
			}
			return Int(n)
		default:
			ip.failCall("TypeError", "int() argument must be a string or a number, not '%s'", typeName(v))
			return None
		}
	})

	// float(x) -> Num
	builtin("float", func(ip *Interpreter, args []Value) Value {
		if len(args) != 1 {
			ip.failCall("ArityError", "float() takes 1 argument but %d were given", len(args))
		}
		switch v := args[0]; v.Tag {
		case VTNum:
			return v
		case VTInt:
			return Num(float64(v.Data.(int64)))
		case VTBool:
			if v.Data.(bool) {
				return Num(1)
			}
			return Num(0)
		case VTStr:
			s := strings.TrimSpace(v.Data.(string))
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				ip.failCall("ValueError", "could not convert string to float: %q", v.Data.(string))
			}
			return Num(f)
		default:
			ip.failCall("TypeError", "float() argument must be a string or a number, not '%s'", typeName(v))
			return None
		}
	})

	// str(x) -> Str (display form: strings pass through unquoted)
	builtin("str", func(ip *Interpreter, args []Value) Value {
		if len(args) != 1 {
			ip.failCall("ArityError", "str() takes 1 argument but %d were given", len(args))
		}
		return Str(displayString(args[0]))
	})

	// range(stop) / range(start, stop) / range(start, stop, step) -> list
	builtin("range", func(ip *Interpreter, args []Value) Value {
		if len(args) < 1 || len(args) > 3 {
			ip.failCall("ArityError", "range() takes from 1 to 3 arguments but %d were given", len(args))
		}
		bounds := make([]int64, len(args))
		for i, a := range args {
			if a.Tag != VTInt {
				ip.failCall("TypeError", "range() argument must be an int, not '%s'", typeName(a))
			}
			bounds[i] = a.Data.(int64)
		}
		var start, stop, step int64 = 0, 0, 1
		switch len(bounds) {
		case 1:
			stop = bounds[0]
		case 2:
			start, stop = bounds[0], bounds[1]
		case 3:
			start, stop, step = bounds[0], bounds[1], bounds[2]
		}
		if step == 0 {
			ip.failCall("ValueError", "range() step argument must not be zero")
		}
		var out []Value
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, Int(i))
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, Int(i))
			}
		}
		return List(out)
	})
}
