// interpreter_exec.go — PRIVATE: the tree-walking execution engine.
//   - Walks the typed AST directly against an Env chain.
//   - Uses panic-carried signals internally (rtErr, returnSig, breakSig,
//     continueSig); the public entry point recovers them at the top and
//     converts rtErr into a *RuntimeError.
//   - No exported identifiers here. The public facade lives in interpreter.go.
package interpreted

import "fmt"

// rtErr is the internal panic payload for runtime failures. It is never
// visible outside this package; runTop converts it to *RuntimeError.
type rtErr struct {
	kind string
	msg  string
	line int
	col  int
}

// returnSig unwinds a function body back to the call site.
type returnSig struct{ v Value }

// breakSig/continueSig unwind a loop body back to the loop driver.
type breakSig struct{}
type continueSig struct{}

// failAt raises a runtime error positioned at node n.
func failAt(n Node, kind, format string, args ...interface{}) {
	line, col := 0, 0
	if n != nil {
		line, col = n.Pos()
	}
	panic(rtErr{kind: kind, msg: fmt.Sprintf(format, args...), line: line, col: col})
}

// failCall raises a runtime error positioned at the builtin call site.
func (ip *Interpreter) failCall(kind, format string, args ...interface{}) {
	failAt(ip.callSite, kind, format, args...)
}

// runTop evaluates a block, recovering the internal panic signals into a
// structured error. When src is non-empty the error is additionally
// wrapped with a caret snippet labeled with name.
func (ip *Interpreter) runTop(block *Block, env *Env, name, src string) (result Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch sig := r.(type) {
		case rtErr:
			rte := &RuntimeError{Kind: sig.kind, Line: sig.line, Col: sig.col, Msg: sig.msg}
			result = None
			if src != "" {
				err = WrapErrorWithName(rte, name, src)
			} else {
				err = rte
			}
		default:
			panic(r)
		}
	}()
	return ip.evalBlock(block, env), nil
}

// evalBlock runs each statement in order and returns the value of the
// last expression statement (None when there is none).
func (ip *Interpreter) evalBlock(b *Block, env *Env) Value {
	result := None
	for _, st := range b.Stmts {
		result = ip.evalStmt(st, env)
	}
	return result
}

func (ip *Interpreter) evalStmt(st Stmt, env *Env) Value {
	switch s := st.(type) {
	case *ExprStmt:
		return ip.evalExpr(s.X, env)

	case *Assign:
		v := ip.evalExpr(s.Value, env)
		ip.assignTo(s.Target, v, env)

	case *AugAssign:
		switch target := s.Target.(type) {
		case *Index:
			// evaluate the object and key once
			obj := ip.evalExpr(target.Obj, env)
			if obj.Tag != VTList {
				failAt(target, "TypeError", "'%s' object does not support item assignment", typeName(obj))
			}
			lst := obj.Data.(*ListObject)
			i := listIndex(target, len(lst.Elems), ip.evalExpr(target.Key, env))
			lst.Elems[i] = ip.applyBinary(s, s.Op, lst.Elems[i], ip.evalExpr(s.Value, env))
		default:
			old := ip.evalExpr(s.Target, env)
			ip.assignTo(s.Target, ip.applyBinary(s, s.Op, old, ip.evalExpr(s.Value, env)), env)
		}

	case *FunctionDef:
		fn := &Fun{Name: s.Name, Params: s.Params, Body: s.Body, Env: env}
		env.Define(s.Name, FunVal(fn))

	case *Return:
		v := None
		if s.Value != nil {
			v = ip.evalExpr(s.Value, env)
		}
		panic(returnSig{v: v})

	case *If:
		if isTruthy(ip.evalExpr(s.Cond, env)) {
			ip.evalBlock(s.Then, env)
		} else if s.Else != nil {
			ip.evalStmt(s.Else, env)
		}

	case *Block:
		// only reachable as an else arm
		ip.evalBlock(s, env)

	case *While:
		for isTruthy(ip.evalExpr(s.Cond, env)) {
			if ip.runLoopBody(s.Body, env) {
				break
			}
		}

	case *For:
		seq := ip.evalExpr(s.Iter, env)
		for _, item := range iterate(s, seq) {
			env.Define(s.Target, item)
			if ip.runLoopBody(s.Body, env) {
				break
			}
		}

	case *Break:
		panic(breakSig{})

	case *Continue:
		panic(continueSig{})

	case *Pass:
		// nothing

	default:
		failAt(st, "TypeError", "cannot execute statement of type %T", st)
	}
	return None
}

// runLoopBody executes one loop iteration, absorbing continue and
// reporting whether the loop should break.
func (ip *Interpreter) runLoopBody(body *Block, env *Env) (brk bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch r.(type) {
		case breakSig:
			brk = true
		case continueSig:
			// next iteration
		default:
			panic(r)
		}
	}()
	ip.evalBlock(body, env)
	return false
}

// iterate yields the elements of a list or the characters of a string.
func iterate(n Node, v Value) []Value {
	switch v.Tag {
	case VTList:
		return v.Data.(*ListObject).Elems
	case VTStr:
		s := v.Data.(string)
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, Str(string(r)))
		}
		return out
	default:
		failAt(n, "TypeError", "'%s' object is not iterable", typeName(v))
		return nil
	}
}

// assignTo binds v at target: a plain name defines in the innermost
// scope; a subscript mutates the underlying list element.
func (ip *Interpreter) assignTo(target Expr, v Value, env *Env) {
	switch t := target.(type) {
	case *Name:
		env.Define(t.Ident, v)
	case *Index:
		obj := ip.evalExpr(t.Obj, env)
		if obj.Tag != VTList {
			failAt(t, "TypeError", "'%s' object does not support item assignment", typeName(obj))
		}
		lst := obj.Data.(*ListObject)
		i := listIndex(t, len(lst.Elems), ip.evalExpr(t.Key, env))
		lst.Elems[i] = v
	default:
		failAt(target, "TypeError", "cannot assign to this expression")
	}
}

func (ip *Interpreter) evalExpr(e Expr, env *Env) Value {
	switch x := e.(type) {
	case *Literal:
		return x.Val

	case *Name:
		v, err := env.Get(x.Ident)
		if err != nil {
			failAt(x, "NameError", "%s", err.Error())
		}
		return v

	case *ListLit:
		xs := make([]Value, 0, len(x.Elems))
		for _, el := range x.Elems {
			xs = append(xs, ip.evalExpr(el, env))
		}
		return List(xs)

	case *BinOp:
		// and/or short-circuit and yield the deciding operand
		switch x.Op {
		case "and":
			l := ip.evalExpr(x.Left, env)
			if !isTruthy(l) {
				return l
			}
			return ip.evalExpr(x.Right, env)
		case "or":
			l := ip.evalExpr(x.Left, env)
			if isTruthy(l) {
				return l
			}
			return ip.evalExpr(x.Right, env)
		}
		l := ip.evalExpr(x.Left, env)
		r := ip.evalExpr(x.Right, env)
		return ip.applyBinary(x, x.Op, l, r)

	case *UnaryOp:
		return ip.applyUnary(x, x.Op, ip.evalExpr(x.Operand, env))

	case *Call:
		callee := ip.evalExpr(x.Func, env)
		args := make([]Value, 0, len(x.Args))
		for _, a := range x.Args {
			args = append(args, ip.evalExpr(a, env))
		}
		return ip.apply(x, callee, args)

	case *Index:
		obj := ip.evalExpr(x.Obj, env)
		key := ip.evalExpr(x.Key, env)
		return ip.subscript(x, obj, key)

	case *Attribute:
		obj := ip.evalExpr(x.Obj, env)
		return ip.attribute(x, obj, x.Name)

	default:
		failAt(e, "TypeError", "cannot evaluate expression of type %T", e)
		return None
	}
}

// apply implements the call protocol: positional binding into a fresh
// child of the captured env, per-call default evaluation in that same
// scope, and body execution with return unwinding.
func (ip *Interpreter) apply(site Node, callee Value, args []Value) Value {
	if callee.Tag != VTFun {
		failAt(site, "TypeError", "'%s' object is not callable", typeName(callee))
	}
	fn := callee.Data.(*Fun)

	if fn.Native != nil {
		saved := ip.callSite
		ip.callSite = site
		v := fn.Native(ip, args)
		ip.callSite = saved
		return v
	}

	if len(args) > len(fn.Params) {
		failAt(site, "ArityError", "%s() takes %s but %d were given",
			fn.Name, arityWord(fn), len(args))
	}

	callEnv := NewEnv(fn.Env)
	for i, p := range fn.Params {
		switch {
		case i < len(args):
			callEnv.Define(p.Name, args[i])
		case p.Default != nil:
			// per-call policy: the default expression runs now, here
			callEnv.Define(p.Name, ip.evalExpr(p.Default, callEnv))
		default:
			failAt(site, "ArityError", "%s() takes %s but %d were given",
				fn.Name, arityWord(fn), len(args))
		}
	}

	return ip.runBody(fn.Body, callEnv)
}

// runBody executes a function body, converting a return unwind into the
// call's result. Falling off the end yields None.
func (ip *Interpreter) runBody(body *Block, env *Env) (result Value) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ret, ok := r.(returnSig); ok {
			result = ret.v
			return
		}
		panic(r)
	}()
	ip.evalBlock(body, env)
	return None
}

// arityWord renders "2 arguments" / "from 1 to 3 arguments" for errors.
func arityWord(fn *Fun) string {
	required := 0
	for _, p := range fn.Params {
		if p.Default == nil {
			required++
		}
	}
	total := len(fn.Params)
	if required == total {
		return fmt.Sprintf("%d %s", total, plural("argument", total))
	}
	return fmt.Sprintf("from %d to %d arguments", required, total)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
