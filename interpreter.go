// interpreter.go — public API surface of the interpreter.
//
// This file holds the runtime value model (Value, ValueTag, constructors),
// functions/closures (Fun), lexical environments (Env), the structured
// RuntimeError, and the Interpreter type with its entry points. The tree
// walk itself lives in interpreter_exec.go; operator dispatch in
// interpreter_ops.go; builtins in builtin_core.go.
//
// Scoping model: environments form a lexical chain via parent. The
// Interpreter exposes two well-known frames:
//   - Core:   builtins (print, len, ...), parent of Global.
//   - Global: user-visible program state (REPL/script globals).
//
// EvalSource runs in a fresh child of Global (ephemeral), so Global stays
// clean across calls; EvalPersistentSource runs in Global itself
// (REPL-style). Both return the value of the last expression statement,
// or None, and surface failures as a *RuntimeError wrapped with a
// caret-style source snippet.
package interpreted

import (
	"fmt"
	"io"
	"os"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNone ValueTag = iota // None (no payload)
	VTBool                 // bool
	VTInt                  // int64
	VTNum                  // float64
	VTStr                  // string
	VTList                 // *ListObject
	VTFun                  // *Fun (closure; native or user-defined)
)

// ListObject is the mutable backing store of a list value. Lists are
// shared by reference, so append through one binding is visible through
// every other.
type ListObject struct {
	Elems []Value
}

// Value is the universal runtime carrier used by the evaluator. The tag
// determines which Go type Data holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders a human-friendly debug representation.
func (v Value) String() string { return reprString(v) }

// None is the singleton unit Value.
var None = Value{Tag: VTNone}

// Primitive constructors for convenience.
func Bool(b bool) Value    { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value    { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value  { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }
func List(xs []Value) Value { return Value{Tag: VTList, Data: &ListObject{Elems: xs}} }

// NativeImpl is the implementation signature for builtin functions. Args
// are already evaluated; implementations report failures through the
// interpreter's runtime-error mechanism (see interpreter_exec.go).
type NativeImpl func(ip *Interpreter, args []Value) Value

// Fun is a function value: either a user-defined closure (Params, Body,
// Env) or a builtin (Native non-nil). Defaults on Params are unevaluated
// expressions; they run per call, in the new call scope.
type Fun struct {
	Name   string
	Params []Param
	Body   *Block
	Env    *Env // captured defining environment (closure)

	Native NativeImpl // non-nil for builtins
}

// FunVal wraps *Fun into a Value (Tag=VTFun).
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; assignment always defines in the current frame, which is
// what gives the language its no-implicit-global-rebinding behavior.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, fmt.Errorf("name '%s' is not defined", name)
}

// RuntimeError represents an execution-time failure with a source
// location. Kind is one of "NameError", "TypeError", "ArityError",
// "ZeroDivisionError", "IndexError" or "ValueError". Line/Col are 1-based.
type RuntimeError struct {
	Kind string
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

// Interpreter is the entry point for evaluating programs.
//
// Stdout receives everything the program prints; it defaults to os.Stdout
// and may be swapped (e.g. for a bytes.Buffer in tests) before running.
type Interpreter struct {
	Global *Env // program-global environment (persistent across EvalPersistent*)
	Core   *Env // builtins; parent of Global

	Stdout io.Writer

	callSite Node // node of the call currently applying a builtin
}

// NewInterpreter constructs an engine with core builtins installed and an
// empty Global (child of Core).
func NewInterpreter() *Interpreter {
	ip := &Interpreter{}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	ip.Stdout = os.Stdout
	ip.initCore()
	return ip
}

// EvalSource parses and evaluates source in a fresh child of Global.
// Bindings land in that ephemeral child, so Global is unchanged.
// Returns the resulting Value, or an error carrying a caret-annotated
// snippet on any lex/parse/runtime failure.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	ast, err := Parse(src)
	if err != nil {
		return None, WrapErrorWithName(err, "<main>", src)
	}
	return ip.runTop(ast, NewEnv(ip.Global), "<main>", src)
}

// EvalPersistentSource parses and evaluates source in Global (REPL-style),
// so assignments persist across calls.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	ast, err := Parse(src)
	if err != nil {
		return None, WrapErrorWithName(err, "<repl>", src)
	}
	return ip.runTop(ast, ip.Global, "<repl>", src)
}

// EvalAST evaluates a parsed Block in the provided environment exactly as
// given. Hosts use this to control scoping (e.g. the CLI's script env).
// The error, if any, is a bare *RuntimeError without a source snippet.
func (ip *Interpreter) EvalAST(block *Block, env *Env) (Value, error) {
	return ip.runTop(block, env, "", "")
}
