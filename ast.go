package interpreted

// The AST is a closed set of typed nodes. Every node records the 1-based
// line/column of the token that introduced it, so runtime failures can be
// reported with a source position long after the tokens are gone.

type pos struct {
	Line int
	Col  int
}

func (p pos) Pos() (int, int) { return p.Line, p.Col }

func at(t Token) pos { return pos{Line: t.Line, Col: t.Col + 1} }

// Node is implemented by every AST node.
type Node interface {
	Pos() (line, col int)
}

// Expr nodes produce a Value when evaluated.
type Expr interface {
	Node
	exprNode()
}

// Stmt nodes execute for effect.
type Stmt interface {
	Node
	stmtNode()
}

// ----- statements -----

// Block is an ordered sequence of statements at one indentation depth.
// The parser returns the whole program as a single top-level Block.
type Block struct {
	pos
	Stmts []Stmt
}

// ExprStmt is an expression evaluated for its side effects. Its value is
// kept as the result of the enclosing block, which is what the REPL echoes.
type ExprStmt struct {
	pos
	X Expr
}

// Assign binds Target (a *Name or *Index) in the innermost scope.
type Assign struct {
	pos
	Target Expr
	Value  Expr
}

// AugAssign is `target op= value`; Op is the underlying binary operator
// ("+", "-", "*", "/").
type AugAssign struct {
	pos
	Target Expr
	Op     string
	Value  Expr
}

// Param is one function parameter with an optional default expression.
type Param struct {
	Name    string
	Default Expr // nil when the parameter is required
}

// FunctionDef binds a function value under Name in the defining scope.
type FunctionDef struct {
	pos
	Name   string
	Params []Param
	Body   *Block
}

// Return unwinds the current call with Value (or None when nil).
type Return struct {
	pos
	Value Expr
}

// If is a chain of condition/block pairs; Else may be nil, another *If
// (an elif arm) or a *Block.
type If struct {
	pos
	Cond Expr
	Then *Block
	Else Stmt
}

type While struct {
	pos
	Cond Expr
	Body *Block
}

// For iterates Target over the elements of Iter (a list or string).
type For struct {
	pos
	Target string
	Iter   Expr
	Body   *Block
}

type Break struct{ pos }

type Continue struct{ pos }

type Pass struct{ pos }

func (*Block) stmtNode()       {}
func (*ExprStmt) stmtNode()    {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*FunctionDef) stmtNode() {}
func (*Return) stmtNode()      {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Pass) stmtNode()        {}

// ----- expressions -----

// Literal holds a ready-made runtime Value (number, string, bool, None).
type Literal struct {
	pos
	Val Value
}

// Name is an identifier reference, resolved through the scope chain.
type Name struct {
	pos
	Ident string
}

// ListLit is a `[a, b, c]` display.
type ListLit struct {
	pos
	Elems []Expr
}

// BinOp covers arithmetic, comparison and the short-circuiting
// "and"/"or" (which never evaluate Right eagerly).
type BinOp struct {
	pos
	Left  Expr
	Op    string
	Right Expr
}

type UnaryOp struct {
	pos
	Op      string
	Operand Expr
}

// Call applies a callee to strictly positional arguments.
type Call struct {
	pos
	Func Expr
	Args []Expr
}

// Index is `obj[key]`.
type Index struct {
	pos
	Obj Expr
	Key Expr
}

// Attribute is `obj.name`; evaluation yields a bound method for the
// built-in kinds that have one.
type Attribute struct {
	pos
	Obj  Expr
	Name string
}

func (*Literal) exprNode()   {}
func (*Name) exprNode()      {}
func (*ListLit) exprNode()   {}
func (*BinOp) exprNode()     {}
func (*UnaryOp) exprNode()   {}
func (*Call) exprNode()      {}
func (*Index) exprNode()     {}
func (*Attribute) exprNode() {}
