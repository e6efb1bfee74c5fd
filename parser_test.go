// parser_test.go
package interpreted

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func mustParse(t *testing.T, src string) *Block {
	t.Helper()
	blk, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return blk
}

func mustParseError(t *testing.T, src, wantSub string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %v\nsource:\n%s", err, src)
	}
	if !strings.Contains(pe.Msg, wantSub) {
		t.Fatalf("error %q does not mention %q", pe.Msg, wantSub)
	}
	return pe
}

func mustIncomplete(t *testing.T, src string) {
	t.Helper()
	_, err := ParseInteractive(src)
	if err == nil || !IsIncomplete(err) {
		t.Fatalf("expected incomplete parse, got %v\nsource:\n%s", err, src)
	}
}

// --- statements ------------------------------------------------------------

func Test_Parser_TopLevelStatementCount(t *testing.T) {
	src := "x = 1\ny = 2\nprint(x + y)\n"
	blk := mustParse(t, src)
	if len(blk.Stmts) != 3 {
		t.Fatalf("want 3 top-level statements, got %d", len(blk.Stmts))
	}
}

func Test_Parser_Assignment(t *testing.T) {
	blk := mustParse(t, "x = 1 + 2\n")
	as, ok := blk.Stmts[0].(*Assign)
	if !ok {
		t.Fatalf("want *Assign, got %T", blk.Stmts[0])
	}
	if name, ok := as.Target.(*Name); !ok || name.Ident != "x" {
		t.Fatalf("target = %#v", as.Target)
	}
	if _, ok := as.Value.(*BinOp); !ok {
		t.Fatalf("value = %T, want *BinOp", as.Value)
	}
}

func Test_Parser_AugmentedAssignment(t *testing.T) {
	blk := mustParse(t, "x += 2\n")
	aa, ok := blk.Stmts[0].(*AugAssign)
	if !ok {
		t.Fatalf("want *AugAssign, got %T", blk.Stmts[0])
	}
	if aa.Op != "+" {
		t.Fatalf("op = %q", aa.Op)
	}
}

func Test_Parser_SubscriptAssignment(t *testing.T) {
	blk := mustParse(t, "xs[0] = 5\n")
	as := blk.Stmts[0].(*Assign)
	if _, ok := as.Target.(*Index); !ok {
		t.Fatalf("target = %T, want *Index", as.Target)
	}
}

func Test_Parser_InvalidAssignTarget(t *testing.T) {
	mustParseError(t, "1 + 2 = 3\n", "cannot assign")
	mustParseError(t, "f() = 3\n", "cannot assign")
}

func Test_Parser_FunctionDef(t *testing.T) {
	src := "def add(a, b):\n    return a + b\n"
	blk := mustParse(t, src)
	fd, ok := blk.Stmts[0].(*FunctionDef)
	if !ok {
		t.Fatalf("want *FunctionDef, got %T", blk.Stmts[0])
	}
	if fd.Name != "add" || len(fd.Params) != 2 {
		t.Fatalf("def = %q params = %d", fd.Name, len(fd.Params))
	}
	if len(fd.Body.Stmts) != 1 {
		t.Fatalf("body statements = %d", len(fd.Body.Stmts))
	}
	if _, ok := fd.Body.Stmts[0].(*Return); !ok {
		t.Fatalf("body[0] = %T, want *Return", fd.Body.Stmts[0])
	}
}

func Test_Parser_DefaultsMustTrail(t *testing.T) {
	src := "def greet(name='User', punct):\n    pass\n"
	mustParseError(t, src, "non-default argument follows default argument")

	// trailing defaults parse fine
	blk := mustParse(t, "def f(a, b=1, c=2):\n    pass\n")
	fd := blk.Stmts[0].(*FunctionDef)
	if fd.Params[0].Default != nil || fd.Params[1].Default == nil || fd.Params[2].Default == nil {
		t.Fatalf("defaults = %+v", fd.Params)
	}
}

func Test_Parser_IfElifElse(t *testing.T) {
	src := `if a:
    x = 1
elif b:
    x = 2
else:
    x = 3
`
	blk := mustParse(t, src)
	node, ok := blk.Stmts[0].(*If)
	if !ok {
		t.Fatalf("want *If, got %T", blk.Stmts[0])
	}
	arm, ok := node.Else.(*If)
	if !ok {
		t.Fatalf("elif arm = %T, want nested *If", node.Else)
	}
	if _, ok := arm.Else.(*Block); !ok {
		t.Fatalf("else arm = %T, want *Block", arm.Else)
	}
}

func Test_Parser_WhileForBreakContinue(t *testing.T) {
	src := `while x < 10:
    x += 1
    if x == 5:
        continue
    if x == 8:
        break
for c in 'abc':
    print(c)
`
	blk := mustParse(t, src)
	if _, ok := blk.Stmts[0].(*While); !ok {
		t.Fatalf("stmt 0 = %T", blk.Stmts[0])
	}
	fl, ok := blk.Stmts[1].(*For)
	if !ok || fl.Target != "c" {
		t.Fatalf("stmt 1 = %#v", blk.Stmts[1])
	}
}

func Test_Parser_ControlFlowOutsidePlace(t *testing.T) {
	mustParseError(t, "break\n", "'break' outside loop")
	mustParseError(t, "continue\n", "'continue' outside loop")
	mustParseError(t, "return 1\n", "'return' outside function")
}

// --- expressions -----------------------------------------------------------

func binOp(t *testing.T, e Expr) *BinOp {
	t.Helper()
	b, ok := e.(*BinOp)
	if !ok {
		t.Fatalf("want *BinOp, got %T", e)
	}
	return b
}

func exprOf(t *testing.T, src string) Expr {
	t.Helper()
	blk := mustParse(t, src)
	es, ok := blk.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("want *ExprStmt, got %T", blk.Stmts[0])
	}
	return es.X
}

func Test_Parser_Precedence_MulOverAdd(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	root := binOp(t, exprOf(t, "1 + 2 * 3\n"))
	if root.Op != "+" {
		t.Fatalf("root op = %q", root.Op)
	}
	right := binOp(t, root.Right)
	if right.Op != "*" {
		t.Fatalf("right op = %q", right.Op)
	}
}

func Test_Parser_Precedence_ComparisonOverAnd(t *testing.T) {
	// a < b and c < d parses as (a < b) and (c < d)
	root := binOp(t, exprOf(t, "a < b and c < d\n"))
	if root.Op != "and" {
		t.Fatalf("root op = %q", root.Op)
	}
	if binOp(t, root.Left).Op != "<" || binOp(t, root.Right).Op != "<" {
		t.Fatalf("children are not comparisons")
	}
}

func Test_Parser_Precedence_OrLowest(t *testing.T) {
	root := binOp(t, exprOf(t, "a and b or c\n"))
	if root.Op != "or" {
		t.Fatalf("root op = %q", root.Op)
	}
	if binOp(t, root.Left).Op != "and" {
		t.Fatalf("left op = %q", binOp(t, root.Left).Op)
	}
}

func Test_Parser_LeftAssociativity(t *testing.T) {
	// 1 - 2 - 3 parses as (1 - 2) - 3
	root := binOp(t, exprOf(t, "1 - 2 - 3\n"))
	left := binOp(t, root.Left)
	if left.Op != "-" {
		t.Fatalf("left = %#v", root.Left)
	}
	if _, ok := root.Right.(*Literal); !ok {
		t.Fatalf("right = %T", root.Right)
	}
}

func Test_Parser_UnaryAndNot(t *testing.T) {
	u, ok := exprOf(t, "not -x\n").(*UnaryOp)
	if !ok || u.Op != "not" {
		t.Fatalf("root = %#v", u)
	}
	inner, ok := u.Operand.(*UnaryOp)
	if !ok || inner.Op != "-" {
		t.Fatalf("operand = %#v", u.Operand)
	}
}

func Test_Parser_CallChainsAndSubscripts(t *testing.T) {
	e := exprOf(t, "f(1)(2)[0].append(3)\n")
	call, ok := e.(*Call)
	if !ok {
		t.Fatalf("root = %T", e)
	}
	attr, ok := call.Func.(*Attribute)
	if !ok || attr.Name != "append" {
		t.Fatalf("callee = %#v", call.Func)
	}
	if _, ok := attr.Obj.(*Index); !ok {
		t.Fatalf("attr obj = %T", attr.Obj)
	}
}

func Test_Parser_MembershipOperators(t *testing.T) {
	root := binOp(t, exprOf(t, "x in xs\n"))
	if root.Op != "in" {
		t.Fatalf("op = %q", root.Op)
	}
	root = binOp(t, exprOf(t, "x not in xs\n"))
	if root.Op != "not in" {
		t.Fatalf("op = %q", root.Op)
	}

	// membership sits at comparison level: a in b and c is (a in b) and c
	root = binOp(t, exprOf(t, "a in b and c\n"))
	if root.Op != "and" || binOp(t, root.Left).Op != "in" {
		t.Fatalf("tree = %#v", root)
	}

	// prefix not still binds looser: not a in b is not (a in b)
	u, ok := exprOf(t, "not a in b\n").(*UnaryOp)
	if !ok || u.Op != "not" {
		t.Fatalf("root = %#v", u)
	}
	if binOp(t, u.Operand).Op != "in" {
		t.Fatalf("operand = %#v", u.Operand)
	}
}

func Test_Parser_ListLiteral(t *testing.T) {
	e := exprOf(t, "[1, 'two', [3]]\n")
	lst, ok := e.(*ListLit)
	if !ok || len(lst.Elems) != 3 {
		t.Fatalf("list = %#v", e)
	}
}

func Test_Parser_ParenGrouping(t *testing.T) {
	// (1 + 2) * 3 parses as (1 + 2) * 3
	root := binOp(t, exprOf(t, "(1 + 2) * 3\n"))
	if root.Op != "*" {
		t.Fatalf("root op = %q", root.Op)
	}
	if binOp(t, root.Left).Op != "+" {
		t.Fatalf("left op = %q", binOp(t, root.Left).Op)
	}
}

// --- diagnostics -----------------------------------------------------------

func Test_Parser_ErrorNamesExpectedAndFound(t *testing.T) {
	pe := mustParseError(t, "def f(:\n    pass\n", "expected parameter name")
	if !strings.Contains(pe.Msg, "':'") {
		t.Fatalf("error should name the found token: %q", pe.Msg)
	}
	if pe.Line != 1 {
		t.Fatalf("error line = %d", pe.Line)
	}
}

func Test_Parser_UnexpectedIndent(t *testing.T) {
	mustParseError(t, "x = 1\n    y = 2\n", "unexpected indent")
}

func Test_Parser_Interactive_Incomplete(t *testing.T) {
	mustIncomplete(t, "def f():")
	mustIncomplete(t, "if x == 1:")
	mustIncomplete(t, "x = (1 +")
	mustIncomplete(t, "xs = [1, 2,")

	// complete inputs parse in interactive mode too
	if _, err := ParseInteractive("x = 1"); err != nil {
		t.Fatalf("complete input: %v", err)
	}

	// a genuine syntax error is not incomplete
	_, err := ParseInteractive("x = )")
	if err == nil || IsIncomplete(err) {
		t.Fatalf("hard error misflagged: %v", err)
	}
}
