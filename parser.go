package interpreted

import "fmt"

// Parse lexes and parses source into a top-level Block.
func Parse(src string) (*Block, error) {
	lex := NewLexer(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

// ParseInteractive parses in REPL-friendly mode: errors caused by running
// out of input are flagged incomplete (see IsIncomplete), which lets a
// REPL keep reading continuation lines.
func ParseInteractive(src string) (*Block, error) {
	lex := NewLexerInteractive(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, interactive: true}
	return p.program()
}

// ParseError reports a token stream that violates the grammar. Line is
// 1-based, Col is 0-based.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError at %d:%d: %s", e.Line, e.Col, e.Msg)
}

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	toks        []Token
	i           int
	interactive bool

	funcDepth int
	loopDepth int
}

// ----- token basics & helpers -----

func (p *parser) atEnd() bool { return p.peek().Type == EOF }
func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}
func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) peekAt(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), "%s, found %s", msg, describe(p.peek()))
}

// errAt builds a ParseError at the given token. An error sitting on EOF
// or a synthetic trailing dedent in interactive mode means the input may
// simply not be finished yet.
func (p *parser) errAt(tok Token, format string, args ...interface{}) error {
	return &ParseError{
		Line:       tok.Line,
		Col:        tok.Col,
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: p.interactive && tok.Type == EOF,
	}
}

// describe renders a token for error messages.
func describe(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "end of line"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	default:
		return fmt.Sprintf("'%s'", t.Lexeme)
	}
}

// ----- statements -----

func (p *parser) program() (*Block, error) {
	blk := &Block{pos: pos{Line: 1, Col: 1}}
	for !p.atEnd() {
		if p.match(NEWLINE) {
			continue
		}
		if p.peek().Type == INDENT {
			return nil, p.errAt(p.peek(), "unexpected indent")
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, st)
	}
	return blk, nil
}

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case DEF:
		return p.funcDef()
	case IF:
		return p.ifStmt()
	case WHILE:
		return p.whileStmt()
	case FOR:
		return p.forStmt()
	default:
		return p.simpleStmt()
	}
}

// simpleStmt is a one-line statement terminated by NEWLINE.
func (p *parser) simpleStmt() (Stmt, error) {
	tok := p.peek()

	var st Stmt
	var err error
	switch tok.Type {
	case RETURN:
		p.i++
		if p.funcDepth == 0 {
			return nil, p.errAt(tok, "'return' outside function")
		}
		var val Expr
		if p.peek().Type != NEWLINE && p.peek().Type != EOF {
			val, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		st = &Return{pos: at(tok), Value: val}
	case BREAK:
		p.i++
		if p.loopDepth == 0 {
			return nil, p.errAt(tok, "'break' outside loop")
		}
		st = &Break{pos: at(tok)}
	case CONTINUE:
		p.i++
		if p.loopDepth == 0 {
			return nil, p.errAt(tok, "'continue' outside loop")
		}
		st = &Continue{pos: at(tok)}
	case PASS:
		p.i++
		st = &Pass{pos: at(tok)}
	default:
		st, err = p.exprOrAssign()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.need(NEWLINE, "expected end of line after statement"); err != nil {
		return nil, err
	}
	return st, nil
}

var augOps = map[TokenType]string{
	PLUS_EQ:  "+",
	MINUS_EQ: "-",
	MULT_EQ:  "*",
	DIV_EQ:   "/",
}

// exprOrAssign parses an expression statement, or an assignment when the
// expression is followed by '=' or an augmented-assign operator.
func (p *parser) exprOrAssign() (Stmt, error) {
	tok := p.peek()
	target, err := p.expression()
	if err != nil {
		return nil, err
	}

	switch {
	case p.match(ASSIGN):
		if err := p.checkAssignable(tok, target); err != nil {
			return nil, err
		}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &Assign{pos: at(tok), Target: target, Value: val}, nil
	case augOps[p.peek().Type] != "":
		op := augOps[p.peek().Type]
		p.i++
		if err := p.checkAssignable(tok, target); err != nil {
			return nil, err
		}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &AugAssign{pos: at(tok), Target: target, Op: op, Value: val}, nil
	default:
		return &ExprStmt{pos: at(tok), X: target}, nil
	}
}

func (p *parser) checkAssignable(tok Token, target Expr) error {
	switch target.(type) {
	case *Name, *Index:
		return nil
	default:
		return p.errAt(tok, "cannot assign to this expression")
	}
}

func (p *parser) funcDef() (Stmt, error) {
	tok := p.advanceTok()
	name, err := p.need(ID, "expected function name after 'def'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []Param
	sawDefault := false
	for p.peek().Type != RROUND {
		pname, err := p.need(ID, "expected parameter name")
		if err != nil {
			return nil, err
		}
		var def Expr
		if p.match(ASSIGN) {
			def, err = p.expression()
			if err != nil {
				return nil, err
			}
			sawDefault = true
		} else if sawDefault {
			return nil, p.errAt(pname, "non-default argument follows default argument")
		}
		params = append(params, Param{Name: pname.Lexeme, Default: def})
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RROUND, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	p.funcDepth++
	savedLoops := p.loopDepth
	p.loopDepth = 0
	body, err := p.blockAfterColon("function body")
	p.loopDepth = savedLoops
	p.funcDepth--
	if err != nil {
		return nil, err
	}
	return &FunctionDef{pos: at(tok), Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	tok := p.advanceTok() // consumes 'if' or 'elif'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.blockAfterColon("if body")
	if err != nil {
		return nil, err
	}
	node := &If{pos: at(tok), Cond: cond, Then: then}

	switch p.peek().Type {
	case ELIF:
		arm, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		node.Else = arm
	case ELSE:
		p.i++
		blk, err := p.blockAfterColon("else body")
		if err != nil {
			return nil, err
		}
		node.Else = blk
	}
	return node, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	tok := p.advanceTok()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.blockAfterColon("while body")
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &While{pos: at(tok), Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	tok := p.advanceTok()
	target, err := p.need(ID, "expected loop variable after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN, "expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iter, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.blockAfterColon("for body")
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &For{pos: at(tok), Target: target.Lexeme, Iter: iter, Body: body}, nil
}

// advanceTok consumes the current token and returns it.
func (p *parser) advanceTok() Token {
	tok := p.peek()
	p.i++
	return tok
}

// blockAfterColon parses `: NEWLINE INDENT statement+ DEDENT`.
func (p *parser) blockAfterColon(what string) (*Block, error) {
	if _, err := p.need(COLON, "expected ':' before "+what); err != nil {
		return nil, err
	}
	if _, err := p.need(NEWLINE, "expected end of line after ':'"); err != nil {
		return nil, err
	}
	open, err := p.need(INDENT, "expected an indented "+what)
	if err != nil {
		return nil, err
	}
	blk := &Block{pos: at(open)}
	for {
		if p.match(DEDENT) {
			break
		}
		if p.atEnd() {
			return nil, p.errAt(p.peek(), "unexpected end of input in %s", what)
		}
		if p.match(NEWLINE) {
			continue
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, st)
	}
	return blk, nil
}

// ----- expressions -----

func (p *parser) expression() (Expr, error) { return p.orExpr() }

func (p *parser) orExpr() (Expr, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == OR {
		tok := p.advanceTok()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &BinOp{pos: at(tok), Left: left, Op: "or", Right: right}
	}
	return left, nil
}

func (p *parser) andExpr() (Expr, error) {
	left, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == AND {
		tok := p.advanceTok()
		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		left = &BinOp{pos: at(tok), Left: left, Op: "and", Right: right}
	}
	return left, nil
}

func (p *parser) notExpr() (Expr, error) {
	if p.peek().Type == NOT {
		tok := p.advanceTok()
		operand, err := p.notExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{pos: at(tok), Op: "not", Operand: operand}, nil
	}
	return p.comparison()
}

var comparisonOps = map[TokenType]string{
	EQ:         "==",
	NEQ:        "!=",
	LESS:       "<",
	LESS_EQ:    "<=",
	GREATER:    ">",
	GREATER_EQ: ">=",
}

func (p *parser) comparison() (Expr, error) {
	left, err := p.sum()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.peek().Type == IN:
			op = "in"
		case p.peek().Type == NOT && p.peekAt(1).Type == IN:
			op = "not in"
		default:
			var ok bool
			op, ok = comparisonOps[p.peek().Type]
			if !ok {
				return left, nil
			}
		}
		tok := p.advanceTok()
		if op == "not in" {
			p.i++ // the 'in' after 'not'
		}
		right, err := p.sum()
		if err != nil {
			return nil, err
		}
		left = &BinOp{pos: at(tok), Left: left, Op: op, Right: right}
	}
}

func (p *parser) sum() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		tok := p.advanceTok()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinOp{pos: at(tok), Left: left, Op: tok.Lexeme, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case MULT, DIV, FLOORDIV, MOD:
			tok := p.advanceTok()
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = &BinOp{pos: at(tok), Left: left, Op: tok.Lexeme, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (Expr, error) {
	if p.peek().Type == MINUS || p.peek().Type == PLUS {
		tok := p.advanceTok()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{pos: at(tok), Op: tok.Lexeme, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix parses a primary followed by any number of calls, subscripts
// and attribute accesses.
func (p *parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case LROUND:
			tok := p.advanceTok()
			var args []Expr
			for p.peek().Type != RROUND {
				a, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if !p.match(COMMA) {
					break
				}
			}
			if _, err := p.need(RROUND, "expected ')' after arguments"); err != nil {
				return nil, err
			}
			e = &Call{pos: at(tok), Func: e, Args: args}
		case LSQUARE:
			tok := p.advanceTok()
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RSQUARE, "expected ']' after subscript"); err != nil {
				return nil, err
			}
			e = &Index{pos: at(tok), Obj: e, Key: key}
		case PERIOD:
			tok := p.advanceTok()
			name, err := p.need(ID, "expected attribute name after '.'")
			if err != nil {
				return nil, err
			}
			e = &Attribute{pos: at(tok), Obj: e, Name: name.Lexeme}
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		p.i++
		return &Literal{pos: at(tok), Val: Int(tok.Literal.(int64))}, nil
	case NUMBER:
		p.i++
		return &Literal{pos: at(tok), Val: Num(tok.Literal.(float64))}, nil
	case STRING:
		p.i++
		return &Literal{pos: at(tok), Val: Str(tok.Literal.(string))}, nil
	case TRUE:
		p.i++
		return &Literal{pos: at(tok), Val: Bool(true)}, nil
	case FALSE:
		p.i++
		return &Literal{pos: at(tok), Val: Bool(false)}, nil
	case NONE:
		p.i++
		return &Literal{pos: at(tok), Val: None}, nil
	case ID:
		p.i++
		return &Name{pos: at(tok), Ident: tok.Lexeme}, nil
	case LROUND:
		p.i++
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return e, nil
	case LSQUARE:
		p.i++
		lit := &ListLit{pos: at(tok)}
		for p.peek().Type != RSQUARE {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			lit.Elems = append(lit.Elems, e)
			if !p.match(COMMA) {
				break
			}
		}
		if _, err := p.need(RSQUARE, "expected ']' after list elements"); err != nil {
			return nil, err
		}
		return lit, nil
	default:
		return nil, p.errAt(tok, "expected an expression, found %s", describe(tok))
	}
}
