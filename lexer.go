package interpreted

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Layout markers for indentation-based block structure
	NEWLINE
	INDENT
	DEDENT

	// Punctuation
	LROUND  // "("
	RROUND  // ")"
	LSQUARE // "["
	RSQUARE // "]"
	COLON   // ":"
	COMMA   // ","
	PERIOD  // "."

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	FLOORDIV // "//"
	MOD
	ASSIGN   // "="
	PLUS_EQ  // "+="
	MINUS_EQ // "-="
	MULT_EQ  // "*="
	DIV_EQ   // "/="
	EQ       // "=="
	NEQ      // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	STRING
	INTEGER
	NUMBER

	// Keywords
	DEF
	RETURN
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	AND
	OR
	NOT
	BREAK
	CONTINUE
	PASS
	TRUE
	FALSE
	NONE
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based
}

// keywords map
var keywords = map[string]TokenType{
	"def":      DEF,
	"return":   RETURN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
}

// Lexer scans an indentation-significant source string into tokens.
// Block structure is surfaced as NEWLINE/INDENT/DEDENT markers; the
// indent stack starts at the empty prefix and each deeper level must
// extend the previous one textually, so tabs and spaces cannot be mixed
// inconsistently.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	tokens   []Token
	indents  []string // stack of indentation prefixes, innermost last
	brackets int      // depth of open ( and [; suppresses layout tokens

	interactive bool // REPL mode: errors at EOF are flagged incomplete

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:     src,
		line:    1,
		col:     0,
		indents: []string{""},
	}
}

// NewLexerInteractive creates a lexer whose end-of-input failures (such
// as an unterminated string) are flagged incomplete, so a REPL can keep
// prompting for more lines.
func NewLexerInteractive(src string) *Lexer {
	l := NewLexer(src)
	l.interactive = true
	return l
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) rewindToStart() {
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) previousToken() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// ----- errors -----

// LexError reports a malformed character stream. Line is 1-based, Col is
// 0-based. Incomplete marks failures caused by running out of input.
type LexError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LexError at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

func (l *Lexer) errIncomplete(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg, Incomplete: l.interactive}
}

// ----- layout -----

// lineHasContent reports whether the previous token belongs to the
// current logical line, i.e. a NEWLINE should be emitted when it ends.
func (l *Lexer) lineHasContent() bool {
	p := l.previousToken()
	if p == nil {
		return false
	}
	switch p.Type {
	case NEWLINE, INDENT, DEDENT:
		return false
	}
	return true
}

// detectIndent runs right after a newline (outside brackets). It measures
// the indentation of the next non-blank, non-comment line and emits
// INDENT/DEDENT tokens against the indent stack.
func (l *Lexer) detectIndent() error {
	var indent string
	for {
		indent = ""
		for {
			b, ok := l.peek()
			if !ok || (b != ' ' && b != '\t') {
				break
			}
			l.advance()
			indent += string(b)
		}
		b, ok := l.peek()
		if !ok {
			// Trailing dedents are emitted by Scan at EOF.
			l.start = l.cur
			return nil
		}
		if b == '\r' {
			l.advance()
			continue
		}
		if b == '\n' {
			// blank line: no layout tokens
			l.advance()
			continue
		}
		if b == '#' {
			for {
				c, ok := l.peek()
				if !ok || c == '\n' {
					break
				}
				l.advance()
			}
			continue
		}
		break
	}
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col

	current := l.indents[len(l.indents)-1]
	if !hasPrefix(indent, current) && !hasPrefix(current, indent) {
		return l.err("Inconsistent use of tabs and spaces")
	}
	if indent == current {
		return nil
	}
	if len(indent) > len(current) {
		l.addToken(INDENT, nil)
		l.indents = append(l.indents, indent)
		return nil
	}
	at := -1
	for i, s := range l.indents {
		if s == indent {
			at = i
			break
		}
	}
	if at < 0 {
		return l.err("Dedent does not match any outer level")
	}
	for len(l.indents)-1 > at {
		l.indents = l.indents[:len(l.indents)-1]
		l.addToken(DEDENT, nil)
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// ----- scanners -----

// scanString parses a single- or double-quoted string literal with the
// minimal escape set. The opening quote has already been consumed by the
// caller; del is that quote byte.
func (l *Lexer) scanString(del byte) (string, error) {
	var out []byte
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == del {
			return string(out), nil
		}
		if ch == '\n' {
			return "", l.err("string was not terminated before end of line")
		}
		if ch != '\\' {
			out = append(out, ch)
			continue
		}
		esc, ok := l.advance()
		if !ok {
			return "", l.errIncomplete("string was not terminated")
		}
		switch esc {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'f':
			out = append(out, '\f')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		default:
			return "", l.err(fmt.Sprintf("unknown escape sequence: '\\%c'", esc))
		}
	}
	return "", l.errIncomplete("string was not terminated")
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses a decimal integer or float (fraction and exponent).
func (l *Lexer) scanNumber() (tok TokenType, lit interface{}, err error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	sawDot := false
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance()
			sawDot = true
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	sawExp := false
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		save := l.cur
		l.advance()
		if b2, ok := l.peek(); ok && (b2 == '+' || b2 == '-') {
			l.advance()
		}
		if b3, ok := l.peek(); ok && isDigit(b3) {
			sawExp = true
			for {
				b4, ok := l.peek()
				if !ok || !isDigit(b4) {
					break
				}
				l.advance()
			}
		} else {
			l.cur = save
		}
	}

	lex := l.src[l.start:l.cur]
	if !sawDot && !sawExp {
		v, convErr := strconv.ParseInt(lex, 10, 64)
		if convErr != nil {
			return ILLEGAL, nil, l.err("invalid integer literal")
		}
		return INTEGER, v, nil
	}
	vf, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return ILLEGAL, nil, l.err("invalid float literal")
	}
	return NUMBER, vf, nil
}

// ----- main scanner -----

// scanToken scans exactly one token, or handles a layout/skip case and
// returns ok=false so the caller loops again.
func (l *Lexer) scanToken() (ok bool, err error) {
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	ch, _ := l.advance()

	switch ch {
	case ' ', '\t', '\r':
		l.start = l.cur
		return false, nil
	case '\n':
		if l.brackets > 0 {
			l.start = l.cur
			return false, nil
		}
		if l.lineHasContent() {
			l.addToken(NEWLINE, nil)
		} else {
			l.start = l.cur
		}
		return false, l.detectIndent()
	case '#':
		for {
			b, ok := l.peek()
			if !ok || b == '\n' {
				break
			}
			l.advance()
		}
		l.start = l.cur
		return false, nil
	case '(':
		l.brackets++
		l.addToken(LROUND, "(")
		return true, nil
	case ')':
		if l.brackets > 0 {
			l.brackets--
		}
		l.addToken(RROUND, ")")
		return true, nil
	case '[':
		l.brackets++
		l.addToken(LSQUARE, "[")
		return true, nil
	case ']':
		if l.brackets > 0 {
			l.brackets--
		}
		l.addToken(RSQUARE, "]")
		return true, nil
	case ':':
		l.addToken(COLON, ":")
		return true, nil
	case ',':
		l.addToken(COMMA, ",")
		return true, nil
	case '.':
		l.addToken(PERIOD, ".")
		return true, nil
	case '+':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(PLUS_EQ, "+=")
			return true, nil
		}
		l.addToken(PLUS, "+")
		return true, nil
	case '-':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(MINUS_EQ, "-=")
			return true, nil
		}
		l.addToken(MINUS, "-")
		return true, nil
	case '*':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(MULT_EQ, "*=")
			return true, nil
		}
		l.addToken(MULT, "*")
		return true, nil
	case '/':
		if b, ok := l.peek(); ok && b == '/' {
			l.advance()
			l.addToken(FLOORDIV, "//")
			return true, nil
		}
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(DIV_EQ, "/=")
			return true, nil
		}
		l.addToken(DIV, "/")
		return true, nil
	case '%':
		l.addToken(MOD, "%")
		return true, nil
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(EQ, "==")
			return true, nil
		}
		l.addToken(ASSIGN, "=")
		return true, nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(NEQ, "!=")
			return true, nil
		}
		return false, l.err("unexpected character: '!'")
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(LESS_EQ, "<=")
			return true, nil
		}
		l.addToken(LESS, "<")
		return true, nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(GREATER_EQ, ">=")
			return true, nil
		}
		l.addToken(GREATER, ">")
		return true, nil
	}

	if ch == '"' || ch == '\'' {
		text, err := l.scanString(ch)
		if err != nil {
			return false, err
		}
		l.addToken(STRING, text)
		return true, nil
	}

	if isDigit(ch) {
		l.rewindToStart()
		tt, lit, err := l.scanNumber()
		if err != nil {
			return false, err
		}
		l.addToken(tt, lit)
		return true, nil
	}

	if isAlpha(ch) {
		l.rewindToStart()
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			l.addToken(tt, lex)
			return true, nil
		}
		l.addToken(ID, lex)
		return true, nil
	}

	return false, l.err(fmt.Sprintf("unexpected character: %q", ch))
}

// Scan tokenizes the entire source and returns tokens (EOF included).
// At end of input any open line is terminated with a NEWLINE and open
// indent levels are closed with DEDENTs, so the parser never has to
// special-case a missing trailing newline.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		if _, err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur
	if l.lineHasContent() && l.brackets == 0 {
		l.addToken(NEWLINE, nil)
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.addToken(DEDENT, nil)
	}
	l.addToken(EOF, nil)
	return l.tokens, nil
}
