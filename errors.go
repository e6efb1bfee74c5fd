// errors.go: user-facing error wrapping and caret-snippet rendering.
//
// WrapErrorWithSource turns the pipeline's structured errors (*LexError,
// *ParseError, *RuntimeError) into readable snippets with a caret under
// the offending column:
//
//	ParseError at 3:12: expected ')' after arguments, found end of line
//
//	   2 | x = f(1 + 2
//	   3 | y = 3
//	     |    ^
//	   4 | print(y)
//
// The snippet includes up to one line of context before and after the
// error, numbers the lines, and places the caret under the 1-based
// column. Any other error value passes through unchanged.
package interpreted

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label (such as a
// file name) included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lex/parse Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LexError", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "ParseError", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		// RuntimeError is already 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, e.Kind, srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// IsIncomplete reports whether err is a lex or parse error caused by
// running out of input in interactive mode. REPLs use this to keep
// prompting for continuation lines instead of reporting the error.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *LexError:
		return e.Incomplete
	case *ParseError:
		return e.Incomplete
	default:
		return false
	}
}

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// prettyErrorStringLabeled builds a Python-like snippet with a header and
// a caret. It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
