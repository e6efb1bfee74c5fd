package interpreted

import (
	"fmt"
	"strconv"
	"strings"
)

/* ---------- value rendering ---------- */

// displayString is the form print() writes: strings unquoted, numbers
// without unnecessary trailing zeros, True/False/None spelled the way
// they are written in source.
func displayString(v Value) string {
	switch v.Tag {
	case VTNone:
		return "None"
	case VTBool:
		if v.Data.(bool) {
			return "True"
		}
		return "False"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTList:
		var b strings.Builder
		b.WriteByte('[')
		for i, el := range v.Data.(*ListObject).Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(reprString(el))
		}
		b.WriteByte(']')
		return b.String()
	case VTFun:
		f := v.Data.(*Fun)
		if f.Native != nil {
			return fmt.Sprintf("<built-in function %s>", f.Name)
		}
		return fmt.Sprintf("<function %s>", f.Name)
	default:
		return "<unknown>"
	}
}

// reprString is the source-like form used inside lists and by the REPL
// echo: strings come back quoted.
func reprString(v Value) string {
	if v.Tag == VTStr {
		return quoteString(v.Data.(string))
	}
	return displayString(v)
}

// FormatValue renders a value for the REPL: repr form, except None which
// prints as an empty string so bare statements stay quiet.
func FormatValue(v Value) string {
	if v.Tag == VTNone {
		return ""
	}
	return reprString(v)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
