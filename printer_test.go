// printer_test.go
package interpreted

import "testing"

func Test_Printer_DisplayForms(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{None, "None"},
		{Bool(true), "True"},
		{Bool(false), "False"},
		{Int(42), "42"},
		{Num(0.5), "0.5"},
		{Num(2), "2"},       // no unnecessary trailing zeros
		{Num(2.5e20), "2.5e+20"},
		{Str("plain"), "plain"}, // unquoted in display form
		{List([]Value{Int(1), Str("a"), None}), "[1, 'a', None]"},
	}
	for _, c := range cases {
		if got := displayString(c.v); got != c.want {
			t.Errorf("displayString(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func Test_Printer_ReprQuotesStrings(t *testing.T) {
	if got := reprString(Str("a'b\n")); got != `'a\'b\n'` {
		t.Fatalf("repr = %q", got)
	}
	if got := reprString(Int(7)); got != "7" {
		t.Fatalf("repr = %q", got)
	}
}

func Test_Printer_FormatValue_NoneIsQuiet(t *testing.T) {
	if got := FormatValue(None); got != "" {
		t.Fatalf("FormatValue(None) = %q", got)
	}
	if got := FormatValue(Str("x")); got != "'x'" {
		t.Fatalf("FormatValue = %q", got)
	}
}

func Test_Printer_Functions(t *testing.T) {
	f := &Fun{Name: "f"}
	if got := displayString(FunVal(f)); got != "<function f>" {
		t.Fatalf("display = %q", got)
	}
	n := &Fun{Name: "len", Native: func(*Interpreter, []Value) Value { return None }}
	if got := displayString(FunVal(n)); got != "<built-in function len>" {
		t.Fatalf("display = %q", got)
	}
}
