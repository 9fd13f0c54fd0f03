package lexer_test

import (
	"reflect"
	"testing"

	"github.com/dcorner/holyz/lexer"
)

func TestSplit(t *testing.T) {
	src := "int x = 2 + 3\n// a comment\n\n  ZS.System.PrintLine ( x )  \n"
	got := lexer.Split(src)
	want := []lexer.Line{
		{"int", "x", "=", "2", "+", "3"},
		{"ZS.System.PrintLine", "(", "x", ")"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !reflect.DeepEqual([]string(got[i]), []string(want[i])) {
			t.Errorf("line %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBraceDelta(t *testing.T) {
	cases := []struct {
		line lexer.Line
		want int
	}{
		{lexer.Line{"while", "i", "<", "3", "{"}, 1},
		{lexer.Line{"}"}, -1},
		{lexer.Line{"func", "f", "(", "a", ")", "{", "}"}, 0},
	}
	for _, c := range cases {
		if got := lexer.BraceDelta(c.line); got != c.want {
			t.Errorf("BraceDelta(%v) = %d, want %d", c.line, got, c.want)
		}
	}
}

func TestBetweenChars(t *testing.T) {
	cases := []struct{ in, want string }{
		{"square ( 5 )", " 5 "},
		{`f ( "a, b" , g ( 1 ) )`, ` "a, b" , g ( 1 ) `},
		{"noparens", ""},
	}
	for _, c := range cases {
		if got := lexer.BetweenChars(c.in, '(', ')'); got != c.want {
			t.Errorf("BetweenChars(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitNoOverlap(t *testing.T) {
	got := lexer.SplitNoOverlap("a, g(b, c), d", ',', '(', ')')
	want := []string{"a", " g(b, c)", " d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitNoOverlap = %v, want %v", got, want)
	}
}

func TestIsEscaped(t *testing.T) {
	s := `a\"b"c`
	if !lexer.IsEscaped(s, 2) {
		t.Errorf("expected position 2 (the escaped quote) to be escaped")
	}
	if lexer.IsEscaped(s, 4) {
		t.Errorf("expected position 4 (the unescaped quote) to not be escaped")
	}
}

func TestStringRaw(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"hi "`, "hi "},
		{`"line\nbreak"`, "line\nbreak"},
		{`"a\"b"`, `a"b`},
		{"bare", "bare"},
	}
	for _, c := range cases {
		if got := lexer.StringRaw(c.in); got != c.want {
			t.Errorf("StringRaw(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
