package holyz_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dcorner/holyz/lang/holyz"
	"github.com/dcorner/holyz/vm"
)

func TestRunSourcePrint(t *testing.T) {
	var out bytes.Buffer
	c, err := vm.New(vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	src := "int x = 2 + 3 * 4\nprint x\n"
	if err := holyz.RunSource(c, src); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "14\n" {
		t.Fatalf("expected %q, got %q", "14\n", got)
	}
}

func TestRunSourceFunctionAndWhile(t *testing.T) {
	var out bytes.Buffer
	c, err := vm.New(vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	src := `
func countUp(n) {
	int i = 0
	while (i < n) {
		print i
		i += 1
	}
}
countUp(3)
`
	if err := holyz.RunSource(c, src); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "0\n1\n2\n" {
		t.Fatalf("expected %q, got %q", "0\n1\n2\n", got)
	}
}

func TestREPLAccumulatesMultilineBlock(t *testing.T) {
	var out, errs bytes.Buffer
	c, err := vm.New(vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	in := strings.NewReader("if (1 < 2) {\nprint 99\n}\n")
	if err := holyz.REPL(c, in, &out, &errs); err != nil {
		t.Fatal(err)
	}
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out.String(), "99") {
		t.Fatalf("expected output to contain 99, got %q", out.String())
	}
}
