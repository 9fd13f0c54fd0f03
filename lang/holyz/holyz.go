package holyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dcorner/holyz/lexer"
	"github.com/dcorner/holyz/vm"
)

// RunFile reads the script at path, loads its definitions (resolving any
// `include` directives relative to the script's directory) and executes
// its remaining top-level statements in order.
func RunFile(path string, opts ...vm.Option) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	opts = append([]vm.Option{vm.IncludeDir(filepath.Dir(path))}, opts...)
	c, err := vm.New(opts...)
	if err != nil {
		return err
	}
	return RunSource(c, string(data))
}

// RunSource loads and executes src's top-level statements against an
// already-constructed Context. Top-level locals live for the duration of
// the run and are discarded afterward.
func RunSource(c *vm.Context, src string) error {
	top, err := c.Load(lexer.Split(src))
	if err != nil {
		return err
	}
	locals := make(vm.Locals)
	for i := 0; i < len(top); i++ {
		if _, err := c.Exec(top, &i, locals); err != nil {
			return err
		}
	}
	return nil
}

// REPL runs an interactive read-eval-print loop against c, reading lines
// from in and writing results/diagnostics to out/errs. Input lines are
// accumulated until their brace depth returns to zero so multi-line
// `func`/`class`/`if`/`while` bodies can be entered across several lines,
// mirroring the accumulate-then-evaluate shape of
// breadchris-yaegi/interp's Interpreter.REPL (adapted here to line/brace
// accounting instead of a Go-source scanner-error signal). Locals persist
// across the whole session.
func REPL(c *vm.Context, in io.Reader, out, errs io.Writer) error {
	scanner := bufio.NewScanner(in)
	locals := make(vm.Locals)
	var pending []lexer.Line
	depth := 0

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		lines := lexer.Split(scanner.Text())
		pending = append(pending, lines...)
		for _, l := range lines {
			depth += lexer.BraceDelta(l)
		}
		if depth > 0 {
			fmt.Fprint(out, ". ")
			continue
		}

		top, err := c.Load(pending)
		if err != nil {
			fmt.Fprintln(errs, err)
		} else {
			for i := 0; i < len(top); i++ {
				v, err := c.Exec(top, &i, locals)
				if err != nil {
					fmt.Fprintln(errs, err)
					break
				}
				if v.Kind != vm.KindNull { // a bare `return` at the prompt
					break
				}
			}
		}
		pending = nil
		depth = 0
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
