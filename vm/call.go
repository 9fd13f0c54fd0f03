package vm

import "github.com/pkg/errors"

// Call invokes a registered top-level function by name, binding args to its
// parameters positionally and executing its body from the first line
// (spec.md §4.8). Grounded on vm/run.go's call/return via an address
// stack, generalized to named-function frames with string-keyed locals.
func (c *Context) Call(name string, args []Value) (Value, error) {
	fn, ok := c.Functions[name]
	if !ok {
		warnf("call to undefined function %q", name)
		return Null, nil
	}

	locals := make(Locals, len(fn.Params))
	for i, p := range fn.Params {
		if i < len(args) {
			locals[p] = args[i]
		}
	}

	for i := 0; i < len(fn.Body); i++ {
		ret, err := c.Exec(fn.Body, &i, locals)
		if err != nil {
			return Null, errors.Wrapf(err, "in function %s", name)
		}
		if ret.Kind != KindNull && ret.Kind != KindBreak && ret.Kind != KindContinue {
			return ret, nil
		}
	}
	return Null, nil
}
