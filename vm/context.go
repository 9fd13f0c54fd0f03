package vm

import (
	"io"
	"os"
)

// Locals is a per-call-frame name-to-Value map, distinct from a Context's
// Globals (spec.md §3.5).
type Locals map[string]Value

// Option configures a new Context, mirroring the functional-options shape
// of the teacher's vm.Option (vm/vm.go).
type Option func(*Context) error

// Output sets the writer ZS.System.Print/PrintLine and the `print`
// statement write to. Defaults to os.Stdout.
func Output(w io.Writer) Option {
	return func(c *Context) error { c.Output = w; return nil }
}

// Stderr sets the writer for the SplitThread notice and for host code
// wrapping a Context to use for its own diagnostics. Warnings do not go
// through it: value.go's warnf always targets os.Stderr.
func Stderr(w io.Writer) Option {
	return func(c *Context) error { c.Stderr = w; return nil }
}

// HolyC sets the initial Holy-C auto-print mode (spec.md §4.6 item 2, §6.3).
func HolyC(on bool) Option {
	return func(c *Context) error { c.HolyCMode = on; return nil }
}

// IncludeDir sets the directory `include` paths are resolved relative to.
// Defaults to the current working directory.
func IncludeDir(dir string) Option {
	return func(c *Context) error { c.includeDir = dir; return nil }
}

// Context owns every piece of process-wide interpreter state: the global
// registries (spec.md §3.4), the heap, the Holy-C mode flag and the
// current-this slot. Grounded on vm/vm.go's Instance, which plays the same
// role for the teacher's Ngaro VM. A Context is not safe for concurrent
// use (spec.md §5).
type Context struct {
	Globals    map[string]Value
	Functions  map[string]Function
	Classes    map[string]Class
	Traits     map[string]Trait
	TraitImpls []TraitImpl
	Heap       *Heap

	HolyCMode bool

	Output io.Writer
	Stderr io.Writer

	includeDir string

	currentThis *Instance
}

// New creates a Context with empty registries and a fresh heap.
func New(opts ...Option) (*Context, error) {
	c := &Context{
		Globals:   make(map[string]Value),
		Functions: make(map[string]Function),
		Classes:   make(map[string]Class),
		Traits:    make(map[string]Trait),
		Heap:      NewHeap(),
		Output:    os.Stdout,
		Stderr:    os.Stderr,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CurrentThis returns the instance bound to `this` in the current method
// body, or nil outside of one.
func (c *Context) CurrentThis() *Instance {
	return c.currentThis
}

// bindThis sets the current-this slot and returns the previous value so
// the caller can restore it on return (spec.md §3.5: "a single
// current-this slot is maintained ... and restored on return").
func (c *Context) bindThis(inst *Instance) *Instance {
	prev := c.currentThis
	c.currentThis = inst
	return prev
}
