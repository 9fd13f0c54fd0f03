package vm

import "github.com/dcorner/holyz/lexer"

// Function is a registered, named function: an ordered parameter list and
// its pre-tokenised body lines (spec.md §3.2). Redefinition overwrites.
type Function struct {
	Params []string
	Body   []lexer.Line
}

// Attribute is a class field declaration.
type Attribute struct {
	Name     string
	Default  Value
	IsStatic bool
}

// Method is a class method declaration.
type Method struct {
	Name     string
	Params   []string
	Body     []lexer.Line
	IsStatic bool
}

// Class is a user-defined class (spec.md §3.3).
type Class struct {
	Name        string
	Super       string // "" if none
	Attributes  []Attribute
	Methods     []Method
	StaticAttrs map[string]Value
}

// MethodByName returns the method named name declared directly on c, or
// false if there is none (superclass lookup is the caller's
// responsibility, see Context.ResolveMethod).
func (c *Class) MethodByName(name string) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// Trait is a declared trait shape: a named set of method signatures. Traits
// are registered and kept for lookup but not consulted by method dispatch
// (spec.md §3.4, §9 Open Question (c)).
type Trait struct {
	Name    string
	Methods []string
}

// TraitImpl records that TypeName implements TraitName with the given
// method body.
type TraitImpl struct {
	TypeName  string
	TraitName string
	Body      []lexer.Line
}

// Instance is a runtime class instance: a class name plus its own
// attribute map, cloned from non-static defaults at construction time
// (spec.md §3.3).
type Instance struct {
	ClassName string
	Attrs     map[string]Value
}
