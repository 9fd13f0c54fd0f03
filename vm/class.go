package vm

import "fmt"

// NewInstance constructs a ClassInstance with attributes seeded from the
// class's non-static defaults, invoking a "constructor" method via Send if
// one is declared (spec.md §4.8).
func (c *Context) NewInstance(className string, args []Value) (Value, error) {
	cls, ok := c.Classes[className]
	if !ok {
		warnf("unknown class %q", className)
		return Null, nil
	}
	inst := &Instance{ClassName: className, Attrs: make(map[string]Value)}
	for cur := &cls; cur != nil; {
		for _, a := range cur.Attributes {
			if !a.IsStatic {
				if _, exists := inst.Attrs[a.Name]; !exists {
					inst.Attrs[a.Name] = a.Default
				}
			}
		}
		if cur.Super == "" {
			break
		}
		super, ok := c.Classes[cur.Super]
		if !ok {
			break
		}
		cur = &super
	}
	if _, hasCtor := c.ResolveMethod(className, "constructor"); hasCtor {
		if _, err := c.Send(inst, "constructor", args); err != nil {
			return Null, err
		}
	}
	return InstanceVal(inst), nil
}

// ResolveMethod looks up a method by name on className, then on its
// superclass chain. Trait implementations are never consulted (spec.md §9
// Open Question (c)).
func (c *Context) ResolveMethod(className, name string) (Method, bool) {
	for className != "" {
		cls, ok := c.Classes[className]
		if !ok {
			return Method{}, false
		}
		if m, ok := cls.MethodByName(name); ok {
			return m, true
		}
		className = cls.Super
	}
	return Method{}, false
}

// HasMethod reports whether className (or an ancestor) declares name.
func (c *Context) HasMethod(className, name string) bool {
	_, ok := c.ResolveMethod(className, name)
	return ok
}

// StaticAttr reads a class's static attribute, recursing into the
// superclass if not found locally (spec.md §4.9).
func (c *Context) StaticAttr(className, field string) (Value, bool) {
	for className != "" {
		cls, ok := c.Classes[className]
		if !ok {
			return Null, false
		}
		if v, ok := cls.StaticAttrs[field]; ok {
			return v, true
		}
		className = cls.Super
	}
	return Null, false
}

// SetStaticAttr writes a class's static attribute, walking the superclass
// chain to find where it is declared; it falls back to setting it on
// className directly if not found anywhere in the chain.
func (c *Context) SetStaticAttr(className, field string, v Value) {
	for cn := className; cn != ""; {
		cls, ok := c.Classes[cn]
		if !ok {
			break
		}
		if _, ok := cls.StaticAttrs[field]; ok {
			cls.StaticAttrs[field] = v
			c.Classes[cn] = cls
			return
		}
		cn = cls.Super
	}
	cls, ok := c.Classes[className]
	if !ok {
		return
	}
	if cls.StaticAttrs == nil {
		cls.StaticAttrs = make(map[string]Value)
	}
	cls.StaticAttrs[field] = v
	c.Classes[className] = cls
}

// Send is HolyZ's message-based method invocation: resolve a method by
// string name against the instance's class (and its ancestors), bind
// `this`, bind parameters positionally, execute the body line by line,
// restore the previous `this`, and return the final return payload (or
// true on success if the method never returned a value explicitly).
// Grounded on spec.md §4.7/§4.9's description of "send" as messaging
// rather than vtable dispatch.
func (c *Context) Send(inst *Instance, method string, args []Value) (Value, error) {
	m, ok := c.ResolveMethod(inst.ClassName, method)
	if !ok {
		warnf("class %s has no method %q", inst.ClassName, method)
		return Null, nil
	}
	prev := c.bindThis(inst)
	defer c.bindThis(prev)

	locals := make(Locals, len(m.Params))
	for i, p := range m.Params {
		if i < len(args) {
			locals[p] = args[i]
		}
	}
	for i := 0; i < len(m.Body); i++ {
		ret, err := c.Exec(m.Body, &i, locals)
		if err != nil {
			return Null, err
		}
		if ret.Kind != KindNull && ret.Kind != KindBreak {
			return ret, nil
		}
	}
	return BoolVal(true), nil
}

// String implements fmt.Stringer for debug printing of instances.
func (i *Instance) String() string {
	return fmt.Sprintf("%s{...}", i.ClassName)
}
