package vm

import (
	"fmt"
	"math"
	"os/exec"
	"strings"
)

// holyCBuiltins names the bare (non-ZS.*) built-in functions every Holy-C
// program can call without qualification: type conversions, reflection,
// heap/pointer ops, object messaging and Result/Option constructors and
// inspectors (spec.md §4.7). Keys are lower-cased so lookups are
// case-insensitive on the input side, matching §4.7's "All built-in names
// are recognised case-insensitively" and §9's "Case-insensitive keyword
// matching is mandatory; identifier matching is case-sensitive" (function
// and class names, looked up elsewhere, stay case-sensitive). Grounded on
// vm/io.go's ioWait port-dispatch table, generalized from an integer-port
// switch to a name-keyed one.
var holyCBuiltins = map[string]bool{
	"toint": true, "tofloat": true, "tostr": true, "tobool": true,
	"typeof": true, "typecheck": true, "istype": true,
	"malloc": true, "free": true, "addressof": true, "deref": true, "setvalue": true,
	"send": true, "hasmethod": true, "getmethod": true,
	"ok": true, "err": true, "isok": true, "iserr": true,
	"unwrap": true, "expect": true, "unwrapor": true,
	"some": true, "none": true, "issome": true, "isnone": true,
	"splitthread": true,
}

func isHolyCBuiltinName(name string) bool {
	return holyCBuiltins[strings.ToLower(name)]
}

// hasZSPrefix reports whether name starts with the "ZS." namespace prefix,
// matched case-insensitively per spec.md §4.7/§9.
func hasZSPrefix(name string) bool {
	return len(name) >= 3 && strings.EqualFold(name[:3], "ZS.")
}

// CallBuiltin dispatches a ZS.* or bare Holy-C built-in call (spec.md
// §4.2). Host-facing namespaces named in spec.md but out of scope
// (graphics, filesystem, process, sysinfo) resolve to a Result.Err instead
// of being implemented.
func (c *Context) CallBuiltin(name string, args []Value, locals Locals) (Value, error) {
	if hasZSPrefix(name) {
		return c.callZS(name, args)
	}
	return c.callHolyC(name, args)
}

var errUnsupportedHost = "not supported by this host"

func unsupportedHost() Value {
	return ErrVal(errUnsupportedHost, "HostUnsupported")
}

func (c *Context) callZS(name string, args []Value) (Value, error) {
	switch strings.ToLower(name) {
	case "zs.math.sin":
		return FloatVal(float32(math.Sin(float64(arg(args, 0).AsFloat())))), nil
	case "zs.math.cos":
		return FloatVal(float32(math.Cos(float64(arg(args, 0).AsFloat())))), nil
	case "zs.math.tan":
		return FloatVal(float32(math.Tan(float64(arg(args, 0).AsFloat())))), nil
	case "zs.math.abs":
		return FloatVal(float32(math.Abs(float64(arg(args, 0).AsFloat())))), nil
	case "zs.math.round":
		return IntVal(int32(math.Round(float64(arg(args, 0).AsFloat())))), nil
	case "zs.math.lerp":
		a, b, t := arg(args, 0).AsFloat(), arg(args, 1).AsFloat(), arg(args, 2).AsFloat()
		return FloatVal(a + (b-a)*t), nil

	case "zs.system.print":
		fmt.Fprint(c.Output, joinArgs(args))
		return Null, nil
	case "zs.system.printline":
		fmt.Fprintln(c.Output, joinArgs(args))
		return Null, nil
	case "zs.system.vec2":
		return Vec2Val(arg(args, 0).AsFloat(), arg(args, 1).AsFloat()), nil
	case "zs.system.command":
		return c.builtinCommand(arg(args, 0).AsStr())
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "zs.graphics."),
		strings.HasPrefix(lower, "zs.filesystem."),
		strings.HasPrefix(lower, "zs.process."),
		strings.HasPrefix(lower, "zs.sysinfo."):
		return unsupportedHost(), nil
	}

	warnf("unknown built-in %q", name)
	return Null, nil
}

func (c *Context) callHolyC(name string, args []Value) (Value, error) {
	switch strings.ToLower(name) {
	case "toint":
		return IntVal(arg(args, 0).AsInt()), nil
	case "tofloat":
		return FloatVal(arg(args, 0).AsFloat()), nil
	case "tostr":
		return StrVal(arg(args, 0).AsStr()), nil
	case "tobool":
		return BoolVal(arg(args, 0).AsBool()), nil

	case "typeof":
		return StrVal(arg(args, 0).TypeName()), nil
	case "typecheck", "istype":
		return BoolVal(strings.EqualFold(arg(args, 0).AsStr(), arg(args, 1).TypeName())), nil

	case "malloc", "addressof":
		addr := c.Heap.Alloc(arg(args, 0))
		return PointerVal(addr, arg(args, 0).TypeName()), nil
	case "free":
		c.Heap.Free(pointerAddress(arg(args, 0)))
		return Null, nil
	case "deref":
		return c.Heap.Deref(pointerAddress(arg(args, 0))), nil
	case "setvalue":
		c.Heap.Set(pointerAddress(arg(args, 0)), arg(args, 1))
		return Null, nil

	case "send":
		return c.builtinSend(args)
	case "hasmethod":
		return BoolVal(c.builtinHasMethod(arg(args, 0), arg(args, 1).AsStr())), nil
	case "getmethod":
		return c.builtinGetMethod(arg(args, 0), arg(args, 1).AsStr()), nil

	case "ok":
		return OkVal(arg(args, 0)), nil
	case "err":
		kind := "Error"
		if len(args) > 1 {
			kind = arg(args, 1).AsStr()
		}
		return ErrVal(arg(args, 0).AsStr(), kind), nil
	case "isok":
		return BoolVal(arg(args, 0).Kind == KindResult && arg(args, 0).Res.IsOk), nil
	case "iserr":
		return BoolVal(arg(args, 0).Kind == KindResult && !arg(args, 0).Res.IsOk), nil
	case "unwrap":
		return c.builtinUnwrap(arg(args, 0)), nil
	case "expect":
		return c.builtinExpect(arg(args, 0), arg(args, 1).AsStr()), nil
	case "unwrapor":
		return c.builtinUnwrapOr(arg(args, 0), arg(args, 1)), nil

	case "some":
		return SomeVal(arg(args, 0)), nil
	case "none":
		return NoneVal(), nil
	case "issome":
		return BoolVal(arg(args, 0).Kind == KindOption && arg(args, 0).Opt.HasValue), nil
	case "isnone":
		return BoolVal(arg(args, 0).Kind == KindOption && !arg(args, 0).Opt.HasValue), nil

	case "splitthread":
		return c.builtinSplitThread(args)
	}
	warnf("unknown built-in %q", name)
	return Null, nil
}

func arg(args []Value, i int) Value {
	if i < 0 || i >= len(args) {
		return Null
	}
	return args[i]
}

func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.AsStr()
	}
	return strings.Join(parts, "")
}

func pointerAddress(v Value) uint64 {
	if v.Kind == KindPointer {
		return v.Ptr.Address
	}
	return uint64(v.AsInt())
}

// builtinCommand runs cmd through the host shell and returns its stdout and
// stderr, combined, as a Result, matching "shell passthrough" (spec.md §4.7) — the one
// built-in whose output genuinely varies run to run (spec.md §8.1's
// determinism property is scoped to exclude it).
func (c *Context) builtinCommand(cmd string) (Value, error) {
	out, err := exec.Command("sh", "-c", cmd).CombinedOutput()
	if err != nil {
		return ErrVal(err.Error(), "CommandError"), nil
	}
	return OkVal(StrVal(string(out))), nil
}

// builtinUnwrap returns a Result's Ok payload or an Option's Some payload,
// warning and returning Null for an Err/None.
func (c *Context) builtinUnwrap(v Value) Value {
	switch v.Kind {
	case KindResult:
		if v.Res.IsOk {
			return v.Res.Payload
		}
		warnf("unwrap called on Err(%s, %s)", v.Res.Message, v.Res.ErrKind)
		return Null
	case KindOption:
		if v.Opt.HasValue {
			return v.Opt.Payload
		}
		warnf("unwrap called on None")
		return Null
	default:
		warnf("unwrap called on non-Result/Option %s", v.TypeName())
		return Null
	}
}

// builtinExpect behaves like unwrap but warns with a caller-supplied message
// on failure (spec.md §4.7's "expect(res, msg)").
func (c *Context) builtinExpect(v Value, msg string) Value {
	switch v.Kind {
	case KindResult:
		if v.Res.IsOk {
			return v.Res.Payload
		}
		warnf("%s", msg)
		return Null
	case KindOption:
		if v.Opt.HasValue {
			return v.Opt.Payload
		}
		warnf("%s", msg)
		return Null
	default:
		warnf("%s", msg)
		return Null
	}
}

func (c *Context) builtinUnwrapOr(v, fallback Value) Value {
	switch v.Kind {
	case KindResult:
		if v.Res.IsOk {
			return v.Res.Payload
		}
		return fallback
	case KindOption:
		if v.Opt.HasValue {
			return v.Opt.Payload
		}
		return fallback
	default:
		return fallback
	}
}

// builtinSend implements explicit message dispatch: send(instance,
// "method", arg1, arg2, ...) (spec.md §4.7's "Object messaging").
func (c *Context) builtinSend(args []Value) (Value, error) {
	if len(args) < 2 || args[0].Kind != KindInstance {
		warnf("send requires an instance and a method name")
		return Null, nil
	}
	return c.Send(args[0].Inst, args[1].AsStr(), args[2:])
}

// builtinHasMethod and builtinGetMethod resolve a method by name against an
// instance's class (and its ancestors), without invoking it (spec.md
// §4.7's "hasmethod, getmethod").
func (c *Context) builtinHasMethod(v Value, method string) bool {
	if v.Kind != KindInstance {
		return false
	}
	return c.HasMethod(v.Inst.ClassName, method)
}

func (c *Context) builtinGetMethod(v Value, method string) Value {
	if v.Kind != KindInstance {
		return Null
	}
	if c.HasMethod(v.Inst.ClassName, method) {
		return StrVal(method)
	}
	return Null
}

// builtinSplitThread is a stub: HolyZ has no real concurrency, so it logs
// the request and runs the named function synchronously (spec.md §9 Open
// Question (b)).
func (c *Context) builtinSplitThread(args []Value) (Value, error) {
	if len(args) == 0 {
		warnf("SplitThread called with no function")
		return Null, nil
	}
	name := args[0].AsStr()
	fmt.Fprintf(c.Stderr, "new thread: %s (running synchronously)\n", name)
	return c.Call(name, args[1:])
}
