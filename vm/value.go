package vm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Kind tags the dynamic type carried by a Value.
type Kind int

// The Value kinds HolyZ scripts can observe. KindBreak is an
// executor-internal sentinel and is never user-constructible (spec.md
// §3.1).
const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStr
	KindPointer
	KindResult
	KindOption
	KindInstance
	KindVec2
	KindBreak
	KindContinue
)

// Pointer is a simulated heap handle: an address into a Context's Heap plus
// the declared type of the value it points to.
type Pointer struct {
	Address     uint64
	PointedType string
}

// Result is the Ok(Value)|Err{message,kind} sum type (spec.md §3.1).
type Result struct {
	IsOk    bool
	Payload Value
	Message string
	ErrKind string
}

// Option is the Some(Value)|None sum type.
type Option struct {
	HasValue bool
	Payload  Value
}

// Vec2 is a 2-component float vector, used by ZS.System.Vec2 and the
// graphics collaborators named (but not implemented) in spec.md §1.
type Vec2 struct {
	X, Y float32
}

// Value is HolyZ's tagged dynamic datum. Every Value is copied on
// assignment, but a KindInstance value carries a pointer to its Instance:
// copies of an instance value share one attribute map, so a change made
// through one copy (including by a method run via Send) is seen through all
// of them.
type Value struct {
	Kind Kind
	I    int32
	F    float32
	B    bool
	S    string
	Ptr  Pointer
	Res  Result
	Opt  Option
	Inst *Instance
	Vec  Vec2
}

// Null is the sentinel used for uninitialised, missing, and
// void-returning operations.
var Null = Value{Kind: KindNull}

// Break is the executor-internal sentinel that propagates a `break` out of
// an `if` up to the enclosing `while` (spec.md §4.6).
var Break = Value{Kind: KindBreak}

// Continue is the executor-internal sentinel that skips the remainder of a
// `while` body and re-tests the loop condition.
var Continue = Value{Kind: KindContinue}

func IntVal(i int32) Value     { return Value{Kind: KindInt, I: i} }
func FloatVal(f float32) Value { return Value{Kind: KindFloat, F: f} }
func BoolVal(b bool) Value     { return Value{Kind: KindBool, B: b} }
func StrVal(s string) Value    { return Value{Kind: KindStr, S: s} }
func Vec2Val(x, y float32) Value {
	return Value{Kind: KindVec2, Vec: Vec2{X: x, Y: y}}
}
func PointerVal(addr uint64, pointedType string) Value {
	return Value{Kind: KindPointer, Ptr: Pointer{Address: addr, PointedType: pointedType}}
}
func OkVal(payload Value) Value {
	return Value{Kind: KindResult, Res: Result{IsOk: true, Payload: payload}}
}
func ErrVal(message, kind string) Value {
	return Value{Kind: KindResult, Res: Result{IsOk: false, Message: message, ErrKind: kind}}
}
func SomeVal(payload Value) Value {
	return Value{Kind: KindOption, Opt: Option{HasValue: true, Payload: payload}}
}
func NoneVal() Value {
	return Value{Kind: KindOption, Opt: Option{HasValue: false}}
}
func InstanceVal(i *Instance) Value {
	return Value{Kind: KindInstance, Inst: i}
}

func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// TypeName returns the canonical, correctly-cased type name used by
// typeof/TypeOf and in diagnostics (spec.md §4.7).
func (v Value) TypeName() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStr:
		return "string"
	case KindPointer:
		return "Pointer"
	case KindResult:
		return "Result"
	case KindOption:
		return "Option"
	case KindInstance:
		return "object"
	case KindVec2:
		return "Vec2"
	default:
		return "null"
	}
}

// AsInt performs a best-effort conversion to int32. Failed conversions warn
// and return 0 (spec.md §3.1, §8.1 property 3: coercion totality).
func (v Value) AsInt() int32 {
	switch v.Kind {
	case KindInt:
		return v.I
	case KindFloat:
		return int32(v.F)
	case KindBool:
		if v.B {
			return 1
		}
		return 0
	case KindStr:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.S), 64)
		if err != nil {
			warnf("cannot convert string %q to int", v.S)
			return 0
		}
		return int32(n)
	default:
		warnf("cannot convert %s to int", v.TypeName())
		return 0
	}
}

// AsFloat performs a best-effort conversion to float32.
func (v Value) AsFloat() float32 {
	switch v.Kind {
	case KindFloat:
		return v.F
	case KindInt:
		return float32(v.I)
	case KindBool:
		if v.B {
			return 1
		}
		return 0
	case KindStr:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.S), 32)
		if err != nil {
			warnf("cannot convert string %q to float", v.S)
			return 0
		}
		return float32(f)
	default:
		warnf("cannot convert %s to float", v.TypeName())
		return 0
	}
}

// AsBool performs a best-effort conversion to bool. Null is always false;
// numeric zero is false; the strings "true"/"false" parse directly,
// anything else numeric-parses and tests non-zero.
func (v Value) AsBool() bool {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindNull:
		return false
	case KindInt:
		return v.I != 0
	case KindFloat:
		return v.F != 0
	case KindStr:
		s := strings.TrimSpace(v.S)
		switch s {
		case "true":
			return true
		case "false", "":
			return false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		warnf("cannot convert string %q to bool", v.S)
		return false
	default:
		warnf("cannot convert %s to bool", v.TypeName())
		return false
	}
}

// AsStr performs a best-effort conversion to string. Unlike the other
// coercions this never warns: every Value has a reasonable printable form.
func (v Value) AsStr() string {
	switch v.Kind {
	case KindStr:
		return v.S
	case KindNull:
		return "null"
	case KindInt:
		return strconv.Itoa(int(v.I))
	case KindFloat:
		return strconv.FormatFloat(float64(v.F), 'g', -1, 32)
	case KindBool:
		if v.B {
			return "true"
		}
		return "false"
	case KindPointer:
		return fmt.Sprintf("0x%x", v.Ptr.Address)
	case KindResult:
		if v.Res.IsOk {
			return "Ok(" + v.Res.Payload.AsStr() + ")"
		}
		return fmt.Sprintf("Err(%s, %s)", v.Res.Message, v.Res.ErrKind)
	case KindOption:
		if v.Opt.HasValue {
			return "Some(" + v.Opt.Payload.AsStr() + ")"
		}
		return "None"
	case KindInstance:
		return v.Inst.ClassName + "{}"
	case KindVec2:
		return fmt.Sprintf("(%g, %g)", v.Vec.X, v.Vec.Y)
	default:
		return ""
	}
}

// AsVec2 performs a best-effort conversion to Vec2: a native Vec2 passes
// through, a numeric scalar is splatted to both components, anything else
// warns and returns the zero vector.
func (v Value) AsVec2() Vec2 {
	switch v.Kind {
	case KindVec2:
		return v.Vec
	case KindInt, KindFloat, KindBool, KindStr:
		f := v.AsFloat()
		return Vec2{X: f, Y: f}
	default:
		warnf("cannot convert %s to Vec2", v.TypeName())
		return Vec2{}
	}
}

// Equal implements Value equality: both Null, or a shared tag compared
// under that tag, or two scalars of different kinds whose printable forms
// (AsStr) are identical (spec.md §8.1 property 4: symmetry). A string is
// therefore equal to a number only when it spells that number's AsStr form
// ("3" equals 3, "3.0" does not), and a bool never equals a number.
func Equal(a, b Value) bool {
	if a.Kind == KindNull && b.Kind == KindNull {
		return true
	}
	if a.Kind == KindNull || b.Kind == KindNull {
		return false
	}
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindInt:
			return a.I == b.I
		case KindFloat:
			return a.F == b.F
		case KindBool:
			return a.B == b.B
		case KindStr:
			return a.S == b.S // byte-exact
		case KindPointer:
			return a.Ptr == b.Ptr
		case KindVec2:
			return a.Vec == b.Vec
		default:
			return a.AsStr() == b.AsStr()
		}
	}
	// Mixed scalar kinds: compare the printable forms of both sides, which
	// keeps the relation symmetric regardless of argument order.
	if isScalar(a.Kind) && isScalar(b.Kind) {
		return a.AsStr() == b.AsStr()
	}
	return false
}

func isScalar(k Kind) bool {
	switch k {
	case KindInt, KindFloat, KindBool, KindStr:
		return true
	default:
		return false
	}
}
