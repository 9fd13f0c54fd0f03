package vm

import (
	"testing"

	"github.com/pkg/errors"
)

func TestAsInt(t *testing.T) {
	cases := []struct {
		v    Value
		want int32
	}{
		{IntVal(5), 5},
		{FloatVal(5.9), 5},
		{BoolVal(true), 1},
		{BoolVal(false), 0},
		{StrVal("42"), 42},
	}
	for _, c := range cases {
		if got := c.v.AsInt(); got != c.want {
			t.Errorf("%+v", errors.Errorf("AsInt(%v) = %d, want %d", c.v, got, c.want))
		}
	}
}

func TestAsBool(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{IntVal(0), false},
		{IntVal(3), true},
		{StrVal("true"), true},
		{StrVal("false"), false},
		{StrVal(""), false},
		{Null, false},
	}
	for _, c := range cases {
		if got := c.v.AsBool(); got != c.want {
			t.Errorf("%+v", errors.Errorf("AsBool(%v) = %v, want %v", c.v, got, c.want))
		}
	}
}

func TestAsStr(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{IntVal(42), "42"},
		{BoolVal(true), "true"},
		{OkVal(IntVal(1)), "Ok(1)"},
		{ErrVal("bad", "IOError"), "Err(bad, IOError)"},
		{SomeVal(StrVal("x")), "Some(x)"},
		{NoneVal(), "None"},
		{Vec2Val(1, 2), "(1, 2)"},
	}
	for _, c := range cases {
		if got := c.v.AsStr(); got != c.want {
			t.Errorf("%+v", errors.Errorf("AsStr(%v) = %q, want %q", c.v, got, c.want))
		}
	}
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{IntVal(1), "int"},
		{FloatVal(1), "float"},
		{StrVal("x"), "string"},
		{Vec2Val(0, 0), "Vec2"},
		{OkVal(Null), "Result"},
		{NoneVal(), "Option"},
	}
	for _, c := range cases {
		if got := c.v.TypeName(); got != c.want {
			t.Errorf("%+v", errors.Errorf("TypeName(%v) = %q, want %q", c.v, got, c.want))
		}
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Null, Null, true},
		{Null, IntVal(0), false},
		{IntVal(3), IntVal(3), true},
		{IntVal(3), FloatVal(3), true},
		{StrVal("3"), IntVal(3), true},
		{StrVal("abc"), IntVal(3), false},
		{BoolVal(true), BoolVal(true), true},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("%+v", errors.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want))
		}
		// Equal must be symmetric (spec.md §8.1 property 4).
		if got := Equal(c.b, c.a); got != c.want {
			t.Errorf("%+v", errors.Errorf("Equal(%v, %v) = %v, want %v (not symmetric)", c.b, c.a, got, c.want))
		}
	}
}

func TestHeapAllocAddressesAreMonotonicAndNeverReused(t *testing.T) {
	h := NewHeap()
	a1 := h.Alloc(IntVal(1))
	a2 := h.Alloc(IntVal(2))
	if a2 <= a1 {
		t.Errorf("%+v", errors.Errorf("expected monotonic addresses, got %d then %d", a1, a2))
	}
	h.Free(a1)
	a3 := h.Alloc(IntVal(3))
	if a3 == a1 {
		t.Error("freed address was reused")
	}
	if got := h.Deref(a1); got.Kind != KindNull {
		t.Errorf("%+v", errors.Errorf("expected Null after free, got %v", got))
	}
	h.Free(a1) // double free is a no-op
}
