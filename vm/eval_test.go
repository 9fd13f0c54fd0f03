package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcorner/holyz/vm"
)

func newCtx(t *testing.T) *vm.Context {
	t.Helper()
	c, err := vm.New()
	assert.NoError(t, err)
	return c
}

func TestEvalArithmetic(t *testing.T) {
	c := newCtx(t)
	cases := []struct {
		expr string
		want float32
	}{
		{"2 + 3", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"2 ^ 3", 8},
		{"10 / 4", 2.5},
	}
	for _, tc := range cases {
		v, err := c.Eval(tc.expr, nil)
		assert.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, v.AsFloat(), tc.expr)
	}
}

func TestEvalBareLiteral(t *testing.T) {
	c := newCtx(t)
	v, err := c.Eval("5", nil)
	assert.NoError(t, err)
	assert.Equal(t, vm.KindInt, v.Kind)
	assert.Equal(t, int32(5), v.I)
}

func TestEvalStringConcat(t *testing.T) {
	c := newCtx(t)
	c.Globals["name"] = vm.StrVal("world")
	v, err := c.Eval(`"hello " + name`, nil)
	assert.NoError(t, err)
	assert.Equal(t, "hello world", v.AsStr())
}

func TestEvalLocalsShadowGlobals(t *testing.T) {
	c := newCtx(t)
	c.Globals["x"] = vm.IntVal(1)
	locals := vm.Locals{"x": vm.IntVal(99)}
	v, err := c.Eval("x", locals)
	assert.NoError(t, err)
	assert.Equal(t, int32(99), v.AsInt())
}

func TestBoolOpComparisonsAndLogic(t *testing.T) {
	c := newCtx(t)
	c.Globals["x"] = vm.IntVal(5)
	cases := []struct {
		expr string
		want bool
	}{
		{"x == 5", true},
		{"x != 5", false},
		{"x > 3 && x < 10", true},
		{"x > 3 && x < 4", false},
		{"x < 3 || x > 4", true},
		{"!(x == 5)", false},
	}
	for _, tc := range cases {
		got, err := c.BoolOp(tc.expr, nil)
		assert.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}
}

func TestVarOpKeepsIntWhenCurrentIsInt(t *testing.T) {
	result := vm.VarOp("+=", vm.IntVal(3), vm.IntVal(4))
	assert.Equal(t, vm.KindInt, result.Kind)
	assert.Equal(t, int32(7), result.I)
}

func TestVarOpVec2Componentwise(t *testing.T) {
	a := vm.Vec2Val(1, 2)
	b := vm.Vec2Val(3, 4)
	result := vm.VarOp("+=", a, b)
	assert.Equal(t, vm.KindVec2, result.Kind)
	got := result.AsVec2()
	assert.Equal(t, float32(4), got.X)
	assert.Equal(t, float32(6), got.Y)
}

func TestVarOpVec2ScalarMultiplyAndDivide(t *testing.T) {
	v := vm.Vec2Val(2, 4)

	scaled := vm.VarOp("*=", v, vm.IntVal(3))
	assert.Equal(t, vm.KindVec2, scaled.Kind)
	got := scaled.AsVec2()
	assert.Equal(t, float32(6), got.X)
	assert.Equal(t, float32(12), got.Y)

	halved := vm.VarOp("/=", v, vm.IntVal(2))
	got = halved.AsVec2()
	assert.Equal(t, float32(1), got.X)
	assert.Equal(t, float32(2), got.Y)
}
