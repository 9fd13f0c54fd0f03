package vm

// VarOp applies a compound assignment operator to current, producing the
// new value to store (spec.md §4.5). Scalars support = += -= *= /=; Vec2
// supports componentwise += -= against a vector right-hand side and
// scalar-multiplying *= /= against a scalar right-hand side; every other
// aggregate kind (Pointer, Result, Option, ClassInstance) only supports
// plain assignment, falling back to replacing current with rhs for any
// other operator. Grounded on original_source/HolyZ/Main.cpp's
// varOperation, adapted from a giant string-compare switch to a Go switch
// over both sides' Kind, and on vm/run.go's compound-assignment opcodes
// for the scalar arithmetic shape.
func VarOp(op string, current, rhs Value) Value {
	if op == "=" {
		return rhs
	}
	if current.Kind == KindVec2 {
		return vec2Op(op, current.Vec, rhs)
	}
	if isScalar(current.Kind) || current.Kind == KindNull {
		return scalarOp(op, current, rhs)
	}
	return rhs
}

func scalarOp(op string, current, rhs Value) Value {
	switch op {
	case "+=":
		if current.Kind == KindStr || rhs.Kind == KindStr {
			return StrVal(current.AsStr() + rhs.AsStr())
		}
		return numericResult(current, current.AsFloat()+rhs.AsFloat())
	case "-=":
		return numericResult(current, current.AsFloat()-rhs.AsFloat())
	case "*=":
		return numericResult(current, current.AsFloat()*rhs.AsFloat())
	case "/=":
		d := rhs.AsFloat()
		if d == 0 {
			warnf("division by zero in /=")
			return current
		}
		return numericResult(current, current.AsFloat()/d)
	default:
		return rhs
	}
}

// numericResult keeps the result an Int whenever current was Int, truncating
// any fractional part toward zero (so an int 5 /= 2 gives 2), and yields a
// Float otherwise; this preserves the declared-type feel of `int x += 1`
// staying an int.
func numericResult(current Value, f float32) Value {
	if current.Kind == KindInt {
		return IntVal(int32(f))
	}
	return FloatVal(f)
}

// vec2Op applies a compound-assignment operator to a current Vec2: "+="/"-="
// take a vector right-hand side and combine componentwise; "*="/"/=" take a
// scalar right-hand side and scale both components by it, matching
// original_source/HolyZ/Main.cpp:434-437's `AnyAsFloat(otherExpression)`
// scalar semantics for Vec2 multiply/divide (spec.md §4.5).
func vec2Op(op string, a Vec2, rhs Value) Value {
	switch op {
	case "+=":
		b := rhs.AsVec2()
		return Vec2Val(a.X+b.X, a.Y+b.Y)
	case "-=":
		b := rhs.AsVec2()
		return Vec2Val(a.X-b.X, a.Y-b.Y)
	case "*=":
		s := rhs.AsFloat()
		return Vec2Val(a.X*s, a.Y*s)
	case "/=":
		s := rhs.AsFloat()
		if s == 0 {
			warnf("division by zero in /=")
			return Vec2Val(a.X, a.Y)
		}
		return Vec2Val(a.X/s, a.Y/s)
	default:
		return rhs
	}
}
