package vm

import (
	"strconv"
	"strings"

	"github.com/dcorner/holyz/lexer"
)

// Eval computes the Value of a single expression string against locals,
// following the fast-path/general-path algorithm of spec.md §4.3.
func (c *Context) Eval(expr string, locals Locals) (Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Null, nil
	}

	head := headToken(expr)

	if fastPathEligible(expr, head) {
		if _, ok := c.Functions[head]; ok {
			return c.evalCallExpr(head, expr, locals)
		}
		if _, ok := c.Classes[head]; ok {
			return c.evalConstructExpr(head, expr, locals)
		}
		if isHolyCBuiltinName(head) {
			return c.evalBuiltinExpr(head, expr, locals)
		}
		if hasZSPrefix(expr) {
			return c.evalBuiltinExpr(head, expr, locals)
		}
		return c.resolveVariableExpr(expr, locals), nil
	}

	return c.evalGeneral(expr, locals)
}

// headToken returns the text of expr before its first '(', trimmed, or the
// whole trimmed expression when there is no '('.
func headToken(expr string) string {
	if i := strings.IndexByte(expr, '('); i >= 0 {
		return strings.TrimSpace(expr[:i])
	}
	return expr
}

// fastPathEligible reports whether expr can skip the byte-by-byte general
// path: no arithmetic operator appears outside parentheses, or the head is
// a ZS.* call (spec.md §4.3 step 2).
func fastPathEligible(expr, head string) bool {
	if hasZSPrefix(expr) {
		return true
	}
	for _, op := range []byte{'+', '-', '*', '/', '^'} {
		if lexer.CountOutsideParens(expr, op) > 0 {
			return false
		}
	}
	_ = head
	return true
}

// callArgs splits a call expression's parenthesised argument list into
// trimmed argument strings.
func callArgs(expr string) []string {
	inner := lexer.BetweenChars(expr, '(', ')')
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	parts := lexer.SplitNoOverlap(inner, ',', '(', ')')
	args := make([]string, 0, len(parts))
	for _, p := range parts {
		args = append(args, strings.TrimSpace(p))
	}
	return args
}

// evalArgs evaluates each argument string in the caller's scope.
func (c *Context) evalArgs(args []string, locals Locals) ([]Value, error) {
	vals := make([]Value, len(args))
	for i, a := range args {
		v, err := c.Eval(a, locals)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// evalCallExpr evaluates a call to a registered function.
func (c *Context) evalCallExpr(name, expr string, locals Locals) (Value, error) {
	args, err := c.evalArgs(callArgs(expr), locals)
	if err != nil {
		return Null, err
	}
	return c.Call(name, args)
}

// evalConstructExpr evaluates a call to a class name as instance
// construction, e.g. "Player(10, 20)".
func (c *Context) evalConstructExpr(className, expr string, locals Locals) (Value, error) {
	args, err := c.evalArgs(callArgs(expr), locals)
	if err != nil {
		return Null, err
	}
	return c.NewInstance(className, args)
}

// evalBuiltinExpr evaluates a call to a ZS.* or Holy-C built-in.
func (c *Context) evalBuiltinExpr(head, expr string, locals Locals) (Value, error) {
	args, err := c.evalArgs(callArgs(expr), locals)
	if err != nil {
		return Null, err
	}
	return c.CallBuiltin(head, args, locals)
}

// resolveVariableExpr resolves a bare variable reference with an optional
// dotted sub-component, or returns the raw token as a literal when there is
// no such binding (spec.md §4.3 step 2, §4.9).
func (c *Context) resolveVariableExpr(expr string, locals Locals) Value {
	if strings.Contains(expr, ".") && !looksNumeric(expr) {
		return c.evalDotted(expr, locals)
	}
	return c.lookup(expr, locals)
}

// looksNumeric reports whether expr is a bare numeric literal like "3.5",
// so that dotted-access resolution does not mistake a decimal point for a
// field access.
func looksNumeric(expr string) bool {
	s := strings.TrimPrefix(expr, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// lookup implements the locals -> globals -> literal order (spec.md §3.5).
func (c *Context) lookup(name string, locals Locals) Value {
	if v, ok := locals[name]; ok {
		return v
	}
	if v, ok := c.Globals[name]; ok {
		return v
	}
	return parseLiteral(name)
}

// parseLiteral converts a bare token with no binding into its literal
// Value: a quoted string, a numeric literal, a bool literal, or (as a last
// resort) the raw token string itself.
func parseLiteral(tok string) Value {
	t := strings.TrimSpace(tok)
	if len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"' {
		return StrVal(lexer.StringRaw(t))
	}
	switch t {
	case "true":
		return BoolVal(true)
	case "false":
		return BoolVal(false)
	case "null":
		return Null
	}
	if n, err := strconv.ParseInt(t, 10, 32); err == nil {
		return IntVal(int32(n))
	}
	if f, err := strconv.ParseFloat(t, 32); err == nil {
		return FloatVal(float32(f))
	}
	return StrVal(t)
}

// evalDotted resolves head.tail per spec.md §4.9: this.FIELD, ClassName.x
// (static), or var.x (instance attribute or aggregate sub-component).
func (c *Context) evalDotted(expr string, locals Locals) Value {
	base, field, ok := splitDotted(expr)
	if !ok {
		return c.lookup(expr, locals)
	}
	if base == "this" {
		this := c.CurrentThis()
		if this == nil {
			warnf("this.%s used outside of a method body", field)
			return Null
		}
		if v, ok := this.Attrs[field]; ok {
			return v
		}
		warnf("unknown attribute %q on %s", field, this.ClassName)
		return Null
	}
	if _, ok := c.Classes[base]; ok {
		if v, ok := c.StaticAttr(base, field); ok {
			return v
		}
		warnf("unknown static attribute %q on class %s", field, base)
		return Null
	}
	v := c.lookup(base, locals)
	switch v.Kind {
	case KindInstance:
		if av, ok := v.Inst.Attrs[field]; ok {
			return av
		}
		warnf("unknown attribute %q on %s", field, v.Inst.ClassName)
		return Null
	case KindVec2:
		return vec2Field(v.Vec, field)
	default:
		warnf("%s has no dotted field %q", base, field)
		return Null
	}
}

// splitDotted splits "base.field" on the first '.'; ok is false if expr has
// no '.'.
func splitDotted(expr string) (base, field string, ok bool) {
	i := strings.IndexByte(expr, '.')
	if i < 0 {
		return expr, "", false
	}
	return expr[:i], expr[i+1:], true
}

func vec2Field(v Vec2, field string) Value {
	switch field {
	case "x", "X":
		return FloatVal(v.X)
	case "y", "Y":
		return FloatVal(v.Y)
	default:
		warnf("Vec2 has no field %q", field)
		return Null
	}
}

// evalGeneral implements the byte-by-byte general path of spec.md §4.3
// step 3: identifier runs are replaced by call/builtin/variable results,
// then the rewritten text is either string-concatenated or arithmetic
// evaluated.
func (c *Context) evalGeneral(expr string, locals Locals) (Value, error) {
	rewritten, err := c.rewriteIdentifiers(expr, locals)
	if err != nil {
		return Null, err
	}
	if containsLettersOrQuotes(rewritten) {
		return StrVal(concatenate(rewritten)), nil
	}
	f, err := evalArith(rewritten)
	if err != nil {
		warnf("arithmetic error in %q: %v", expr, err)
		return Null, nil
	}
	return FloatVal(f), nil
}

// isIdentStart requires a letter: unlike continuation positions, a bare
// '.' or digit must never begin an identifier run, or numeric literals
// like "3.5" would be mis-split at the decimal point.
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// rewriteIdentifiers walks expr byte by byte, substituting every
// identifier run (and any call it heads) with its stringified value.
func (c *Context) rewriteIdentifiers(expr string, locals Locals) (string, error) {
	var out strings.Builder
	inQuotes := false
	i := 0
	for i < len(expr) {
		ch := expr[i]
		if ch == '"' && !lexer.IsEscaped(expr, i) {
			inQuotes = !inQuotes
			out.WriteByte(ch)
			i++
			continue
		}
		if inQuotes {
			out.WriteByte(ch)
			i++
			continue
		}
		if isIdentStart(ch) {
			j := i + 1
			for j < len(expr) && lexer.IsIdentRune(rune(expr[j]), j-i) {
				j++
			}
			name := expr[i:j]

			k := j
			for k < len(expr) && expr[k] == ' ' {
				k++
			}
			if k < len(expr) && expr[k] == '(' {
				end := matchingParen(expr, k)
				if end < 0 {
					return "", nil
				}
				v, err := c.evalHeadCall(name, expr[k:end+1], locals)
				if err != nil {
					return "", err
				}
				out.WriteString(v.AsStr())
				i = end + 1
				continue
			}

			v := c.lookup(name, locals)
			out.WriteString(v.AsStr())
			i = j
			continue
		}
		out.WriteByte(ch)
		i++
	}
	return out.String(), nil
}

// evalHeadCall evaluates a function, ZS.*, or Holy-C call found mid-
// expression during the general path.
func (c *Context) evalHeadCall(name, callExpr string, locals Locals) (Value, error) {
	if _, ok := c.Functions[name]; ok {
		return c.evalCallExpr(name, callExpr, locals)
	}
	if _, ok := c.Classes[name]; ok {
		return c.evalConstructExpr(name, callExpr, locals)
	}
	if isHolyCBuiltinName(name) || hasZSPrefix(name) {
		return c.evalBuiltinExpr(name, callExpr, locals)
	}
	warnf("unknown callable %q", name)
	return Null, nil
}

// matchingParen returns the index of the ')' matching the '(' at open, or
// -1 if unbalanced.
func matchingParen(expr string, open int) int {
	depth := 0
	inQuotes := false
	for i := open; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '"' && !lexer.IsEscaped(expr, i):
			inQuotes = !inQuotes
		case inQuotes:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func containsLettersOrQuotes(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			return true
		}
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

// concatenate discards whitespace, '+' and parens outside quotes and
// strips the quote delimiters themselves, returning the concatenated
// string content (spec.md §4.3 step 3).
func concatenate(s string) string {
	var out strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && !lexer.IsEscaped(s, i) {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			out.WriteByte(c)
			continue
		}
		switch c {
		case ' ', '\t', '+', '(', ')':
			continue
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
