package vm

import (
	"strings"

	"github.com/dcorner/holyz/lexer"
)

// BoolOp evaluates a boolean condition used by `if` and `while` (spec.md
// §4.4): ||, then &&, then unary !, then a single comparison
// (==, !=, <, >, <=, >=), falling back to the truthiness of a plain
// expression when no comparison operator is present. Grounded on
// vm/run.go's chain of jump-on-comparison opcodes, generalized from
// integer-only comparisons to HolyZ's coercible Value comparisons.
func (c *Context) BoolOp(cond string, locals Locals) (bool, error) {
	return c.boolOr(cond, locals)
}

func (c *Context) boolOr(s string, locals Locals) (bool, error) {
	parts := splitTopLevel(s, "||")
	if len(parts) == 1 {
		return c.boolAnd(s, locals)
	}
	for _, p := range parts {
		v, err := c.boolAnd(p, locals)
		if err != nil {
			return false, err
		}
		if v {
			return true, nil
		}
	}
	return false, nil
}

func (c *Context) boolAnd(s string, locals Locals) (bool, error) {
	parts := splitTopLevel(s, "&&")
	if len(parts) == 1 {
		return c.boolNot(s, locals)
	}
	for _, p := range parts {
		v, err := c.boolNot(p, locals)
		if err != nil {
			return false, err
		}
		if !v {
			return false, nil
		}
	}
	return true, nil
}

func (c *Context) boolNot(s string, locals Locals) (bool, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "!") && !strings.HasPrefix(t, "!=") {
		v, err := c.boolNot(t[1:], locals)
		return !v, err
	}
	return c.boolCompare(t, locals)
}

var comparisonOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (c *Context) boolCompare(s string, locals Locals) (bool, error) {
	t := unwrapParens(strings.TrimSpace(s))
	for _, op := range comparisonOps {
		if idx := findTopLevelOp(t, op); idx >= 0 {
			lhs := strings.TrimSpace(t[:idx])
			rhs := strings.TrimSpace(t[idx+len(op):])
			lv, err := c.Eval(lhs, locals)
			if err != nil {
				return false, err
			}
			rv, err := c.Eval(rhs, locals)
			if err != nil {
				return false, err
			}
			return compareValues(lv, rv, op), nil
		}
	}
	v, err := c.Eval(t, locals)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

func compareValues(lv, rv Value, op string) bool {
	switch op {
	case "==":
		return Equal(lv, rv)
	case "!=":
		return !Equal(lv, rv)
	default:
		lf, rf := lv.AsFloat(), rv.AsFloat()
		switch op {
		case "<":
			return lf < rf
		case "<=":
			return lf <= rf
		case ">":
			return lf > rf
		case ">=":
			return lf >= rf
		}
		return false
	}
}

// unwrapParens strips one layer of fully-enclosing parentheses, e.g.
// "(a == b)" -> "a == b".
func unwrapParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	if matchingParen(s, 0) != len(s)-1 {
		return s
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}

// splitTopLevel splits s on every occurrence of sep that sits outside
// quotes and outside parentheses.
func splitTopLevel(s string, sep string) []string {
	var parts []string
	depth := 0
	inQuotes := false
	last := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && !lexer.IsEscaped(s, i):
			inQuotes = !inQuotes
		case inQuotes:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[last:i])
			i += len(sep) - 1
			last = i + 1
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// findTopLevelOp returns the index of the first occurrence of op outside
// quotes and parentheses, or -1.
func findTopLevelOp(s, op string) int {
	depth := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && !lexer.IsEscaped(s, i):
			inQuotes = !inQuotes
		case inQuotes:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], op):
			return i
		}
	}
	return -1
}

