package vm

import (
	"fmt"
	"strings"

	"github.com/dcorner/holyz/lexer"
)

// Exec executes the single statement at lines[*i] against locals, advancing
// *i past any block it consumes (if/while bodies). It returns Null to mean
// "keep executing the enclosing body", Break/Continue to propagate a loop
// control signal, or any other Value to mean "return this from the
// enclosing function/method" (spec.md §4.6). Grounded on vm/run.go's main
// fetch-dispatch loop, generalized from an opcode switch to a statement
// head-keyword switch, and on original_source/HolyZ/Main.cpp's ProcessLine
// for statement-kind ordering.
func (c *Context) Exec(lines []lexer.Line, i *int, locals Locals) (Value, error) {
	line := lines[*i]
	if len(line) == 0 {
		return Null, nil
	}
	head := line[0]

	switch head {
	case "#holyc":
		if len(line) > 1 {
			c.HolyCMode = strings.EqualFold(line[1], "on")
		}
		return Null, nil
	case "return":
		if len(line) == 1 {
			return BoolVal(true), nil
		}
		return c.Eval(lexer.Join(line[1:]), locals)
	case "break":
		return Break, nil
	case "continue":
		return Continue, nil
	case "print":
		v, err := c.Eval(lexer.Join(line[1:]), locals)
		if err != nil {
			return Null, err
		}
		fmt.Fprintln(c.Output, v.AsStr())
		return Null, nil
	}

	if c.HolyCMode && isStringLiteralLine(line) {
		fmt.Fprintln(c.Output, lexer.StringRaw(line[0]))
		return Null, nil
	}

	switch head {
	case "global":
		return Null, c.execGlobalDecl(line, locals)
	case "include":
		// Resolved during the definition-loading pre-pass; a no-op here.
		return Null, nil
	case "if":
		return c.execIf(lines, i, locals)
	case "while":
		return c.execWhile(lines, i, locals)
	}

	if c.isDeclKeyword(head) {
		return Null, c.execLocalDecl(line, locals)
	}
	if looksLikeDottedAssignment(line) {
		return Null, c.execDottedAssign(line, locals)
	}
	if looksLikeAssignment(line) {
		return Null, c.execAssign(line, locals)
	}

	_, err := c.Eval(lexer.Join(line), locals)
	return Null, err
}

// isStringLiteralLine reports whether line is a single double-quoted
// string-literal token, the only shape spec.md §4.6 item 2 auto-prints
// under Holy-C mode (confirmed verbatim by
// original_source/HolyZ/Main.cpp:842,1462's
// `words.at(lineNum).size()==1 && startsWith("\"") && endsWith("\"")`
// check). Any other expression statement — including a bare arithmetic
// expression, a `ZS.<path>(...)` call, or a registered-function call —
// is evaluated for side effects only and its result discarded, per
// statement forms 5 and 6.
func isStringLiteralLine(line lexer.Line) bool {
	if len(line) != 1 {
		return false
	}
	tok := line[0]
	return len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"'
}

// runBlock executes a sequence of already-isolated body lines, stopping and
// propagating the first non-Null control signal (break, continue, return).
func (c *Context) runBlock(body []lexer.Line, locals Locals) (Value, error) {
	for i := 0; i < len(body); i++ {
		v, err := c.Exec(body, &i, locals)
		if err != nil {
			return Null, err
		}
		if v.Kind != KindNull {
			return v, nil
		}
	}
	return Null, nil
}

// scanBlock returns the lines strictly between headerIdx's opening brace
// and its matching closing brace (assumed to be alone on its own line),
// plus the index of that closing line.
func scanBlock(lines []lexer.Line, headerIdx int) (body []lexer.Line, closeIdx int) {
	depth := lexer.BraceDelta(lines[headerIdx])
	idx := headerIdx + 1
	start := idx
	for idx < len(lines) {
		depth += lexer.BraceDelta(lines[idx])
		if depth <= 0 {
			break
		}
		idx++
	}
	return lines[start:idx], idx
}

// conditionExpr extracts the condition text from an `if`/`while`/`else if`
// header: the tokens after the keyword(s), up to but excluding the trailing
// block-opening `{`. spec.md §4.6 items 12-13 write this unparenthesized (`while i < 3 {`);
// a fully-parenthesized condition like `(i < 3)` still works unchanged, since
// BoolOp's comparator stage unwraps one enclosing paren layer.
func conditionExpr(header lexer.Line) string {
	toks := header[1:]
	if header[0] == "else" && len(toks) > 0 && toks[0] == "if" {
		toks = toks[1:]
	}
	n := len(toks)
	if n == 0 {
		return ""
	}
	last := toks[n-1]
	switch {
	case last == "{":
		toks = toks[:n-1]
	case strings.HasSuffix(last, "{"):
		trimmed := make(lexer.Line, n)
		copy(trimmed, toks)
		trimmed[n-1] = strings.TrimSuffix(last, "{")
		toks = trimmed
	}
	return lexer.Join(toks)
}

func (c *Context) execIf(lines []lexer.Line, i *int, locals Locals) (Value, error) {
	header := lines[*i]
	truth, err := c.BoolOp(conditionExpr(header), locals)
	if err != nil {
		return Null, err
	}

	body, closeIdx := scanBlock(lines, *i)

	next := closeIdx + 1
	if next < len(lines) && len(lines[next]) > 0 && lines[next][0] == "else" {
		if len(lines[next]) > 1 && lines[next][1] == "if" {
			if truth {
				*i = skipIfChain(lines, next)
				return c.runBlock(body, locals)
			}
			*i = next
			return c.execIf(lines, i, locals)
		}
		elseBody, elseClose := scanBlock(lines, next)
		*i = elseClose
		if truth {
			return c.runBlock(body, locals)
		}
		return c.runBlock(elseBody, locals)
	}

	*i = closeIdx
	if truth {
		return c.runBlock(body, locals)
	}
	return Null, nil
}

// skipIfChain advances past an "else if"/"else" chain whose condition does
// not need evaluating because an earlier branch in the chain already fired.
func skipIfChain(lines []lexer.Line, idx int) int {
	_, closeIdx := scanBlock(lines, idx)
	next := closeIdx + 1
	if next < len(lines) && len(lines[next]) > 0 && lines[next][0] == "else" {
		if len(lines[next]) > 1 && lines[next][1] == "if" {
			return skipIfChain(lines, next)
		}
		_, elseClose := scanBlock(lines, next)
		return elseClose
	}
	return closeIdx
}

func (c *Context) execWhile(lines []lexer.Line, i *int, locals Locals) (Value, error) {
	header := lines[*i]
	cond := conditionExpr(header)
	body, closeIdx := scanBlock(lines, *i)
	*i = closeIdx

	for {
		truth, err := c.BoolOp(cond, locals)
		if err != nil {
			return Null, err
		}
		if !truth {
			return Null, nil
		}
		v, err := c.runBlock(body, locals)
		if err != nil {
			return Null, err
		}
		switch v.Kind {
		case KindBreak:
			return Null, nil
		case KindContinue, KindNull:
			continue
		default:
			return v, nil
		}
	}
}

// isDeclKeyword reports whether tok opens a typed local declaration: a
// primitive type name or a known class name used as a type.
func (c *Context) isDeclKeyword(tok string) bool {
	if isPrimitiveType(tok) {
		return true
	}
	_, ok := c.Classes[tok]
	return ok
}

func isPrimitiveType(tok string) bool {
	switch tok {
	case "int", "float", "bool", "string", "Vec2", "Result", "Option", "Pointer":
		return true
	default:
		return false
	}
}

func (c *Context) execLocalDecl(line lexer.Line, locals Locals) error {
	if len(line) < 2 {
		return nil
	}
	typ, name := line[0], line[1]
	if len(line) >= 4 && line[2] == "=" {
		ev, err := c.Eval(lexer.Join(line[3:]), locals)
		if err != nil {
			return err
		}
		locals[name] = coerceToType(typ, ev)
		return nil
	}
	locals[name] = zeroForType(typ)
	return nil
}

func (c *Context) execGlobalDecl(line lexer.Line, locals Locals) error {
	if len(line) < 3 {
		return nil
	}
	typ, name := line[1], line[2]
	if len(line) >= 5 && line[3] == "=" {
		ev, err := c.Eval(lexer.Join(line[4:]), locals)
		if err != nil {
			return err
		}
		c.Globals[name] = coerceToType(typ, ev)
		return nil
	}
	c.Globals[name] = zeroForType(typ)
	return nil
}

func coerceToType(typ string, v Value) Value {
	switch typ {
	case "int":
		return IntVal(v.AsInt())
	case "float":
		return FloatVal(v.AsFloat())
	case "bool":
		return BoolVal(v.AsBool())
	case "string":
		return StrVal(v.AsStr())
	default:
		return v
	}
}

func zeroForType(typ string) Value {
	switch typ {
	case "int":
		return IntVal(0)
	case "float":
		return FloatVal(0)
	case "bool":
		return BoolVal(false)
	case "string":
		return StrVal("")
	case "Vec2":
		return Vec2Val(0, 0)
	default:
		return Null
	}
}

func isAssignOp(tok string) bool {
	switch tok {
	case "=", "+=", "-=", "*=", "/=":
		return true
	default:
		return false
	}
}

func looksLikeAssignment(line lexer.Line) bool {
	return len(line) >= 3 && !strings.Contains(line[0], ".") && isAssignOp(line[1])
}

func looksLikeDottedAssignment(line lexer.Line) bool {
	return len(line) >= 3 && strings.Contains(line[0], ".") && isAssignOp(line[1])
}

func (c *Context) execAssign(line lexer.Line, locals Locals) error {
	name, op := line[0], line[1]
	rv, err := c.Eval(lexer.Join(line[2:]), locals)
	if err != nil {
		return err
	}
	if cur, ok := locals[name]; ok {
		locals[name] = VarOp(op, cur, rv)
		return nil
	}
	if cur, ok := c.Globals[name]; ok {
		c.Globals[name] = VarOp(op, cur, rv)
		return nil
	}
	locals[name] = VarOp(op, Null, rv)
	return nil
}

// assignVar writes v back to whichever scope currently holds name: locals
// if bound there, else Globals if bound there, else a new local.
func (c *Context) assignVar(name string, v Value, locals Locals) {
	if _, ok := locals[name]; ok {
		locals[name] = v
		return
	}
	if _, ok := c.Globals[name]; ok {
		c.Globals[name] = v
		return
	}
	locals[name] = v
}

func (c *Context) execDottedAssign(line lexer.Line, locals Locals) error {
	base, field, _ := splitDotted(line[0])
	op := line[1]
	rv, err := c.Eval(lexer.Join(line[2:]), locals)
	if err != nil {
		return err
	}

	if base == "this" {
		this := c.CurrentThis()
		if this == nil {
			warnf("this.%s assigned outside of a method body", field)
			return nil
		}
		this.Attrs[field] = VarOp(op, this.Attrs[field], rv)
		return nil
	}
	if _, ok := c.Classes[base]; ok {
		cur, _ := c.StaticAttr(base, field)
		c.SetStaticAttr(base, field, VarOp(op, cur, rv))
		return nil
	}

	v := c.lookup(base, locals)
	switch v.Kind {
	case KindInstance:
		v.Inst.Attrs[field] = VarOp(op, v.Inst.Attrs[field], rv)
		return nil
	case KindVec2:
		nv := v.Vec
		switch field {
		case "x", "X":
			nv.X = VarOp(op, FloatVal(nv.X), rv).AsFloat()
		case "y", "Y":
			nv.Y = VarOp(op, FloatVal(nv.Y), rv).AsFloat()
		default:
			warnf("Vec2 has no field %q", field)
			return nil
		}
		c.assignVar(base, Value{Kind: KindVec2, Vec: nv}, locals)
		return nil
	default:
		warnf("%s has no assignable field %q", base, field)
		return nil
	}
}
