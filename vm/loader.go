package vm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/dcorner/holyz/lexer"
)

// Load is the definition-loading pre-pass: a single forward scan over lines
// that populates Functions, Classes, Traits and TraitImpls, resolves
// `include` directives recursively, and returns every remaining line (in
// source order) for the caller to execute as top-level statements. Grounded
// on asm/parser.go's Parse pre-pass and
// original_source/HolyZ/Main.cpp's parseHolyZ brace-counting control flow.
func (c *Context) Load(lines []lexer.Line) ([]lexer.Line, error) {
	var topLevel []lexer.Line
	// braceDepth tracks nesting across the un-consumed if/while lines that
	// pass straight through the default case below (func/class/trait/impl
	// bodies are fully consumed by their own scanBlock, so they never
	// affect it). A typed declaration only goes straight to Globals when
	// depth is zero — one genuinely at script scope, per spec.md §4.2 —
	// so a declaration inside a top-level while/if body still re-executes
	// as a local on every pass through the loop instead of being hoisted
	// out and run once at load time.
	braceDepth := 0
	i := 0
	for i < len(lines) {
		line := lines[i]
		if len(line) == 0 {
			i++
			continue
		}
		switch line[0] {
		case "include":
			sub, err := c.loadInclude(line)
			if err != nil {
				return nil, err
			}
			topLevel = append(topLevel, sub...)
			i++
		case "func":
			next, err := c.loadFunc(lines, i)
			if err != nil {
				return nil, err
			}
			i = next
		case "class":
			next, err := c.loadClass(lines, i)
			if err != nil {
				return nil, err
			}
			i = next
		case "trait":
			next, err := c.loadTrait(lines, i)
			if err != nil {
				return nil, err
			}
			i = next
		case "impl":
			next, err := c.loadImpl(lines, i)
			if err != nil {
				return nil, err
			}
			i = next
		default:
			if braceDepth == 0 && c.isDeclKeyword(line[0]) {
				c.loadGlobalDecl(line)
				i++
				continue
			}
			braceDepth += lexer.BraceDelta(line)
			topLevel = append(topLevel, line)
			i++
		}
	}
	return topLevel, nil
}

// loadGlobalDecl handles a top-level typed declaration (`TYPE NAME = expr`,
// no leading `global` keyword) encountered during the definition-loading
// pass: spec.md §4.2 says this "declares a global variable: store the
// evaluated RHS ... in Globals" directly, rather than leaving it to be
// re-executed later against a throwaway top-level locals map.
func (c *Context) loadGlobalDecl(line lexer.Line) {
	if len(line) < 2 {
		return
	}
	typ, name := line[0], line[1]
	if len(line) >= 4 && line[2] == "=" {
		ev, err := c.Eval(lexer.Join(line[3:]), Locals{})
		if err != nil {
			warnf("evaluating global %s: %v", name, err)
			return
		}
		c.Globals[name] = coerceToType(typ, ev)
		return
	}
	c.Globals[name] = zeroForType(typ)
}

func (c *Context) loadInclude(line lexer.Line) ([]lexer.Line, error) {
	if len(line) < 2 {
		return nil, nil
	}
	path := lexer.StringRaw(lexer.Join(line[1:]))
	full := path
	if c.includeDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(c.includeDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Wrapf(err, "include %q", path)
	}
	return c.Load(lexer.Split(string(data)))
}

// funcNameAndParams splits a "func name(a, b)" header (already joined into
// one string) into its name and parameter list.
func funcNameAndParams(header lexer.Line) (name string, params []string) {
	text := lexer.Join(header)
	afterKeyword := strings.TrimSpace(strings.TrimPrefix(text, "func"))
	nameEnd := strings.IndexByte(afterKeyword, '(')
	if nameEnd < 0 {
		return strings.TrimSpace(afterKeyword), nil
	}
	name = strings.TrimSpace(afterKeyword[:nameEnd])
	return name, splitParams(lexer.BetweenChars(text, '(', ')'))
}

func splitParams(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	params := make([]string, 0, len(parts))
	for _, p := range parts {
		params = append(params, strings.TrimSpace(p))
	}
	return params
}

func (c *Context) loadFunc(lines []lexer.Line, idx int) (int, error) {
	name, params := funcNameAndParams(lines[idx])
	body, closeIdx := scanBlock(lines, idx)
	c.Functions[name] = Function{Params: params, Body: body}
	return closeIdx + 1, nil
}

// loadMethod parses a func header nested inside a class body at body[idx]
// and scans its block within that same body slice. header is the line to
// read the name/params from, which for a "static func ..." line has its
// leading "static" token already stripped by the caller; it defaults to
// body[idx] when nil.
func (c *Context) loadMethod(body []lexer.Line, idx int, header lexer.Line, static bool) (Method, int) {
	if header == nil {
		header = body[idx]
	}
	name, params := funcNameAndParams(header)
	mbody, closeIdx := scanBlock(body, idx)
	return Method{Name: name, Params: params, Body: mbody, IsStatic: static}, closeIdx + 1
}

// classNameAndSuper supports "class Name {", "class Name : Super {" and
// "class Name extends Super {".
func classNameAndSuper(header lexer.Line) (name, super string) {
	if len(header) < 2 {
		return "", ""
	}
	name = header[1]
	for k := 2; k < len(header); k++ {
		switch header[k] {
		case "{", ":", "extends":
		default:
			super = header[k]
		}
		if header[k] == "{" {
			break
		}
	}
	return name, super
}

func (c *Context) loadClass(lines []lexer.Line, idx int) (int, error) {
	name, super := classNameAndSuper(lines[idx])
	body, closeIdx := scanBlock(lines, idx)

	cls := Class{Name: name, Super: super, StaticAttrs: make(map[string]Value)}
	j := 0
	for j < len(body) {
		bline := body[j]
		if len(bline) == 0 {
			j++
			continue
		}
		switch {
		case bline[0] == "static" && len(bline) >= 2 && bline[1] == "func":
			m, next := c.loadMethod(body, j, bline[1:], true)
			cls.Methods = append(cls.Methods, m)
			j = next
		case bline[0] == "static":
			attr := c.parseAttrLine(bline[1:])
			attr.IsStatic = true
			cls.StaticAttrs[attr.Name] = attr.Default
			cls.Attributes = append(cls.Attributes, attr)
			j++
		case bline[0] == "func":
			m, next := c.loadMethod(body, j, nil, false)
			cls.Methods = append(cls.Methods, m)
			j = next
		default:
			cls.Attributes = append(cls.Attributes, c.parseAttrLine(bline))
			j++
		}
	}
	c.Classes[name] = cls
	return closeIdx + 1, nil
}

func (c *Context) parseAttrLine(tokens lexer.Line) Attribute {
	if len(tokens) < 2 {
		return Attribute{}
	}
	typ, name := tokens[0], tokens[1]
	v := zeroForType(typ)
	if len(tokens) >= 4 && tokens[2] == "=" {
		ev, err := c.Eval(lexer.Join(tokens[3:]), Locals{})
		if err == nil {
			v = coerceToType(typ, ev)
		}
	}
	return Attribute{Name: name, Default: v}
}

func (c *Context) loadTrait(lines []lexer.Line, idx int) (int, error) {
	if len(lines[idx]) < 2 {
		return 0, errors.New("trait declaration missing a name")
	}
	name := lines[idx][1]
	body, closeIdx := scanBlock(lines, idx)

	var methods []string
	for _, l := range body {
		if len(l) > 0 && l[0] == "func" {
			n, _ := funcNameAndParams(l)
			methods = append(methods, n)
		}
	}
	c.Traits[name] = Trait{Name: name, Methods: methods}
	return closeIdx + 1, nil
}

func (c *Context) loadImpl(lines []lexer.Line, idx int) (int, error) {
	header := lines[idx]
	var traitName, typeName string
	if len(header) >= 4 && header[2] == "for" {
		traitName, typeName = header[1], header[3]
	}
	body, closeIdx := scanBlock(lines, idx)
	c.TraitImpls = append(c.TraitImpls, TraitImpl{TypeName: typeName, TraitName: traitName, Body: body})
	return closeIdx + 1, nil
}
