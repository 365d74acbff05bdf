package indexer

import (
	"math"
	"strconv"
	"strings"

	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
)

// constants maps normalized constant names to their static integer values.
type constants map[string]int64

// buildConstants evaluates every integer constant declared in files, in
// order, so later constants may refer to earlier ones. Constants whose value
// is not a static integer expression are left out.
func buildConstants(files []extractor.FileFacts) constants {
	consts := make(constants)
	add := func(decls []extractor.Declaration) {
		for _, d := range decls {
			if d.Kind != extractor.DeclConstant || d.Default == "" {
				continue
			}
			if v, ok := evalInteger(d.Default, consts); ok {
				consts[model.NormalizeIdentifier(d.Name)] = v
			}
		}
	}
	for _, f := range files {
		for _, p := range f.Packages {
			add(p.Declarations)
		}
		for _, b := range f.PackageBodies {
			add(b.Declarations)
		}
		for _, e := range f.Entities {
			add(e.Declarations)
		}
		for _, a := range f.Architectures {
			add(a.Declarations)
		}
	}
	return consts
}

// literalOf converts a default expression into a model literal. ind is the
// subtype of the object being initialized; when it denotes an enumerated
// type a bare identifier becomes an enumeration literal. Anything that is
// not a literal or a static integer expression yields nil.
func literalOf(text string, ind model.SubtypeIndication, consts constants) model.Literal {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if enum := enumerationOf(ind.Type); enum != nil {
		if _, err := enum.Position(text); err == nil {
			if lit, err := model.NewEnumerationLiteral(text); err == nil {
				return lit
			}
		}
	}
	if r, ok := parseCharacter(text); ok {
		return model.NewCharacterLiteral(r)
	}
	if s, ok := parseString(text); ok {
		return model.NewStringLiteral(s)
	}
	if v, ok := parseReal(text); ok {
		return model.NewFloatingPointLiteral(v)
	}
	if v, ok := evalInteger(text, consts); ok {
		return model.NewIntegerLiteral(v)
	}
	if lit, ok := parsePhysical(text, consts); ok {
		return lit
	}
	return nil
}

func enumerationOf(t model.Type) *model.EnumeratedType {
	if s, ok := t.(*model.Subtype); ok {
		t = s.Resolved()
	}
	enum, _ := t.(*model.EnumeratedType)
	return enum
}

func parseCharacter(text string) (rune, bool) {
	r := []rune(text)
	if len(r) == 3 && r[0] == '\'' && r[2] == '\'' {
		return r[1], true
	}
	return 0, false
}

func parseString(text string) (string, bool) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	inner := text[1 : len(text)-1]
	if strings.Contains(strings.ReplaceAll(inner, `""`, ""), `"`) {
		// "a" & "b" is an expression, not one literal
		return "", false
	}
	return strings.ReplaceAll(inner, `""`, `"`), true
}

func parseReal(text string) (float64, bool) {
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = strings.TrimSpace(text[1:])
	}
	if !extractor.IsRealLiteral(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// parsePhysical reads "<integer> <unit>", e.g. "10 ns".
func parsePhysical(text string, consts constants) (model.PhysicalLiteral, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || !model.IsValidIdentifier(fields[1]) {
		return model.PhysicalLiteral{}, false
	}
	v, ok := evalInteger(fields[0], consts)
	if !ok {
		return model.PhysicalLiteral{}, false
	}
	return model.NewPhysicalLiteral(v, fields[1]), true
}

// parseInteger reads a decimal or based integer literal: 42, 1_000, 1E3,
// 16#FF#, 2#1010_1010#.
func parseInteger(text string) (int64, bool) {
	s := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	if hash := strings.IndexByte(s, '#'); hash > 0 {
		base, err := strconv.Atoi(s[:hash])
		if err != nil || base < 2 || base > 16 {
			return 0, false
		}
		rest := s[hash+1:]
		end := strings.IndexByte(rest, '#')
		if end < 0 {
			return 0, false
		}
		v, err := strconv.ParseInt(rest[:end], base, 64)
		if err != nil {
			return 0, false
		}
		return scaleByExponent(v, int64(base), rest[end+1:])
	}
	mantissa, exp := s, ""
	if e := strings.IndexByte(s, 'e'); e > 0 {
		mantissa, exp = s[:e], s[e:]
	}
	v, err := strconv.ParseInt(mantissa, 10, 64)
	if err != nil {
		return 0, false
	}
	return scaleByExponent(v, 10, exp)
}

// scaleByExponent applies an "e<n>" suffix; integer literals only allow a
// non-negative exponent.
func scaleByExponent(v, base int64, exp string) (int64, bool) {
	if exp == "" {
		return v, true
	}
	if exp[0] != 'e' {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(exp[1:], "+"))
	if err != nil || n < 0 {
		return 0, false
	}
	for ; n > 0; n-- {
		if v > math.MaxInt64/base || v < math.MinInt64/base {
			return 0, false
		}
		v *= base
	}
	return v, true
}

// evalInteger evaluates a static integer expression made of literals, known
// constants, parentheses and the operators + - * / mod rem **.
func evalInteger(text string, consts constants) (int64, bool) {
	toks, ok := tokenize(text)
	if !ok || len(toks) == 0 {
		return 0, false
	}
	e := &evaluator{toks: toks, consts: consts}
	v, ok := e.expr()
	if !ok || e.pos != len(e.toks) {
		return 0, false
	}
	return v, true
}

func tokenize(text string) ([]string, bool) {
	var toks []string
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			toks = append(toks, "**")
			i += 2
		case strings.IndexByte("+-*/()", c) >= 0:
			toks = append(toks, string(c))
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(text) && (isWordByte(text[j]) || text[j] == '#' || text[j] == '.') {
				j++
			}
			toks = append(toks, text[i:j])
			i = j
		case isWordByte(c):
			j := i
			for j < len(text) && isWordByte(text[j]) {
				j++
			}
			if j < len(text) && text[j] == '\'' {
				// attribute names such as WIDTH'length are not static here
				return nil, false
			}
			toks = append(toks, text[i:j])
			i = j
		default:
			return nil, false
		}
	}
	return toks, true
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

type evaluator struct {
	toks   []string
	pos    int
	consts constants
}

func (e *evaluator) peek() string {
	if e.pos < len(e.toks) {
		return strings.ToLower(e.toks[e.pos])
	}
	return ""
}

// expr is VHDL's simple_expression: a leading sign applies to the first
// term, so -7 mod 3 is -(7 mod 3).
func (e *evaluator) expr() (int64, bool) {
	sign := int64(1)
	switch e.peek() {
	case "-":
		sign = -1
		e.pos++
	case "+":
		e.pos++
	}
	v, ok := e.term()
	v *= sign
	for ok {
		switch e.peek() {
		case "+":
			e.pos++
			r, rok := e.term()
			v, ok = v+r, rok
		case "-":
			e.pos++
			r, rok := e.term()
			v, ok = v-r, rok
		default:
			return v, true
		}
	}
	return 0, false
}

func (e *evaluator) term() (int64, bool) {
	v, ok := e.factor()
	for ok {
		op := e.peek()
		if op != "*" && op != "/" && op != "mod" && op != "rem" {
			return v, true
		}
		e.pos++
		r, rok := e.factor()
		if !rok {
			return 0, false
		}
		switch op {
		case "*":
			v *= r
		case "/", "rem":
			if r == 0 {
				return 0, false
			}
			if op == "/" {
				v /= r
			} else {
				v %= r
			}
		case "mod":
			if r == 0 {
				return 0, false
			}
			m := v % r
			if m != 0 && (m < 0) != (r < 0) {
				m += r
			}
			v = m
		}
	}
	return 0, false
}

func (e *evaluator) factor() (int64, bool) {
	switch e.peek() {
	case "-":
		e.pos++
		v, ok := e.factor()
		return -v, ok
	case "+":
		e.pos++
		return e.factor()
	}
	v, ok := e.primary()
	if !ok {
		return 0, false
	}
	if e.peek() == "**" {
		e.pos++
		n, ok := e.primary()
		if !ok || n < 0 {
			return 0, false
		}
		result := int64(1)
		for ; n > 0; n-- {
			result *= v
		}
		return result, true
	}
	return v, true
}

func (e *evaluator) primary() (int64, bool) {
	tok := e.peek()
	if tok == "" {
		return 0, false
	}
	e.pos++
	if tok == "(" {
		v, ok := e.expr()
		if !ok || e.peek() != ")" {
			return 0, false
		}
		e.pos++
		return v, true
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		return parseInteger(tok)
	}
	v, ok := e.consts[model.NormalizeIdentifier(tok)]
	return v, ok
}
