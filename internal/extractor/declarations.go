package extractor

import (
	"strconv"
	"strings"
)

// interfaceElement is one "names : [mode] indication [:= default]" entry of
// a generic or port clause.
type interfaceElement struct {
	names   []string
	mode    string
	typ     Indication
	initial string
	off     int // offset of the element in the clause text
}

var interfaceClasses = map[string]bool{"signal": true, "constant": true, "variable": true, "file": true}

var portModes = map[string]bool{"in": true, "out": true, "inout": true, "buffer": true, "linkage": true}

func parseInterfaceList(text string) []interfaceElement {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return nil
	}
	end := matchParen(text, open)
	if end < 0 {
		return nil
	}
	var out []interfaceElement
	for _, seg := range splitTopAt(text[open+1:end], ';') {
		item := seg.text
		switch firstWord(item) {
		case "type", "function", "procedure", "pure", "impure", "package":
			// VHDL-2008 generic types, subprograms and packages
			continue
		}
		colon := indexTop(item, ":")
		if colon < 0 {
			continue
		}
		names := splitTop(item[:colon], ',')
		if len(names) > 0 {
			if f := strings.Fields(names[0]); len(f) == 2 && interfaceClasses[strings.ToLower(f[0])] {
				names[0] = f[1]
			}
		}
		rest := strings.TrimSpace(item[colon+1:])
		elem := interfaceElement{names: names, off: open + 1 + seg.off}
		rest, elem.initial = splitDefault(rest)
		if w := firstWord(rest); portModes[w] {
			elem.mode = w
			rest = strings.TrimSpace(rest[len(w):])
		}
		elem.typ = parseIndication(rest)
		out = append(out, elem)
	}
	return out
}

// parseGenerics reads a generic clause. lineAt maps an offset in text to its
// source line.
func parseGenerics(text string, lineAt func(int) int) []Generic {
	var out []Generic
	for _, elem := range parseInterfaceList(text) {
		line := lineAt(elem.off)
		for _, name := range elem.names {
			out = append(out, Generic{Name: name, Type: elem.typ, Default: elem.initial, Line: line})
		}
	}
	return out
}

func parsePorts(text string, lineAt func(int) int) []Port {
	var out []Port
	for _, elem := range parseInterfaceList(text) {
		line := lineAt(elem.off)
		mode := elem.mode
		if mode == "" {
			mode = "in"
		}
		for _, name := range elem.names {
			out = append(out, Port{Name: name, Direction: mode, Type: elem.typ, Default: elem.initial, Line: line})
		}
	}
	return out
}

// splitDefault separates "indication := default".
func splitDefault(s string) (string, string) {
	if i := indexTop(s, ":="); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+2:])
	}
	return strings.TrimSpace(s), ""
}

func parseObjects(text string, line int) []Declaration {
	m := objectPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	kind := strings.ToLower(m[1])
	shared := strings.HasPrefix(kind, "shared")
	if shared {
		kind = DeclVariable
	}
	rest, initial := splitDefault(m[3])
	ind := parseIndication(rest)

	var out []Declaration
	for _, name := range splitTop(m[2], ',') {
		out = append(out, Declaration{
			Kind:       kind,
			Name:       name,
			Line:       line,
			Indication: ind,
			Default:    initial,
			Shared:     shared,
		})
	}
	return out
}

// parseTypeDef classifies the text after "type T is". For records and
// protected types it also returns the text that followed the keyword, which
// holds the first element or item.
func parseTypeDef(def string) (*TypeDef, string) {
	def = strings.TrimSpace(def)
	word := firstWord(def)
	switch {
	case def == "":
		return &TypeDef{Class: ClassIncomplete}, ""
	case strings.HasPrefix(def, "("):
		inner, _, _ := parenContent(def)
		return &TypeDef{Class: ClassEnum, Literals: splitTop(inner, ',')}, ""
	case word == "range":
		body := strings.TrimSpace(def[len(word):])
		td := &TypeDef{Class: ClassInteger}
		if i := indexWord(body, "units"); i >= 0 {
			td.Class = ClassPhysical
			td.PrimaryUnit = strings.TrimSpace(body[i+len("units"):])
			body = strings.TrimSpace(body[:i])
		}
		if r, ok := parseRange(body); ok {
			td.Range = r
			if td.Class == ClassInteger && (IsRealLiteral(r.Left) || IsRealLiteral(r.Right)) {
				td.Class = ClassReal
			}
		}
		return td, ""
	case arrayPattern.MatchString(def):
		inner, rest, _ := parenContent(def)
		td := &TypeDef{Class: ClassArray}
		for _, idx := range splitTop(inner, ',') {
			td.Indexes = append(td.Indexes, parseIndex(idx))
		}
		if firstWord(rest) == "of" {
			elem := parseIndication(rest[len("of"):])
			td.Element = &elem
		}
		return td, ""
	case word == "record":
		return &TypeDef{Class: ClassRecord}, strings.TrimSpace(def[len(word):])
	case word == "access":
		return &TypeDef{Class: ClassAccess, Target: strings.TrimSpace(def[len(word):])}, ""
	case word == "file":
		target := strings.TrimSpace(def[len(word):])
		if firstWord(target) == "of" {
			target = strings.TrimSpace(target[len("of"):])
		}
		return &TypeDef{Class: ClassFile, Target: target}, ""
	case word == "protected":
		return &TypeDef{Class: ClassProtected}, strings.TrimSpace(def[len(word):])
	}
	return &TypeDef{Class: ClassIncomplete}, ""
}

// parseRange splits "left to right" or "left downto right".
func parseRange(s string) (*RangeExpr, bool) {
	s = strings.TrimSpace(s)
	at, dir := indexWord(s, "to"), "to"
	if d := indexWord(s, "downto"); d >= 0 && (at < 0 || d < at) {
		at, dir = d, "downto"
	}
	if at < 0 {
		return nil, false
	}
	left := strings.TrimSpace(s[:at])
	right := strings.TrimSpace(s[at+len(dir):])
	if left == "" || right == "" {
		return nil, false
	}
	return &RangeExpr{Left: left, Right: right, Direction: dir}, true
}

// parseIndex reads one array dimension.
func parseIndex(s string) Index {
	s = strings.TrimSpace(s)
	if i := indexWord(s, "range"); i >= 0 {
		mark := strings.TrimSpace(s[:i])
		rest := strings.TrimSpace(s[i+len("range"):])
		if rest == "<>" {
			return Index{TypeMark: mark, Unbounded: true}
		}
		r, _ := parseRange(rest)
		return Index{TypeMark: mark, Range: r}
	}
	if r, ok := parseRange(s); ok {
		return Index{Range: r}
	}
	return Index{TypeMark: s}
}

// parseIndication reads "[resolution] type_mark [range ...|(index, ...)]".
func parseIndication(s string) Indication {
	s = strings.TrimSpace(s)
	ind := Indication{Text: s}
	body := s
	if strings.HasPrefix(body, "(") {
		// VHDL-2008 element resolution: (resolved) std_ulogic_vector
		if _, rest, ok := parenContent(body); ok {
			body = rest
		}
	}
	if i := indexWord(body, "range"); i >= 0 {
		if r, ok := parseRange(body[i+len("range"):]); ok {
			ind.Range = r
		}
		body = strings.TrimSpace(body[:i])
	} else if open := strings.IndexByte(body, '('); open >= 0 {
		if inner, _, ok := parenContent(body); ok {
			for _, idx := range splitTop(inner, ',') {
				ind.Index = append(ind.Index, parseIndex(idx))
			}
		}
		body = strings.TrimSpace(body[:open])
	}
	fields := strings.Fields(body)
	if n := len(fields); n > 0 {
		ind.TypeMark = fields[n-1]
		ind.Resolution = strings.Join(fields[:n-1], " ")
	}
	return ind
}

// IsRealLiteral reports whether s is an abstract literal with a fraction,
// such as 1.0, -2.5E-3 or 1_000.5.
func IsRealLiteral(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if !strings.Contains(s, ".") || strings.Contains(s, "#") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
