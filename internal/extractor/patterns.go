package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

// id matches a basic or extended identifier.
const id = `([A-Za-z]\w*|\\(?:[^\\]|\\\\)*\\)`

var (
	// Pattern: entity <name> is ...
	entityPattern = regexp.MustCompile(`(?i)^entity\s+` + id + `\s+is\b\s*(.*)$`)

	// Pattern: architecture <name> of <entity> is ...
	archPattern = regexp.MustCompile(`(?i)^architecture\s+` + id + `\s+of\s+` + id + `\s+is\b\s*(.*)$`)

	// Pattern: package body <name> is ...
	packageBodyPattern = regexp.MustCompile(`(?i)^package\s+body\s+` + id + `\s+is\b\s*(.*)$`)

	// Pattern: package <name> is new <uninstantiated package>
	packageInstPattern = regexp.MustCompile(`(?i)^package\s+` + id + `\s+is\s+new\b`)

	// Pattern: package <name> is ...
	packagePattern = regexp.MustCompile(`(?i)^package\s+` + id + `\s+is\b\s*(.*)$`)

	// Pattern: context <name> is ...
	contextPattern = regexp.MustCompile(`(?i)^context\s+` + id + `\s+is\b\s*(.*)$`)

	// Pattern: configuration <name> of <entity> is ...
	configurationPattern = regexp.MustCompile(`(?i)^configuration\s+` + id + `\s+of\s+([\w.]+)\s+is\b\s*(.*)$`)

	// Pattern: library a, b / use a.b.all, c.d / context a.b
	clausePattern = regexp.MustCompile(`(?i)^(library|use|context)\s+(.+)$`)

	// Pattern: <label> : <rest>
	labelPattern = regexp.MustCompile(`^` + id + `\s*:\s*(.*)$`)

	// Pattern: [postponed] process [(sensitivity)] [is]
	processPattern = regexp.MustCompile(`(?i)^(?:postponed\s+)?process\b\s*(?:\((.*?)\))?`)

	// Pattern: entity <lib>.<entity>[(<arch>)]
	entityInstPattern = regexp.MustCompile(`(?i)^entity\s+([\w.]+)`)

	// Pattern: configuration <lib>.<configuration>
	configInstPattern = regexp.MustCompile(`(?i)^configuration\s+([\w.]+)`)

	// Pattern: [component] <component> generic map / port map
	compInstPattern = regexp.MustCompile(`(?i)^(?:component\s+)?([\w.]+)\s*(?:generic|port)\s+map\b`)

	// Pattern: type <name> [is <definition>]
	typePattern = regexp.MustCompile(`(?i)^type\s+` + id + `(?:\s+is\b\s*(.*))?$`)

	// Pattern: subtype <name> is <indication>
	subtypePattern = regexp.MustCompile(`(?i)^subtype\s+` + id + `\s+is\b\s*(.*)$`)

	// Pattern: constant|signal|[shared] variable <names> : <indication> [:= <default>]
	objectPattern = regexp.MustCompile(`(?i)^(constant|signal|variable|shared\s+variable)\s+([^:]+?)\s*:\s*(.*)$`)

	// Pattern: <name> = <value> <unit>
	unitPattern = regexp.MustCompile(`^` + id + `\s*=\s*(\S+)\s+` + id + `$`)

	// Pattern: array (<indexes>) of <element>
	arrayPattern = regexp.MustCompile(`(?i)^array\s*\(`)
)

// firstWord returns the lower-cased first word of s.
func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		end = len(s)
	}
	return strings.ToLower(s[:end])
}

// isEnd reports whether s is an end statement, optionally "end <word> ...".
func isEnd(s string, words ...string) bool {
	if firstWord(s) != "end" {
		return false
	}
	if len(words) == 0 {
		return true
	}
	fields := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(fields) <= i+1 || fields[i+1] != w {
			return false
		}
	}
	return true
}

// scanTop calls fn for every byte of s that is outside parentheses, string
// literals and character literals. fn returns false to stop.
func scanTop(s string, fn func(i int) bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			for i++; i < len(s) && s[i] != '"'; i++ {
			}
		case c == '\'' && i+2 < len(s) && s[i+2] == '\'' && (i == 0 || !isIdentByte(s[i-1]) && s[i-1] != ')'):
			i += 2
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && !fn(i) {
				return
			}
		}
	}
}

// splitTop splits s at sep outside parentheses and literals and trims the
// parts. Empty parts are dropped.
func splitTop(s string, sep byte) []string {
	var out []string
	for _, p := range splitTopAt(s, sep) {
		out = append(out, p.text)
	}
	return out
}

// part is a trimmed piece of a string and its offset in that string.
type part struct {
	text string
	off  int
}

// splitTopAt is splitTop keeping the offset of every part.
func splitTopAt(s string, sep byte) []part {
	var out []part
	add := func(start, end int) {
		raw := s[start:end]
		trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
		if text := strings.TrimRightFunc(trimmed, unicode.IsSpace); text != "" {
			out = append(out, part{text: text, off: start + len(raw) - len(trimmed)})
		}
	}
	start := 0
	scanTop(s, func(i int) bool {
		if s[i] == sep {
			add(start, i)
			start = i + 1
		}
		return true
	})
	add(start, len(s))
	return out
}

// indexTop returns the index of the first occurrence of sub outside
// parentheses and literals, or -1.
func indexTop(s, sub string) int {
	found := -1
	scanTop(s, func(i int) bool {
		if strings.HasPrefix(s[i:], sub) {
			found = i
			return false
		}
		return true
	})
	return found
}

// indexWord returns the index of the first whole-word, case-insensitive
// occurrence of word outside parentheses and literals, or -1.
func indexWord(s, word string) int {
	found := -1
	scanTop(s, func(i int) bool {
		if (i == 0 || !isIdentByte(s[i-1])) && hasKeyword([]byte(s[i:]), word) {
			found = i
			return false
		}
		return true
	})
	return found
}

// countWord counts whole-word occurrences of word outside parentheses and
// literals.
func countWord(s, word string) int {
	n := 0
	scanTop(s, func(i int) bool {
		if (i == 0 || !isIdentByte(s[i-1])) && hasKeyword([]byte(s[i:]), word) {
			n++
		}
		return true
	})
	return n
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		case '"':
			for i++; i < len(s) && s[i] != '"'; i++ {
			}
		}
	}
	return -1
}

// parenContent returns the text inside the first top-level parenthesis
// group of s and the text after it.
func parenContent(s string) (inner, rest string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", s, false
	}
	end := matchParen(s, open)
	if end < 0 {
		return "", s, false
	}
	return strings.TrimSpace(s[open+1 : end]), strings.TrimSpace(s[end+1:]), true
}
