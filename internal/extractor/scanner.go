package extractor

import "strings"

// statement is one VHDL statement with comments removed and whitespace
// collapsed to single spaces. marks records where a line break was
// collapsed, so that text inside a statement keeps its source line.
type statement struct {
	text  string
	line  int
	marks []lineMark
}

// lineMark says that text from off onwards starts on line.
type lineMark struct {
	off  int
	line int
}

// lineAt returns the source line of the byte at off in s.text.
func (s statement) lineAt(off int) int {
	line := s.line
	for _, m := range s.marks {
		if m.off > off {
			break
		}
		line = m.line
	}
	return line
}

// splitStatements cuts src at semicolons outside parentheses, strings and
// character literals. The keyword begin is emitted as a statement of its
// own because it is not terminated by a semicolon. line is the number of
// the first line of src.
func splitStatements(src []byte, line int) []statement {
	var (
		out       []statement
		cur       strings.Builder
		curLine   int
		lastLine  int
		marks     []lineMark
		depth     int
		pendingWS bool
	)

	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			out = append(out, statement{text: text, line: curLine, marks: marks})
		}
		cur.Reset()
		marks = nil
		depth = 0
		pendingWS = false
	}
	write := func(s string) {
		if cur.Len() == 0 {
			curLine = line
		} else if pendingWS {
			cur.WriteByte(' ')
		}
		if line != lastLine && cur.Len() > 0 {
			marks = append(marks, lineMark{off: cur.Len(), line: line})
		}
		lastLine = line
		pendingWS = false
		cur.WriteString(s)
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			line++
			pendingWS = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			pendingWS = true
		case c == '-' && i+1 < len(src) && src[i+1] == '-':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			i-- // newline handled by the next iteration
			pendingWS = true
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			i++ // skip the closing slash
			pendingWS = true
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '\n' {
				if src[j] == '"' {
					if j+1 < len(src) && src[j+1] == '"' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			// An unterminated string stops at the end of its line.
			write(string(src[i:j]))
			i = j - 1
		case c == '\'' && i+2 < len(src) && src[i+2] == '\'' && (pendingWS || !isTick(&cur)):
			write(string(src[i : i+3]))
			i += 2
		case c == '(':
			depth++
			write("(")
		case c == ')':
			if depth > 0 {
				depth--
			}
			write(")")
		case c == ';' && depth == 0:
			flush()
		case isWordStart(src, i) && depth == 0 && hasKeyword(src[i:], "begin"):
			flush()
			out = append(out, statement{text: string(src[i : i+5]), line: line})
			i += 4
		default:
			write(string(src[i : i+1]))
		}
	}
	flush()
	return out
}

// isTick reports whether a quote following the text written so far is an
// attribute tick (clk'event, t'('0')) rather than the start of a
// character literal.
func isTick(cur *strings.Builder) bool {
	s := cur.String()
	if s == "" || strings.HasSuffix(s, " ") {
		return false
	}
	last := s[len(s)-1]
	return isIdentByte(last) || last == ')'
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWordStart(src []byte, i int) bool {
	return i == 0 || !isIdentByte(src[i-1]) && src[i-1] != '\\'
}

// hasKeyword reports whether src starts with word (case-insensitive) as a
// whole word.
func hasKeyword(src []byte, word string) bool {
	if len(src) < len(word) || !strings.EqualFold(string(src[:len(word)]), word) {
		return false
	}
	return len(src) == len(word) || !isIdentByte(src[len(word)])
}
