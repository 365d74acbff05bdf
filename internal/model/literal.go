package model

import (
	"strconv"
	"strings"
)

// Literal is a constant value node. Literals are immutable values and compare
// with ==.
type Literal interface {
	String() string
	isLiteral()
}

// IntegerLiteral is a universal integer value such as 42.
type IntegerLiteral struct {
	value int64
}

func NewIntegerLiteral(value int64) IntegerLiteral {
	return IntegerLiteral{value: value}
}

func (l IntegerLiteral) Value() int64   { return l.value }
func (l IntegerLiteral) String() string { return strconv.FormatInt(l.value, 10) }
func (IntegerLiteral) isLiteral()       {}

// FloatingPointLiteral is a universal real value such as 1.0.
type FloatingPointLiteral struct {
	value float64
}

func NewFloatingPointLiteral(value float64) FloatingPointLiteral {
	return FloatingPointLiteral{value: value}
}

func (l FloatingPointLiteral) Value() float64 { return l.value }

func (l FloatingPointLiteral) String() string {
	s := strconv.FormatFloat(l.value, 'g', -1, 64)
	// VHDL real literals always carry a decimal point.
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (FloatingPointLiteral) isLiteral() {}

// CharacterLiteral is a single character such as '0'.
type CharacterLiteral struct {
	value rune
}

func NewCharacterLiteral(value rune) CharacterLiteral {
	return CharacterLiteral{value: value}
}

func (l CharacterLiteral) Value() rune    { return l.value }
func (l CharacterLiteral) String() string { return "'" + string(l.value) + "'" }
func (CharacterLiteral) isLiteral()       {}

// StringLiteral is a string such as "fast". The value excludes the quotes.
type StringLiteral struct {
	value string
}

func NewStringLiteral(value string) StringLiteral {
	return StringLiteral{value: value}
}

func (l StringLiteral) Value() string { return l.value }

func (l StringLiteral) String() string {
	return `"` + strings.ReplaceAll(l.value, `"`, `""`) + `"`
}

func (StringLiteral) isLiteral() {}

// PhysicalLiteral is an integer abstract literal followed by a unit name,
// such as 10 ns.
type PhysicalLiteral struct {
	value int64
	unit  string
}

func NewPhysicalLiteral(value int64, unit string) PhysicalLiteral {
	return PhysicalLiteral{value: value, unit: unit}
}

func (l PhysicalLiteral) Value() int64   { return l.value }
func (l PhysicalLiteral) Unit() string   { return l.unit }
func (l PhysicalLiteral) String() string { return strconv.FormatInt(l.value, 10) + " " + l.unit }
func (PhysicalLiteral) isLiteral()       {}

// EnumerationLiteral is an identifier or character literal declared by an
// enumerated type, e.g. IDLE or '1'.
type EnumerationLiteral struct {
	text string
}

// NewEnumerationLiteral validates text as either an identifier or a
// character literal.
func NewEnumerationLiteral(text string) (EnumerationLiteral, error) {
	if !isCharacterLiteral(text) && !IsValidIdentifier(text) {
		return EnumerationLiteral{}, newError("NewEnumerationLiteral", text, ErrInvalidIdentifier)
	}
	return EnumerationLiteral{text: text}, nil
}

func (l EnumerationLiteral) Identifier() string { return l.text }
func (l EnumerationLiteral) String() string     { return l.text }
func (EnumerationLiteral) isLiteral()           {}

func (l EnumerationLiteral) key() string {
	if isCharacterLiteral(l.text) {
		return l.text
	}
	return NormalizeIdentifier(l.text)
}

func isCharacterLiteral(text string) bool {
	r := []rune(text)
	return len(r) == 3 && r[0] == '\'' && r[2] == '\''
}
