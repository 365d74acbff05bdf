package model

import "cmp"

// Direction of a range.
type Direction int

const (
	To Direction = iota
	DownTo
)

func (d Direction) String() string {
	if d == DownTo {
		return "downto"
	}
	return "to"
}

// Numeric is the set of literal kinds a Range may be built from. Binding it
// as a type parameter keeps integer and real ranges apart at compile time.
type Numeric interface {
	IntegerLiteral | FloatingPointLiteral
	Literal
}

// Range pairs two bounds with a direction. Bounds are not ordered-checked on
// construction; a range with left > right under To is a null range and is
// reported by internal/check, not rejected here.
type Range[L Numeric] struct {
	left      L
	right     L
	direction Direction
}

func NewRange[L Numeric](left, right L, direction Direction) Range[L] {
	return Range[L]{left: left, right: right, direction: direction}
}

func (r Range[L]) Left() L              { return r.left }
func (r Range[L]) Right() L             { return r.right }
func (r Range[L]) Direction() Direction { return r.direction }
func (r Range[L]) Ascending() bool      { return r.direction == To }

// IsNull reports whether the range contains no values.
func (r Range[L]) IsNull() bool {
	c := compareNumeric(r.left, r.right)
	if r.direction == To {
		return c > 0
	}
	return c < 0
}

func (r Range[L]) String() string {
	return r.left.String() + " " + r.direction.String() + " " + r.right.String()
}

func (Range[L]) isConstraint() {}

func compareNumeric[L Numeric](a, b L) int {
	switch left := any(a).(type) {
	case IntegerLiteral:
		right := any(b).(IntegerLiteral)
		return cmp.Compare(left.value, right.value)
	case FloatingPointLiteral:
		right := any(b).(FloatingPointLiteral)
		return cmp.Compare(left.value, right.value)
	}
	return 0
}
