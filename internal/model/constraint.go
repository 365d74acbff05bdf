package model

// Constraint restricts the values of a type: a numeric Range or an index
// subtype of an array.
type Constraint interface {
	String() string
	isConstraint()
}

var (
	_ Constraint = Range[IntegerLiteral]{}
	_ Constraint = Range[FloatingPointLiteral]{}
	_ Constraint = IndexSubtypeConstraint{}
)

// IndexSubtypeConstraint names the index subtype of an array dimension, as in
// "natural range <>" (Unbounded) or "state_t".
type IndexSubtypeConstraint struct {
	TypeMark  string
	Unbounded bool
}

func (c IndexSubtypeConstraint) String() string {
	if c.Unbounded {
		return c.TypeMark + " range <>"
	}
	return c.TypeMark
}

func (IndexSubtypeConstraint) isConstraint() {}
