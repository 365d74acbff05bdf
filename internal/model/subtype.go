package model

import "strings"

// Subtype is "subtype S is base constraint". Both the base type and the
// constraint may be filled in after construction.
type Subtype struct {
	typeBase
	base       Type
	constraint Constraint
}

func NewSubtype(identifier string) (*Subtype, error) {
	if err := checkIdentifier("NewSubtype", identifier); err != nil {
		return nil, err
	}
	return &Subtype{typeBase: typeBase{identifier: identifier}}, nil
}

func (*Subtype) Kind() TypeKind { return SubtypeKind }

// BaseType returns nil when no base type has been set.
func (s *Subtype) BaseType() Type { return s.base }

// Constraint returns nil when the subtype adds no constraint.
func (s *Subtype) Constraint() Constraint { return s.constraint }

// SetBaseType rejects a base that is s itself or a nil pointer. A nil
// interface clears the base.
func (s *Subtype) SetBaseType(base Type) error {
	if base == Type(s) || base != nil && isNil(base) {
		return newError("Subtype.SetBaseType", s.identifier, ErrInvalidReference)
	}
	s.base = base
	return nil
}

func (s *Subtype) SetConstraint(c Constraint) {
	if isNil(c) {
		c = nil
	}
	s.constraint = c
}

// Resolved follows the chain of base types to the first type that is not a
// subtype. It returns nil if the chain ends unresolved or loops.
func (s *Subtype) Resolved() Type {
	seen := map[*Subtype]bool{s: true}
	var t Type = s.base
	for t != nil {
		sub, ok := t.(*Subtype)
		if !ok {
			return t
		}
		if seen[sub] {
			return nil
		}
		seen[sub] = true
		t = sub.base
	}
	return nil
}

// SubtypeIndication is the type of an object or element: a type mark with
// an optional range constraint or index constraint. Type holds the denoted
// declaration once a resolver has found it.
type SubtypeIndication struct {
	TypeMark string
	Range    Constraint
	Index    []Constraint
	Type     Type
}

func (s SubtypeIndication) String() string {
	var b strings.Builder
	b.WriteString(s.TypeMark)
	if len(s.Index) > 0 {
		parts := make([]string, len(s.Index))
		for i, c := range s.Index {
			parts[i] = c.String()
		}
		b.WriteString("(" + strings.Join(parts, ", ") + ")")
	}
	if s.Range != nil {
		b.WriteString(" range " + s.Range.String())
	}
	return b.String()
}
