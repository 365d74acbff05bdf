package model

// TypeKind tags the variants of Type. Consumers switch on the concrete type
// or on Kind; both are closed sets.
type TypeKind int

const (
	IntegerKind TypeKind = iota + 1
	RealKind
	PhysicalKind
	EnumeratedKind
	ArrayKind
	RecordKind
	SubtypeKind
)

var typeKindNames = map[TypeKind]string{
	IntegerKind:    "integer",
	RealKind:       "real",
	PhysicalKind:   "physical",
	EnumeratedKind: "enum",
	ArrayKind:      "array",
	RecordKind:     "record",
	SubtypeKind:    "subtype",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// DeclaredItem is a declaration in the declarative part of a design unit.
// Implemented by every Type and by Constant, Signal and Variable.
type DeclaredItem interface {
	Identifier() string
	isDeclaredItem()
}

// Type is a type or subtype declaration. The variants are *IntegerType,
// *RealType, *PhysicalType, *EnumeratedType, *ArrayType, *RecordType and
// *Subtype; no other package can add one.
type Type interface {
	DeclaredItem
	Kind() TypeKind
	isType()
}

var (
	_ Type = (*IntegerType)(nil)
	_ Type = (*RealType)(nil)
	_ Type = (*PhysicalType)(nil)
	_ Type = (*EnumeratedType)(nil)
	_ Type = (*ArrayType)(nil)
	_ Type = (*RecordType)(nil)
	_ Type = (*Subtype)(nil)
)

type typeBase struct {
	identifier string
}

func (t *typeBase) Identifier() string { return t.identifier }
func (*typeBase) isDeclaredItem()      {}
func (*typeBase) isType()              {}

// IntegerType is "type T is range L to R" with integer bounds.
type IntegerType struct {
	typeBase
	rng Range[IntegerLiteral]
}

func NewIntegerType(identifier string, r Range[IntegerLiteral]) (*IntegerType, error) {
	if err := checkIdentifier("NewIntegerType", identifier); err != nil {
		return nil, err
	}
	return &IntegerType{typeBase: typeBase{identifier: identifier}, rng: r}, nil
}

func (t *IntegerType) Range() Range[IntegerLiteral] { return t.rng }
func (*IntegerType) Kind() TypeKind                  { return IntegerKind }

// RealType is "type T is range L to R" with floating-point bounds.
type RealType struct {
	typeBase
	rng Range[FloatingPointLiteral]
}

func NewRealType(identifier string, r Range[FloatingPointLiteral]) (*RealType, error) {
	if err := checkIdentifier("NewRealType", identifier); err != nil {
		return nil, err
	}
	return &RealType{typeBase: typeBase{identifier: identifier}, rng: r}, nil
}

func (t *RealType) Range() Range[FloatingPointLiteral] { return t.rng }
func (*RealType) Kind() TypeKind                        { return RealKind }

// PhysicalUnit is a secondary unit declaration: "us = 1000 ns".
type PhysicalUnit struct {
	Identifier string
	Definition PhysicalLiteral
}

// PhysicalType is an integer-ranged type with a primary unit and secondary
// units defined in terms of previously declared units.
type PhysicalType struct {
	typeBase
	rng       Range[IntegerLiteral]
	primary   string
	secondary registry[PhysicalUnit]
}

func NewPhysicalType(identifier string, r Range[IntegerLiteral], primaryUnit string) (*PhysicalType, error) {
	if err := checkIdentifier("NewPhysicalType", identifier); err != nil {
		return nil, err
	}
	if err := checkIdentifier("NewPhysicalType", primaryUnit); err != nil {
		return nil, err
	}
	return &PhysicalType{
		typeBase:  typeBase{identifier: identifier},
		rng:       r,
		primary:   primaryUnit,
		secondary: newRegistry[PhysicalUnit](),
	}, nil
}

func (t *PhysicalType) Range() Range[IntegerLiteral] { return t.rng }
func (*PhysicalType) Kind() TypeKind                  { return PhysicalKind }
func (t *PhysicalType) PrimaryUnit() string          { return t.primary }
func (t *PhysicalType) SecondaryUnits() []PhysicalUnit {
	return t.secondary.list()
}

// AddSecondaryUnit declares identifier = definition. The definition must be
// expressed in a unit already declared by this type.
func (t *PhysicalType) AddSecondaryUnit(identifier string, definition PhysicalLiteral) error {
	const op = "PhysicalType.AddSecondaryUnit"
	if err := checkIdentifier(op, identifier); err != nil {
		return err
	}
	key := NormalizeIdentifier(identifier)
	if key == NormalizeIdentifier(t.primary) || t.secondary.has(key) {
		return newError(op, identifier, ErrDuplicateIdentifier)
	}
	if !t.HasUnit(definition.Unit()) {
		return newError(op, definition.Unit(), ErrInvalidReference)
	}
	t.secondary.insert(key, PhysicalUnit{Identifier: identifier, Definition: definition})
	return nil
}

// HasUnit reports whether unit is the primary or a secondary unit of t.
func (t *PhysicalType) HasUnit(unit string) bool {
	key := NormalizeIdentifier(unit)
	return key == NormalizeIdentifier(t.primary) || t.secondary.has(key)
}

// EnumeratedType is "type T is (A, B, C)".
type EnumeratedType struct {
	typeBase
	literals registry[EnumerationLiteral]
}

func NewEnumeratedType(identifier string) (*EnumeratedType, error) {
	if err := checkIdentifier("NewEnumeratedType", identifier); err != nil {
		return nil, err
	}
	return &EnumeratedType{
		typeBase: typeBase{identifier: identifier},
		literals: newRegistry[EnumerationLiteral](),
	}, nil
}

func (*EnumeratedType) Kind() TypeKind { return EnumeratedKind }

func (t *EnumeratedType) AddLiteral(lit EnumerationLiteral) error {
	if lit.text == "" {
		return newError("EnumeratedType.AddLiteral", "", ErrInvalidIdentifier)
	}
	if t.literals.has(lit.key()) {
		return newError("EnumeratedType.AddLiteral", lit.text, ErrDuplicateIdentifier)
	}
	t.literals.insert(lit.key(), lit)
	return nil
}

func (t *EnumeratedType) Literals() []EnumerationLiteral {
	return t.literals.list()
}

// Position returns the zero-based position number of a literal.
func (t *EnumeratedType) Position(text string) (int, error) {
	lit := EnumerationLiteral{text: text}
	i, ok := t.literals.index[lit.key()]
	if !ok {
		return 0, newError("EnumeratedType.Position", text, ErrNotFound)
	}
	return i, nil
}
