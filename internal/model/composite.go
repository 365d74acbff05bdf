package model

// ArrayType is "type T is array (index...) of element". An empty index
// constraint list describes an unconstrained array. The element type may be
// nil while the loader still has to resolve a forward reference.
type ArrayType struct {
	typeBase
	indexes []Constraint
	element Type
}

func NewArrayType(identifier string, indexConstraints []Constraint, elementType Type) (*ArrayType, error) {
	if err := checkIdentifier("NewArrayType", identifier); err != nil {
		return nil, err
	}
	indexes := make([]Constraint, 0, len(indexConstraints))
	for _, c := range indexConstraints {
		if isNil(c) {
			return nil, newError("NewArrayType", identifier, ErrInvalidReference)
		}
		indexes = append(indexes, c)
	}
	return &ArrayType{typeBase: typeBase{identifier: identifier}, indexes: indexes, element: elementType}, nil
}

func (*ArrayType) Kind() TypeKind { return ArrayKind }

func (t *ArrayType) IndexConstraints() []Constraint {
	out := make([]Constraint, len(t.indexes))
	copy(out, t.indexes)
	return out
}

func (t *ArrayType) AddIndexConstraint(c Constraint) error {
	if isNil(c) {
		return newError("ArrayType.AddIndexConstraint", t.identifier, ErrInvalidReference)
	}
	t.indexes = append(t.indexes, c)
	return nil
}

// ElementType returns nil until the element type is known.
func (t *ArrayType) ElementType() Type { return t.element }

// SetElementType treats a nil pointer like nil: the element stays unknown.
func (t *ArrayType) SetElementType(element Type) {
	if isNil(element) {
		element = nil
	}
	t.element = element
}

// IsConstrained reports whether every dimension has a bounded index.
func (t *ArrayType) IsConstrained() bool {
	if len(t.indexes) == 0 {
		return false
	}
	for _, c := range t.indexes {
		if idx, ok := c.(IndexSubtypeConstraint); ok && idx.Unbounded {
			return false
		}
	}
	return true
}

// RecordElement is one element declaration of a record type.
type RecordElement struct {
	identifier string
	subtype    SubtypeIndication
}

func NewRecordElement(identifier string, subtype SubtypeIndication) (RecordElement, error) {
	if err := checkIdentifier("NewRecordElement", identifier); err != nil {
		return RecordElement{}, err
	}
	return RecordElement{identifier: identifier, subtype: subtype}, nil
}

func (e RecordElement) Identifier() string         { return e.identifier }
func (e RecordElement) Subtype() SubtypeIndication { return e.subtype }

// RecordType is "type T is record ... end record". Elements are appended in
// declaration order after construction.
type RecordType struct {
	typeBase
	elements registry[RecordElement]
}

func NewRecordType(identifier string) (*RecordType, error) {
	if err := checkIdentifier("NewRecordType", identifier); err != nil {
		return nil, err
	}
	return &RecordType{typeBase: typeBase{identifier: identifier}, elements: newRegistry[RecordElement]()}, nil
}

func (*RecordType) Kind() TypeKind { return RecordKind }

func (t *RecordType) AddElement(element RecordElement) error {
	if element.identifier == "" {
		return newError("RecordType.AddElement", "", ErrInvalidIdentifier)
	}
	key := NormalizeIdentifier(element.identifier)
	if t.elements.has(key) {
		return newError("RecordType.AddElement", element.identifier, ErrDuplicateIdentifier)
	}
	t.elements.insert(key, element)
	return nil
}

func (t *RecordType) Elements() []RecordElement {
	return t.elements.list()
}

func (t *RecordType) Element(identifier string) (RecordElement, error) {
	e, ok := t.elements.get(NormalizeIdentifier(identifier))
	if !ok {
		return RecordElement{}, newError("RecordType.Element", identifier, ErrNotFound)
	}
	return e, nil
}
