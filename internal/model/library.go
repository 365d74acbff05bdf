package model

// Library is a named logical grouping of design units. It references units
// owned by documents; adding a unit to a library does not move it.
type Library struct {
	identifier string
	unitSet
}

func NewLibrary(identifier string) (*Library, error) {
	if err := checkIdentifier("NewLibrary", identifier); err != nil {
		return nil, err
	}
	return &Library{identifier: identifier, unitSet: newUnitSet("Library")}, nil
}

func (l *Library) Identifier() string { return l.identifier }

// AddDocument registers every unit of doc in l. Either all units are added
// or, on the first collision, none are.
func (l *Library) AddDocument(doc *Document) error {
	if doc == nil {
		return newError("Library.AddDocument", l.identifier, ErrInvalidReference)
	}
	units := doc.Units()
	for _, u := range units {
		if err := l.canAdd(u); err != nil {
			return err
		}
	}
	for _, u := range units {
		if err := l.AddUnit(u); err != nil {
			// Unreachable after canAdd; documents hold unique units per kind.
			return err
		}
	}
	return nil
}
