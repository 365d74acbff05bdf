package model

// Design is the root of a whole analysis run: every source document and
// every library. Designs share no state with each other.
type Design struct {
	documents registry[*Document]
	libraries registry[*Library]
}

func NewDesign() *Design {
	return &Design{
		documents: newRegistry[*Document](),
		libraries: newRegistry[*Library](),
	}
}

func (d *Design) AddDocument(doc *Document) error {
	if doc == nil {
		return newError("Design.AddDocument", "", ErrInvalidReference)
	}
	key := documentKey(doc.path)
	if d.documents.has(key) {
		return newError("Design.AddDocument", doc.path, ErrDuplicateIdentifier)
	}
	d.documents.insert(key, doc)
	return nil
}

func (d *Design) AddLibrary(lib *Library) error {
	if lib == nil {
		return newError("Design.AddLibrary", "", ErrInvalidReference)
	}
	key := NormalizeIdentifier(lib.identifier)
	if d.libraries.has(key) {
		return newError("Design.AddLibrary", lib.identifier, ErrDuplicateIdentifier)
	}
	d.libraries.insert(key, lib)
	return nil
}

// Documents returns the documents in the order they were added.
func (d *Design) Documents() []*Document { return d.documents.list() }

// Libraries returns the libraries in the order they were added.
func (d *Design) Libraries() []*Library { return d.libraries.list() }

func (d *Design) Document(path string) (*Document, error) {
	doc, ok := d.documents.get(documentKey(path))
	if !ok {
		return nil, newError("Design.Document", path, ErrNotFound)
	}
	return doc, nil
}

func (d *Design) Library(identifier string) (*Library, error) {
	lib, ok := d.libraries.get(NormalizeIdentifier(identifier))
	if !ok {
		return nil, newError("Design.Library", identifier, ErrNotFound)
	}
	return lib, nil
}

// ArchitecturesOf returns every architecture in any document of d that is
// bound to entity itself (by identity).
func (d *Design) ArchitecturesOf(entity *Entity) []*Architecture {
	if entity == nil {
		return nil
	}
	var out []*Architecture
	for _, doc := range d.documents.items {
		for _, a := range doc.archsByEntity[NormalizeIdentifier(entity.identifier)] {
			if a.entity == entity {
				out = append(out, a)
			}
		}
	}
	return out
}

// DocumentOf returns the document that owns unit.
func (d *Design) DocumentOf(unit DesignUnit) (*Document, error) {
	for _, doc := range d.documents.items {
		if doc.Contains(unit) {
			return doc, nil
		}
	}
	return nil, newError("Design.DocumentOf", identifierOf(unit), ErrNotFound)
}

// LibraryOf returns the first library that references unit.
func (d *Design) LibraryOf(unit DesignUnit) (*Library, error) {
	for _, lib := range d.libraries.items {
		if lib.Contains(unit) {
			return lib, nil
		}
	}
	return nil, newError("Design.LibraryOf", identifierOf(unit), ErrNotFound)
}

func identifierOf(unit DesignUnit) string {
	if isNil(unit) {
		return ""
	}
	return unit.Identifier()
}
