package model

import "path/filepath"

// Document is the content of one source file. It owns the design units the
// file declares and keeps them in declaration order per kind.
type Document struct {
	path string
	unitSet
}

func NewDocument(path string) (*Document, error) {
	if path == "" {
		return nil, newError("NewDocument", path, ErrInvalidIdentifier)
	}
	return &Document{path: path, unitSet: newUnitSet("Document")}, nil
}

// Path returns the path exactly as given to NewDocument.
func (d *Document) Path() string { return d.path }

func documentKey(path string) string {
	return filepath.Clean(path)
}
