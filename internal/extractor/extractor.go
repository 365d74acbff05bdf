package extractor

import (
	"fmt"
	"os"
)

// Extractor turns VHDL source into FileFacts. Source is cut into
// statements, and the statements are assigned to design units by tracking
// unit and construct nesting. An Extractor is safe for concurrent use.
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// Extract parses a VHDL file and extracts facts
func (e *Extractor) Extract(filePath string) (FileFacts, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return FileFacts{File: filePath}, fmt.Errorf("reading file: %w", err)
	}
	return e.ExtractSource(filePath, content)
}

// ExtractSource extracts facts from in-memory source attributed to filePath
func (e *Extractor) ExtractSource(filePath string, content []byte) (FileFacts, error) {
	facts := FileFacts{File: filePath}
	p := newParser(&facts)
	p.feed(splitStatements(content, 1))
	p.finish()
	return facts, nil
}
