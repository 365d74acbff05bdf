package validator

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
)

func validTables() facts.Tables {
	tables := facts.EmptyTables()
	tables.Files = []facts.FileRow{{
		Path:         "test/a.vhd",
		Library:      "work",
		IsThirdParty: false,
	}}
	tables.Libraries = []facts.LibraryRow{{Name: "work", Units: 2}}
	tables.Entities = []facts.EntityRow{{
		Name:    "my_entity",
		Library: "work",
		File:    "test/a.vhd",
		Line:    1,
	}}
	tables.Types = []facts.TypeRow{{
		Name:     "state_t",
		Kind:     "enum",
		Unit:     "my_entity",
		UnitKind: "entity",
		File:     "test/a.vhd",
		Line:     2,
	}}
	tables.Symbols = []facts.SymbolRow{{Name: "work.my_entity", Kind: "entity", File: "test/a.vhd", Line: 1}}
	return tables
}

func TestFactsValidatorAcceptsValidTables(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("new facts validator: %v", err)
	}

	if err := v.Validate(validTables()); err != nil {
		t.Fatalf("expected valid tables, got error: %v", err)
	}
}

func TestFactsValidatorRejectsInvalidTables(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("new facts validator: %v", err)
	}

	tables := validTables()
	tables.Files[0].Path = "test/a.txt"
	tables.Entities[0].File = "test/a.txt"
	tables.Entities[0].Line = 0

	if err := v.Validate(tables); err == nil {
		t.Fatalf("expected validation error, got nil")
	}
	if errs := v.ValidationErrors(tables); len(errs) == 0 {
		t.Fatalf("expected detailed validation errors")
	}
}

func TestFactsValidatorRejectsUnknownTypeKind(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("new facts validator: %v", err)
	}
	tables := validTables()
	tables.Types[0].Kind = "access"
	if err := v.Validate(tables); err == nil {
		t.Fatalf("expected validation error for type kind access")
	}
}

func TestDeltaValidator(t *testing.T) {
	v, err := NewDeltaValidator()
	if err != nil {
		t.Fatalf("new delta validator: %v", err)
	}
	delta := facts.ComputeDelta(facts.Tables{}, validTables())
	if err := v.Validate(delta); err != nil {
		t.Fatalf("expected valid delta, got error: %v", err)
	}
}
