package indexer

import (
	"reflect"
	"testing"

	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
)

func TestFactTablesCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tables := facts.EmptyTables()
	tables.Files = append(tables.Files, facts.FileRow{Path: "a.vhd", Library: "work", IsThirdParty: false})
	tables.Entities = append(tables.Entities, facts.EntityRow{Name: "a", Library: "work", File: "a.vhd", Line: 1})
	tables.Symbols = append(tables.Symbols, facts.SymbolRow{Name: "work.a", Kind: "entity", File: "a.vhd", Line: 1})

	if err := saveFactTablesCache(dir, "run-1", tables); err != nil {
		t.Fatalf("saveFactTablesCache error: %v", err)
	}

	loaded, ok, err := loadFactTablesCache(dir)
	if err != nil {
		t.Fatalf("loadFactTablesCache error: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache to be present")
	}
	if !reflect.DeepEqual(tables, loaded) {
		t.Fatalf("tables mismatch: expected %#v got %#v", tables, loaded)
	}
}

func TestFactTablesCacheMissing(t *testing.T) {
	_, ok, err := loadFactTablesCache(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no cache in an empty directory")
	}
}
