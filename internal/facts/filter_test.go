package facts

import "testing"

func TestFilterTablesByFiles(t *testing.T) {
	tables := Tables{
		Files: []FileRow{
			{Path: "a.vhd", Library: "work"},
			{Path: "b.vhd", Library: "vendor"},
		},
		Libraries: []LibraryRow{
			{Name: "work", Units: 1},
			{Name: "vendor", Units: 1},
		},
		Entities: []EntityRow{
			{Name: "a", File: "a.vhd"},
			{Name: "b", File: "b.vhd"},
		},
		Ports: []PortRow{
			{Entity: "a", Name: "clk", File: "a.vhd"},
			{Entity: "b", Name: "rst", File: "b.vhd"},
		},
		Symbols: []SymbolRow{
			{Name: "work.a", File: "a.vhd"},
			{Name: "vendor.b", File: "b.vhd"},
		},
	}

	files := map[string]bool{"a.vhd": true}
	filtered := FilterTablesByFiles(tables, files)

	if len(filtered.Files) != 1 || filtered.Files[0].Path != "a.vhd" {
		t.Fatalf("expected only a.vhd file row, got %#v", filtered.Files)
	}
	if len(filtered.Libraries) != 1 || filtered.Libraries[0].Name != "work" {
		t.Fatalf("expected only work library row, got %#v", filtered.Libraries)
	}
	if len(filtered.Entities) != 1 || filtered.Entities[0].File != "a.vhd" {
		t.Fatalf("expected only a.vhd entity rows, got %#v", filtered.Entities)
	}
	if len(filtered.Ports) != 1 || filtered.Ports[0].File != "a.vhd" {
		t.Fatalf("expected only a.vhd port rows, got %#v", filtered.Ports)
	}
	if len(filtered.Symbols) != 1 || filtered.Symbols[0].File != "a.vhd" {
		t.Fatalf("expected only a.vhd symbol rows, got %#v", filtered.Symbols)
	}
}

func TestFilterDeltaByFilesEmpty(t *testing.T) {
	delta := Delta{
		Added: Tables{
			Files: []FileRow{{Path: "a.vhd"}},
		},
		Removed: Tables{
			Files: []FileRow{{Path: "b.vhd"}},
		},
	}

	filtered := FilterDeltaByFiles(delta, map[string]bool{})
	if len(filtered.Added.Files) != 0 || len(filtered.Removed.Files) != 0 {
		t.Fatalf("expected empty delta, got %#v", filtered)
	}
}
