package indexer

import (
	"testing"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
)

func TestImpactExpansion(t *testing.T) {
	factsA := extractor.FileFacts{
		File:     "a.vhd",
		Packages: []extractor.Package{{Name: "pkg", Line: 1}},
	}
	factsB := extractor.FileFacts{
		File:         "b.vhd",
		Entities:     []extractor.Entity{{Name: "child", Line: 1}},
		Dependencies: []extractor.Dependency{{Target: "work.pkg", Kind: "use", Line: 1}},
	}
	factsC := extractor.FileFacts{
		File:         "c.vhd",
		Dependencies: []extractor.Dependency{{Target: "work.PKG", Kind: "use", Line: 1}},
	}
	factsD := extractor.FileFacts{
		File: "d.vhd",
		Dependencies: []extractor.Dependency{
			{Target: "ieee.std_logic_1164", Kind: "use", Line: 1},
			{Target: "work.child", Kind: "instantiation", Line: 4},
		},
	}

	factsByFile := map[string]extractor.FileFacts{
		"a.vhd": factsA,
		"b.vhd": factsB,
		"c.vhd": factsC,
		"d.vhd": factsD,
	}

	symbols := NewSymbolTable()
	symbols.Add(Symbol{Name: "work.pkg", Kind: "package", File: "a.vhd", Line: 1})
	symbols.Add(Symbol{Name: "work.child", Kind: "entity", File: "b.vhd", Line: 1})

	fileLibs := map[string]config.FileLibraryInfo{
		"a.vhd": {LibraryName: "work"},
		"b.vhd": {LibraryName: "work"},
		"c.vhd": {LibraryName: "work"},
		"d.vhd": {LibraryName: "work"},
	}

	deps := buildDependentsGraph(factsByFile, symbols, fileLibs)
	report := computeImpact("a.vhd", deps)

	if len(report.Levels) != 2 {
		t.Fatalf("expected 2 levels, got %d: %v", len(report.Levels), report.Levels)
	}
	level := report.Levels[0]
	if len(level) != 2 || level[0] != "b.vhd" || level[1] != "c.vhd" {
		t.Fatalf("unexpected first level: %v", level)
	}
	if got := report.Levels[1]; len(got) != 1 || got[0] != "d.vhd" {
		t.Fatalf("unexpected second level: %v", got)
	}
	if got := report.Affected(); len(got) != 3 {
		t.Fatalf("expected 3 affected files, got %v", got)
	}
}

func TestResolveDependenciesMapsWorkToFileLibrary(t *testing.T) {
	symbols := NewSymbolTable()
	symbols.Add(Symbol{Name: "lib_a.pkg", Kind: "package", File: "pkg.vhd", Line: 1})

	ff := extractor.FileFacts{
		File:         "user.vhd",
		Dependencies: []extractor.Dependency{{Target: "work.pkg", Kind: "use", Line: 1}},
	}
	fileLibs := map[string]config.FileLibraryInfo{"user.vhd": {LibraryName: "lib_a"}}

	deps := resolveDependencies(ff, "user.vhd", symbols, fileLibs)
	if len(deps) != 1 || deps[0] != "pkg.vhd" {
		t.Fatalf("expected dependency on pkg.vhd, got %v", deps)
	}
}
