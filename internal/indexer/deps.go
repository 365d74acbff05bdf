package indexer

import (
	"sort"
	"strings"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
)

// dependentsGraph maps a file to the files that depend on it.
type dependentsGraph map[string]map[string]bool

func buildDependentsGraph(
	factsByFile map[string]extractor.FileFacts,
	symbols *SymbolTable,
	fileLibs map[string]config.FileLibraryInfo,
) dependentsGraph {
	graph := make(dependentsGraph)
	for file, facts := range factsByFile {
		deps := resolveDependencies(facts, file, symbols, fileLibs)
		for _, depFile := range deps {
			if depFile == "" || depFile == file {
				continue
			}
			if graph[depFile] == nil {
				graph[depFile] = make(map[string]bool)
			}
			graph[depFile][file] = true
		}
	}
	return graph
}

// resolveDependencies returns the files defining the units a file's use,
// context and instantiation targets name.
func resolveDependencies(facts extractor.FileFacts, filePath string, symbols *SymbolTable, fileLibs map[string]config.FileLibraryInfo) []string {
	var deps []string
	fileLib := "work"
	if libInfo, ok := fileLibs[filePath]; ok && libInfo.LibraryName != "" {
		fileLib = model.NormalizeIdentifier(libInfo.LibraryName)
	}
	for _, dep := range facts.Dependencies {
		if dep.Kind == "library" {
			continue
		}
		qualName := qualifiedName(dep.Target)
		if isStandardLibrary(qualName) {
			continue
		}
		if strings.HasPrefix(qualName, "work.") {
			qualName = fileLib + qualName[len("work"):]
		}
		if sym, ok := symbols.Get(qualName); ok {
			deps = append(deps, sym.File)
		}
	}
	return deps
}

// qualifiedName normalizes each part of a dotted name the way symbol names
// are built.
func qualifiedName(target string) string {
	parts := strings.Split(target, ".")
	for i, part := range parts {
		parts[i] = model.NormalizeIdentifier(part)
	}
	return strings.Join(parts, ".")
}

type impactReport struct {
	Root   string
	Levels [][]string
}

// computeImpact walks dependents breadth first from root. Level n holds the
// files n dependency hops away.
func computeImpact(root string, dependents dependentsGraph) impactReport {
	visited := map[string]bool{root: true}
	frontier := []string{root}
	var levels [][]string

	for len(frontier) > 0 {
		var next []string
		for _, f := range frontier {
			for dep := range dependents[f] {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				next = append(next, dep)
			}
		}
		if len(next) == 0 {
			break
		}
		sort.Strings(next)
		levels = append(levels, next)
		frontier = next
	}

	return impactReport{Root: root, Levels: levels}
}

// Affected returns every file in the report, root excluded.
func (r impactReport) Affected() []string {
	var out []string
	for _, level := range r.Levels {
		out = append(out, level...)
	}
	return out
}
