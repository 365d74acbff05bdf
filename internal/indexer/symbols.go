package indexer

import (
	"sort"
	"strings"
	"sync"

	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
)

// SymbolTable holds all exported symbols across files
type SymbolTable struct {
	mu      sync.RWMutex
	symbols map[string]Symbol
}

// Symbol represents an exported VHDL construct
type Symbol struct {
	Name string // Qualified name: work.my_entity, work.my_pkg.state_t
	Kind string // entity, package, context, configuration, type, constant, ...
	File string // Source file path
	Line int    // Line number
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

func (st *SymbolTable) Add(sym Symbol) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.symbols[sym.Name] = sym
}

func (st *SymbolTable) Has(name string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.symbols[name]
	return ok
}

func (st *SymbolTable) Get(name string) (Symbol, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sym, ok := st.symbols[name]
	return sym, ok
}

func (st *SymbolTable) All() map[string]Symbol {
	st.mu.RLock()
	defer st.mu.RUnlock()
	// Return a copy
	result := make(map[string]Symbol, len(st.symbols))
	for k, v := range st.symbols {
		result[k] = v
	}
	return result
}

// Rows returns the table as fact rows sorted by name.
func (st *SymbolTable) Rows() []facts.SymbolRow {
	all := st.All()
	rows := make([]facts.SymbolRow, 0, len(all))
	for _, sym := range all {
		rows = append(rows, facts.SymbolRow{
			Name: sym.Name,
			Kind: sym.Kind,
			File: sym.File,
			Line: sym.Line,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name == rows[j].Name {
			return rows[i].File < rows[j].File
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// isStandardLibrary checks if a qualified name refers to a standard or
// vendor library that is never part of the analyzed sources.
func isStandardLibrary(name string) bool {
	standard := []string{
		"ieee.", "std.", "std_logic_1164", "numeric_std",
		"textio", "math_real", "math_complex",
	}
	for _, prefix := range standard {
		if strings.HasPrefix(name, prefix) || strings.Contains(name, prefix) {
			return true
		}
	}
	return false
}
