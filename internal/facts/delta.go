package facts

// Delta captures added and removed fact rows between two snapshots.
type Delta struct {
	Added   Tables `json:"added"`
	Removed Tables `json:"removed"`
}

// ComputeDelta computes row-level additions and removals between two snapshots.
func ComputeDelta(prev, next Tables) Delta {
	return Delta{
		Added:   diffTables(prev, next),
		Removed: diffTables(next, prev),
	}
}

// IsEmpty reports whether the delta adds and removes nothing.
func (d Delta) IsEmpty() bool {
	return d.Added.Len() == 0 && d.Removed.Len() == 0
}

// diffTables returns the rows of to that are not in from.
func diffTables(from, to Tables) Tables {
	return Tables{
		Files:             diffRows(from.Files, to.Files),
		Libraries:         diffRows(from.Libraries, to.Libraries),
		Entities:          diffRows(from.Entities, to.Entities),
		Architectures:     diffRows(from.Architectures, to.Architectures),
		Packages:          diffRows(from.Packages, to.Packages),
		PackageBodies:     diffRows(from.PackageBodies, to.PackageBodies),
		Contexts:          diffRows(from.Contexts, to.Contexts),
		ContextReferences: diffRows(from.ContextReferences, to.ContextReferences),
		Configurations:    diffRows(from.Configurations, to.Configurations),
		Generics:          diffRows(from.Generics, to.Generics),
		Ports:             diffRows(from.Ports, to.Ports),
		Types:             diffRows(from.Types, to.Types),
		Subtypes:          diffRows(from.Subtypes, to.Subtypes),
		RecordElements:    diffRows(from.RecordElements, to.RecordElements),
		EnumLiterals:      diffRows(from.EnumLiterals, to.EnumLiterals),
		Objects:           diffRows(from.Objects, to.Objects),
		Processes:         diffRows(from.Processes, to.Processes),
		Instances:         diffRows(from.Instances, to.Instances),
		Symbols:           diffRows(from.Symbols, to.Symbols),
	}
}

// EmptyTables returns tables whose relations are empty, non-nil slices.
func EmptyTables() Tables {
	return Tables{
		Files:             []FileRow{},
		Libraries:         []LibraryRow{},
		Entities:          []EntityRow{},
		Architectures:     []ArchitectureRow{},
		Packages:          []PackageRow{},
		PackageBodies:     []PackageBodyRow{},
		Contexts:          []ContextRow{},
		ContextReferences: []ContextReferenceRow{},
		Configurations:    []ConfigurationRow{},
		Generics:          []GenericRow{},
		Ports:             []PortRow{},
		Types:             []TypeRow{},
		Subtypes:          []SubtypeRow{},
		RecordElements:    []RecordElementRow{},
		EnumLiterals:      []EnumLiteralRow{},
		Objects:           []ObjectRow{},
		Processes:         []ProcessRow{},
		Instances:         []InstanceRow{},
		Symbols:           []SymbolRow{},
	}
}

// Len returns the total number of rows over all relations.
func (t Tables) Len() int {
	return len(t.Files) + len(t.Libraries) + len(t.Entities) + len(t.Architectures) +
		len(t.Packages) + len(t.PackageBodies) + len(t.Contexts) + len(t.ContextReferences) +
		len(t.Configurations) + len(t.Generics) + len(t.Ports) + len(t.Types) + len(t.Subtypes) +
		len(t.RecordElements) + len(t.EnumLiterals) + len(t.Objects) + len(t.Processes) +
		len(t.Instances) + len(t.Symbols)
}

// diffRows returns the rows of to that do not occur in from. Rows are flat
// structs, so the row itself is the key.
func diffRows[T comparable](from, to []T) []T {
	fromSet := make(map[T]struct{}, len(from))
	for _, row := range from {
		fromSet[row] = struct{}{}
	}
	diff := []T{}
	for _, row := range to {
		if _, ok := fromSet[row]; !ok {
			diff = append(diff, row)
		}
	}
	return diff
}
