package facts

// fileRow is implemented by every row that belongs to one source file.
type fileRow interface {
	sourceFile() string
}

func (r FileRow) sourceFile() string             { return r.Path }
func (r EntityRow) sourceFile() string           { return r.File }
func (r ArchitectureRow) sourceFile() string     { return r.File }
func (r PackageRow) sourceFile() string          { return r.File }
func (r PackageBodyRow) sourceFile() string      { return r.File }
func (r ContextRow) sourceFile() string          { return r.File }
func (r ContextReferenceRow) sourceFile() string { return r.File }
func (r ConfigurationRow) sourceFile() string    { return r.File }
func (r GenericRow) sourceFile() string          { return r.File }
func (r PortRow) sourceFile() string             { return r.File }
func (r TypeRow) sourceFile() string             { return r.File }
func (r SubtypeRow) sourceFile() string          { return r.File }
func (r RecordElementRow) sourceFile() string    { return r.File }
func (r EnumLiteralRow) sourceFile() string      { return r.File }
func (r ObjectRow) sourceFile() string           { return r.File }
func (r ProcessRow) sourceFile() string          { return r.File }
func (r InstanceRow) sourceFile() string         { return r.File }
func (r SymbolRow) sourceFile() string           { return r.File }

func filterRows[T fileRow](rows []T, files map[string]bool) []T {
	out := []T{}
	for _, row := range rows {
		if files[row.sourceFile()] {
			out = append(out, row)
		}
	}
	return out
}

// FilterTablesByFiles returns a new Tables object containing only rows whose file
// or path is present in the provided file set. A library row is kept when one
// of the kept files belongs to it.
func FilterTablesByFiles(tables Tables, files map[string]bool) Tables {
	if len(files) == 0 {
		return EmptyTables()
	}
	out := Tables{
		Files:             filterRows(tables.Files, files),
		Libraries:         []LibraryRow{},
		Entities:          filterRows(tables.Entities, files),
		Architectures:     filterRows(tables.Architectures, files),
		Packages:          filterRows(tables.Packages, files),
		PackageBodies:     filterRows(tables.PackageBodies, files),
		Contexts:          filterRows(tables.Contexts, files),
		ContextReferences: filterRows(tables.ContextReferences, files),
		Configurations:    filterRows(tables.Configurations, files),
		Generics:          filterRows(tables.Generics, files),
		Ports:             filterRows(tables.Ports, files),
		Types:             filterRows(tables.Types, files),
		Subtypes:          filterRows(tables.Subtypes, files),
		RecordElements:    filterRows(tables.RecordElements, files),
		EnumLiterals:      filterRows(tables.EnumLiterals, files),
		Objects:           filterRows(tables.Objects, files),
		Processes:         filterRows(tables.Processes, files),
		Instances:         filterRows(tables.Instances, files),
		Symbols:           filterRows(tables.Symbols, files),
	}

	libs := make(map[string]bool)
	for _, f := range out.Files {
		libs[f.Library] = true
	}
	for _, row := range tables.Libraries {
		if libs[row.Name] {
			out.Libraries = append(out.Libraries, row)
		}
	}

	return out
}

// FilterDeltaByFiles returns a new Delta containing only rows for the specified files.
func FilterDeltaByFiles(delta Delta, files map[string]bool) Delta {
	if len(files) == 0 {
		return Delta{
			Added:   EmptyTables(),
			Removed: EmptyTables(),
		}
	}
	return Delta{
		Added:   FilterTablesByFiles(delta.Added, files),
		Removed: FilterTablesByFiles(delta.Removed, files),
	}
}
