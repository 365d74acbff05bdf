package facts

import (
	"sort"
	"strings"

	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
)

// Tables is the relational fact model of a design.
// Each slice is a relation (table) with flat rows.
type Tables struct {
	Files             []FileRow             `json:"files"`
	Libraries         []LibraryRow          `json:"libraries"`
	Entities          []EntityRow           `json:"entities"`
	Architectures     []ArchitectureRow     `json:"architectures"`
	Packages          []PackageRow          `json:"packages"`
	PackageBodies     []PackageBodyRow      `json:"package_bodies"`
	Contexts          []ContextRow          `json:"contexts"`
	ContextReferences []ContextReferenceRow `json:"context_references"`
	Configurations    []ConfigurationRow    `json:"configurations"`
	Generics          []GenericRow          `json:"generics"`
	Ports             []PortRow             `json:"ports"`
	Types             []TypeRow             `json:"types"`
	Subtypes          []SubtypeRow          `json:"subtypes"`
	RecordElements    []RecordElementRow    `json:"record_elements"`
	EnumLiterals      []EnumLiteralRow      `json:"enum_literals"`
	Objects           []ObjectRow           `json:"objects"`
	Processes         []ProcessRow          `json:"processes"`
	Instances         []InstanceRow         `json:"instances"`
	Symbols           []SymbolRow           `json:"symbols"`
}

type FileRow struct {
	Path         string `json:"path"`
	Library      string `json:"library"`
	IsThirdParty bool   `json:"is_third_party"`
}

type LibraryRow struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

type EntityRow struct {
	Name    string `json:"name"`
	Library string `json:"library"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

type ArchitectureRow struct {
	Name       string `json:"name"`
	EntityName string `json:"entity_name"`
	Library    string `json:"library"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type PackageRow struct {
	Name    string `json:"name"`
	Library string `json:"library"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	HasBody bool   `json:"has_body"`
}

type PackageBodyRow struct {
	Name    string `json:"name"`
	Library string `json:"library"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

type ContextRow struct {
	Name    string `json:"name"`
	Library string `json:"library"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

type ContextReferenceRow struct {
	Context string `json:"context"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	File    string `json:"file"`
}

type ConfigurationRow struct {
	Name       string `json:"name"`
	EntityName string `json:"entity_name"`
	Library    string `json:"library"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type GenericRow struct {
	Entity  string `json:"entity"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

type PortRow struct {
	Entity    string `json:"entity"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Type      string `json:"type"`
	Default   string `json:"default"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

// TypeRow describes a type declaration. Constraint holds the range of a
// scalar type or the index constraints of an array; Element the element
// type mark of an array.
type TypeRow struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Unit       string `json:"unit"`
	UnitKind   string `json:"unit_kind"`
	Constraint string `json:"constraint"`
	Element    string `json:"element"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type SubtypeRow struct {
	Name       string `json:"name"`
	BaseType   string `json:"base_type"`
	Resolved   string `json:"resolved"`
	Constraint string `json:"constraint"`
	Unit       string `json:"unit"`
	UnitKind   string `json:"unit_kind"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type RecordElementRow struct {
	Record string `json:"record"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Unit   string `json:"unit"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

type EnumLiteralRow struct {
	Type     string `json:"type"`
	Literal  string `json:"literal"`
	Position int    `json:"position"`
	Unit     string `json:"unit"`
	File     string `json:"file"`
}

// ObjectRow is a constant, signal or variable declaration.
type ObjectRow struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	Unit     string `json:"unit"`
	UnitKind string `json:"unit_kind"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

type ProcessRow struct {
	Label       string `json:"label"`
	Sensitivity string `json:"sensitivity"`
	Unit        string `json:"unit"`
	File        string `json:"file"`
	Line        int    `json:"line"`
}

type InstanceRow struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Unit   string `json:"unit"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

type SymbolRow struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// ElementKey identifies a record element for Positions.
type ElementKey struct {
	Record *model.RecordType
	Name   string
}

// Positions maps model objects (design units, declarations, interface items,
// statements and ElementKey values) to the source line that declared them.
type Positions map[any]int

// Line returns the recorded line of v, or 0.
func (p Positions) Line(v any) int {
	if p == nil {
		return 0
	}
	return p[v]
}

// BuildTables flattens a design into relational tables. thirdParty marks
// files of third-party libraries. Rows are sorted for stable output.
func BuildTables(design *model.Design, thirdParty map[string]bool, positions Positions, symbols []SymbolRow) Tables {
	out := EmptyTables()
	if design == nil {
		return out
	}

	for _, lib := range design.Libraries() {
		out.Libraries = append(out.Libraries, LibraryRow{Name: lib.Identifier(), Units: len(lib.Units())})
	}

	for _, doc := range design.Documents() {
		file := doc.Path()
		libName := ""
		if lib := libraryOfDocument(design, doc); lib != nil {
			libName = lib.Identifier()
		}
		out.Files = append(out.Files, FileRow{Path: file, Library: libName, IsThirdParty: thirdParty[file]})

		b := builder{out: &out, file: file, positions: positions}

		for _, e := range doc.Entities() {
			out.Entities = append(out.Entities, EntityRow{Name: e.Identifier(), Library: libName, File: file, Line: positions.Line(e)})
			b.entityInterface(e)
			b.declarations(e, e.DeclaredItems())
			b.statements(e, e.BodyItems())
		}
		for _, a := range doc.Architectures() {
			out.Architectures = append(out.Architectures, ArchitectureRow{
				Name:       a.Identifier(),
				EntityName: a.Entity().Identifier(),
				Library:    libName,
				File:       file,
				Line:       positions.Line(a),
			})
			b.declarations(a, a.DeclaredItems())
			b.statements(a, a.BodyItems())
		}
		for _, p := range doc.Packages() {
			out.Packages = append(out.Packages, PackageRow{
				Name:    p.Identifier(),
				Library: libName,
				File:    file,
				Line:    positions.Line(p),
				HasBody: hasBody(design, doc, p),
			})
			b.declarations(p, p.DeclaredItems())
		}
		for _, pb := range doc.PackageBodies() {
			out.PackageBodies = append(out.PackageBodies, PackageBodyRow{Name: pb.Identifier(), Library: libName, File: file, Line: positions.Line(pb)})
			b.declarations(pb, pb.DeclaredItems())
		}
		for _, c := range doc.Contexts() {
			out.Contexts = append(out.Contexts, ContextRow{Name: c.Identifier(), Library: libName, File: file, Line: positions.Line(c)})
			for _, ref := range c.References() {
				out.ContextReferences = append(out.ContextReferences, ContextReferenceRow{
					Context: c.Identifier(),
					Kind:    ref.Kind.String(),
					Name:    ref.Name,
					File:    file,
				})
			}
		}
		for _, c := range doc.Configurations() {
			out.Configurations = append(out.Configurations, ConfigurationRow{
				Name:       c.Identifier(),
				EntityName: c.EntityName(),
				Library:    libName,
				File:       file,
				Line:       positions.Line(c),
			})
		}
	}

	out.Symbols = append(out.Symbols, symbols...)
	sortTables(&out)
	return out
}

// libraryOfDocument returns the library a document's units were registered
// in. Documents without units have no library.
func libraryOfDocument(design *model.Design, doc *model.Document) *model.Library {
	units := doc.Units()
	if len(units) == 0 {
		return nil
	}
	lib, err := design.LibraryOf(units[0])
	if err != nil {
		return nil
	}
	return lib
}

func hasBody(design *model.Design, doc *model.Document, pkg *model.Package) bool {
	if _, err := doc.PackageBodyOf(pkg); err == nil {
		return true
	}
	lib, err := design.LibraryOf(pkg)
	if err != nil {
		return false
	}
	_, err = lib.PackageBodyOf(pkg)
	return err == nil
}

type builder struct {
	out       *Tables
	file      string
	positions Positions
}

func (b *builder) entityInterface(e *model.Entity) {
	for _, g := range e.GenericItems() {
		gc, ok := g.(*model.GenericConstant)
		if !ok {
			continue
		}
		b.out.Generics = append(b.out.Generics, GenericRow{
			Entity:  e.Identifier(),
			Name:    gc.Identifier(),
			Type:    gc.Subtype().String(),
			Default: literalText(gc.Default()),
			File:    b.file,
			Line:    b.positions.Line(gc),
		})
	}
	for _, p := range e.PortItems() {
		ps, ok := p.(*model.PortSignal)
		if !ok {
			continue
		}
		b.out.Ports = append(b.out.Ports, PortRow{
			Entity:    e.Identifier(),
			Name:      ps.Identifier(),
			Direction: ps.Mode().String(),
			Type:      ps.Subtype().String(),
			Default:   literalText(ps.Default()),
			File:      b.file,
			Line:      b.positions.Line(ps),
		})
	}
}

func (b *builder) declarations(unit model.DesignUnit, items []model.DeclaredItem) {
	unitName, unitKind := unit.Identifier(), unit.UnitKind().String()
	for _, item := range items {
		line := b.positions.Line(item)
		switch it := item.(type) {
		case *model.Subtype:
			row := SubtypeRow{
				Name:     it.Identifier(),
				Unit:     unitName,
				UnitKind: unitKind,
				File:     b.file,
				Line:     line,
			}
			if base := it.BaseType(); base != nil {
				row.BaseType = base.Identifier()
			}
			if resolved := it.Resolved(); resolved != nil {
				row.Resolved = resolved.Kind().String()
			}
			if c := it.Constraint(); c != nil {
				row.Constraint = c.String()
			}
			b.out.Subtypes = append(b.out.Subtypes, row)
		case model.Type:
			b.typeRows(it, unitName, unitKind, line)
		case *model.Constant:
			b.out.Objects = append(b.out.Objects, b.object(it.Identifier(), "constant", it.Subtype(), it.Value(), unitName, unitKind, line))
		case *model.Signal:
			b.out.Objects = append(b.out.Objects, b.object(it.Identifier(), "signal", it.Subtype(), it.Default(), unitName, unitKind, line))
		case *model.Variable:
			class := "variable"
			if it.Shared() {
				class = "shared variable"
			}
			b.out.Objects = append(b.out.Objects, b.object(it.Identifier(), class, it.Subtype(), nil, unitName, unitKind, line))
		}
	}
}

func (b *builder) object(name, class string, ind model.SubtypeIndication, value model.Literal, unit, unitKind string, line int) ObjectRow {
	return ObjectRow{
		Name:     name,
		Class:    class,
		Type:     ind.String(),
		Value:    literalText(value),
		Unit:     unit,
		UnitKind: unitKind,
		File:     b.file,
		Line:     line,
	}
}

func (b *builder) typeRows(t model.Type, unit, unitKind string, line int) {
	row := TypeRow{
		Name:     t.Identifier(),
		Kind:     t.Kind().String(),
		Unit:     unit,
		UnitKind: unitKind,
		File:     b.file,
		Line:     line,
	}
	switch tt := t.(type) {
	case *model.IntegerType:
		row.Constraint = tt.Range().String()
	case *model.RealType:
		row.Constraint = tt.Range().String()
	case *model.PhysicalType:
		row.Constraint = tt.Range().String()
	case *model.EnumeratedType:
		for i, lit := range tt.Literals() {
			b.out.EnumLiterals = append(b.out.EnumLiterals, EnumLiteralRow{
				Type:     tt.Identifier(),
				Literal:  lit.String(),
				Position: i,
				Unit:     unit,
				File:     b.file,
			})
		}
	case *model.ArrayType:
		parts := make([]string, 0, len(tt.IndexConstraints()))
		for _, c := range tt.IndexConstraints() {
			parts = append(parts, c.String())
		}
		if len(parts) > 0 {
			row.Constraint = "(" + strings.Join(parts, ", ") + ")"
		}
		if elem := tt.ElementType(); elem != nil {
			row.Element = elem.Identifier()
		}
	case *model.RecordType:
		for _, el := range tt.Elements() {
			b.out.RecordElements = append(b.out.RecordElements, RecordElementRow{
				Record: tt.Identifier(),
				Name:   el.Identifier(),
				Type:   el.Subtype().String(),
				Unit:   unit,
				File:   b.file,
				Line:   b.positions.Line(ElementKey{Record: tt, Name: el.Identifier()}),
			})
		}
	}
	b.out.Types = append(b.out.Types, row)
}

func (b *builder) statements(unit model.DesignUnit, stmts []model.ConcurrentStatement) {
	for _, st := range stmts {
		switch s := st.(type) {
		case *model.ProcessStatement:
			b.out.Processes = append(b.out.Processes, ProcessRow{
				Label:       s.Label(),
				Sensitivity: strings.Join(s.Sensitivity(), ","),
				Unit:        unit.Identifier(),
				File:        b.file,
				Line:        b.positions.Line(s),
			})
		case *model.Instantiation:
			b.out.Instances = append(b.out.Instances, InstanceRow{
				Label:  s.Label(),
				Kind:   s.Kind().String(),
				Target: s.Target(),
				Unit:   unit.Identifier(),
				File:   b.file,
				Line:   b.positions.Line(s),
			})
		}
	}
}

func literalText(l model.Literal) string {
	if l == nil {
		return ""
	}
	return l.String()
}

func sortTables(t *Tables) {
	sort.SliceStable(t.Files, func(i, j int) bool { return t.Files[i].Path < t.Files[j].Path })
	sort.SliceStable(t.Libraries, func(i, j int) bool { return t.Libraries[i].Name < t.Libraries[j].Name })
	sortByFileLine(t.Entities, func(r EntityRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Architectures, func(r ArchitectureRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Packages, func(r PackageRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.PackageBodies, func(r PackageBodyRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Contexts, func(r ContextRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Configurations, func(r ConfigurationRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Generics, func(r GenericRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Ports, func(r PortRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Types, func(r TypeRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Subtypes, func(r SubtypeRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.RecordElements, func(r RecordElementRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Objects, func(r ObjectRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Processes, func(r ProcessRow) (string, int) { return r.File, r.Line })
	sortByFileLine(t.Instances, func(r InstanceRow) (string, int) { return r.File, r.Line })
	sort.SliceStable(t.Symbols, func(i, j int) bool {
		if t.Symbols[i].Name == t.Symbols[j].Name {
			return t.Symbols[i].File < t.Symbols[j].File
		}
		return t.Symbols[i].Name < t.Symbols[j].Name
	})
}

// sortByFileLine orders rows by file, then line. Rows on the same line keep
// declaration order.
func sortByFileLine[T any](rows []T, key func(T) (string, int)) {
	sort.SliceStable(rows, func(i, j int) bool {
		fi, li := key(rows[i])
		fj, lj := key(rows[j])
		if fi != fj {
			return fi < fj
		}
		return li < lj
	})
}
