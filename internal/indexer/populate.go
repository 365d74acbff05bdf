package indexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
)

// populator builds one model.Design from extracted facts. It runs on a
// single goroutine: the model has no locks.
type populator struct {
	design    *model.Design
	libraries map[string]*libraryUnits
	files     []*fileContext
	consts    constants
	pending   []pendingType
	positions facts.Positions
	symbols   *SymbolTable
	errs      []ParseError

	// use clauses of entities and packages, visible in their architectures
	// and bodies
	uses map[model.DesignUnit][]packageRef
}

// libraryUnits indexes the units already placed in one library, first
// declaration wins. It is what lets an architecture find its entity in
// another file and what rejects a second unit of the same name.
type libraryUnits struct {
	lib            *model.Library
	entities       map[string]*model.Entity
	architectures  map[string]bool
	packages       map[string]*model.Package
	packageBodies  map[string]bool
	contexts       map[string]bool
	configurations map[string]bool
}

type fileContext struct {
	facts   extractor.FileFacts
	doc     *model.Document
	units   *libraryUnits
	libName string
}

// packageRef is a package made visible by a use clause.
type packageRef struct {
	library string
	name    string
}

// pendingType is a base or element type that was not visible when its
// declaration was processed. It is retried once every unit exists.
type pendingType struct {
	scope *scope
	mark  string
	file  string
	line  int
	apply func(model.Type) error
}

func newPopulator(symbols *SymbolTable) *populator {
	return &populator{
		design:    model.NewDesign(),
		libraries: make(map[string]*libraryUnits),
		positions: make(facts.Positions),
		symbols:   symbols,
		uses:      make(map[model.DesignUnit][]packageRef),
	}
}

func (p *populator) fail(file string, line int, err error) {
	p.errs = append(p.errs, ParseError{File: file, Line: line, Message: err.Error(), Err: err})
}

// library returns the index for name, creating the model.Library on first
// use.
func (p *populator) library(name string) *libraryUnits {
	key := model.NormalizeIdentifier(name)
	if lu, ok := p.libraries[key]; ok {
		return lu
	}
	lib, err := model.NewLibrary(name)
	if err != nil {
		p.fail("", 0, err)
		return nil
	}
	if err := p.design.AddLibrary(lib); err != nil {
		p.fail("", 0, err)
		return nil
	}
	lu := &libraryUnits{
		lib:            lib,
		entities:       make(map[string]*model.Entity),
		architectures:  make(map[string]bool),
		packages:       make(map[string]*model.Package),
		packageBodies:  make(map[string]bool),
		contexts:       make(map[string]bool),
		configurations: make(map[string]bool),
	}
	p.libraries[key] = lu
	return lu
}

// populate runs the population phases. Units are processed kind by kind
// across all files (packages, bodies, entities, contexts, configurations,
// architectures) so that references into other files usually find their
// target on the first try; what is still missing is resolved at the end.
func (p *populator) populate(all []extractor.FileFacts, fileLibs map[string]config.FileLibraryInfo) {
	sorted := make([]extractor.FileFacts, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })
	p.consts = buildConstants(sorted)

	for _, ff := range sorted {
		libName := "work"
		if info, ok := fileLibs[ff.File]; ok && info.LibraryName != "" {
			libName = info.LibraryName
		}
		units := p.library(libName)
		if units == nil {
			continue
		}
		doc, err := model.NewDocument(ff.File)
		if err != nil {
			p.fail(ff.File, 0, err)
			continue
		}
		if err := p.design.AddDocument(doc); err != nil {
			p.fail(ff.File, 0, err)
			continue
		}
		p.files = append(p.files, &fileContext{
			facts:   ff,
			doc:     doc,
			units:   units,
			libName: model.NormalizeIdentifier(units.lib.Identifier()),
		})
	}

	for _, fc := range p.files {
		for _, pkg := range fc.facts.Packages {
			p.addPackage(fc, pkg)
		}
	}
	for _, fc := range p.files {
		for _, body := range fc.facts.PackageBodies {
			p.addPackageBody(fc, body)
		}
	}
	for _, fc := range p.files {
		for _, e := range fc.facts.Entities {
			p.addEntity(fc, e)
		}
	}
	for _, fc := range p.files {
		for _, c := range fc.facts.Contexts {
			p.addContext(fc, c)
		}
		for _, c := range fc.facts.Configurations {
			p.addConfiguration(fc, c)
		}
	}
	for _, fc := range p.files {
		for _, a := range fc.facts.Architectures {
			p.addArchitecture(fc, a)
		}
	}

	p.resolvePending()

	for _, fc := range p.files {
		if err := fc.units.lib.AddDocument(fc.doc); err != nil {
			p.fail(fc.doc.Path(), 0, fmt.Errorf("registering in library %s: %w", fc.units.lib.Identifier(), err))
		}
	}
}

func useClauses(deps []extractor.Dependency) []packageRef {
	var out []packageRef
	for _, d := range deps {
		if d.Kind != "use" {
			continue
		}
		parts := strings.Split(d.Target, ".")
		if len(parts) < 2 {
			continue
		}
		out = append(out, packageRef{
			library: model.NormalizeIdentifier(parts[0]),
			name:    model.NormalizeIdentifier(parts[1]),
		})
	}
	return out
}

// duplicate reports a unit that is already declared in the library.
func (p *populator) duplicate(fc *fileContext, kind, name string, line int) {
	p.fail(fc.doc.Path(), line, fmt.Errorf("%s %s already declared in library %s: %w",
		kind, name, fc.units.lib.Identifier(), model.ErrDuplicateIdentifier))
}

func (p *populator) addPackage(fc *fileContext, pf extractor.Package) {
	key := model.NormalizeIdentifier(pf.Name)
	if _, taken := fc.units.packages[key]; taken {
		p.duplicate(fc, "package", pf.Name, pf.Line)
		return
	}
	pkg, err := model.NewPackage(pf.Name)
	if err != nil {
		p.fail(fc.doc.Path(), pf.Line, err)
		return
	}
	if err := fc.doc.AddPackage(pkg); err != nil {
		p.fail(fc.doc.Path(), pf.Line, err)
		return
	}
	fc.units.packages[key] = pkg
	p.positions[pkg] = pf.Line
	p.addSymbol(fc, "package", pf.Line, pf.Name)

	uses := useClauses(pf.Clauses)
	p.uses[pkg] = uses
	sc := &scope{p: p, file: fc, chain: []typeScope{pkg}, uses: uses}
	p.declarations(fc, sc, pkg, pf.Declarations, pf.Name)
}

func (p *populator) addPackageBody(fc *fileContext, bf extractor.PackageBody) {
	key := model.NormalizeIdentifier(bf.Name)
	if fc.units.packageBodies[key] {
		p.duplicate(fc, "package body", bf.Name, bf.Line)
		return
	}
	body, err := model.NewPackageBody(bf.Name)
	if err != nil {
		p.fail(fc.doc.Path(), bf.Line, err)
		return
	}
	if err := fc.doc.AddPackageBody(body); err != nil {
		p.fail(fc.doc.Path(), bf.Line, err)
		return
	}
	fc.units.packageBodies[key] = true
	p.positions[body] = bf.Line

	sc := &scope{p: p, file: fc, chain: []typeScope{body}, uses: useClauses(bf.Clauses)}
	if pkg, ok := fc.units.packages[key]; ok {
		sc.chain = append(sc.chain, pkg)
		sc.uses = append(sc.uses, p.uses[pkg]...)
	}
	p.declarations(fc, sc, body, bf.Declarations, "")
}

func (p *populator) addEntity(fc *fileContext, ef extractor.Entity) {
	key := model.NormalizeIdentifier(ef.Name)
	if _, taken := fc.units.entities[key]; taken {
		p.duplicate(fc, "entity", ef.Name, ef.Line)
		return
	}
	entity, err := model.NewEntity(ef.Name)
	if err != nil {
		p.fail(fc.doc.Path(), ef.Line, err)
		return
	}
	if err := fc.doc.AddEntity(entity); err != nil {
		p.fail(fc.doc.Path(), ef.Line, err)
		return
	}
	fc.units.entities[key] = entity
	p.positions[entity] = ef.Line
	p.addSymbol(fc, "entity", ef.Line, ef.Name)

	uses := useClauses(ef.Clauses)
	p.uses[entity] = uses
	sc := &scope{p: p, file: fc, chain: []typeScope{entity}, uses: uses}
	file := fc.doc.Path()
	for _, g := range ef.Generics {
		ind := p.indication(g.Type, sc)
		gc, err := model.NewGenericConstant(g.Name, ind)
		if err != nil {
			p.fail(file, g.Line, err)
			continue
		}
		gc.SetDefault(literalOf(g.Default, ind, p.consts))
		if err := entity.AddGeneric(gc); err != nil {
			p.fail(file, g.Line, err)
			continue
		}
		p.positions[gc] = g.Line
	}
	for _, port := range ef.Ports {
		mode, ok := model.ParseMode(port.Direction)
		if !ok {
			p.fail(file, port.Line, fmt.Errorf("port %s: unknown mode %q", port.Name, port.Direction))
			continue
		}
		ind := p.indication(port.Type, sc)
		ps, err := model.NewPortSignal(port.Name, mode, ind)
		if err != nil {
			p.fail(file, port.Line, err)
			continue
		}
		ps.SetDefault(literalOf(port.Default, ind, p.consts))
		if err := entity.AddPort(ps); err != nil {
			p.fail(file, port.Line, err)
			continue
		}
		p.positions[ps] = port.Line
	}
	p.declarations(fc, sc, entity, ef.Declarations, "")
	p.statements(fc, entity, ef.Statements)
}

func (p *populator) addArchitecture(fc *fileContext, af extractor.Architecture) {
	file := fc.doc.Path()
	entity, err := fc.doc.Entity(af.EntityName)
	if err != nil {
		entity = fc.units.entities[model.NormalizeIdentifier(af.EntityName)]
	}
	if entity == nil {
		p.fail(file, af.Line, fmt.Errorf("architecture %s of %s: entity not found in library %s: %w",
			af.Name, af.EntityName, fc.units.lib.Identifier(), model.ErrInvalidReference))
		return
	}
	key := model.NormalizeIdentifier(entity.Identifier()) + "." + model.NormalizeIdentifier(af.Name)
	if fc.units.architectures[key] {
		p.duplicate(fc, "architecture", af.Name+" of "+af.EntityName, af.Line)
		return
	}
	arch, err := model.NewArchitecture(af.Name, entity)
	if err != nil {
		p.fail(file, af.Line, err)
		return
	}
	if err := fc.doc.AddArchitecture(arch); err != nil {
		p.fail(file, af.Line, err)
		return
	}
	fc.units.architectures[key] = true
	p.positions[arch] = af.Line

	sc := &scope{p: p, file: fc, chain: []typeScope{arch, entity}, uses: useClauses(af.Clauses)}
	sc.uses = append(sc.uses, p.uses[entity]...)
	p.declarations(fc, sc, arch, af.Declarations, "")
	p.statements(fc, arch, af.Statements)
}

var referenceKinds = map[string]model.ReferenceKind{
	"library": model.LibraryClause,
	"use":     model.UseClause,
	"context": model.ContextClause,
}

func (p *populator) addContext(fc *fileContext, cf extractor.Context) {
	key := model.NormalizeIdentifier(cf.Name)
	if fc.units.contexts[key] {
		p.duplicate(fc, "context", cf.Name, cf.Line)
		return
	}
	ctx, err := model.NewContext(cf.Name)
	if err != nil {
		p.fail(fc.doc.Path(), cf.Line, err)
		return
	}
	for _, clause := range cf.Clauses {
		kind, ok := referenceKinds[clause.Kind]
		if !ok {
			continue
		}
		if err := ctx.AddReference(model.ContextReference{Kind: kind, Name: clause.Target}); err != nil {
			p.fail(fc.doc.Path(), clause.Line, err)
		}
	}
	if err := fc.doc.AddContext(ctx); err != nil {
		p.fail(fc.doc.Path(), cf.Line, err)
		return
	}
	fc.units.contexts[key] = true
	p.positions[ctx] = cf.Line
	p.addSymbol(fc, "context", cf.Line, cf.Name)
}

func (p *populator) addConfiguration(fc *fileContext, cf extractor.Configuration) {
	key := model.NormalizeIdentifier(cf.Name)
	if fc.units.configurations[key] {
		p.duplicate(fc, "configuration", cf.Name, cf.Line)
		return
	}
	conf, err := model.NewConfiguration(cf.Name)
	if err != nil {
		p.fail(fc.doc.Path(), cf.Line, err)
		return
	}
	if cf.EntityName != "" {
		// "configuration c of work.top" names the entity with its library
		name := cf.EntityName
		if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
			name = name[dot+1:]
		}
		if err := conf.SetEntityName(name); err != nil {
			p.fail(fc.doc.Path(), cf.Line, err)
		}
	}
	if err := fc.doc.AddConfiguration(conf); err != nil {
		p.fail(fc.doc.Path(), cf.Line, err)
		return
	}
	fc.units.configurations[key] = true
	p.positions[conf] = cf.Line
	p.addSymbol(fc, "configuration", cf.Line, cf.Name)
}

// declarer is a unit with a declarative part.
type declarer interface {
	AddDeclaredItem(item model.DeclaredItem) error
}

// declarations adds decls to unit in order. pkg is the enclosing package
// name when the items are visible to other units; they are then exported
// as library.package.item symbols.
func (p *populator) declarations(fc *fileContext, sc *scope, unit declarer, decls []extractor.Declaration, pkg string) {
	file := fc.doc.Path()
	for _, d := range decls {
		var item model.DeclaredItem
		var err error
		switch d.Kind {
		case extractor.DeclType:
			t := p.typeDeclaration(fc, sc, d)
			if t == nil {
				continue
			}
			item = t
		case extractor.DeclSubtype:
			item, err = p.subtypeDeclaration(fc, sc, d)
		case extractor.DeclConstant:
			ind := p.indication(d.Indication, sc)
			item, err = model.NewConstant(d.Name, ind, literalOf(d.Default, ind, p.consts))
		case extractor.DeclSignal:
			ind := p.indication(d.Indication, sc)
			var sig *model.Signal
			if sig, err = model.NewSignal(d.Name, ind); err == nil {
				sig.SetDefault(literalOf(d.Default, ind, p.consts))
				item = sig
			}
		case extractor.DeclVariable:
			item, err = model.NewVariable(d.Name, p.indication(d.Indication, sc), d.Shared)
		default:
			continue
		}
		if err != nil {
			p.fail(file, d.Line, err)
			continue
		}
		if err := unit.AddDeclaredItem(item); err != nil {
			p.fail(file, d.Line, err)
			continue
		}
		p.positions[item] = d.Line
		if pkg != "" {
			p.addSymbol(fc, d.Kind, d.Line, pkg, d.Name)
		}
	}
}

// typeDeclaration builds the model type for d. Access, file, protected and
// incomplete types have no model counterpart and yield nil.
func (p *populator) typeDeclaration(fc *fileContext, sc *scope, d extractor.Declaration) model.Type {
	file := fc.doc.Path()
	td := d.Type
	if td == nil {
		return nil
	}
	switch td.Class {
	case extractor.ClassEnum:
		enum, err := model.NewEnumeratedType(d.Name)
		if err != nil {
			p.fail(file, d.Line, err)
			return nil
		}
		for _, text := range td.Literals {
			lit, err := model.NewEnumerationLiteral(strings.TrimSpace(text))
			if err == nil {
				err = enum.AddLiteral(lit)
			}
			if err != nil {
				p.fail(file, d.Line, err)
			}
		}
		return enum

	case extractor.ClassInteger, extractor.ClassPhysical:
		rng, ok := p.integerRange(td.Range)
		if !ok {
			p.fail(file, d.Line, fmt.Errorf("type %s: range is not a static integer range", d.Name))
			return nil
		}
		if td.Class == extractor.ClassInteger {
			t, err := model.NewIntegerType(d.Name, rng)
			if err != nil {
				p.fail(file, d.Line, err)
				return nil
			}
			return t
		}
		phys, err := model.NewPhysicalType(d.Name, rng, td.PrimaryUnit)
		if err != nil {
			p.fail(file, d.Line, err)
			return nil
		}
		for _, u := range td.Units {
			v, ok := evalInteger(u.Value, p.consts)
			if !ok {
				p.fail(file, d.Line, fmt.Errorf("type %s: unit %s: value %q is not static", d.Name, u.Name, u.Value))
				continue
			}
			if err := phys.AddSecondaryUnit(u.Name, model.NewPhysicalLiteral(v, u.Unit)); err != nil {
				p.fail(file, d.Line, err)
			}
		}
		return phys

	case extractor.ClassReal:
		rng, ok := p.realRange(td.Range)
		if !ok {
			p.fail(file, d.Line, fmt.Errorf("type %s: range is not a static real range", d.Name))
			return nil
		}
		t, err := model.NewRealType(d.Name, rng)
		if err != nil {
			p.fail(file, d.Line, err)
			return nil
		}
		return t

	case extractor.ClassArray:
		indexes := make([]model.Constraint, 0, len(td.Indexes))
		for _, ix := range td.Indexes {
			indexes = append(indexes, p.indexConstraint(ix))
		}
		arr, err := model.NewArrayType(d.Name, indexes, nil)
		if err != nil {
			p.fail(file, d.Line, err)
			return nil
		}
		if td.Element != nil {
			p.resolveLater(sc, td.Element.TypeMark, file, d.Line, func(t model.Type) error {
				arr.SetElementType(t)
				return nil
			})
		}
		return arr

	case extractor.ClassRecord:
		rec, err := model.NewRecordType(d.Name)
		if err != nil {
			p.fail(file, d.Line, err)
			return nil
		}
		for _, f := range td.Fields {
			el, err := model.NewRecordElement(f.Name, p.indication(f.Type, sc))
			if err == nil {
				err = rec.AddElement(el)
			}
			if err != nil {
				p.fail(file, f.Line, err)
				continue
			}
			p.positions[facts.ElementKey{Record: rec, Name: f.Name}] = f.Line
		}
		return rec
	}
	return nil
}

func (p *populator) subtypeDeclaration(fc *fileContext, sc *scope, d extractor.Declaration) (*model.Subtype, error) {
	st, err := model.NewSubtype(d.Name)
	if err != nil {
		return nil, err
	}
	ind := d.Indication
	if ind.Range != nil {
		if c, ok := p.rangeConstraint(ind.Range); ok {
			st.SetConstraint(c)
		}
	} else if len(ind.Index) > 0 {
		st.SetConstraint(p.indexConstraint(ind.Index[0]))
	}
	p.resolveLater(sc, ind.TypeMark, fc.doc.Path(), d.Line, st.SetBaseType)
	return st, nil
}

// indication converts a subtype indication and looks up its type mark in
// the scope visible at this point.
func (p *populator) indication(ind extractor.Indication, sc *scope) model.SubtypeIndication {
	out := model.SubtypeIndication{TypeMark: ind.TypeMark}
	if ind.Range != nil {
		if c, ok := p.rangeConstraint(ind.Range); ok {
			out.Range = c
		}
	}
	for _, ix := range ind.Index {
		out.Index = append(out.Index, p.indexConstraint(ix))
	}
	out.Type = sc.lookup(ind.TypeMark)
	return out
}

func (p *populator) indexConstraint(ix extractor.Index) model.Constraint {
	if ix.Unbounded {
		return model.IndexSubtypeConstraint{TypeMark: ix.TypeMark, Unbounded: true}
	}
	if ix.Range != nil {
		if c, ok := p.rangeConstraint(ix.Range); ok {
			return c
		}
		// a bound that is not static is kept as written
		return model.IndexSubtypeConstraint{TypeMark: ix.Range.Left + " " + ix.Range.Direction + " " + ix.Range.Right}
	}
	return model.IndexSubtypeConstraint{TypeMark: ix.TypeMark}
}

func (p *populator) rangeConstraint(r *extractor.RangeExpr) (model.Constraint, bool) {
	if rng, ok := p.integerRange(r); ok {
		return rng, true
	}
	if rng, ok := p.realRange(r); ok {
		return rng, true
	}
	return nil, false
}

func direction(r *extractor.RangeExpr) model.Direction {
	if strings.EqualFold(r.Direction, "downto") {
		return model.DownTo
	}
	return model.To
}

func (p *populator) integerRange(r *extractor.RangeExpr) (model.Range[model.IntegerLiteral], bool) {
	if r == nil {
		return model.Range[model.IntegerLiteral]{}, false
	}
	left, lok := evalInteger(r.Left, p.consts)
	right, rok := evalInteger(r.Right, p.consts)
	if !lok || !rok {
		return model.Range[model.IntegerLiteral]{}, false
	}
	return model.NewRange(model.NewIntegerLiteral(left), model.NewIntegerLiteral(right), direction(r)), true
}

func (p *populator) realRange(r *extractor.RangeExpr) (model.Range[model.FloatingPointLiteral], bool) {
	if r == nil {
		return model.Range[model.FloatingPointLiteral]{}, false
	}
	left, lok := parseReal(strings.TrimSpace(r.Left))
	right, rok := parseReal(strings.TrimSpace(r.Right))
	if !lok || !rok {
		return model.Range[model.FloatingPointLiteral]{}, false
	}
	return model.NewRange(model.NewFloatingPointLiteral(left), model.NewFloatingPointLiteral(right), direction(r)), true
}

func (p *populator) statements(fc *fileContext, unit interface {
	AddBodyItem(model.ConcurrentStatement) error
}, stmts []extractor.Statement) {
	file := fc.doc.Path()
	for _, st := range stmts {
		var stmt model.ConcurrentStatement
		var err error
		switch st.Kind {
		case extractor.StmtProcess:
			stmt, err = model.NewProcessStatement(st.Label, st.Sensitivity)
		case extractor.StmtEntity:
			stmt, err = model.NewInstantiation(st.Label, model.InstantiateEntity, st.Target)
		case extractor.StmtComponent:
			stmt, err = model.NewInstantiation(st.Label, model.InstantiateComponent, st.Target)
		case extractor.StmtConfiguration:
			stmt, err = model.NewInstantiation(st.Label, model.InstantiateConfiguration, st.Target)
		default:
			continue
		}
		if err == nil {
			err = unit.AddBodyItem(stmt)
		}
		if err != nil {
			p.fail(file, st.Line, err)
			continue
		}
		p.positions[stmt] = st.Line
	}
}

// resolveLater applies the type named by mark now if it is visible, or
// queues it for the final resolution pass.
func (p *populator) resolveLater(sc *scope, mark, file string, line int, apply func(model.Type) error) {
	if mark == "" {
		return
	}
	if t := sc.lookup(mark); t != nil {
		if err := apply(t); err != nil {
			p.fail(file, line, err)
		}
		return
	}
	p.pending = append(p.pending, pendingType{scope: sc, mark: mark, file: file, line: line, apply: apply})
}

// resolvePending retries queued lookups. Marks that are still not visible
// (a type from an unanalyzed library, or a misspelling) stay unresolved.
func (p *populator) resolvePending() {
	for _, pt := range p.pending {
		t := pt.scope.lookup(pt.mark)
		if t == nil {
			continue
		}
		if err := pt.apply(t); err != nil {
			p.fail(pt.file, pt.line, err)
		}
	}
	p.pending = nil
}

func (p *populator) addSymbol(fc *fileContext, kind string, line int, path ...string) {
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, fc.libName)
	for _, name := range path {
		parts = append(parts, model.NormalizeIdentifier(name))
	}
	p.symbols.Add(Symbol{
		Name: strings.Join(parts, "."),
		Kind: kind,
		File: fc.doc.Path(),
		Line: line,
	})
}

// typeScope is a declarative region that can be searched for a type.
type typeScope interface {
	Type(identifier string) (model.Type, error)
}

// scope is the name visibility of one declarative part: the region itself,
// its enclosing regions (the entity of an architecture, the package of a
// body) and the packages named by the use clauses of the unit and of the
// unit it belongs to.
type scope struct {
	p     *populator
	file  *fileContext
	chain []typeScope
	uses  []packageRef
}

func (s *scope) lookup(mark string) model.Type {
	if mark == "" {
		return nil
	}
	if parts := strings.Split(mark, "."); len(parts) > 1 {
		n := len(parts)
		lib := s.file.libName
		if n > 2 {
			lib = s.libraryName(parts[n-3])
		}
		return s.fromPackage(lib, parts[n-2], parts[n-1])
	}
	for _, region := range s.chain {
		if t, err := region.Type(mark); err == nil {
			return t
		}
	}
	for _, use := range s.uses {
		if t := s.fromPackage(s.libraryName(use.library), use.name, mark); t != nil {
			return t
		}
	}
	return nil
}

// libraryName maps the alias "work" to the library of the current file.
func (s *scope) libraryName(name string) string {
	name = model.NormalizeIdentifier(name)
	if name == "work" {
		return s.file.libName
	}
	return name
}

func (s *scope) fromPackage(lib, pkgName, name string) model.Type {
	units, ok := s.p.libraries[model.NormalizeIdentifier(lib)]
	if !ok {
		return nil
	}
	pkg, ok := units.packages[model.NormalizeIdentifier(pkgName)]
	if !ok {
		return nil
	}
	t, err := pkg.Type(name)
	if err != nil {
		return nil
	}
	return t
}
