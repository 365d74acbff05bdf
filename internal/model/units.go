package model

// UnitKind tags the design unit kinds.
type UnitKind int

const (
	EntityUnit UnitKind = iota + 1
	ArchitectureUnit
	PackageUnit
	PackageBodyUnit
	ContextUnit
	ConfigurationUnit
)

func (k UnitKind) String() string {
	switch k {
	case EntityUnit:
		return "entity"
	case ArchitectureUnit:
		return "architecture"
	case PackageUnit:
		return "package"
	case PackageBodyUnit:
		return "package body"
	case ContextUnit:
		return "context"
	case ConfigurationUnit:
		return "configuration"
	}
	return "unknown"
}

// IsPrimary reports whether units of this kind are primary units (analyzed
// on their own) rather than secondary units bound to a primary unit.
func (k UnitKind) IsPrimary() bool {
	return k != ArchitectureUnit && k != PackageBodyUnit
}

// DesignUnit is implemented by *Entity, *Architecture, *Package,
// *PackageBody, *Context and *Configuration.
type DesignUnit interface {
	Identifier() string
	UnitKind() UnitKind
	isDesignUnit()
}

var (
	_ DesignUnit = (*Entity)(nil)
	_ DesignUnit = (*Architecture)(nil)
	_ DesignUnit = (*Package)(nil)
	_ DesignUnit = (*PackageBody)(nil)
	_ DesignUnit = (*Context)(nil)
	_ DesignUnit = (*Configuration)(nil)
)

// declarativePart holds the declarations of a unit in declaration order.
type declarativePart struct {
	declared registry[DeclaredItem]
}

func newDeclarativePart() declarativePart {
	return declarativePart{declared: newRegistry[DeclaredItem]()}
}

func (d *declarativePart) DeclaredItems() []DeclaredItem {
	return d.declared.list()
}

func (d *declarativePart) DeclaredItem(identifier string) (DeclaredItem, error) {
	item, ok := d.declared.get(NormalizeIdentifier(identifier))
	if !ok {
		return nil, newError("DeclaredItem", identifier, ErrNotFound)
	}
	return item, nil
}

// Type looks up a type or subtype declared in this unit.
func (d *declarativePart) Type(identifier string) (Type, error) {
	item, ok := d.declared.get(NormalizeIdentifier(identifier))
	if !ok {
		return nil, newError("Type", identifier, ErrNotFound)
	}
	t, ok := item.(Type)
	if !ok {
		return nil, newError("Type", identifier, ErrNotFound)
	}
	return t, nil
}

func (d *declarativePart) addDeclared(op string, item DeclaredItem, taken func(key string) bool) error {
	if isNil(item) {
		return newError(op, "", ErrInvalidReference)
	}
	key := NormalizeIdentifier(item.Identifier())
	if d.declared.has(key) || (taken != nil && taken(key)) {
		return newError(op, item.Identifier(), ErrDuplicateIdentifier)
	}
	d.declared.insert(key, item)
	return nil
}

// statementPart holds the concurrent statements of a unit in order.
type statementPart struct {
	body []ConcurrentStatement
}

func (s *statementPart) BodyItems() []ConcurrentStatement {
	out := make([]ConcurrentStatement, len(s.body))
	copy(out, s.body)
	return out
}

func (s *statementPart) addBody(op string, stmt ConcurrentStatement) error {
	if isNil(stmt) {
		return newError(op, "", ErrInvalidReference)
	}
	s.body = append(s.body, stmt)
	return nil
}

// Entity is an entity declaration. Generics, ports and declarations share
// one namespace.
type Entity struct {
	identifier string
	generics   registry[GenericItem]
	ports      registry[PortItem]
	declarativePart
	statementPart
}

func NewEntity(identifier string) (*Entity, error) {
	if err := checkIdentifier("NewEntity", identifier); err != nil {
		return nil, err
	}
	return &Entity{
		identifier:      identifier,
		generics:        newRegistry[GenericItem](),
		ports:           newRegistry[PortItem](),
		declarativePart: newDeclarativePart(),
	}, nil
}

func (e *Entity) Identifier() string { return e.identifier }
func (*Entity) UnitKind() UnitKind   { return EntityUnit }
func (*Entity) isDesignUnit()        {}

func (e *Entity) GenericItems() []GenericItem { return e.generics.list() }
func (e *Entity) PortItems() []PortItem       { return e.ports.list() }

func (e *Entity) interfaceTaken(key string) bool {
	return e.generics.has(key) || e.ports.has(key)
}

func (e *Entity) AddGeneric(g GenericItem) error {
	const op = "Entity.AddGeneric"
	if isNil(g) {
		return newError(op, e.identifier, ErrInvalidReference)
	}
	key := NormalizeIdentifier(g.Identifier())
	if e.interfaceTaken(key) || e.declared.has(key) {
		return newError(op, g.Identifier(), ErrDuplicateIdentifier)
	}
	e.generics.insert(key, g)
	return nil
}

func (e *Entity) AddPort(p PortItem) error {
	const op = "Entity.AddPort"
	if isNil(p) {
		return newError(op, e.identifier, ErrInvalidReference)
	}
	key := NormalizeIdentifier(p.Identifier())
	if e.interfaceTaken(key) || e.declared.has(key) {
		return newError(op, p.Identifier(), ErrDuplicateIdentifier)
	}
	e.ports.insert(key, p)
	return nil
}

func (e *Entity) Generic(identifier string) (GenericItem, error) {
	g, ok := e.generics.get(NormalizeIdentifier(identifier))
	if !ok {
		return nil, newError("Entity.Generic", identifier, ErrNotFound)
	}
	return g, nil
}

func (e *Entity) Port(identifier string) (PortItem, error) {
	p, ok := e.ports.get(NormalizeIdentifier(identifier))
	if !ok {
		return nil, newError("Entity.Port", identifier, ErrNotFound)
	}
	return p, nil
}

func (e *Entity) AddDeclaredItem(item DeclaredItem) error {
	return e.addDeclared("Entity.AddDeclaredItem", item, e.interfaceTaken)
}

func (e *Entity) AddBodyItem(stmt ConcurrentStatement) error {
	return e.addBody("Entity.AddBodyItem", stmt)
}

// Architecture is an architecture body. It observes its entity without
// owning it; the entity keeps no list of its architectures (use
// Document.ArchitecturesOf or Library.ArchitecturesOf).
type Architecture struct {
	identifier string
	entity     *Entity
	declarativePart
	statementPart
}

// NewArchitecture binds the architecture to an already constructed entity.
func NewArchitecture(identifier string, entity *Entity) (*Architecture, error) {
	if err := checkIdentifier("NewArchitecture", identifier); err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, newError("NewArchitecture", identifier, ErrInvalidReference)
	}
	return &Architecture{identifier: identifier, entity: entity, declarativePart: newDeclarativePart()}, nil
}

func (a *Architecture) Identifier() string { return a.identifier }
func (a *Architecture) Entity() *Entity    { return a.entity }
func (*Architecture) UnitKind() UnitKind   { return ArchitectureUnit }
func (*Architecture) isDesignUnit()        {}

func (a *Architecture) AddDeclaredItem(item DeclaredItem) error {
	return a.addDeclared("Architecture.AddDeclaredItem", item, nil)
}

func (a *Architecture) AddBodyItem(stmt ConcurrentStatement) error {
	return a.addBody("Architecture.AddBodyItem", stmt)
}

// Package is a package declaration.
type Package struct {
	identifier string
	declarativePart
}

func NewPackage(identifier string) (*Package, error) {
	if err := checkIdentifier("NewPackage", identifier); err != nil {
		return nil, err
	}
	return &Package{identifier: identifier, declarativePart: newDeclarativePart()}, nil
}

func (p *Package) Identifier() string { return p.identifier }
func (*Package) UnitKind() UnitKind   { return PackageUnit }
func (*Package) isDesignUnit()        {}

func (p *Package) AddDeclaredItem(item DeclaredItem) error {
	return p.addDeclared("Package.AddDeclaredItem", item, nil)
}

// PackageBody is the body of the package with the same identifier. The
// package does not have to exist when the body is constructed.
type PackageBody struct {
	identifier string
	declarativePart
}

func NewPackageBody(identifier string) (*PackageBody, error) {
	if err := checkIdentifier("NewPackageBody", identifier); err != nil {
		return nil, err
	}
	return &PackageBody{identifier: identifier, declarativePart: newDeclarativePart()}, nil
}

func (b *PackageBody) Identifier() string { return b.identifier }
func (*PackageBody) UnitKind() UnitKind   { return PackageBodyUnit }
func (*PackageBody) isDesignUnit()        {}

func (b *PackageBody) AddDeclaredItem(item DeclaredItem) error {
	return b.addDeclared("PackageBody.AddDeclaredItem", item, nil)
}

// ReferenceKind distinguishes the clauses of a context declaration.
type ReferenceKind int

const (
	LibraryClause ReferenceKind = iota
	UseClause
	ContextClause
)

func (k ReferenceKind) String() string {
	switch k {
	case UseClause:
		return "use"
	case ContextClause:
		return "context"
	}
	return "library"
}

// ContextReference is one library, use or context clause, e.g.
// {UseClause, "ieee.std_logic_1164.all"}.
type ContextReference struct {
	Kind ReferenceKind
	Name string
}

// Context is a VHDL-2008 context declaration.
type Context struct {
	identifier string
	references []ContextReference
}

func NewContext(identifier string) (*Context, error) {
	if err := checkIdentifier("NewContext", identifier); err != nil {
		return nil, err
	}
	return &Context{identifier: identifier}, nil
}

func (c *Context) Identifier() string { return c.identifier }
func (*Context) UnitKind() UnitKind   { return ContextUnit }
func (*Context) isDesignUnit()        {}

func (c *Context) References() []ContextReference {
	out := make([]ContextReference, len(c.references))
	copy(out, c.references)
	return out
}

func (c *Context) AddReference(ref ContextReference) error {
	if ref.Name == "" {
		return newError("Context.AddReference", c.identifier, ErrInvalidReference)
	}
	c.references = append(c.references, ref)
	return nil
}

// Configuration is a configuration declaration. EntityName is the entity it
// configures, as written; it is empty until set.
type Configuration struct {
	identifier string
	entityName string
}

func NewConfiguration(identifier string) (*Configuration, error) {
	if err := checkIdentifier("NewConfiguration", identifier); err != nil {
		return nil, err
	}
	return &Configuration{identifier: identifier}, nil
}

func (c *Configuration) Identifier() string { return c.identifier }
func (c *Configuration) EntityName() string { return c.entityName }
func (*Configuration) UnitKind() UnitKind   { return ConfigurationUnit }
func (*Configuration) isDesignUnit()        {}

func (c *Configuration) SetEntityName(name string) error {
	if err := checkIdentifier("Configuration.SetEntityName", name); err != nil {
		return err
	}
	c.entityName = name
	return nil
}
