package model

// unitSet is the per-kind unit registry shared by Document and Library.
// Identifiers are unique per kind; architectures are unique per entity.
type unitSet struct {
	owner          string
	entities       registry[*Entity]
	architectures  registry[*Architecture]
	archsByEntity  map[string][]*Architecture
	packages       registry[*Package]
	packageBodies  registry[*PackageBody]
	contexts       registry[*Context]
	configurations registry[*Configuration]
}

func newUnitSet(owner string) unitSet {
	return unitSet{
		owner:          owner,
		entities:       newRegistry[*Entity](),
		architectures:  newRegistry[*Architecture](),
		archsByEntity:  make(map[string][]*Architecture),
		packages:       newRegistry[*Package](),
		packageBodies:  newRegistry[*PackageBody](),
		contexts:       newRegistry[*Context](),
		configurations: newRegistry[*Configuration](),
	}
}

type unitPtr interface {
	comparable
	DesignUnit
}

func architectureKey(entity, architecture string) string {
	return NormalizeIdentifier(entity) + "\x00" + NormalizeIdentifier(architecture)
}

func unitKey(unit DesignUnit) string {
	if a, ok := unit.(*Architecture); ok {
		return architectureKey(a.entity.identifier, a.identifier)
	}
	return NormalizeIdentifier(unit.Identifier())
}

func checkAdd[T unitPtr](op string, r *registry[T], unit T) error {
	var zero T
	if unit == zero {
		return newError(op, "", ErrInvalidReference)
	}
	if r.has(unitKey(unit)) {
		return newError(op, unit.Identifier(), ErrDuplicateIdentifier)
	}
	return nil
}

func addUnit[T unitPtr](op string, r *registry[T], unit T) error {
	if err := checkAdd(op, r, unit); err != nil {
		return err
	}
	r.insert(unitKey(unit), unit)
	return nil
}

func lookupUnit[T any](op string, r *registry[T], key, identifier string) (T, error) {
	unit, ok := r.get(key)
	if !ok {
		return unit, newError(op, identifier, ErrNotFound)
	}
	return unit, nil
}

func (s *unitSet) AddEntity(e *Entity) error {
	return addUnit(s.owner+".AddEntity", &s.entities, e)
}

func (s *unitSet) AddArchitecture(a *Architecture) error {
	if err := addUnit(s.owner+".AddArchitecture", &s.architectures, a); err != nil {
		return err
	}
	key := NormalizeIdentifier(a.entity.identifier)
	s.archsByEntity[key] = append(s.archsByEntity[key], a)
	return nil
}

func (s *unitSet) AddPackage(p *Package) error {
	return addUnit(s.owner+".AddPackage", &s.packages, p)
}

func (s *unitSet) AddPackageBody(b *PackageBody) error {
	return addUnit(s.owner+".AddPackageBody", &s.packageBodies, b)
}

func (s *unitSet) AddContext(c *Context) error {
	return addUnit(s.owner+".AddContext", &s.contexts, c)
}

func (s *unitSet) AddConfiguration(c *Configuration) error {
	return addUnit(s.owner+".AddConfiguration", &s.configurations, c)
}

// AddUnit dispatches on the unit's kind.
func (s *unitSet) AddUnit(unit DesignUnit) error {
	switch u := unit.(type) {
	case *Entity:
		return s.AddEntity(u)
	case *Architecture:
		return s.AddArchitecture(u)
	case *Package:
		return s.AddPackage(u)
	case *PackageBody:
		return s.AddPackageBody(u)
	case *Context:
		return s.AddContext(u)
	case *Configuration:
		return s.AddConfiguration(u)
	}
	return newError(s.owner+".AddUnit", "", ErrInvalidReference)
}

// canAdd reports the error AddUnit would return without attaching anything.
func (s *unitSet) canAdd(unit DesignUnit) error {
	op := s.owner + ".AddUnit"
	switch u := unit.(type) {
	case *Entity:
		return checkAdd(op, &s.entities, u)
	case *Architecture:
		return checkAdd(op, &s.architectures, u)
	case *Package:
		return checkAdd(op, &s.packages, u)
	case *PackageBody:
		return checkAdd(op, &s.packageBodies, u)
	case *Context:
		return checkAdd(op, &s.contexts, u)
	case *Configuration:
		return checkAdd(op, &s.configurations, u)
	}
	return newError(op, "", ErrInvalidReference)
}

func (s *unitSet) Entities() []*Entity              { return s.entities.list() }
func (s *unitSet) Architectures() []*Architecture   { return s.architectures.list() }
func (s *unitSet) Packages() []*Package             { return s.packages.list() }
func (s *unitSet) PackageBodies() []*PackageBody    { return s.packageBodies.list() }
func (s *unitSet) Contexts() []*Context             { return s.contexts.list() }
func (s *unitSet) Configurations() []*Configuration { return s.configurations.list() }

// Units returns every unit, grouped by kind in the order entities,
// architectures, packages, package bodies, contexts, configurations.
func (s *unitSet) Units() []DesignUnit {
	var out []DesignUnit
	for _, u := range s.entities.items {
		out = append(out, u)
	}
	for _, u := range s.architectures.items {
		out = append(out, u)
	}
	for _, u := range s.packages.items {
		out = append(out, u)
	}
	for _, u := range s.packageBodies.items {
		out = append(out, u)
	}
	for _, u := range s.contexts.items {
		out = append(out, u)
	}
	for _, u := range s.configurations.items {
		out = append(out, u)
	}
	return out
}

func (s *unitSet) Entity(identifier string) (*Entity, error) {
	return lookupUnit(s.owner+".Entity", &s.entities, NormalizeIdentifier(identifier), identifier)
}

func (s *unitSet) Architecture(entity, identifier string) (*Architecture, error) {
	return lookupUnit(s.owner+".Architecture", &s.architectures, architectureKey(entity, identifier), identifier)
}

// ArchitecturesOf returns the architectures of the named entity in the
// order they were added.
func (s *unitSet) ArchitecturesOf(entity string) []*Architecture {
	archs := s.archsByEntity[NormalizeIdentifier(entity)]
	out := make([]*Architecture, len(archs))
	copy(out, archs)
	return out
}

func (s *unitSet) Package(identifier string) (*Package, error) {
	return lookupUnit(s.owner+".Package", &s.packages, NormalizeIdentifier(identifier), identifier)
}

func (s *unitSet) PackageBody(identifier string) (*PackageBody, error) {
	return lookupUnit(s.owner+".PackageBody", &s.packageBodies, NormalizeIdentifier(identifier), identifier)
}

// PackageBodyOf returns the body registered for pkg's identifier.
func (s *unitSet) PackageBodyOf(pkg *Package) (*PackageBody, error) {
	if pkg == nil {
		return nil, newError(s.owner+".PackageBodyOf", "", ErrInvalidReference)
	}
	return s.PackageBody(pkg.identifier)
}

func (s *unitSet) Context(identifier string) (*Context, error) {
	return lookupUnit(s.owner+".Context", &s.contexts, NormalizeIdentifier(identifier), identifier)
}

func (s *unitSet) Configuration(identifier string) (*Configuration, error) {
	return lookupUnit(s.owner+".Configuration", &s.configurations, NormalizeIdentifier(identifier), identifier)
}

// Contains reports whether unit itself (by identity) is registered here.
func (s *unitSet) Contains(unit DesignUnit) bool {
	if isNil(unit) {
		return false
	}
	switch u := unit.(type) {
	case *Entity:
		got, ok := s.entities.get(unitKey(u))
		return ok && got == u
	case *Architecture:
		got, ok := s.architectures.get(unitKey(u))
		return ok && got == u
	case *Package:
		got, ok := s.packages.get(unitKey(u))
		return ok && got == u
	case *PackageBody:
		got, ok := s.packageBodies.get(unitKey(u))
		return ok && got == u
	case *Context:
		got, ok := s.contexts.get(unitKey(u))
		return ok && got == u
	case *Configuration:
		got, ok := s.configurations.get(unitKey(u))
		return ok && got == u
	}
	return false
}
