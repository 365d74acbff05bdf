package model

import "strings"

// Mode is the direction of a port.
type Mode int

const (
	ModeIn Mode = iota
	ModeOut
	ModeInOut
	ModeBuffer
	ModeLinkage
)

var modeNames = [...]string{"in", "out", "inout", "buffer", "linkage"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode maps a VHDL mode keyword to a Mode. An empty string is "in", the
// VHDL default.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeIn, true
	}
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return ModeIn, false
}

// GenericItem is an element of an entity's generic clause.
type GenericItem interface {
	Identifier() string
	isGenericItem()
}

// PortItem is an element of an entity's port clause.
type PortItem interface {
	Identifier() string
	Mode() Mode
	isPortItem()
}

// GenericConstant is "G : T := default" in a generic clause.
type GenericConstant struct {
	identifier string
	subtype    SubtypeIndication
	def        Literal
}

func NewGenericConstant(identifier string, subtype SubtypeIndication) (*GenericConstant, error) {
	if err := checkIdentifier("NewGenericConstant", identifier); err != nil {
		return nil, err
	}
	return &GenericConstant{identifier: identifier, subtype: subtype}, nil
}

func (g *GenericConstant) Identifier() string         { return g.identifier }
func (g *GenericConstant) Subtype() SubtypeIndication { return g.subtype }
func (g *GenericConstant) Default() Literal           { return g.def }
func (g *GenericConstant) SetDefault(def Literal)     { g.def = def }
func (*GenericConstant) isGenericItem()               {}

// PortSignal is "P : mode T := default" in a port clause.
type PortSignal struct {
	identifier string
	mode       Mode
	subtype    SubtypeIndication
	def        Literal
}

func NewPortSignal(identifier string, mode Mode, subtype SubtypeIndication) (*PortSignal, error) {
	if err := checkIdentifier("NewPortSignal", identifier); err != nil {
		return nil, err
	}
	return &PortSignal{identifier: identifier, mode: mode, subtype: subtype}, nil
}

func (p *PortSignal) Identifier() string         { return p.identifier }
func (p *PortSignal) Mode() Mode                 { return p.mode }
func (p *PortSignal) Subtype() SubtypeIndication { return p.subtype }
func (p *PortSignal) Default() Literal           { return p.def }
func (p *PortSignal) SetDefault(def Literal)     { p.def = def }
func (*PortSignal) isPortItem()                  {}

// objectDeclaration is the shared shape of constant, signal and variable
// declarations.
type objectDeclaration struct {
	identifier string
	subtype    SubtypeIndication
}

func (o *objectDeclaration) Identifier() string         { return o.identifier }
func (o *objectDeclaration) Subtype() SubtypeIndication { return o.subtype }
func (*objectDeclaration) isDeclaredItem()              {}

// Constant is a constant declaration. Value is nil for a deferred constant.
type Constant struct {
	objectDeclaration
	value Literal
}

func NewConstant(identifier string, subtype SubtypeIndication, value Literal) (*Constant, error) {
	if err := checkIdentifier("NewConstant", identifier); err != nil {
		return nil, err
	}
	return &Constant{objectDeclaration: objectDeclaration{identifier: identifier, subtype: subtype}, value: value}, nil
}

func (c *Constant) Value() Literal { return c.value }

// IsDeferred reports whether the value is given in the package body.
func (c *Constant) IsDeferred() bool { return c.value == nil }

type Signal struct {
	objectDeclaration
	def Literal
}

func NewSignal(identifier string, subtype SubtypeIndication) (*Signal, error) {
	if err := checkIdentifier("NewSignal", identifier); err != nil {
		return nil, err
	}
	return &Signal{objectDeclaration: objectDeclaration{identifier: identifier, subtype: subtype}}, nil
}

func (s *Signal) Default() Literal       { return s.def }
func (s *Signal) SetDefault(def Literal) { s.def = def }

type Variable struct {
	objectDeclaration
	shared bool
}

func NewVariable(identifier string, subtype SubtypeIndication, shared bool) (*Variable, error) {
	if err := checkIdentifier("NewVariable", identifier); err != nil {
		return nil, err
	}
	return &Variable{objectDeclaration: objectDeclaration{identifier: identifier, subtype: subtype}, shared: shared}, nil
}

func (v *Variable) Shared() bool { return v.shared }

// ConcurrentStatement is a statement of an entity or architecture body.
type ConcurrentStatement interface {
	Label() string
	isConcurrentStatement()
}

// ProcessStatement is a process with an optional label and sensitivity list.
type ProcessStatement struct {
	label       string
	sensitivity []string
}

// NewProcessStatement accepts an empty label; a non-empty one must be a valid
// identifier.
func NewProcessStatement(label string, sensitivity []string) (*ProcessStatement, error) {
	if label != "" {
		if err := checkIdentifier("NewProcessStatement", label); err != nil {
			return nil, err
		}
	}
	list := make([]string, len(sensitivity))
	copy(list, sensitivity)
	return &ProcessStatement{label: label, sensitivity: list}, nil
}

func (p *ProcessStatement) Label() string { return p.label }

func (p *ProcessStatement) Sensitivity() []string {
	out := make([]string, len(p.sensitivity))
	copy(out, p.sensitivity)
	return out
}

func (*ProcessStatement) isConcurrentStatement() {}

// InstantiationKind tells what an instantiation names.
type InstantiationKind int

const (
	InstantiateComponent InstantiationKind = iota
	InstantiateEntity
	InstantiateConfiguration
)

func (k InstantiationKind) String() string {
	switch k {
	case InstantiateEntity:
		return "entity"
	case InstantiateConfiguration:
		return "configuration"
	}
	return "component"
}

// Instantiation is "label : [entity|configuration] target ...". Target is
// kept as written (e.g. work.child); the model does not resolve it.
type Instantiation struct {
	label  string
	kind   InstantiationKind
	target string
}

func NewInstantiation(label string, kind InstantiationKind, target string) (*Instantiation, error) {
	if err := checkIdentifier("NewInstantiation", label); err != nil {
		return nil, err
	}
	if strings.TrimSpace(target) == "" {
		return nil, newError("NewInstantiation", label, ErrInvalidReference)
	}
	return &Instantiation{label: label, kind: kind, target: target}, nil
}

func (i *Instantiation) Label() string           { return i.label }
func (i *Instantiation) Kind() InstantiationKind { return i.kind }
func (i *Instantiation) Target() string          { return i.target }
func (*Instantiation) isConcurrentStatement()    {}
