package extractor

// FileFacts contains all extracted information from a single VHDL file.
// Names and type text are kept as written; nothing is resolved here.
type FileFacts struct {
	File           string
	Entities       []Entity
	Architectures  []Architecture
	Packages       []Package
	PackageBodies  []PackageBody
	Contexts       []Context
	Configurations []Configuration
	Dependencies   []Dependency
}

// Entity represents a VHDL entity declaration. Clauses holds the library,
// use and context clauses that apply to the unit: the context clause in
// front of it and the clauses of its declarative part. Architectures,
// packages and package bodies carry them the same way.
type Entity struct {
	Name         string
	Line         int
	Clauses      []Dependency
	Generics     []Generic
	Ports        []Port
	Declarations []Declaration
	Statements   []Statement
}

// Architecture represents a VHDL architecture body
type Architecture struct {
	Name         string
	EntityName   string
	Line         int
	Clauses      []Dependency
	Declarations []Declaration
	Statements   []Statement
}

// Package represents a VHDL package declaration. Instance is set for
// "package p is new lib.generic_pkg".
type Package struct {
	Name         string
	Line         int
	Instance     bool
	Clauses      []Dependency
	Declarations []Declaration
}

// PackageBody represents a VHDL package body
type PackageBody struct {
	Name         string
	Line         int
	Clauses      []Dependency
	Declarations []Declaration
}

// Context represents a VHDL-2008 context declaration
type Context struct {
	Name    string
	Line    int
	Clauses []Dependency
}

// Configuration represents a configuration declaration
type Configuration struct {
	Name       string
	EntityName string
	Line       int
}

// Dependency represents a use/library/context clause or instantiation
type Dependency struct {
	Source string // The unit that has the dependency, empty for file-level clauses
	Target string // What it depends on (e.g., "work.my_pkg")
	Kind   string // "use", "library", "context", "instantiation"
	Line   int
}

// Generic represents an entity generic
type Generic struct {
	Name    string
	Type    Indication
	Default string
	Line    int
}

// Port represents an entity port
type Port struct {
	Name      string
	Direction string // in, out, inout, buffer, linkage
	Type      Indication
	Default   string
	Line      int
}

// Declaration kinds
const (
	DeclType     = "type"
	DeclSubtype  = "subtype"
	DeclConstant = "constant"
	DeclSignal   = "signal"
	DeclVariable = "variable"
)

// Declaration is one item of a declarative part. Type is set for type
// declarations; Indication for subtypes and objects.
type Declaration struct {
	Kind       string
	Name       string
	Line       int
	Type       *TypeDef
	Indication Indication
	Default    string
	Shared     bool
}

// Type definition classes
const (
	ClassEnum       = "enum"
	ClassInteger    = "integer"
	ClassReal       = "real"
	ClassPhysical   = "physical"
	ClassArray      = "array"
	ClassRecord     = "record"
	ClassAccess     = "access"
	ClassFile       = "file"
	ClassProtected  = "protected"
	ClassIncomplete = "incomplete"
)

// TypeDef is the right-hand side of a type declaration
type TypeDef struct {
	Class       string
	Literals    []string    // enum
	Range       *RangeExpr  // integer, real, physical
	PrimaryUnit string      // physical
	Units       []UnitDef   // physical secondary units
	Indexes     []Index     // array
	Element     *Indication // array
	Fields      []Field     // record
	Target      string      // access, file
}

// UnitDef is a secondary unit of a physical type: "ps = 1000 fs"
type UnitDef struct {
	Name  string
	Value string
	Unit  string
}

// Field is a record element
type Field struct {
	Name string
	Type Indication
	Line int
}

// RangeExpr is "left to right" or "left downto right" with the bounds as
// written
type RangeExpr struct {
	Left      string
	Right     string
	Direction string // "to" or "downto"
}

// Index is one dimension of an array definition: "0 to 3",
// "natural range <>", "integer range 0 to 7" or "state_t"
type Index struct {
	TypeMark  string
	Unbounded bool
	Range     *RangeExpr
}

// Indication is a subtype indication such as "std_logic_vector(7 downto 0)"
// or "integer range 0 to 7"
type Indication struct {
	Text       string
	TypeMark   string
	Resolution string
	Range      *RangeExpr
	Index      []Index
}

// Statement kinds
const (
	StmtProcess       = "process"
	StmtEntity        = "entity"
	StmtComponent     = "component"
	StmtConfiguration = "configuration"
)

// Statement is a concurrent statement the model keeps: a process or an
// instantiation
type Statement struct {
	Kind        string
	Label       string
	Line        int
	Sensitivity []string // process
	Target      string   // instantiation
}
