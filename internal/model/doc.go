// Package model is the in-memory semantic model of a VHDL design.
//
// The model is populated by a loader (see internal/indexer) and traversed by
// analyses (see internal/check and internal/facts). It mirrors the VHDL unit
// system:
//
//	Design
//	├── Documents (one per source file, owns the units it declares)
//	│   └── Entity, Architecture, Package, PackageBody, Context, Configuration
//	└── Libraries (logical grouping, references units owned by documents)
//
// and the declared-type taxonomy (IntegerType, RealType, PhysicalType,
// EnumeratedType, ArrayType, RecordType, Subtype) together with literals,
// ranges and constraints.
//
// Constructors take only the identifying attributes of a node. Ordered
// collections start empty and grow through Add* calls in declaration order.
// Population is single-writer; once populated a Design may be read from any
// number of goroutines as long as nothing appends concurrently.
package model
