package validator

// =============================================================================
// VALIDATOR PHILOSOPHY: CRASH EARLY, CRASH LOUD
// =============================================================================
//
// The CUE validator is the contract guard between the indexer and everything
// that consumes exported facts (the facts command, downstream Datalog or
// scripting tools).
//
// Without validation, a renamed column or a mistyped value reaches consumers
// as a silently missing field. With validation the run stops with an error
// such as "field 'entity' not allowed" that names the broken column.
//
// WHEN VALIDATION FAILS:
// 1. DON'T suppress the error or loosen the schema to make it pass
// 2. DO trace back: is this an extractor bug or an indexer bug?
// 3. DO fix at the source
// =============================================================================

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed facts_schema.cue
var factsSchemaFS embed.FS

//go:embed check_schema.cue
var checkSchemaFS embed.FS

// Validator validates fact tables against the embedded CUE schema contract.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
	def    string
}

// New creates a new Validator for fact tables (#FactTables).
func New() (*Validator, error) {
	return load(factsSchemaFS, "facts_schema.cue", "#FactTables")
}

// NewDeltaValidator creates a validator for fact deltas (#FactDelta).
func NewDeltaValidator() (*Validator, error) {
	return load(factsSchemaFS, "facts_schema.cue", "#FactDelta")
}

// NewOutputValidator creates a validator for check command output
// (#CheckOutput).
func NewOutputValidator() (*Validator, error) {
	return load(checkSchemaFS, "check_schema.cue", "#CheckOutput")
}

func load(fs embed.FS, name, def string) (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := fs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema %s: %w", name, err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, schema.Err())
	}

	if d := schema.LookupPath(cue.ParsePath(def)); d.Err() != nil {
		return nil, fmt.Errorf("looking up %s definition: %w", def, d.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
		def:    def,
	}, nil
}

// Validate checks that data, marshaled to JSON, conforms to the schema.
// Returns nil if valid, or a detailed error explaining what failed.
func (v *Validator) Validate(data interface{}) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}
	return v.ValidateJSON(jsonBytes)
}

// ValidateJSON validates JSON bytes directly against the schema
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	unified, err := v.unify(jsonBytes)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidationErrors returns detailed information about all validation errors
func (v *Validator) ValidationErrors(data interface{}) []string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	unified, err := v.unify(jsonBytes)
	if err != nil {
		return []string{err.Error()}
	}
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	// Extract all errors
	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}

func (v *Validator) unify(jsonBytes []byte) (cue.Value, error) {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling data as CUE: %w", dataValue.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath(v.def))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("looking up %s definition: %w", v.def, def.Err())
	}

	return def.Unify(dataValue), nil
}
