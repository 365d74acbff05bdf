// Package check runs structural rules over a populated design. Each rule
// has a default severity that the project configuration can override or
// switch off.
package check

import (
	"fmt"
	"sort"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
)

// Rule names.
const (
	RuleNullRange                 = "null_range"
	RuleOrphanPackageBody         = "orphan_package_body"
	RuleUnresolvedBaseType        = "unresolved_base_type"
	RuleUnresolvedElementType     = "unresolved_element_type"
	RuleEntityWithoutArchitecture = "entity_without_architecture"
	RuleEmptyRecord               = "empty_record"
)

// Violation represents a rule violation
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Unit     string `json:"unit"`
	Message  string `json:"message"`
}

// Result contains the check results
type Result struct {
	Violations []Violation `json:"violations"`
	Summary    Summary     `json:"summary"`
}

// Summary provides aggregate counts
type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// Input is what the rules look at. Positions and ThirdPartyFiles come from
// the indexer run that built Design; both may be nil.
type Input struct {
	Design          *model.Design
	Positions       facts.Positions
	ThirdPartyFiles map[string]bool
}

// Rules lists every rule with its default severity.
var Rules = []struct {
	Name     string
	Severity string
}{
	{RuleNullRange, config.SeverityWarning},
	{RuleOrphanPackageBody, config.SeverityError},
	{RuleUnresolvedBaseType, config.SeverityWarning},
	{RuleUnresolvedElementType, config.SeverityWarning},
	{RuleEntityWithoutArchitecture, config.SeverityInfo},
	{RuleEmptyRecord, config.SeverityWarning},
}

// Run checks every document of in.Design that is neither third-party nor
// matched by the configured ignore patterns. cfg may be nil, in which case
// every rule runs at its default severity.
func Run(in Input, cfg *config.Config) *Result {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &checker{
		in:         in,
		severities: make(map[string]string),
	}
	for _, r := range Rules {
		if cfg.IsRuleEnabled(r.Name) {
			c.severities[r.Name] = cfg.GetRuleSeverity(r.Name, r.Severity)
		}
	}

	if in.Design != nil {
		for _, doc := range in.Design.Documents() {
			if in.ThirdPartyFiles[doc.Path()] || cfg.ShouldIgnoreFile(doc.Path()) {
				continue
			}
			c.document(doc)
		}
	}

	sort.SliceStable(c.violations, func(i, j int) bool {
		a, b := c.violations[i], c.violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Rule < b.Rule
	})

	result := &Result{Violations: c.violations}
	if result.Violations == nil {
		result.Violations = []Violation{}
	}
	for _, v := range result.Violations {
		result.Summary.TotalViolations++
		switch v.Severity {
		case config.SeverityError:
			result.Summary.Errors++
		case config.SeverityWarning:
			result.Summary.Warnings++
		case config.SeverityInfo:
			result.Summary.Info++
		}
	}
	return result
}

type checker struct {
	in         Input
	severities map[string]string
	violations []Violation
}

// report records a violation if rule is enabled.
func (c *checker) report(rule, file string, at any, unit, format string, args ...any) {
	severity, ok := c.severities[rule]
	if !ok {
		return
	}
	c.violations = append(c.violations, Violation{
		Rule:     rule,
		Severity: severity,
		File:     file,
		Line:     c.in.Positions.Line(at),
		Unit:     unit,
		Message:  fmt.Sprintf(format, args...),
	})
}

// declaredItems is implemented by units with a declarative part.
type declaredItems interface {
	DeclaredItems() []model.DeclaredItem
}

func (c *checker) document(doc *model.Document) {
	file := doc.Path()
	lib, _ := c.in.Design.LibraryOf(anyUnit(doc))

	for _, unit := range doc.Units() {
		name := unitName(unit)
		switch u := unit.(type) {
		case *model.Entity:
			if lib != nil && len(lib.ArchitecturesOf(u.Identifier())) == 0 {
				c.report(RuleEntityWithoutArchitecture, file, u, name,
					"entity %s has no architecture in library %s", u.Identifier(), lib.Identifier())
			}
		case *model.PackageBody:
			if lib != nil {
				if _, err := lib.Package(u.Identifier()); err != nil {
					c.report(RuleOrphanPackageBody, file, u, name,
						"package body %s has no package in library %s", u.Identifier(), lib.Identifier())
				}
			}
		}
		if d, ok := unit.(declaredItems); ok {
			for _, item := range d.DeclaredItems() {
				if t, ok := item.(model.Type); ok {
					c.typeRules(file, name, t)
				}
			}
		}
	}
}

func (c *checker) typeRules(file, unit string, t model.Type) {
	id := t.Identifier()
	switch t := t.(type) {
	case *model.IntegerType:
		if t.Range().IsNull() {
			c.report(RuleNullRange, file, t, unit, "type %s has a null range %s", id, t.Range())
		}
	case *model.RealType:
		if t.Range().IsNull() {
			c.report(RuleNullRange, file, t, unit, "type %s has a null range %s", id, t.Range())
		}
	case *model.PhysicalType:
		if t.Range().IsNull() {
			c.report(RuleNullRange, file, t, unit, "type %s has a null range %s", id, t.Range())
		}
	case *model.Subtype:
		if isNull(t.Constraint()) {
			c.report(RuleNullRange, file, t, unit, "subtype %s has a null range %s", id, t.Constraint())
		}
		if t.BaseType() == nil {
			c.report(RuleUnresolvedBaseType, file, t, unit, "subtype %s has no resolved base type", id)
		}
	case *model.ArrayType:
		for _, ix := range t.IndexConstraints() {
			if isNull(ix) {
				c.report(RuleNullRange, file, t, unit, "array type %s has a null index range %s", id, ix)
			}
		}
		if t.ElementType() == nil {
			c.report(RuleUnresolvedElementType, file, t, unit, "array type %s has no resolved element type", id)
		}
	case *model.RecordType:
		if len(t.Elements()) == 0 {
			c.report(RuleEmptyRecord, file, t, unit, "record type %s has no elements", id)
		}
	}
}

func isNull(c model.Constraint) bool {
	switch r := c.(type) {
	case model.Range[model.IntegerLiteral]:
		return r.IsNull()
	case model.Range[model.FloatingPointLiteral]:
		return r.IsNull()
	}
	return false
}

// anyUnit returns one unit of doc. A document belongs to exactly one
// library, so any of its units identifies it.
func anyUnit(doc *model.Document) model.DesignUnit {
	if units := doc.Units(); len(units) > 0 {
		return units[0]
	}
	return nil
}

// unitName is how a unit is shown in violations: architectures are written
// entity(architecture).
func unitName(unit model.DesignUnit) string {
	if a, ok := unit.(*model.Architecture); ok {
		return fmt.Sprintf("%s(%s)", a.Entity().Identifier(), a.Identifier())
	}
	return unit.Identifier()
}
