package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
	"github.com/robert-at-pretension-io/vhdl-model/internal/validator"
)

func intRange(l, r int64, dir model.Direction) model.Range[model.IntegerLiteral] {
	return model.NewRange(model.NewIntegerLiteral(l), model.NewIntegerLiteral(r), dir)
}

// fixture is one library "work" with a document holding a unit of every
// kind a rule looks at.
type fixture struct {
	design    *model.Design
	positions facts.Positions
}

func addDocument(t *testing.T, f *fixture, lib *model.Library, path string, units ...model.DesignUnit) {
	t.Helper()
	doc, err := model.NewDocument(path)
	require.NoError(t, err)
	for _, u := range units {
		require.NoError(t, doc.AddUnit(u))
	}
	require.NoError(t, f.design.AddDocument(doc))
	require.NoError(t, lib.AddDocument(doc))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{design: model.NewDesign(), positions: make(facts.Positions)}
	lib, err := model.NewLibrary("work")
	require.NoError(t, err)
	require.NoError(t, f.design.AddLibrary(lib))

	top, err := model.NewEntity("top")
	require.NoError(t, err)
	f.positions[top] = 1

	pkg, err := model.NewPackage("pkg")
	require.NoError(t, err)
	f.positions[pkg] = 3

	backwards, err := model.NewIntegerType("backwards_t", intRange(10, 0, model.To))
	require.NoError(t, err)
	require.NoError(t, pkg.AddDeclaredItem(backwards))
	f.positions[backwards] = 4

	word, err := model.NewIntegerType("word_t", intRange(0, 255, model.To))
	require.NoError(t, err)
	require.NoError(t, pkg.AddDeclaredItem(word))
	f.positions[word] = 5

	dangling, err := model.NewSubtype("dangling_t")
	require.NoError(t, err)
	dangling.SetConstraint(intRange(0, 7, model.To))
	require.NoError(t, pkg.AddDeclaredItem(dangling))
	f.positions[dangling] = 6

	mem, err := model.NewArrayType("mem_t", []model.Constraint{intRange(7, 8, model.DownTo)}, nil)
	require.NoError(t, err)
	require.NoError(t, pkg.AddDeclaredItem(mem))
	f.positions[mem] = 7

	empty, err := model.NewRecordType("empty_t")
	require.NoError(t, err)
	require.NoError(t, pkg.AddDeclaredItem(empty))
	f.positions[empty] = 8

	orphan, err := model.NewPackageBody("orphan")
	require.NoError(t, err)
	f.positions[orphan] = 10

	addDocument(t, f, lib, "/src/a.vhd", top, pkg, orphan)
	return f
}

func (f *fixture) input() Input {
	return Input{Design: f.design, Positions: f.positions}
}

func TestRunReportsEachRule(t *testing.T) {
	f := newFixture(t)
	result := Run(f.input(), nil)

	type hit struct {
		rule     string
		severity string
		line     int
		unit     string
	}
	var got []hit
	for _, v := range result.Violations {
		assert.Equal(t, "/src/a.vhd", v.File)
		assert.NotEmpty(t, v.Message)
		got = append(got, hit{v.Rule, v.Severity, v.Line, v.Unit})
	}
	assert.Equal(t, []hit{
		{RuleEntityWithoutArchitecture, config.SeverityInfo, 1, "top"},
		{RuleNullRange, config.SeverityWarning, 4, "pkg"},
		{RuleUnresolvedBaseType, config.SeverityWarning, 6, "pkg"},
		{RuleNullRange, config.SeverityWarning, 7, "pkg"},
		{RuleUnresolvedElementType, config.SeverityWarning, 7, "pkg"},
		{RuleEmptyRecord, config.SeverityWarning, 8, "pkg"},
		{RuleOrphanPackageBody, config.SeverityError, 10, "orphan"},
	}, got)

	assert.Equal(t, Summary{TotalViolations: 7, Errors: 1, Warnings: 5, Info: 1}, result.Summary)
}

func TestRunCleanDesign(t *testing.T) {
	design := model.NewDesign()
	lib, err := model.NewLibrary("work")
	require.NoError(t, err)
	require.NoError(t, design.AddLibrary(lib))

	entity, err := model.NewEntity("top")
	require.NoError(t, err)
	arch, err := model.NewArchitecture("rtl", entity)
	require.NoError(t, err)

	word, err := model.NewIntegerType("word_t", intRange(7, 0, model.DownTo))
	require.NoError(t, err)
	nibble, err := model.NewSubtype("nibble_t")
	require.NoError(t, err)
	require.NoError(t, nibble.SetBaseType(word))
	rec, err := model.NewRecordType("rec_t")
	require.NoError(t, err)
	el, err := model.NewRecordElement("data", model.SubtypeIndication{TypeMark: "word_t", Type: word})
	require.NoError(t, err)
	require.NoError(t, rec.AddElement(el))
	for _, item := range []model.DeclaredItem{word, nibble, rec} {
		require.NoError(t, arch.AddDeclaredItem(item))
	}

	f := &fixture{design: design}
	addDocument(t, f, lib, "top.vhd", entity)
	addDocument(t, f, lib, "top_rtl.vhd", arch)

	result := Run(Input{Design: design}, config.DefaultConfig())
	assert.Empty(t, result.Violations)
	assert.NotNil(t, result.Violations)
	assert.Equal(t, Summary{}, result.Summary)
}

func TestRunRuleSeverityFromConfig(t *testing.T) {
	f := newFixture(t)
	cfg := config.DefaultConfig()
	cfg.Check.Rules = map[string]string{
		RuleNullRange:                 config.SeverityOff,
		RuleEntityWithoutArchitecture: config.SeverityError,
	}

	result := Run(f.input(), cfg)
	for _, v := range result.Violations {
		assert.NotEqual(t, RuleNullRange, v.Rule)
		if v.Rule == RuleEntityWithoutArchitecture {
			assert.Equal(t, config.SeverityError, v.Severity)
		}
	}
	assert.Equal(t, Summary{TotalViolations: 5, Errors: 2, Warnings: 3}, result.Summary)
}

func TestRunSkipsIgnoredAndThirdPartyFiles(t *testing.T) {
	f := newFixture(t)

	cfg := config.DefaultConfig()
	cfg.Check.IgnorePatterns = []string{"a.vhd"}
	assert.Empty(t, Run(f.input(), cfg).Violations)

	in := f.input()
	in.ThirdPartyFiles = map[string]bool{"/src/a.vhd": true}
	assert.Empty(t, Run(in, nil).Violations)
}

func TestRunWithoutDesign(t *testing.T) {
	result := Run(Input{}, nil)
	assert.NotNil(t, result.Violations)
	assert.Zero(t, result.Summary.TotalViolations)
}

func TestResultMatchesOutputContract(t *testing.T) {
	v, err := validator.NewOutputValidator()
	require.NoError(t, err)

	require.NoError(t, v.Validate(Run(newFixture(t).input(), nil)))
	require.NoError(t, v.Validate(Run(Input{}, nil)))
}
