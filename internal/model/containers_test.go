package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesign(t *testing.T) {
	design := NewDesign()

	assert.Empty(t, design.Documents())
	assert.Empty(t, design.Libraries())
}

func TestLibrary(t *testing.T) {
	library, err := NewLibrary("lib_1")
	require.NoError(t, err)

	assert.Equal(t, "lib_1", library.Identifier())
	assert.Empty(t, library.Entities())
	assert.Empty(t, library.Architectures())
	assert.Empty(t, library.Packages())
	assert.Empty(t, library.PackageBodies())
	assert.Empty(t, library.Contexts())
	assert.Empty(t, library.Configurations())
}

func TestDocument(t *testing.T) {
	path := "tests.vhdl"
	document, err := NewDocument(path)
	require.NoError(t, err)

	assert.Equal(t, path, document.Path())
	assert.Empty(t, document.Entities())
	assert.Empty(t, document.Architectures())
	assert.Empty(t, document.Packages())
	assert.Empty(t, document.PackageBodies())
	assert.Empty(t, document.Contexts())
	assert.Empty(t, document.Configurations())

	_, err = NewDocument("")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestDesignLibraryEntityScenario(t *testing.T) {
	design := NewDesign()
	lib, err := NewLibrary("lib_1")
	require.NoError(t, err)
	entity, err := NewEntity("entity_1")
	require.NoError(t, err)

	require.NoError(t, lib.AddEntity(entity))
	require.NoError(t, design.AddLibrary(lib))

	gotLib, err := design.Library("lib_1")
	require.NoError(t, err)
	assert.Same(t, lib, gotLib)
	gotEntity, err := gotLib.Entity("entity_1")
	require.NoError(t, err)
	assert.Same(t, entity, gotEntity)

	_, err = design.Library("lib_2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = gotLib.Entity("entity_2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateAndDistinctUnits(t *testing.T) {
	doc, err := NewDocument("a.vhd")
	require.NoError(t, err)
	first, err := NewEntity("alu")
	require.NoError(t, err)
	second, err := NewEntity("ALU")
	require.NoError(t, err)
	other, err := NewEntity("fpu")
	require.NoError(t, err)

	require.NoError(t, doc.AddEntity(first))
	assert.ErrorIs(t, doc.AddEntity(second), ErrDuplicateIdentifier)
	require.NoError(t, doc.AddEntity(other))
	assert.ErrorIs(t, doc.AddEntity(nil), ErrInvalidReference)

	// Kinds are separate namespaces.
	pkg, err := NewPackage("alu")
	require.NoError(t, err)
	require.NoError(t, doc.AddPackage(pkg))

	entities := doc.Entities()
	require.Len(t, entities, 2)
	assert.Same(t, first, entities[0])
	assert.Same(t, other, entities[1])
	got, err := doc.Entity("Alu")
	require.NoError(t, err)
	assert.Equal(t, "alu", got.Identifier())
}

func TestArchitecturesUniquePerEntity(t *testing.T) {
	lib, err := NewLibrary("work")
	require.NoError(t, err)
	a, err := NewEntity("a")
	require.NoError(t, err)
	b, err := NewEntity("b")
	require.NoError(t, err)
	rtlA, err := NewArchitecture("rtl", a)
	require.NoError(t, err)
	rtlB, err := NewArchitecture("rtl", b)
	require.NoError(t, err)
	simA, err := NewArchitecture("sim", a)
	require.NoError(t, err)
	dupA, err := NewArchitecture("RTL", a)
	require.NoError(t, err)

	require.NoError(t, lib.AddArchitecture(rtlA))
	require.NoError(t, lib.AddArchitecture(rtlB))
	require.NoError(t, lib.AddArchitecture(simA))
	assert.ErrorIs(t, lib.AddArchitecture(dupA), ErrDuplicateIdentifier)

	assert.Equal(t, []*Architecture{rtlA, simA}, lib.ArchitecturesOf("A"))
	assert.Equal(t, []*Architecture{rtlB}, lib.ArchitecturesOf("b"))
	assert.Empty(t, lib.ArchitecturesOf("c"))

	got, err := lib.Architecture("b", "rtl")
	require.NoError(t, err)
	assert.Same(t, rtlB, got)
	_, err = lib.Architecture("b", "sim")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPackageBodyOf(t *testing.T) {
	doc, err := NewDocument("pkg.vhd")
	require.NoError(t, err)
	pkg, err := NewPackage("util")
	require.NoError(t, err)
	body, err := NewPackageBody("UTIL")
	require.NoError(t, err)
	require.NoError(t, doc.AddPackage(pkg))

	_, err = doc.PackageBodyOf(pkg)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, doc.AddPackageBody(body))
	got, err := doc.PackageBodyOf(pkg)
	require.NoError(t, err)
	assert.Same(t, body, got)
	_, err = doc.PackageBodyOf(nil)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestLibraryAddDocumentIsAtomic(t *testing.T) {
	lib, err := NewLibrary("work")
	require.NoError(t, err)

	first, err := NewDocument("first.vhd")
	require.NoError(t, err)
	core, err := NewEntity("core")
	require.NoError(t, err)
	require.NoError(t, first.AddEntity(core))
	require.NoError(t, lib.AddDocument(first))

	second, err := NewDocument("second.vhd")
	require.NoError(t, err)
	util, err := NewPackage("util")
	require.NoError(t, err)
	coreAgain, err := NewEntity("core")
	require.NoError(t, err)
	require.NoError(t, second.AddPackage(util))
	require.NoError(t, second.AddEntity(coreAgain))

	assert.ErrorIs(t, lib.AddDocument(second), ErrDuplicateIdentifier)
	assert.Empty(t, lib.Packages())
	assert.Equal(t, []*Entity{core}, lib.Entities())
	assert.ErrorIs(t, lib.AddDocument(nil), ErrInvalidReference)
}

func TestLibraryReferencesDocumentUnits(t *testing.T) {
	design := NewDesign()
	doc, err := NewDocument("src/top.vhd")
	require.NoError(t, err)
	top, err := NewEntity("top")
	require.NoError(t, err)
	rtl, err := NewArchitecture("rtl", top)
	require.NoError(t, err)
	require.NoError(t, doc.AddEntity(top))
	require.NoError(t, doc.AddArchitecture(rtl))
	require.NoError(t, design.AddDocument(doc))

	lib, err := NewLibrary("work")
	require.NoError(t, err)
	require.NoError(t, lib.AddDocument(doc))
	require.NoError(t, design.AddLibrary(lib))

	gotEntity, err := lib.Entity("top")
	require.NoError(t, err)
	assert.Same(t, top, gotEntity)
	assert.Same(t, gotEntity, lib.Architectures()[0].Entity())

	owner, err := design.DocumentOf(rtl)
	require.NoError(t, err)
	assert.Same(t, doc, owner)
	libOf, err := design.LibraryOf(top)
	require.NoError(t, err)
	assert.Same(t, lib, libOf)
	assert.Equal(t, []*Architecture{rtl}, design.ArchitecturesOf(top))

	stray, err := NewEntity("top")
	require.NoError(t, err)
	assert.Empty(t, design.ArchitecturesOf(stray))
	assert.False(t, doc.Contains(stray))
	_, err = design.DocumentOf(stray)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDesignDocumentsAndLibraries(t *testing.T) {
	design := NewDesign()
	a, err := NewDocument("rtl/a.vhd")
	require.NoError(t, err)
	dup, err := NewDocument("rtl/./a.vhd")
	require.NoError(t, err)
	b, err := NewDocument("rtl/b.vhd")
	require.NoError(t, err)

	require.NoError(t, design.AddDocument(a))
	assert.ErrorIs(t, design.AddDocument(dup), ErrDuplicateIdentifier)
	require.NoError(t, design.AddDocument(b))
	assert.Equal(t, []*Document{a, b}, design.Documents())

	got, err := design.Document("rtl/b.vhd")
	require.NoError(t, err)
	assert.Same(t, b, got)
	_, err = design.Document("rtl/c.vhd")
	assert.ErrorIs(t, err, ErrNotFound)

	work, err := NewLibrary("work")
	require.NoError(t, err)
	workAgain, err := NewLibrary("WORK")
	require.NoError(t, err)
	ieee, err := NewLibrary("ieee")
	require.NoError(t, err)
	require.NoError(t, design.AddLibrary(work))
	assert.ErrorIs(t, design.AddLibrary(workAgain), ErrDuplicateIdentifier)
	require.NoError(t, design.AddLibrary(ieee))
	assert.Equal(t, []*Library{work, ieee}, design.Libraries())
}

func TestIndependentDesignsShareNothing(t *testing.T) {
	d1 := NewDesign()
	d2 := NewDesign()
	lib, err := NewLibrary("work")
	require.NoError(t, err)
	require.NoError(t, d1.AddLibrary(lib))

	assert.Len(t, d1.Libraries(), 1)
	assert.Empty(t, d2.Libraries())
}

func TestUnitsOrderedByKind(t *testing.T) {
	doc, err := NewDocument("mixed.vhd")
	require.NoError(t, err)
	pkg, err := NewPackage("p")
	require.NoError(t, err)
	ent, err := NewEntity("e")
	require.NoError(t, err)
	arch, err := NewArchitecture("a", ent)
	require.NoError(t, err)
	require.NoError(t, doc.AddUnit(pkg))
	require.NoError(t, doc.AddUnit(arch))
	require.NoError(t, doc.AddUnit(ent))
	assert.ErrorIs(t, doc.AddUnit(nil), ErrInvalidReference)

	assert.Equal(t, []DesignUnit{ent, arch, pkg}, doc.Units())
}
