package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, sources map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range sources {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	_, err := execute(t, "init", dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "vhdl_model.json"))
	return dir
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := writeProject(t, nil)
	_, err := execute(t, "init", dir)
	assert.Error(t, err)
}

func TestCheckJSON(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"pkg.vhd": `package pkg is
  type rec_t is record
  end record;
end package;
package body lonely is
end package body;`,
	})

	out, err := execute(t, "check", "--json", dir)
	require.ErrorIs(t, err, errViolations)

	var doc checkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Summary.Errors)
	rules := map[string]bool{}
	for _, v := range doc.Violations {
		rules[v.Rule] = true
	}
	assert.True(t, rules["orphan_package_body"])
	assert.True(t, rules["empty_record"])
}

func TestFactsWithDelta(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"top.vhd": "entity top is end entity;",
	})
	first := filepath.Join(t.TempDir(), "facts.json")
	_, err := execute(t, "facts", "-o", first, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rtl.vhd"),
		[]byte("architecture rtl of top is begin end architecture;"), 0o644))

	second := filepath.Join(t.TempDir(), "facts.json")
	deltaPath := filepath.Join(t.TempDir(), "delta.json")
	_, err = execute(t, "facts", "-o", second, "--delta-from", first, "--delta-out", deltaPath, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(deltaPath)
	require.NoError(t, err)
	var delta facts.Delta
	require.NoError(t, json.Unmarshal(data, &delta))
	require.Len(t, delta.Added.Architectures, 1)
	assert.Equal(t, "rtl", delta.Added.Architectures[0].Name)
	assert.Empty(t, delta.Removed.Entities)
}
