package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFileJSONAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vhdl_model.json")
	writeFile(t, path, `{"check": {"rules": {"null_range": "error"}}}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Standard != "2008" {
		t.Fatalf("expected default standard 2008, got %q", cfg.Standard)
	}
	if _, ok := cfg.Libraries["work"]; !ok {
		t.Fatalf("expected default work library, got %v", cfg.Libraries)
	}
	if cfg.Analysis.Cache.Dir != ".vhdl_model_cache" {
		t.Fatalf("unexpected cache dir %q", cfg.Analysis.Cache.Dir)
	}
	if cfg.Analysis.Cache.Enabled == nil || !*cfg.Analysis.Cache.Enabled {
		t.Fatalf("expected cache enabled by default")
	}
	if got := cfg.GetRuleSeverity("null_range", SeverityWarning); got != SeverityError {
		t.Fatalf("expected null_range=error, got %q", got)
	}
	if got := cfg.GetRuleSeverity("empty_record", SeverityWarning); got != SeverityWarning {
		t.Fatalf("expected default severity, got %q", got)
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vhdl_model.toml")
	writeFile(t, path, `
standard = "2019"

[libraries.core]
files = ["rtl/**/*.vhd"]
exclude = ["rtl/old/*.vhd"]

[libraries.vendor]
files = ["ip/*.vhd"]
isThirdParty = true

[check]
ignorePatterns = ["*_tb.vhd"]

[check.rules]
entity_without_architecture = "off"

[analysis]
maxParallelFiles = 4
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Standard != "2019" {
		t.Fatalf("expected standard 2019, got %q", cfg.Standard)
	}
	if len(cfg.Libraries) != 2 || !cfg.Libraries["vendor"].IsThirdParty {
		t.Fatalf("unexpected libraries: %+v", cfg.Libraries)
	}
	if cfg.IsRuleEnabled("entity_without_architecture") {
		t.Fatalf("expected entity_without_architecture disabled")
	}
	if !cfg.IsRuleEnabled("null_range") {
		t.Fatalf("expected unconfigured rule enabled")
	}
	if cfg.Analysis.MaxParallelFiles != 4 {
		t.Fatalf("expected maxParallelFiles 4, got %d", cfg.Analysis.MaxParallelFiles)
	}
	if !cfg.ShouldIgnoreFile("/src/sim/alu_tb.vhd") {
		t.Fatalf("expected testbench to be ignored")
	}
	if cfg.ShouldIgnoreFile("/src/rtl/alu.vhd") {
		t.Fatalf("did not expect rtl file to be ignored")
	}
	if !cfg.IsThirdPartyFile("ip/fifo.vhd") {
		t.Fatalf("expected vendor file to be third party")
	}
}

func TestLoadFileRejectsUnknownSeverity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vhdl_model.json")
	writeFile(t, path, `{"check": {"rules": {"null_range": "fatal"}}}`)

	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "unknown severity") {
		t.Fatalf("expected unknown severity error, got %v", err)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vhdl_model.toml")
	writeFile(t, path, "standard = ")

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"vhdl_model.json", "vhdl_model.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Check.Rules["empty_record"] = SeverityError
			cfg.Analysis.MaxParallelFiles = 2

			path := filepath.Join(t.TempDir(), name)
			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if loaded.GetRuleSeverity("empty_record", SeverityWarning) != SeverityError {
				t.Fatalf("rule severity lost: %+v", loaded.Check.Rules)
			}
			if loaded.Analysis.MaxParallelFiles != 2 {
				t.Fatalf("maxParallelFiles lost: %d", loaded.Analysis.MaxParallelFiles)
			}
			if len(loaded.Libraries["work"].Files) != 4 {
				t.Fatalf("work patterns lost: %+v", loaded.Libraries)
			}
		})
	}
}

func TestLoadSearchesRootPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vhdl_model.toml"), "standard = \"1993\"\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Standard != "1993" {
		t.Fatalf("expected config from root path, got standard %q", cfg.Standard)
	}
}
