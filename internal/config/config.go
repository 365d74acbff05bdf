package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Rule severities accepted in Check.Rules.
const (
	SeverityOff     = "off"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Config file names looked up by Load, in order, in each search directory.
var configNames = []string{"vhdl_model.json", ".vhdl_model.json", "vhdl_model.toml", ".vhdl_model.toml"}

// Config is the top-level configuration for vhdl-model
type Config struct {
	// Standard specifies the VHDL standard to use: "1993", "2002", "2008", "2019"
	Standard string `json:"standard,omitempty" toml:"standard,omitempty"`

	// Files is an explicit list of files with optional library/language overrides
	Files []FileEntry `json:"files,omitempty" toml:"files,omitempty"`

	// Libraries maps library names to their configuration
	Libraries map[string]LibraryConfig `json:"libraries,omitempty" toml:"libraries,omitempty"`

	// Check contains structural check configuration
	Check CheckConfig `json:"check,omitempty" toml:"check"`

	// Analysis contains analysis options
	Analysis AnalysisConfig `json:"analysis,omitempty" toml:"analysis"`
}

// LibraryConfig defines a VHDL library's files and options
type LibraryConfig struct {
	// Files is a list of glob patterns for VHDL files in this library
	Files []string `json:"files" toml:"files"`

	// Exclude is a list of glob patterns to exclude from this library
	Exclude []string `json:"exclude,omitempty" toml:"exclude,omitempty"`

	// IsThirdParty marks the library as third-party (checks are skipped for its units)
	IsThirdParty bool `json:"isThirdParty,omitempty" toml:"isThirdParty,omitempty"`
}

// FileEntry is an explicit file entry with optional library and language metadata
type FileEntry struct {
	File         string `json:"file" toml:"file"`
	Library      string `json:"library,omitempty" toml:"library,omitempty"`
	Language     string `json:"language,omitempty" toml:"language,omitempty"`
	IsThirdParty bool   `json:"isThirdParty,omitempty" toml:"isThirdParty,omitempty"`
}

// CheckConfig contains check rule configuration
type CheckConfig struct {
	// Rules maps rule names to severity: "off", "info", "warning", "error"
	Rules map[string]string `json:"rules,omitempty" toml:"rules,omitempty"`

	// IgnorePatterns is a list of file patterns whose units are never checked
	IgnorePatterns []string `json:"ignorePatterns,omitempty" toml:"ignorePatterns,omitempty"`
}

// CacheConfig controls incremental indexing cache behavior
type CacheConfig struct {
	// Enabled turns on incremental cache usage
	Enabled *bool `json:"enabled,omitempty" toml:"enabled,omitempty"`

	// Dir is the cache directory (relative to project root if not absolute)
	Dir string `json:"dir,omitempty" toml:"dir,omitempty"`
}

// AnalysisConfig contains analysis options
type AnalysisConfig struct {
	// MaxParallelFiles limits concurrent file processing (0 = auto)
	MaxParallelFiles int `json:"maxParallelFiles,omitempty" toml:"maxParallelFiles,omitempty"`

	// Cache controls incremental indexing cache behavior
	Cache CacheConfig `json:"cache,omitempty" toml:"cache"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Standard: "2008",
		Libraries: map[string]LibraryConfig{
			"work": {
				Files:        defaultPatterns(),
				Exclude:      []string{},
				IsThirdParty: false,
			},
		},
		Check: CheckConfig{
			Rules:          map[string]string{},
			IgnorePatterns: []string{},
		},
		Analysis: AnalysisConfig{
			MaxParallelFiles: 0, // auto
			Cache: CacheConfig{
				Enabled: boolPtr(true),
				Dir:     ".vhdl_model_cache",
			},
		},
	}
}

func defaultPatterns() []string {
	return []string{"*.vhd", "*.vhdl", "**/*.vhd", "**/*.vhdl"}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file
// Search order:
//  1. ./vhdl_model.{json,toml} (current working directory, dotted names too)
//  2. <rootPath>/vhdl_model.{json,toml} (if different from cwd)
//  3. ~/.config/vhdl_model/config.{json,toml}
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	var searchPaths []string
	for _, name := range configNames {
		searchPaths = append(searchPaths, filepath.Join(cwd, name))
	}

	// If rootPath is a directory and different from cwd, also check there
	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			for _, name := range configNames {
				searchPaths = append(searchPaths, filepath.Join(rootPath, name))
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "vhdl_model")
		searchPaths = append(searchPaths, filepath.Join(dir, "config.json"), filepath.Join(dir, "config.toml"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file. Files ending in .toml
// are decoded as TOML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Standard == "" {
		c.Standard = "2008"
	}

	if c.Libraries == nil {
		if len(c.Files) == 0 {
			c.Libraries = map[string]LibraryConfig{
				"work": {Files: defaultPatterns()},
			}
		} else {
			c.Libraries = map[string]LibraryConfig{}
		}
	}

	if c.Check.Rules == nil {
		c.Check.Rules = make(map[string]string)
	}

	if c.Analysis.Cache.Dir == "" {
		c.Analysis.Cache.Dir = ".vhdl_model_cache"
	}
	if c.Analysis.Cache.Enabled == nil {
		c.Analysis.Cache.Enabled = boolPtr(true)
	}
}

// Validate reports unknown rule severities and negative limits.
func (c *Config) Validate() error {
	for rule, severity := range c.Check.Rules {
		switch severity {
		case SeverityOff, SeverityInfo, SeverityWarning, SeverityError:
		default:
			return fmt.Errorf("rule %q: unknown severity %q", rule, severity)
		}
	}
	if c.Analysis.MaxParallelFiles < 0 {
		return fmt.Errorf("analysis.maxParallelFiles must not be negative, got %d", c.Analysis.MaxParallelFiles)
	}
	return nil
}

// Save writes the configuration to a file, as TOML when path ends in .toml
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(c); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetRuleSeverity returns the severity for a rule, or the default if not configured
func (c *Config) GetRuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Check.Rules[rule]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Check.Rules[rule]; ok {
		return severity != SeverityOff
	}
	return true // enabled by default
}

// IsThirdPartyFile checks if a file belongs to a third-party library
func (c *Config) IsThirdPartyFile(filePath string) bool {
	for _, entry := range c.Files {
		if entry.File == "" {
			continue
		}
		if matchesPattern(entry.File, filePath) {
			return entry.IsThirdParty
		}
	}
	for _, lib := range c.Libraries {
		if !lib.IsThirdParty {
			continue
		}
		for _, pattern := range lib.Files {
			if matchesPattern(pattern, filePath) {
				return true
			}
		}
	}
	return false
}

// ShouldIgnoreFile checks if a file's units should be skipped by checks
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.Check.IgnorePatterns {
		if matchesPattern(pattern, filePath) {
			return true
		}
	}
	return false
}

// matchesPattern matches the full path or, failing that, the base name
func matchesPattern(pattern, filePath string) bool {
	if matched, _ := filepath.Match(pattern, filePath); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, filepath.Base(filePath))
	return matched
}
