package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResolvedLibrary contains the expanded file list for a library
type ResolvedLibrary struct {
	Name         string
	Files        []string
	IsThirdParty bool
}

// ResolveLibraries expands all glob patterns and explicit file entries and
// returns resolved file lists, sorted by library name and path
func (c *Config) ResolveLibraries(rootPath string) ([]ResolvedLibrary, error) {
	byName := make(map[string]*ResolvedLibrary)
	sets := make(map[string]map[string]bool)
	library := func(name string, thirdParty bool) *ResolvedLibrary {
		lib, ok := byName[name]
		if !ok {
			lib = &ResolvedLibrary{Name: name}
			byName[name] = lib
			sets[name] = make(map[string]bool)
		}
		lib.IsThirdParty = lib.IsThirdParty || thirdParty
		return lib
	}

	for libName, libCfg := range c.Libraries {
		library(libName, libCfg.IsThirdParty)
		fileSet := sets[libName]

		for _, pattern := range libCfg.Files {
			matches, err := expandGlob(rooted(rootPath, pattern))
			if err != nil {
				// Silently skip invalid patterns
				continue
			}
			for _, match := range matches {
				if isVHDLFile(match) {
					fileSet[match] = true
				}
			}
		}

		for _, pattern := range libCfg.Exclude {
			matches, err := expandGlob(rooted(rootPath, pattern))
			if err != nil {
				continue
			}
			for _, match := range matches {
				delete(fileSet, match)
			}
		}
	}

	for _, entry := range c.Files {
		if entry.File == "" || !isVHDLLanguage(entry.Language) {
			continue
		}
		name := entry.Library
		if name == "" {
			name = "work"
		}
		library(name, entry.IsThirdParty)
		matches, err := expandGlob(rooted(rootPath, entry.File))
		if err != nil {
			continue
		}
		for _, match := range matches {
			if isVHDLFile(match) {
				sets[name][match] = true
			}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]ResolvedLibrary, 0, len(names))
	for _, name := range names {
		lib := byName[name]
		for f := range sets[name] {
			lib.Files = append(lib.Files, f)
		}
		sort.Strings(lib.Files)
		result = append(result, *lib)
	}

	return result, nil
}

func rooted(rootPath, pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(rootPath, pattern)
}

func isVHDLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".vhd" || ext == ".vhdl"
}

func isVHDLLanguage(language string) bool {
	return language == "" || strings.EqualFold(language, "vhdl")
}

// expandGlob expands a glob pattern, handling ** for recursive matching
func expandGlob(pattern string) ([]string, error) {
	// Check if pattern contains **
	if strings.Contains(pattern, "**") {
		return expandDoubleStarGlob(pattern)
	}

	// Simple glob
	return filepath.Glob(pattern)
}

// expandDoubleStarGlob handles ** patterns by walking the directory tree
func expandDoubleStarGlob(pattern string) ([]string, error) {
	var results []string

	// Split pattern at **
	parts := strings.SplitN(pattern, "**", 2)
	if len(parts) != 2 {
		return filepath.Glob(pattern)
	}

	baseDir := filepath.Clean(parts[0])
	if baseDir == "" {
		baseDir = "."
	}
	suffix := parts[1]
	if strings.HasPrefix(suffix, string(filepath.Separator)) {
		suffix = suffix[1:]
	}

	// Walk the directory tree
	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}

		if info.IsDir() {
			return nil
		}

		// Check if file matches the suffix pattern
		if suffix == "" {
			results = append(results, path)
			return nil
		}

		// Build the pattern for this specific path
		relPath, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}

		// Try to match the suffix pattern against the relative path
		if matchSuffix(relPath, suffix) {
			results = append(results, path)
		}

		return nil
	})

	return results, err
}

// matchSuffix checks if a path matches a suffix pattern (after **)
func matchSuffix(path, pattern string) bool {
	// Handle patterns like "/*.vhd" or "*.vhd"
	pattern = strings.TrimPrefix(pattern, string(filepath.Separator))

	// If pattern has no directory component, match against filename
	if !strings.Contains(pattern, string(filepath.Separator)) {
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		return matched
	}

	// For patterns with directory components, try matching
	matched, _ := filepath.Match(pattern, path)
	if matched {
		return true
	}

	// Also try matching just the suffix
	if len(path) > len(pattern) {
		suffix := path[len(path)-len(pattern):]
		matched, _ = filepath.Match(pattern, suffix)
		return matched
	}

	return false
}

// GetAllFiles returns all VHDL files from all libraries (flattened)
func (c *Config) GetAllFiles(rootPath string) ([]string, error) {
	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return nil, err
	}

	fileSet := make(map[string]bool)
	for _, lib := range libs {
		for _, f := range lib.Files {
			fileSet[f] = true
		}
	}

	result := make([]string, 0, len(fileSet))
	for f := range fileSet {
		result = append(result, f)
	}
	sort.Strings(result)

	return result, nil
}

// FileLibraryInfo contains library information for a specific file
type FileLibraryInfo struct {
	LibraryName  string
	IsThirdParty bool
}

// GetFileLibrary returns the library information for a file
func (c *Config) GetFileLibrary(filePath string, rootPath string) FileLibraryInfo {
	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return FileLibraryInfo{LibraryName: "work", IsThirdParty: false}
	}

	absPath, _ := filepath.Abs(filePath)

	for _, lib := range libs {
		for _, f := range lib.Files {
			absF, _ := filepath.Abs(f)
			if absPath == absF {
				return FileLibraryInfo{
					LibraryName:  lib.Name,
					IsThirdParty: lib.IsThirdParty,
				}
			}
		}
	}

	// Default to work library
	return FileLibraryInfo{LibraryName: "work", IsThirdParty: false}
}
