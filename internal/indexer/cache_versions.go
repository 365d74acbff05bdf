package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
)

type cacheVersions struct {
	parser    string
	extractor string
}

// Sources whose changes invalidate cached facts. The statement parser
// decides what is recognized; the extractor decides the shape of FileFacts.
var (
	parserSources    = []string{"scanner.go", "parser.go", "patterns.go", "declarations.go"}
	extractorSources = []string{"extractor.go", "facts.go"}
)

func cacheEnabled(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	if cfg.Analysis.Cache.Enabled == nil {
		return false
	}
	return *cfg.Analysis.Cache.Enabled
}

func resolveCacheDir(rootPath string, cfg *config.Config) string {
	baseDir := rootPath
	if info, err := os.Stat(rootPath); err == nil && !info.IsDir() {
		baseDir = filepath.Dir(rootPath)
	}
	cacheDir := cfg.Analysis.Cache.Dir
	if cacheDir == "" {
		cacheDir = ".vhdl_model_cache"
	}
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(baseDir, cacheDir)
	}
	return cacheDir
}

func computeCacheVersions() cacheVersions {
	dir := findExtractorSources()
	versions := cacheVersions{
		parser:    hashSources(dir, parserSources),
		extractor: hashSources(dir, extractorSources),
	}
	if versions.parser == "" {
		versions.parser = "unknown"
	}
	if versions.extractor == "" {
		versions.extractor = "unknown"
	}
	return versions
}

// findExtractorSources locates internal/extractor by walking up from this
// source file. It returns "" for binaries built without sources.
func findExtractorSources() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	dir := filepath.Dir(file)
	for {
		candidate := filepath.Join(dir, "internal", "extractor")
		if _, err := os.Stat(filepath.Join(candidate, "extractor.go")); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// hashSources hashes the named files of dir together. Missing files are
// skipped; "" means none was found.
func hashSources(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	h := sha256.New()
	found := false
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		_, _ = io.WriteString(h, name)
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return ""
		}
		found = true
	}
	if !found {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
