package indexer

// =============================================================================
// INDEXER PHILOSOPHY: TRUST THE EXTRACTOR, VALIDATE WITH CUE
// =============================================================================
//
// The indexer sits between extraction and every consumer of the model. Its
// job is to:
// 1. Aggregate facts from multiple files into one model.Design
// 2. Bind architectures to entities and resolve type marks within scope
// 3. Build the cross-file symbol table
// 4. Export relational fact tables and validate them against the CUE contract
//
// IMPORTANT: The indexer should NOT work around extraction bugs!
//
// If the indexer needs to "fix" or "clean up" extracted data, that's a sign
// that the EXTRACTOR is missing logic. Fix it there.
//
// Problems in the sources themselves (an architecture of a missing entity, a
// duplicate unit) are not fatal: they become ParseErrors and the offending
// unit is left out of the model.
// =============================================================================

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robert-at-pretension-io/vhdl-model/internal/config"
	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
	"github.com/robert-at-pretension-io/vhdl-model/internal/model"
	"github.com/robert-at-pretension-io/vhdl-model/internal/validator"
)

// Indexer loads VHDL sources into a model.Design.
type Indexer struct {
	// Configuration loaded from vhdl_model.json / vhdl_model.toml
	Config *config.Config

	// Logger receives progress and diagnostics; defaults to a no-op logger
	Logger *zap.Logger

	// Global symbol table: qualified name -> location
	Symbols *SymbolTable

	// Extracted facts from all files, sorted by path
	Facts []extractor.FileFacts

	// Resolved library information (file -> library mapping)
	FileLibraries map[string]config.FileLibraryInfo

	// Third-party files (their units are exported but never checked)
	ThirdPartyFiles map[string]bool

	// Verbose adds per-file and cache impact logging
	Verbose bool

	// Timing output (JSONL)
	Timing     bool
	TimingPath string

	// Optional extractor factory (for tests)
	extractorFactory func() FactsExtractor

	// Optional cache version override (for tests)
	cacheVersionOverride *cacheVersions
}

// Result is everything one indexing run produced.
type Result struct {
	// RunID identifies this run in logs and exported snapshots
	RunID string `json:"run_id"`

	// Design is the populated model
	Design *model.Design `json:"-"`

	// Tables are the validated fact tables derived from Design
	Tables facts.Tables `json:"tables"`

	// Delta against the previous cached snapshot; nil without one
	Delta *facts.Delta `json:"delta,omitempty"`

	// Positions maps model objects to their source lines
	Positions facts.Positions `json:"-"`

	// ThirdPartyFiles marks files of third-party libraries
	ThirdPartyFiles map[string]bool `json:"-"`

	// ChangedFiles were (re)extracted rather than served from the cache
	ChangedFiles []string `json:"changed_files,omitempty"`

	// Parse errors encountered
	ParseErrors []ParseError `json:"parse_errors,omitempty"`

	// Extraction statistics
	Stats ExtractionStats `json:"stats"`
}

// ExtractionStats provides counts of what the model holds
type ExtractionStats struct {
	Files          int `json:"files"`
	Libraries      int `json:"libraries"`
	Symbols        int `json:"symbols"`
	Entities       int `json:"entities"`
	Architectures  int `json:"architectures"`
	Packages       int `json:"packages"`
	PackageBodies  int `json:"package_bodies"`
	Contexts       int `json:"contexts"`
	Configurations int `json:"configurations"`
	Types          int `json:"types"`
	Subtypes       int `json:"subtypes"`
	Objects        int `json:"objects"`
	Processes      int `json:"processes"`
	Instances      int `json:"instances"`
}

// ParseError is a file that could not be read or a construct that could not
// be placed in the model. Line is 0 when the error concerns the whole file.
type ParseError struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e ParseError) Unwrap() error { return e.Err }

// FactsExtractor abstracts extraction for caching tests
type FactsExtractor interface {
	Extract(path string) (extractor.FileFacts, error)
}

// New creates a new Indexer with default configuration
func New() *Indexer {
	return &Indexer{
		Config:          config.DefaultConfig(),
		Logger:          zap.NewNop(),
		Symbols:         NewSymbolTable(),
		FileLibraries:   make(map[string]config.FileLibraryInfo),
		ThirdPartyFiles: make(map[string]bool),
	}
}

// NewWithConfig creates a new Indexer with the given configuration
func NewWithConfig(cfg *config.Config) *Indexer {
	idx := New()
	idx.Config = cfg
	return idx
}

func (idx *Indexer) newExtractor() FactsExtractor {
	if idx.extractorFactory != nil {
		return idx.extractorFactory()
	}
	return extractor.New()
}

func (idx *Indexer) cacheVersions() cacheVersions {
	if idx.cacheVersionOverride != nil {
		return *idx.cacheVersionOverride
	}
	return computeCacheVersions()
}

func (idx *Indexer) logger() *zap.Logger {
	if idx.Logger == nil {
		return zap.NewNop()
	}
	return idx.Logger
}

// Run executes the indexing pipeline on rootPath. Source problems are
// reported in Result.ParseErrors; an error is returned only when the run
// itself cannot complete (configuration, cancellation, contract violation).
func (idx *Indexer) Run(ctx context.Context, rootPath string) (*Result, error) {
	runStart := time.Now()
	runID := uuid.NewString()
	log := idx.logger().With(zap.String("run_id", runID))

	timing := openTimings(idx.timingPath(rootPath), runID, runStart, log)
	defer timing.close()

	// 0. Load configuration if not already loaded
	if idx.Config == nil {
		cfg, err := config.Load(rootPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		idx.Config = cfg
	}

	// Reset per-run state
	idx.Symbols = NewSymbolTable()
	idx.Facts = nil
	idx.FileLibraries = make(map[string]config.FileLibraryInfo)
	idx.ThirdPartyFiles = make(map[string]bool)

	// 1. Find all VHDL files using configuration
	done := timing.stage("scan")
	files, libraries, err := idx.resolveFiles(rootPath, log)
	if err != nil {
		return nil, err
	}
	log.Info("found VHDL files", zap.Int("files", len(files)))
	done(len(files), 0)

	// 2. Parallel extraction (with optional cache)
	done = timing.stage("extract")
	var cache *factsCache
	var cacheDir string
	if cacheEnabled(idx.Config) {
		cacheDir = resolveCacheDir(rootPath, idx.Config)
		versions := idx.cacheVersions()
		cache = newFactsCache(cacheDir, versions.parser, versions.extractor)
		if err := cache.Load(); err != nil {
			log.Warn("cache disabled", zap.Error(err))
			cache = nil
		}
	}
	extracted, parseErrs, changed, err := idx.extractAll(ctx, files, cache, timing, log)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Save(); err != nil {
			log.Warn("cache save failed", zap.Error(err))
		}
	}
	idx.Facts = extracted
	units := 0
	for _, ff := range extracted {
		units += unitCount(ff)
	}
	done(units, len(parseErrs))

	// 3. Populate the model
	done = timing.stage("populate")
	pop := newPopulator(idx.Symbols)
	for _, name := range libraries {
		pop.library(name)
	}
	pop.populate(extracted, idx.FileLibraries)
	parseErrs = append(parseErrs, pop.errs...)
	units = 0
	for _, doc := range pop.design.Documents() {
		units += len(doc.Units())
	}
	done(units, len(pop.errs))

	if cache != nil && idx.Verbose && len(changed) > 0 {
		idx.logImpact(changed, log)
	}

	// 4. Build and validate the fact tables
	done = timing.stage("facts")
	tables := facts.BuildTables(pop.design, idx.ThirdPartyFiles, pop.positions, idx.Symbols.Rows())
	done(tables.Len(), 0)

	done = timing.stage("validate")
	factsValidator, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("CRITICAL: Failed to initialize facts validator: %w", err)
	}
	if err := factsValidator.Validate(tables); err != nil {
		return nil, fmt.Errorf("CRITICAL: Fact table contract violation: %w", err)
	}
	done(tables.Len(), 0)

	result := &Result{
		RunID:           runID,
		Design:          pop.design,
		Tables:          tables,
		Positions:       pop.positions,
		ThirdPartyFiles: idx.ThirdPartyFiles,
		ChangedFiles:    changed,
		ParseErrors:     parseErrs,
		Stats:           statsFromTables(tables),
	}

	// 5. Delta against the previous snapshot
	if cache != nil {
		prev, ok, err := loadFactTablesCache(cacheDir)
		if err != nil {
			log.Warn("fact tables cache unreadable", zap.Error(err))
		} else if ok {
			delta := facts.ComputeDelta(prev, tables)
			result.Delta = &delta
		}
		if err := saveFactTablesCache(cacheDir, runID, tables); err != nil {
			log.Warn("fact tables cache not saved", zap.Error(err))
		}
	}

	total := time.Since(runStart)
	timing.write(timingEvent{Phase: "total", Kind: "stage", Items: len(files), Errors: len(result.ParseErrors)}, runStart)
	log.Info("index complete",
		zap.Int("files", result.Stats.Files),
		zap.Int("units", result.Stats.Entities+result.Stats.Architectures+result.Stats.Packages+
			result.Stats.PackageBodies+result.Stats.Contexts+result.Stats.Configurations),
		zap.Int("parse_errors", len(result.ParseErrors)),
		zap.String("duration", formatDuration(total)),
	)
	return result, nil
}

// resolveFiles returns the files to index, sorted, and the configured
// library names. Files found by a directory scan belong to "work".
func (idx *Indexer) resolveFiles(rootPath string, log *zap.Logger) ([]string, []string, error) {
	var files []string
	var libraries []string

	if len(idx.Config.Libraries) > 0 || len(idx.Config.Files) > 0 {
		libs, err := idx.Config.ResolveLibraries(rootPath)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve libraries: %w", err)
		}
		fileSet := make(map[string]bool)
		for _, lib := range libs {
			libraries = append(libraries, lib.Name)
			log.Debug("library",
				zap.String("name", lib.Name),
				zap.Int("files", len(lib.Files)),
				zap.Bool("third_party", lib.IsThirdParty),
			)
			for _, f := range lib.Files {
				if fileSet[f] {
					continue
				}
				fileSet[f] = true
				files = append(files, f)
				idx.FileLibraries[f] = config.FileLibraryInfo{
					LibraryName:  lib.Name,
					IsThirdParty: lib.IsThirdParty,
				}
				if lib.IsThirdParty {
					idx.ThirdPartyFiles[f] = true
				}
			}
		}
		log.Info("loaded configuration", zap.Int("libraries", len(libs)))
	}

	// Fallback to directory scan if no files from config
	if len(files) == 0 {
		scanned, err := findVHDLFiles(rootPath)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning files: %w", err)
		}
		files = scanned
		if len(libraries) == 0 {
			libraries = []string{"work"}
		}
	}

	sort.Strings(files)
	return files, libraries, nil
}

// extractAll extracts every file on a bounded errgroup. Per-file failures
// become ParseErrors; only cancellation aborts. The returned facts are in
// file order.
func (idx *Indexer) extractAll(ctx context.Context, files []string, cache *factsCache, timing *runTimings, log *zap.Logger) ([]extractor.FileFacts, []ParseError, []string, error) {
	ext := idx.newExtractor()
	results := make([]extractor.FileFacts, len(files))
	failures := make([]error, len(files))
	fresh := make([]bool, len(files))

	limit := idx.Config.Analysis.MaxParallelFiles
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileStart := time.Now()
			var contentHash string
			if cache != nil {
				h, err := hashFile(f)
				if err != nil {
					failures[i] = err
					return nil
				}
				contentHash = h
				ff, ok, err := cache.Get(f, contentHash)
				if err != nil {
					log.Warn("cache read failed", zap.String("file", f), zap.Error(err))
				} else if ok {
					results[i] = ff
					d := time.Since(fileStart)
					timing.extracted(f, "cache_hit", ff, fileStart)
					if idx.Verbose {
						log.Debug("cache hit", zap.String("file", f), zap.String("duration", formatDuration(d)))
					}
					return nil
				}
			}

			ff, err := ext.Extract(f)
			if err != nil {
				failures[i] = err
				timing.extracted(f, "failed", ff, fileStart)
				return nil
			}
			if cache != nil && contentHash != "" {
				if err := cache.Put(f, contentHash, ff); err != nil {
					log.Warn("cache write failed", zap.String("file", f), zap.Error(err))
				}
			}
			results[i] = ff
			fresh[i] = true
			d := time.Since(fileStart)
			timing.extracted(f, "extracted", ff, fileStart)
			if idx.Verbose {
				log.Debug("extracted",
					zap.String("file", f),
					zap.Int("entities", len(ff.Entities)),
					zap.Int("packages", len(ff.Packages)),
					zap.Int("architectures", len(ff.Architectures)),
					zap.String("duration", formatDuration(d)),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	var out []extractor.FileFacts
	var parseErrs []ParseError
	var changed []string
	for i, f := range files {
		if failures[i] != nil {
			parseErrs = append(parseErrs, ParseError{File: f, Message: failures[i].Error(), Err: failures[i]})
			continue
		}
		// the document path is the configured path, whatever the cache held
		results[i].File = f
		out = append(out, results[i])
		if cache != nil && fresh[i] {
			changed = append(changed, f)
		}
	}
	return out, parseErrs, changed, nil
}

// logImpact reports, for each changed file, the files that depend on it.
func (idx *Indexer) logImpact(changed []string, log *zap.Logger) {
	factsByFile := make(map[string]extractor.FileFacts, len(idx.Facts))
	for _, ff := range idx.Facts {
		factsByFile[ff.File] = ff
	}
	dependents := buildDependentsGraph(factsByFile, idx.Symbols, idx.FileLibraries)
	for _, f := range changed {
		report := computeImpact(f, dependents)
		if len(report.Levels) == 0 {
			continue
		}
		log.Info("cache impact",
			zap.String("file", f),
			zap.Int("levels", len(report.Levels)),
			zap.Strings("affected", report.Affected()),
		)
	}
}

func statsFromTables(t facts.Tables) ExtractionStats {
	return ExtractionStats{
		Files:          len(t.Files),
		Libraries:      len(t.Libraries),
		Symbols:        len(t.Symbols),
		Entities:       len(t.Entities),
		Architectures:  len(t.Architectures),
		Packages:       len(t.Packages),
		PackageBodies:  len(t.PackageBodies),
		Contexts:       len(t.Contexts),
		Configurations: len(t.Configurations),
		Types:          len(t.Types),
		Subtypes:       len(t.Subtypes),
		Objects:        len(t.Objects),
		Processes:      len(t.Processes),
		Instances:      len(t.Instances),
	}
}

func findVHDLFiles(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".vhd" || ext == ".vhdl" {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.2fm", d.Minutes())
	default:
		return fmt.Sprintf("%.2fh", d.Hours())
	}
}
