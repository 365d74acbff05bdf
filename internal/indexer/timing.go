package indexer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
)

// timingEvent is one JSONL record: a pipeline stage, or one file of the
// extract stage. Items counts what the stage produced (files found, units
// extracted or populated, fact rows); Errors counts the ParseErrors it added.
type timingEvent struct {
	RunID      string  `json:"run_id"`
	Phase      string  `json:"phase"`
	Kind       string  `json:"kind"`
	File       string  `json:"file,omitempty"`
	Status     string  `json:"status,omitempty"`
	Items      int     `json:"items"`
	Errors     int     `json:"errors,omitempty"`
	StartMS    float64 `json:"start_ms"`
	DurationMS float64 `json:"duration_ms"`
}

// runTimings streams timing events of one run to a JSONL file. A nil
// *runTimings records nothing, so callers never check whether timing is on.
type runTimings struct {
	runID string
	start time.Time
	log   *zap.Logger

	mu     sync.Mutex
	file   *os.File
	enc    *json.Encoder
	broken bool
}

// openTimings returns nil when path is empty or cannot be created.
func openTimings(path, runID string, start time.Time, log *zap.Logger) *runTimings {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		log.Warn("timing output disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	log.Debug("writing timings", zap.String("path", path))
	return &runTimings{runID: runID, start: start, log: log, file: f, enc: json.NewEncoder(f)}
}

// stage starts timing phase. The returned func ends it.
func (rt *runTimings) stage(phase string) func(items, errs int) {
	if rt == nil {
		return func(int, int) {}
	}
	start := time.Now()
	return func(items, errs int) {
		rt.write(timingEvent{Phase: phase, Kind: "stage", Items: items, Errors: errs}, start)
	}
}

// extracted records one file of the extract stage.
func (rt *runTimings) extracted(path, status string, ff extractor.FileFacts, start time.Time) {
	if rt == nil {
		return
	}
	ev := timingEvent{Phase: "extract", Kind: "file", File: path, Status: status, Items: unitCount(ff)}
	if status == "failed" {
		ev.Errors = 1
	}
	rt.write(ev, start)
}

func (rt *runTimings) write(ev timingEvent, start time.Time) {
	if rt == nil {
		return
	}
	ev.RunID = rt.runID
	ev.StartMS = durationToMS(start.Sub(rt.start))
	ev.DurationMS = durationToMS(time.Since(start))

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.broken {
		return
	}
	if err := rt.enc.Encode(ev); err != nil {
		// warn once
		rt.broken = true
		rt.log.Warn("timing output stopped", zap.String("path", rt.file.Name()), zap.Error(err))
	}
}

func (rt *runTimings) close() {
	if rt == nil {
		return
	}
	if err := rt.file.Close(); err != nil {
		rt.log.Warn("closing timing output", zap.String("path", rt.file.Name()), zap.Error(err))
	}
}

func unitCount(ff extractor.FileFacts) int {
	return len(ff.Entities) + len(ff.Architectures) + len(ff.Packages) +
		len(ff.PackageBodies) + len(ff.Contexts) + len(ff.Configurations)
}

func durationToMS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000_000.0
}

// timingPath is VHDL_TIMING_JSONL when set. Otherwise, with Timing on, it
// is TimingPath or timing.jsonl under rootPath.
func (idx *Indexer) timingPath(rootPath string) string {
	if envPath := os.Getenv("VHDL_TIMING_JSONL"); envPath != "" {
		return envPath
	}
	if !idx.Timing {
		return ""
	}
	if idx.TimingPath != "" {
		return idx.TimingPath
	}
	return filepath.Join(rootPath, "timing.jsonl")
}
