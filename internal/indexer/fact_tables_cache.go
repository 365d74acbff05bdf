package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robert-at-pretension-io/vhdl-model/internal/facts"
)

const factTablesCacheVersion = 2

// factTablesCache is the previous run's snapshot, kept as JSON so that it
// can be handed to "facts --delta-from" directly.
type factTablesCache struct {
	Version int          `json:"version"`
	RunID   string       `json:"run_id"`
	Tables  facts.Tables `json:"tables"`
}

func factTablesCachePath(dir string) string {
	return filepath.Join(dir, "fact_tables.json")
}

func loadFactTablesCache(dir string) (facts.Tables, bool, error) {
	data, err := os.ReadFile(factTablesCachePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return facts.Tables{}, false, nil
		}
		return facts.Tables{}, false, fmt.Errorf("read fact tables cache: %w", err)
	}
	var cache factTablesCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return facts.Tables{}, false, fmt.Errorf("parse fact tables cache: %w", err)
	}
	if cache.Version != factTablesCacheVersion {
		return facts.Tables{}, false, nil
	}
	return cache.Tables, true, nil
}

func saveFactTablesCache(dir, runID string, tables facts.Tables) error {
	cache := factTablesCache{
		Version: factTablesCacheVersion,
		RunID:   runID,
		Tables:  tables,
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fact tables cache: %w", err)
	}
	if err := writeFileAtomic(factTablesCachePath(dir), data); err != nil {
		return fmt.Errorf("write fact tables cache: %w", err)
	}
	return nil
}
