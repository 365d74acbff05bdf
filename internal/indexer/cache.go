package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/robert-at-pretension-io/vhdl-model/internal/extractor"
)

const cacheIndexVersion = 2

type cacheEntry struct {
	ContentHash      string `msgpack:"content_hash"`
	FactsPath        string `msgpack:"facts_path"`
	ParserVersion    string `msgpack:"parser_version"`
	ExtractorVersion string `msgpack:"extractor_version"`
}

type cacheIndex struct {
	Version int                   `msgpack:"version"`
	Entries map[string]cacheEntry `msgpack:"entries"`
}

// factsCache stores extracted FileFacts per source file, keyed by content
// hash and by the versions of the code that produced them. Entries are
// msgpack encoded.
type factsCache struct {
	dir              string
	parserVersion    string
	extractorVersion string
	mu               sync.Mutex
	index            cacheIndex
}

func newFactsCache(dir, parserVersion, extractorVersion string) *factsCache {
	return &factsCache{
		dir:              dir,
		parserVersion:    parserVersion,
		extractorVersion: extractorVersion,
		index: cacheIndex{
			Version: cacheIndexVersion,
			Entries: make(map[string]cacheEntry),
		},
	}
}

func (c *factsCache) indexPath() string {
	return filepath.Join(c.dir, "index.msgpack")
}

func (c *factsCache) factsDir() string {
	return filepath.Join(c.dir, "facts")
}

func (c *factsCache) factsPathForFile(filePath string) string {
	h := sha256.Sum256([]byte(filePath))
	return filepath.Join(c.factsDir(), hex.EncodeToString(h[:])+".msgpack")
}

func (c *factsCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache mkdir: %w", err)
	}
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache index: %w", err)
	}
	var idx cacheIndex
	if err := msgpack.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parse cache index: %w", err)
	}
	if idx.Version != cacheIndexVersion {
		// Reset on version mismatch
		c.index = cacheIndex{Version: cacheIndexVersion, Entries: make(map[string]cacheEntry)}
		return nil
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]cacheEntry)
	}
	c.index = idx
	return nil
}

func (c *factsCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := msgpack.Marshal(c.index)
	if err != nil {
		return fmt.Errorf("encode cache index: %w", err)
	}
	return writeFileAtomic(c.indexPath(), data)
}

func (c *factsCache) Get(filePath, contentHash string) (extractor.FileFacts, bool, error) {
	c.mu.Lock()
	entry, ok := c.index.Entries[filePath]
	c.mu.Unlock()
	if !ok {
		return extractor.FileFacts{}, false, nil
	}
	if entry.ContentHash != contentHash {
		return extractor.FileFacts{}, false, nil
	}
	if entry.ParserVersion != c.parserVersion || entry.ExtractorVersion != c.extractorVersion {
		return extractor.FileFacts{}, false, nil
	}

	f, err := os.Open(entry.FactsPath)
	if err != nil {
		return extractor.FileFacts{}, false, fmt.Errorf("read cached facts: %w", err)
	}
	defer f.Close()
	var facts extractor.FileFacts
	if err := msgpack.NewDecoder(f).Decode(&facts); err != nil {
		return extractor.FileFacts{}, false, fmt.Errorf("parse cached facts: %w", err)
	}
	return facts, true, nil
}

func (c *factsCache) Put(filePath, contentHash string, facts extractor.FileFacts) error {
	data, err := msgpack.Marshal(&facts)
	if err != nil {
		return fmt.Errorf("encode cached facts: %w", err)
	}
	factsPath := c.factsPathForFile(filePath)
	if err := writeFileAtomic(factsPath, data); err != nil {
		return err
	}

	c.mu.Lock()
	c.index.Entries[filePath] = cacheEntry{
		ContentHash:      contentHash,
		FactsPath:        factsPath,
		ParserVersion:    c.parserVersion,
		ExtractorVersion: c.extractorVersion,
	}
	c.mu.Unlock()
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
