package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/guimove/ptufit/internal/model"
	"github.com/guimove/ptufit/internal/store"
)

// CachedCSVSource wraps a CSV source with the SQLite dataset cache. A hit
// requires the file's mtime and size to match what was recorded at parse
// time; anything else falls through to a fresh parse.
type CachedCSVSource struct {
	path  string
	cache *store.Cache
}

// NewCachedCSVSource creates a cache-backed CSV source.
func NewCachedCSVSource(path string, cache *store.Cache) *CachedCSVSource {
	return &CachedCSVSource{path: path, cache: cache}
}

// SourceType returns "csv+cache".
func (s *CachedCSVSource) SourceType() string { return "csv+cache" }

// Load returns the cached dataset when fresh, otherwise parses the CSV and
// stores the result. Cache write failures are non-fatal: the parsed dataset
// is still returned.
func (s *CachedCSVSource) Load(ctx context.Context) (*model.Dataset, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat usage file: %w", err)
	}
	mtimeNs := info.ModTime().UnixNano()
	size := info.Size()

	if ds, ok, err := s.cache.Lookup(s.path, mtimeNs, size); err == nil && ok {
		return ds, nil
	}

	ds, err := NewCSVSource(s.path).Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(s.path, ds, mtimeNs, size); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not cache parsed dataset: %v\n", err)
	}

	return ds, nil
}
