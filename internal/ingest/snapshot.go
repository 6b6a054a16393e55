package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/guimove/ptufit/internal/model"
)

// SnapshotSource loads a pre-parsed dataset from a JSON file.
// Used for offline analysis, fixtures, and CI pipelines.
type SnapshotSource struct {
	filePath string
	dataset  *model.Dataset
}

// NewSnapshotSource creates a source that reads from a JSON file.
func NewSnapshotSource(filePath string) *SnapshotSource {
	return &SnapshotSource{filePath: filePath}
}

// NewSnapshotSourceFromDataset wraps an in-memory dataset.
func NewSnapshotSourceFromDataset(ds *model.Dataset) *SnapshotSource {
	return &SnapshotSource{dataset: ds}
}

// SourceType returns "snapshot".
func (s *SnapshotSource) SourceType() string { return "snapshot" }

// Load reads the dataset from the JSON file.
func (s *SnapshotSource) Load(ctx context.Context) (*model.Dataset, error) {
	if s.dataset != nil {
		return s.dataset, nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var ds model.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}

	if len(ds.Requests) == 0 {
		return nil, ErrEmptyDataset
	}

	for i, r := range ds.Requests {
		if r.InputTokens < 0 || r.OutputTokens < 0 {
			return nil, &model.DataError{Reason: fmt.Sprintf("request %d: negative token count", i)}
		}
		if r.Timestamp.IsZero() {
			return nil, &model.DataError{Reason: fmt.Sprintf("request %d: missing timestamp", i)}
		}
	}

	return &ds, nil
}
