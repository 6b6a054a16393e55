// Package ingest loads per-request token usage data into the core's Request
// stream. Malformed rows are rejected here; the simulation core assumes
// well-typed, non-negative counts and valid timestamps.
package ingest

import (
	"context"
	"errors"

	"github.com/guimove/ptufit/internal/model"
)

var (
	// ErrEmptyDataset is returned when a source yields no usable requests.
	ErrEmptyDataset = errors.New("no usage records found in input")
)

// Source abstracts where a usage dataset comes from.
type Source interface {
	// Load reads the full dataset. The result is immutable once returned.
	Load(ctx context.Context) (*model.Dataset, error)

	// SourceType returns a short identifier for progress output.
	SourceType() string
}
