package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/ptufit/internal/model"
)

// JSONReporter outputs the sweep outcome as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonOutput struct {
	Meta    model.SweepMeta    `json:"meta"`
	Outcome model.SweepOutcome `json:"outcome"`
}

func (r *JSONReporter) Report(ctx context.Context, outcome model.SweepOutcome, meta model.SweepMeta) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonOutput{Meta: meta, Outcome: outcome}); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
