// Package report renders sweep outcomes for the terminal and for export.
// Costs are computed on an annual basis; table and markdown views present
// the monthly equivalent, JSON and CSV carry the raw annual figures.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/guimove/ptufit/internal/model"
)

// Reporter formats and writes a sweep outcome to an output destination.
type Reporter interface {
	Report(ctx context.Context, outcome model.SweepOutcome, meta model.SweepMeta) error
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	case "csv":
		return &CSVReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}

// monthly converts an annual cost figure to its monthly equivalent.
func monthly(annual float64) float64 {
	return annual / 12
}

// formatCount renders a token count with thousands separators.
func formatCount(v float64) string {
	n := int64(v + 0.5)
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// formatUSD renders a currency amount.
func formatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
