package report

import (
	"context"
	"fmt"
	"io"

	"github.com/guimove/ptufit/internal/model"
)

// MarkdownReporter outputs the sweep as a markdown document.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, outcome model.SweepOutcome, meta model.SweepMeta) error {
	fmt.Fprintf(r.w, "# PTU vs PAYGO Analysis\n\n")
	fmt.Fprintf(r.w, "- **Dataset**: %s\n", meta.DatasetName)
	fmt.Fprintf(r.w, "- **Model**: %s\n", meta.Model)
	fmt.Fprintf(r.w, "- **Scheme**: %s\n", meta.SchemeName)
	fmt.Fprintf(r.w, "- **Span**: %s to %s\n",
		meta.SpanStart.Format("2006-01-02 15:04"), meta.SpanEnd.Format("2006-01-02 15:04"))
	fmt.Fprintf(r.w, "- **Requests**: %d\n", meta.TotalRequests)
	fmt.Fprintf(r.w, "- **Output weight**: %.2f at %g TPM/unit\n\n", meta.OutputWeight, meta.CapacityPerUnit)

	fmt.Fprintf(r.w, "| Units | PTU Tokens | PAYGO Tokens | %% PTU | PTU $/mo | PAYGO $/mo | Total $/mo | vs PAYGO | Util %% |\n")
	fmt.Fprintf(r.w, "|------:|-----------:|-------------:|------:|---------:|-----------:|-----------:|---------:|-------:|\n")

	for i := range outcome.Evaluations {
		ev := &outcome.Evaluations[i]
		marker := ""
		if !outcome.RangeExceeded && i == outcome.SelectedIndex {
			marker = " **(selected)**"
		}
		fmt.Fprintf(r.w, "| %d%s | %s | %s | %.1f%% | %s | %s | %s | %+.2f | %.1f%% |\n",
			ev.Candidate.Units, marker,
			formatCount(ev.Simulation.PTUTokens()),
			formatCount(ev.Simulation.PAYGOTokens()),
			ev.Simulation.PTUSharePct(),
			formatUSD(monthly(ev.Cost.PTUCost)),
			formatUSD(monthly(ev.Cost.PAYGOCost)),
			formatUSD(monthly(ev.Cost.TotalCost)),
			monthly(ev.Cost.CostDiff),
			ev.Simulation.MeanUtilizationPct,
		)
	}

	fmt.Fprintf(r.w, "\n")
	if outcome.RangeExceeded {
		fmt.Fprintf(r.w, "**No break-even candidate found**: every tested capacity was cheaper than pure PAYGO. Widen the sweep range.\n")
		return nil
	}
	if sel := outcome.Selected(); sel != nil {
		fmt.Fprintf(r.w, "**Recommended**: %d units at %s/mo (%+.2f/mo vs pure PAYGO, strategy %s).\n",
			sel.Candidate.Units, formatUSD(monthly(sel.Cost.TotalCost)),
			monthly(sel.Cost.CostDiff), outcome.Strategy)
	}
	return nil
}
