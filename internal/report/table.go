package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/guimove/ptufit/internal/model"
)

// TableReporter outputs the sweep as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, outcome model.SweepOutcome, meta model.SweepMeta) error {
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "PTU vs PAYGO Analysis\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Dataset:       %s\n", meta.DatasetName)
	fmt.Fprintf(r.w, "Model:         %s\n", meta.Model)
	fmt.Fprintf(r.w, "Scheme:        %s\n", meta.SchemeName)
	fmt.Fprintf(r.w, "Span:          %s to %s\n",
		meta.SpanStart.Format("2006-01-02 15:04"), meta.SpanEnd.Format("2006-01-02 15:04"))
	fmt.Fprintf(r.w, "Requests:      %d (%s input / %s output tokens)\n",
		meta.TotalRequests, formatCount(float64(meta.TotalInput)), formatCount(float64(meta.TotalOutput)))
	fmt.Fprintf(r.w, "Peak TPM:      %s\n", formatCount(meta.PeakTPM))
	fmt.Fprintf(r.w, "Output weight: %.2f (capacity %g TPM/unit)\n", meta.OutputWeight, meta.CapacityPerUnit)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	if len(outcome.Evaluations) == 0 {
		fmt.Fprintf(r.w, "No candidates evaluated.\n")
		return nil
	}

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header([]string{
		"Units", "PTU In", "PTU Out", "PAYGO In", "PAYGO Out",
		"% PTU", "PTU $/mo", "PAYGO $/mo", "Total $/mo", "vs PAYGO", "Util %",
	})

	selected := outcome.Selected()
	for i := range outcome.Evaluations {
		ev := &outcome.Evaluations[i]
		units := fmt.Sprintf("%d", ev.Candidate.Units)
		if selected != nil && i == outcome.SelectedIndex {
			units = "> " + units
		}
		table.Append([]string{
			units,
			formatCount(ev.Simulation.TotalPTUInputTokens),
			formatCount(ev.Simulation.TotalPTUOutputTokens),
			formatCount(ev.Simulation.TotalPAYGOInputTokens),
			formatCount(ev.Simulation.TotalPAYGOOutputTokens),
			fmt.Sprintf("%.1f%%", ev.Simulation.PTUSharePct()),
			formatUSD(monthly(ev.Cost.PTUCost)),
			formatUSD(monthly(ev.Cost.PAYGOCost)),
			formatUSD(monthly(ev.Cost.TotalCost)),
			fmt.Sprintf("%+.2f", monthly(ev.Cost.CostDiff)),
			fmt.Sprintf("%.1f%%", ev.Simulation.MeanUtilizationPct),
		})
	}

	table.Render()
	fmt.Fprint(r.w, buf.String())

	fmt.Fprintf(r.w, "\nStrategy: %s\n", outcome.Strategy)
	if outcome.RangeExceeded {
		fmt.Fprintf(r.w, "No candidate reached break-even with pure PAYGO: every tested\n")
		fmt.Fprintf(r.w, "capacity was cheaper than PAYGO and fully loaded. Widen the sweep\n")
		fmt.Fprintf(r.w, "range (increase sweep.max_units) to find the optimum.\n")
		return nil
	}

	if selected != nil {
		fmt.Fprintf(r.w, "\nRecommended: %d units (%g weighted TPM)\n",
			selected.Candidate.Units, selected.Candidate.Capacity())
		fmt.Fprintf(r.w, "  Total cost:      %s/mo (%s/yr)\n",
			formatUSD(monthly(selected.Cost.TotalCost)), formatUSD(selected.Cost.TotalCost))
		fmt.Fprintf(r.w, "  Pure PAYGO:      %s/mo\n", formatUSD(monthly(selected.Cost.PurePAYGOCost)))
		fmt.Fprintf(r.w, "  Delta:           %+.2f/mo\n", monthly(selected.Cost.CostDiff))
		fmt.Fprintf(r.w, "  Tokens via PTU:  %.1f%%\n", selected.Simulation.PTUSharePct())
		fmt.Fprintf(r.w, "  Mean util:       %.1f%%\n", selected.Simulation.MeanUtilizationPct)
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}
