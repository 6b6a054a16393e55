package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/guimove/ptufit/internal/model"
)

// CSVReporter exports the sweep as delimited text, one row per candidate,
// carrying every numeric field without formatting loss. Annual basis.
type CSVReporter struct {
	w io.Writer
}

var csvHeader = []string{
	"units",
	"capacity_tpm",
	"ptu_input_tokens",
	"ptu_output_tokens",
	"paygo_input_tokens",
	"paygo_output_tokens",
	"ptu_token_share_pct",
	"mean_utilization_pct",
	"ptu_cost_annual",
	"paygo_cost_annual",
	"total_cost_annual",
	"pure_paygo_cost_annual",
	"cost_diff_annual",
	"annualization_factor",
	"selected",
}

func (r *CSVReporter) Report(ctx context.Context, outcome model.SweepOutcome, meta model.SweepMeta) error {
	cw := csv.NewWriter(r.w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range outcome.Evaluations {
		ev := &outcome.Evaluations[i]
		selected := "false"
		if !outcome.RangeExceeded && i == outcome.SelectedIndex {
			selected = "true"
		}
		row := []string{
			strconv.Itoa(ev.Candidate.Units),
			floatField(ev.Candidate.Capacity()),
			floatField(ev.Simulation.TotalPTUInputTokens),
			floatField(ev.Simulation.TotalPTUOutputTokens),
			floatField(ev.Simulation.TotalPAYGOInputTokens),
			floatField(ev.Simulation.TotalPAYGOOutputTokens),
			floatField(ev.Simulation.PTUSharePct()),
			floatField(ev.Simulation.MeanUtilizationPct),
			floatField(ev.Cost.PTUCost),
			floatField(ev.Cost.PAYGOCost),
			floatField(ev.Cost.TotalCost),
			floatField(ev.Cost.PurePAYGOCost),
			floatField(ev.Cost.CostDiff),
			floatField(ev.Cost.AnnualizationFactor),
			selected,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func floatField(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
