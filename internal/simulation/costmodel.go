package simulation

import (
	"time"

	"github.com/guimove/ptufit/internal/model"
)

// hoursPerYear is the annualization basis shared by every candidate in a run.
const hoursPerYear = 8760.0

// CostModel prices simulation results on a single annual basis. One instance
// is built per run from the dataset's wall-clock span and shared across all
// candidates, so no candidate can annualize against a different basis.
type CostModel struct {
	scheme  model.PricingScheme
	pricing model.ModelPricing

	annualUnitCost float64
	// factor scales a cost observed over the dataset span to one year.
	factor float64

	// pure PAYGO baseline over the span, before annualization.
	spanPurePAYGO float64
}

// NewCostModel validates the scheme and model pricing and fixes the
// annualization factor from the dataset span. A zero or negative span cannot
// be projected and is a data error.
func NewCostModel(scheme model.PricingScheme, pricing model.ModelPricing, span time.Duration, totalInput, totalOutput int64) (*CostModel, error) {
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	if err := pricing.Validate(); err != nil {
		return nil, err
	}
	annualUnit, err := scheme.AnnualUnitCost()
	if err != nil {
		return nil, err
	}
	if span <= 0 {
		return nil, &model.DataError{
			Reason: "dataset span is zero; at least two distinct timestamps are required to annualize costs",
		}
	}

	return &CostModel{
		scheme:         scheme,
		pricing:        pricing,
		annualUnitCost: annualUnit,
		factor:         hoursPerYear / span.Hours(),
		spanPurePAYGO:  tokenCost(float64(totalInput), float64(totalOutput), pricing),
	}, nil
}

// AnnualizationFactor returns the span-to-year scaling factor for this run.
func (m *CostModel) AnnualizationFactor() float64 {
	return m.factor
}

// Price computes the annualized blended cost for one candidate.
func (m *CostModel) Price(cand model.CapacityCandidate, sim model.SimulationResult) model.CostResult {
	// The provisioned cost is a fixed recurring charge: a unit held for a
	// year costs the same regardless of how much traffic it served.
	ptuCost := m.annualUnitCost * float64(cand.Units)

	paygoCost := tokenCost(sim.TotalPAYGOInputTokens, sim.TotalPAYGOOutputTokens, m.pricing) * m.factor
	pure := m.spanPurePAYGO * m.factor
	total := ptuCost + paygoCost

	return model.CostResult{
		PTUCost:             ptuCost,
		PAYGOCost:           paygoCost,
		TotalCost:           total,
		PurePAYGOCost:       pure,
		CostDiff:            total - pure,
		AnnualizationFactor: m.factor,
	}
}

// tokenCost bills tokens at per-1k PAYGO rates.
func tokenCost(inputTokens, outputTokens float64, p model.ModelPricing) float64 {
	return inputTokens/1000*p.InputPricePer1K + outputTokens/1000*p.OutputPricePer1K
}
