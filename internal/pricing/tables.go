// Package pricing supplies the built-in provisioned-scheme and model price
// tables. Values are immutable configuration: callers receive copies and the
// core never mutates them.
package pricing

import (
	"fmt"
	"sort"

	"github.com/guimove/ptufit/internal/model"
)

// defaultSchemes holds the published per-unit monthly-equivalent rates for
// each provisioned pricing scheme. Hourly schemes carry their hourly rate
// directly; reservation schemes carry the monthly or yearly commitment.
var defaultSchemes = map[model.SchemeName]model.PricingScheme{
	model.MonthlyReservation: {Name: model.MonthlyReservation, UnitCost: 260.0, BillingPeriod: model.BillMonthly},
	model.YearlyReservation:  {Name: model.YearlyReservation, UnitCost: 221.0 * 12, BillingPeriod: model.BillYearly},
	model.HourlyGlobal:       {Name: model.HourlyGlobal, UnitCost: 1.0, BillingPeriod: model.BillHourly},
	model.HourlyDataZone:     {Name: model.HourlyDataZone, UnitCost: 1.1, BillingPeriod: model.BillHourly},
	model.HourlyRegional:     {Name: model.HourlyRegional, UnitCost: 2.0, BillingPeriod: model.BillHourly},
	model.MonthlyCommitment:  {Name: model.MonthlyCommitment, UnitCost: 312.0, BillingPeriod: model.BillMonthly},
}

// defaultModels maps model names to their PAYGO per-1k-token prices.
var defaultModels = map[string]model.ModelPricing{
	"gpt-4.1":      {Model: "gpt-4.1", InputPricePer1K: 0.002, OutputPricePer1K: 0.008},
	"gpt-4.1-mini": {Model: "gpt-4.1-mini", InputPricePer1K: 0.0004, OutputPricePer1K: 0.0016},
	"gpt-4.1-nano": {Model: "gpt-4.1-nano", InputPricePer1K: 0.0001, OutputPricePer1K: 0.0004},
	"gpt-4o":       {Model: "gpt-4o", InputPricePer1K: 0.0025, OutputPricePer1K: 0.01},
	"gpt-4o-mini":  {Model: "gpt-4o-mini", InputPricePer1K: 0.00015, OutputPricePer1K: 0.0006},
	"o3":           {Model: "o3", InputPricePer1K: 0.002, OutputPricePer1K: 0.008},
	"o4-mini":      {Model: "o4-mini", InputPricePer1K: 0.0011, OutputPricePer1K: 0.0044},
}

// Scheme returns the built-in pricing scheme with the given name, with the
// discount applied. Unknown names are a configuration error.
func Scheme(name model.SchemeName, discountPct float64) (model.PricingScheme, error) {
	s, ok := defaultSchemes[name]
	if !ok {
		return model.PricingScheme{}, &model.ConfigError{
			Field:  "scheme",
			Reason: fmt.Sprintf("unknown pricing scheme %q", string(name)),
		}
	}
	s.DiscountPct = discountPct
	if err := s.Validate(); err != nil {
		return model.PricingScheme{}, err
	}
	return s, nil
}

// Schemes returns all built-in schemes in display order.
func Schemes() []model.PricingScheme {
	names := model.SchemeNames()
	out := make([]model.PricingScheme, 0, len(names))
	for _, n := range names {
		out = append(out, defaultSchemes[n])
	}
	return out
}

// Model returns the built-in PAYGO pricing for a model name.
func Model(name string) (model.ModelPricing, error) {
	m, ok := defaultModels[name]
	if !ok {
		return model.ModelPricing{}, &model.ConfigError{
			Field:  "model",
			Reason: fmt.Sprintf("no pricing data for model %q", name),
		}
	}
	return m, nil
}

// Models returns every model with built-in pricing, sorted by name.
func Models() []model.ModelPricing {
	out := make([]model.ModelPricing, 0, len(defaultModels))
	for _, m := range defaultModels {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}

// DefaultCapacityTPM returns the default weighted tokens/minute one
// provisioned unit serves for the given model.
func DefaultCapacityTPM(modelName string) float64 {
	// GPT-4 class units are rated at 3000 TPM; smaller models at 1000.
	switch modelName {
	case "gpt-4.1", "gpt-4o", "o3":
		return 3000
	default:
		return 1000
	}
}
