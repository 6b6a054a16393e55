package model

import "fmt"

// BillingPeriod is the cadence at which a pricing scheme's unit cost recurs.
type BillingPeriod string

const (
	BillHourly  BillingPeriod = "hour"
	BillMonthly BillingPeriod = "month"
	BillYearly  BillingPeriod = "year"
)

// periodsPerYear converts a billing cadence to recurrences per year.
// Hourly uses 730 hours/month, matching provider rate cards.
func (p BillingPeriod) periodsPerYear() (float64, error) {
	switch p {
	case BillHourly:
		return 730 * 12, nil
	case BillMonthly:
		return 12, nil
	case BillYearly:
		return 1, nil
	default:
		return 0, &ConfigError{Field: "billing_period", Reason: fmt.Sprintf("unknown period %q", string(p))}
	}
}

// SchemeName identifies one of the closed set of provisioned pricing schemes.
type SchemeName string

const (
	MonthlyReservation SchemeName = "monthly-reservation"
	YearlyReservation  SchemeName = "yearly-reservation"
	HourlyGlobal       SchemeName = "hourly-global"
	HourlyDataZone     SchemeName = "hourly-data-zone"
	HourlyRegional     SchemeName = "hourly-regional"
	MonthlyCommitment  SchemeName = "monthly-commitment"
)

// SchemeNames lists every valid scheme in display order.
func SchemeNames() []SchemeName {
	return []SchemeName{
		MonthlyReservation,
		YearlyReservation,
		HourlyGlobal,
		HourlyDataZone,
		HourlyRegional,
		MonthlyCommitment,
	}
}

// PricingScheme is an immutable provisioned-throughput cost structure:
// a recurring price per provisioned unit at some billing cadence, with an
// optional multiplicative discount.
type PricingScheme struct {
	Name          SchemeName    `json:"name"`
	UnitCost      float64       `json:"unit_cost"`
	BillingPeriod BillingPeriod `json:"billing_period"`
	DiscountPct   float64       `json:"discount_pct"`
}

// Validate checks the scheme against the configuration error taxonomy.
func (s PricingScheme) Validate() error {
	if s.UnitCost < 0 {
		return &ConfigError{Field: "unit_cost", Reason: fmt.Sprintf("must be non-negative, got %v", s.UnitCost)}
	}
	if s.DiscountPct < 0 || s.DiscountPct > 100 {
		return &ConfigError{Field: "discount_pct", Reason: fmt.Sprintf("must be in [0,100], got %v", s.DiscountPct)}
	}
	if _, err := s.BillingPeriod.periodsPerYear(); err != nil {
		return err
	}
	return nil
}

// EffectiveUnitCost returns the unit cost after discount.
func (s PricingScheme) EffectiveUnitCost() float64 {
	return s.UnitCost * (1 - s.DiscountPct/100)
}

// AnnualUnitCost returns the discounted cost of one provisioned unit held
// for a full year under this scheme's billing cadence.
func (s PricingScheme) AnnualUnitCost() (float64, error) {
	periods, err := s.BillingPeriod.periodsPerYear()
	if err != nil {
		return 0, err
	}
	return s.EffectiveUnitCost() * periods, nil
}

// ModelPricing holds the PAYGO per-1k-token prices for one model.
type ModelPricing struct {
	Model            string  `json:"model"`
	InputPricePer1K  float64 `json:"input_price_per_1k"`
	OutputPricePer1K float64 `json:"output_price_per_1k"`
}

// Validate enforces the division guard: a zero or missing input price is a
// configuration error, never a runtime fallback.
func (m ModelPricing) Validate() error {
	if m.InputPricePer1K <= 0 {
		return &ConfigError{Field: "input_price_per_1k", Reason: fmt.Sprintf("must be positive, got %v", m.InputPricePer1K)}
	}
	if m.OutputPricePer1K < 0 {
		return &ConfigError{Field: "output_price_per_1k", Reason: fmt.Sprintf("must be non-negative, got %v", m.OutputPricePer1K)}
	}
	return nil
}

// OutputWeight is the output/input price ratio used to express output tokens
// in input-token-equivalent capacity units.
func (m ModelPricing) OutputWeight() (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m.OutputPricePer1K / m.InputPricePer1K, nil
}
