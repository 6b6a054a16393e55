package model

import "time"

// CapacityCandidate is one provisioned-capacity hypothesis under test.
// Candidates are ephemeral: generated by the sweep, scored, then ranked.
type CapacityCandidate struct {
	// Units is the number of provisioned throughput units.
	Units int `json:"units"`
	// CapacityPerUnit is the weighted tokens/minute one unit can serve.
	CapacityPerUnit float64 `json:"capacity_per_unit"`
	// Scheme is the provisioned pricing applied to this candidate.
	Scheme PricingScheme `json:"scheme"`
}

// Capacity is the total weighted tokens/minute the candidate can serve.
func (c CapacityCandidate) Capacity() float64 {
	return float64(c.Units) * c.CapacityPerUnit
}

// SimulationResult aggregates one candidate's minute-by-minute allocation
// over the whole dataset. Invariant: PTU + PAYGO totals equal the dataset
// totals exactly, for each token kind.
type SimulationResult struct {
	TotalPTUInputTokens    float64 `json:"total_ptu_input_tokens"`
	TotalPTUOutputTokens   float64 `json:"total_ptu_output_tokens"`
	TotalPAYGOInputTokens  float64 `json:"total_paygo_input_tokens"`
	TotalPAYGOOutputTokens float64 `json:"total_paygo_output_tokens"`

	// MeanUtilizationPct is the arithmetic mean of per-bucket utilization,
	// not a token-weighted mean: idle minutes count equally because the
	// provisioned cost is time-based, not traffic-based.
	MeanUtilizationPct float64 `json:"mean_utilization_pct"`

	// MinuteUtilizations holds per-bucket utilization (0-100), in bucket order.
	MinuteUtilizations []float64 `json:"minute_utilizations,omitempty"`
}

// PTUTokens returns the total tokens served by provisioned capacity.
func (r SimulationResult) PTUTokens() float64 {
	return r.TotalPTUInputTokens + r.TotalPTUOutputTokens
}

// PAYGOTokens returns the total tokens spilled to pay-as-you-go.
func (r SimulationResult) PAYGOTokens() float64 {
	return r.TotalPAYGOInputTokens + r.TotalPAYGOOutputTokens
}

// PTUSharePct returns the percentage of all tokens served by PTU.
func (r SimulationResult) PTUSharePct() float64 {
	total := r.PTUTokens() + r.PAYGOTokens()
	if total == 0 {
		return 0
	}
	return r.PTUTokens() / total * 100
}

// CostResult prices one candidate's SimulationResult on a common annual
// basis. Derived strictly from simulation output, scheme, and model pricing.
type CostResult struct {
	PTUCost   float64 `json:"ptu_cost"`
	PAYGOCost float64 `json:"paygo_cost"`
	TotalCost float64 `json:"total_cost"`

	// PurePAYGOCost is the baseline: all traffic billed at PAYGO rates.
	PurePAYGOCost float64 `json:"pure_paygo_cost"`
	// CostDiff is TotalCost - PurePAYGOCost. Negative means cheaper than PAYGO.
	CostDiff float64 `json:"cost_diff"`
	// AnnualizationFactor scales the dataset span to the annual basis.
	AnnualizationFactor float64 `json:"annualization_factor"`
}

// Evaluation pairs a candidate with its simulation and cost outcomes.
type Evaluation struct {
	Candidate  CapacityCandidate `json:"candidate"`
	Simulation SimulationResult  `json:"simulation"`
	Cost       CostResult        `json:"cost"`
}

// SweepOutcome is the result of an optimization sweep: every evaluated
// candidate in ascending unit order, plus the selection.
type SweepOutcome struct {
	Evaluations []Evaluation `json:"evaluations"`

	// SelectedIndex points into Evaluations; -1 when RangeExceeded is set.
	SelectedIndex int `json:"selected_index"`

	// RangeExceeded signals that no candidate met the selection criterion:
	// every tested capacity was cheaper than pure PAYGO, so the sweep range
	// should be widened. A legitimate outcome, not an error.
	RangeExceeded bool `json:"range_exceeded"`

	// Strategy names the selection rule that produced the outcome.
	Strategy string `json:"strategy"`
}

// Selected returns the chosen evaluation, or nil when the range was exceeded.
func (o SweepOutcome) Selected() *Evaluation {
	if o.RangeExceeded || o.SelectedIndex < 0 || o.SelectedIndex >= len(o.Evaluations) {
		return nil
	}
	return &o.Evaluations[o.SelectedIndex]
}

// SweepMeta carries run context into reports.
type SweepMeta struct {
	DatasetName     string        `json:"dataset_name"`
	Model           string        `json:"model"`
	SchemeName      SchemeName    `json:"scheme"`
	OutputWeight    float64       `json:"output_weight"`
	CapacityPerUnit float64       `json:"capacity_per_unit"`
	BucketWidth     time.Duration `json:"bucket_width"`
	SpanStart       time.Time     `json:"span_start"`
	SpanEnd         time.Time     `json:"span_end"`
	TotalRequests   int           `json:"total_requests"`
	TotalInput      int64         `json:"total_input_tokens"`
	TotalOutput     int64         `json:"total_output_tokens"`
	PeakTPM         float64       `json:"peak_tpm"`
}
