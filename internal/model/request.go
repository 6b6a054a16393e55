package model

import "time"

// Request is one row of usage data: a single API call's token counts.
// Records are immutable once ingested; total tokens is always derived.
type Request struct {
	Timestamp    time.Time `json:"timestamp"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
}

// TotalTokens returns the combined input and output token count.
func (r Request) TotalTokens() int64 {
	return r.InputTokens + r.OutputTokens
}

// WeightedDemand expresses the request's demand in input-token-equivalent
// capacity units, scaling output tokens by the output/input price ratio.
func (r Request) WeightedDemand(outputWeight float64) float64 {
	return float64(r.InputTokens) + float64(r.OutputTokens)*outputWeight
}

// Dataset is a closed collection of requests plus its observed wall-clock span.
type Dataset struct {
	Requests []Request `json:"requests"`
	Name     string    `json:"name,omitempty"`
}

// Span returns the wall-clock interval covered by the dataset.
// Zero times are returned for an empty dataset.
func (d *Dataset) Span() (start, end time.Time) {
	for _, r := range d.Requests {
		if start.IsZero() || r.Timestamp.Before(start) {
			start = r.Timestamp
		}
		if end.IsZero() || r.Timestamp.After(end) {
			end = r.Timestamp
		}
	}
	return start, end
}

// Duration returns the dataset span as a duration.
func (d *Dataset) Duration() time.Duration {
	start, end := d.Span()
	if start.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// Totals sums input and output tokens across all requests.
func (d *Dataset) Totals() (input, output int64) {
	for _, r := range d.Requests {
		input += r.InputTokens
		output += r.OutputTokens
	}
	return input, output
}
