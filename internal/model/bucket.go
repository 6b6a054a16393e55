package model

import "time"

// MinuteBucket aggregates all requests whose timestamps truncate to the same
// bucket start. Buckets exist only for intervals with at least one request.
type MinuteBucket struct {
	Start          time.Time `json:"start"`
	InputTokens    int64     `json:"input_tokens"`
	OutputTokens   int64     `json:"output_tokens"`
	WeightedDemand float64   `json:"weighted_demand"`
	RequestCount   int       `json:"request_count"`
}

// TotalTokens returns the unweighted token sum for the bucket.
func (b MinuteBucket) TotalTokens() int64 {
	return b.InputTokens + b.OutputTokens
}
