package simulation

import (
	"sort"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

// DefaultBucketWidth is the documented bucket granularity. Other widths are
// configurable, but minute buckets are the contract that downstream numbers
// are calibrated against.
const DefaultBucketWidth = time.Minute

// Aggregate groups requests into fixed-width time buckets keyed by their
// truncated timestamp and returns them sorted by time ascending. Only
// intervals containing at least one request are materialized; an empty
// request slice yields an empty bucket slice.
//
// Weighted demand is computed once per bucket from the summed token counts.
// Weighting is linear, so this is numerically equivalent to weighting each
// request individually.
func Aggregate(requests []model.Request, outputWeight float64, width time.Duration) []model.MinuteBucket {
	if width <= 0 {
		width = DefaultBucketWidth
	}

	grouped := make(map[time.Time]*model.MinuteBucket)
	for _, r := range requests {
		key := r.Timestamp.UTC().Truncate(width)
		b, ok := grouped[key]
		if !ok {
			b = &model.MinuteBucket{Start: key}
			grouped[key] = b
		}
		b.InputTokens += r.InputTokens
		b.OutputTokens += r.OutputTokens
		b.RequestCount++
	}

	buckets := make([]model.MinuteBucket, 0, len(grouped))
	for _, b := range grouped {
		b.WeightedDemand = float64(b.InputTokens) + float64(b.OutputTokens)*outputWeight
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})

	return buckets
}
