package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

func TestAggregate_GroupsByMinute(t *testing.T) {
	reqs := testRequests()
	buckets := Aggregate(reqs, 4, time.Minute)

	// Five requests land in four distinct minutes.
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}

	// First two requests share minute zero.
	first := buckets[0]
	if first.InputTokens != 1500 || first.OutputTokens != 300 {
		t.Errorf("first bucket sums = %d/%d, want 1500/300", first.InputTokens, first.OutputTokens)
	}
	if first.RequestCount != 2 {
		t.Errorf("first bucket request count = %d, want 2", first.RequestCount)
	}
	wantDemand := 1500 + 300*4.0
	if first.WeightedDemand != wantDemand {
		t.Errorf("first bucket demand = %v, want %v", first.WeightedDemand, wantDemand)
	}
}

func TestAggregate_SortedAscending(t *testing.T) {
	reqs := testRequests()
	// Shuffle: feed in reverse order.
	reversed := make([]model.Request, 0, len(reqs))
	for i := len(reqs) - 1; i >= 0; i-- {
		reversed = append(reversed, reqs[i])
	}

	buckets := Aggregate(reversed, 4, time.Minute)
	for i := 1; i < len(buckets); i++ {
		if !buckets[i-1].Start.Before(buckets[i].Start) {
			t.Fatalf("buckets not sorted at index %d", i)
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	buckets := Aggregate(nil, 4, time.Minute)
	if len(buckets) != 0 {
		t.Errorf("expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestAggregate_SingleRequest(t *testing.T) {
	reqs := []model.Request{{
		Timestamp:    time.Date(2025, 8, 18, 9, 30, 45, 0, time.UTC),
		InputTokens:  42,
		OutputTokens: 7,
	}}

	buckets := Aggregate(reqs, 2, time.Minute)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	want := time.Date(2025, 8, 18, 9, 30, 0, 0, time.UTC)
	if !buckets[0].Start.Equal(want) {
		t.Errorf("bucket start = %v, want %v", buckets[0].Start, want)
	}
}

func TestAggregate_PerBucketWeightingEqualsPerRequest(t *testing.T) {
	// Weighting is linear: summing weighted per-request demand must equal
	// weighting the bucket sums.
	reqs := testRequests()
	const weight = 3.7

	buckets := Aggregate(reqs, weight, time.Minute)

	perRequest := make(map[time.Time]float64)
	for _, r := range reqs {
		perRequest[r.Timestamp.Truncate(time.Minute)] += r.WeightedDemand(weight)
	}

	for _, b := range buckets {
		want := perRequest[b.Start]
		if math.Abs(b.WeightedDemand-want) > 1e-9 {
			t.Errorf("bucket %v demand %v != per-request sum %v", b.Start, b.WeightedDemand, want)
		}
	}
}

func TestAggregate_CustomBucketWidth(t *testing.T) {
	reqs := testRequests()

	buckets := Aggregate(reqs, 4, 5*time.Minute)
	// Minutes 0, 1, 3 collapse into one 5-minute bucket; hour-48 stays alone.
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets at 5m width, got %d", len(buckets))
	}
	if buckets[0].RequestCount != 4 {
		t.Errorf("expected 4 requests in first 5m bucket, got %d", buckets[0].RequestCount)
	}
}

func TestAggregate_ZeroWidthFallsBackToMinute(t *testing.T) {
	reqs := testRequests()
	got := Aggregate(reqs, 4, 0)
	want := Aggregate(reqs, 4, time.Minute)
	if len(got) != len(want) {
		t.Errorf("zero width should default to one minute: %d vs %d buckets", len(got), len(want))
	}
}
