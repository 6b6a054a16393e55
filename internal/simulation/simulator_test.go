package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

func makeBucket(minuteOffset int, input, output int64, outputWeight float64) model.MinuteBucket {
	start := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC).Add(time.Duration(minuteOffset) * time.Minute)
	return model.MinuteBucket{
		Start:          start,
		InputTokens:    input,
		OutputTokens:   output,
		WeightedDemand: float64(input) + float64(output)*outputWeight,
		RequestCount:   1,
	}
}

func TestSimulate_OverCapacitySplitsProportionally(t *testing.T) {
	// input=1000, output=0, weight=4, C=500: demand 1000, half spills.
	buckets := []model.MinuteBucket{makeBucket(0, 1000, 0, 4)}

	res, err := Simulate(buckets, 500, true)
	if err != nil {
		t.Fatal(err)
	}

	if res.MeanUtilizationPct != 100 {
		t.Errorf("expected 100%% utilization, got %v", res.MeanUtilizationPct)
	}
	if res.TotalPTUInputTokens != 500 {
		t.Errorf("expected 500 PTU input tokens, got %v", res.TotalPTUInputTokens)
	}
	if res.TotalPAYGOInputTokens != 500 {
		t.Errorf("expected 500 PAYGO input tokens, got %v", res.TotalPAYGOInputTokens)
	}
	if res.TotalPTUOutputTokens != 0 || res.TotalPAYGOOutputTokens != 0 {
		t.Errorf("expected zero output tokens on both sides, got %v / %v",
			res.TotalPTUOutputTokens, res.TotalPAYGOOutputTokens)
	}
}

func TestSimulate_UnderCapacityAllPTU(t *testing.T) {
	// input=100, output=100, weight=4: demand 500 <= C=1000.
	buckets := []model.MinuteBucket{makeBucket(0, 100, 100, 4)}

	res, err := Simulate(buckets, 1000, true)
	if err != nil {
		t.Fatal(err)
	}

	if res.MeanUtilizationPct != 50 {
		t.Errorf("expected 50%% utilization, got %v", res.MeanUtilizationPct)
	}
	if res.TotalPTUInputTokens != 100 || res.TotalPTUOutputTokens != 100 {
		t.Errorf("expected all tokens on PTU, got %v / %v",
			res.TotalPTUInputTokens, res.TotalPTUOutputTokens)
	}
	if res.PAYGOTokens() != 0 {
		t.Errorf("expected zero PAYGO tokens, got %v", res.PAYGOTokens())
	}
}

func TestSimulate_MeanUtilizationIsArithmetic(t *testing.T) {
	// Demands 800 and 0 at C=1000: mean is (80+0)/2, not token-weighted 80.
	buckets := []model.MinuteBucket{
		makeBucket(0, 800, 0, 4),
		makeBucket(1, 0, 0, 4),
	}

	res, err := Simulate(buckets, 1000, false)
	if err != nil {
		t.Fatal(err)
	}

	if res.MeanUtilizationPct != 40 {
		t.Errorf("expected mean utilization 40, got %v", res.MeanUtilizationPct)
	}
}

func TestSimulate_BoundaryExactCapacityAllPTU(t *testing.T) {
	// demand == C must route 100% to PTU: the over-capacity branch is strict.
	buckets := []model.MinuteBucket{makeBucket(0, 200, 200, 4)} // demand 1000

	res, err := Simulate(buckets, 1000, false)
	if err != nil {
		t.Fatal(err)
	}

	if res.PAYGOTokens() != 0 {
		t.Errorf("demand == capacity should spill nothing, got %v PAYGO tokens", res.PAYGOTokens())
	}
	if res.MeanUtilizationPct != 100 {
		t.Errorf("expected 100%% utilization, got %v", res.MeanUtilizationPct)
	}
}

func TestSimulate_Conservation(t *testing.T) {
	buckets := []model.MinuteBucket{
		makeBucket(0, 1200, 300, 4),
		makeBucket(1, 50, 10, 4),
		makeBucket(2, 9000, 2500, 4),
		makeBucket(5, 0, 700, 4),
	}

	var wantInput, wantOutput float64
	for _, b := range buckets {
		wantInput += float64(b.InputTokens)
		wantOutput += float64(b.OutputTokens)
	}

	for _, capacity := range []float64{1, 500, 3000, 1e7} {
		res, err := Simulate(buckets, capacity, false)
		if err != nil {
			t.Fatal(err)
		}

		gotInput := res.TotalPTUInputTokens + res.TotalPAYGOInputTokens
		gotOutput := res.TotalPTUOutputTokens + res.TotalPAYGOOutputTokens
		if math.Abs(gotInput-wantInput) > 1e-9 {
			t.Errorf("C=%v: input not conserved: got %v, want %v", capacity, gotInput, wantInput)
		}
		if math.Abs(gotOutput-wantOutput) > 1e-9 {
			t.Errorf("C=%v: output not conserved: got %v, want %v", capacity, gotOutput, wantOutput)
		}
	}
}

func TestSimulate_SpilloverPreservesTokenRatio(t *testing.T) {
	buckets := []model.MinuteBucket{makeBucket(0, 3000, 1000, 4)} // demand 7000

	res, err := Simulate(buckets, 700, false)
	if err != nil {
		t.Fatal(err)
	}

	if res.TotalPAYGOOutputTokens == 0 {
		t.Fatal("expected spillover")
	}
	spillRatio := res.TotalPAYGOInputTokens / res.TotalPAYGOOutputTokens
	servedRatio := res.TotalPTUInputTokens / res.TotalPTUOutputTokens
	if math.Abs(spillRatio-3.0) > 1e-9 {
		t.Errorf("spilled input/output ratio = %v, want 3", spillRatio)
	}
	if math.Abs(servedRatio-3.0) > 1e-9 {
		t.Errorf("served input/output ratio = %v, want 3", servedRatio)
	}
}

func TestSimulate_PTUTokensMonotoneInCapacity(t *testing.T) {
	buckets := []model.MinuteBucket{
		makeBucket(0, 5000, 1000, 4),
		makeBucket(1, 100, 40, 4),
		makeBucket(3, 800, 800, 4),
	}

	prev := -1.0
	for capacity := 100.0; capacity <= 20000; capacity += 100 {
		res, err := Simulate(buckets, capacity, false)
		if err != nil {
			t.Fatal(err)
		}
		if res.PTUTokens() < prev {
			t.Fatalf("PTU tokens decreased at C=%v: %v < %v", capacity, res.PTUTokens(), prev)
		}
		prev = res.PTUTokens()
	}
}

func TestSimulate_Idempotent(t *testing.T) {
	buckets := []model.MinuteBucket{
		makeBucket(0, 123, 456, 4),
		makeBucket(2, 789, 12, 4),
	}

	first, err := Simulate(buckets, 900, true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Simulate(buckets, 900, true)
	if err != nil {
		t.Fatal(err)
	}

	if first.TotalPTUInputTokens != second.TotalPTUInputTokens ||
		first.TotalPTUOutputTokens != second.TotalPTUOutputTokens ||
		first.TotalPAYGOInputTokens != second.TotalPAYGOInputTokens ||
		first.TotalPAYGOOutputTokens != second.TotalPAYGOOutputTokens ||
		first.MeanUtilizationPct != second.MeanUtilizationPct {
		t.Error("repeated simulation did not produce identical results")
	}
	for i := range first.MinuteUtilizations {
		if first.MinuteUtilizations[i] != second.MinuteUtilizations[i] {
			t.Fatalf("minute %d utilization differs between runs", i)
		}
	}
}

func TestSimulate_NonPositiveCapacityRejected(t *testing.T) {
	buckets := []model.MinuteBucket{makeBucket(0, 100, 0, 4)}

	for _, capacity := range []float64{0, -5} {
		_, err := Simulate(buckets, capacity, false)
		if err == nil {
			t.Errorf("expected error for capacity %v", capacity)
			continue
		}
		var cfgErr *model.ConfigError
		if !asConfigError(err, &cfgErr) {
			t.Errorf("expected ConfigError for capacity %v, got %T", capacity, err)
		}
	}
}

func TestSimulate_EmptyBucketsYieldZeroResult(t *testing.T) {
	res, err := Simulate(nil, 1000, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.PTUTokens() != 0 || res.PAYGOTokens() != 0 || res.MeanUtilizationPct != 0 {
		t.Errorf("expected zero result for empty input, got %+v", res)
	}
}
