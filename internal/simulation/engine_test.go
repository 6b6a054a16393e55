package simulation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

func sweepFixture(t *testing.T) ([]model.MinuteBucket, *CostModel) {
	t.Helper()

	buckets := []model.MinuteBucket{
		makeBucket(0, 4000, 1000, 4),
		makeBucket(1, 120, 30, 4),
		makeBucket(2, 9500, 2000, 4),
		makeBucket(7, 600, 600, 4),
	}

	var totalIn, totalOut int64
	for _, b := range buckets {
		totalIn += b.InputTokens
		totalOut += b.OutputTokens
	}

	cm, err := NewCostModel(testScheme(), testPricing(), 8*time.Minute, totalIn, totalOut)
	if err != nil {
		t.Fatal(err)
	}
	return buckets, cm
}

func TestGenerateCandidates_BaselineFirst(t *testing.T) {
	cands, err := GenerateCandidates(15, 30, 5, 3000, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	wantUnits := []int{0, 15, 20, 25, 30}
	if len(cands) != len(wantUnits) {
		t.Fatalf("expected %d candidates, got %d", len(wantUnits), len(cands))
	}
	for i, want := range wantUnits {
		if cands[i].Units != want {
			t.Errorf("candidate %d: units = %d, want %d", i, cands[i].Units, want)
		}
	}
	if cands[1].Capacity() != 45000 {
		t.Errorf("capacity = %v, want 45000", cands[1].Capacity())
	}
}

func TestGenerateCandidates_ZeroMinDoesNotDuplicateBaseline(t *testing.T) {
	cands, err := GenerateCandidates(0, 10, 5, 1000, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	wantUnits := []int{0, 5, 10}
	if len(cands) != len(wantUnits) {
		t.Fatalf("expected %d candidates, got %d", len(wantUnits), len(cands))
	}
	for i, want := range wantUnits {
		if cands[i].Units != want {
			t.Errorf("candidate %d: units = %d, want %d", i, cands[i].Units, want)
		}
	}
}

func TestGenerateCandidates_Validation(t *testing.T) {
	cases := []struct {
		name            string
		min, max, step  int
		capacityPerUnit float64
	}{
		{"zero capacity", 15, 100, 5, 0},
		{"negative capacity", 15, 100, 5, -50},
		{"negative min", -1, 100, 5, 3000},
		{"max below min", 100, 15, 5, 3000},
		{"zero step", 15, 100, 0, 3000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateCandidates(tc.min, tc.max, tc.step, tc.capacityPerUnit, testScheme())
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *model.ConfigError
			if !asConfigError(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %T", err)
			}
		})
	}
}

func TestRunSweep_EvaluatesAllCandidates(t *testing.T) {
	buckets, cm := sweepFixture(t)
	cands, err := GenerateCandidates(1, 10, 1, 1000, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(BreakEven{})
	outcome, err := engine.RunSweep(context.Background(), buckets, cands, cm)
	if err != nil {
		t.Fatal(err)
	}

	if len(outcome.Evaluations) != len(cands) {
		t.Fatalf("expected %d evaluations, got %d", len(cands), len(outcome.Evaluations))
	}
	if outcome.Strategy != "break-even" {
		t.Errorf("strategy = %q, want break-even", outcome.Strategy)
	}

	// Evaluations stay in candidate order regardless of worker scheduling.
	for i, ev := range outcome.Evaluations {
		if ev.Candidate.Units != cands[i].Units {
			t.Errorf("evaluation %d: units = %d, want %d", i, ev.Candidate.Units, cands[i].Units)
		}
	}

	// Token conservation holds for every candidate.
	var totalIn, totalOut int64
	for _, b := range buckets {
		totalIn += b.InputTokens
		totalOut += b.OutputTokens
	}
	for _, ev := range outcome.Evaluations {
		sim := ev.Simulation
		gotIn := sim.TotalPTUInputTokens + sim.TotalPAYGOInputTokens
		gotOut := sim.TotalPTUOutputTokens + sim.TotalPAYGOOutputTokens
		if math.Abs(gotIn-float64(totalIn)) > 1e-6 || math.Abs(gotOut-float64(totalOut)) > 1e-6 {
			t.Errorf("units %d: tokens not conserved: %v/%v vs %v/%v",
				ev.Candidate.Units, gotIn, gotOut, totalIn, totalOut)
		}
	}
}

func TestRunSweep_ZeroUnitBaselineIsPurePAYGO(t *testing.T) {
	buckets, cm := sweepFixture(t)
	cands, err := GenerateCandidates(5, 10, 5, 1000, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(BreakEven{})
	outcome, err := engine.RunSweep(context.Background(), buckets, cands, cm)
	if err != nil {
		t.Fatal(err)
	}

	base := outcome.Evaluations[0]
	if base.Candidate.Units != 0 {
		t.Fatalf("first evaluation has %d units, want 0", base.Candidate.Units)
	}
	if base.Simulation.PTUTokens() != 0 {
		t.Errorf("baseline served %v PTU tokens, want 0", base.Simulation.PTUTokens())
	}
	if base.Simulation.MeanUtilizationPct != 0 {
		t.Errorf("baseline utilization = %v, want 0", base.Simulation.MeanUtilizationPct)
	}
	if math.Abs(base.Cost.CostDiff) > 1e-9 {
		t.Errorf("baseline cost diff = %v, want 0", base.Cost.CostDiff)
	}
}

func TestRunSweep_Deterministic(t *testing.T) {
	buckets, cm := sweepFixture(t)
	cands, err := GenerateCandidates(1, 20, 1, 750, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(BreakEven{})
	engine.Parallelism = 8

	first, err := engine.RunSweep(context.Background(), buckets, cands, cm)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.RunSweep(context.Background(), buckets, cands, cm)
	if err != nil {
		t.Fatal(err)
	}

	if first.SelectedIndex != second.SelectedIndex || first.RangeExceeded != second.RangeExceeded {
		t.Fatal("repeated sweeps selected different candidates")
	}
	for i := range first.Evaluations {
		if first.Evaluations[i].Cost != second.Evaluations[i].Cost {
			t.Fatalf("evaluation %d cost differs between runs", i)
		}
	}
}

func TestRunSweep_EmptyInputs(t *testing.T) {
	buckets, cm := sweepFixture(t)
	cands, err := GenerateCandidates(5, 10, 5, 1000, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(BreakEven{})

	_, err = engine.RunSweep(context.Background(), nil, cands, cm)
	var dataErr *model.DataError
	if !asDataError(err, &dataErr) {
		t.Errorf("empty buckets: expected DataError, got %T", err)
	}

	_, err = engine.RunSweep(context.Background(), buckets, nil, cm)
	var cfgErr *model.ConfigError
	if !asConfigError(err, &cfgErr) {
		t.Errorf("empty candidates: expected ConfigError, got %T", err)
	}
}

func TestRunSweep_CanceledContext(t *testing.T) {
	buckets, cm := sweepFixture(t)
	cands, err := GenerateCandidates(1, 50, 1, 1000, testScheme())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(BreakEven{})
	engine.Parallelism = 1

	_, err = engine.RunSweep(ctx, buckets, cands, cm)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if ctx.Err() == nil {
		t.Fatal("context should be canceled")
	}
}
