package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/guimove/ptufit/internal/model"
)

// Engine runs capacity simulations across a sweep of candidates.
type Engine struct {
	Strategy    Strategy
	Parallelism int

	// KeepMinuteDetail retains per-bucket utilization in every result.
	// Off by default: a long dataset swept across many candidates would
	// otherwise hold one float per minute per candidate.
	KeepMinuteDetail bool
}

// NewEngine creates an engine with the given selection strategy.
func NewEngine(strategy Strategy) *Engine {
	return &Engine{
		Strategy:    strategy,
		Parallelism: runtime.NumCPU(),
	}
}

// GenerateCandidates builds the sweep: one candidate per unit count from
// minUnits to maxUnits at the given step, preceded by the zero-unit pure
// PAYGO baseline every candidate is compared against.
func GenerateCandidates(minUnits, maxUnits, step int, capacityPerUnit float64, scheme model.PricingScheme) ([]model.CapacityCandidate, error) {
	if capacityPerUnit <= 0 {
		return nil, &model.ConfigError{
			Field:  "capacity_per_unit",
			Reason: fmt.Sprintf("must be positive, got %v", capacityPerUnit),
		}
	}
	if minUnits < 0 || maxUnits < minUnits {
		return nil, &model.ConfigError{
			Field:  "sweep",
			Reason: fmt.Sprintf("invalid unit range [%d, %d]", minUnits, maxUnits),
		}
	}
	if step <= 0 {
		return nil, &model.ConfigError{
			Field:  "sweep.step",
			Reason: fmt.Sprintf("must be positive, got %d", step),
		}
	}

	candidates := []model.CapacityCandidate{
		{Units: 0, CapacityPerUnit: capacityPerUnit, Scheme: scheme},
	}
	for units := minUnits; units <= maxUnits; units += step {
		if units == 0 {
			continue
		}
		candidates = append(candidates, model.CapacityCandidate{
			Units:           units,
			CapacityPerUnit: capacityPerUnit,
			Scheme:          scheme,
		})
	}
	return candidates, nil
}

// RunSweep simulates and prices every candidate, then applies the selection
// strategy. Candidate evaluations are independent and run on a worker pool;
// each worker reads the shared bucket slice without mutating it.
func (e *Engine) RunSweep(
	ctx context.Context,
	buckets []model.MinuteBucket,
	candidates []model.CapacityCandidate,
	costs *CostModel,
) (model.SweepOutcome, error) {
	if len(buckets) == 0 {
		return model.SweepOutcome{}, &model.DataError{Reason: "no buckets to simulate"}
	}
	if len(candidates) == 0 {
		return model.SweepOutcome{}, &model.ConfigError{Field: "sweep", Reason: "no candidates to evaluate"}
	}

	parallelism := e.Parallelism
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	evals := make([]model.Evaluation, len(candidates))
	errs := make([]error, len(candidates))

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		go func(idx int, c model.CapacityCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				errs[idx] = ctx.Err()
				return
			}
			evals[idx], errs[idx] = e.evaluate(buckets, c, costs)
		}(i, cand)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			if ctx.Err() != nil {
				return model.SweepOutcome{}, ctx.Err()
			}
			return model.SweepOutcome{}, fmt.Errorf("evaluating candidates: %w", err)
		}
	}

	selected, exceeded := e.Strategy.Select(evals)
	return model.SweepOutcome{
		Evaluations:   evals,
		SelectedIndex: selected,
		RangeExceeded: exceeded,
		Strategy:      e.Strategy.Name(),
	}, nil
}

// evaluate scores a single candidate.
func (e *Engine) evaluate(buckets []model.MinuteBucket, cand model.CapacityCandidate, costs *CostModel) (model.Evaluation, error) {
	var sim model.SimulationResult
	var err error

	if cand.Units == 0 {
		sim = paygoOnly(buckets, e.KeepMinuteDetail)
	} else {
		sim, err = Simulate(buckets, cand.Capacity(), e.KeepMinuteDetail)
		if err != nil {
			return model.Evaluation{}, fmt.Errorf("candidate with %d units: %w", cand.Units, err)
		}
	}

	return model.Evaluation{
		Candidate:  cand,
		Simulation: sim,
		Cost:       costs.Price(cand, sim),
	}, nil
}
