package simulation

import (
	"fmt"

	"github.com/guimove/ptufit/internal/model"
)

// Strategy selects the optimal candidate from a scored sweep. The selection
// rule is a business heuristic, not a mathematical optimum, so alternative
// objectives plug in behind this interface.
type Strategy interface {
	// Name identifies the strategy in config and reports.
	Name() string

	// Select returns the index of the chosen evaluation, or -1 with
	// rangeExceeded set when no candidate meets the criterion. The zero-unit
	// PAYGO baseline is never selectable.
	Select(evals []model.Evaluation) (index int, rangeExceeded bool)
}

// StrategyByName resolves a configured strategy name.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", BreakEven{}.Name():
		return BreakEven{}, nil
	case MinTotalCost{}.Name():
		return MinTotalCost{}, nil
	default:
		return nil, &model.ConfigError{
			Field:  "strategy",
			Reason: fmt.Sprintf("unknown optimization strategy %q", name),
		}
	}
}

// BreakEven is the traffic-optimization rule: among candidates that cost at
// least as much as pure PAYGO (cost_diff >= 0, i.e. they carry spare or
// break-even capacity rather than being chronically overloaded), pick the one
// closest to break-even from above. Ties go to the fewest provisioned units.
// When every candidate is cheaper than PAYGO, even the largest swept capacity
// is saturated and the sweep range must be widened; that is reported as
// range-exceeded, never as an arbitrary pick.
type BreakEven struct{}

func (BreakEven) Name() string { return "break-even" }

func (BreakEven) Select(evals []model.Evaluation) (int, bool) {
	best := -1
	for i, ev := range evals {
		if ev.Candidate.Units <= 0 {
			continue
		}
		if ev.Cost.CostDiff < 0 {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := evals[best]
		if ev.Cost.CostDiff < b.Cost.CostDiff ||
			(ev.Cost.CostDiff == b.Cost.CostDiff && ev.Candidate.Units < b.Candidate.Units) {
			best = i
		}
	}
	if best == -1 {
		return -1, true
	}
	return best, false
}

// MinTotalCost picks the candidate with the lowest absolute annual cost,
// ignoring the break-even heuristic. Ties go to the fewest units.
type MinTotalCost struct{}

func (MinTotalCost) Name() string { return "min-total-cost" }

func (MinTotalCost) Select(evals []model.Evaluation) (int, bool) {
	best := -1
	for i, ev := range evals {
		if ev.Candidate.Units <= 0 {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := evals[best]
		if ev.Cost.TotalCost < b.Cost.TotalCost ||
			(ev.Cost.TotalCost == b.Cost.TotalCost && ev.Candidate.Units < b.Candidate.Units) {
			best = i
		}
	}
	if best == -1 {
		return -1, true
	}
	return best, false
}
