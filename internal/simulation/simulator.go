package simulation

import (
	"fmt"

	"github.com/guimove/ptufit/internal/model"
)

// Simulate allocates each bucket's traffic between provisioned capacity and
// PAYGO spillover for a fixed capacity of weighted tokens per bucket.
//
// Capacity resets every bucket: there is no carry-over of unused capacity and
// no borrowing from adjacent buckets. When a bucket exceeds capacity, the
// served fraction C/demand applies to input and output sums alike, so the
// input/output ratio of both the served and spilled portions matches the
// bucket's original ratio.
func Simulate(buckets []model.MinuteBucket, capacity float64, keepMinutes bool) (model.SimulationResult, error) {
	if capacity <= 0 {
		return model.SimulationResult{}, &model.ConfigError{
			Field:  "capacity",
			Reason: fmt.Sprintf("must be positive, got %v", capacity),
		}
	}

	var res model.SimulationResult
	if keepMinutes {
		res.MinuteUtilizations = make([]float64, 0, len(buckets))
	}

	var utilizationSum float64
	for _, b := range buckets {
		utilization := b.WeightedDemand / capacity * 100
		if utilization > 100 {
			utilization = 100
		}
		if utilization < 0 {
			utilization = 0
		}
		utilizationSum += utilization
		if keepMinutes {
			res.MinuteUtilizations = append(res.MinuteUtilizations, utilization)
		}

		if b.WeightedDemand <= capacity {
			res.TotalPTUInputTokens += float64(b.InputTokens)
			res.TotalPTUOutputTokens += float64(b.OutputTokens)
			continue
		}

		served := capacity / b.WeightedDemand
		ptuIn := served * float64(b.InputTokens)
		ptuOut := served * float64(b.OutputTokens)
		res.TotalPTUInputTokens += ptuIn
		res.TotalPTUOutputTokens += ptuOut
		res.TotalPAYGOInputTokens += float64(b.InputTokens) - ptuIn
		res.TotalPAYGOOutputTokens += float64(b.OutputTokens) - ptuOut
	}

	if len(buckets) > 0 {
		res.MeanUtilizationPct = utilizationSum / float64(len(buckets))
	}

	return res, nil
}

// paygoOnly builds the zero-capacity baseline result: every token billed at
// PAYGO rates, zero utilization for every bucket.
func paygoOnly(buckets []model.MinuteBucket, keepMinutes bool) model.SimulationResult {
	var res model.SimulationResult
	if keepMinutes {
		res.MinuteUtilizations = make([]float64, len(buckets))
	}
	for _, b := range buckets {
		res.TotalPAYGOInputTokens += float64(b.InputTokens)
		res.TotalPAYGOOutputTokens += float64(b.OutputTokens)
	}
	return res
}
