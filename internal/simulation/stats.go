package simulation

import (
	"sort"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

// DatasetStats is the traffic overview computed before a sweep.
type DatasetStats struct {
	Requests      int       `json:"requests"`
	TotalInput    int64     `json:"total_input_tokens"`
	TotalOutput   int64     `json:"total_output_tokens"`
	SpanStart     time.Time `json:"span_start"`
	SpanEnd       time.Time `json:"span_end"`
	SpanDays      float64   `json:"span_days"`
	PeakTPM       float64   `json:"peak_tpm"`
	AvgTPM        float64   `json:"avg_tpm"`
	PeakDemand    float64   `json:"peak_weighted_demand"`
	ActiveMinutes int       `json:"active_minutes"`
}

// ComputeStats summarizes a dataset and its bucket sequence. Peak and
// average TPM are unweighted token rates over the minutes that carried
// traffic.
func ComputeStats(ds *model.Dataset, buckets []model.MinuteBucket) DatasetStats {
	stats := DatasetStats{Requests: len(ds.Requests)}
	stats.TotalInput, stats.TotalOutput = ds.Totals()
	stats.SpanStart, stats.SpanEnd = ds.Span()
	if !stats.SpanStart.IsZero() {
		stats.SpanDays = stats.SpanEnd.Sub(stats.SpanStart).Hours() / 24
	}

	var tokenSum float64
	for _, b := range buckets {
		tpm := float64(b.TotalTokens())
		tokenSum += tpm
		if tpm > stats.PeakTPM {
			stats.PeakTPM = tpm
		}
		if b.WeightedDemand > stats.PeakDemand {
			stats.PeakDemand = b.WeightedDemand
		}
	}
	stats.ActiveMinutes = len(buckets)
	if len(buckets) > 0 {
		stats.AvgTPM = tokenSum / float64(len(buckets))
	}

	return stats
}

// DateStats aggregates traffic for one calendar date (UTC).
type DateStats struct {
	Date         string  `json:"date"`
	Requests     int     `json:"requests"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	PeakTPM      float64 `json:"peak_tpm"`
}

// StatsPerDate groups requests by UTC calendar date, computing per-date
// totals and the peak minute token rate within each date.
func StatsPerDate(requests []model.Request) []DateStats {
	type dayAgg struct {
		stats   DateStats
		minutes map[time.Time]int64
	}

	days := make(map[string]*dayAgg)
	for _, r := range requests {
		key := r.Timestamp.UTC().Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &dayAgg{stats: DateStats{Date: key}, minutes: make(map[time.Time]int64)}
			days[key] = d
		}
		d.stats.Requests++
		d.stats.InputTokens += r.InputTokens
		d.stats.OutputTokens += r.OutputTokens
		d.minutes[r.Timestamp.UTC().Truncate(time.Minute)] += r.TotalTokens()
	}

	out := make([]DateStats, 0, len(days))
	for _, d := range days {
		for _, tokens := range d.minutes {
			if float64(tokens) > d.stats.PeakTPM {
				d.stats.PeakTPM = float64(tokens)
			}
		}
		out = append(out, d.stats)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
