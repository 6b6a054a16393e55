// Package orchestrator coordinates the end-to-end analysis pipeline:
// ingest -> aggregate -> sweep -> rank -> report inputs.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/guimove/ptufit/internal/config"
	"github.com/guimove/ptufit/internal/ingest"
	"github.com/guimove/ptufit/internal/model"
	"github.com/guimove/ptufit/internal/pricing"
	"github.com/guimove/ptufit/internal/simulation"
)

// Orchestrator coordinates the end-to-end sweep pipeline.
type Orchestrator struct {
	Source ingest.Source
	Config config.Config
	Writer io.Writer
}

// New creates an orchestrator with the given dependencies.
func New(source ingest.Source, cfg config.Config) *Orchestrator {
	return &Orchestrator{
		Source: source,
		Config: cfg,
		Writer: os.Stdout,
	}
}

// RunContext is everything a single run derives once and shares across all
// candidate evaluations: the dataset, its buckets, resolved pricing, and the
// shared cost model. Deriving it once keeps every candidate on the same
// annualization basis and output weight.
type RunContext struct {
	Dataset      *model.Dataset
	Buckets      []model.MinuteBucket
	ModelPricing model.ModelPricing
	Scheme       model.PricingScheme
	OutputWeight float64
	CapacityTPM  float64
	Costs        *simulation.CostModel
	Stats        simulation.DatasetStats
}

// Prepare loads the dataset and derives the shared run context.
// All configuration errors surface here, before any simulation executes.
func (o *Orchestrator) Prepare(ctx context.Context) (*RunContext, error) {
	cfg := o.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mp, err := resolveModelPricing(cfg.Model)
	if err != nil {
		return nil, err
	}
	scheme, err := resolveScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	outputWeight, err := mp.OutputWeight()
	if err != nil {
		return nil, err
	}

	capacityTPM := cfg.Capacity.TPMPerUnit
	if capacityTPM == 0 {
		capacityTPM = pricing.DefaultCapacityTPM(mp.Model)
	}

	fmt.Fprintf(o.Writer, "Loading usage data from %s source...\n", o.Source.SourceType())
	ds, err := o.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading usage data: %w", err)
	}
	if len(ds.Requests) == 0 {
		return nil, &model.DataError{Reason: "dataset contains no requests"}
	}

	buckets := simulation.Aggregate(ds.Requests, outputWeight, cfg.Simulation.Bucket)
	stats := simulation.ComputeStats(ds, buckets)

	fmt.Fprintf(o.Writer, "Loaded %d requests across %d active %v buckets (%.1f days)\n",
		stats.Requests, stats.ActiveMinutes, cfg.Simulation.Bucket, stats.SpanDays)

	totalIn, totalOut := ds.Totals()
	costs, err := simulation.NewCostModel(scheme, mp, ds.Duration(), totalIn, totalOut)
	if err != nil {
		return nil, err
	}

	return &RunContext{
		Dataset:      ds,
		Buckets:      buckets,
		ModelPricing: mp,
		Scheme:       scheme,
		OutputWeight: outputWeight,
		CapacityTPM:  capacityTPM,
		Costs:        costs,
		Stats:        stats,
	}, nil
}

// Analyze runs the full pipeline and returns the sweep outcome plus report
// metadata.
func (o *Orchestrator) Analyze(ctx context.Context) (model.SweepOutcome, model.SweepMeta, error) {
	cfg := o.Config

	run, err := o.Prepare(ctx)
	if err != nil {
		return model.SweepOutcome{}, model.SweepMeta{}, err
	}

	candidates, err := simulation.GenerateCandidates(
		cfg.Sweep.MinUnits, cfg.Sweep.MaxUnits, cfg.Sweep.Step,
		run.CapacityTPM, run.Scheme,
	)
	if err != nil {
		return model.SweepOutcome{}, model.SweepMeta{}, err
	}

	strategy, err := simulation.StrategyByName(cfg.Sweep.Strategy)
	if err != nil {
		return model.SweepOutcome{}, model.SweepMeta{}, err
	}

	engine := simulation.NewEngine(strategy)
	engine.KeepMinuteDetail = cfg.Simulation.KeepMinutes
	if cfg.Simulation.Parallelism > 0 {
		engine.Parallelism = cfg.Simulation.Parallelism
	}

	fmt.Fprintf(o.Writer, "Evaluating %d capacity candidates (%s scheme, %g TPM/unit)...\n",
		len(candidates), run.Scheme.Name, run.CapacityTPM)

	outcome, err := engine.RunSweep(ctx, run.Buckets, candidates, run.Costs)
	if err != nil {
		return model.SweepOutcome{}, model.SweepMeta{}, fmt.Errorf("running sweep: %w", err)
	}

	return outcome, o.meta(run), nil
}

// SimulateOne evaluates a single unit count with per-bucket detail retained.
func (o *Orchestrator) SimulateOne(ctx context.Context, units int) (model.Evaluation, model.SweepMeta, error) {
	if units <= 0 {
		return model.Evaluation{}, model.SweepMeta{}, &model.ConfigError{
			Field:  "units",
			Reason: fmt.Sprintf("must be positive, got %d", units),
		}
	}

	run, err := o.Prepare(ctx)
	if err != nil {
		return model.Evaluation{}, model.SweepMeta{}, err
	}

	cand := model.CapacityCandidate{
		Units:           units,
		CapacityPerUnit: run.CapacityTPM,
		Scheme:          run.Scheme,
	}
	sim, err := simulation.Simulate(run.Buckets, cand.Capacity(), true)
	if err != nil {
		return model.Evaluation{}, model.SweepMeta{}, err
	}

	return model.Evaluation{
		Candidate:  cand,
		Simulation: sim,
		Cost:       run.Costs.Price(cand, sim),
	}, o.meta(run), nil
}

func (o *Orchestrator) meta(run *RunContext) model.SweepMeta {
	return model.SweepMeta{
		DatasetName:     run.Dataset.Name,
		Model:           run.ModelPricing.Model,
		SchemeName:      run.Scheme.Name,
		OutputWeight:    run.OutputWeight,
		CapacityPerUnit: run.CapacityTPM,
		BucketWidth:     o.Config.Simulation.Bucket,
		SpanStart:       run.Stats.SpanStart,
		SpanEnd:         run.Stats.SpanEnd,
		TotalRequests:   run.Stats.Requests,
		TotalInput:      run.Stats.TotalInput,
		TotalOutput:     run.Stats.TotalOutput,
		PeakTPM:         run.Stats.PeakTPM,
	}
}

// resolveModelPricing applies config overrides on top of the built-in table.
// A model absent from the table is usable if both prices are overridden.
func resolveModelPricing(mc config.ModelConfig) (model.ModelPricing, error) {
	mp, err := pricing.Model(mc.Name)
	if err != nil {
		if mc.InputPricePer1K <= 0 {
			return model.ModelPricing{}, err
		}
		mp = model.ModelPricing{Model: mc.Name}
	}
	if mc.InputPricePer1K > 0 {
		mp.InputPricePer1K = mc.InputPricePer1K
	}
	if mc.OutputPricePer1K > 0 {
		mp.OutputPricePer1K = mc.OutputPricePer1K
	}
	if err := mp.Validate(); err != nil {
		return model.ModelPricing{}, err
	}
	return mp, nil
}

// resolveScheme applies the discount and optional unit-cost override.
func resolveScheme(sc config.SchemeConfig) (model.PricingScheme, error) {
	scheme, err := pricing.Scheme(model.SchemeName(sc.Name), sc.DiscountPct)
	if err != nil {
		return model.PricingScheme{}, err
	}
	if sc.UnitCost > 0 {
		scheme.UnitCost = sc.UnitCost
	}
	if err := scheme.Validate(); err != nil {
		return model.PricingScheme{}, err
	}
	return scheme, nil
}
