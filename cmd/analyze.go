package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guimove/ptufit/internal/ingest"
	"github.com/guimove/ptufit/internal/orchestrator"
	"github.com/guimove/ptufit/internal/report"
	"github.com/guimove/ptufit/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Sweep PTU capacity candidates and recommend a configuration",
	Long: `Loads a usage CSV (or JSON snapshot), simulates every candidate PTU
count in the configured sweep range, and ranks the annualized blended cost
of each against the pure pay-as-you-go baseline.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("input", "", "path to usage CSV or JSON snapshot (required)")
	f.Int("min-units", 0, "lowest PTU count to sweep")
	f.Int("max-units", 0, "highest PTU count to sweep")
	f.Int("step", 0, "sweep step in units")
	f.String("strategy", "", "selection strategy: break-even or min-total-cost")
	f.String("output", "", "output format: table, json, markdown, csv")
	f.String("export", "", "also write the full result table as CSV to this path")

	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if n, _ := cmd.Flags().GetInt("min-units"); cmd.Flags().Changed("min-units") {
		cfg.Sweep.MinUnits = n
	}
	if n, _ := cmd.Flags().GetInt("max-units"); cmd.Flags().Changed("max-units") {
		cfg.Sweep.MaxUnits = n
	}
	if n, _ := cmd.Flags().GetInt("step"); cmd.Flags().Changed("step") {
		cfg.Sweep.Step = n
	}
	if s, _ := cmd.Flags().GetString("strategy"); cmd.Flags().Changed("strategy") {
		cfg.Sweep.Strategy = s
	}
	if f, _ := cmd.Flags().GetString("output"); cmd.Flags().Changed("output") {
		cfg.Output.Format = f
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("input")
	source, closeSource, err := newSource(inputPath)
	if err != nil {
		return err
	}
	defer closeSource()

	orch := orchestrator.New(source, cfg)
	if cfg.Output.Format != "table" {
		// Keep machine-readable formats free of progress lines.
		orch.Writer = os.Stderr
	}

	outcome, meta, err := orch.Analyze(ctx)
	if err != nil {
		return err
	}

	reporter := report.NewReporter(cfg.Output.Format, os.Stdout)
	if err := reporter.Report(ctx, outcome, meta); err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := report.NewReporter("csv", f).Report(ctx, outcome, meta); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported results to %s\n", exportPath)
	}

	return nil
}

// newSource builds the dataset source for a path: JSON snapshots load
// directly, CSVs go through the parser, optionally behind the SQLite cache.
func newSource(path string) (ingest.Source, func(), error) {
	noop := func() {}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ingest.NewSnapshotSource(path), noop, nil
	}

	if !cfg.Cache.Enabled {
		return ingest.NewCSVSource(path), noop, nil
	}

	cache, err := store.Open(cfg.Cache.Path)
	if err != nil {
		// A broken cache never blocks an analysis run.
		fmt.Fprintf(os.Stderr, "Warning: dataset cache unavailable: %v\n", err)
		return ingest.NewCSVSource(path), noop, nil
	}
	return ingest.NewCachedCSVSource(path, cache), func() { _ = cache.Close() }, nil
}
