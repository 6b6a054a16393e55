package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/guimove/ptufit/internal/orchestrator"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a single PTU count with per-minute detail",
	Long: `Runs the capacity simulation for one fixed PTU count and prints the
allocation in detail, including the utilization distribution across minute
buckets. Useful for inspecting a candidate the sweep recommended.`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.String("input", "", "path to usage CSV or JSON snapshot (required)")
	f.Int("units", 0, "PTU count to simulate (required)")
	f.Bool("json", false, "emit the full evaluation as JSON")

	_ = simulateCmd.MarkFlagRequired("input")
	_ = simulateCmd.MarkFlagRequired("units")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	inputPath, _ := cmd.Flags().GetString("input")
	units, _ := cmd.Flags().GetInt("units")
	asJSON, _ := cmd.Flags().GetBool("json")

	source, closeSource, err := newSource(inputPath)
	if err != nil {
		return err
	}
	defer closeSource()

	orch := orchestrator.New(source, cfg)
	if asJSON {
		orch.Writer = os.Stderr
	}

	eval, meta, err := orch.SimulateOne(ctx, units)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Meta       interface{} `json:"meta"`
			Evaluation interface{} `json:"evaluation"`
		}{meta, eval})
	}

	sim := eval.Simulation
	fmt.Printf("\nSimulation: %d units x %g TPM = %g weighted TPM (%s)\n",
		eval.Candidate.Units, eval.Candidate.CapacityPerUnit, eval.Candidate.Capacity(), meta.SchemeName)
	fmt.Printf("  PTU tokens:     %.0f input / %.0f output (%.1f%% of traffic)\n",
		sim.TotalPTUInputTokens, sim.TotalPTUOutputTokens, sim.PTUSharePct())
	fmt.Printf("  PAYGO tokens:   %.0f input / %.0f output\n",
		sim.TotalPAYGOInputTokens, sim.TotalPAYGOOutputTokens)
	fmt.Printf("  Mean util:      %.1f%%\n", sim.MeanUtilizationPct)

	if len(sim.MinuteUtilizations) > 0 {
		p50, p95, max := utilizationPercentiles(sim.MinuteUtilizations)
		over := 0
		for _, u := range sim.MinuteUtilizations {
			if u >= 100 {
				over++
			}
		}
		fmt.Printf("  Util p50/p95:   %.1f%% / %.1f%% (max %.1f%%)\n", p50, p95, max)
		fmt.Printf("  Saturated mins: %d of %d\n", over, len(sim.MinuteUtilizations))
	}

	fmt.Printf("  PTU cost:       $%.2f/mo\n", eval.Cost.PTUCost/12)
	fmt.Printf("  PAYGO cost:     $%.2f/mo\n", eval.Cost.PAYGOCost/12)
	fmt.Printf("  Total:          $%.2f/mo (pure PAYGO $%.2f/mo, diff %+.2f)\n",
		eval.Cost.TotalCost/12, eval.Cost.PurePAYGOCost/12, eval.Cost.CostDiff/12)
	fmt.Printf("\n")

	return nil
}

// utilizationPercentiles returns p50, p95, and max of per-bucket utilization.
func utilizationPercentiles(utils []float64) (p50, p95, max float64) {
	sorted := make([]float64, len(utils))
	copy(sorted, utils)
	sort.Float64s(sorted)

	idx := func(p float64) float64 {
		i := int(p * float64(len(sorted)-1))
		return sorted[i]
	}
	return idx(0.50), idx(0.95), sorted[len(sorted)-1]
}
