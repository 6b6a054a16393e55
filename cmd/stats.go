package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/guimove/ptufit/internal/orchestrator"
	"github.com/guimove/ptufit/internal/simulation"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show traffic statistics for a usage dataset",
	Long: `Prints the dataset overview (totals, span, peak and average TPM) and a
per-date traffic breakdown without running any cost simulation.`,
	RunE: runStats,
}

func init() {
	f := statsCmd.Flags()
	f.String("input", "", "path to usage CSV or JSON snapshot (required)")

	_ = statsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	inputPath, _ := cmd.Flags().GetString("input")
	source, closeSource, err := newSource(inputPath)
	if err != nil {
		return err
	}
	defer closeSource()

	orch := orchestrator.New(source, cfg)
	run, err := orch.Prepare(ctx)
	if err != nil {
		return err
	}
	stats := run.Stats

	fmt.Printf("\nDataset Overview: %s\n", run.Dataset.Name)
	fmt.Printf("  Requests:        %d\n", stats.Requests)
	fmt.Printf("  Span:            %s to %s (%.1f days)\n",
		stats.SpanStart.Format("2006-01-02 15:04"), stats.SpanEnd.Format("2006-01-02 15:04"), stats.SpanDays)
	fmt.Printf("  Input tokens:    %d\n", stats.TotalInput)
	fmt.Printf("  Output tokens:   %d\n", stats.TotalOutput)
	fmt.Printf("  Peak TPM:        %.0f\n", stats.PeakTPM)
	fmt.Printf("  Average TPM:     %.0f (over %d active minutes)\n", stats.AvgTPM, stats.ActiveMinutes)
	fmt.Printf("  Peak demand:     %.0f weighted tokens/min (output weight %.2f)\n\n",
		stats.PeakDemand, run.OutputWeight)

	perDate := simulation.StatsPerDate(run.Dataset.Requests)
	if len(perDate) == 0 {
		return nil
	}

	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Date", "Requests", "Input", "Output", "Peak TPM"})
	for _, d := range perDate {
		table.Append([]string{
			d.Date,
			fmt.Sprintf("%d", d.Requests),
			fmt.Sprintf("%d", d.InputTokens),
			fmt.Sprintf("%d", d.OutputTokens),
			fmt.Sprintf("%.0f", d.PeakTPM),
		})
	}
	table.Render()
	fmt.Fprint(os.Stdout, buf.String())
	fmt.Println()

	return nil
}
