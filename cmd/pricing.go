package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/ptufit/internal/pricing"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "List built-in pricing schemes and model prices",
	RunE:  runPricing,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
}

func runPricing(cmd *cobra.Command, args []string) error {
	fmt.Printf("\nProvisioned pricing schemes (per unit):\n")
	fmt.Printf("%-22s %12s %8s %14s\n", "Scheme", "Unit cost", "Period", "Monthly equiv")
	for _, s := range pricing.Schemes() {
		annual, err := s.AnnualUnitCost()
		if err != nil {
			return err
		}
		fmt.Printf("%-22s %11.2f$ %8s %13.2f$\n", s.Name, s.UnitCost, s.BillingPeriod, annual/12)
	}

	fmt.Printf("\nModel PAYGO prices (per 1k tokens):\n")
	fmt.Printf("%-14s %10s %10s %8s %14s\n", "Model", "Input", "Output", "Weight", "Unit capacity")
	for _, m := range pricing.Models() {
		weight, err := m.OutputWeight()
		if err != nil {
			return err
		}
		fmt.Printf("%-14s %9.4f$ %9.4f$ %8.2f %10.0f TPM\n",
			m.Model, m.InputPricePer1K, m.OutputPricePer1K, weight, pricing.DefaultCapacityTPM(m.Model))
	}
	fmt.Println()

	return nil
}
