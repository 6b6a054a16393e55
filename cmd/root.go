package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guimove/ptufit/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ptufit",
	Short: "PTU vs PAYGO cost simulator for token usage data",
	Long: `ptufit replays a usage CSV export through a minute-bucketed capacity
simulation and compares provisioned-throughput (PTU) pricing against pure
pay-as-you-go (PAYGO) billing.

It sweeps candidate PTU counts, annualizes the blended cost of each, and
recommends the configuration closest to break-even with PAYGO.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ptufit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	// Global flags that map to config
	rootCmd.PersistentFlags().String("model", "", "model name for PAYGO pricing")
	rootCmd.PersistentFlags().String("scheme", "", "provisioned pricing scheme")
	rootCmd.PersistentFlags().Float64("discount", 0, "PTU discount percentage (0-100)")
	rootCmd.PersistentFlags().Float64("capacity-tpm", 0, "weighted tokens/minute per provisioned unit")
	rootCmd.PersistentFlags().Bool("cache", false, "cache parsed datasets in SQLite")

	_ = viper.BindPFlag("model.name", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("scheme.name", rootCmd.PersistentFlags().Lookup("scheme"))
	_ = viper.BindPFlag("scheme.discount_pct", rootCmd.PersistentFlags().Lookup("discount"))
	_ = viper.BindPFlag("capacity.tpm_per_unit", rootCmd.PersistentFlags().Lookup("capacity-tpm"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.PersistentFlags().Lookup("cache"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()
	setViperDefaults(cfg)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ptufit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.ptufit")
	}

	// Environment variable overrides: PTUFIT_SCHEME_DISCOUNT_PCT maps to
	// scheme.discount_pct, so nested keys need the dot-to-underscore replacer.
	viper.SetEnvPrefix("PTUFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}

// setViperDefaults registers every config key with viper. Unmarshal only
// consults the environment for keys it knows about, so without this only
// flag-bound keys would honor their PTUFIT_* variables.
func setViperDefaults(c config.Config) {
	viper.SetDefault("model.name", c.Model.Name)
	viper.SetDefault("model.input_price_per_1k", c.Model.InputPricePer1K)
	viper.SetDefault("model.output_price_per_1k", c.Model.OutputPricePer1K)
	viper.SetDefault("scheme.name", c.Scheme.Name)
	viper.SetDefault("scheme.discount_pct", c.Scheme.DiscountPct)
	viper.SetDefault("scheme.unit_cost", c.Scheme.UnitCost)
	viper.SetDefault("capacity.tpm_per_unit", c.Capacity.TPMPerUnit)
	viper.SetDefault("sweep.min_units", c.Sweep.MinUnits)
	viper.SetDefault("sweep.max_units", c.Sweep.MaxUnits)
	viper.SetDefault("sweep.step", c.Sweep.Step)
	viper.SetDefault("sweep.strategy", c.Sweep.Strategy)
	viper.SetDefault("simulation.bucket", c.Simulation.Bucket)
	viper.SetDefault("simulation.parallelism", c.Simulation.Parallelism)
	viper.SetDefault("simulation.keep_minutes", c.Simulation.KeepMinutes)
	viper.SetDefault("cache.enabled", c.Cache.Enabled)
	viper.SetDefault("cache.path", c.Cache.Path)
	viper.SetDefault("output.format", c.Output.Format)
}
