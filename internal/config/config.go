package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

// Config is the top-level configuration for ptufit. Fields carry both yaml
// tags (config file) and mapstructure tags (viper decoding): viper matches on
// mapstructure only, and without the explicit tag every underscore-named key
// would be dropped on Unmarshal.
type Config struct {
	Model      ModelConfig      `yaml:"model" mapstructure:"model"`
	Scheme     SchemeConfig     `yaml:"scheme" mapstructure:"scheme"`
	Capacity   CapacityConfig   `yaml:"capacity" mapstructure:"capacity"`
	Sweep      SweepConfig      `yaml:"sweep" mapstructure:"sweep"`
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

type ModelConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	// Optional overrides for the built-in PAYGO price table, per 1k tokens.
	// Zero means "use the built-in price".
	InputPricePer1K  float64 `yaml:"input_price_per_1k" mapstructure:"input_price_per_1k"`
	OutputPricePer1K float64 `yaml:"output_price_per_1k" mapstructure:"output_price_per_1k"`
}

type SchemeConfig struct {
	Name        string  `yaml:"name" mapstructure:"name"`
	DiscountPct float64 `yaml:"discount_pct" mapstructure:"discount_pct"`
	// Optional override of the scheme's built-in unit cost.
	UnitCost float64 `yaml:"unit_cost" mapstructure:"unit_cost"`
}

type CapacityConfig struct {
	// TPMPerUnit is the weighted tokens/minute one provisioned unit serves.
	// Zero selects the model's default rating.
	TPMPerUnit float64 `yaml:"tpm_per_unit" mapstructure:"tpm_per_unit"`
}

type SweepConfig struct {
	MinUnits int    `yaml:"min_units" mapstructure:"min_units"`
	MaxUnits int    `yaml:"max_units" mapstructure:"max_units"`
	Step     int    `yaml:"step" mapstructure:"step"`
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

type SimulationConfig struct {
	Bucket      time.Duration `yaml:"bucket" mapstructure:"bucket"`
	Parallelism int           `yaml:"parallelism" mapstructure:"parallelism"` // 0 = NumCPU
	KeepMinutes bool          `yaml:"keep_minutes" mapstructure:"keep_minutes"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Model: ModelConfig{
			Name: "gpt-4.1",
		},
		Scheme: SchemeConfig{
			Name: string(model.YearlyReservation),
		},
		Sweep: SweepConfig{
			MinUnits: 15,
			MaxUnits: 100,
			Step:     5,
			Strategy: "break-even",
		},
		Simulation: SimulationConfig{
			Bucket: time.Minute,
		},
		Cache: CacheConfig{
			Path: defaultCachePath(),
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Validate checks the config for consistency. Violations map to the
// configuration-error taxonomy and abort the run before any simulation.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return &model.ConfigError{Field: "model.name", Reason: "must be set"}
	}
	if c.Model.InputPricePer1K < 0 {
		return &model.ConfigError{Field: "model.input_price_per_1k", Reason: fmt.Sprintf("must be non-negative, got %v", c.Model.InputPricePer1K)}
	}
	if c.Model.OutputPricePer1K < 0 {
		return &model.ConfigError{Field: "model.output_price_per_1k", Reason: fmt.Sprintf("must be non-negative, got %v", c.Model.OutputPricePer1K)}
	}

	validScheme := false
	for _, n := range model.SchemeNames() {
		if string(n) == c.Scheme.Name {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return &model.ConfigError{Field: "scheme.name", Reason: fmt.Sprintf("unknown pricing scheme %q", c.Scheme.Name)}
	}
	if c.Scheme.DiscountPct < 0 || c.Scheme.DiscountPct > 100 {
		return &model.ConfigError{Field: "scheme.discount_pct", Reason: fmt.Sprintf("must be in [0,100], got %v", c.Scheme.DiscountPct)}
	}
	if c.Scheme.UnitCost < 0 {
		return &model.ConfigError{Field: "scheme.unit_cost", Reason: fmt.Sprintf("must be non-negative, got %v", c.Scheme.UnitCost)}
	}

	if c.Capacity.TPMPerUnit < 0 {
		return &model.ConfigError{Field: "capacity.tpm_per_unit", Reason: fmt.Sprintf("must be non-negative, got %v", c.Capacity.TPMPerUnit)}
	}

	if c.Sweep.MinUnits < 0 {
		return &model.ConfigError{Field: "sweep.min_units", Reason: fmt.Sprintf("must be non-negative, got %d", c.Sweep.MinUnits)}
	}
	if c.Sweep.MaxUnits < c.Sweep.MinUnits {
		return &model.ConfigError{Field: "sweep.max_units", Reason: fmt.Sprintf("must be >= min_units, got %d < %d", c.Sweep.MaxUnits, c.Sweep.MinUnits)}
	}
	if c.Sweep.Step <= 0 {
		return &model.ConfigError{Field: "sweep.step", Reason: fmt.Sprintf("must be positive, got %d", c.Sweep.Step)}
	}
	validStrats := map[string]bool{"break-even": true, "min-total-cost": true}
	if !validStrats[c.Sweep.Strategy] {
		return &model.ConfigError{Field: "sweep.strategy", Reason: fmt.Sprintf("must be break-even or min-total-cost, got %q", c.Sweep.Strategy)}
	}

	if c.Simulation.Bucket <= 0 {
		return &model.ConfigError{Field: "simulation.bucket", Reason: fmt.Sprintf("must be positive, got %v", c.Simulation.Bucket)}
	}
	if c.Simulation.Parallelism < 0 {
		return &model.ConfigError{Field: "simulation.parallelism", Reason: fmt.Sprintf("must be non-negative, got %d", c.Simulation.Parallelism)}
	}

	validFormats := map[string]bool{"table": true, "json": true, "markdown": true, "csv": true}
	if !validFormats[c.Output.Format] {
		return &model.ConfigError{Field: "output.format", Reason: fmt.Sprintf("must be table, json, markdown, or csv, got %q", c.Output.Format)}
	}

	return nil
}

// defaultCachePath places the dataset cache under the user's home directory.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ptufit", "cache.db")
	}
	return filepath.Join(home, ".ptufit", "cache.db")
}
