package config

import (
	"errors"
	"testing"
	"time"

	"github.com/guimove/ptufit/internal/model"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Model.Name != "gpt-4.1" {
		t.Errorf("default model = %q, want gpt-4.1", cfg.Model.Name)
	}
	if cfg.Scheme.Name != string(model.YearlyReservation) {
		t.Errorf("default scheme = %q, want yearly-reservation", cfg.Scheme.Name)
	}
	if cfg.Sweep.MinUnits != 15 || cfg.Sweep.MaxUnits != 100 || cfg.Sweep.Step != 5 {
		t.Errorf("default sweep = %+v", cfg.Sweep)
	}
	if cfg.Simulation.Bucket != time.Minute {
		t.Errorf("default bucket = %v, want 1m", cfg.Simulation.Bucket)
	}
	if cfg.Cache.Path == "" {
		t.Error("default cache path should be set")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"empty model", func(c *Config) { c.Model.Name = "" }, "model.name"},
		{"negative input price", func(c *Config) { c.Model.InputPricePer1K = -1 }, "model.input_price_per_1k"},
		{"negative output price", func(c *Config) { c.Model.OutputPricePer1K = -1 }, "model.output_price_per_1k"},
		{"unknown scheme", func(c *Config) { c.Scheme.Name = "weekly" }, "scheme.name"},
		{"discount out of range", func(c *Config) { c.Scheme.DiscountPct = 120 }, "scheme.discount_pct"},
		{"negative unit cost", func(c *Config) { c.Scheme.UnitCost = -10 }, "scheme.unit_cost"},
		{"negative capacity", func(c *Config) { c.Capacity.TPMPerUnit = -1 }, "capacity.tpm_per_unit"},
		{"negative min units", func(c *Config) { c.Sweep.MinUnits = -1 }, "sweep.min_units"},
		{"max below min", func(c *Config) { c.Sweep.MaxUnits = 10; c.Sweep.MinUnits = 20 }, "sweep.max_units"},
		{"zero step", func(c *Config) { c.Sweep.Step = 0 }, "sweep.step"},
		{"unknown strategy", func(c *Config) { c.Sweep.Strategy = "cheapest" }, "sweep.strategy"},
		{"zero bucket", func(c *Config) { c.Simulation.Bucket = 0 }, "simulation.bucket"},
		{"negative parallelism", func(c *Config) { c.Simulation.Parallelism = -1 }, "simulation.parallelism"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *model.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if cfgErr.Field != tc.wantField {
				t.Errorf("error field = %q, want %q", cfgErr.Field, tc.wantField)
			}
		})
	}
}

func TestValidate_AcceptsOverrides(t *testing.T) {
	cfg := Default()
	cfg.Model.Name = "my-finetune"
	cfg.Model.InputPricePer1K = 0.003
	cfg.Model.OutputPricePer1K = 0.009
	cfg.Scheme.UnitCost = 200
	cfg.Capacity.TPMPerUnit = 2500
	cfg.Sweep.Strategy = "min-total-cost"
	cfg.Output.Format = "json"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("override config invalid: %v", err)
	}
}
