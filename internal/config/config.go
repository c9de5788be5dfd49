// Package config loads the YAML-backed tuning knobs SPEC_FULL.md §1.3
// leaves to the implementation (the evaluator's GC trigger ratio and an
// optional execution budget, and the report format), following the same
// "Load reads a file, unmarshals into a defaulted struct" shape the example
// pack's resourcestate.LoadConfig uses for its own YAML config.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the full set of tunables a `exprscript.yaml` file may override.
type Config struct {
	GC     GCConfig     `yaml:"gc"`
	Run    RunConfig    `yaml:"run"`
	Report ReportConfig `yaml:"report"`
}

// GCConfig tunes the mark-sweep-compact cycle (spec.md §4.6).
type GCConfig struct {
	// Ratio is the store-occupancy fraction that triggers a cycle. Zero
	// means "use the engine default" (0.8).
	Ratio float64 `yaml:"ratio"`
}

// RunConfig tunes program execution.
type RunConfig struct {
	// BudgetMS is an optional wall-clock ceiling in milliseconds; zero
	// means no budget (spec.md §5).
	BudgetMS int64 `yaml:"budgetMs"`
}

// ReportConfig tunes `.send`'s output-buffer rendering (internal/report).
type ReportConfig struct {
	// Pretty selects indented JSON over compact JSON.
	Pretty bool `yaml:"pretty"`
}

// Default returns the engine's built-in defaults: a 0.8 GC ratio, no
// execution budget, and compact JSON reports.
func Default() Config {
	return Config{GC: GCConfig{Ratio: 0.8}}
}

// Budget converts BudgetMS to a time.Duration, zero meaning unbounded.
func (c RunConfig) Budget() time.Duration {
	if c.BudgetMS <= 0 {
		return 0
	}
	return time.Duration(c.BudgetMS) * time.Millisecond
}

// Load reads path, unmarshals it over Default(), and validates the result.
// A missing GC ratio or one outside (0, 1) falls back to the default rather
// than failing, since 0 is YAML's zero value for an absent key.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.GC.Ratio <= 0 || cfg.GC.Ratio >= 1 {
		cfg.GC.Ratio = Default().GC.Ratio
	}
	return cfg, nil
}
