package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the complete optimizer session configuration.
type Config struct {
	LogLevel  string          `toml:"log_level"`
	Optimizer OptimizerConfig `toml:"optimizer"`
}

// OptimizerConfig represents search-specific configuration.
type OptimizerConfig struct {
	// CostUpperBound prunes any branch whose cost already exceeds it.
	// Zero disables pruning.
	CostUpperBound float64 `toml:"cost_upper_bound"`
	// SearchTimeout bounds search wall time. Zero means no timeout.
	SearchTimeout Duration `toml:"search_timeout"`
	// Rules lists enabled rule names. Empty enables the full default set.
	Rules []string `toml:"rules"`
	// Cost holds the cost model parameters.
	Cost CostConfig `toml:"cost"`
}

// CostConfig defines system-wide cost parameters, following the PostgreSQL
// planner defaults.
type CostConfig struct {
	SeqPageCost       float64 `toml:"seq_page_cost"`
	RandomPageCost    float64 `toml:"random_page_cost"`
	CPUTupleCost      float64 `toml:"cpu_tuple_cost"`
	CPUIndexTupleCost float64 `toml:"cpu_index_tuple_cost"`
	CPUOperatorCost   float64 `toml:"cpu_operator_cost"`
}

// Duration wraps time.Duration so it can be written as "500ms" in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Optimizer: OptimizerConfig{
			CostUpperBound: 0,
			SearchTimeout:  0,
			Cost: CostConfig{
				SeqPageCost:       1.0,
				RandomPageCost:    4.0,
				CPUTupleCost:      0.01,
				CPUIndexTupleCost: 0.005,
				CPUOperatorCost:   0.0025,
			},
		},
	}
}

// LoadFromFile loads configuration from a TOML file, applying defaults for
// anything the file leaves unset.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Optimizer.CostUpperBound < 0 {
		return fmt.Errorf("cost_upper_bound must be non-negative, got %f", c.Optimizer.CostUpperBound)
	}
	if c.Optimizer.SearchTimeout < 0 {
		return fmt.Errorf("search_timeout must be non-negative, got %s", c.Optimizer.SearchTimeout.Std())
	}
	cost := c.Optimizer.Cost
	for name, v := range map[string]float64{
		"seq_page_cost":        cost.SeqPageCost,
		"random_page_cost":     cost.RandomPageCost,
		"cpu_tuple_cost":       cost.CPUTupleCost,
		"cpu_index_tuple_cost": cost.CPUIndexTupleCost,
		"cpu_operator_cost":    cost.CPUOperatorCost,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}
	return nil
}
