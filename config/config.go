// Package config provides configuration loading and access for aggregate
// runs.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all run configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Output     OutputConfig     `yaml:"output"`
}

// SimulationConfig holds the aggregate parameters.
type SimulationConfig struct {
	Dimension     int     `yaml:"dimension"`      // 2 or 3
	Lattice       string  `yaml:"lattice"`        // square | triangle
	Attractor     string  `yaml:"attractor"`      // point | line | plane
	AttractorSize int     `yaml:"attractor_size"` // extent of line/plane attractors
	CoeffStick    float64 `yaml:"coeff_stick"`    // Bernoulli stick probability, (0,1]
	Particles     uint64  `yaml:"particles"`      // generation target
	Seed          uint64  `yaml:"seed"`           // 0 = non-deterministic
	SpawnAbove    bool    `yaml:"spawn_above"`
	SpawnBelow    bool    `yaml:"spawn_below"`
	Continuous    bool    `yaml:"continuous"` // run until aborted
}

// TelemetryConfig holds consumer-side observation settings.
type TelemetryConfig struct {
	StatsWindow  float64 `yaml:"stats_window"`  // window duration in seconds
	RadiiPoints  int     `yaml:"radii_points"`  // target sample count for the radii series
	PollInterval float64 `yaml:"poll_interval"` // consumer poll period in seconds
}

// OutputConfig holds run artifact settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // empty = no artifacts
	Sorted bool   `yaml:"sorted"` // write the aggregate in generation order
}

// Validate checks cross-field constraints that yaml decoding cannot.
// Engine-level argument rules (stickiness range, plane-in-2D) are enforced
// again by the aggregate constructors.
func (c *Config) Validate() error {
	s := c.Simulation
	if s.Dimension != 2 && s.Dimension != 3 {
		return fmt.Errorf("config: dimension must be 2 or 3, got %d", s.Dimension)
	}
	if s.CoeffStick <= 0 || s.CoeffStick > 1 {
		return fmt.Errorf("config: coeff_stick must be in (0,1], got %v", s.CoeffStick)
	}
	if s.Dimension == 2 && s.Attractor == "plane" {
		return fmt.Errorf("config: plane attractor requires dimension 3")
	}
	if s.AttractorSize < 0 {
		return fmt.Errorf("config: attractor_size must be non-negative, got %d", s.AttractorSize)
	}
	if !s.SpawnAbove && !s.SpawnBelow {
		return fmt.Errorf("config: at least one of spawn_above/spawn_below must be true")
	}
	if c.Telemetry.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %v", c.Telemetry.PollInterval)
	}
	return nil
}

// Global config instance
var global *Config

// Init loads the configuration and makes it available via Cfg().
// Pass an empty path to use embedded defaults.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global config. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from an optional YAML file layered over the
// embedded defaults.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteYAML saves the configuration to a file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
