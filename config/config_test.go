package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if cfg.Simulation.Dimension != 2 {
		t.Errorf("dimension = %d, want 2", cfg.Simulation.Dimension)
	}
	if cfg.Simulation.Lattice != "square" || cfg.Simulation.Attractor != "point" {
		t.Errorf("geometry = %s/%s", cfg.Simulation.Lattice, cfg.Simulation.Attractor)
	}
	if cfg.Simulation.CoeffStick != 1.0 {
		t.Errorf("coeff_stick = %v, want 1.0", cfg.Simulation.CoeffStick)
	}
	if !cfg.Simulation.SpawnAbove || !cfg.Simulation.SpawnBelow {
		t.Error("spawn sources should default to both halves")
	}
	if cfg.Telemetry.StatsWindow != 1.0 || cfg.Telemetry.RadiiPoints != 50 {
		t.Errorf("telemetry defaults = %+v", cfg.Telemetry)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `simulation:
  dimension: 3
  attractor: plane
  attractor_size: 24
  coeff_stick: 0.6
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay: %v", err)
	}
	if cfg.Simulation.Dimension != 3 || cfg.Simulation.Attractor != "plane" {
		t.Errorf("overlay not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.AttractorSize != 24 || cfg.Simulation.CoeffStick != 0.6 {
		t.Errorf("overlay not applied: %+v", cfg.Simulation)
	}
	// Untouched fields keep their defaults.
	if cfg.Simulation.Lattice != "square" {
		t.Errorf("lattice = %s, want default square", cfg.Simulation.Lattice)
	}
	if cfg.Telemetry.PollInterval != 0.05 {
		t.Errorf("poll_interval = %v, want default 0.05", cfg.Telemetry.PollInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad dimension", func(c *Config) { c.Simulation.Dimension = 4 }},
		{"zero stickiness", func(c *Config) { c.Simulation.CoeffStick = 0 }},
		{"stickiness above one", func(c *Config) { c.Simulation.CoeffStick = 2 }},
		{"negative attractor size", func(c *Config) { c.Simulation.AttractorSize = -1 }},
		{"no spawn source", func(c *Config) {
			c.Simulation.SpawnAbove = false
			c.Simulation.SpawnBelow = false
		}},
		{"bad poll interval", func(c *Config) { c.Telemetry.PollInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.Particles = 1234

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Simulation.Particles != 1234 {
		t.Errorf("particles after round trip = %d, want 1234", back.Simulation.Particles)
	}
}
