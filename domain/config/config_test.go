package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name            string
		cfg             Config
		wantReserve     int
		wantRetries     int
		wantRisk        float64
		wantPreferDjmps bool
	}{
		{name: "default", cfg: Default(), wantReserve: 10, wantRetries: 3, wantRisk: 0.5},
		{name: "aggressive", cfg: Aggressive(), wantReserve: 5, wantRetries: 2, wantRisk: 0.3, wantPreferDjmps: true},
		{name: "conservative", cfg: Conservative(), wantReserve: 20, wantRetries: 4, wantRisk: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err != nil {
				t.Fatalf("preset %s fails validation: %v", tt.name, err)
			}
			if tt.cfg.Name != tt.name {
				t.Errorf("Name = %q, want %q", tt.cfg.Name, tt.name)
			}
			if tt.cfg.Budget.MinReserve != tt.wantReserve {
				t.Errorf("MinReserve = %d, want %d", tt.cfg.Budget.MinReserve, tt.wantReserve)
			}
			if tt.cfg.Budget.MaxRetriesPerEdge != tt.wantRetries {
				t.Errorf("MaxRetriesPerEdge = %d, want %d", tt.cfg.Budget.MaxRetriesPerEdge, tt.wantRetries)
			}
			if tt.cfg.Budget.RiskTolerance != tt.wantRisk {
				t.Errorf("RiskTolerance = %g, want %g", tt.cfg.Budget.RiskTolerance, tt.wantRisk)
			}
			if tt.cfg.Planner.PreferDejmps != tt.wantPreferDjmps {
				t.Errorf("PreferDejmps = %v, want %v", tt.cfg.Planner.PreferDejmps, tt.wantPreferDjmps)
			}
		})
	}
}

func TestPresetLookup(t *testing.T) {
	for _, name := range []string{"", "default", "aggressive", "conservative"} {
		if _, err := Preset(name); err != nil {
			t.Errorf("Preset(%q) error = %v", name, err)
		}
	}

	if _, err := Preset("reckless"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Preset(reckless) error = %v, want ErrUnknownPreset", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "negative reserve", mutate: func(c *Config) { c.Budget.MinReserve = -1 }, wantErr: true},
		{name: "zero retries", mutate: func(c *Config) { c.Budget.MaxRetriesPerEdge = 0 }, wantErr: true},
		{name: "risk above one", mutate: func(c *Config) { c.Budget.RiskTolerance = 1.5 }, wantErr: true},
		{name: "risk below zero", mutate: func(c *Config) { c.Budget.RiskTolerance = -0.1 }, wantErr: true},
		{name: "zero iterations", mutate: func(c *Config) { c.MaxIterations = 0 }, wantErr: true},
		{name: "negative weight", mutate: func(c *Config) { c.Strategy.Utility = -1 }, wantErr: true},
		{name: "bad logging format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "empty logging format", mutate: func(c *Config) { c.Logging.Format = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadLayersOverDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	content := []byte(`
name: custom
budget:
  min_reserve: 15
strategy:
  utility_weight: 2.0
  difficulty_weight: 0.5
  cost_weight: 0.3
  success_prob_weight: 0.4
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "custom" {
		t.Errorf("Name = %q, want custom", cfg.Name)
	}
	if cfg.Budget.MinReserve != 15 {
		t.Errorf("MinReserve = %d, want 15", cfg.Budget.MinReserve)
	}
	if cfg.Strategy.Utility != 2.0 {
		t.Errorf("Utility = %g, want 2.0", cfg.Strategy.Utility)
	}
	// Untouched fields keep default values.
	if cfg.Budget.MaxRetriesPerEdge != 3 {
		t.Errorf("MaxRetriesPerEdge = %d, want default 3", cfg.Budget.MaxRetriesPerEdge)
	}
	if cfg.MaxIterations != 100 {
		t.Errorf("MaxIterations = %d, want default 100", cfg.MaxIterations)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte("budget:\n  risk_tolerance: 2.5\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
