// Package config provides the agent configuration model and the named
// presets. Configurations load from YAML and validate before a session
// starts; a malformed configuration is the one condition that fails fast.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entanglenet/distill-agent/domain/strategy"
)

// Config is the complete agent configuration.
type Config struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name"`

	// Strategy tunes the edge-scoring weights.
	Strategy strategy.Weights `json:"strategy" yaml:"strategy"`
	// Budget controls admission and risk policy.
	Budget BudgetConfig `json:"budget" yaml:"budget"`
	// Planner controls pair-count and protocol selection.
	Planner PlannerConfig `json:"planner" yaml:"planner"`
	// Simulation controls the local pre-submission gate.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	// Client configures the game server connection.
	Client ClientConfig `json:"client,omitempty" yaml:"client,omitempty"`
	// Resilience configures the transport protection around client calls.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	// Logging configures the structured logger.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`

	// MaxIterations bounds an autonomous run.
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
}

// BudgetConfig controls the budget manager.
type BudgetConfig struct {
	// MinReserve is the Bell-pair floor the agent will not spend below.
	MinReserve int `json:"min_reserve" yaml:"min_reserve"`
	// MaxRetriesPerEdge caps attempts on a single edge.
	MaxRetriesPerEdge int `json:"max_retries_per_edge" yaml:"max_retries_per_edge"`
	// RiskTolerance is the starting ROI gate, 0 (lenient) to 1 (strict).
	RiskTolerance float64 `json:"risk_tolerance" yaml:"risk_tolerance"`
	// AdaptiveRisk re-derives the gate from the budget ratio after each attempt.
	AdaptiveRisk bool `json:"adaptive_risk" yaml:"adaptive_risk"`
}

// PlannerConfig controls the resource planner.
type PlannerConfig struct {
	// PreferDejmps makes DEJMPS the first-attempt default.
	PreferDejmps bool `json:"prefer_dejmps" yaml:"prefer_dejmps"`
	// AdaptivePairs escalates pair counts on retries.
	AdaptivePairs bool `json:"adaptive_pairs" yaml:"adaptive_pairs"`
}

// SimulationConfig controls the local estimator gate.
type SimulationConfig struct {
	// Enabled runs the estimator before every submission.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// ClientConfig configures the game server client.
type ClientConfig struct {
	// BaseURL is the game server endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`
	// APIToken authenticates requests; obtained at registration.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
	// PlayerID identifies the player.
	PlayerID string `json:"player_id,omitempty" yaml:"player_id,omitempty"`
	// Timeout bounds each fetch request.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ResilienceConfig configures transport protection.
type ResilienceConfig struct {
	// RetryMaxAttempts caps retries of idempotent fetches.
	RetryMaxAttempts int `json:"retry_max_attempts,omitempty" yaml:"retry_max_attempts,omitempty"`
	// RetryInitialDelay is the first backoff delay.
	RetryInitialDelay time.Duration `json:"retry_initial_delay,omitempty" yaml:"retry_initial_delay,omitempty"`
	// BreakerThreshold is the consecutive-failure count that opens the circuit.
	BreakerThreshold int `json:"breaker_threshold,omitempty" yaml:"breaker_threshold,omitempty"`
	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration `json:"breaker_timeout,omitempty" yaml:"breaker_timeout,omitempty"`
	// SubmitTimeout bounds a claim submission.
	SubmitTimeout time.Duration `json:"submit_timeout,omitempty" yaml:"submit_timeout,omitempty"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is the output format (json or console).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Load reads a configuration file, layering it over the default preset so
// partial files are valid.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
