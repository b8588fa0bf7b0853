package config

import (
	"fmt"
	"time"

	"github.com/entanglenet/distill-agent/domain/strategy"
)

// DefaultServerURL is the public game server endpoint.
const DefaultServerURL = "https://demo-entanglement-distillation-qfhvrahfcq-uc.a.run.app"

// Default returns the balanced preset.
func Default() Config {
	return Config{
		Name:     "default",
		Strategy: strategy.Weights{Utility: 1.0, Difficulty: 0.5, Cost: 0.3, SuccessProb: 0.4},
		Budget: BudgetConfig{
			MinReserve:        10,
			MaxRetriesPerEdge: 3,
			RiskTolerance:     0.5,
			AdaptiveRisk:      true,
		},
		Planner: PlannerConfig{
			PreferDejmps:  false,
			AdaptivePairs: true,
		},
		Simulation: SimulationConfig{Enabled: true},
		Client: ClientConfig{
			BaseURL: DefaultServerURL,
			Timeout: 120 * time.Second,
		},
		Resilience: ResilienceConfig{
			RetryMaxAttempts:  3,
			RetryInitialDelay: 100 * time.Millisecond,
			BreakerThreshold:  5,
			BreakerTimeout:    30 * time.Second,
			SubmitTimeout:     30 * time.Second,
		},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		MaxIterations: 100,
	}
}

// Aggressive returns the high-risk preset: utility-heavy weights, a thin
// reserve, and DEJMPS first.
func Aggressive() Config {
	cfg := Default()
	cfg.Name = "aggressive"
	cfg.Strategy = strategy.Weights{Utility: 1.5, Difficulty: 0.2, Cost: 0.2, SuccessProb: 0.3}
	cfg.Budget.MinReserve = 5
	cfg.Budget.MaxRetriesPerEdge = 2
	cfg.Budget.RiskTolerance = 0.3
	cfg.Planner.PreferDejmps = true
	return cfg
}

// Conservative returns the low-risk preset: a deep reserve and heavier
// difficulty and cost penalties.
func Conservative() Config {
	cfg := Default()
	cfg.Name = "conservative"
	cfg.Strategy = strategy.Weights{Utility: 0.8, Difficulty: 0.8, Cost: 0.6, SuccessProb: 0.7}
	cfg.Budget.MinReserve = 20
	cfg.Budget.MaxRetriesPerEdge = 4
	cfg.Budget.RiskTolerance = 0.7
	return cfg
}

// Preset returns the named preset configuration.
func Preset(name string) (Config, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "aggressive":
		return Aggressive(), nil
	case "conservative":
		return Conservative(), nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}
