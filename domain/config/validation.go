package config

import "fmt"

// Validate checks the configuration for values the agent cannot run with.
func (c Config) Validate() error {
	if c.Budget.MinReserve < 0 {
		return fmt.Errorf("%w: min_reserve must be non-negative, got %d", ErrInvalidConfig, c.Budget.MinReserve)
	}
	if c.Budget.MaxRetriesPerEdge < 1 {
		return fmt.Errorf("%w: max_retries_per_edge must be at least 1, got %d", ErrInvalidConfig, c.Budget.MaxRetriesPerEdge)
	}
	if c.Budget.RiskTolerance < 0 || c.Budget.RiskTolerance > 1 {
		return fmt.Errorf("%w: risk_tolerance must be in [0,1], got %g", ErrInvalidConfig, c.Budget.RiskTolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be at least 1, got %d", ErrInvalidConfig, c.MaxIterations)
	}

	for name, w := range map[string]float64{
		"utility_weight":      c.Strategy.Utility,
		"difficulty_weight":   c.Strategy.Difficulty,
		"cost_weight":         c.Strategy.Cost,
		"success_prob_weight": c.Strategy.SuccessProb,
	} {
		if w < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ErrInvalidConfig, name, w)
		}
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: logging format must be json or console, got %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}
