// Package estimator provides closed-form fidelity and success-probability
// estimates for distillation attempts, and the pre-submission gate built on
// them. It deliberately avoids density-matrix simulation: the estimates are
// analytical bounds, cheap enough to run on every iteration.
package estimator

import (
	"math"

	"github.com/entanglenet/distill-agent/domain/circuit"
)

// Clamp bounds for the estimates.
const (
	minFidelity    = 0.5
	maxFidelity    = 0.99
	minSuccessProb = 0.05
	maxSuccessProb = 0.95

	// perMeasurementPassRate is the observed ~70% pass rate per ancilla
	// measurement under moderate noise.
	perMeasurementPassRate = 0.7
)

// Estimate holds the analytical predictions for one attempt.
type Estimate struct {
	// Fidelity is the predicted post-distillation fidelity, in [0.5, 0.99].
	Fidelity float64
	// SuccessProb is the predicted post-selection pass rate, in [0.05, 0.95].
	SuccessProb float64
}

// Estimator computes pre-submission estimates and validates circuits against
// the game's structural constraints.
type Estimator struct {
	// SafetyMargin is subtracted from the edge threshold before comparing the
	// fidelity estimate, so marginal attempts are submitted rather than
	// skipped on estimator pessimism.
	SafetyMargin float64
	// MinSuccessProb is the floor below which an attempt is not worth the
	// budget regardless of fidelity.
	MinSuccessProb float64
}

// New creates an estimator with the standard gate parameters.
func New() *Estimator {
	return &Estimator{
		SafetyMargin:   0.02,
		MinSuccessProb: 0.10,
	}
}

// Estimate predicts fidelity and post-selection success probability for a
// distillation run over numPairs raw pairs with the given input noise. The
// protocol argument is accepted for contract symmetry with the circuit
// builders; the closed-form bound is protocol independent.
//
// The fidelity model applies the two-to-one purification step
// F ← F²/(F²+(1−F)²) once per halving of the pair count, capturing the
// diminishing returns of larger attempts. The success probability decays
// geometrically with the number of ancilla measurements.
//
// A numerical failure never propagates: a non-finite intermediate value
// yields the conservative fallback (0.75, 0.5) so the decision loop is never
// blocked on an estimator glitch.
func (e *Estimator) Estimate(inputNoise float64, numPairs int, _ circuit.Protocol) Estimate {
	f := 1 - inputNoise

	rounds := 1
	if numPairs > 1 {
		if r := int(math.Floor(math.Log2(float64(numPairs)))); r > 1 {
			rounds = r
		}
	}
	for i := 0; i < rounds; i++ {
		denom := f*f + (1-f)*(1-f)
		f = f * f / denom
	}

	measurements := 2 * (numPairs - 1)
	successProb := math.Pow(perMeasurementPassRate, float64(measurements))

	if !isFinite(f) || !isFinite(successProb) {
		return Estimate{Fidelity: 0.75, SuccessProb: 0.5}
	}

	return Estimate{
		Fidelity:    clamp(f, minFidelity, maxFidelity),
		SuccessProb: clamp(successProb, minSuccessProb, maxSuccessProb),
	}
}

// NoiseFromDifficulty maps an edge difficulty rating (1-10) to an input
// noise probability: difficulty 1 comes out near 7.5%, difficulty 10 near 30%.
func NoiseFromDifficulty(difficulty float64) float64 {
	return clamp(0.05+difficulty/10*0.25, 0.05, 0.35)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
