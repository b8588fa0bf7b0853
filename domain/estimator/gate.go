package estimator

import (
	"fmt"

	"github.com/entanglenet/distill-agent/domain/circuit"
)

// Verdict is the outcome of the pre-submission gate. The estimates are
// populated whenever they were computed, rejected attempts included, so the
// loop can record them for observability.
type Verdict struct {
	Submit      bool
	Reason      string
	Fidelity    float64
	SuccessProb float64
}

// ValidateCircuit checks the structural constraints the game server enforces:
// the circuit must act on exactly 2N qubits, and no two-qubit operation may
// span the boundary between the two parties' registers (indices 0..N-1 and
// N..2N-1). Classical communication is the only cross-boundary channel.
func (e *Estimator) ValidateCircuit(c *circuit.Circuit, numPairs int) error {
	expected := 2 * numPairs
	if c.NumQubits != expected {
		return fmt.Errorf("%w: expected %d qubits, got %d", ErrQubitCount, expected, c.NumQubits)
	}

	for _, op := range c.TwoQubitOps() {
		q1, q2 := op.Qubits[0], op.Qubits[1]
		if (q1 < numPairs) != (q2 < numPairs) {
			return fmt.Errorf("%w: gate %s spans qubits (%d, %d)", ErrLOCCViolation, op.Gate, q1, q2)
		}
	}
	return nil
}

// ShouldSubmit decides whether a built circuit is worth submitting against
// an edge with the given fidelity threshold. Structural violations are hard
// rejects; estimate shortfalls are soft rejects with the estimates attached.
func (e *Estimator) ShouldSubmit(c *circuit.Circuit, flagBit, numPairs int, threshold, inputNoise float64) Verdict {
	if err := e.ValidateCircuit(c, numPairs); err != nil {
		return Verdict{Submit: false, Reason: fmt.Sprintf("invalid circuit: %v", err)}
	}

	est := e.Estimate(inputNoise, numPairs, "")

	if est.Fidelity < threshold-e.SafetyMargin {
		return Verdict{
			Submit:      false,
			Reason:      fmt.Sprintf("estimated fidelity (%.3f) below threshold (%.3f)", est.Fidelity, threshold),
			Fidelity:    est.Fidelity,
			SuccessProb: est.SuccessProb,
		}
	}

	if est.SuccessProb < e.MinSuccessProb {
		return Verdict{
			Submit:      false,
			Reason:      fmt.Sprintf("success probability too low (%.0f%%)", est.SuccessProb*100),
			Fidelity:    est.Fidelity,
			SuccessProb: est.SuccessProb,
		}
	}

	return Verdict{
		Submit:      true,
		Reason:      "estimate passed",
		Fidelity:    est.Fidelity,
		SuccessProb: est.SuccessProb,
	}
}
