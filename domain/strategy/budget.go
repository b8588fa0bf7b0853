package strategy

import (
	"fmt"

	"github.com/entanglenet/distill-agent/domain/game"
)

// AttemptHistory tracks how many times each edge has been attempted during a
// session. It is owned by exactly one decision loop; the loop is single
// threaded, so no locking is needed. Sessions must not share a history.
type AttemptHistory struct {
	counts map[game.EdgeID]int
}

// NewAttemptHistory creates an empty history.
func NewAttemptHistory() *AttemptHistory {
	return &AttemptHistory{counts: make(map[game.EdgeID]int)}
}

// Count returns the number of recorded attempts for an edge.
func (h *AttemptHistory) Count(id game.EdgeID) int {
	return h.counts[id]
}

// Record increments the attempt counter for an edge.
func (h *AttemptHistory) Record(id game.EdgeID) {
	h.counts[id]++
}

// Reset clears the attempt counter for an edge.
func (h *AttemptHistory) Reset(id game.EdgeID) {
	delete(h.counts, id)
}

// Len returns the number of edges with recorded attempts.
func (h *AttemptHistory) Len() int {
	return len(h.counts)
}

// BudgetManager performs admission control over claim attempts: budget
// sufficiency, retry caps, expected value, and risk gating, with an adaptive
// risk policy that tightens as the budget depletes.
type BudgetManager struct {
	minReserve    int
	maxRetries    int
	riskTolerance float64
	history       *AttemptHistory
}

// NewBudgetManager creates a budget manager. The attempt history is injected
// so tests and multi-session callers control its lifetime.
func NewBudgetManager(minReserve, maxRetries int, riskTolerance float64, history *AttemptHistory) *BudgetManager {
	if history == nil {
		history = NewAttemptHistory()
	}
	return &BudgetManager{
		minReserve:    minReserve,
		maxRetries:    maxRetries,
		riskTolerance: riskTolerance,
		history:       history,
	}
}

// ShouldAttempt decides whether to attempt claiming an edge. Checks run in a
// fixed order and the first failure wins, so rejection reasons are stable.
func (m *BudgetManager) ShouldAttempt(score EdgeScore, currentBudget int) (bool, string) {
	if m.history.Count(score.EdgeID) >= m.maxRetries {
		return false, fmt.Sprintf("max retries (%d) reached", m.maxRetries)
	}

	need := score.ExpectedCost + float64(m.minReserve)
	if float64(currentBudget) < need {
		return false, fmt.Sprintf("insufficient budget (need %.1f, have %d)", need, currentBudget)
	}

	expectedValue := score.ExpectedUtility - score.ExpectedCost
	if expectedValue <= 0 {
		return false, fmt.Sprintf("negative expected value (%.2f)", expectedValue)
	}

	if score.ROI < m.riskTolerance {
		return false, fmt.Sprintf("ROI (%.2f) below risk tolerance (%.2f)", score.ROI, m.riskTolerance)
	}

	if score.SuccessProb < 0.2 {
		return false, fmt.Sprintf("success probability too low (%.0f%%)", score.SuccessProb*100)
	}

	return true, "approved"
}

// RecordAttempt increments the attempt counter for an edge. The counter
// moves on success and failure alike; callers reset it separately after a
// success so a re-claim of the same edge starts with a fresh retry budget.
func (m *BudgetManager) RecordAttempt(id game.EdgeID, success bool, actualCost int) {
	m.history.Record(id)
}

// ResetAttempts clears the retry history for an edge.
func (m *BudgetManager) ResetAttempts(id game.EdgeID) {
	m.history.Reset(id)
}

// AttemptCount returns the recorded attempts for an edge.
func (m *BudgetManager) AttemptCount(id game.EdgeID) int {
	return m.history.Count(id)
}

// AdjustRiskTolerance re-derives the risk gate from the remaining budget
// ratio. Depleted budgets demand higher ROI before an attempt is admitted.
func (m *BudgetManager) AdjustRiskTolerance(currentBudget, initialBudget int) {
	ratio := float64(currentBudget) / float64(max(1, initialBudget))

	switch {
	case ratio < 0.2:
		m.riskTolerance = 0.8
	case ratio < 0.5:
		m.riskTolerance = 0.6
	default:
		m.riskTolerance = 0.4
	}
}

// RiskTolerance returns the current risk gate value.
func (m *BudgetManager) RiskTolerance() float64 {
	return m.riskTolerance
}

// MinReserve returns the configured budget floor.
func (m *BudgetManager) MinReserve() int {
	return m.minReserve
}
