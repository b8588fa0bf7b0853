// Package ledger provides the append-only record of a game session: one
// entry per notable event, consumed by the run summary and the optional
// persistent session store.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a ledger entry.
type EntryType string

// Entry types recorded during a session.
const (
	EntrySessionStarted EntryType = "session_started"
	EntrySessionStopped EntryType = "session_stopped"
	EntryEdgeSelected   EntryType = "edge_selected"
	EntryEdgeSkipped    EntryType = "edge_skipped"
	EntryClaimSubmitted EntryType = "claim_submitted"
	EntryClaimSucceeded EntryType = "claim_succeeded"
	EntryClaimFailed    EntryType = "claim_failed"
	EntryRiskAdjusted   EntryType = "risk_adjusted"
)

// Entry is a single record in the session ledger.
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      EntryType       `json:"type"`
	SessionID string          `json:"session_id"`
	Iteration int             `json:"iteration"`
	EdgeID    string          `json:"edge_id,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// NewEntry creates an entry with a fresh ID and timestamp. The details value
// is marshalled to JSON; a marshalling failure leaves Details empty rather
// than failing the append.
func NewEntry(t EntryType, iteration int, edgeID string, details any) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      t,
		Iteration: iteration,
		EdgeID:    edgeID,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			e.Details = raw
		}
	}
	return e
}

// ClaimDetails records the parameters and outcome of one claim attempt.
type ClaimDetails struct {
	Protocol    string  `json:"protocol"`
	NumPairs    int     `json:"num_pairs"`
	Fidelity    float64 `json:"estimated_fidelity,omitempty"`
	SuccessProb float64 `json:"estimated_success_prob,omitempty"`
	ErrorCode   string  `json:"error_code,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// SkipDetails records why an edge was skipped.
type SkipDetails struct {
	Reason string `json:"reason"`
}

// StopDetails records why and how a session ended.
type StopDetails struct {
	Reason           string `json:"reason"`
	SuccessfulClaims int    `json:"successful_claims"`
	FailedAttempts   int    `json:"failed_attempts"`
	FinalBudget      int    `json:"final_budget"`
	FinalScore       int    `json:"final_score"`
}

// RiskDetails records an adaptive risk-tolerance change.
type RiskDetails struct {
	Budget        int     `json:"budget"`
	InitialBudget int     `json:"initial_budget"`
	RiskTolerance float64 `json:"risk_tolerance"`
}
