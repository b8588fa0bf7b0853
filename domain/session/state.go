// Package session provides the decision loop's working record: the
// per-iteration state threaded through the pipeline stages, and the run
// summary reported at termination.
package session

import (
	"github.com/entanglenet/distill-agent/domain/circuit"
	"github.com/entanglenet/distill-agent/domain/estimator"
	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/domain/strategy"
)

// Action is the control-flow directive attached to the decision state.
type Action string

// Control actions. Skip abandons the current edge for this iteration only;
// stop terminates the run.
const (
	ActionContinue Action = "continue"
	ActionSkip     Action = "skip"
	ActionStop     Action = "stop"
)

// DecisionState is the record threaded through one pass of the decision
// pipeline. Stages receive it by value and return an updated copy; nothing
// mutates a state another stage already holds. Slices are snapshots owned by
// the refresh that produced them and are treated as read-only.
type DecisionState struct {
	// Game snapshot, refreshed after every executed attempt.
	Budget         int
	Score          int
	OwnedNodes     []game.NodeID
	OwnedEdges     []game.EdgeID
	ClaimableEdges []game.EdgeCandidate

	// Decision fields for the current edge.
	Selected *strategy.EdgeScore
	NumPairs int
	Protocol circuit.Protocol
	Circuit  *circuit.Circuit
	FlagBit  int

	// Local validation outcome.
	Verdict estimator.Verdict

	// Execution outcome.
	ExecutionSuccess bool
	ExecutionResult  game.ClaimResult

	// Bookkeeping.
	Iteration        int
	SuccessfulClaims int
	FailedAttempts   int
	InitialBudget    int

	// Control flow.
	Action     Action
	StopReason string
}

// NewDecisionState initializes the loop state from the first status fetch.
func NewDecisionState(status game.Status, claimable []game.EdgeCandidate) DecisionState {
	return DecisionState{
		Budget:         status.Budget,
		Score:          status.Score,
		OwnedNodes:     status.OwnedNodes,
		OwnedEdges:     status.OwnedEdges,
		ClaimableEdges: claimable,
		InitialBudget:  status.Budget,
		Action:         ActionContinue,
	}
}

// WithAction returns a copy with the action and reason set.
func (s DecisionState) WithAction(a Action, reason string) DecisionState {
	s.Action = a
	s.StopReason = reason
	return s
}

// ClearSelection returns a copy with the per-edge decision fields reset,
// ready for the next iteration.
func (s DecisionState) ClearSelection() DecisionState {
	s.Selected = nil
	s.NumPairs = 0
	s.Protocol = ""
	s.Circuit = nil
	s.FlagBit = 0
	s.Verdict = estimator.Verdict{}
	s.ExecutionSuccess = false
	s.ExecutionResult = game.ClaimResult{}
	return s
}

// OwnedSet returns the owned nodes as a set.
func (s DecisionState) OwnedSet() map[game.NodeID]struct{} {
	owned := make(map[game.NodeID]struct{}, len(s.OwnedNodes))
	for _, n := range s.OwnedNodes {
		owned[n] = struct{}{}
	}
	return owned
}

// Summary is the run report emitted at termination, regardless of which
// condition triggered the stop.
type Summary struct {
	Iterations       int    `json:"iterations"`
	SuccessfulClaims int    `json:"successful_claims"`
	FailedAttempts   int    `json:"failed_attempts"`
	FinalScore       int    `json:"final_score"`
	FinalBudget      int    `json:"final_budget"`
	OwnedNodes       int    `json:"owned_nodes"`
	OwnedEdges       int    `json:"owned_edges"`
	StopReason       string `json:"stop_reason"`
}

// Summarize builds the run summary from the final state.
func (s DecisionState) Summarize() Summary {
	return Summary{
		Iterations:       s.Iteration,
		SuccessfulClaims: s.SuccessfulClaims,
		FailedAttempts:   s.FailedAttempts,
		FinalScore:       s.Score,
		FinalBudget:      s.Budget,
		OwnedNodes:       len(s.OwnedNodes),
		OwnedEdges:       len(s.OwnedEdges),
		StopReason:       s.StopReason,
	}
}
