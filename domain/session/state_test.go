package session

import (
	"testing"

	"github.com/entanglenet/distill-agent/domain/circuit"
	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/domain/strategy"
)

func TestNewDecisionState(t *testing.T) {
	status := game.Status{
		Budget:     60,
		Score:      12,
		OwnedNodes: []game.NodeID{"a", "b"},
		OwnedEdges: []game.EdgeID{game.NewEdgeID("a", "b")},
		Active:     true,
	}
	claimable := []game.EdgeCandidate{
		{ID: game.NewEdgeID("b", "c"), Difficulty: 4, Threshold: 0.85},
	}

	st := NewDecisionState(status, claimable)
	if st.Budget != 60 || st.InitialBudget != 60 {
		t.Errorf("budget = %d / initial %d, want 60/60", st.Budget, st.InitialBudget)
	}
	if st.Action != ActionContinue {
		t.Errorf("Action = %s, want continue", st.Action)
	}
	if len(st.ClaimableEdges) != 1 {
		t.Errorf("claimable = %d, want 1", len(st.ClaimableEdges))
	}
}

func TestWithActionReturnsCopy(t *testing.T) {
	st := NewDecisionState(game.Status{Budget: 10}, nil)

	stopped := st.WithAction(ActionStop, "no claimable edges")
	if stopped.Action != ActionStop || stopped.StopReason != "no claimable edges" {
		t.Errorf("stopped = %s/%q", stopped.Action, stopped.StopReason)
	}
	if st.Action != ActionContinue || st.StopReason != "" {
		t.Error("original state should be unchanged")
	}
}

func TestClearSelection(t *testing.T) {
	st := NewDecisionState(game.Status{Budget: 10}, nil)
	st.Selected = &strategy.EdgeScore{EdgeID: game.NewEdgeID("a", "b")}
	st.NumPairs = 4
	st.Protocol = circuit.ProtocolDEJMPS
	st.Circuit = &circuit.Circuit{NumQubits: 8}
	st.FlagBit = 0
	st.ExecutionSuccess = true
	st.SuccessfulClaims = 2
	st.Iteration = 5

	cleared := st.ClearSelection()
	if cleared.Selected != nil || cleared.NumPairs != 0 || cleared.Protocol != "" || cleared.Circuit != nil {
		t.Errorf("selection not cleared: %+v", cleared)
	}
	if cleared.ExecutionSuccess {
		t.Error("execution outcome should be cleared")
	}
	// Bookkeeping survives the clear.
	if cleared.SuccessfulClaims != 2 || cleared.Iteration != 5 {
		t.Errorf("bookkeeping lost: claims %d, iteration %d", cleared.SuccessfulClaims, cleared.Iteration)
	}
}

func TestSummarize(t *testing.T) {
	st := NewDecisionState(game.Status{
		Budget:     20,
		Score:      35,
		OwnedNodes: []game.NodeID{"a", "b", "c"},
		OwnedEdges: []game.EdgeID{game.NewEdgeID("a", "b"), game.NewEdgeID("b", "c")},
	}, nil)
	st.Iteration = 7
	st.SuccessfulClaims = 2
	st.FailedAttempts = 3
	st = st.WithAction(ActionStop, "budget (20) at reserve floor (20)")

	sum := st.Summarize()
	if sum.Iterations != 7 || sum.SuccessfulClaims != 2 || sum.FailedAttempts != 3 {
		t.Errorf("summary counters = %+v", sum)
	}
	if sum.FinalScore != 35 || sum.FinalBudget != 20 {
		t.Errorf("summary totals = %+v", sum)
	}
	if sum.OwnedNodes != 3 || sum.OwnedEdges != 2 {
		t.Errorf("summary holdings = %+v", sum)
	}
	if sum.StopReason == "" {
		t.Error("summary should carry the stop reason")
	}
}

func TestOwnedSet(t *testing.T) {
	st := NewDecisionState(game.Status{OwnedNodes: []game.NodeID{"a", "c"}}, nil)
	owned := st.OwnedSet()
	if len(owned) != 2 {
		t.Fatalf("OwnedSet() = %d entries, want 2", len(owned))
	}
	if _, ok := owned["a"]; !ok {
		t.Error("OwnedSet() missing a")
	}
	if _, ok := owned["b"]; ok {
		t.Error("OwnedSet() should not contain b")
	}
}
