package statemachine

import (
	"testing"

	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/domain/ledger"
	"github.com/entanglenet/distill-agent/domain/session"
)

func newTestInterpreter(t *testing.T, st *session.DecisionState) (*Interpreter, *ledger.Ledger) {
	t.Helper()
	machine, err := NewDecisionMachine()
	if err != nil {
		t.Fatalf("NewDecisionMachine() error = %v", err)
	}
	l := ledger.New("test-session")
	interp := NewInterpreter(machine, NewContext("test-session", st, l))
	interp.Start()
	t.Cleanup(interp.Stop)
	return interp, l
}

func TestPipelineAdvancesInOrder(t *testing.T) {
	st := session.NewDecisionState(game.Status{Budget: 50}, nil)
	interp, _ := newTestInterpreter(t, &st)

	want := []Stage{
		StageSelectEdge,
		StageAllocate,
		StageChooseProtocol,
		StageValidate,
		StageSubmit,
		StageUpdate,
	}

	for i, stage := range want {
		if got := interp.Stage(); got != stage {
			t.Fatalf("step %d: stage = %s, want %s", i, got, stage)
		}
		if i < len(want)-1 {
			interp.Advance()
		}
	}
}

func TestLoopReturnsToSelectionWhileContinuing(t *testing.T) {
	st := session.NewDecisionState(game.Status{Budget: 50}, nil)
	interp, _ := newTestInterpreter(t, &st)

	for i := 0; i < 5; i++ {
		interp.Advance()
	}
	if interp.Stage() != StageUpdate {
		t.Fatalf("stage = %s, want %s", interp.Stage(), StageUpdate)
	}

	interp.Loop()
	if interp.Stage() != StageSelectEdge {
		t.Errorf("stage after loop = %s, want %s", interp.Stage(), StageSelectEdge)
	}
	if interp.IsTerminal() {
		t.Error("loop should not terminate the chart")
	}
}

func TestLoopGuardBlocksWhenStopping(t *testing.T) {
	st := session.NewDecisionState(game.Status{Budget: 50}, nil)
	interp, _ := newTestInterpreter(t, &st)

	for i := 0; i < 5; i++ {
		interp.Advance()
	}
	st = st.WithAction(session.ActionStop, "budget exhausted")
	interp.Context().State = &st

	interp.Loop()
	if interp.Stage() != StageUpdate {
		t.Errorf("guarded loop should hold at %s, got %s", StageUpdate, interp.Stage())
	}
}

func TestStopIsReachableFromEveryStage(t *testing.T) {
	for steps := 0; steps <= 5; steps++ {
		st := session.NewDecisionState(game.Status{Budget: 50}, nil)
		st = st.WithAction(session.ActionStop, "test stop")
		interp, _ := newTestInterpreter(t, &st)

		for i := 0; i < steps; i++ {
			interp.Advance()
		}
		interp.Terminate()

		if !interp.IsTerminal() {
			t.Errorf("after %d advances: chart not terminal", steps)
		}
		if interp.Stage() != StageStopped {
			t.Errorf("after %d advances: stage = %s, want %s", steps, interp.Stage(), StageStopped)
		}
	}
}

func TestTerminateRecordsStopEntry(t *testing.T) {
	st := session.NewDecisionState(game.Status{Budget: 20, Score: 15}, nil)
	st.Iteration = 4
	st.SuccessfulClaims = 1
	st.FailedAttempts = 2
	st = st.WithAction(session.ActionStop, "no claimable edges")

	interp, l := newTestInterpreter(t, &st)
	interp.Terminate()

	entries := l.EntriesByType(ledger.EntrySessionStopped)
	if len(entries) != 1 {
		t.Fatalf("session_stopped entries = %d, want 1", len(entries))
	}
	if entries[0].Iteration != 4 {
		t.Errorf("stop entry iteration = %d, want 4", entries[0].Iteration)
	}
}
