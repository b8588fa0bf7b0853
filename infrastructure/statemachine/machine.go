// Package statemachine provides the statekit statechart for the decision
// loop. The chart is a linear pipeline with a single conditional back-edge:
// SelectEdge → AllocateResources → ChooseProtocol → ValidateLocally →
// Submit → UpdateBookkeeping → (SelectEdge | Stopped).
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/entanglenet/distill-agent/domain/ledger"
	"github.com/entanglenet/distill-agent/domain/session"
)

// Stage identifies a pipeline stage.
type Stage string

// Pipeline stages in execution order.
const (
	StageSelectEdge     Stage = "select_edge"
	StageAllocate       Stage = "allocate_resources"
	StageChooseProtocol Stage = "choose_protocol"
	StageValidate       Stage = "validate_locally"
	StageSubmit         Stage = "submit"
	StageUpdate         Stage = "update_bookkeeping"
	StageStopped        Stage = "stopped"
)

// Events driving the chart.
const (
	// EventNext advances to the following pipeline stage.
	EventNext statekit.EventType = "NEXT"
	// EventLoop returns from bookkeeping to edge selection.
	EventLoop statekit.EventType = "LOOP"
	// EventStop terminates the run.
	EventStop statekit.EventType = "STOP"
)

// Context carries loop state through the state machine. The engine updates
// the State slot before sending each event.
type Context struct {
	SessionID string
	State     *session.DecisionState
	Ledger    *ledger.Ledger
}

// NewContext creates a machine context.
func NewContext(sessionID string, st *session.DecisionState, l *ledger.Ledger) *Context {
	return &Context{SessionID: sessionID, State: st, Ledger: l}
}

// Stage IDs as statekit state IDs.
const (
	stateSelectEdge statekit.StateID = statekit.StateID(StageSelectEdge)
	stateAllocate   statekit.StateID = statekit.StateID(StageAllocate)
	stateProtocol   statekit.StateID = statekit.StateID(StageChooseProtocol)
	stateValidate   statekit.StateID = statekit.StateID(StageValidate)
	stateSubmit     statekit.StateID = statekit.StateID(StageSubmit)
	stateUpdate     statekit.StateID = statekit.StateID(StageUpdate)
	stateStopped    statekit.StateID = statekit.StateID(StageStopped)
)

// NewDecisionMachine creates the canonical decision-loop statechart.
func NewDecisionMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("decision-loop").
		WithInitial(stateSelectEdge).
		WithContext(&Context{}).
		WithAction("logEntry", logStageEntry).
		WithAction("recordStop", recordStop).
		WithGuard("canContinue", guardCanContinue).
		State(stateSelectEdge).
			OnEntry("logEntry").
			On(EventNext).Target(stateAllocate).
			On(EventStop).Target(stateStopped).Do("recordStop").
			Done().
		State(stateAllocate).
			OnEntry("logEntry").
			On(EventNext).Target(stateProtocol).
			On(EventStop).Target(stateStopped).Do("recordStop").
			Done().
		State(stateProtocol).
			OnEntry("logEntry").
			On(EventNext).Target(stateValidate).
			On(EventStop).Target(stateStopped).Do("recordStop").
			Done().
		State(stateValidate).
			OnEntry("logEntry").
			On(EventNext).Target(stateSubmit).
			On(EventStop).Target(stateStopped).Do("recordStop").
			Done().
		State(stateSubmit).
			OnEntry("logEntry").
			On(EventNext).Target(stateUpdate).
			On(EventStop).Target(stateStopped).Do("recordStop").
			Done().
		State(stateUpdate).
			OnEntry("logEntry").
			On(EventLoop).Target(stateSelectEdge).Guard("canContinue").
			On(EventStop).Target(stateStopped).Do("recordStop").
			Done().
		State(stateStopped).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}
