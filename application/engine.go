// Package application provides the application layer: the engine that
// drives the decision loop from edge selection through claim submission.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/entanglenet/distill-agent/domain/circuit"
	"github.com/entanglenet/distill-agent/domain/config"
	"github.com/entanglenet/distill-agent/domain/estimator"
	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/domain/ledger"
	"github.com/entanglenet/distill-agent/domain/session"
	"github.com/entanglenet/distill-agent/domain/strategy"
	"github.com/entanglenet/distill-agent/infrastructure/logging"
	"github.com/entanglenet/distill-agent/infrastructure/statemachine"
)

// GameClient is the engine's view of the game server.
type GameClient interface {
	// Status fetches the player's current budget, score, and holdings.
	Status(ctx context.Context) (game.Status, error)
	// Graph fetches the network graph.
	Graph(ctx context.Context) (*game.Graph, error)
	// ClaimableEdges returns the frontier for the given status.
	ClaimableEdges(ctx context.Context, status game.Status) ([]game.EdgeCandidate, error)
	// ClaimEdge submits a distillation circuit for an edge.
	ClaimEdge(ctx context.Context, edge game.EdgeID, qasm string, flagBit, numPairs int) game.ClaimResult
}

// BuildFunc builds a distillation circuit, returning the circuit and its
// flag bit. Injected so tests can substitute deterministic circuits.
type BuildFunc func(p circuit.Protocol, numPairs int) (*circuit.Circuit, int, error)

// Engine orchestrates one game session: it ranks the claim frontier, admits
// attempts against the budget, plans resources, gates submissions on the
// local estimate, and executes claims until a stop condition fires.
type Engine struct {
	client    GameClient
	cfg       config.Config
	scorer    *strategy.Scorer
	budget    *strategy.BudgetManager
	planner   *strategy.Planner
	estimator *estimator.Estimator
	build     BuildFunc

	sessionID string
	ledger    *ledger.Ledger
	store     ledger.Store
	graph     *game.Graph
}

// EngineConfig contains configuration for the engine.
type EngineConfig struct {
	// Client is the game server client. Required.
	Client GameClient
	// Config is the agent configuration; the default preset is used when
	// zero-valued fields would make the run degenerate.
	Config config.Config
	// SessionID identifies the session; generated when empty.
	SessionID string
	// Store optionally persists the session ledger at termination.
	Store ledger.Store
	// Build overrides the circuit builder.
	Build BuildFunc
	// History optionally injects a pre-populated attempt history.
	History *strategy.AttemptHistory
}

// NewEngine creates an engine wired from the configuration.
func NewEngine(ec EngineConfig) (*Engine, error) {
	if ec.Client == nil {
		return nil, errors.New("client is required")
	}
	if err := ec.Config.Validate(); err != nil {
		return nil, err
	}

	sessionID := ec.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	build := ec.Build
	if build == nil {
		build = circuit.Build
	}

	return &Engine{
		client:    ec.Client,
		cfg:       ec.Config,
		scorer:    strategy.NewScorer(ec.Config.Strategy),
		budget:    strategy.NewBudgetManager(ec.Config.Budget.MinReserve, ec.Config.Budget.MaxRetriesPerEdge, ec.Config.Budget.RiskTolerance, ec.History),
		planner:   strategy.NewPlanner(ec.Config.Planner.PreferDejmps),
		estimator: estimator.New(),
		build:     build,
		sessionID: sessionID,
		ledger:    ledger.New(sessionID),
		store:     ec.Store,
	}, nil
}

// SessionID returns the engine's session identifier.
func (e *Engine) SessionID() string { return e.sessionID }

// Ledger returns the session ledger.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Run executes the autonomous decision loop until a stop condition fires or
// the context is cancelled, and returns the run summary. Cancellation is
// honored at the top of each iteration; an in-flight submission completes.
func (e *Engine) Run(ctx context.Context) (session.Summary, error) {
	st, err := e.initialState(ctx)
	if err != nil {
		return session.Summary{}, err
	}

	machine, err := statemachine.NewDecisionMachine()
	if err != nil {
		return session.Summary{}, fmt.Errorf("build decision machine: %w", err)
	}
	interp := statemachine.NewInterpreter(machine, statemachine.NewContext(e.sessionID, &st, e.ledger))
	interp.Start()
	defer interp.Stop()

	e.ledger.Append(ledger.NewEntry(ledger.EntrySessionStarted, 0, "", nil))
	logging.Info().
		Add(logging.SessionID(e.sessionID)).
		Add(logging.Budget(st.Budget)).
		Add(logging.Score(st.Score)).
		Msg("session started")

	for {
		if err := ctx.Err(); err != nil {
			st = st.WithAction(session.ActionStop, "context cancelled")
		}
		if st.Action == session.ActionStop {
			interp.Terminate()
			break
		}

		st = e.runIteration(ctx, st, interp)

		if st.Action == session.ActionContinue {
			interp.Loop()
			continue
		}
		if st.Action == session.ActionSkip {
			// Skips abandon the edge, not the session.
			st = st.ClearSelection().WithAction(session.ActionContinue, "")
			interp.Loop()
			continue
		}
		interp.Terminate()
		break
	}

	summary := st.Summarize()
	logging.Info().
		Add(logging.SessionID(e.sessionID)).
		Add(logging.Score(summary.FinalScore)).
		Add(logging.Budget(summary.FinalBudget)).
		Add(logging.Reason(summary.StopReason)).
		Msg("session stopped")

	if e.store != nil {
		if err := e.ledger.Flush(ctx, e.store); err != nil {
			logging.Warn().
				Add(logging.SessionID(e.sessionID)).
				Add(logging.ErrorField(err)).
				Msg("ledger flush failed")
		}
	}
	return summary, nil
}

// initialState fetches the graph and status and builds the first state.
func (e *Engine) initialState(ctx context.Context) (session.DecisionState, error) {
	graph, err := e.client.Graph(ctx)
	if err != nil {
		return session.DecisionState{}, fmt.Errorf("fetch graph: %w", err)
	}
	e.graph = graph

	status, err := e.client.Status(ctx)
	if err != nil {
		return session.DecisionState{}, fmt.Errorf("fetch status: %w", err)
	}
	claimable, err := e.client.ClaimableEdges(ctx, status)
	if err != nil {
		return session.DecisionState{}, fmt.Errorf("fetch claimable edges: %w", err)
	}
	return session.NewDecisionState(status, claimable), nil
}

// runIteration advances the state through one full pass of the pipeline,
// stepping the statechart in lockstep. Once a stage sets a skip or stop, the
// remaining stages pass through untouched; bookkeeping always runs.
func (e *Engine) runIteration(ctx context.Context, st session.DecisionState, interp *statemachine.Interpreter) session.DecisionState {
	st = st.ClearSelection()

	st = e.selectEdge(st)
	interp.Advance()

	if st.Action == session.ActionContinue {
		st = e.allocateResources(st)
	}
	interp.Advance()

	if st.Action == session.ActionContinue {
		st = e.chooseProtocol(st)
	}
	interp.Advance()

	if st.Action == session.ActionContinue {
		st = e.validateLocally(st)
	}
	interp.Advance()

	if st.Action == session.ActionContinue {
		st = e.submit(ctx, st)
	}
	interp.Advance()

	return e.updateBookkeeping(ctx, st)
}

// selectEdge proposes the best-ranked frontier edge and runs it past the
// budget manager. An admission rejection abandons the iteration, not the
// session: the next pass sees a refreshed frontier and risk tolerance.
func (e *Engine) selectEdge(st session.DecisionState) session.DecisionState {
	if len(st.ClaimableEdges) == 0 {
		return st.WithAction(session.ActionStop, "no claimable edges")
	}

	if e.cfg.Budget.AdaptiveRisk {
		before := e.budget.RiskTolerance()
		e.budget.AdjustRiskTolerance(st.Budget, st.InitialBudget)
		if after := e.budget.RiskTolerance(); after != before {
			e.ledger.Append(ledger.NewEntry(ledger.EntryRiskAdjusted, st.Iteration, "", ledger.RiskDetails{
				Budget:        st.Budget,
				InitialBudget: st.InitialBudget,
				RiskTolerance: after,
			}))
			logging.Debug().
				Add(logging.SessionID(e.sessionID)).
				Add(logging.RiskTolerance(after)).
				Msg("risk tolerance adjusted")
		}
	}

	best, ok := e.scorer.SelectBest(st.ClaimableEdges, e.graph, st.OwnedSet(), st.Budget, e.budget.MinReserve())
	if !ok {
		return st.WithAction(session.ActionStop, "no affordable edges")
	}

	admitted, reason := e.budget.ShouldAttempt(best, st.Budget)
	if !admitted {
		e.ledger.Append(ledger.NewEntry(ledger.EntryEdgeSkipped, st.Iteration, best.EdgeID.String(), ledger.SkipDetails{
			Reason: reason,
		}))
		logging.Info().
			Add(logging.SessionID(e.sessionID)).
			Add(logging.EdgeID(best.EdgeID)).
			Add(logging.Reason(reason)).
			Msg("edge not admitted")
		return st.WithAction(session.ActionSkip, reason)
	}

	st.Selected = &best
	e.ledger.Append(ledger.NewEntry(ledger.EntryEdgeSelected, st.Iteration, best.EdgeID.String(), nil))
	logging.Info().
		Add(logging.SessionID(e.sessionID)).
		Add(logging.Iteration(st.Iteration)).
		Add(logging.EdgeID(best.EdgeID)).
		Add(logging.Priority(best.Priority)).
		Add(logging.ROI(best.ROI)).
		Msg("edge selected")
	return st
}

// allocateResources decides the Bell-pair commitment for the attempt.
func (e *Engine) allocateResources(st session.DecisionState) session.DecisionState {
	attempt := 0
	if e.cfg.Planner.AdaptivePairs {
		attempt = e.budget.AttemptCount(st.Selected.EdgeID)
	}

	st.NumPairs = e.planner.PairCount(*st.Selected, st.Budget, attempt)
	if st.NumPairs > st.Budget {
		return st.WithAction(session.ActionStop,
			fmt.Sprintf("budget (%d) cannot cover a minimum attempt (%d pairs)", st.Budget, st.NumPairs))
	}
	return st
}

// chooseProtocol picks the protocol and builds the distillation circuit.
func (e *Engine) chooseProtocol(st session.DecisionState) session.DecisionState {
	attempt := e.budget.AttemptCount(st.Selected.EdgeID)
	st.Protocol = e.planner.Protocol(*st.Selected, attempt)

	c, flagBit, err := e.build(st.Protocol, st.NumPairs)
	if err != nil {
		return st.WithAction(session.ActionStop,
			fmt.Sprintf("build %s circuit for %d pairs: %v", st.Protocol, st.NumPairs, err))
	}
	st.Circuit = c
	st.FlagBit = flagBit

	logging.Debug().
		Add(logging.SessionID(e.sessionID)).
		Add(logging.EdgeID(st.Selected.EdgeID)).
		Add(logging.Protocol(st.Protocol)).
		Add(logging.Pairs(st.NumPairs)).
		Msg("attempt planned")
	return st
}

// validateLocally gates the submission on the analytical estimate.
func (e *Engine) validateLocally(st session.DecisionState) session.DecisionState {
	if !e.cfg.Simulation.Enabled {
		st.Verdict = estimator.Verdict{Submit: true, Reason: "local gate disabled"}
		return st
	}

	noise := estimator.NoiseFromDifficulty(st.Selected.Difficulty)
	st.Verdict = e.estimator.ShouldSubmit(st.Circuit, st.FlagBit, st.NumPairs, st.Selected.Threshold, noise)
	if st.Verdict.Submit {
		return st
	}

	// A failed gate consumes a retry: repeating the identical attempt would
	// fail the same way, and the counter moves the planner to escalate.
	e.budget.RecordAttempt(st.Selected.EdgeID, false, 0)
	st.FailedAttempts++
	e.ledger.Append(ledger.NewEntry(ledger.EntryEdgeSkipped, st.Iteration, st.Selected.EdgeID.String(), ledger.SkipDetails{
		Reason: st.Verdict.Reason,
	}))
	logging.Info().
		Add(logging.SessionID(e.sessionID)).
		Add(logging.EdgeID(st.Selected.EdgeID)).
		Add(logging.Reason(st.Verdict.Reason)).
		Msg("submission gated")
	return st.WithAction(session.ActionSkip, st.Verdict.Reason)
}

// submit executes the claim against the game server.
func (e *Engine) submit(ctx context.Context, st session.DecisionState) session.DecisionState {
	edgeID := st.Selected.EdgeID
	e.ledger.Append(ledger.NewEntry(ledger.EntryClaimSubmitted, st.Iteration, edgeID.String(), ledger.ClaimDetails{
		Protocol:    string(st.Protocol),
		NumPairs:    st.NumPairs,
		Fidelity:    st.Verdict.Fidelity,
		SuccessProb: st.Verdict.SuccessProb,
	}))

	result := e.client.ClaimEdge(ctx, edgeID, st.Circuit.QASM(), st.FlagBit, st.NumPairs)
	st.ExecutionResult = result
	st.ExecutionSuccess = result.OK
	e.budget.RecordAttempt(edgeID, result.OK, st.NumPairs)

	if result.OK {
		st.SuccessfulClaims++
		e.budget.ResetAttempts(edgeID)
		e.ledger.Append(ledger.NewEntry(ledger.EntryClaimSucceeded, st.Iteration, edgeID.String(), ledger.ClaimDetails{
			Protocol: string(st.Protocol),
			NumPairs: st.NumPairs,
		}))
		logging.Info().
			Add(logging.SessionID(e.sessionID)).
			Add(logging.EdgeID(edgeID)).
			Add(logging.Fidelity(result.Fidelity)).
			Add(logging.SuccessProb(result.SuccessProbability)).
			Msg("claim succeeded")
		return st
	}

	st.FailedAttempts++
	details := ledger.ClaimDetails{Protocol: string(st.Protocol), NumPairs: st.NumPairs}
	if result.Err != nil {
		details.ErrorCode = result.Err.Code
		details.Error = result.Err.Message
	}
	e.ledger.Append(ledger.NewEntry(ledger.EntryClaimFailed, st.Iteration, edgeID.String(), details))
	logging.Warn().
		Add(logging.SessionID(e.sessionID)).
		Add(logging.EdgeID(edgeID)).
		Add(logging.Reason(details.Error)).
		Msg("claim failed")
	return st
}

// updateBookkeeping refreshes the game snapshot and evaluates stop
// conditions. A stop set earlier in the pipeline is preserved.
func (e *Engine) updateBookkeeping(ctx context.Context, st session.DecisionState) session.DecisionState {
	st.Iteration++

	if st.Action == session.ActionStop {
		return st
	}

	status, err := e.client.Status(ctx)
	if err != nil {
		return st.WithAction(session.ActionStop, "status refresh failed: "+err.Error())
	}
	claimable, err := e.client.ClaimableEdges(ctx, status)
	if err != nil {
		return st.WithAction(session.ActionStop, "frontier refresh failed: "+err.Error())
	}

	st.Budget = status.Budget
	st.Score = status.Score
	st.OwnedNodes = status.OwnedNodes
	st.OwnedEdges = status.OwnedEdges
	st.ClaimableEdges = claimable

	switch {
	case !status.Active:
		return st.WithAction(session.ActionStop, "player no longer active")
	case st.Budget <= e.budget.MinReserve():
		return st.WithAction(session.ActionStop,
			fmt.Sprintf("budget (%d) at reserve floor (%d)", st.Budget, e.budget.MinReserve()))
	case len(st.ClaimableEdges) == 0:
		return st.WithAction(session.ActionStop, "no claimable edges")
	case e.cfg.MaxIterations > 0 && st.Iteration >= e.cfg.MaxIterations:
		return st.WithAction(session.ActionStop,
			fmt.Sprintf("iteration cap (%d) reached", e.cfg.MaxIterations))
	}
	return st
}
