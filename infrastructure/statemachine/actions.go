package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/entanglenet/distill-agent/domain/ledger"
	"github.com/entanglenet/distill-agent/infrastructure/logging"
)

// logStageEntry logs stage entry at debug level. Statekit actions receive a
// pointer to the context; since the context is *Context, that is **Context.
func logStageEntry(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).State == nil {
		return
	}
	c := *ctx
	logging.Debug().
		Add(logging.SessionID(c.SessionID)).
		Add(logging.Iteration(c.State.Iteration)).
		Add(logging.Action(c.State.Action)).
		Msg("stage entered")
}

// recordStop appends the terminal summary entry to the session ledger.
func recordStop(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).State == nil || (*ctx).Ledger == nil {
		return
	}
	c := *ctx
	st := c.State
	c.Ledger.Append(ledger.NewEntry(ledger.EntrySessionStopped, st.Iteration, "", ledger.StopDetails{
		Reason:           st.StopReason,
		SuccessfulClaims: st.SuccessfulClaims,
		FailedAttempts:   st.FailedAttempts,
		FinalBudget:      st.Budget,
		FinalScore:       st.Score,
	}))
}
