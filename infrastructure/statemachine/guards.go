package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/entanglenet/distill-agent/domain/session"
)

// guardCanContinue allows the loop-back edge only while the decision state
// still says continue. Statekit guards receive the context by value; since
// the context is *Context, the guard receives *Context directly.
func guardCanContinue(ctx *Context, _ statekit.Event) bool {
	if ctx == nil || ctx.State == nil {
		return false
	}
	return ctx.State.Action == session.ActionContinue
}
