package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// Interpreter wraps the statekit interpreter with loop-specific helpers.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates an interpreter for the decision-loop machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{interp: interp, ctx: ctx}
}

// Start enters the initial stage.
func (i *Interpreter) Start() {
	i.interp.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Stage returns the current pipeline stage.
func (i *Interpreter) Stage() Stage {
	return Stage(i.interp.State().Value)
}

// Advance moves to the next pipeline stage.
func (i *Interpreter) Advance() {
	i.interp.Send(statekit.Event{Type: EventNext})
}

// Loop returns from bookkeeping to edge selection. The transition is
// guarded; if the decision state no longer says continue, the chart stays
// put and the caller should Terminate instead.
func (i *Interpreter) Loop() {
	i.interp.Send(statekit.Event{Type: EventLoop})
}

// Terminate moves to the terminal stage.
func (i *Interpreter) Terminate() {
	i.interp.Send(statekit.Event{Type: EventStop})
}

// IsTerminal returns true once the chart reached its final stage.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}
