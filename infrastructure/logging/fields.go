package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/entanglenet/distill-agent/domain/circuit"
	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/domain/session"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for the decision loop.

// SessionID adds a session ID field.
func SessionID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("session_id", id)
	}
}

// Iteration adds an iteration counter field.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// EdgeID adds an edge identifier field.
func EdgeID(id game.EdgeID) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("edge", id.String())
	}
}

// Protocol adds a protocol field.
func Protocol(p circuit.Protocol) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("protocol", string(p))
	}
}

// Pairs adds a Bell-pair count field.
func Pairs(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("pairs", n)
	}
}

// Priority adds a priority score field.
func Priority(p float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("priority", p)
	}
}

// ROI adds a return-on-investment field.
func ROI(r float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("roi", r)
	}
}

// Fidelity adds an estimated fidelity field.
func Fidelity(f float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("fidelity", f)
	}
}

// SuccessProb adds an estimated success probability field.
func SuccessProb(p float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("success_prob", p)
	}
}

// Budget adds remaining-budget fields.
func Budget(remaining int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("budget", remaining)
	}
}

// Score adds a score field.
func Score(s int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("score", s)
	}
}

// RiskTolerance adds a risk tolerance field.
func RiskTolerance(r float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("risk_tolerance", r)
	}
}

// Action adds a control action field.
func Action(a session.Action) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", string(a))
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Stage adds a pipeline stage field.
func Stage(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("stage", name)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds a string field with a custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
