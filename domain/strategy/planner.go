package strategy

import "github.com/entanglenet/distill-agent/domain/circuit"

// PairPolicy decides how many Bell pairs to commit to an attempt.
type PairPolicy func(score EdgeScore, currentBudget, attemptNumber int) int

// ProtocolPolicy decides which distillation protocol an attempt uses.
type ProtocolPolicy func(score EdgeScore, attemptNumber int) circuit.Protocol

// Planner chooses the Bell-pair count and protocol per attempt. Both choices
// are pluggable policies so alternative heuristics can be substituted
// without touching the decision loop.
type Planner struct {
	pairs    PairPolicy
	protocol ProtocolPolicy
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPairPolicy replaces the pair-count policy.
func WithPairPolicy(p PairPolicy) PlannerOption {
	return func(pl *Planner) { pl.pairs = p }
}

// WithProtocolPolicy replaces the protocol policy.
func WithProtocolPolicy(p ProtocolPolicy) PlannerOption {
	return func(pl *Planner) { pl.protocol = p }
}

// NewPlanner creates a planner with the default adaptive policies.
func NewPlanner(preferDejmps bool, opts ...PlannerOption) *Planner {
	pl := &Planner{
		pairs:    DefaultPairPolicy,
		protocol: DefaultProtocolPolicy(preferDejmps),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// PairCount returns the number of pairs for the attempt, always in [2,8].
func (p *Planner) PairCount(score EdgeScore, currentBudget, attemptNumber int) int {
	return p.pairs(score, currentBudget, attemptNumber)
}

// Protocol returns the protocol for the attempt.
func (p *Planner) Protocol(score EdgeScore, attemptNumber int) circuit.Protocol {
	return p.protocol(score, attemptNumber)
}

// DefaultPairPolicy escalates resources with difficulty, threshold, and
// retry count, capped at half the remaining budget and the 8-pair game
// ceiling, floored at the 2-pair protocol minimum.
func DefaultPairPolicy(score EdgeScore, currentBudget, attemptNumber int) int {
	var pairs int
	switch {
	case score.Difficulty <= 3:
		pairs = 2
	case score.Difficulty <= 6:
		pairs = 3
	default:
		pairs = 4
	}

	pairs += attemptNumber

	if score.Threshold > 0.85 {
		pairs++
	}
	if score.Threshold > 0.92 {
		pairs++
	}

	// Never commit more than half the remaining budget to one attempt.
	if affordable := min(currentBudget/2, circuit.MaxPairs); pairs > affordable {
		pairs = affordable
	}
	if pairs < circuit.MinPairs {
		pairs = circuit.MinPairs
	}
	return pairs
}

// DefaultProtocolPolicy prefers DEJMPS for hard targets on the first attempt
// and alternates protocols on retries: if one protocol failed, trying the
// other is more informative than repeating it.
func DefaultProtocolPolicy(preferDejmps bool) ProtocolPolicy {
	return func(score EdgeScore, attemptNumber int) circuit.Protocol {
		if attemptNumber == 0 {
			if score.Difficulty >= 7 || score.Threshold >= 0.9 {
				return circuit.ProtocolDEJMPS
			}
			if preferDejmps {
				return circuit.ProtocolDEJMPS
			}
			return circuit.ProtocolBBPSSW
		}

		if attemptNumber%2 == 0 {
			return circuit.ProtocolBBPSSW
		}
		return circuit.ProtocolDEJMPS
	}
}
