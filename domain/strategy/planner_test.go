package strategy

import (
	"testing"

	"github.com/entanglenet/distill-agent/domain/circuit"
	"github.com/entanglenet/distill-agent/domain/game"
)

func scoreWith(difficulty, threshold float64) EdgeScore {
	return EdgeScore{
		EdgeID:     game.NewEdgeID("a", "b"),
		Difficulty: difficulty,
		Threshold:  threshold,
	}
}

func TestDefaultPairPolicy(t *testing.T) {
	tests := []struct {
		name       string
		difficulty float64
		threshold  float64
		budget     int
		attempt    int
		want       int
	}{
		{name: "easy edge", difficulty: 2, threshold: 0.8, budget: 100, attempt: 0, want: 2},
		{name: "medium edge", difficulty: 5, threshold: 0.8, budget: 100, attempt: 0, want: 3},
		{name: "hard edge", difficulty: 8, threshold: 0.8, budget: 100, attempt: 0, want: 4},
		{name: "high threshold bump", difficulty: 5, threshold: 0.9, budget: 100, attempt: 0, want: 4},
		{name: "extreme threshold double bump", difficulty: 5, threshold: 0.95, budget: 100, attempt: 0, want: 5},
		{name: "retry escalation", difficulty: 2, threshold: 0.8, budget: 100, attempt: 2, want: 4},
		{name: "game ceiling", difficulty: 9, threshold: 0.95, budget: 100, attempt: 4, want: 8},
		{name: "half budget cap", difficulty: 9, threshold: 0.95, budget: 10, attempt: 0, want: 5},
		{name: "protocol floor", difficulty: 2, threshold: 0.7, budget: 2, attempt: 0, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultPairPolicy(scoreWith(tt.difficulty, tt.threshold), tt.budget, tt.attempt)
			if got != tt.want {
				t.Errorf("DefaultPairPolicy(d=%.0f t=%.2f budget=%d attempt=%d) = %d, want %d",
					tt.difficulty, tt.threshold, tt.budget, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestPairCountAlwaysInGameBounds(t *testing.T) {
	p := NewPlanner(false)
	for d := 1.0; d <= 10; d++ {
		for _, th := range []float64{0.7, 0.85, 0.9, 0.95, 0.99} {
			for _, budget := range []int{2, 5, 10, 50, 200} {
				for attempt := 0; attempt < 6; attempt++ {
					got := p.PairCount(scoreWith(d, th), budget, attempt)
					if got < circuit.MinPairs || got > circuit.MaxPairs {
						t.Fatalf("PairCount(d=%.0f t=%.2f budget=%d attempt=%d) = %d, out of [%d, %d]",
							d, th, budget, attempt, got, circuit.MinPairs, circuit.MaxPairs)
					}
				}
			}
		}
	}
}

func TestDefaultProtocolPolicy(t *testing.T) {
	tests := []struct {
		name         string
		preferDejmps bool
		difficulty   float64
		threshold    float64
		attempt      int
		want         circuit.Protocol
	}{
		{name: "easy first attempt", difficulty: 3, threshold: 0.8, attempt: 0, want: circuit.ProtocolBBPSSW},
		{name: "hard target goes dejmps", difficulty: 8, threshold: 0.8, attempt: 0, want: circuit.ProtocolDEJMPS},
		{name: "high threshold goes dejmps", difficulty: 3, threshold: 0.92, attempt: 0, want: circuit.ProtocolDEJMPS},
		{name: "configured preference", preferDejmps: true, difficulty: 3, threshold: 0.8, attempt: 0, want: circuit.ProtocolDEJMPS},
		{name: "first retry alternates", difficulty: 3, threshold: 0.8, attempt: 1, want: circuit.ProtocolDEJMPS},
		{name: "second retry alternates back", difficulty: 3, threshold: 0.8, attempt: 2, want: circuit.ProtocolBBPSSW},
		{name: "third retry", difficulty: 3, threshold: 0.8, attempt: 3, want: circuit.ProtocolDEJMPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultProtocolPolicy(tt.preferDejmps)
			got := policy(scoreWith(tt.difficulty, tt.threshold), tt.attempt)
			if got != tt.want {
				t.Errorf("protocol = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlannerCustomPolicies(t *testing.T) {
	p := NewPlanner(false,
		WithPairPolicy(func(EdgeScore, int, int) int { return 7 }),
		WithProtocolPolicy(func(EdgeScore, int) circuit.Protocol { return circuit.ProtocolDEJMPS }),
	)

	if got := p.PairCount(scoreWith(2, 0.7), 100, 0); got != 7 {
		t.Errorf("PairCount() = %d, want injected 7", got)
	}
	if got := p.Protocol(scoreWith(2, 0.7), 0); got != circuit.ProtocolDEJMPS {
		t.Errorf("Protocol() = %s, want injected dejmps", got)
	}
}
