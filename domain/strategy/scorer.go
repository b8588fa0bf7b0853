// Package strategy implements the decision policies of the agent: edge
// scoring and ranking, budget admission control, and attempt planning.
// Constants are tuned for the game's mechanics; adjust if the rules change.
package strategy

import (
	"math"
	"sort"

	"github.com/entanglenet/distill-agent/domain/game"
)

// Game constraints and scoring heuristics.
const (
	difficultyScale = 10.0
	thresholdMin    = 0.5

	minSuccessProb = 0.1
	maxSuccessProb = 0.95

	// Cost model: a base of two pairs plus linear contributions from
	// normalized difficulty and threshold.
	minBellPairs         = 2.0
	maxBellPairs         = 8.0
	baseCost             = 2.0
	difficultyCostFactor = 3.0
	thresholdCostFactor  = 2.0
)

// Weights tune the priority formula. Aggressive strategies raise Utility,
// conservative ones raise Difficulty and Cost.
type Weights struct {
	Utility     float64 `json:"utility_weight" yaml:"utility_weight"`
	Difficulty  float64 `json:"difficulty_weight" yaml:"difficulty_weight"`
	Cost        float64 `json:"cost_weight" yaml:"cost_weight"`
	SuccessProb float64 `json:"success_prob_weight" yaml:"success_prob_weight"`
}

// DefaultWeights returns the standard weight bundle.
func DefaultWeights() Weights {
	return Weights{Utility: 1.0, Difficulty: 0.5, Cost: 0.3, SuccessProb: 0.4}
}

// EdgeScore is the derived, per-ranking-pass score of a candidate edge.
// Instances are created fresh on every ranking call and never mutated.
type EdgeScore struct {
	EdgeID          game.EdgeID
	Priority        float64
	ExpectedUtility float64
	ExpectedCost    float64
	ROI             float64
	Difficulty      float64
	Threshold       float64
	TargetUtility   int
	SuccessProb     float64
}

// Scorer ranks claimable edges by a multi-factor priority score.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score computes the priority score for one candidate edge. An edge whose
// target node is missing from the graph scores zero rather than erroring.
func (s *Scorer) Score(edge game.EdgeCandidate, g *game.Graph, owned map[game.NodeID]struct{}) EdgeScore {
	target, ok := g.TargetNode(edge.ID, owned)
	if !ok {
		return EdgeScore{
			EdgeID:      edge.ID,
			Difficulty:  edge.Difficulty,
			Threshold:   edge.Threshold,
			SuccessProb: 0.5,
		}
	}

	successProb := estimateSuccessProbability(edge.Difficulty, edge.Threshold)
	cost := estimateBellPairCost(edge.Difficulty, edge.Threshold)

	// Bonus pairs are budget, not score, so they count at half weight.
	expectedUtility := (float64(target.UtilityQubits) + 0.5*float64(target.BonusBellPairs)) * successProb
	roi := expectedUtility / math.Max(1, cost)

	priority := s.weights.Utility*float64(target.UtilityQubits) +
		s.weights.SuccessProb*successProb*10 -
		s.weights.Difficulty*edge.Difficulty -
		s.weights.Cost*cost +
		roi*2.0

	return EdgeScore{
		EdgeID:          edge.ID,
		Priority:        priority,
		ExpectedUtility: expectedUtility,
		ExpectedCost:    cost,
		ROI:             roi,
		Difficulty:      edge.Difficulty,
		Threshold:       edge.Threshold,
		TargetUtility:   target.UtilityQubits,
		SuccessProb:     successProb,
	}
}

// Rank scores all candidates and sorts them by priority, highest first.
// Ties break on edge ID so the order is a deterministic total order.
func (s *Scorer) Rank(edges []game.EdgeCandidate, g *game.Graph, owned map[game.NodeID]struct{}) []EdgeScore {
	scores := make([]EdgeScore, 0, len(edges))
	for _, e := range edges {
		scores = append(scores, s.Score(e, g, owned))
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Priority != scores[j].Priority {
			return scores[i].Priority > scores[j].Priority
		}
		return scores[i].EdgeID.String() < scores[j].EdgeID.String()
	})
	return scores
}

// SelectBest returns the highest-priority edge whose estimated cost leaves
// the reserve intact. When no edge does but some budget remains, the top
// edge is returned anyway: the budget manager performs the authoritative
// accept/reject, the selector only proposes.
func (s *Scorer) SelectBest(edges []game.EdgeCandidate, g *game.Graph, owned map[game.NodeID]struct{}, budget, reserve int) (EdgeScore, bool) {
	if len(edges) == 0 {
		return EdgeScore{}, false
	}

	ranked := s.Rank(edges, g, owned)
	for _, score := range ranked {
		if float64(budget)-score.ExpectedCost >= float64(reserve) {
			return score, true
		}
	}

	if budget > 0 {
		return ranked[0], true
	}
	return EdgeScore{}, false
}

// estimateSuccessProbability is the cheap ranking heuristic used before any
// circuit exists: success falls linearly with difficulty and with the
// distance of the threshold from its minimum.
func estimateSuccessProbability(difficulty, threshold float64) float64 {
	base := 1.0 - difficulty/difficultyScale*0.5
	penalty := (threshold - thresholdMin) * 0.3
	return clamp(base-penalty, minSuccessProb, maxSuccessProb)
}

// estimateBellPairCost predicts how many pairs an attempt will consume. The
// value may be fractional; it is an expectation, not an allocation.
func estimateBellPairCost(difficulty, threshold float64) float64 {
	cost := baseCost +
		difficulty/difficultyScale*difficultyCostFactor +
		(threshold-thresholdMin)*2.0*thresholdCostFactor
	return clamp(cost, minBellPairs, maxBellPairs)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
