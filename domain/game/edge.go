// Package game provides the domain model for the graph-claiming game:
// nodes, edges, player status, and the network graph index.
package game

// NodeID identifies a node in the quantum network graph.
type NodeID string

// EdgeID is an unordered pair of node identifiers. Construct it with
// NewEdgeID so that the two representations of the same edge compare equal.
type EdgeID struct {
	A NodeID `json:"a"`
	B NodeID `json:"b"`
}

// NewEdgeID creates a normalized edge identifier. The lower node ID is
// always stored first.
func NewEdgeID(a, b NodeID) EdgeID {
	if b < a {
		a, b = b, a
	}
	return EdgeID{A: a, B: b}
}

// String returns the canonical "a-b" form of the edge identifier.
func (e EdgeID) String() string {
	return string(e.A) + "-" + string(e.B)
}

// Contains returns true if the edge touches the given node.
func (e EdgeID) Contains(n NodeID) bool {
	return e.A == n || e.B == n
}

// Other returns the endpoint opposite to the given node. If the node is not
// an endpoint, the zero NodeID is returned.
func (e EdgeID) Other(n NodeID) NodeID {
	switch n {
	case e.A:
		return e.B
	case e.B:
		return e.A
	default:
		return ""
	}
}

// EdgeCandidate is an immutable snapshot of a claimable edge as reported by
// the game server. It is recomputed on every scoring pass and never persisted.
type EdgeCandidate struct {
	// ID identifies the edge.
	ID EdgeID `json:"edge_id"`
	// Difficulty is the server-assigned difficulty rating (1-10).
	Difficulty float64 `json:"difficulty_rating"`
	// Threshold is the minimum fidelity required to claim the edge (0.5-0.99).
	Threshold float64 `json:"base_threshold"`
}
