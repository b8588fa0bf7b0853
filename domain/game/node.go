package game

// Node describes a network node and the reward for connecting to it.
type Node struct {
	// ID identifies the node.
	ID NodeID `json:"node_id"`
	// UtilityQubits is the score reward for owning the node.
	UtilityQubits int `json:"utility_qubits"`
	// BonusBellPairs is the budget refund granted when the node is claimed.
	BonusBellPairs int `json:"bonus_bell_pairs"`
}

// Status is the player's view of the game as returned by a status fetch.
type Status struct {
	// Budget is the remaining Bell-pair budget.
	Budget int `json:"budget"`
	// Score is the current score.
	Score int `json:"score"`
	// OwnedNodes lists the nodes the player owns.
	OwnedNodes []NodeID `json:"owned_nodes"`
	// OwnedEdges lists the edges the player has claimed.
	OwnedEdges []EdgeID `json:"owned_edges"`
	// Active reports whether the player is still in the game.
	Active bool `json:"is_active"`
	// StartingNode is the node selected at registration, if any.
	StartingNode NodeID `json:"starting_node"`
}

// OwnedSet returns the owned nodes as a set for membership tests.
func (s Status) OwnedSet() map[NodeID]struct{} {
	owned := make(map[NodeID]struct{}, len(s.OwnedNodes))
	for _, n := range s.OwnedNodes {
		owned[n] = struct{}{}
	}
	return owned
}
