package gameclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entanglenet/distill-agent/domain/game"
)

// Wire representations. The server encodes an edge identifier as a
// two-element array of node IDs; the domain model uses a normalized pair.

type wireNode struct {
	NodeID         string `json:"node_id"`
	UtilityQubits  int    `json:"utility_qubits"`
	BonusBellPairs int    `json:"bonus_bell_pairs"`
}

type wireEdge struct {
	EdgeID     [2]string `json:"edge_id"`
	Difficulty float64   `json:"difficulty_rating"`
	Threshold  float64   `json:"base_threshold"`
}

type wireGraph struct {
	Nodes []wireNode `json:"nodes"`
	Edges []wireEdge `json:"edges"`
}

type wireStatus struct {
	Budget       int         `json:"budget"`
	Score        int         `json:"score"`
	OwnedNodes   []string    `json:"owned_nodes"`
	OwnedEdges   [][2]string `json:"owned_edges"`
	IsActive     bool        `json:"is_active"`
	StartingNode string      `json:"starting_node"`
}

type wireClaimRequest struct {
	PlayerID     string    `json:"player_id"`
	EdgeID       [2]string `json:"edge_id"`
	NumBellPairs int       `json:"num_bell_pairs"`
	CircuitQASM  string    `json:"circuit_qasm"`
	FlagBit      int       `json:"flag_bit"`
}

type wireClaimResponse struct {
	Fidelity           float64 `json:"fidelity"`
	SuccessProbability float64 `json:"success_probability"`
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Nodes    int    `json:"nodes_owned"`
}

// Register registers the player and stores the returned API token on the
// client for subsequent authenticated calls.
func (c *Client) Register(ctx context.Context, name string) error {
	env, err := c.post(ctx, "/v1/register", map[string]string{
		"player_id": c.playerID,
		"name":      name,
	}, false)
	if err != nil {
		return classify(err)
	}
	if env.Error != nil {
		return env.Error
	}

	var data struct {
		APIToken string `json:"api_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode register response: %w", err)
	}
	if data.APIToken == "" {
		return &game.APIError{Code: game.CodeNoToken, Message: "registration returned no token"}
	}
	c.apiToken = data.APIToken
	return nil
}

// SelectStartingNode claims the initial node for a freshly registered player.
func (c *Client) SelectStartingNode(ctx context.Context, node game.NodeID) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	env, err := c.post(ctx, "/v1/select_starting_node", map[string]string{
		"player_id": c.playerID,
		"node_id":   string(node),
	}, false)
	if err != nil {
		return classify(err)
	}
	if env.Error != nil {
		return env.Error
	}
	return nil
}

// Restart resets the player's game to its initial state.
func (c *Client) Restart(ctx context.Context) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	env, err := c.post(ctx, "/v1/restart", map[string]string{
		"player_id": c.playerID,
	}, false)
	if err != nil {
		return classify(err)
	}
	if env.Error != nil {
		return env.Error
	}

	// The cached graph stays valid across a restart; ownership does not.
	return nil
}

// Status fetches the player's current budget, score, and holdings.
func (c *Client) Status(ctx context.Context) (game.Status, error) {
	if err := c.requireToken(); err != nil {
		return game.Status{}, err
	}
	data, err := c.get(ctx, "/v1/status/"+c.playerID)
	if err != nil {
		return game.Status{}, classify(err)
	}

	var ws wireStatus
	if err := json.Unmarshal(data, &ws); err != nil {
		return game.Status{}, fmt.Errorf("decode status: %w", err)
	}

	status := game.Status{
		Budget:       ws.Budget,
		Score:        ws.Score,
		Active:       ws.IsActive,
		StartingNode: game.NodeID(ws.StartingNode),
	}
	for _, n := range ws.OwnedNodes {
		status.OwnedNodes = append(status.OwnedNodes, game.NodeID(n))
	}
	for _, e := range ws.OwnedEdges {
		status.OwnedEdges = append(status.OwnedEdges, game.NewEdgeID(game.NodeID(e[0]), game.NodeID(e[1])))
	}
	return status, nil
}

// Graph fetches the network graph. The topology is fixed for the lifetime of
// a game, so the first successful fetch is cached and reused.
func (c *Client) Graph(ctx context.Context) (*game.Graph, error) {
	c.mu.Lock()
	cached := c.cachedGraph
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	data, err := c.get(ctx, "/v1/graph")
	if err != nil {
		return nil, classify(err)
	}

	var wg wireGraph
	if err := json.Unmarshal(data, &wg); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	nodes := make([]game.Node, 0, len(wg.Nodes))
	for _, n := range wg.Nodes {
		nodes = append(nodes, game.Node{
			ID:             game.NodeID(n.NodeID),
			UtilityQubits:  n.UtilityQubits,
			BonusBellPairs: n.BonusBellPairs,
		})
	}
	edges := make([]game.EdgeCandidate, 0, len(wg.Edges))
	for _, e := range wg.Edges {
		edges = append(edges, game.EdgeCandidate{
			ID:         game.NewEdgeID(game.NodeID(e.EdgeID[0]), game.NodeID(e.EdgeID[1])),
			Difficulty: e.Difficulty,
			Threshold:  e.Threshold,
		})
	}

	graph, err := game.NewGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	c.mu.Lock()
	c.cachedGraph = graph
	c.mu.Unlock()
	return graph, nil
}

// ClaimableEdges returns the frontier of edges with exactly one owned
// endpoint, given the current status.
func (c *Client) ClaimableEdges(ctx context.Context, status game.Status) ([]game.EdgeCandidate, error) {
	graph, err := c.Graph(ctx)
	if err != nil {
		return nil, err
	}
	return graph.ClaimableEdges(status.OwnedSet()), nil
}

// Leaderboard fetches the public leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	data, err := c.get(ctx, "/v1/leaderboard")
	if err != nil {
		return nil, classify(err)
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}

// ClaimEdge submits a distillation circuit for an edge. Transport failures
// are returned as a failed ClaimResult rather than an error so the decision
// loop can record the outcome and move on.
func (c *Client) ClaimEdge(ctx context.Context, edge game.EdgeID, qasm string, flagBit, numPairs int) game.ClaimResult {
	if err := c.requireToken(); err != nil {
		return game.FailedClaim(game.CodeNoToken, "not registered: no API token")
	}

	env, err := c.post(ctx, "/v1/claim_edge", wireClaimRequest{
		PlayerID:     c.playerID,
		EdgeID:       [2]string{string(edge.A), string(edge.B)},
		NumBellPairs: numPairs,
		CircuitQASM:  qasm,
		FlagBit:      flagBit,
	}, true)
	if err != nil {
		apiErr := classify(err)
		return game.ClaimResult{OK: false, Err: apiErr}
	}
	if env.Error != nil {
		return game.ClaimResult{OK: false, Err: env.Error}
	}

	var wc wireClaimResponse
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &wc); err != nil {
			return game.FailedClaim(game.CodeRequestFailed, "decode claim response: "+err.Error())
		}
	}
	return game.ClaimResult{
		OK:                 env.OK,
		Fidelity:           wc.Fidelity,
		SuccessProbability: wc.SuccessProbability,
	}
}

func (c *Client) requireToken() error {
	if c.apiToken == "" {
		return &game.APIError{Code: game.CodeNotRegistered, Message: "register before calling authenticated endpoints"}
	}
	return nil
}
