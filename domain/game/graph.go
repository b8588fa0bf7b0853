package game

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
)

// Graph is an indexed view of the network graph. The topology is held in an
// lvlath graph for adjacency queries; node rewards and edge requirements are
// kept in side maps keyed by ID. The graph does not change during a game, so
// a Graph is built once per session and read from there on.
type Graph struct {
	topo  *core.Graph
	nodes map[NodeID]Node
	edges map[EdgeID]EdgeCandidate
}

// NewGraph builds a graph index from the node and edge lists of a graph
// fetch. Edge endpoints must reference known nodes.
func NewGraph(nodes []Node, edges []EdgeCandidate) (*Graph, error) {
	topo, _ := core.NewGraph() // cannot fail with zero options
	g := &Graph{
		topo:  topo,
		nodes: make(map[NodeID]Node, len(nodes)),
		edges: make(map[EdgeID]EdgeCandidate, len(edges)),
	}

	for _, n := range nodes {
		if err := g.topo.AddVertex(string(n.ID)); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
		g.nodes[n.ID] = n
	}

	for _, e := range edges {
		id := NewEdgeID(e.ID.A, e.ID.B)
		if _, ok := g.nodes[id.A]; !ok {
			return nil, fmt.Errorf("edge %s: %w: %s", id, ErrUnknownNode, id.A)
		}
		if _, ok := g.nodes[id.B]; !ok {
			return nil, fmt.Errorf("edge %s: %w: %s", id, ErrUnknownNode, id.B)
		}
		if _, ok := g.edges[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, id)
		}
		if _, err := g.topo.AddEdge(string(id.A), string(id.B), 0); err != nil {
			return nil, fmt.Errorf("add edge %s: %w", id, err)
		}
		e.ID = id
		g.edges[id] = e
	}

	return g, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id EdgeID) (EdgeCandidate, bool) {
	e, ok := g.edges[NewEdgeID(id.A, id.B)]
	return e, ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// TargetNode returns the endpoint of the edge that is not yet owned. For a
// claimable edge exactly one endpoint is owned.
func (g *Graph) TargetNode(id EdgeID, owned map[NodeID]struct{}) (Node, bool) {
	target := id.A
	if _, ok := owned[id.A]; ok {
		target = id.B
	}
	return g.Node(target)
}

// ClaimableEdges returns the edges with exactly one endpoint in the owned
// set, ordered by edge ID so that identical inputs yield identical output.
func (g *Graph) ClaimableEdges(owned map[NodeID]struct{}) []EdgeCandidate {
	if len(owned) == 0 {
		return nil
	}

	seen := make(map[EdgeID]struct{})
	var claimable []EdgeCandidate
	for n := range owned {
		adjacent, err := g.topo.Neighbors(string(n))
		if err != nil {
			continue // node not in graph
		}
		for _, e := range adjacent {
			id := NewEdgeID(NodeID(e.From), NodeID(e.To))
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			_, ownsA := owned[id.A]
			_, ownsB := owned[id.B]
			if ownsA == ownsB {
				continue // both or neither endpoint owned
			}
			if candidate, ok := g.edges[id]; ok {
				claimable = append(claimable, candidate)
			}
		}
	}

	sort.Slice(claimable, func(i, j int) bool {
		return claimable[i].ID.String() < claimable[j].ID.String()
	})
	return claimable
}
