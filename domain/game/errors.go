package game

import "errors"

// Domain errors for the game model.
var (
	// ErrUnknownNode indicates a node ID that is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge indicates an edge ID that is not part of the graph.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateEdge indicates the same edge was supplied twice.
	ErrDuplicateEdge = errors.New("duplicate edge")
)
