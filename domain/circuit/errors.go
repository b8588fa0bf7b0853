package circuit

import "errors"

// Domain errors for circuit construction.
var (
	// ErrInvalidPairCount indicates a pair count outside the supported [2,8] range.
	ErrInvalidPairCount = errors.New("pair count out of range")

	// ErrUnknownProtocol indicates an unrecognized protocol name.
	ErrUnknownProtocol = errors.New("unknown protocol")
)
