package config

import "errors"

// Configuration errors.
var (
	// ErrInvalidConfig indicates a configuration value the agent cannot run with.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownPreset indicates an unrecognized preset name.
	ErrUnknownPreset = errors.New("unknown preset")
)
