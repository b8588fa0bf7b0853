package estimator

import "errors"

// Validation errors for circuit checks.
var (
	// ErrQubitCount indicates a circuit sized for the wrong number of pairs.
	ErrQubitCount = errors.New("wrong qubit count")

	// ErrLOCCViolation indicates a two-qubit gate crossing the party boundary.
	ErrLOCCViolation = errors.New("LOCC violation")
)
