package game

// APIError is a structured error returned by the game server or synthesized
// by the transport layer on failure.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes produced by the client and server.
const (
	CodeTimeout        = "TIMEOUT"
	CodeConnection     = "CONNECTION_ERROR"
	CodeHTTP           = "HTTP_ERROR"
	CodeNoToken        = "NO_TOKEN"
	CodeNotRegistered  = "NOT_REGISTERED"
	CodeTransport      = "TRANSPORT_ERROR"
	CodeRequestFailed  = "REQUEST_FAILED"
	CodeCircuitBreaker = "CIRCUIT_OPEN"
)

// Error implements the error interface.
func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// ClaimResult is the outcome of one edge-claim submission. A transport
// failure is a ClaimResult with OK=false and Err set, never a panic or a
// propagated error: the decision loop must survive transient failures.
type ClaimResult struct {
	// OK reports whether the server accepted the claim.
	OK bool `json:"ok"`
	// Fidelity is the server-measured fidelity, when reported.
	Fidelity float64 `json:"fidelity,omitempty"`
	// SuccessProbability is the server-measured post-selection rate, when reported.
	SuccessProbability float64 `json:"success_probability,omitempty"`
	// Err carries the failure detail when OK is false.
	Err *APIError `json:"error,omitempty"`
}

// FailedClaim builds a ClaimResult for a transport-level failure.
func FailedClaim(code, message string) ClaimResult {
	return ClaimResult{OK: false, Err: &APIError{Code: code, Message: message}}
}
