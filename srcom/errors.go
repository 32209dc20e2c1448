package srcom

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrAuthenticationRequired indicates a write method was called
	// without a configured API key. It is returned before any network
	// I/O happens.
	ErrAuthenticationRequired = errors.New("authentication required: configure an API key for write operations")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid srcom configuration")
)

// RequestError represents a speedrun.com API error response (status >= 400).
type RequestError struct {
	StatusCode  int
	Status      string // reason phrase, e.g. "Not Found"
	Endpoint    string
	Message     string   // top-level message from the error body, if any
	FieldErrors []string // per-field errors from 400 responses to writes
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("srcom API error: %d %s on %s: %s", e.StatusCode, e.Status, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("srcom API error: %d %s on %s", e.StatusCode, e.Status, e.Endpoint)
}

// IsNotFound checks if the error indicates a not found response
func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *RequestError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// ValidationKind classifies why a submission payload was rejected.
type ValidationKind string

const (
	KindMissingField       ValidationKind = "missing_field"
	KindInvalidTimerType   ValidationKind = "invalid_timer_type"
	KindInvalidTimerValue  ValidationKind = "invalid_timer_value"
	KindNoPlayerFound      ValidationKind = "no_player_found"
	KindInvalidPlayerKey   ValidationKind = "invalid_player_key"
	KindInvalidVariableKey ValidationKind = "invalid_variable_key"
	KindInvalidFieldType   ValidationKind = "invalid_field_type"
	KindUnknownField       ValidationKind = "unknown_field"
	KindInvalidStatus      ValidationKind = "invalid_status"
)

// ValidationError indicates a submission payload failed a validation rule.
// No partial payload reaches the network once one is returned.
type ValidationError struct {
	Kind   ValidationKind
	Field  string // offending field or key, when known
	Detail string
}

func (e *ValidationError) Error() string {
	parts := []string{fmt.Sprintf("run validation failed (%s)", e.Kind)}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field %q", e.Field))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, ": ")
}
