package domain

import (
	"context"
	"errors"
	"fmt"
)

// DomainError is an error carrying a stable code.
// Two DomainErrors match under errors.Is when their codes are equal,
// so callers compare against the sentinels below.
type DomainError struct {
	Code       string // e.g. "BF-GATE-5030"
	Message    string
	Details    string
	StatusCode int // HTTP status for gateway errors, 0 otherwise
	Cause      error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a DomainError.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy with details set.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// WithStatus returns a copy carrying an HTTP status code.
func (e *DomainError) WithStatus(code int) *DomainError {
	c := *e
	c.StatusCode = code
	return &c
}

// GetErrorCode extracts the code of the first DomainError in err's chain.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Kind maps err to a short label for logs and metrics:
// transport, http_status, parse, unauthorized, duplicate_claim,
// heartbeat_exhausted, canceled or unknown.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	// The outermost DomainError decides, so an exhausted heartbeat is not
	// reported as the transport failure it wraps.
	var de *DomainError
	if errors.As(err, &de) {
		if kind, ok := kinds[de.Code]; ok {
			return kind
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "unknown"
}

var kinds = map[string]string{
	ErrTransport.Code:          "transport",
	ErrHTTPStatus.Code:         "http_status",
	ErrParse.Code:              "parse",
	ErrUnauthorized.Code:       "unauthorized",
	ErrDuplicateClaim.Code:     "duplicate_claim",
	ErrHeartbeatExhausted.Code: "heartbeat_exhausted",
	ErrInvalidConfig.Code:      "invalid_config",
}

// ============================================================================
// Gateway errors (GATE)
// ============================================================================

var (
	// ErrTransport covers connection, DNS and timeout failures.
	ErrTransport = NewDomainError("BF-GATE-5030", "gateway unreachable")

	// ErrHTTPStatus is a non-2xx response; StatusCode holds the status.
	ErrHTTPStatus = NewDomainError("BF-GATE-5020", "unexpected gateway status")

	// ErrParse is a response body that could not be decoded.
	ErrParse = NewDomainError("BF-GATE-5021", "malformed gateway response")

	// ErrUnauthorized means the gateway rejected the account credential.
	ErrUnauthorized = NewDomainError("BF-GATE-4010", "credential rejected")
)

// ============================================================================
// Node lifecycle errors (NODE)
// ============================================================================

var (
	// ErrDuplicateClaim means another supervisor already owns the node.
	// It ends the redundant attempt silently and is not a failure.
	ErrDuplicateClaim = NewDomainError("BF-NODE-4090", "node already supervised")

	// ErrHeartbeatExhausted ends a heartbeat loop that reached its
	// consecutive failure threshold.
	ErrHeartbeatExhausted = NewDomainError("BF-NODE-5031", "heartbeat failure threshold reached")
)

// ============================================================================
// Configuration errors (CONF)
// ============================================================================

// ErrInvalidConfig is returned for rejected configuration.
var ErrInvalidConfig = NewDomainError("BF-CONF-4000", "invalid configuration")
