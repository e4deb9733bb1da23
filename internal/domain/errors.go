package domain

import "fmt"

// ValidationError reports bad caller input. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a query that succeeded but matched nothing.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// TransportError wraps an HTTP or network failure talking to an upstream provider.
// Adapters log and absorb it; it never reaches pipeline callers.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a single malformed record in an otherwise valid feed.
type ParseError struct {
	EventID string
	Field   string
	Err     error
}

func (e *ParseError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("parse event: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse event %s: %s: %v", e.EventID, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
