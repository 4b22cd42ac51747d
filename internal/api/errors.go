// ABOUTME: Normalizes transport and backend failures into a uniform error shape
// ABOUTME: Sentinel statuses: 0 for network failure, -1 for request setup failure

package api

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel statuses for errors that never produced an HTTP response
const (
	StatusTransport   = 0  // request never reached the server
	StatusClientSetup = -1 // request could not be constructed
)

// Error is the uniform failure shape surfaced to every caller.
// Status is the HTTP status for server errors, or a sentinel above.
type Error struct {
	Message string
	Status  int
	Data    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// IsTransport reports whether the request never reached the server
func (e *Error) IsTransport() bool {
	return e.Status == StatusTransport
}

// AsError unwraps err into the normalized shape if it is one
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// normalizeSetup wraps a request-construction failure
func normalizeSetup(err error) *Error {
	return &Error{
		Message: fmt.Sprintf("error: %v", err),
		Status:  StatusClientSetup,
	}
}

// normalizeTransport wraps a failure where no response was received.
// Context cancellation and timeout get distinct messages.
func normalizeTransport(ctx context.Context, err error) *Error {
	switch {
	case ctx.Err() == context.Canceled:
		return &Error{Message: "request canceled", Status: StatusTransport}
	case ctx.Err() == context.DeadlineExceeded:
		return &Error{Message: "request timed out", Status: StatusTransport}
	default:
		return &Error{
			Message: fmt.Sprintf("network error: no response received from server: %v", err),
			Status:  StatusTransport,
		}
	}
}

// normalizeResponse wraps a non-2xx response. body is the decoded JSON
// payload, which may be nil when the body was empty or unparseable.
func normalizeResponse(status int, body map[string]any) *Error {
	msg := fmt.Sprintf("server error: %d", status)
	if m, ok := body["msg"].(string); ok && m != "" {
		msg = m
	}
	return &Error{Message: msg, Status: status, Data: body}
}
