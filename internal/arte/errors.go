// SPDX-License-Identifier: MIT

package arte

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ManuGH/arteloo/internal/resilience"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound            = errors.New("upstream: resource not found")
	ErrForbidden           = errors.New("upstream: access forbidden")
	ErrUpstreamUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("upstream: internal error (5xx)")
	ErrUpstreamBadResponse = errors.New("upstream: invalid response format or malformed data")
	ErrTimeout             = errors.New("upstream: request timed out")
	ErrCanceled            = errors.New("upstream: request canceled by caller")
)

// APIError wraps a sentinel with the request that produced it.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // lower-level cause, e.g. a net.Error or json.SyntaxError
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("arte: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

func statusSentinel(status int) error {
	switch {
	case status == 404:
		return ErrNotFound
	case status == 401 || status == 403:
		return ErrForbidden
	case status >= 500:
		return ErrUpstreamError
	default:
		return ErrUpstreamBadResponse
	}
}

// transportError classifies a failed round trip. ctx is the request context.
func transportError(ctx context.Context, op string, err error) *APIError {
	sentinel := ErrUpstreamUnavailable
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		sentinel = ErrCanceled
	case errors.Is(err, context.DeadlineExceeded):
		sentinel = ErrTimeout
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			sentinel = ErrTimeout
		}
	}
	return &APIError{Sentinel: sentinel, Operation: op, Err: err}
}

// countsAsOutage reports whether err should push the circuit breaker toward open.
// Client-side answers (404, 403, malformed bodies) and caller cancellation do not.
func countsAsOutage(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrUpstreamError) ||
		errors.Is(err, ErrTimeout)
}

// resultLabel maps err to the metrics result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUpstreamError):
		return "server_error"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrCanceled):
		return "canceled"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	default:
		return "bad_response"
	}
}
