package notifyworker

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/pedidozap/notifier/internal/shared/gateway"
)

// FailureClass is the single authority consulted to decide retry behavior
// after a failed gateway call.
type FailureClass string

const (
	// ClassTransient failures are expected to succeed on retry (network/5xx).
	ClassTransient FailureClass = "transient"
	// ClassNotFound means the gateway instance is unknown to the provider;
	// retrying cannot help until it is reconfigured upstream.
	ClassNotFound FailureClass = "not_found"
	// ClassTerminal failures will not succeed without external intervention.
	ClassTerminal FailureClass = "terminal"
)

// transientMarkers are matched case-insensitively against error text as a
// last resort, for faults that reach us as plain wrapped errors.
var transientMarkers = []string{
	"timeout",
	"timed out",
	"network",
	"temporarily unavailable",
	"connection reset",
	"connection refused",
	"no such host",
	"broken pipe",
}

// Classify inspects a delivery error and maps it to a failure class.
func Classify(err error) FailureClass {
	if errors.Is(err, gateway.ErrInstanceNotFound) {
		return ClassNotFound
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 404:
			return ClassNotFound
		case apiErr.StatusCode >= 500:
			return ClassTransient
		}
		// unexpected 4xx (bad request, auth) falls through to marker matching,
		// which leaves it terminal unless the body carries a network fault
	}

	// a cancelled or deadline-expired call never reached a verdict from the
	// provider; retrying is the only safe reading
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	// connection-level faults
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTransient
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return ClassTransient
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return ClassTransient
		}
	}

	return ClassTerminal
}
