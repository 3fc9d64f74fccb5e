package notifyworker

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedidozap/notifier/internal/shared/gateway"
)

func TestClassify_ProviderStatuses(t *testing.T) {
	assert.Equal(t, ClassTransient, Classify(&gateway.APIError{Op: "send_text", StatusCode: 503, Message: "unavailable"}))
	assert.Equal(t, ClassTransient, Classify(&gateway.APIError{Op: "send_text", StatusCode: 500, Message: "boom"}))
	assert.Equal(t, ClassNotFound, Classify(&gateway.APIError{Op: "send_text", StatusCode: 404, Message: "no instance"}))
	assert.Equal(t, ClassTerminal, Classify(&gateway.APIError{Op: "send_text", StatusCode: 400, Message: "bad payload"}))
	assert.Equal(t, ClassTerminal, Classify(&gateway.APIError{Op: "send_text", StatusCode: 401, Message: "invalid api key"}))
}

func TestClassify_InstanceNotFoundSentinel(t *testing.T) {
	err := fmt.Errorf("%w: shop1", gateway.ErrInstanceNotFound)
	assert.Equal(t, ClassNotFound, Classify(err))
}

func TestClassify_ConnectionFaults(t *testing.T) {
	assert.Equal(t, ClassTransient, Classify(fmt.Errorf("gateway send_text: %w", syscall.ECONNRESET)))
	assert.Equal(t, ClassTransient, Classify(fmt.Errorf("gateway send_text: %w", syscall.ECONNREFUSED)))
	assert.Equal(t, ClassTransient, Classify(timeoutErr{}))
}

func TestClassify_CancelledCallIsNotTerminal(t *testing.T) {
	// an aborted in-flight call carries no verdict from the provider
	assert.Equal(t, ClassTransient, Classify(fmt.Errorf("gateway send_text: Post %q: %w", "http://gw/message/sendText/shop1", context.Canceled)))
	assert.Equal(t, ClassTransient, Classify(fmt.Errorf("gateway connection_state: %w", context.DeadlineExceeded)))
}

func TestClassify_MessageMarkers(t *testing.T) {
	assert.Equal(t, ClassTransient, Classify(errors.New("dial tcp 10.0.0.1:443: i/o TIMEOUT")))
	assert.Equal(t, ClassTransient, Classify(errors.New("resource temporarily unavailable")))
	assert.Equal(t, ClassTransient, Classify(errors.New("network is unreachable")))
	assert.Equal(t, ClassTerminal, Classify(errors.New("malformed request body")))
}

// timeoutErr satisfies net.Error with Timeout()=true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
