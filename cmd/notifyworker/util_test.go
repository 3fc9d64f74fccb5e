package notifyworker

import (
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/pedidozap/notifier/internal/shared/rabbitmq"
)

func TestAttemptsFrom(t *testing.T) {
	assert.Equal(t, 0, attemptsFrom(nil))
	assert.Equal(t, 0, attemptsFrom(amqp091.Table{}))
	assert.Equal(t, 2, attemptsFrom(amqp091.Table{rabbitmq.HeaderAttempts: int64(2)}))
	assert.Equal(t, 3, attemptsFrom(amqp091.Table{rabbitmq.HeaderAttempts: int32(3)}))
	assert.Equal(t, 4, attemptsFrom(amqp091.Table{rabbitmq.HeaderAttempts: 4}))
	// unexpected types count as a fresh first attempt
	assert.Equal(t, 0, attemptsFrom(amqp091.Table{rabbitmq.HeaderAttempts: "2"}))
}

func TestCloneHeaders(t *testing.T) {
	orig := amqp091.Table{"a": int64(1)}
	clone := cloneHeaders(orig)

	clone["a"] = int64(2)
	clone["b"] = "x"

	assert.Equal(t, int64(1), orig["a"])
	_, ok := orig["b"]
	assert.False(t, ok)
}
