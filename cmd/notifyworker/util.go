package notifyworker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	service "github.com/pedidozap/notifier/internal/app/notifyworker"
	"github.com/pedidozap/notifier/internal/shared/contracts"
	"github.com/pedidozap/notifier/internal/shared/logger"
	"github.com/pedidozap/notifier/internal/shared/rabbitmq"
)

// deliveryHandler turns processor outcomes into broker operations: ack,
// dead-letter, or a delayed republish through the wait queue.
type deliveryHandler struct {
	logger       *logger.Logger
	rmq          *rabbitmq.Client
	processor    *service.Processor
	workers      *service.WorkerService
	workerName   string
	maxAttempts  int
	retryBackoff time.Duration
}

// handle decodes, processes and settles a single message.
func (h *deliveryHandler) handle(ctx context.Context, d amqp091.Delivery) {
	// one request id per delivery attempt
	ctx = h.logger.WithRequestID(ctx, uuid.NewString())

	// decode the message
	var msg contracts.DeliveryJobMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		h.logger.Error(ctx, "message_decode_failed", "Failed to decode DeliveryJobMessage", err)
		_ = d.Nack(false, false) // DLX for unrecoverable malformed JSON
		return
	}

	attempt := attemptsFrom(d.Headers) + 1

	res, err := h.processor.Process(ctx, msg, attempt)
	if err == nil {
		if res.Outcome == service.OutcomeDelayed {
			h.requeueDelayed(ctx, d, res.Delay, d.Headers)
			return
		}

		// sent or skipped: the job is terminally handled
		_ = d.Ack(false)
		h.workers.CountProcessed(ctx, h.workerName)
		return
	}

	// classify the error and decide on settle strategy
	switch {
	case service.IsRetryable(err):
		if attempt >= h.maxAttempts {
			h.logger.Error(ctx, "attempts_exhausted",
				"Transient failures exceeded max attempts; dead-lettering", err)
			_ = d.Nack(false, false) // exhausted -> DLQ
			h.workers.CountProcessed(ctx, h.workerName)
			return
		}

		headers := cloneHeaders(d.Headers)
		headers[rabbitmq.HeaderAttempts] = int64(attempt)
		h.requeueDelayed(ctx, d, h.retryBackoff, headers)

	default:
		h.logger.Error(ctx, "processing_failed",
			"Terminal failure; nacking to DLX", err)
		_ = d.Nack(false, false) // permanent -> DLQ
		h.workers.CountProcessed(ctx, h.workerName)
	}
}

// requeueDelayed parks the job on the wait queue and acks the original. If the
// republish fails the original is requeued instead so the job is never lost.
func (h *deliveryHandler) requeueDelayed(ctx context.Context, d amqp091.Delivery, delay time.Duration, headers amqp091.Table) {
	if err := h.rmq.PublishDelayed(d.Body, delay, headers); err != nil {
		h.logger.Error(ctx, "delayed_republish_failed",
			"Failed to park job on wait queue; requeueing in place", err)
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
}

// attemptsFrom reads the transient-retry counter header; AMQP clients decode
// numeric header values with varying integer widths.
func attemptsFrom(headers amqp091.Table) int {
	v, ok := headers[rabbitmq.HeaderAttempts]
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

// cloneHeaders copies a header table so the original delivery stays untouched.
func cloneHeaders(headers amqp091.Table) amqp091.Table {
	out := amqp091.Table{}
	for k, v := range headers {
		out[k] = v
	}
	return out
}
