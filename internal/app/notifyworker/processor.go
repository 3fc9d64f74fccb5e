package notifyworker

import (
	"context"
	"math/rand"
	"time"

	"github.com/pedidozap/notifier/internal/domain/orders"
	"github.com/pedidozap/notifier/internal/ports"
	"github.com/pedidozap/notifier/internal/shared/contracts"
	"github.com/pedidozap/notifier/internal/shared/logger"
)

// Outcome is the processor's disposition of one attempt. Errors are reported
// separately: a retryable error means the queue should redeliver the job, a
// terminal error means the job is permanently failed.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeDelayed Outcome = "delayed"
	OutcomeSkipped Outcome = "skipped"
)

// Result describes a locally-handled attempt.
type Result struct {
	Outcome Outcome
	Delay   time.Duration // set only for OutcomeDelayed
	Text    string        // rendered notification text
}

// DelaySource produces the re-run delay used when the gateway instance is not
// ready. Injected so tests can pin it.
type DelaySource func() time.Duration

// UniformDelay returns a DelaySource drawing uniformly from [min, max).
// Randomizing the window avoids synchronized retry storms when many orders
// hit a gateway that is mid-reconnection.
func UniformDelay(min, max time.Duration) DelaySource {
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(max-min)))
	}
}

// Processor coordinates one end-to-end delivery attempt:
// render → check readiness → send → classify outcome.
type Processor struct {
	gateway  ports.GatewayClient
	attempts ports.AttemptRepository
	logger   *logger.Logger
	delay    DelaySource
}

// NewProcessor creates a new Processor instance.
func NewProcessor(gw ports.GatewayClient, attempts ports.AttemptRepository, log *logger.Logger, delay DelaySource) *Processor {
	return &Processor{
		gateway:  gw,
		attempts: attempts,
		logger:   log,
		delay:    delay,
	}
}

// Process handles a single delivery job. attempt is the 1-based delivery
// attempt number reported by the queue layer, recorded for audit.
func (p *Processor) Process(ctx context.Context, job contracts.DeliveryJobMessage, attempt int) (Result, error) {
	order := job.ToDomain()

	p.logger.Info(ctx, "notification_processing", "Processing delivery job", map[string]any{
		"order_code": order.Code,
		"event_type": job.EventType,
		"sequence":   job.Sequence,
		"instance":   job.GatewayInstance,
		"attempt":    attempt,
	})

	// Rendering is total: an empty result is valid and still dispatched so
	// unmapped status transitions are not silently dropped.
	// TODO: confirm with product whether an empty text should skip the send.
	text := Render(order, job.Event())

	state, err := p.gateway.InstanceState(ctx, job.GatewayInstance)
	if err != nil {
		return p.failAttempt(ctx, job, order, attempt, err)
	}

	if !state.Ready {
		d := p.delay()
		p.logger.Info(ctx, "gateway_not_ready", "Gateway instance not connected; scheduling re-run", map[string]any{
			"order_code": order.Code,
			"instance":   job.GatewayInstance,
			"delay_ms":   d.Milliseconds(),
		})
		p.record(ctx, job, order, orders.AttemptDelayed, nil, attempt, nil)
		return Result{Outcome: OutcomeDelayed, Delay: d, Text: text}, nil
	}

	if err := p.gateway.SendText(ctx, job.GatewayInstance, order.CustomerPhone, text); err != nil {
		return p.failAttempt(ctx, job, order, attempt, err)
	}

	p.logger.Info(ctx, "notification_sent", "Notification delivered", map[string]any{
		"order_code": order.Code,
		"event_type": job.EventType,
		"sequence":   job.Sequence,
		"instance":   job.GatewayInstance,
	})
	p.record(ctx, job, order, orders.AttemptSent, nil, attempt, nil)

	return Result{Outcome: OutcomeSent, Text: text}, nil
}

// failAttempt classifies a gateway error and maps it to the attempt outcome:
// not-found ends the attempt locally, transient propagates as retryable,
// anything else propagates as terminal.
func (p *Processor) failAttempt(ctx context.Context, job contracts.DeliveryJobMessage, order orders.OrderSnapshot, attempt int, err error) (Result, error) {
	class := Classify(err)

	switch class {
	case ClassNotFound:
		p.logger.Error(ctx, "gateway_instance_unknown", "Gateway instance does not exist; not dispatching", err)
		p.record(ctx, job, order, orders.AttemptSkipped, &class, attempt, err)
		return Result{Outcome: OutcomeSkipped}, nil

	case ClassTransient:
		p.logger.Error(ctx, "delivery_transient_failure", "Transient delivery failure; job will be retried", err)
		p.record(ctx, job, order, orders.AttemptRetrying, &class, attempt, err)
		return Result{}, Retryable(err)

	default:
		p.logger.Error(ctx, "delivery_terminal_failure", "Terminal delivery failure; job will not be retried", err)
		p.record(ctx, job, order, orders.AttemptFailed, &class, attempt, err)
		return Result{}, Terminal(err)
	}
}

// record writes one audit row; audit problems never fail the attempt itself.
func (p *Processor) record(ctx context.Context, job contracts.DeliveryJobMessage, order orders.OrderSnapshot, outcome orders.AttemptOutcome, class *FailureClass, attempt int, cause error) {
	row := orders.DeliveryAttempt{
		OrderCode:       order.Code,
		EventType:       job.Event(),
		Sequence:        job.Sequence,
		GatewayInstance: job.GatewayInstance,
		Outcome:         outcome,
		Attempt:         attempt,
	}
	if class != nil {
		s := string(*class)
		row.Classification = &s
	}
	if cause != nil {
		msg := cause.Error()
		row.Error = &msg
	}

	if err := p.attempts.Record(ctx, row); err != nil {
		p.logger.Error(ctx, "attempt_audit_failed", "Failed to record delivery attempt", err)
	}
}
