package ports

import (
	"context"

	"github.com/pedidozap/notifier/internal/domain/orders"
	"github.com/pedidozap/notifier/internal/domain/workers"
)

// AttemptRepository records one audit row per delivery attempt.
type AttemptRepository interface {
	Record(ctx context.Context, attempt orders.DeliveryAttempt) error
}

// WorkerRepository controls worker registration, heartbeat, counters.
type WorkerRepository interface {
	// RegisterOnline returns nil when another worker with the same name is already online.
	RegisterOnline(ctx context.Context, name string) (*workers.Worker, error)
	Heartbeat(ctx context.Context, name string) error
	MarkOffline(ctx context.Context, name string) error
	IncrementProcessed(ctx context.Context, name string) error
}
