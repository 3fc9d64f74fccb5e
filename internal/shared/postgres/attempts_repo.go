package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedidozap/notifier/internal/domain/orders"
	"github.com/pedidozap/notifier/internal/ports"
)

// AttemptsRepo implements persistence for delivery attempt audit rows using pgx and SQL.
type AttemptsRepo struct {
	pool *pgxpool.Pool
}

// NewAttemptsRepo constructs a new AttemptsRepo.
func NewAttemptsRepo(pool *pgxpool.Pool) ports.AttemptRepository {
	return &AttemptsRepo{pool: pool}
}

// Record inserts one row per processing attempt. Operators query this table
// for the per-attempt audit trail (start, outcome, classification).
func (r *AttemptsRepo) Record(ctx context.Context, a orders.DeliveryAttempt) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO delivery_attempts
			(order_code, event_type, sequence, gateway_instance, outcome, classification, attempt, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		a.OrderCode,
		string(a.EventType),
		a.Sequence,
		a.GatewayInstance,
		string(a.Outcome),
		a.Classification,
		a.Attempt,
		a.Error,
	)
	return err
}
