package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedidozap/notifier/internal/domain/workers"
	"github.com/pedidozap/notifier/internal/ports"
)

// WorkersRepo implements persistence for notify workers using pgx and SQL.
type WorkersRepo struct {
	pool *pgxpool.Pool
}

// NewWorkersRepo constructs a new WorkersRepo.
func NewWorkersRepo(pool *pgxpool.Pool) ports.WorkerRepository {
	return &WorkersRepo{pool: pool}
}

// RegisterOnline registers a worker by name as online.
// Semantics:
//   - If no row exists -> INSERT (online) -> row returned.
//   - If a row exists AND status='online' -> nil (duplicate) — caller should terminate.
//   - If a row exists AND status='offline' -> UPDATE to online -> row returned.
func (r *WorkersRepo) RegisterOnline(ctx context.Context, name string) (*workers.Worker, error) {
	var w workers.Worker
	var status string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO workers (name, status, last_seen)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		  SET status = $2,
		      last_seen = now()
		  WHERE workers.status <> $2
		RETURNING id, name, status, processed, last_seen
	`, name, string(workers.StatusOnline)).Scan(&w.ID, &w.Name, &status, &w.Processed, &w.LastSeen)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// the ON CONFLICT branch was a no-op because the row was already 'online'
		return nil, nil
	case err != nil:
		return nil, err
	default:
		// inserted new row OR updated an offline row to online
		w.Status = workers.WorkerStatus(status)
		return &w, nil
	}
}

// MarkOffline sets the worker's status to 'offline'.
func (r *WorkersRepo) MarkOffline(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE workers
		SET status = $2, last_seen = now()
		WHERE name = $1
	`, name, string(workers.StatusOffline))
	return err
}

// Heartbeat refreshes the worker's last_seen and keeps it 'online'.
func (r *WorkersRepo) Heartbeat(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE workers
		SET status = $2, last_seen = now()
		WHERE name = $1
	`, name, string(workers.StatusOnline))
	return err
}

// IncrementProcessed atomically increases the processed counter for a worker.
func (r *WorkersRepo) IncrementProcessed(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE workers
		SET processed = processed + 1
		WHERE name = $1
	`, name)
	return err
}
