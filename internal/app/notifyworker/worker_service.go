package notifyworker

import (
	"context"
	"time"

	"github.com/pedidozap/notifier/internal/ports"
	"github.com/pedidozap/notifier/internal/shared/logger"
)

// WorkerService coordinates lifecycle operations for a notify worker: the
// registry is what lets operators spot stalled workers and what rejects a
// second consumer running under the same name.
type WorkerService struct {
	repo   ports.WorkerRepository
	logger *logger.Logger
}

// NewWorkerService constructs a WorkerService.
func NewWorkerService(repo ports.WorkerRepository, logger *logger.Logger) *WorkerService {
	return &WorkerService{
		repo:   repo,
		logger: logger,
	}
}

// RegisterOrExit tries to register a worker as 'online'. Returns false if a duplicate online worker with the same name already exists.
func (service *WorkerService) RegisterOrExit(ctx context.Context, name string) (bool, error) {
	w, err := service.repo.RegisterOnline(ctx, name)
	if err != nil {
		service.logger.Error(ctx, "worker_registration_failed", "Failed to register worker as online", err)
		return false, err
	}
	if w == nil {
		// duplicate instance online with the same name
		service.logger.Error(ctx, "worker_duplicate", "Worker with this name is already online; terminating", nil)
		return false, nil
	}

	service.logger.Info(ctx, "worker_registered", "Worker registered as online", map[string]any{
		"id":        w.ID,
		"name":      w.Name,
		"processed": w.Processed,
	})

	return true, nil
}

// Heartbeat updates last_seen and ensures status remains 'online'.
func (service *WorkerService) Heartbeat(ctx context.Context, name string) error {
	if err := service.repo.Heartbeat(ctx, name); err != nil {
		service.logger.Error(ctx, "heartbeat_failed", "Failed to send heartbeat", err)
		return err
	}

	service.logger.Debug(ctx, "heartbeat_sent", "Worker heartbeat sent", map[string]any{
		"name": name,
		"at":   time.Now().UTC().Format(time.RFC3339Nano),
	})

	return nil
}

// GracefulOffline marks the worker 'offline'.
func (service *WorkerService) GracefulOffline(ctx context.Context, name string) error {
	if err := service.repo.MarkOffline(ctx, name); err != nil {
		service.logger.Error(ctx, "graceful_offline_failed", "Failed to mark worker offline", err)
		return err
	}

	service.logger.Info(ctx, "graceful_offline", "Worker marked offline", map[string]any{
		"name": name,
	})

	return nil
}

// CountProcessed bumps the processed counter after a terminally-handled job.
func (service *WorkerService) CountProcessed(ctx context.Context, name string) {
	if err := service.repo.IncrementProcessed(ctx, name); err != nil {
		service.logger.Error(ctx, "processed_counter_failed", "Failed to increment processed counter", err)
	}
}
