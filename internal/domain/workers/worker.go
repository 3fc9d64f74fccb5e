package workers

import "time"

// WorkerStatus represents the registry state of a notify worker.
type WorkerStatus string

const (
	StatusOnline  WorkerStatus = "online"
	StatusOffline WorkerStatus = "offline"
)

// Worker is a registry row for one running notify-worker process. The
// registry enforces unique online names so that at most one consumer drains
// the notification queue per deployment, which is what keeps per-order
// notification ordering intact.
type Worker struct {
	ID        int64
	Name      string
	Status    WorkerStatus
	Processed int
	LastSeen  *time.Time
}
