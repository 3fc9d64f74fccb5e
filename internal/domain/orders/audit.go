package orders

import "time"

// AttemptOutcome is the terminal disposition of one delivery attempt.
type AttemptOutcome string

const (
	AttemptSent     AttemptOutcome = "sent"
	AttemptDelayed  AttemptOutcome = "delayed"  // gateway not ready, re-run scheduled
	AttemptSkipped  AttemptOutcome = "skipped"  // gateway instance unknown
	AttemptRetrying AttemptOutcome = "retrying" // transient failure handed back to the queue
	AttemptFailed   AttemptOutcome = "failed"   // terminal failure
)

// DeliveryAttempt is one audit row per processing attempt of a delivery job.
type DeliveryAttempt struct {
	ID              int64
	OrderCode       int64
	EventType       EventType
	Sequence        int64
	GatewayInstance string
	Outcome         AttemptOutcome
	Classification  *string // transient | not_found | terminal, nil on success
	Attempt         int
	Error           *string
	CreatedAt       time.Time
}
