package queue

import (
	"context"
	"log/slog"

	"conferenceportal/internal/domain"
)

// InProcessQueue buffers jobs in memory and delivers them from Run.
// Jobs still buffered when Run stops are lost.
type InProcessQueue struct {
	jobs     chan domain.NotificationJob
	notifier domain.RegistrationNotifier
	logger   *slog.Logger
}

// NewInProcessQueue returns a queue holding up to size pending jobs.
func NewInProcessQueue(notifier domain.RegistrationNotifier, logger *slog.Logger, size int) *InProcessQueue {
	if size < 1 {
		size = 1
	}
	return &InProcessQueue{
		jobs:     make(chan domain.NotificationJob, size),
		notifier: notifier,
		logger:   logger,
	}
}

// Enqueue never blocks; it returns ErrQueueFull when the buffer is exhausted.
func (q *InProcessQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Run delivers jobs until ctx is cancelled.
func (q *InProcessQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			deliver(ctx, q.notifier, q.logger, job)
		}
	}
}
