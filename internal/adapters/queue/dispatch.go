// Package queue delivers registration notifications asynchronously, either
// in process or through a Redis list consumed by a worker.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"conferenceportal/internal/domain"
)

// ErrQueueFull is returned by the in-process queue when its buffer is exhausted.
var ErrQueueFull = errors.New("notification queue is full")

// Dispatch sends job through the notifier method matching its kind.
func Dispatch(ctx context.Context, n domain.RegistrationNotifier, job domain.NotificationJob) error {
	notice := job.Notice
	switch job.Kind {
	case domain.NotificationConfirmation:
		return n.SendRegistrationConfirmation(ctx, &notice)
	case domain.NotificationUpdate:
		return n.SendRegistrationUpdate(ctx, &notice)
	case domain.NotificationPendingPayment:
		return n.SendPendingPaymentNotice(ctx, &notice)
	default:
		return fmt.Errorf("unknown notification kind %q", job.Kind)
	}
}

func deliver(ctx context.Context, n domain.RegistrationNotifier, logger *slog.Logger, job domain.NotificationJob) {
	if err := Dispatch(ctx, n, job); err != nil {
		logger.ErrorContext(ctx, "notification delivery failed",
			"kind", job.Kind,
			"registration_id", job.Notice.Registration.ID,
			"err", err,
		)
		return
	}
	logger.DebugContext(ctx, "notification delivered", "kind", job.Kind, "registration_id", job.Notice.Registration.ID)
}
