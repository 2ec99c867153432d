package pricing

import (
	"context"
	"fmt"

	"conferenceportal/internal/domain"
)

// OccupancyCounter counts confirmed seats. It is satisfied by domain.RegistrationRepository.
type OccupancyCounter interface {
	CountConfirmedForActivity(ctx context.Context, eventID, activity, excludeRegistrationID string) (int, error)
}

// WaitlistDecision is the allocator's verdict for one activity choice.
// Degraded is set when occupancy could not be read; the choice is then confirmed.
type WaitlistDecision struct {
	Waitlisted bool
	Limited    bool
	SeatLimit  int
	Confirmed  int
	Degraded   error
}

// Allocator decides whether an activity choice is confirmed or waitlisted.
//
// The count and the subsequent write are not atomic: two requests racing for
// the last seat can both be confirmed. Promotion re-checks capacity.
type Allocator struct {
	counter OccupancyCounter
}

// NewAllocator returns an Allocator counting seats through counter.
func NewAllocator(counter OccupancyCounter) *Allocator {
	return &Allocator{counter: counter}
}

// Decide counts confirmed registrations for activity, excluding excludeID,
// and waitlists the choice when they already fill the seat limit.
func (a *Allocator) Decide(ctx context.Context, event *domain.Event, activity, excludeID string) WaitlistDecision {
	if activity == "" {
		return WaitlistDecision{}
	}
	if event == nil {
		return WaitlistDecision{Degraded: fmt.Errorf("event unavailable for activity %q", activity)}
	}
	act := event.FindActivity(activity)
	if act == nil || act.SeatLimit == nil {
		return WaitlistDecision{}
	}
	d := WaitlistDecision{Limited: true, SeatLimit: *act.SeatLimit}
	n, err := a.counter.CountConfirmedForActivity(ctx, event.ID, activity, excludeID)
	if err != nil {
		d.Degraded = fmt.Errorf("count confirmed for %q: %w", activity, err)
		return d
	}
	d.Confirmed = n
	d.Waitlisted = n >= d.SeatLimit
	return d
}

// CheckCapacity returns a *domain.CapacityError when activity has no free seat
// for excludeID, or the counting error.
func (a *Allocator) CheckCapacity(ctx context.Context, event *domain.Event, activity, excludeID string) error {
	d := a.Decide(ctx, event, activity, excludeID)
	if d.Degraded != nil {
		return d.Degraded
	}
	if d.Waitlisted {
		return &domain.CapacityError{Activity: activity, SeatLimit: d.SeatLimit, Confirmed: d.Confirmed}
	}
	return nil
}
