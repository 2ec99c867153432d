package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("already exists")
)

// Waitlist promotion and registration edit rejections.
var (
	ErrRegistrationCancelled  = errors.New("registration is cancelled")
	ErrNoActivitySelected     = errors.New("registration has no activity selected")
	ErrNotWaitlisted          = errors.New("registration is not waitlisted")
	ErrActivityFull           = errors.New("activity is full")
	ErrPaidRegistrationLocked = errors.New("registration is paid; pricing changes require an administrator")
)

// CapacityError is returned when an activity has no confirmed seats left.
type CapacityError struct {
	Activity  string
	SeatLimit int
	Confirmed int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("activity %q is full (%d of %d seats confirmed)", e.Activity, e.Confirmed, e.SeatLimit)
}

// Is lets errors.Is(err, ErrActivityFull) match a CapacityError.
func (e *CapacityError) Is(target error) bool {
	return target == ErrActivityFull
}
