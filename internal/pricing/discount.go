package pricing

import (
	"time"

	"conferenceportal/internal/domain"
)

// Reasons a discount code does not apply.
const (
	DiscountReasonNotFound      = "code not found"
	DiscountReasonEventMismatch = "code belongs to another event"
	DiscountReasonExpired       = "code expired"
	DiscountReasonUsageLimit    = "code usage limit reached"
	DiscountReasonUnknownType   = "unknown discount type"
)

// DiscountCheck is the outcome of validating a code.
type DiscountCheck struct {
	Valid  bool
	Reason string
}

// ValidateDiscount checks that code belongs to eventID, has not expired at
// now, and is still under its usage limit.
func ValidateDiscount(code *domain.DiscountCode, eventID string, now time.Time) DiscountCheck {
	if code == nil {
		return DiscountCheck{Reason: DiscountReasonNotFound}
	}
	if code.EventID != eventID {
		return DiscountCheck{Reason: DiscountReasonEventMismatch}
	}
	if code.ExpiresAt != nil && now.After(*code.ExpiresAt) {
		return DiscountCheck{Reason: DiscountReasonExpired}
	}
	if code.UsageLimit != nil && code.UsedCount >= *code.UsageLimit {
		return DiscountCheck{Reason: DiscountReasonUsageLimit}
	}
	if code.DiscountType != domain.DiscountPercentage && code.DiscountType != domain.DiscountFixed {
		return DiscountCheck{Reason: DiscountReasonUnknownType}
	}
	return DiscountCheck{Valid: true}
}

// ApplyDiscount returns the amount code takes off subtotal, never more than subtotal.
func ApplyDiscount(code *domain.DiscountCode, subtotal float64) float64 {
	if code == nil || subtotal <= 0 {
		return 0
	}
	var amount float64
	switch code.DiscountType {
	case domain.DiscountPercentage:
		amount = subtotal * code.DiscountValue / 100
	case domain.DiscountFixed:
		amount = code.DiscountValue
	}
	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	return roundCents(amount)
}
