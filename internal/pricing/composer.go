package pricing

import (
	"time"

	"conferenceportal/internal/domain"
)

// Composer prices a selection against an event's tier schedules.
type Composer struct {
	resolver Resolver
}

// NewComposer returns a Composer using r for date boundaries.
func NewComposer(r Resolver) *Composer {
	return &Composer{resolver: r}
}

// Resolver returns the boundary resolver the composer prices with.
func (c *Composer) Resolver() Resolver {
	return c.resolver
}

// Compose prices sel at now. code is the looked-up discount for sel.DiscountCode
// (nil when absent or not found); it is validated here and applied only when valid.
// Compose has no side effects: usage counters are the caller's concern.
func (c *Composer) Compose(event *domain.Event, sel domain.Selection, now time.Time, code *domain.DiscountCode) domain.PriceQuote {
	var q domain.PriceQuote

	if tier := SelectTier(event.RegistrationTiers, c.resolver, now); tier != nil {
		q.BaseTier = tier.Label
		q.BasePrice = tier.Price
	} else {
		q.BasePrice = event.DefaultPrice
	}

	if sel.GuestDinnerTicket {
		if tier := SelectTier(event.GuestTiers, c.resolver, now); tier != nil {
			q.GuestTier = tier.Label
			q.GuestPrice = tier.Price
		}
	}

	if sel.GuestBreakfast && c.BreakfastAvailable(event, now) {
		q.BreakfastPrice = event.BreakfastPrice
	}

	if tier := SelectTier(event.ChildTiers, c.resolver, now); tier != nil {
		q.ChildTier = tier.Label
		q.ChildUnitPrice = tier.Price
	}
	if sel.ChildCount > 0 {
		q.ChildrenPrice = roundCents(float64(sel.ChildCount) * q.ChildUnitPrice)
	}

	q.Subtotal = roundCents(q.BasePrice + q.GuestPrice + q.BreakfastPrice + q.ChildrenPrice)
	q.Total = q.Subtotal

	if sel.DiscountCode != "" {
		check := ValidateDiscount(code, event.ID, now)
		if check.Valid {
			q.DiscountAmount = ApplyDiscount(code, q.Subtotal)
			q.DiscountApplied = true
			q.Total = roundCents(q.Subtotal - q.DiscountAmount)
		} else {
			q.DiscountReason = check.Reason
		}
	}
	if q.Total < 0 {
		q.Total = 0
	}
	return q
}

// BreakfastAvailable reports whether now is before the end of the breakfast cutoff day.
func (c *Composer) BreakfastAvailable(event *domain.Event, now time.Time) bool {
	end, ok := c.resolver.DayEnd(event.BreakfastCutoffDate)
	return !ok || now.Before(end)
}
