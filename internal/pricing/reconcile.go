package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"conferenceportal/internal/domain"
)

// Reconciliation is the outcome of an administrator edit against the stored price.
// PendingAmount is the balance this edit adds; it is never negative.
type Reconciliation struct {
	NewTotal      float64
	PendingAmount float64
	Reason        string
	// Degraded is set when the event could not be read and the stored total was kept.
	Degraded bool
}

// Reconciler turns administrator edits into a new total and a pending-payment entry.
type Reconciler struct {
	composer *Composer
}

// NewReconciler returns a Reconciler that recomputes totals with c.
func NewReconciler(c *Composer) *Reconciler {
	return &Reconciler{composer: c}
}

// Reconcile compares upd with existing. With an explicit total, an increase
// becomes pending and a decrease is accepted as is. Without one, the total is
// recomputed and only newly added guest ticket, breakfast, and children are
// charged as pending. event may be nil, in which case only the explicit path prices.
func (r *Reconciler) Reconcile(existing *domain.Registration, upd *domain.RegistrationUpdate, event *domain.Event, now time.Time) Reconciliation {
	stored := existing.TotalPrice
	if upd.TotalPrice != nil {
		next := roundCents(*upd.TotalPrice)
		rec := Reconciliation{NewTotal: stored}
		if math.Abs(next-stored) < centTolerance/2 {
			return rec
		}
		rec.NewTotal = next
		if delta := roundCents(next - stored); delta > 0 {
			rec.PendingAmount = delta
			rec.Reason = fmt.Sprintf("Price increased by admin from $%.2f to $%.2f", stored, next)
		}
		return rec
	}

	if event == nil {
		return Reconciliation{NewTotal: stored, Degraded: true}
	}

	sel := selectionAfter(existing, upd)
	q := r.composer.Compose(event, sel, now, nil)

	var reasons []string
	var pending float64
	if upd.GuestDinnerTicket != nil && *upd.GuestDinnerTicket && !existing.GuestDinnerTicket && q.GuestPrice > 0 {
		pending += q.GuestPrice
		reasons = append(reasons, fmt.Sprintf("Guest dinner ticket added ($%.2f)", q.GuestPrice))
	}
	if upd.GuestBreakfast != nil && *upd.GuestBreakfast && !existing.GuestBreakfast && q.BreakfastPrice > 0 {
		pending += q.BreakfastPrice
		reasons = append(reasons, fmt.Sprintf("Guest breakfast added ($%.2f)", q.BreakfastPrice))
	}
	if added := sel.ChildCount - len(existing.Children); added > 0 && q.ChildUnitPrice > 0 {
		amount := roundCents(float64(added) * q.ChildUnitPrice)
		pending += amount
		reasons = append(reasons, fmt.Sprintf("%d child registration(s) added ($%.2f)", added, amount))
	}

	recomputed := roundCents(q.Subtotal - existing.DiscountAmount)
	if recomputed < 0 {
		recomputed = 0
	}
	rec := Reconciliation{
		NewTotal:      stored,
		PendingAmount: roundCents(pending),
		Reason:        strings.Join(reasons, "; "),
	}
	if math.Abs(recomputed-stored) > centTolerance {
		rec.NewTotal = recomputed
	}
	return rec
}

// RecomputeTotal prices reg's current selection, keeping the discount amount
// stored at creation. It reports false when event is nil.
func (r *Reconciler) RecomputeTotal(reg *domain.Registration, event *domain.Event, now time.Time) (float64, bool) {
	if event == nil {
		return reg.TotalPrice, false
	}
	q := r.composer.Compose(event, reg.Selection(), now, nil)
	total := roundCents(q.Subtotal - reg.DiscountAmount)
	if total < 0 {
		total = 0
	}
	return total, true
}

// HasAdminAdjustment reports whether an administrator has moved the total
// away from the computed price, either by an override or by an edit that
// opened a pending balance.
func HasAdminAdjustment(reg *domain.Registration) bool {
	return reg.OriginalTotalPrice != nil || reg.PendingPaymentAmount > 0
}

// AdjustTotal moves the stored total by the price difference of the add-ons
// edited in upd, leaving the rest of the total as stored. Both selections are
// priced at now. It reports false when event is nil.
func (r *Reconciler) AdjustTotal(existing *domain.Registration, upd *domain.RegistrationUpdate, event *domain.Event, now time.Time) (float64, bool) {
	if event == nil {
		return existing.TotalPrice, false
	}
	before := r.composer.Compose(event, existing.Selection(), now, nil)
	after := r.composer.Compose(event, selectionAfter(existing, upd), now, nil)
	total := roundCents(existing.TotalPrice + after.Subtotal - before.Subtotal)
	if total < 0 {
		total = 0
	}
	return total, true
}

func selectionAfter(existing *domain.Registration, upd *domain.RegistrationUpdate) domain.Selection {
	sel := existing.Selection()
	if upd.GuestDinnerTicket != nil {
		sel.GuestDinnerTicket = *upd.GuestDinnerTicket
	}
	if upd.GuestBreakfast != nil {
		sel.GuestBreakfast = *upd.GuestBreakfast
	}
	if upd.Children != nil {
		sel.ChildCount = len(*upd.Children)
	}
	return sel
}

// ApplyReconciliation writes rec into reg. The first time a balance becomes
// pending, the pre-edit total is kept as OriginalTotalPrice.
func ApplyReconciliation(reg *domain.Registration, rec Reconciliation, now time.Time) {
	if rec.PendingAmount > 0 {
		if reg.PendingPaymentAmount <= 0 {
			if reg.OriginalTotalPrice == nil {
				original := reg.TotalPrice
				reg.OriginalTotalPrice = &original
			}
			reg.PendingPaymentCreatedAt = &now
			reg.PendingPaymentReason = rec.Reason
		} else if rec.Reason != "" {
			reg.PendingPaymentReason = joinReason(reg.PendingPaymentReason, rec.Reason)
		}
		reg.PendingPaymentAmount = roundCents(reg.PendingPaymentAmount + rec.PendingAmount)
	}
	reg.TotalPrice = rec.NewTotal
	CapPending(reg)
}

// CapPending keeps the pending balance within how far the total now sits above
// the larger of the amount paid and the original total. A later price cut
// therefore shrinks, and can clear, a balance an earlier increase opened.
func CapPending(reg *domain.Registration) {
	if reg.PendingPaymentAmount > 0 {
		basis := reg.PaidAmount
		if reg.OriginalTotalPrice != nil && *reg.OriginalTotalPrice > basis {
			basis = *reg.OriginalTotalPrice
		}
		if ceiling := roundCents(reg.TotalPrice - basis); reg.PendingPaymentAmount > ceiling {
			reg.PendingPaymentAmount = max(ceiling, 0)
		}
	}
	clearSettledPending(reg)
}

// MarkPaidByAdmin settles the registration in full.
func MarkPaidByAdmin(reg *domain.Registration, now time.Time) {
	reg.Paid = true
	if reg.PaidAt == nil {
		reg.PaidAt = &now
	}
	if reg.PaidAmount < reg.TotalPrice {
		reg.PaidAmount = reg.TotalPrice
	}
	reg.PendingPaymentAmount = 0
	clearSettledPending(reg)
}

// ConfirmAttendeePayment records an attendee's payment. With a pending
// balance only that balance is added to PaidAmount, and the registration is
// marked paid only when PaidAmount covers the total.
func ConfirmAttendeePayment(reg *domain.Registration, now time.Time) {
	if reg.PendingPaymentAmount > 0 {
		reg.PaidAmount = roundCents(reg.PaidAmount + reg.PendingPaymentAmount)
		reg.PendingPaymentAmount = 0
		clearSettledPending(reg)
		if reg.PaidAmount+centTolerance/2 >= reg.TotalPrice {
			reg.Paid = true
			if reg.PaidAt == nil {
				reg.PaidAt = &now
			}
		}
		return
	}
	if !reg.Paid {
		reg.Paid = true
		reg.PaidAmount = reg.TotalPrice
		reg.PaidAt = &now
	}
}

func clearSettledPending(reg *domain.Registration) {
	if reg.PendingPaymentAmount <= 0 {
		reg.PendingPaymentAmount = 0
		reg.PendingPaymentReason = ""
		reg.PendingPaymentCreatedAt = nil
	}
}

func joinReason(existing, next string) string {
	if existing == "" {
		return next
	}
	return existing + "; " + next
}
