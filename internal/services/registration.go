package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferenceportal/internal/domain"
	"conferenceportal/internal/pricing"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	eventRepo        domain.EventRepository
	discountRepo     domain.DiscountCodeRepository
	resolver         pricing.Resolver
	composer         *pricing.Composer
	allocator        *pricing.Allocator
	reconciler       *pricing.Reconciler
	queue            domain.NotificationQueue
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
}

// NewRegistrationService wires the pricing engine to the registration, event, and discount stores.
// queue may be nil, in which case no notices are sent.
func NewRegistrationService(registrationRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	discountRepo domain.DiscountCodeRepository,
	resolver pricing.Resolver,
	queue domain.NotificationQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	composer := pricing.NewComposer(resolver)
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		discountRepo:     discountRepo,
		resolver:         resolver,
		composer:         composer,
		allocator:        pricing.NewAllocator(registrationRepo),
		reconciler:       pricing.NewReconciler(composer),
		queue:            queue,
		logger:           logger,
		contextTimeout:   timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *registrationService) Quote(ctx context.Context, eventID string, sel domain.Selection) (*domain.PriceQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if sel.ChildCount < 0 {
		return nil, fmt.Errorf("%w: child count must not be negative", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	code := s.lookupDiscount(ctx, eventID, sel.DiscountCode)
	q := s.composer.Compose(event, sel, s.resolver.Now(), code)
	return &q, nil
}

func (s *registrationService) Create(ctx context.Context, actor domain.Actor, in *domain.RegistrationInput) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateRegistrationInput(in); err != nil {
		return nil, err
	}
	userID := actor.UserID
	if actor.IsAdmin && in.UserID != "" {
		userID = in.UserID
	}

	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.WarnContext(ctx, "event unavailable, registering without pricing",
			"event_id", in.EventID, "err", err)
		event = nil
	}

	now := s.now()
	reg := &domain.Registration{
		EventID:           in.EventID,
		UserID:            userID,
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Email:             strings.TrimSpace(in.Email),
		WednesdayActivity: in.WednesdayActivity,
		GuestDinnerTicket: in.GuestDinnerTicket,
		GuestBreakfast:    in.GuestBreakfast,
		Children:          in.Children,
		PaymentMethod:     in.PaymentMethod,
		Status:            domain.RegistrationStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if reg.Children == nil {
		reg.Children = []domain.Child{}
	}

	decision := s.allocator.Decide(ctx, event, reg.WednesdayActivity, "")
	s.logDegradedDecision(ctx, decision, reg)
	if decision.Waitlisted {
		reg.WednesdayActivityWaitlisted = true
		reg.WednesdayActivityWaitlistedAt = &now
	}

	var applied *domain.DiscountCode
	if event != nil {
		sel := reg.Selection()
		sel.DiscountCode = in.DiscountCode
		code := s.lookupDiscount(ctx, event.ID, in.DiscountCode)
		q := s.composer.Compose(event, sel, s.resolver.Now(), code)
		reg.TotalPrice = q.Total
		reg.DiscountAmount = q.DiscountAmount
		if q.DiscountApplied {
			applied = code
			reg.DiscountCode = code.Code
		} else if q.DiscountReason != "" {
			s.logger.InfoContext(ctx, "discount code not applied",
				"event_id", event.ID, "code", domain.NormalizeCode(in.DiscountCode), "reason", q.DiscountReason)
		}
	}

	// The override also becomes the original total, so later attendee edits
	// adjust it instead of repricing from scratch.
	if actor.IsAdmin && in.TotalPrice != nil {
		override := *in.TotalPrice
		reg.TotalPrice = override
		reg.OriginalTotalPrice = &override
	}

	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	if applied != nil {
		if err := s.discountRepo.IncrementUsage(ctx, applied.ID); err != nil {
			s.logger.WarnContext(ctx, "discount usage not recorded",
				"registration_id", reg.ID, "code", applied.Code, "err", err)
		}
	}

	s.enqueue(ctx, domain.NotificationConfirmation, reg, event)
	return reg, nil
}

func (s *registrationService) Get(ctx context.Context, actor domain.Actor, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getAuthorized(ctx, actor, registrationID)
}

func (s *registrationService) Update(ctx context.Context, actor domain.Actor, registrationID string, upd *domain.RegistrationUpdate) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.getAuthorized(ctx, actor, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.IsCancelled() {
		return nil, domain.ErrRegistrationCancelled
	}
	if err := validateRegistrationUpdate(upd); err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		upd.TotalPrice = nil
		if reg.Paid && upd.AffectsPrice() {
			return nil, domain.ErrPaidRegistrationLocked
		}
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "event unavailable, keeping stored price",
			"registration_id", reg.ID, "event_id", reg.EventID, "err", err)
		event = nil
	}

	now := s.now()
	pricedAt := s.resolver.Now()

	// Reconcile against the stored selection before the update is applied.
	var rec pricing.Reconciliation
	adjusted := !actor.IsAdmin && pricing.HasAdminAdjustment(reg)
	adjustedTotal := reg.TotalPrice
	switch {
	case actor.IsAdmin && upd.AffectsPrice():
		rec = s.reconciler.Reconcile(reg, upd, event, pricedAt)
		if rec.Degraded {
			s.logger.WarnContext(ctx, "repricing skipped, event unavailable", "registration_id", reg.ID)
		}
	case adjusted && upd.AffectsPrice():
		var ok bool
		if adjustedTotal, ok = s.reconciler.AdjustTotal(reg, upd, event, pricedAt); !ok {
			s.logger.WarnContext(ctx, "add-on change not priced, event unavailable", "registration_id", reg.ID)
		}
	}

	applyPersonalFields(reg, upd)
	if upd.WednesdayActivity != nil && *upd.WednesdayActivity != reg.WednesdayActivity {
		reg.WednesdayActivity = *upd.WednesdayActivity
		reg.WednesdayActivityWaitlisted = false
		reg.WednesdayActivityWaitlistedAt = nil
		decision := s.allocator.Decide(ctx, event, reg.WednesdayActivity, reg.ID)
		s.logDegradedDecision(ctx, decision, reg)
		if decision.Waitlisted {
			reg.WednesdayActivityWaitlisted = true
			reg.WednesdayActivityWaitlistedAt = &now
		}
	}
	applySelection(reg, upd)

	switch {
	case actor.IsAdmin && upd.AffectsPrice():
		pricing.ApplyReconciliation(reg, rec, now)
	case adjusted && upd.AffectsPrice():
		reg.TotalPrice = adjustedTotal
		pricing.CapPending(reg)
	case upd.AffectsPrice():
		if total, ok := s.reconciler.RecomputeTotal(reg, event, pricedAt); ok {
			reg.TotalPrice = total
		}
	}

	if upd.Paid != nil {
		switch {
		case actor.IsAdmin && *upd.Paid:
			pricing.MarkPaidByAdmin(reg, now)
		case actor.IsAdmin:
			reg.Paid = false
			reg.PaidAt = nil
		case *upd.Paid:
			pricing.ConfirmAttendeePayment(reg, now)
		}
	}

	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}

	if actor.IsAdmin && reg.PendingPaymentAmount > 0 && !strings.EqualFold(reg.PaymentMethod, domain.PaymentMethodCheck) {
		s.enqueue(ctx, domain.NotificationPendingPayment, reg, event)
	} else {
		s.enqueue(ctx, domain.NotificationUpdate, reg, event)
	}
	return reg, nil
}

// Cancel marks the registration cancelled. The activity name is kept; the seat is released
// because cancelled registrations are not counted. Cancelling twice is a no-op.
func (s *registrationService) Cancel(ctx context.Context, actor domain.Actor, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.getAuthorized(ctx, actor, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.IsCancelled() {
		return reg, nil
	}
	now := s.now()
	reg.Status = domain.RegistrationStatusCancelled
	reg.CancellationAt = &now
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("cancel registration: %w", err)
	}
	s.logger.InfoContext(ctx, "registration cancelled", "registration_id", reg.ID, "activity", reg.WednesdayActivity)
	s.enqueue(ctx, domain.NotificationUpdate, reg, s.eventForNotice(ctx, reg.EventID))
	return reg, nil
}

// PromoteFromWaitlist confirms a waitlisted activity choice after re-checking capacity.
// Unlike allocation, a failed occupancy read rejects the promotion.
func (s *registrationService) PromoteFromWaitlist(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	switch {
	case reg.IsCancelled():
		return nil, domain.ErrRegistrationCancelled
	case reg.WednesdayActivity == "":
		return nil, domain.ErrNoActivitySelected
	case !reg.WednesdayActivityWaitlisted:
		return nil, domain.ErrNotWaitlisted
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event for promotion: %w", err)
	}
	if err := s.allocator.CheckCapacity(ctx, event, reg.WednesdayActivity, reg.ID); err != nil {
		return nil, err
	}

	reg.WednesdayActivityWaitlisted = false
	reg.WednesdayActivityWaitlistedAt = nil
	reg.UpdatedAt = s.now()
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("promote registration: %w", err)
	}
	s.logger.InfoContext(ctx, "registration promoted from waitlist", "registration_id", reg.ID, "activity", reg.WednesdayActivity)
	s.enqueue(ctx, domain.NotificationUpdate, reg, event)
	return reg, nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, 0, err
	}
	return s.registrationRepo.ListByEvent(ctx, eventID, params)
}

func (s *registrationService) getAuthorized(ctx context.Context, actor domain.Actor, registrationID string) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && reg.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

// lookupDiscount returns nil for an empty, unknown, or unreadable code.
func (s *registrationService) lookupDiscount(ctx context.Context, eventID, code string) *domain.DiscountCode {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	dc, err := s.discountRepo.GetByEventAndCode(ctx, eventID, code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "discount lookup failed", "event_id", eventID, "code", domain.NormalizeCode(code), "err", err)
		}
		return nil
	}
	return dc
}

func (s *registrationService) logDegradedDecision(ctx context.Context, d pricing.WaitlistDecision, reg *domain.Registration) {
	if d.Degraded != nil {
		s.logger.WarnContext(ctx, "occupancy unavailable, activity confirmed",
			"registration_id", reg.ID, "event_id", reg.EventID, "activity", reg.WednesdayActivity, "err", d.Degraded)
	}
}

func (s *registrationService) eventForNotice(ctx context.Context, eventID string) *domain.Event {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil
	}
	return event
}

// enqueue queues a notice. Failures are logged and never returned.
func (s *registrationService) enqueue(ctx context.Context, kind string, reg *domain.Registration, event *domain.Event) {
	if s.queue == nil {
		return
	}
	notice := domain.RegistrationNotice{
		To:           reg.Email,
		Name:         strings.TrimSpace(reg.FirstName + " " + reg.LastName),
		Registration: *reg,
	}
	if event != nil {
		notice.EventName = event.Name
		notice.EventYear = event.Year
	}
	if err := s.queue.Enqueue(ctx, domain.NotificationJob{Kind: kind, Notice: notice}); err != nil {
		s.logger.WarnContext(ctx, "notification not queued", "kind", kind, "registration_id", reg.ID, "err", err)
	}
}

func validateRegistrationInput(in *domain.RegistrationInput) error {
	if in == nil {
		return fmt.Errorf("%w: registration is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.EventID) == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", domain.ErrInvalidInput)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if in.TotalPrice != nil && *in.TotalPrice < 0 {
		return fmt.Errorf("%w: total price must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func validateRegistrationUpdate(upd *domain.RegistrationUpdate) error {
	if upd == nil {
		return fmt.Errorf("%w: update is required", domain.ErrInvalidInput)
	}
	if upd.Email != nil && !strings.Contains(*upd.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if upd.TotalPrice != nil && *upd.TotalPrice < 0 {
		return fmt.Errorf("%w: total price must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func applyPersonalFields(reg *domain.Registration, upd *domain.RegistrationUpdate) {
	if upd.FirstName != nil {
		reg.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		reg.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Email != nil {
		reg.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.PaymentMethod != nil {
		reg.PaymentMethod = *upd.PaymentMethod
	}
}

func applySelection(reg *domain.Registration, upd *domain.RegistrationUpdate) {
	if upd.GuestDinnerTicket != nil {
		reg.GuestDinnerTicket = *upd.GuestDinnerTicket
	}
	if upd.GuestBreakfast != nil {
		reg.GuestBreakfast = *upd.GuestBreakfast
	}
	if upd.Children != nil {
		reg.Children = *upd.Children
	}
}
