package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferenceportal/internal/domain"
	"conferenceportal/internal/pricing"
)

type eventService struct {
	eventRepo        domain.EventRepository
	discountRepo     domain.DiscountCodeRepository
	registrationRepo domain.RegistrationRepository
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	discountRepo domain.DiscountCodeRepository,
	registrationRepo domain.RegistrationRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		discountRepo:     discountRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
		contextTimeout:   timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}
	normalizeEvent(event)
	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "year", event.Year)
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, eventID)
}

// UpdateEvent replaces the event's pricing schedule and activities.
// Existing registrations keep their stored totals.
func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return nil, err
	}
	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	normalizeEvent(event)
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.List(ctx)
}

func (s *eventService) CreateDiscountCode(ctx context.Context, code *domain.DiscountCode) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code.Code = domain.NormalizeCode(code.Code)
	if code.Code == "" {
		return fmt.Errorf("%w: discount code is required", domain.ErrInvalidInput)
	}
	switch code.DiscountType {
	case domain.DiscountPercentage:
		if code.DiscountValue <= 0 || code.DiscountValue > 100 {
			return fmt.Errorf("%w: percentage must be between 0 and 100", domain.ErrInvalidInput)
		}
	case domain.DiscountFixed:
		if code.DiscountValue <= 0 {
			return fmt.Errorf("%w: fixed discount must be positive", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", domain.ErrInvalidInput, code.DiscountType)
	}
	if code.UsageLimit != nil && *code.UsageLimit < 1 {
		return fmt.Errorf("%w: usage limit must be at least 1", domain.ErrInvalidInput)
	}
	if _, err := s.eventRepo.GetByID(ctx, code.EventID); err != nil {
		return err
	}
	code.UsedCount = 0
	code.CreatedAt = s.now()
	if err := s.discountRepo.Create(ctx, code); err != nil {
		return fmt.Errorf("create discount code: %w", err)
	}
	return nil
}

func (s *eventService) ListDiscountCodes(ctx context.Context, eventID string) ([]*domain.DiscountCode, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.discountRepo.ListByEvent(ctx, eventID)
}

// ActivityOccupancy reports confirmed seats per activity in the event's activity order.
func (s *eventService) ActivityOccupancy(ctx context.Context, eventID string) ([]*domain.ActivityOccupancy, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ActivityOccupancy, 0, len(event.Activities))
	for _, act := range event.Activities {
		n, err := s.registrationRepo.CountConfirmedForActivity(ctx, event.ID, act.Name, "")
		if err != nil {
			return nil, fmt.Errorf("count %q: %w", act.Name, err)
		}
		occ := &domain.ActivityOccupancy{Activity: act.Name, SeatLimit: act.SeatLimit, Confirmed: n}
		if act.SeatLimit != nil {
			remaining := max(*act.SeatLimit-n, 0)
			occ.Remaining = &remaining
		}
		out = append(out, occ)
	}
	return out, nil
}

func validateEvent(e *domain.Event) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if e.Year < 1 {
		return fmt.Errorf("%w: event year is required", domain.ErrInvalidInput)
	}
	if e.DefaultPrice < 0 || e.BreakfastPrice < 0 {
		return fmt.Errorf("%w: prices must not be negative", domain.ErrInvalidInput)
	}
	for name, tiers := range map[string][]domain.PriceTier{
		"registration": e.RegistrationTiers,
		"guest":        e.GuestTiers,
		"child":        e.ChildTiers,
	} {
		for _, t := range tiers {
			if t.Price < 0 {
				return fmt.Errorf("%w: %s tier %q has a negative price", domain.ErrInvalidInput, name, t.Label)
			}
			if err := checkDate(t.StartDate, fmt.Sprintf("%s tier %q start date", name, t.Label)); err != nil {
				return err
			}
			if err := checkDate(t.EndDate, fmt.Sprintf("%s tier %q end date", name, t.Label)); err != nil {
				return err
			}
		}
	}
	if err := checkDate(e.BreakfastCutoffDate, "breakfast cutoff date"); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(e.Activities))
	for _, a := range e.Activities {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: activity name is required", domain.ErrInvalidInput)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: duplicate activity %q", domain.ErrInvalidInput, a.Name)
		}
		seen[a.Name] = struct{}{}
		if a.SeatLimit != nil && *a.SeatLimit < 0 {
			return fmt.Errorf("%w: activity %q has a negative seat limit", domain.ErrInvalidInput, a.Name)
		}
	}
	return nil
}

// checkDate rejects a non-empty date the pricing resolvers cannot read, since
// an unreadable bound would silently act as an open one.
func checkDate(date, field string) error {
	if strings.TrimSpace(date) == "" || pricing.ValidDate(date) {
		return nil
	}
	return fmt.Errorf("%w: %s %q is not a valid date (use YYYY-MM-DD)", domain.ErrInvalidInput, field, date)
}

// normalizeEvent replaces nil schedules with empty lists so they round-trip as JSON arrays.
func normalizeEvent(e *domain.Event) {
	if e.RegistrationTiers == nil {
		e.RegistrationTiers = []domain.PriceTier{}
	}
	if e.GuestTiers == nil {
		e.GuestTiers = []domain.PriceTier{}
	}
	if e.ChildTiers == nil {
		e.ChildTiers = []domain.PriceTier{}
	}
	if e.Activities == nil {
		e.Activities = []domain.Activity{}
	}
}
