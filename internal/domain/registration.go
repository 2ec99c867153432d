package domain

import (
	"context"
	"time"
)

// Registration statuses. An empty status means active.
const (
	RegistrationStatusActive    = ""
	RegistrationStatusCancelled = "cancelled"
)

// PaymentMethodCheck marks attendees paying by mailed check; they get no pending-payment email.
const PaymentMethodCheck = "check"

// Child is a child registered alongside the attendee. Every child is priced identically.
type Child struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Registration is one attendee's registration for an event.
// swagger:model Registration
type Registration struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`

	WednesdayActivity             string     `json:"wednesday_activity,omitempty"`
	WednesdayActivityWaitlisted   bool       `json:"wednesday_activity_waitlisted"`
	WednesdayActivityWaitlistedAt *time.Time `json:"wednesday_activity_waitlisted_at,omitempty"`

	GuestDinnerTicket bool    `json:"guest_dinner_ticket"`
	GuestBreakfast    bool    `json:"guest_breakfast"`
	Children          []Child `json:"children"`
	DiscountCode      string  `json:"discount_code,omitempty"`

	TotalPrice              float64    `json:"total_price"`
	DiscountAmount          float64    `json:"discount_amount"`
	OriginalTotalPrice      *float64   `json:"original_total_price,omitempty"`
	PaymentMethod           string     `json:"payment_method,omitempty"`
	Paid                    bool       `json:"paid"`
	PaidAt                  *time.Time `json:"paid_at,omitempty"`
	PaidAmount              float64    `json:"paid_amount"`
	PendingPaymentAmount    float64    `json:"pending_payment_amount"`
	PendingPaymentReason    string     `json:"pending_payment_reason,omitempty"`
	PendingPaymentCreatedAt *time.Time `json:"pending_payment_created_at,omitempty"`

	Status         string     `json:"status,omitempty"`
	CancellationAt *time.Time `json:"cancellation_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsCancelled reports whether the registration was cancelled.
func (r *Registration) IsCancelled() bool {
	return r.Status == RegistrationStatusCancelled
}

// HoldsSeat reports whether the registration counts toward its activity's confirmed occupancy.
func (r *Registration) HoldsSeat() bool {
	return r.WednesdayActivity != "" && !r.IsCancelled() && !r.WednesdayActivityWaitlisted
}

// Selection returns the priced choices currently stored on the registration.
func (r *Registration) Selection() Selection {
	return Selection{
		GuestDinnerTicket: r.GuestDinnerTicket,
		GuestBreakfast:    r.GuestBreakfast,
		ChildCount:        len(r.Children),
	}
}

// RegistrationInput is the submitted registration form.
type RegistrationInput struct {
	EventID           string
	UserID            string
	FirstName         string
	LastName          string
	Email             string
	WednesdayActivity string
	GuestDinnerTicket bool
	GuestBreakfast    bool
	Children          []Child
	DiscountCode      string
	PaymentMethod     string
	// TotalPrice is an administrator override applied after pricing.
	TotalPrice *float64
}

// RegistrationUpdate is a partial edit. Nil fields are left unchanged.
type RegistrationUpdate struct {
	FirstName         *string
	LastName          *string
	Email             *string
	WednesdayActivity *string
	GuestDinnerTicket *bool
	GuestBreakfast    *bool
	Children          *[]Child
	PaymentMethod     *string
	Paid              *bool
	// TotalPrice is honored for administrators only.
	TotalPrice *float64
}

// AffectsPrice reports whether the update touches a priced selection.
func (u *RegistrationUpdate) AffectsPrice() bool {
	return u.GuestDinnerTicket != nil || u.GuestBreakfast != nil || u.Children != nil || u.TotalPrice != nil
}

// Actor identifies who is performing an operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	Update(ctx context.Context, reg *Registration) error
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Registration, int, error)
	// CountConfirmedForActivity counts active, non-waitlisted registrations for the activity,
	// skipping excludeRegistrationID when it is not empty.
	CountConfirmedForActivity(ctx context.Context, eventID, activity, excludeRegistrationID string) (int, error)
}

// Selection is the priced part of a registration.
type Selection struct {
	GuestDinnerTicket bool
	GuestBreakfast    bool
	ChildCount        int
	DiscountCode      string
}

// RegistrationService defines registration, pricing, and waitlist operations.
type RegistrationService interface {
	Quote(ctx context.Context, eventID string, sel Selection) (*PriceQuote, error)
	Create(ctx context.Context, actor Actor, in *RegistrationInput) (*Registration, error)
	Get(ctx context.Context, actor Actor, registrationID string) (*Registration, error)
	Update(ctx context.Context, actor Actor, registrationID string, upd *RegistrationUpdate) (*Registration, error)
	Cancel(ctx context.Context, actor Actor, registrationID string) (*Registration, error)
	PromoteFromWaitlist(ctx context.Context, registrationID string) (*Registration, error)
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Registration, int, error)
}

// PriceQuote is a priced breakdown of a selection.
// swagger:model PriceQuote
type PriceQuote struct {
	BaseTier        string  `json:"base_tier,omitempty"`
	BasePrice       float64 `json:"base_price"`
	GuestTier       string  `json:"guest_tier,omitempty"`
	GuestPrice      float64 `json:"guest_price"`
	BreakfastPrice  float64 `json:"breakfast_price"`
	ChildTier       string  `json:"child_tier,omitempty"`
	ChildUnitPrice  float64 `json:"child_unit_price"`
	ChildrenPrice   float64 `json:"children_price"`
	Subtotal        float64 `json:"subtotal"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountApplied bool    `json:"discount_applied"`
	DiscountReason  string  `json:"discount_reason,omitempty"`
	Total           float64 `json:"total"`
}
