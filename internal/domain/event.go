package domain

import (
	"context"
	"time"
)

// PriceTier is a date-bounded price. StartDate and EndDate are calendar dates
// (YYYY-MM-DD) interpreted in Eastern time; an empty date leaves that side open.
// swagger:model PriceTier
type PriceTier struct {
	Label     string  `json:"label"`
	Price     float64 `json:"price"`
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
}

// Activity is a selectable activity. A nil SeatLimit means unlimited.
// swagger:model Activity
type Activity struct {
	Name      string `json:"name"`
	SeatLimit *int   `json:"seat_limit,omitempty"`
}

// Event represents a yearly conference with its price schedule.
// swagger:model Event
type Event struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Year                int         `json:"year"`
	DefaultPrice        float64     `json:"default_price"`
	RegistrationTiers   []PriceTier `json:"registration_tiers"`
	GuestTiers          []PriceTier `json:"guest_tiers"`
	ChildTiers          []PriceTier `json:"child_tiers"`
	BreakfastPrice      float64     `json:"breakfast_price"`
	BreakfastCutoffDate string      `json:"breakfast_cutoff_date,omitempty"`
	Activities          []Activity  `json:"activities"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with empty price schedules. ID is typically set by the repository on create.
func NewEvent(name string, year int, defaultPrice float64, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:              name,
		Year:              year,
		DefaultPrice:      defaultPrice,
		RegistrationTiers: []PriceTier{},
		GuestTiers:        []PriceTier{},
		ChildTiers:        []PriceTier{},
		Activities:        []Activity{},
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}

// FindActivity returns the activity matching name exactly, or nil.
func (e *Event) FindActivity(name string) *Activity {
	for i := range e.Activities {
		if e.Activities[i].Name == name {
			return &e.Activities[i]
		}
	}
	return nil
}

// ActivityOccupancy reports confirmed seats for one activity.
// swagger:model ActivityOccupancy
type ActivityOccupancy struct {
	Activity  string `json:"activity"`
	SeatLimit *int   `json:"seat_limit,omitempty"`
	Confirmed int    `json:"confirmed"`
	Remaining *int   `json:"remaining,omitempty"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]*Event, error)
}

// EventService defines administrator operations on events and their discount codes.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	CreateDiscountCode(ctx context.Context, code *DiscountCode) error
	ListDiscountCodes(ctx context.Context, eventID string) ([]*DiscountCode, error)
	ActivityOccupancy(ctx context.Context, eventID string) ([]*ActivityOccupancy, error)
}
