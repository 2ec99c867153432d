package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"conferenceportal/internal/domain"
)

const eventColumns = `id, name, year, default_price, registration_tiers, guest_tiers, child_tiers,
		breakfast_price, breakfast_cutoff_date, activities, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type eventSchedules struct {
	registration, guest, child, activities []byte
}

func marshalSchedules(e *domain.Event) (eventSchedules, error) {
	var s eventSchedules
	var err error
	if s.registration, err = marshalJSONList(e.RegistrationTiers); err != nil {
		return s, fmt.Errorf("registration tiers: %w", err)
	}
	if s.guest, err = marshalJSONList(e.GuestTiers); err != nil {
		return s, fmt.Errorf("guest tiers: %w", err)
	}
	if s.child, err = marshalJSONList(e.ChildTiers); err != nil {
		return s, fmt.Errorf("child tiers: %w", err)
	}
	if s.activities, err = marshalJSONList(e.Activities); err != nil {
		return s, fmt.Errorf("activities: %w", err)
	}
	return s, nil
}

// marshalJSONList encodes a nil slice as an empty JSON array.
func marshalJSONList[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	return json.Marshal(v)
}

func unmarshalJSONList[T any](raw []byte) ([]T, error) {
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var s eventSchedules
	var cutoff sql.NullString
	if err := row.Scan(
		&e.ID, &e.Name, &e.Year, &e.DefaultPrice,
		&s.registration, &s.guest, &s.child,
		&e.BreakfastPrice, &cutoff, &s.activities,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.BreakfastCutoffDate = cutoff.String
	var err error
	if e.RegistrationTiers, err = unmarshalJSONList[domain.PriceTier](s.registration); err != nil {
		return nil, fmt.Errorf("decode registration tiers: %w", err)
	}
	if e.GuestTiers, err = unmarshalJSONList[domain.PriceTier](s.guest); err != nil {
		return nil, fmt.Errorf("decode guest tiers: %w", err)
	}
	if e.ChildTiers, err = unmarshalJSONList[domain.PriceTier](s.child); err != nil {
		return nil, fmt.Errorf("decode child tiers: %w", err)
	}
	if e.Activities, err = unmarshalJSONList[domain.Activity](s.activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	s, err := marshalSchedules(e)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (name, year, default_price, registration_tiers, guest_tiers, child_tiers,
			breakfast_price, breakfast_cutoff_date, activities, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Year, e.DefaultPrice, s.registration, s.guest, s.child,
		e.BreakfastPrice, e.BreakfastCutoffDate, s.activities, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	s, err := marshalSchedules(e)
	if err != nil {
		return err
	}
	query := `
		UPDATE events SET name = $2, year = $3, default_price = $4, registration_tiers = $5,
			guest_tiers = $6, child_tiers = $7, breakfast_price = $8, breakfast_cutoff_date = $9,
			activities = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.Year, e.DefaultPrice, s.registration, s.guest, s.child,
		e.BreakfastPrice, e.BreakfastCutoffDate, s.activities, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY year DESC, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
