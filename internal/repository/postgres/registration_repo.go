package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conferenceportal/internal/domain"
)

const registrationColumns = `id, event_id, user_id, first_name, last_name, email,
		wednesday_activity, wednesday_activity_waitlisted, wednesday_activity_waitlisted_at,
		guest_dinner_ticket, guest_breakfast, children, discount_code,
		total_price, discount_amount, original_total_price, payment_method,
		paid, paid_at, paid_amount, pending_payment_amount, pending_payment_reason, pending_payment_created_at,
		status, cancellation_at, created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var children []byte
	var activity, discount, method, reason, status sql.NullString
	var waitlistedAt, paidAt, pendingAt, cancelledAt sql.NullTime
	var original sql.NullFloat64
	if err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.FirstName, &reg.LastName, &reg.Email,
		&activity, &reg.WednesdayActivityWaitlisted, &waitlistedAt,
		&reg.GuestDinnerTicket, &reg.GuestBreakfast, &children, &discount,
		&reg.TotalPrice, &reg.DiscountAmount, &original, &method,
		&reg.Paid, &paidAt, &reg.PaidAmount, &reg.PendingPaymentAmount, &reason, &pendingAt,
		&status, &cancelledAt, &reg.CreatedAt, &reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.WednesdayActivity = activity.String
	reg.DiscountCode = discount.String
	reg.PaymentMethod = method.String
	reg.PendingPaymentReason = reason.String
	reg.Status = status.String
	if waitlistedAt.Valid {
		reg.WednesdayActivityWaitlistedAt = &waitlistedAt.Time
	}
	if paidAt.Valid {
		reg.PaidAt = &paidAt.Time
	}
	if pendingAt.Valid {
		reg.PendingPaymentCreatedAt = &pendingAt.Time
	}
	if cancelledAt.Valid {
		reg.CancellationAt = &cancelledAt.Time
	}
	if original.Valid {
		reg.OriginalTotalPrice = &original.Float64
	}
	var err error
	if reg.Children, err = unmarshalJSONList[domain.Child](children); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	children, err := marshalJSONList(reg.Children)
	if err != nil {
		return fmt.Errorf("encode children: %w", err)
	}
	query := `
		INSERT INTO registrations (event_id, user_id, first_name, last_name, email,
			wednesday_activity, wednesday_activity_waitlisted, wednesday_activity_waitlisted_at,
			guest_dinner_ticket, guest_breakfast, children, discount_code,
			total_price, discount_amount, original_total_price, payment_method,
			paid, paid_at, paid_amount, pending_payment_amount, pending_payment_reason, pending_payment_created_at,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, reg.FirstName, reg.LastName, reg.Email,
		reg.WednesdayActivity, reg.WednesdayActivityWaitlisted, reg.WednesdayActivityWaitlistedAt,
		reg.GuestDinnerTicket, reg.GuestBreakfast, children, reg.DiscountCode,
		reg.TotalPrice, reg.DiscountAmount, reg.OriginalTotalPrice, reg.PaymentMethod,
		reg.Paid, reg.PaidAt, reg.PaidAmount, reg.PendingPaymentAmount, reg.PendingPaymentReason, reg.PendingPaymentCreatedAt,
		reg.Status, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	children, err := marshalJSONList(reg.Children)
	if err != nil {
		return fmt.Errorf("encode children: %w", err)
	}
	query := `
		UPDATE registrations SET first_name = $2, last_name = $3, email = $4,
			wednesday_activity = $5, wednesday_activity_waitlisted = $6, wednesday_activity_waitlisted_at = $7,
			guest_dinner_ticket = $8, guest_breakfast = $9, children = $10, discount_code = $11,
			total_price = $12, discount_amount = $13, original_total_price = $14, payment_method = $15,
			paid = $16, paid_at = $17, paid_amount = $18, pending_payment_amount = $19,
			pending_payment_reason = $20, pending_payment_created_at = $21,
			status = $22, cancellation_at = $23, updated_at = $24
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		reg.ID, reg.FirstName, reg.LastName, reg.Email,
		reg.WednesdayActivity, reg.WednesdayActivityWaitlisted, reg.WednesdayActivityWaitlistedAt,
		reg.GuestDinnerTicket, reg.GuestBreakfast, children, reg.DiscountCode,
		reg.TotalPrice, reg.DiscountAmount, reg.OriginalTotalPrice, reg.PaymentMethod,
		reg.Paid, reg.PaidAt, reg.PaidAmount, reg.PendingPaymentAmount,
		reg.PendingPaymentReason, reg.PendingPaymentCreatedAt,
		reg.Status, reg.CancellationAt, reg.UpdatedAt,
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

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY created_at ASC, id ASC`
	args := []any{eventID}
	if limit := params.Limit(); limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *registrationRepository) CountConfirmedForActivity(ctx context.Context, eventID, activity, excludeRegistrationID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM registrations
		WHERE event_id = $1
			AND wednesday_activity = $2
			AND status IS DISTINCT FROM 'cancelled'
			AND NOT wednesday_activity_waitlisted
			AND ($3 = '' OR id::text <> $3)
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, eventID, activity, excludeRegistrationID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
