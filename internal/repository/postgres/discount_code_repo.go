package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferenceportal/internal/domain"
)

const discountCodeColumns = `id, event_id, code, discount_type, discount_value, expires_at, usage_limit, used_count, created_at`

type discountCodeRepository struct {
	DB *sql.DB
}

func NewDiscountCodeRepository(db *sql.DB) domain.DiscountCodeRepository {
	return &discountCodeRepository{
		DB: db,
	}
}

func scanDiscountCode(row rowScanner) (*domain.DiscountCode, error) {
	c := &domain.DiscountCode{}
	var expires sql.NullTime
	var limit sql.NullInt64
	if err := row.Scan(&c.ID, &c.EventID, &c.Code, &c.DiscountType, &c.DiscountValue, &expires, &limit, &c.UsedCount, &c.CreatedAt); err != nil {
		return nil, err
	}
	if expires.Valid {
		c.ExpiresAt = &expires.Time
	}
	if limit.Valid {
		n := int(limit.Int64)
		c.UsageLimit = &n
	}
	return c, nil
}

func (r *discountCodeRepository) Create(ctx context.Context, c *domain.DiscountCode) error {
	c.Code = domain.NormalizeCode(c.Code)
	query := `
		INSERT INTO discount_codes (event_id, code, discount_type, discount_value, expires_at, usage_limit, used_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.EventID, c.Code, c.DiscountType, c.DiscountValue, c.ExpiresAt, c.UsageLimit, c.UsedCount, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *discountCodeRepository) GetByEventAndCode(ctx context.Context, eventID, code string) (*domain.DiscountCode, error) {
	query := `SELECT ` + discountCodeColumns + ` FROM discount_codes WHERE event_id = $1 AND code = $2`
	c, err := scanDiscountCode(r.DB.QueryRowContext(ctx, query, eventID, domain.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *discountCodeRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.DiscountCode, error) {
	query := `SELECT ` + discountCodeColumns + ` FROM discount_codes WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := make([]*domain.DiscountCode, 0)
	for rows.Next() {
		c, err := scanDiscountCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *discountCodeRepository) IncrementUsage(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE discount_codes SET used_count = used_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
