package domain

import (
	"context"
	"strings"
	"time"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// DiscountCode is an event-scoped discount.
// swagger:model DiscountCode
type DiscountCode struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	UsageLimit    *int       `json:"usage_limit,omitempty"`
	UsedCount     int        `json:"used_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NormalizeCode upper-cases and trims a discount code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountCodeRepository defines storage operations for discount codes.
type DiscountCodeRepository interface {
	Create(ctx context.Context, code *DiscountCode) error
	// GetByEventAndCode matches the normalized code within one event.
	GetByEventAndCode(ctx context.Context, eventID, code string) (*DiscountCode, error)
	ListByEvent(ctx context.Context, eventID string) ([]*DiscountCode, error)
	IncrementUsage(ctx context.Context, id string) error
}
