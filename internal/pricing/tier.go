package pricing

import (
	"math"
	"time"

	"conferenceportal/internal/domain"
)

// centTolerance is the largest difference treated as equal money.
const centTolerance = 0.01

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SelectTier returns the first tier, in list order, whose [start, end) day
// window contains now. When none matches it returns the last tier, and nil
// only for an empty list. The list is never sorted, so with overlapping
// windows the earlier entry wins.
func SelectTier(tiers []domain.PriceTier, r Resolver, now time.Time) *domain.PriceTier {
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		if tierContains(r, tiers[i], now) {
			return &tiers[i]
		}
	}
	return &tiers[len(tiers)-1]
}

func tierContains(r Resolver, tier domain.PriceTier, now time.Time) bool {
	if start, ok := r.DayStart(tier.StartDate); ok && now.Before(start) {
		return false
	}
	if end, ok := r.DayEnd(tier.EndDate); ok && !now.Before(end) {
		return false
	}
	return true
}
