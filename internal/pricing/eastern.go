// Package pricing resolves tiered prices, discounts, activity seats, and
// administrator repricing for conference registrations.
//
// All date boundaries are Eastern-time calendar days. Comparisons are
// instant-vs-instant; nothing here depends on the server's local zone.
package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EasternZone is the zone calendar-date boundaries are observed in.
const EasternZone = "America/New_York"

// Resolver modes.
const (
	ModeIterative = "iterative"
	ModeZone      = "zone"
)

// maxCorrections caps the fixed-point iteration in IterativeResolver.
const maxCorrections = 10

// Resolver maps calendar dates to the UTC instants bounding that day in Eastern time.
// The bool result is false when the date is empty or unusable, meaning the bound is open.
type Resolver interface {
	DayStart(date string) (time.Time, bool)
	// DayEnd is exclusive: the start of the following calendar day.
	DayEnd(date string) (time.Time, bool)
	Now() time.Time
}

// WallClock renders an instant as wall-clock fields of the target zone. The
// returned value carries those fields in a UTC time.Time.
type WallClock func(t time.Time) time.Time

// ZoneWallClock renders wall-clock fields using a loaded location.
func ZoneWallClock(loc *time.Location) WallClock {
	return func(t time.Time) time.Time {
		w := t.In(loc)
		return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), time.UTC)
	}
}

// EasternWallClock returns a wall clock for America/New_York. It uses the zone
// database when available; otherwise it falls back to the built-in US Eastern
// DST rule. The bool reports whether the zone database was used.
func EasternWallClock() (WallClock, bool) {
	loc, err := time.LoadLocation(EasternZone)
	if err != nil {
		return USEasternRules, false
	}
	return ZoneWallClock(loc), true
}

// NewResolver builds a Resolver for the given mode. An empty clock uses time.Now.
func NewResolver(mode, zone string, clock func() time.Time) (Resolver, error) {
	if clock == nil {
		clock = time.Now
	}
	if zone == "" {
		zone = EasternZone
	}
	switch mode {
	case "", ModeIterative:
		if zone == EasternZone {
			wall, _ := EasternWallClock()
			return NewIterativeResolver(wall, clock), nil
		}
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load zone %q: %w", zone, err)
		}
		return NewIterativeResolver(ZoneWallClock(loc), clock), nil
	case ModeZone:
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load zone %q: %w", zone, err)
		}
		return NewZoneResolver(loc, clock), nil
	default:
		return nil, fmt.Errorf("unknown resolver mode %q", mode)
	}
}

// IterativeResolver finds day boundaries by fixed-point correction against a
// wall clock: start from the date's UTC midnight, render it as wall-clock time,
// shift by the observed drift, and repeat until the wall clock reads the target.
type IterativeResolver struct {
	wall  WallClock
	clock func() time.Time
}

// NewIterativeResolver returns a resolver driven by the given wall clock.
func NewIterativeResolver(wall WallClock, clock func() time.Time) *IterativeResolver {
	if clock == nil {
		clock = time.Now
	}
	return &IterativeResolver{wall: wall, clock: clock}
}

func (r *IterativeResolver) DayStart(date string) (time.Time, bool) {
	y, m, d, ok := parseCalendarDate(date)
	if !ok {
		t, ok := parseFallbackDate(date)
		return t, ok
	}
	return r.resolve(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), true
}

func (r *IterativeResolver) DayEnd(date string) (time.Time, bool) {
	y, m, d, ok := parseCalendarDate(date)
	if !ok {
		t, ok := parseFallbackDate(date)
		if !ok {
			return time.Time{}, false
		}
		return t.AddDate(0, 0, 1), true
	}
	return r.resolve(time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)), true
}

// Now maps the current instant through the wall clock and back, so "now" is
// derived the same way as the day boundaries it is compared against.
func (r *IterativeResolver) Now() time.Time {
	return r.resolve(r.wall(r.clock()))
}

// resolve returns the instant whose wall-clock rendering equals target's fields.
func (r *IterativeResolver) resolve(target time.Time) time.Time {
	guess := target
	for i := 0; i < maxCorrections; i++ {
		drift := r.wall(guess).Sub(target)
		if drift == 0 {
			break
		}
		guess = guess.Add(-drift)
	}
	return guess
}

// ZoneResolver computes boundaries directly from a loaded location.
type ZoneResolver struct {
	loc   *time.Location
	clock func() time.Time
}

// NewZoneResolver returns a resolver for loc.
func NewZoneResolver(loc *time.Location, clock func() time.Time) *ZoneResolver {
	if clock == nil {
		clock = time.Now
	}
	return &ZoneResolver{loc: loc, clock: clock}
}

func (r *ZoneResolver) DayStart(date string) (time.Time, bool) {
	y, m, d, ok := parseCalendarDate(date)
	if !ok {
		return parseFallbackDate(date)
	}
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc).UTC(), true
}

func (r *ZoneResolver) DayEnd(date string) (time.Time, bool) {
	y, m, d, ok := parseCalendarDate(date)
	if !ok {
		t, ok := parseFallbackDate(date)
		if !ok {
			return time.Time{}, false
		}
		return t.AddDate(0, 0, 1), true
	}
	return time.Date(y, m, d+1, 0, 0, 0, 0, r.loc).UTC(), true
}

func (r *ZoneResolver) Now() time.Time {
	return r.clock().UTC()
}

var calendarDateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)

// parseCalendarDate reads the leading Y-M-D of s, so both "2025-03-01" and
// "2025-03-01T00:00:00.000Z" resolve to March 1.
func parseCalendarDate(s string) (int, time.Month, int, bool) {
	m := calendarDateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, 0, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if mo < 1 || mo > 12 || d < 1 {
		return 0, 0, 0, false
	}
	// time.Date normalizes overflow, so a rolled-over day means the date does not exist.
	if time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC).Day() != d {
		return 0, 0, 0, false
	}
	return y, time.Month(mo), d, true
}

// ValidDate reports whether s is a calendar date the resolvers understand.
// An empty string is not a date; callers treat it as an open bound.
func ValidDate(s string) bool {
	if _, _, _, ok := parseCalendarDate(s); ok {
		return true
	}
	_, ok := parseFallbackDate(s)
	return ok
}

var fallbackLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseFallbackDate interprets non-ISO dates as UTC midnight. The result
// ignores the Eastern offset.
func parseFallbackDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
