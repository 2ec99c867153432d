package pricing

import "time"

const (
	easternStandardOffset = -5 * time.Hour
	easternDaylightOffset = -4 * time.Hour
)

// USEasternRules is a WallClock for US Eastern time that needs no zone
// database. It applies the rule in force since 2007: daylight time from the
// second Sunday of March at 02:00 local to the first Sunday of November at
// 02:00 local.
func USEasternRules(t time.Time) time.Time {
	u := t.UTC()
	year := u.Year()
	// 02:00 EST and 02:00 EDT expressed in UTC.
	dstStart := nthSunday(year, time.March, 2).Add(2*time.Hour - easternStandardOffset)
	dstEnd := nthSunday(year, time.November, 1).Add(2*time.Hour - easternDaylightOffset)

	offset := easternStandardOffset
	if !u.Before(dstStart) && u.Before(dstEnd) {
		offset = easternDaylightOffset
	}
	return u.Add(offset)
}

// nthSunday returns midnight UTC of the nth Sunday of the month.
func nthSunday(year int, month time.Month, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	toSunday := (7 - int(first.Weekday())) % 7
	return first.AddDate(0, 0, toSunday+7*(n-1))
}
