package roster

import "time"

// =============================================================================
// MONTH HELPERS
// =============================================================================

func StartOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func EndOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// DaysInMonth returns 28..31.
func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// ValidMonth checks month 1..12 and a positive year.
func ValidMonth(year int, month time.Month) bool {
	return month >= time.January && month <= time.December && year > 0
}

// DateOf returns the UTC midnight of day within month/year.
func DateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole days from a to b, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// NextMonth returns the month after month/year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	t := StartOfMonth(year, month).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}
