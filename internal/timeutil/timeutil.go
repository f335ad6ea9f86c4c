// ABOUTME: Date range helpers for filtering posts by publication period
// ABOUTME: Backs the --period flag with today/yesterday/week/month windows

package timeutil

import "time"

// Range is a half-open time window [Since, Until). A zero Until means
// the window is unbounded on the right.
type Range struct {
	Since time.Time
	Until time.Time
}

// StartOfToday returns midnight (00:00:00) of the current day in local time
func StartOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns midnight of the most recent Sunday in local time
// Note: Week starts on Sunday
func StartOfWeek() time.Time {
	today := StartOfToday()
	weekday := int(today.Weekday())
	return today.AddDate(0, 0, -weekday)
}

// StartOfMonth returns midnight of the first day of the current month in local time
func StartOfMonth() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period string to the time window it covers.
// Supported values: "today", "yesterday", "week", "month".
// All windows except "yesterday" extend to now.
func ParsePeriod(period string) (Range, bool) {
	switch period {
	case "today":
		return Range{Since: StartOfToday()}, true
	case "yesterday":
		today := StartOfToday()
		return Range{Since: today.AddDate(0, 0, -1), Until: today}, true
	case "week":
		return Range{Since: StartOfWeek()}, true
	case "month":
		return Range{Since: StartOfMonth()}, true
	default:
		return Range{}, false
	}
}
