package services

import "time"

// Clock abstracts time.Now so services that depend on "today" can be tested
// with fixed dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// DateKey truncates a moment to its civil date in the given location. The
// result is stored as a pure DATE column, so it is normalized to UTC midnight
// regardless of the institution timezone used to pick the day.
func DateKey(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
