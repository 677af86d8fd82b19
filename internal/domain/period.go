package domain

import "time"

// Half-open time window [Start, End) over which metrics are aggregated.
type Period struct {
	Start time.Time
	End   time.Time
}

// Report whether the window is well-formed (Start not after End).
func (p Period) Valid() bool {
	return !p.Start.After(p.End)
}

// Report whether t falls inside the window. The start bound is
// inclusive and the end bound exclusive, so adjacent periods
// partition a timeline without double-counting.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Year builds the calendar-year window [Jan 1, Jan 1 of the next year) in UTC.
func Year(year int) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(1, 0, 0)}
}

// MonthOf builds the one-month window containing the given month of a year, in UTC.
func MonthOf(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}
