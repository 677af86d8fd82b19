package domain

import "time"

// Represents a single completed vehicle journey.
// A MovementRecord is created when a trip starts and finalized when it
// ends; once closed it is immutable. Aggregation attributes a movement
// to a period by its start timestamp.
type MovementRecord struct {
	ID         int64
	VehicleID  int64
	DriverID   int64
	StartTime  time.Time
	EndTime    time.Time
	DistanceKm float64
	PurposeID  int64
	Notes      string
}

// Report whether the record satisfies its invariants: the trip must not
// end before it starts and the distance must be non-negative. Records
// failing this check are excluded from aggregation and tallied as skipped.
func (m MovementRecord) Valid() bool {
	return !m.EndTime.Before(m.StartTime) && m.DistanceKm >= 0
}
