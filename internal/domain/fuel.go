package domain

import "time"

// Represents a single refueling event. Immutable once recorded.
// DriverID is zero when the fill was not attributed to a driver; such
// records count toward vehicle aggregates but never driver aggregates.
type FuelRecord struct {
	ID         int64
	VehicleID  int64
	DriverID   int64
	Timestamp  time.Time
	Liters     float64
	Cost       float64
	OdometerKm *int64
}

// Report whether the record satisfies its invariants: a fill must
// dispense a positive quantity of fuel.
func (f FuelRecord) Valid() bool {
	return f.Liters > 0
}
