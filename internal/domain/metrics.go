package domain

import "time"

// Aggregate usage totals for one entity over one period.
// Metrics values are derived on demand from movement and fuel records
// and are never stored as a source of truth: recomputing from an
// unchanged record set yields an identical result.
//
// Derived ratios are nil when their denominator is zero: efficiency and
// cost-per-km require at least one travelled kilometer, average trip
// distance requires at least one trip. A period with no matching
// records produces a zero-valued Metrics, not an error.
type Metrics struct {
	Period      Period
	TotalKm     float64
	TotalLiters float64
	TotalCost   float64
	TripCount   int

	// Liters consumed per 100 km travelled; nil when TotalKm is zero.
	EfficiencyLPer100Km *float64
	// Fuel cost per km travelled; nil when TotalKm is zero.
	CostPerKm *float64
	// Mean distance of a single trip; nil when TripCount is zero.
	AvgTripDistance *float64

	// Number of records excluded because they violated an invariant
	// (trip ending before it starts, negative distance, non-positive
	// liters). A bad row never aborts the computation.
	SkippedRecords int
}

// Per-driver metrics summary.
type DriverMetrics struct {
	DriverID int64
	Metrics
}

// Per-vehicle metrics summary.
type VehicleMetrics struct {
	VehicleID int64
	Metrics
}

// One month of a yearly breakdown. A breakdown always carries twelve
// entries (January through December); months without records are
// zero-valued rather than omitted so report shapes stay stable.
type MonthSummary struct {
	Year        int
	Month       time.Month
	TripCount   int
	TotalKm     float64
	TotalLiters float64
	TotalCost   float64
}

// The aggregation subject of a breakdown or ranking.
type EntityKind string

const (
	KindDriver  EntityKind = "driver"
	KindVehicle EntityKind = "vehicle"
)

// A single row of a ranking. Value is meaningless when
// InsufficientData is set (the entity had no travelled distance, so
// its efficiency is undefined); such rows always sort after ranked ones.
type RankEntry struct {
	EntityID         int64
	Value            float64
	InsufficientData bool
}

// Metric a ranking is ordered by.
type RankMetric string

const (
	RankByTotalKm    RankMetric = "total_km"
	RankByEfficiency RankMetric = "efficiency_l_per_100km"
	RankByTotalCost  RankMetric = "total_cost"
	RankByTripCount  RankMetric = "trip_count"
)

// Trip activity grouped by trip purpose.
type PurposeUsage struct {
	PurposeID int64
	TripCount int
	TotalKm   float64
}

// One driver's activity on a single vehicle.
type VehicleUsage struct {
	VehicleID int64
	TripCount int
	TotalKm   float64
}
