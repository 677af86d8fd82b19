package dto

import "time"

// Aggregate totals for one entity and period. Derived ratios are null
// when undefined (no travelled distance, no trips) instead of carrying
// a sentinel number.
type MetricsResponse struct {
	PeriodStart         time.Time `json:"period_start"`
	PeriodEnd           time.Time `json:"period_end"`
	TotalKm             float64   `json:"total_km"`
	TotalLiters         float64   `json:"total_liters"`
	TotalCost           float64   `json:"total_cost"`
	TripCount           int       `json:"trip_count"`
	EfficiencyLPer100Km *float64  `json:"efficiency_l_per_100km"`
	CostPerKm           *float64  `json:"cost_per_km"`
	AvgTripDistance     *float64  `json:"avg_trip_distance"`
	SkippedRecords      int       `json:"skipped_records"`
}

type DriverMetricsResponse struct {
	DriverID int64 `json:"driver_id"`
	MetricsResponse
}

type VehicleMetricsResponse struct {
	VehicleID int64 `json:"vehicle_id"`
	MetricsResponse
}
