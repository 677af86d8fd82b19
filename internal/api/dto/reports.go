package dto

type MonthSummaryResponse struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	TripCount   int     `json:"trip_count"`
	TotalKm     float64 `json:"total_km"`
	TotalLiters float64 `json:"total_liters"`
	TotalCost   float64 `json:"total_cost"`
}

// Always holds exactly twelve entries, January through December.
type MonthlyBreakdownResponse struct {
	EntityID   int64                  `json:"entity_id"`
	EntityKind string                 `json:"entity_kind"`
	Months     []MonthSummaryResponse `json:"months"`
}

type FleetSummaryResponse struct {
	Drivers []DriverMetricsResponse `json:"drivers"`
}

type PurposeUsageResponse struct {
	PurposeID int64   `json:"purpose_id"`
	TripCount int     `json:"trip_count"`
	TotalKm   float64 `json:"total_km"`
}

type PurposeBreakdownResponse struct {
	DriverID int64                  `json:"driver_id"`
	Purposes []PurposeUsageResponse `json:"purposes"`
}

type VehicleUsageResponse struct {
	VehicleID int64   `json:"vehicle_id"`
	TripCount int     `json:"trip_count"`
	TotalKm   float64 `json:"total_km"`
}

type VehicleUsageReportResponse struct {
	DriverID int64                  `json:"driver_id"`
	Vehicles []VehicleUsageResponse `json:"vehicles"`
}
