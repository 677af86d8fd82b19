package ports

import (
	"context"
	"fleet-analytics-service/internal/domain"
	"time"
)

// Selection criteria for record retrieval. A zero DriverID or
// VehicleID leaves that dimension unfiltered. The time bounds describe
// the half-open window [From, To); movements are matched by their start
// timestamp and fuel records by their fill timestamp.
type RecordFilter struct {
	DriverID  int64
	VehicleID int64
	From      time.Time
	To        time.Time
}

// Port: a boundary for retrieving movement and fuel records from a data
// source. Implementations return records already narrowed to the
// filter; the engine never mutates the store.
type RecordStore interface {
	// Retrieve movement records matching the filter.
	FetchMovements(ctx context.Context, f RecordFilter) ([]domain.MovementRecord, error)
	// Retrieve fuel records matching the filter.
	FetchFuelRecords(ctx context.Context, f RecordFilter) ([]domain.FuelRecord, error)
}
