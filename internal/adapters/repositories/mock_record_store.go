package repositories

import (
	"context"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/ports"
)

// In-memory RecordStore for tests. Applies the same filter semantics
// as the SQL-backed stores: movements match by start timestamp, fuel
// records by fill timestamp, both against the half-open window.
type MockRecordStore struct {
	Movements []domain.MovementRecord
	Fuel      []domain.FuelRecord
}

func (s *MockRecordStore) FetchMovements(ctx context.Context, f ports.RecordFilter) ([]domain.MovementRecord, error) {
	out := make([]domain.MovementRecord, 0, len(s.Movements))
	for _, m := range s.Movements {
		if f.DriverID != 0 && m.DriverID != f.DriverID {
			continue
		}
		if f.VehicleID != 0 && m.VehicleID != f.VehicleID {
			continue
		}
		if m.StartTime.Before(f.From) || !m.StartTime.Before(f.To) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MockRecordStore) FetchFuelRecords(ctx context.Context, f ports.RecordFilter) ([]domain.FuelRecord, error) {
	out := make([]domain.FuelRecord, 0, len(s.Fuel))
	for _, r := range s.Fuel {
		if f.DriverID != 0 && r.DriverID != f.DriverID {
			continue
		}
		if f.VehicleID != 0 && r.VehicleID != f.VehicleID {
			continue
		}
		if r.Timestamp.Before(f.From) || !r.Timestamp.Before(f.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
