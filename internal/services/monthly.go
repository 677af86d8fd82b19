package services

import (
	"context"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fleet-analytics-service/internal/ports"
	"fmt"
	"time"
)

// Compute a January-through-December activity breakdown for one driver
// or vehicle. The result always holds exactly twelve entries so chart
// and report shapes stay stable; months without records are zero-valued
// rather than omitted. Records are bucketed by their UTC month, and
// records violating an invariant are excluded as everywhere else.
func MonthlyBreakdown(
	ctx context.Context,
	store ports.RecordStore,
	entityID int64,
	kind domain.EntityKind,
	year int,
) (_ []domain.MonthSummary, err error) {
	defer obs.Time(ctx, "breakdown.monthly")(&err)

	period := domain.Year(year)
	filter := ports.RecordFilter{From: period.Start, To: period.End}

	switch kind {
	case domain.KindDriver:
		filter.DriverID = entityID
	case domain.KindVehicle:
		filter.VehicleID = entityID
	default:
		return nil, fmt.Errorf("monthly breakdown: unsupported entity kind %q", kind)
	}

	movements, err := store.FetchMovements(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("monthly breakdown: fetch movements for %s %d: %w", kind, entityID, err)
	}

	fuel, err := store.FetchFuelRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("monthly breakdown: fetch fuel records for %s %d: %w", kind, entityID, err)
	}

	months := make([]domain.MonthSummary, 12)
	for i := range months {
		months[i].Year = year
		months[i].Month = time.Month(i + 1)
	}

	for _, mv := range movements {
		if !mv.Valid() || !period.Contains(mv.StartTime) {
			continue
		}
		s := &months[mv.StartTime.UTC().Month()-1]
		s.TripCount++
		s.TotalKm += mv.DistanceKm
	}

	for _, f := range fuel {
		if !f.Valid() || !period.Contains(f.Timestamp) {
			continue
		}
		s := &months[f.Timestamp.UTC().Month()-1]
		s.TotalLiters += f.Liters
		s.TotalCost += f.Cost
	}

	return months, nil
}
