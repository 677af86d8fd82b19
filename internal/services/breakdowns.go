package services

import (
	"context"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fleet-analytics-service/internal/ports"
	"fmt"
	"sort"
)

// Group one driver's trips in the period by trip purpose, ordered by
// trip count descending with purpose ID ascending as tie-break.
func PurposeBreakdown(
	ctx context.Context,
	store ports.RecordStore,
	driverID int64,
	period domain.Period,
) (_ []domain.PurposeUsage, err error) {
	defer obs.Time(ctx, "breakdown.purpose")(&err)

	if !period.Valid() {
		return nil, fmt.Errorf("purpose breakdown: driver_id=%d: %w", driverID, ErrInvalidWindow)
	}

	filter := ports.RecordFilter{DriverID: driverID, From: period.Start, To: period.End}
	movements, err := store.FetchMovements(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("purpose breakdown: fetch movements for driver_id=%d: %w", driverID, err)
	}

	byPurpose := make(map[int64]*domain.PurposeUsage)
	for _, mv := range movements {
		if !mv.Valid() || !period.Contains(mv.StartTime) {
			continue
		}
		u, ok := byPurpose[mv.PurposeID]
		if !ok {
			u = &domain.PurposeUsage{PurposeID: mv.PurposeID}
			byPurpose[mv.PurposeID] = u
		}
		u.TripCount++
		u.TotalKm += mv.DistanceKm
	}

	rows := make([]domain.PurposeUsage, 0, len(byPurpose))
	for _, u := range byPurpose {
		rows = append(rows, *u)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TripCount != rows[j].TripCount {
			return rows[i].TripCount > rows[j].TripCount
		}
		return rows[i].PurposeID < rows[j].PurposeID
	})

	return rows, nil
}

// Group one driver's trips in the period by vehicle, ordered by trip
// count descending with vehicle ID ascending as tie-break. This is the
// "most used vehicles" view of a driver report.
func DriverVehicleUsage(
	ctx context.Context,
	store ports.RecordStore,
	driverID int64,
	period domain.Period,
) (_ []domain.VehicleUsage, err error) {
	defer obs.Time(ctx, "breakdown.vehicle_usage")(&err)

	if !period.Valid() {
		return nil, fmt.Errorf("vehicle usage: driver_id=%d: %w", driverID, ErrInvalidWindow)
	}

	filter := ports.RecordFilter{DriverID: driverID, From: period.Start, To: period.End}
	movements, err := store.FetchMovements(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("vehicle usage: fetch movements for driver_id=%d: %w", driverID, err)
	}

	byVehicle := make(map[int64]*domain.VehicleUsage)
	for _, mv := range movements {
		if !mv.Valid() || !period.Contains(mv.StartTime) {
			continue
		}
		u, ok := byVehicle[mv.VehicleID]
		if !ok {
			u = &domain.VehicleUsage{VehicleID: mv.VehicleID}
			byVehicle[mv.VehicleID] = u
		}
		u.TripCount++
		u.TotalKm += mv.DistanceKm
	}

	rows := make([]domain.VehicleUsage, 0, len(byVehicle))
	for _, u := range byVehicle {
		rows = append(rows, *u)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TripCount != rows[j].TripCount {
			return rows[i].TripCount > rows[j].TripCount
		}
		return rows[i].VehicleID < rows[j].VehicleID
	})

	return rows, nil
}

// Compute a full metrics summary for every driver active in the
// period, ordered by total km descending with driver ID ascending as
// tie-break.
func FleetSummary(
	ctx context.Context,
	store ports.RecordStore,
	period domain.Period,
) (_ []domain.DriverMetrics, err error) {
	defer obs.Time(ctx, "breakdown.fleet")(&err)

	movements, fuel, err := fetchWindow(ctx, store, period, "fleet summary")
	if err != nil {
		return nil, err
	}

	movByDriver := make(map[int64][]domain.MovementRecord)
	for _, mv := range movements {
		movByDriver[mv.DriverID] = append(movByDriver[mv.DriverID], mv)
	}
	fuelByDriver := make(map[int64][]domain.FuelRecord)
	for _, f := range fuel {
		if f.DriverID == 0 {
			continue
		}
		fuelByDriver[f.DriverID] = append(fuelByDriver[f.DriverID], f)
	}

	ids := make(map[int64]struct{}, len(movByDriver))
	for id := range movByDriver {
		ids[id] = struct{}{}
	}
	for id := range fuelByDriver {
		ids[id] = struct{}{}
	}

	rows := make([]domain.DriverMetrics, 0, len(ids))
	for id := range ids {
		rows = append(rows, domain.DriverMetrics{
			DriverID: id,
			Metrics:  summarize(period, movByDriver[id], fuelByDriver[id]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalKm != rows[j].TotalKm {
			return rows[i].TotalKm > rows[j].TotalKm
		}
		return rows[i].DriverID < rows[j].DriverID
	})

	return rows, nil
}
