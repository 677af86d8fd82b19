package services

import (
	"context"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fleet-analytics-service/internal/ports"
	"fmt"
	"sort"
)

// Rank all drivers active in the period by the given metric.
//
// Ordering is descending for total_km, total_cost and trip_count, and
// ascending for efficiency (lower consumption ranks first). Ties are
// broken by entity ID ascending so the ranking is a deterministic total
// order. Drivers whose efficiency is undefined (no travelled distance)
// are placed last regardless of direction and flagged as insufficient
// data instead of being given a sentinel value.
func RankDrivers(
	ctx context.Context,
	store ports.RecordStore,
	period domain.Period,
	metric domain.RankMetric,
) (_ []domain.RankEntry, err error) {
	defer obs.Time(ctx, "rank.drivers")(&err)

	movements, fuel, err := fetchWindow(ctx, store, period, "rank drivers")
	if err != nil {
		return nil, err
	}

	movByDriver := make(map[int64][]domain.MovementRecord)
	for _, mv := range movements {
		movByDriver[mv.DriverID] = append(movByDriver[mv.DriverID], mv)
	}
	fuelByDriver := make(map[int64][]domain.FuelRecord)
	for _, f := range fuel {
		// Unattributed fills belong to no driver.
		if f.DriverID == 0 {
			continue
		}
		fuelByDriver[f.DriverID] = append(fuelByDriver[f.DriverID], f)
	}

	summaries := make(map[int64]domain.Metrics, len(movByDriver))
	for id, mvs := range movByDriver {
		summaries[id] = summarize(period, mvs, fuelByDriver[id])
	}
	for id, fs := range fuelByDriver {
		if _, ok := summaries[id]; !ok {
			summaries[id] = summarize(period, nil, fs)
		}
	}

	return buildRanking(summaries, metric, "rank drivers")
}

// Rank all vehicles active in the period by the given metric.
// Symmetric to RankDrivers; unattributed fuel records count toward
// their vehicle.
func RankVehicles(
	ctx context.Context,
	store ports.RecordStore,
	period domain.Period,
	metric domain.RankMetric,
) (_ []domain.RankEntry, err error) {
	defer obs.Time(ctx, "rank.vehicles")(&err)

	movements, fuel, err := fetchWindow(ctx, store, period, "rank vehicles")
	if err != nil {
		return nil, err
	}

	movByVehicle := make(map[int64][]domain.MovementRecord)
	for _, mv := range movements {
		movByVehicle[mv.VehicleID] = append(movByVehicle[mv.VehicleID], mv)
	}
	fuelByVehicle := make(map[int64][]domain.FuelRecord)
	for _, f := range fuel {
		fuelByVehicle[f.VehicleID] = append(fuelByVehicle[f.VehicleID], f)
	}

	summaries := make(map[int64]domain.Metrics, len(movByVehicle))
	for id, mvs := range movByVehicle {
		summaries[id] = summarize(period, mvs, fuelByVehicle[id])
	}
	for id, fs := range fuelByVehicle {
		if _, ok := summaries[id]; !ok {
			summaries[id] = summarize(period, nil, fs)
		}
	}

	return buildRanking(summaries, metric, "rank vehicles")
}

// Fetch all movement and fuel records in the window, unscoped to any entity.
func fetchWindow(
	ctx context.Context,
	store ports.RecordStore,
	period domain.Period,
	op string,
) ([]domain.MovementRecord, []domain.FuelRecord, error) {
	if !period.Valid() {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidWindow)
	}

	filter := ports.RecordFilter{From: period.Start, To: period.End}

	movements, err := store.FetchMovements(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: fetch movements: %w", op, err)
	}

	fuel, err := store.FetchFuelRecords(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: fetch fuel records: %w", op, err)
	}

	return movements, fuel, nil
}

// Turn per-entity summaries into a deterministically ordered ranking.
func buildRanking(
	summaries map[int64]domain.Metrics,
	metric domain.RankMetric,
	op string,
) ([]domain.RankEntry, error) {
	switch metric {
	case domain.RankByTotalKm, domain.RankByTotalCost, domain.RankByTripCount, domain.RankByEfficiency:
	default:
		return nil, fmt.Errorf("%s: unsupported metric %q", op, metric)
	}

	entries := make([]domain.RankEntry, 0, len(summaries))
	for id, m := range summaries {
		value, defined := metricValue(m, metric)
		entries = append(entries, domain.RankEntry{
			EntityID:         id,
			Value:            value,
			InsufficientData: !defined,
		})
	}

	ascending := metric == domain.RankByEfficiency
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.InsufficientData != b.InsufficientData {
			return !a.InsufficientData
		}
		if a.InsufficientData {
			return a.EntityID < b.EntityID
		}
		if a.Value != b.Value {
			if ascending {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		return a.EntityID < b.EntityID
	})

	return entries, nil
}

// Extract the ranked value from a summary. The second return reports
// whether the value is defined for this entity; only efficiency can be
// undefined (no travelled distance).
func metricValue(m domain.Metrics, metric domain.RankMetric) (float64, bool) {
	switch metric {
	case domain.RankByTotalCost:
		return m.TotalCost, true
	case domain.RankByTripCount:
		return float64(m.TripCount), true
	case domain.RankByEfficiency:
		if m.EfficiencyLPer100Km == nil {
			return 0, false
		}
		return *m.EfficiencyLPer100Km, true
	default: // RankByTotalKm
		return m.TotalKm, true
	}
}
