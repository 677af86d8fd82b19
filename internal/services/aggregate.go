package services

import (
	"errors"
	"fleet-analytics-service/internal/domain"
)

// Returned when a caller supplies a window whose start is after its end.
// This is the only hard failure the engine raises for a computation;
// every per-record problem is absorbed into SkippedRecords instead.
var ErrInvalidWindow = errors.New("period start must not be after period end")

// Aggregate movement and fuel records into a metrics summary.
//
// The function is pure: identical inputs always yield an identical
// summary, which is what makes recomputation idempotent and concurrent
// fan-out safe without coordination. Records outside the period are
// ignored even if the store already narrowed its result set, so the
// summary is a function of the arguments alone. Records violating an
// invariant (trip ending before it starts, negative distance,
// non-positive liters) are excluded and tallied rather than failing
// the whole computation.
func summarize(period domain.Period, movements []domain.MovementRecord, fuel []domain.FuelRecord) domain.Metrics {
	m := domain.Metrics{Period: period}

	for _, mv := range movements {
		if !mv.Valid() {
			m.SkippedRecords++
			continue
		}
		if !period.Contains(mv.StartTime) {
			continue
		}
		m.TripCount++
		m.TotalKm += mv.DistanceKm
	}

	for _, f := range fuel {
		if !f.Valid() {
			m.SkippedRecords++
			continue
		}
		if !period.Contains(f.Timestamp) {
			continue
		}
		m.TotalLiters += f.Liters
		m.TotalCost += f.Cost
	}

	// Ratios stay nil when their denominator is zero; reporting a
	// sentinel number here would be indistinguishable from real data.
	if m.TotalKm > 0 {
		eff := (m.TotalLiters / m.TotalKm) * 100
		costPerKm := m.TotalCost / m.TotalKm
		m.EfficiencyLPer100Km = &eff
		m.CostPerKm = &costPerKm
	}
	if m.TripCount > 0 {
		avg := m.TotalKm / float64(m.TripCount)
		m.AvgTripDistance = &avg
	}

	return m
}
