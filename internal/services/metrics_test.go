package services

import (
	"context"
	"errors"
	"fleet-analytics-service/internal/adapters/repositories"
	"fleet-analytics-service/internal/domain"
	"reflect"
	"testing"
	"time"
)

func ts(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func period(from, to time.Time) domain.Period {
	return domain.Period{Start: from, End: to}
}

func march() domain.Period {
	return period(ts(time.March, 1, 0), ts(time.April, 1, 0))
}

func TestComputeDriverMetricsAggregatesPeriod(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 10), DistanceKm: 50},
			{ID: 2, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 15, 9), EndTime: ts(time.March, 15, 12), DistanceKm: 70},
			// Outside the window and for another driver; must not leak in.
			{ID: 3, VehicleID: 10, DriverID: 1, StartTime: ts(time.April, 2, 8), EndTime: ts(time.April, 2, 9), DistanceKm: 99},
			{ID: 4, VehicleID: 10, DriverID: 2, StartTime: ts(time.March, 5, 8), EndTime: ts(time.March, 5, 9), DistanceKm: 33},
		},
		Fuel: []domain.FuelRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 10, 17), Liters: 12, Cost: 21.6},
		},
	}

	m, err := ComputeDriverMetrics(context.Background(), store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.DriverID != 1 {
		t.Errorf("driver id = %d, want 1", m.DriverID)
	}
	if m.TotalKm != 120 {
		t.Errorf("total km = %v, want 120", m.TotalKm)
	}
	if m.TotalLiters != 12 {
		t.Errorf("total liters = %v, want 12", m.TotalLiters)
	}
	if m.TotalCost != 21.6 {
		t.Errorf("total cost = %v, want 21.6", m.TotalCost)
	}
	if m.TripCount != 2 {
		t.Errorf("trip count = %d, want 2", m.TripCount)
	}
	if m.SkippedRecords != 0 {
		t.Errorf("skipped = %d, want 0", m.SkippedRecords)
	}

	if m.EfficiencyLPer100Km == nil || *m.EfficiencyLPer100Km != 10.0 {
		t.Errorf("efficiency = %v, want 10.0", m.EfficiencyLPer100Km)
	}
	if m.AvgTripDistance == nil || *m.AvgTripDistance != 60 {
		t.Errorf("avg trip distance = %v, want 60", m.AvgTripDistance)
	}
	if m.CostPerKm == nil || *m.CostPerKm != 21.6/120 {
		t.Errorf("cost per km = %v, want %v", m.CostPerKm, 21.6/120)
	}
}

func TestComputeDriverMetricsExcludesMalformedRecords(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			// Trip that ends before it starts.
			{ID: 1, VehicleID: 10, DriverID: 2, StartTime: ts(time.March, 3, 10), EndTime: ts(time.March, 3, 8), DistanceKm: 25},
			{ID: 2, VehicleID: 10, DriverID: 2, StartTime: ts(time.March, 4, 8), EndTime: ts(time.March, 4, 9), DistanceKm: 40},
		},
	}

	m, err := ComputeDriverMetrics(context.Background(), store, 2, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.TotalKm != 40 {
		t.Errorf("total km = %v, want 40", m.TotalKm)
	}
	if m.TripCount != 1 {
		t.Errorf("trip count = %d, want 1", m.TripCount)
	}
	if m.SkippedRecords != 1 {
		t.Errorf("skipped = %d, want 1", m.SkippedRecords)
	}
}

func TestComputeDriverMetricsSkipsNonPositiveLiters(t *testing.T) {
	store := &repositories.MockRecordStore{
		Fuel: []domain.FuelRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 10, 17), Liters: 0, Cost: 5},
			{ID: 2, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 11, 17), Liters: -3, Cost: 5},
			{ID: 3, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 12, 17), Liters: 20, Cost: 36},
		},
	}

	m, err := ComputeDriverMetrics(context.Background(), store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.TotalLiters != 20 {
		t.Errorf("total liters = %v, want 20", m.TotalLiters)
	}
	if m.TotalCost != 36 {
		t.Errorf("total cost = %v, want 36", m.TotalCost)
	}
	if m.SkippedRecords != 2 {
		t.Errorf("skipped = %d, want 2", m.SkippedRecords)
	}
}

func TestComputeDriverMetricsEmptyPeriodIsZeroValued(t *testing.T) {
	store := &repositories.MockRecordStore{}

	m, err := ComputeDriverMetrics(context.Background(), store, 7, march())
	if err != nil {
		t.Fatalf("empty period must not be an error, got %v", err)
	}

	if m.TotalKm != 0 || m.TotalLiters != 0 || m.TotalCost != 0 || m.TripCount != 0 {
		t.Errorf("expected zero totals, got %+v", m.Metrics)
	}
	if m.EfficiencyLPer100Km != nil {
		t.Errorf("efficiency must be absent with zero km, got %v", *m.EfficiencyLPer100Km)
	}
	if m.CostPerKm != nil || m.AvgTripDistance != nil {
		t.Errorf("derived ratios must be absent on an empty period")
	}
}

func TestComputeDriverMetricsRejectsInvalidWindow(t *testing.T) {
	store := &repositories.MockRecordStore{}

	_, err := ComputeDriverMetrics(context.Background(), store, 1, period(ts(time.April, 1, 0), ts(time.March, 1, 0)))
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestComputeDriverMetricsAdditiveOverPartition(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 10), DistanceKm: 50},
			{ID: 2, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 16, 9), EndTime: ts(time.March, 16, 12), DistanceKm: 70},
			// On the split boundary; belongs to the second half only.
			{ID: 3, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 15, 0), EndTime: ts(time.March, 15, 1), DistanceKm: 10},
		},
		Fuel: []domain.FuelRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 10, 17), Liters: 12, Cost: 20},
			{ID: 2, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 20, 17), Liters: 8, Cost: 15},
		},
	}

	ctx := context.Background()
	split := ts(time.March, 15, 0)

	whole, err := ComputeDriverMetrics(ctx, store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := ComputeDriverMetrics(ctx, store, 1, period(ts(time.March, 1, 0), split))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeDriverMetrics(ctx, store, 1, period(split, ts(time.April, 1, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := first.TotalKm + second.TotalKm; got != whole.TotalKm {
		t.Errorf("km over partition = %v, want %v", got, whole.TotalKm)
	}
	if got := first.TotalLiters + second.TotalLiters; got != whole.TotalLiters {
		t.Errorf("liters over partition = %v, want %v", got, whole.TotalLiters)
	}
	if got := first.TotalCost + second.TotalCost; got != whole.TotalCost {
		t.Errorf("cost over partition = %v, want %v", got, whole.TotalCost)
	}
	if got := first.TripCount + second.TripCount; got != whole.TripCount {
		t.Errorf("trips over partition = %d, want %d", got, whole.TripCount)
	}
}

func TestComputeDriverMetricsIdempotent(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 10), DistanceKm: 50},
		},
		Fuel: []domain.FuelRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 10, 17), Liters: 5, Cost: 9},
		},
	}

	ctx := context.Background()
	a, err := ComputeDriverMetrics(ctx, store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ComputeDriverMetrics(ctx, store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeat computation differs:\n first = %+v\nsecond = %+v", a, b)
	}
}

func TestComputeVehicleMetricsCountsUnattributedFuel(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 10), DistanceKm: 100},
		},
		Fuel: []domain.FuelRecord{
			// Fill with no driver attribution.
			{ID: 1, VehicleID: 10, Timestamp: ts(time.March, 10, 17), Liters: 9, Cost: 16},
		},
	}

	vm, err := ComputeVehicleMetrics(context.Background(), store, 10, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.TotalLiters != 9 {
		t.Errorf("vehicle liters = %v, want 9", vm.TotalLiters)
	}
	if vm.EfficiencyLPer100Km == nil || *vm.EfficiencyLPer100Km != 9.0 {
		t.Errorf("vehicle efficiency = %v, want 9.0", vm.EfficiencyLPer100Km)
	}
}

func TestComputeVehicleMetricsRejectsInvalidWindow(t *testing.T) {
	store := &repositories.MockRecordStore{}

	_, err := ComputeVehicleMetrics(context.Background(), store, 10, period(ts(time.April, 1, 0), ts(time.March, 1, 0)))
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}
