package services

import (
	"context"
	"errors"
	"fleet-analytics-service/internal/adapters/repositories"
	"fleet-analytics-service/internal/domain"
	"testing"
	"time"
)

func TestPurposeBreakdownOrdersByTripCount(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 9), DistanceKm: 10, PurposeID: 2},
			{ID: 2, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 4, 8), EndTime: ts(time.March, 4, 9), DistanceKm: 15, PurposeID: 2},
			{ID: 3, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 5, 8), EndTime: ts(time.March, 5, 9), DistanceKm: 90, PurposeID: 1},
		},
	}

	rows, err := PurposeBreakdown(context.Background(), store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(rows))
	}
	if rows[0].PurposeID != 2 || rows[0].TripCount != 2 || rows[0].TotalKm != 25 {
		t.Errorf("first = %+v, want purpose 2 with 2 trips over 25 km", rows[0])
	}
	if rows[1].PurposeID != 1 || rows[1].TotalKm != 90 {
		t.Errorf("second = %+v, want purpose 1 with 90 km", rows[1])
	}
}

func TestPurposeBreakdownTieBreakByPurposeID(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 9), DistanceKm: 10, PurposeID: 7},
			{ID: 2, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 4, 8), EndTime: ts(time.March, 4, 9), DistanceKm: 10, PurposeID: 3},
		},
	}

	rows, err := PurposeBreakdown(context.Background(), store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rows[0].PurposeID != 3 || rows[1].PurposeID != 7 {
		t.Errorf("order = [%d, %d], want [3, 7]", rows[0].PurposeID, rows[1].PurposeID)
	}
}

func TestDriverVehicleUsage(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 9), DistanceKm: 20},
			{ID: 2, VehicleID: 11, DriverID: 1, StartTime: ts(time.March, 4, 8), EndTime: ts(time.March, 4, 9), DistanceKm: 35},
			{ID: 3, VehicleID: 11, DriverID: 1, StartTime: ts(time.March, 5, 8), EndTime: ts(time.March, 5, 9), DistanceKm: 45},
			// Another driver's trip must not appear.
			{ID: 4, VehicleID: 11, DriverID: 2, StartTime: ts(time.March, 6, 8), EndTime: ts(time.March, 6, 9), DistanceKm: 99},
		},
	}

	rows, err := DriverVehicleUsage(context.Background(), store, 1, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(rows))
	}
	if rows[0].VehicleID != 11 || rows[0].TripCount != 2 || rows[0].TotalKm != 80 {
		t.Errorf("first = %+v, want vehicle 11 with 2 trips over 80 km", rows[0])
	}
	if rows[1].VehicleID != 10 || rows[1].TotalKm != 20 {
		t.Errorf("second = %+v, want vehicle 10 with 20 km", rows[1])
	}
}

func TestFleetSummaryOrdersByTotalKm(t *testing.T) {
	store := &repositories.MockRecordStore{
		Movements: []domain.MovementRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTime: ts(time.March, 3, 8), EndTime: ts(time.March, 3, 9), DistanceKm: 40},
			{ID: 2, VehicleID: 10, DriverID: 2, StartTime: ts(time.March, 4, 8), EndTime: ts(time.March, 4, 9), DistanceKm: 150},
		},
		Fuel: []domain.FuelRecord{
			{ID: 1, VehicleID: 10, DriverID: 1, Timestamp: ts(time.March, 10, 17), Liters: 4, Cost: 7.2},
			// Driver 3 only refueled; still appears with zero km.
			{ID: 2, VehicleID: 11, DriverID: 3, Timestamp: ts(time.March, 11, 17), Liters: 50, Cost: 90},
		},
	}

	rows, err := FleetSummary(context.Background(), store, march())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 drivers, got %d", len(rows))
	}
	if rows[0].DriverID != 2 || rows[1].DriverID != 1 || rows[2].DriverID != 3 {
		t.Errorf("order = [%d, %d, %d], want [2, 1, 3]",
			rows[0].DriverID, rows[1].DriverID, rows[2].DriverID)
	}
	if rows[1].EfficiencyLPer100Km == nil || *rows[1].EfficiencyLPer100Km != 10.0 {
		t.Errorf("driver 1 efficiency = %v, want 10.0", rows[1].EfficiencyLPer100Km)
	}
	if rows[2].EfficiencyLPer100Km != nil {
		t.Errorf("driver 3 efficiency must be absent with zero km")
	}
}

func TestFleetSummaryRejectsInvalidWindow(t *testing.T) {
	store := &repositories.MockRecordStore{}

	_, err := FleetSummary(context.Background(), store, period(ts(time.April, 1, 0), ts(time.March, 1, 0)))
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}
