package services

import (
	"context"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fleet-analytics-service/internal/ports"
	"fmt"
)

// Compute the metrics summary for one driver over one period.
//
// Fuel records without a driver attribution never reach this
// computation because the store filter is scoped to the driver. An
// empty period is a valid zero-valued result, not an error; the only
// hard failure is ErrInvalidWindow.
func ComputeDriverMetrics(
	ctx context.Context,
	store ports.RecordStore,
	driverID int64,
	period domain.Period,
) (_ domain.DriverMetrics, err error) {
	defer obs.Time(ctx, "metrics.driver")(&err)

	if !period.Valid() {
		return domain.DriverMetrics{}, fmt.Errorf("compute driver metrics: driver_id=%d: %w", driverID, ErrInvalidWindow)
	}

	filter := ports.RecordFilter{DriverID: driverID, From: period.Start, To: period.End}

	movements, err := store.FetchMovements(ctx, filter)
	if err != nil {
		return domain.DriverMetrics{}, fmt.Errorf("compute driver metrics: fetch movements for driver_id=%d: %w", driverID, err)
	}

	fuel, err := store.FetchFuelRecords(ctx, filter)
	if err != nil {
		return domain.DriverMetrics{}, fmt.Errorf("compute driver metrics: fetch fuel records for driver_id=%d: %w", driverID, err)
	}

	return domain.DriverMetrics{
		DriverID: driverID,
		Metrics:  summarize(period, movements, fuel),
	}, nil
}

// Compute the metrics summary for one vehicle over one period.
// Symmetric to ComputeDriverMetrics; unattributed fuel records count
// here since they are always tied to a vehicle.
func ComputeVehicleMetrics(
	ctx context.Context,
	store ports.RecordStore,
	vehicleID int64,
	period domain.Period,
) (_ domain.VehicleMetrics, err error) {
	defer obs.Time(ctx, "metrics.vehicle")(&err)

	if !period.Valid() {
		return domain.VehicleMetrics{}, fmt.Errorf("compute vehicle metrics: vehicle_id=%d: %w", vehicleID, ErrInvalidWindow)
	}

	filter := ports.RecordFilter{VehicleID: vehicleID, From: period.Start, To: period.End}

	movements, err := store.FetchMovements(ctx, filter)
	if err != nil {
		return domain.VehicleMetrics{}, fmt.Errorf("compute vehicle metrics: fetch movements for vehicle_id=%d: %w", vehicleID, err)
	}

	fuel, err := store.FetchFuelRecords(ctx, filter)
	if err != nil {
		return domain.VehicleMetrics{}, fmt.Errorf("compute vehicle metrics: fetch fuel records for vehicle_id=%d: %w", vehicleID, err)
	}

	return domain.VehicleMetrics{
		VehicleID: vehicleID,
		Metrics:   summarize(period, movements, fuel),
	}, nil
}
