package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fleet-analytics-service/internal/ports"
	"fmt"
)

// Postgres-backed implementation of the RecordStore port, for
// deployments where multiple installations share one record database.
// Query semantics are identical to the SQLite variant.
type PostgresRecordStore struct{ DB *sql.DB }

func NewPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{DB: db}
}

// Return movement records matching the filter, ordered by start
// timestamp then ID.
func (s *PostgresRecordStore) FetchMovements(ctx context.Context, f ports.RecordFilter) (_ []domain.MovementRecord, err error) {
	defer obs.Time(ctx, "store.postgres.movements")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres record store: DB is nil")
	}

	q := `
	SELECT
		id,
		vehicle_id,
		driver_id,
		start_ts,
		end_ts,
		distance_km,
		purpose_id,
		notes
	FROM movements
	WHERE start_ts >= $1 AND start_ts < $2`
	args := []any{f.From, f.To}

	if f.DriverID != 0 {
		args = append(args, f.DriverID)
		q += fmt.Sprintf(" AND driver_id = $%d", len(args))
	}
	if f.VehicleID != 0 {
		args = append(args, f.VehicleID)
		q += fmt.Sprintf(" AND vehicle_id = $%d", len(args))
	}
	q += " ORDER BY start_ts, id;"

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch movements: query movements table: %w", err)
	}
	defer rows.Close()

	movements := make([]domain.MovementRecord, 0, 64)
	for rows.Next() {
		var (
			m         domain.MovementRecord
			purposeID sql.NullInt64
			notes     sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.DriverID, &m.StartTime, &m.EndTime, &m.DistanceKm, &purposeID, &notes); err != nil {
			return nil, fmt.Errorf("fetch movements: scan row: %w", err)
		}
		m.PurposeID = purposeID.Int64
		m.Notes = notes.String

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch movements: row iteration: %w", err)
	}

	return movements, nil
}

// Return fuel records matching the filter, ordered by fill timestamp
// then ID.
func (s *PostgresRecordStore) FetchFuelRecords(ctx context.Context, f ports.RecordFilter) (_ []domain.FuelRecord, err error) {
	defer obs.Time(ctx, "store.postgres.fuel")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres record store: DB is nil")
	}

	q := `
	SELECT
		id,
		vehicle_id,
		driver_id,
		ts,
		liters,
		cost,
		odometer_km
	FROM fuel
	WHERE ts >= $1 AND ts < $2`
	args := []any{f.From, f.To}

	if f.DriverID != 0 {
		args = append(args, f.DriverID)
		q += fmt.Sprintf(" AND driver_id = $%d", len(args))
	}
	if f.VehicleID != 0 {
		args = append(args, f.VehicleID)
		q += fmt.Sprintf(" AND vehicle_id = $%d", len(args))
	}
	q += " ORDER BY ts, id;"

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch fuel records: query fuel table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.FuelRecord, 0, 64)
	for rows.Next() {
		var (
			r        domain.FuelRecord
			driverID sql.NullInt64
			odometer sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.VehicleID, &driverID, &r.Timestamp, &r.Liters, &r.Cost, &odometer); err != nil {
			return nil, fmt.Errorf("fetch fuel records: scan row: %w", err)
		}
		r.DriverID = driverID.Int64
		if odometer.Valid {
			v := odometer.Int64
			r.OdometerKm = &v
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch fuel records: row iteration: %w", err)
	}

	return records, nil
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS drivers (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			surname TEXT,
			notes TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT PRIMARY KEY,
			plate TEXT UNIQUE NOT NULL,
			description TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS purposes (
			id BIGINT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS movements (
			id BIGINT PRIMARY KEY,
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			driver_id BIGINT NOT NULL REFERENCES drivers(id),
			start_ts TIMESTAMPTZ NOT NULL,
			end_ts TIMESTAMPTZ NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			purpose_id BIGINT,
			notes TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS fuel (
			id BIGINT PRIMARY KEY,
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			driver_id BIGINT REFERENCES drivers(id),
			ts TIMESTAMPTZ NOT NULL,
			liters DOUBLE PRECISION NOT NULL,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			odometer_km BIGINT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_movements_driver_start ON movements(driver_id, start_ts);`,
		`CREATE INDEX IF NOT EXISTS idx_movements_vehicle_start ON movements(vehicle_id, start_ts);`,
		`CREATE INDEX IF NOT EXISTS idx_fuel_driver_ts ON fuel(driver_id, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_fuel_vehicle_ts ON fuel(vehicle_id, ts);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
