package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/platform/obs"
	"fleet-analytics-service/internal/ports"
	"fmt"
	"time"
)

// Timestamps are stored as UTC text at second precision. The fixed
// layout keeps lexicographic order equal to chronological order, so
// range predicates work on the raw column.
const tsLayout = time.RFC3339

// SQLite-backed implementation of the RecordStore port. This is the
// embedded single-user store; server deployments use the Postgres
// variant instead.
type SqliteRecordStore struct{ DB *sql.DB }

func NewSqliteRecordStore(db *sql.DB) *SqliteRecordStore {
	return &SqliteRecordStore{DB: db}
}

// Return movement records matching the filter, ordered by start
// timestamp then ID.
func (s *SqliteRecordStore) FetchMovements(ctx context.Context, f ports.RecordFilter) (_ []domain.MovementRecord, err error) {
	defer obs.Time(ctx, "store.sqlite.movements")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite record store: DB is nil")
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
	WHERE start_ts >= ? AND start_ts < ?`
	args := []any{formatTS(f.From), formatTS(f.To)}

	if f.DriverID != 0 {
		q += " AND driver_id = ?"
		args = append(args, f.DriverID)
	}
	if f.VehicleID != 0 {
		q += " AND vehicle_id = ?"
		args = append(args, f.VehicleID)
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
			startRaw  string
			endRaw    string
			purposeID sql.NullInt64
			notes     sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.DriverID, &startRaw, &endRaw, &m.DistanceKm, &purposeID, &notes); err != nil {
			return nil, fmt.Errorf("fetch movements: scan row: %w", err)
		}

		if m.StartTime, err = parseTS(startRaw); err != nil {
			return nil, fmt.Errorf("fetch movements: movement id=%d start_ts: %w", m.ID, err)
		}
		if m.EndTime, err = parseTS(endRaw); err != nil {
			return nil, fmt.Errorf("fetch movements: movement id=%d end_ts: %w", m.ID, err)
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
// then ID. A NULL driver_id column maps to a zero DriverID
// (unattributed fill).
func (s *SqliteRecordStore) FetchFuelRecords(ctx context.Context, f ports.RecordFilter) (_ []domain.FuelRecord, err error) {
	defer obs.Time(ctx, "store.sqlite.fuel")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite record store: DB is nil")
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
	WHERE ts >= ? AND ts < ?`
	args := []any{formatTS(f.From), formatTS(f.To)}

	if f.DriverID != 0 {
		q += " AND driver_id = ?"
		args = append(args, f.DriverID)
	}
	if f.VehicleID != 0 {
		q += " AND vehicle_id = ?"
		args = append(args, f.VehicleID)
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
			tsRaw    string
			driverID sql.NullInt64
			odometer sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.VehicleID, &driverID, &tsRaw, &r.Liters, &r.Cost, &odometer); err != nil {
			return nil, fmt.Errorf("fetch fuel records: scan row: %w", err)
		}

		if r.Timestamp, err = parseTS(tsRaw); err != nil {
			return nil, fmt.Errorf("fetch fuel records: fuel id=%d ts: %w", r.ID, err)
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

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(raw string) (time.Time, error) {
	t, err := time.Parse(tsLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t, nil
}
