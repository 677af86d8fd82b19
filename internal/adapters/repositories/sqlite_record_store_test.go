package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fleet-analytics-service/internal/ports"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fleet_test.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func seedTestData(t *testing.T, db *sql.DB) {
	t.Helper()

	seed := Seed{
		Drivers: []DriverSeed{
			{ID: 1, Name: "Anna", Surname: "Petrou"},
			{ID: 2, Name: "Nikos", Surname: "Lambrou"},
		},
		Vehicles: []VehicleSeed{
			{ID: 10, Plate: "KHO-1234"},
			{ID: 11, Plate: "KHO-5678"},
		},
		Purposes: []PurposeSeed{
			{ID: 1, Name: "deliveries"},
		},
		Movements: []MovementSeed{
			{ID: 1, VehicleID: 10, DriverID: 1, StartTS: "2026-03-03T08:00:00Z", EndTS: "2026-03-03T10:00:00Z", DistanceKm: 50, PurposeID: 1},
			{ID: 2, VehicleID: 10, DriverID: 1, StartTS: "2026-03-15T09:00:00Z", EndTS: "2026-03-15T12:00:00Z", DistanceKm: 70},
			{ID: 3, VehicleID: 11, DriverID: 2, StartTS: "2026-04-02T08:00:00Z", EndTS: "2026-04-02T09:00:00Z", DistanceKm: 30},
		},
		Fuel: []FuelSeed{
			{ID: 1, VehicleID: 10, DriverID: 1, TS: "2026-03-10T17:00:00Z", Liters: 12, Cost: 21.6},
			// Unattributed fill.
			{ID: 2, VehicleID: 11, TS: "2026-03-11T17:00:00Z", Liters: 9, Cost: 16},
		},
	}

	b, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("seed from json: %v", err)
	}
}

func TestSqliteRecordStoreFetchMovements(t *testing.T) {
	db := newTestDB(t)
	seedTestData(t, db)
	store := NewSqliteRecordStore(db)

	f := ports.RecordFilter{
		DriverID: 1,
		From:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	movements, err := store.FetchMovements(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].ID != 1 || movements[1].ID != 2 {
		t.Errorf("order = [%d, %d], want [1, 2]", movements[0].ID, movements[1].ID)
	}
	if movements[0].DistanceKm != 50 {
		t.Errorf("distance = %v, want 50", movements[0].DistanceKm)
	}
	if movements[0].PurposeID != 1 {
		t.Errorf("purpose id = %d, want 1", movements[0].PurposeID)
	}
	if movements[1].PurposeID != 0 {
		t.Errorf("missing purpose must map to 0, got %d", movements[1].PurposeID)
	}
	want := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	if !movements[0].StartTime.Equal(want) {
		t.Errorf("start time = %v, want %v", movements[0].StartTime, want)
	}
}

func TestSqliteRecordStoreWindowIsHalfOpen(t *testing.T) {
	db := newTestDB(t)
	seedTestData(t, db)
	store := NewSqliteRecordStore(db)

	// Window ending exactly at movement 2's start must exclude it.
	f := ports.RecordFilter{
		DriverID: 1,
		From:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
	}

	movements, err := store.FetchMovements(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movements) != 1 || movements[0].ID != 1 {
		t.Fatalf("expected only movement 1, got %+v", movements)
	}
}

func TestSqliteRecordStoreFetchFuelRecords(t *testing.T) {
	db := newTestDB(t)
	seedTestData(t, db)
	store := NewSqliteRecordStore(db)

	f := ports.RecordFilter{
		VehicleID: 11,
		From:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	records, err := store.FetchFuelRecords(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 fuel record, got %d", len(records))
	}
	if records[0].DriverID != 0 {
		t.Errorf("NULL driver_id must map to 0, got %d", records[0].DriverID)
	}
	if records[0].Liters != 9 || records[0].Cost != 16 {
		t.Errorf("record = %+v, want 9 liters at cost 16", records[0])
	}
}

func TestImportMovementsCSV(t *testing.T) {
	db := newTestDB(t)
	store := NewSqliteRecordStore(db)

	csvData := `id,vehicle_id,driver_id,start_ts,end_ts,distance_km,purpose_id,notes
1,10,1,2026-03-03T08:00:00Z,2026-03-03T10:00:00Z,50,1,supply run
2,10,1,2026-03-04T08:00:00Z,2026-03-04T09:30:00Z,35,,
`
	n, err := ImportMovementsCSV(db, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported = %d, want 2", n)
	}

	movements, err := store.FetchMovements(context.Background(), ports.RecordFilter{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].Notes != "supply run" {
		t.Errorf("notes = %q, want %q", movements[0].Notes, "supply run")
	}
}

func TestImportFuelCSVRejectsMalformedRow(t *testing.T) {
	db := newTestDB(t)

	csvData := `id,vehicle_id,driver_id,ts,liters,cost,odometer_km
1,10,1,2026-03-10T17:00:00Z,12,21.6,54210
2,10,1,not-a-timestamp,8,15,
`
	if _, err := ImportFuelCSV(db, strings.NewReader(csvData)); err == nil {
		t.Fatal("expected an error for the malformed timestamp row")
	}

	// The transaction must have rolled back entirely.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM fuel;`).Scan(&count); err != nil {
		t.Fatalf("count fuel rows: %v", err)
	}
	if count != 0 {
		t.Errorf("fuel rows = %d, want 0 after failed import", count)
	}
}
