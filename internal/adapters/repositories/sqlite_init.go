package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDriversQuery := `
	CREATE TABLE IF NOT EXISTS drivers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		surname TEXT,
		notes TEXT
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plate TEXT UNIQUE NOT NULL,
		description TEXT
	);
	`

	createPurposesQuery := `
	CREATE TABLE IF NOT EXISTS purposes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);
	`

	createMovementsQuery := `
	CREATE TABLE IF NOT EXISTS movements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		vehicle_id INTEGER NOT NULL,
		driver_id INTEGER NOT NULL,
		start_ts TEXT NOT NULL,
		end_ts TEXT NOT NULL,
		distance_km REAL NOT NULL,
		purpose_id INTEGER,
		notes TEXT,
		FOREIGN KEY(vehicle_id) REFERENCES vehicles(id),
		FOREIGN KEY(driver_id) REFERENCES drivers(id)
	);
	`

	createFuelQuery := `
	CREATE TABLE IF NOT EXISTS fuel (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		vehicle_id INTEGER NOT NULL,
		driver_id INTEGER,
		ts TEXT NOT NULL,
		liters REAL NOT NULL,
		cost REAL NOT NULL DEFAULT 0,
		odometer_km INTEGER,
		FOREIGN KEY(vehicle_id) REFERENCES vehicles(id),
		FOREIGN KEY(driver_id) REFERENCES drivers(id)
	);
	`

	createIndexQueries := `
	CREATE INDEX IF NOT EXISTS idx_movements_driver_start ON movements(driver_id, start_ts);
	CREATE INDEX IF NOT EXISTS idx_movements_vehicle_start ON movements(vehicle_id, start_ts);
	CREATE INDEX IF NOT EXISTS idx_fuel_driver_ts ON fuel(driver_id, ts);
	CREATE INDEX IF NOT EXISTS idx_fuel_vehicle_ts ON fuel(vehicle_id, ts);
	`

	statements := []string{
		createDriversQuery,
		createVehiclesQuery,
		createPurposesQuery,
		createMovementsQuery,
		createFuelQuery,
		createIndexQueries,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DriverSeed struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type VehicleSeed struct {
	ID          int64  `json:"id"`
	Plate       string `json:"plate"`
	Description string `json:"description"`
}

type PurposeSeed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MovementSeed struct {
	ID         int64   `json:"id"`
	VehicleID  int64   `json:"vehicle_id"`
	DriverID   int64   `json:"driver_id"`
	StartTS    string  `json:"start_ts"`
	EndTS      string  `json:"end_ts"`
	DistanceKm float64 `json:"distance_km"`
	PurposeID  int64   `json:"purpose_id"`
	Notes      string  `json:"notes"`
}

type FuelSeed struct {
	ID         int64   `json:"id"`
	VehicleID  int64   `json:"vehicle_id"`
	DriverID   int64   `json:"driver_id"`
	TS         string  `json:"ts"`
	Liters     float64 `json:"liters"`
	Cost       float64 `json:"cost"`
	OdometerKm *int64  `json:"odometer_km"`
}

type Seed struct {
	Drivers   []DriverSeed   `json:"drivers"`
	Vehicles  []VehicleSeed  `json:"vehicles"`
	Purposes  []PurposeSeed  `json:"purposes"`
	Movements []MovementSeed `json:"movements"`
	Fuel      []FuelSeed     `json:"fuel"`
}

// Populate the database with demo data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed records: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed records: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed records: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, d := range seed.Drivers {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("seed records: driver at index %d: name cannot be empty", i)
		}
		q := `INSERT OR REPLACE INTO drivers (id, name, surname) VALUES (?, ?, ?);`
		if _, err := tx.Exec(q, d.ID, d.Name, d.Surname); err != nil {
			return fmt.Errorf("seed records: insert driver id=%d: %w", d.ID, err)
		}
	}

	for i, v := range seed.Vehicles {
		if strings.TrimSpace(v.Plate) == "" {
			return fmt.Errorf("seed records: vehicle at index %d: plate cannot be empty", i)
		}
		q := `INSERT OR REPLACE INTO vehicles (id, plate, description) VALUES (?, ?, ?);`
		if _, err := tx.Exec(q, v.ID, v.Plate, v.Description); err != nil {
			return fmt.Errorf("seed records: insert vehicle id=%d: %w", v.ID, err)
		}
	}

	for _, p := range seed.Purposes {
		q := `INSERT OR REPLACE INTO purposes (id, name) VALUES (?, ?);`
		if _, err := tx.Exec(q, p.ID, p.Name); err != nil {
			return fmt.Errorf("seed records: insert purpose id=%d: %w", p.ID, err)
		}
	}

	movementQuery := `
	INSERT OR REPLACE INTO movements (
		id,
		vehicle_id,
		driver_id,
		start_ts,
		end_ts,
		distance_km,
		purpose_id,
		notes
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	movementStmt, err := tx.Prepare(movementQuery)
	if err != nil {
		return fmt.Errorf("seed records: prepare movement insert: %w", err)
	}
	defer movementStmt.Close()

	for _, m := range seed.Movements {
		start, err := parseTS(m.StartTS)
		if err != nil {
			return fmt.Errorf("seed records: movement id=%d start_ts: %w", m.ID, err)
		}
		end, err := parseTS(m.EndTS)
		if err != nil {
			return fmt.Errorf("seed records: movement id=%d end_ts: %w", m.ID, err)
		}

		if _, err := movementStmt.Exec(
			m.ID, m.VehicleID, m.DriverID,
			formatTS(start), formatTS(end),
			m.DistanceKm, nullableID(m.PurposeID), m.Notes,
		); err != nil {
			return fmt.Errorf("seed records: insert movement id=%d: %w", m.ID, err)
		}
	}

	fuelQuery := `
	INSERT OR REPLACE INTO fuel (
		id,
		vehicle_id,
		driver_id,
		ts,
		liters,
		cost,
		odometer_km
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	fuelStmt, err := tx.Prepare(fuelQuery)
	if err != nil {
		return fmt.Errorf("seed records: prepare fuel insert: %w", err)
	}
	defer fuelStmt.Close()

	for _, f := range seed.Fuel {
		ts, err := parseTS(f.TS)
		if err != nil {
			return fmt.Errorf("seed records: fuel id=%d ts: %w", f.ID, err)
		}

		if _, err := fuelStmt.Exec(
			f.ID, f.VehicleID, nullableID(f.DriverID),
			formatTS(ts), f.Liters, f.Cost, f.OdometerKm,
		); err != nil {
			return fmt.Errorf("seed records: insert fuel id=%d: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed records: commit tx: %w", err)
	}

	return nil
}

// Map a zero ID to NULL for optional foreign keys.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
