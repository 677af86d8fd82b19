package repositories

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV import for movement and fuel rows, used by the dbtool to migrate
// data exported from older installations. The first row must be a
// header; column order is fixed. Imports are transactional: a
// malformed row aborts the whole import with its row number, so a
// partial file never half-loads.

var movementHeader = []string{"id", "vehicle_id", "driver_id", "start_ts", "end_ts", "distance_km", "purpose_id", "notes"}

var fuelHeader = []string{"id", "vehicle_id", "driver_id", "ts", "liters", "cost", "odometer_km"}

// Import movement rows from CSV data. Returns the number of rows imported.
func ImportMovementsCSV(db *sql.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("import movements: read header: %w", err)
	}
	if err := checkHeader(header, movementHeader); err != nil {
		return 0, fmt.Errorf("import movements: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("import movements: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
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
	`)
	if err != nil {
		return 0, fmt.Errorf("import movements: prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: %w", rowNum, err)
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: id: %w", rowNum, err)
		}
		vehicleID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: vehicle_id: %w", rowNum, err)
		}
		driverID, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: driver_id: %w", rowNum, err)
		}
		start, err := parseTS(row[3])
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: start_ts: %w", rowNum, err)
		}
		end, err := parseTS(row[4])
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: end_ts: %w", rowNum, err)
		}
		distance, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return 0, fmt.Errorf("import movements: row %d: distance_km: %w", rowNum, err)
		}

		var purposeID int64
		if strings.TrimSpace(row[6]) != "" {
			purposeID, err = strconv.ParseInt(row[6], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("import movements: row %d: purpose_id: %w", rowNum, err)
			}
		}

		if _, err := stmt.Exec(
			id, vehicleID, driverID,
			formatTS(start), formatTS(end),
			distance, nullableID(purposeID), row[7],
		); err != nil {
			return 0, fmt.Errorf("import movements: row %d: insert: %w", rowNum, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import movements: commit tx: %w", err)
	}

	return count, nil
}

// Import fuel rows from CSV data. Returns the number of rows imported.
// An empty driver_id cell marks an unattributed fill.
func ImportFuelCSV(db *sql.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("import fuel: read header: %w", err)
	}
	if err := checkHeader(header, fuelHeader); err != nil {
		return 0, fmt.Errorf("import fuel: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("import fuel: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
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
	`)
	if err != nil {
		return 0, fmt.Errorf("import fuel: prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("import fuel: row %d: %w", rowNum, err)
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("import fuel: row %d: id: %w", rowNum, err)
		}
		vehicleID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("import fuel: row %d: vehicle_id: %w", rowNum, err)
		}

		var driverID int64
		if strings.TrimSpace(row[2]) != "" {
			driverID, err = strconv.ParseInt(row[2], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("import fuel: row %d: driver_id: %w", rowNum, err)
			}
		}

		ts, err := parseTS(row[3])
		if err != nil {
			return 0, fmt.Errorf("import fuel: row %d: ts: %w", rowNum, err)
		}
		liters, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return 0, fmt.Errorf("import fuel: row %d: liters: %w", rowNum, err)
		}
		cost, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return 0, fmt.Errorf("import fuel: row %d: cost: %w", rowNum, err)
		}

		var odometer any
		if strings.TrimSpace(row[6]) != "" {
			v, err := strconv.ParseInt(row[6], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("import fuel: row %d: odometer_km: %w", rowNum, err)
			}
			odometer = v
		}

		if _, err := stmt.Exec(
			id, vehicleID, nullableID(driverID),
			formatTS(ts), liters, cost, odometer,
		); err != nil {
			return 0, fmt.Errorf("import fuel: row %d: insert: %w", rowNum, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import fuel: commit tx: %w", err)
	}

	return count, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("header has %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != want[i] {
			return fmt.Errorf("header column %d is %q, want %q", i+1, got[i], want[i])
		}
	}
	return nil
}
