package main

import (
	"database/sql"
	"flag"
	"fleet-analytics-service/internal/adapters/repositories"
	"fleet-analytics-service/internal/platform/db"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// dbtool initializes the record database schema and loads data into
// it: JSON seed files for demo setups and CSV exports from older
// installations. Seeding and CSV import target the embedded SQLite
// database; with DATABASE_URL set only the Postgres schema is managed.
func main() {
	seedPath := flag.String("seed", "", "JSON seed file to load")
	movementsCSV := flag.String("import-movements", "", "movements CSV file to import")
	fuelCSV := flag.String("import-fuel", "", "fuel CSV file to import")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		if *seedPath != "" || *movementsCSV != "" || *fuelCSV != "" {
			log.Fatal("seeding and CSV import are only supported for the embedded sqlite database")
		}

		pgDB, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pgDB.Close()

		log.Println("Initializing postgres schema...")
		if err := repositories.InitPostgresSchema(pgDB); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")
		return
	}

	dbPath := getEnv("DB_PATH", "data/fleet.db")
	sqliteDB, err := openSQLite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(sqliteDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *seedPath != "" {
		log.Printf("Seeding from %s...", *seedPath)
		if err := repositories.SeedFromJSON(sqliteDB, *seedPath); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Println("Seeding complete.")
	}

	if *movementsCSV != "" {
		importCSV(sqliteDB, *movementsCSV, "movements", repositories.ImportMovementsCSV)
	}

	if *fuelCSV != "" {
		importCSV(sqliteDB, *fuelCSV, "fuel records", repositories.ImportFuelCSV)
	}
}

func importCSV(sqliteDB *sql.DB, path, what string, importFn func(*sql.DB, io.Reader) (int, error)) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	log.Printf("Importing %s from %s...", what, path)
	n, err := importFn(sqliteDB, f)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("Imported %d %s.", n, what)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
