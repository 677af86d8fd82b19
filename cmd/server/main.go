package main

import (
	"database/sql"
	"fleet-analytics-service/internal/adapters/cache"
	"fleet-analytics-service/internal/adapters/repositories"
	"fleet-analytics-service/internal/api"
	"fleet-analytics-service/internal/platform/db"
	"fleet-analytics-service/internal/ports"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires a concrete record store (embedded SQLite by default,
// Postgres when DATABASE_URL is set) and an optional Redis summary
// cache behind ports, then starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")

	store, closeStore, err := openRecordStore()
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	metricsCache := openMetricsCache()

	router := api.NewRouter(store, metricsCache)

	// Aggregations are bounded by the filtered record set, so the
	// write timeout only needs to cover large-period fleet reports.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openRecordStore() (ports.RecordStore, func(), error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pgDB, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Using postgres record store")
		return repositories.NewPostgresRecordStore(pgDB), func() { _ = pgDB.Close() }, nil
	}

	dbPath := getEnv("DB_PATH", "data/fleet.db")
	sqliteDB, err := openSQLite(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := repositories.InitSchema(sqliteDB); err != nil {
		_ = sqliteDB.Close()
		return nil, nil, err
	}

	// Seed demo data on startup for local runs when configured.
	if seedPath := strings.TrimSpace(os.Getenv("SEED_PATH")); seedPath != "" {
		if err := repositories.SeedFromJSON(sqliteDB, seedPath); err != nil {
			_ = sqliteDB.Close()
			return nil, nil, err
		}
	}

	log.Printf("Using sqlite record store path=%s", dbPath)
	return repositories.NewSqliteRecordStore(sqliteDB), func() { _ = sqliteDB.Close() }, nil
}

// openMetricsCache returns nil when no Redis address is configured;
// the API serves every request straight from the record store then.
func openMetricsCache() ports.MetricsCache {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil
	}

	ttl := 5 * time.Minute
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid CACHE_TTL %q: %v", raw, err)
		}
		ttl = parsed
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
	})

	log.Printf("Using redis metrics cache addr=%s ttl=%s", addr, ttl)
	return cache.NewRedisMetricsCache(client, ttl)
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
