package api

import (
	"fleet-analytics-service/internal/api/handlers"
	"fleet-analytics-service/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters). cache may be nil when no summary
// cache is configured.
func NewRouter(store ports.RecordStore, cache ports.MetricsCache) http.Handler {
	mux := http.NewServeMux()

	metricsHandler := &handlers.MetricsHandler{Store: store, Cache: cache}
	rankingsHandler := &handlers.RankingsHandler{Store: store}
	reportsHandler := &handlers.ReportsHandler{Store: store}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/metrics/driver", metricsHandler.Driver)
	mux.HandleFunc("/metrics/vehicle", metricsHandler.Vehicle)
	mux.HandleFunc("/rankings/drivers", rankingsHandler.Drivers)
	mux.HandleFunc("/rankings/vehicles", rankingsHandler.Vehicles)
	mux.HandleFunc("/reports/monthly", reportsHandler.Monthly)
	mux.HandleFunc("/reports/fleet", reportsHandler.Fleet)
	mux.HandleFunc("/reports/purposes", reportsHandler.Purposes)
	mux.HandleFunc("/reports/vehicle-usage", reportsHandler.VehicleUsage)

	return requestIDMiddleware(loggingMiddleware(mux))
}
