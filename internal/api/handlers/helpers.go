package handlers

import (
	"encoding/json"
	"fleet-analytics-service/internal/api/dto"
	"fleet-analytics-service/internal/domain"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// Extract the aggregation window from the required from/to query
// parameters (RFC 3339). Window ordering is not checked here; the
// engine rejects a reversed window itself.
func parsePeriod(r *http.Request) (domain.Period, error) {
	from, err := parseTimeParam(r, "from")
	if err != nil {
		return domain.Period{}, err
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		return domain.Period{}, err
	}
	return domain.Period{Start: from, End: to}, nil
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required (RFC 3339 timestamp)", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", name)
	}
	return t, nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func metricsResponse(m domain.Metrics) dto.MetricsResponse {
	return dto.MetricsResponse{
		PeriodStart:         m.Period.Start,
		PeriodEnd:           m.Period.End,
		TotalKm:             m.TotalKm,
		TotalLiters:         m.TotalLiters,
		TotalCost:           m.TotalCost,
		TripCount:           m.TripCount,
		EfficiencyLPer100Km: m.EfficiencyLPer100Km,
		CostPerKm:           m.CostPerKm,
		AvgTripDistance:     m.AvgTripDistance,
		SkippedRecords:      m.SkippedRecords,
	}
}
