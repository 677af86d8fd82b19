package handlers

import (
	"context"
	"errors"
	"fleet-analytics-service/internal/api/dto"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/ports"
	"fleet-analytics-service/internal/services"
	"log"
	"net/http"
	"strings"
)

// RankingsHandler exposes comparative rankings across all drivers or
// vehicles for a period.
type RankingsHandler struct {
	Store ports.RecordStore
}

type rankFunc func(ctx context.Context, store ports.RecordStore, period domain.Period, metric domain.RankMetric) ([]domain.RankEntry, error)

func (h *RankingsHandler) Drivers(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, services.RankDrivers)
}

func (h *RankingsHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, services.RankVehicles)
}

func (h *RankingsHandler) rank(w http.ResponseWriter, r *http.Request, compute rankFunc) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	metric := domain.RankMetric(strings.TrimSpace(r.URL.Query().Get("metric")))
	if metric == "" {
		metric = domain.RankByTotalKm
	}
	switch metric {
	case domain.RankByTotalKm, domain.RankByEfficiency, domain.RankByTotalCost, domain.RankByTripCount:
	default:
		writeError(w, r, http.StatusBadRequest, "metric must be one of total_km, efficiency_l_per_100km, total_cost, trip_count")
		return
	}

	entries, err := compute(r.Context(), h.Store, period, metric)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			writeError(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		log.Printf("ranking failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RankingResponse{
		Metric:  string(metric),
		Entries: make([]dto.RankEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		entry := dto.RankEntryResponse{
			EntityID:         e.EntityID,
			InsufficientData: e.InsufficientData,
		}
		if !e.InsufficientData {
			v := e.Value
			entry.Value = &v
		}
		res.Entries = append(res.Entries, entry)
	}

	writeJSON(w, r, http.StatusOK, res)
}
