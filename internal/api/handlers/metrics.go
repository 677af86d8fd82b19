package handlers

import (
	"errors"
	"fleet-analytics-service/internal/api/dto"
	"fleet-analytics-service/internal/domain"
	"fleet-analytics-service/internal/ports"
	"fleet-analytics-service/internal/services"
	"fmt"
	"log"
	"net/http"
)

// MetricsHandler exposes per-driver and per-vehicle metric summaries.
// Cache is optional; when set, summaries are served read-through so
// repeated report requests skip the record store.
type MetricsHandler struct {
	Store ports.RecordStore
	Cache ports.MetricsCache
}

func (h *MetricsHandler) Driver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	driverID, err := parseIDParam(r, "driver_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(domain.KindDriver, driverID, period)
	if cached := h.lookup(r, key); cached != nil {
		writeJSON(w, r, http.StatusOK, dto.DriverMetricsResponse{
			DriverID:        driverID,
			MetricsResponse: metricsResponse(*cached),
		})
		return
	}

	m, err := services.ComputeDriverMetrics(r.Context(), h.Store, driverID, period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			writeError(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		log.Printf("compute driver metrics failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.store(r, key, m.Metrics)

	writeJSON(w, r, http.StatusOK, dto.DriverMetricsResponse{
		DriverID:        m.DriverID,
		MetricsResponse: metricsResponse(m.Metrics),
	})
}

func (h *MetricsHandler) Vehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vehicleID, err := parseIDParam(r, "vehicle_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(domain.KindVehicle, vehicleID, period)
	if cached := h.lookup(r, key); cached != nil {
		writeJSON(w, r, http.StatusOK, dto.VehicleMetricsResponse{
			VehicleID:       vehicleID,
			MetricsResponse: metricsResponse(*cached),
		})
		return
	}

	m, err := services.ComputeVehicleMetrics(r.Context(), h.Store, vehicleID, period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			writeError(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		log.Printf("compute vehicle metrics failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.store(r, key, m.Metrics)

	writeJSON(w, r, http.StatusOK, dto.VehicleMetricsResponse{
		VehicleID:       m.VehicleID,
		MetricsResponse: metricsResponse(m.Metrics),
	})
}

// Cache reads and writes are best-effort: a cache failure is logged
// and the request proceeds against the record store.
func (h *MetricsHandler) lookup(r *http.Request, key string) *domain.Metrics {
	if h.Cache == nil {
		return nil
	}
	m, err := h.Cache.GetSummary(r.Context(), key)
	if err != nil {
		log.Printf("metrics cache get failed: key=%s err=%v", key, err)
		return nil
	}
	return m
}

func (h *MetricsHandler) store(r *http.Request, key string, m domain.Metrics) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.PutSummary(r.Context(), key, m); err != nil {
		log.Printf("metrics cache put failed: key=%s err=%v", key, err)
	}
}

func cacheKey(kind domain.EntityKind, id int64, p domain.Period) string {
	return fmt.Sprintf("metrics:%s:%d:%d:%d", kind, id, p.Start.Unix(), p.End.Unix())
}
