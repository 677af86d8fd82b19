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
	"strconv"
	"time"
)

// ReportsHandler exposes the report-shaped views: monthly breakdowns,
// the fleet-wide driver summary, and per-driver purpose and vehicle
// usage groupings.
type ReportsHandler struct {
	Store ports.RecordStore
}

// Monthly returns the twelve-month activity breakdown for one driver
// or vehicle.
func (h *ReportsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := domain.EntityKind(r.URL.Query().Get("entity_kind"))
	if kind != domain.KindDriver && kind != domain.KindVehicle {
		writeError(w, r, http.StatusBadRequest, "entity_kind must be driver or vehicle")
		return
	}

	entityID, err := parseIDParam(r, "entity_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	year, err := parseYearParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	months, err := services.MonthlyBreakdown(r.Context(), h.Store, entityID, kind, year)
	if err != nil {
		log.Printf("monthly breakdown failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.MonthlyBreakdownResponse{
		EntityID:   entityID,
		EntityKind: string(kind),
		Months:     make([]dto.MonthSummaryResponse, 0, len(months)),
	}
	for _, m := range months {
		res.Months = append(res.Months, dto.MonthSummaryResponse{
			Year:        m.Year,
			Month:       int(m.Month),
			TripCount:   m.TripCount,
			TotalKm:     m.TotalKm,
			TotalLiters: m.TotalLiters,
			TotalCost:   m.TotalCost,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Fleet returns the full metrics summary of every driver active in the
// period, ordered by total km descending.
func (h *ReportsHandler) Fleet(w http.ResponseWriter, r *http.Request) {
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

	rows, err := services.FleetSummary(r.Context(), h.Store, period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			writeError(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		log.Printf("fleet summary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.FleetSummaryResponse{
		Drivers: make([]dto.DriverMetricsResponse, 0, len(rows)),
	}
	for _, row := range rows {
		res.Drivers = append(res.Drivers, dto.DriverMetricsResponse{
			DriverID:        row.DriverID,
			MetricsResponse: metricsResponse(row.Metrics),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Purposes returns one driver's trips grouped by trip purpose.
func (h *ReportsHandler) Purposes(w http.ResponseWriter, r *http.Request) {
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

	rows, err := services.PurposeBreakdown(r.Context(), h.Store, driverID, period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			writeError(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		log.Printf("purpose breakdown failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PurposeBreakdownResponse{
		DriverID: driverID,
		Purposes: make([]dto.PurposeUsageResponse, 0, len(rows)),
	}
	for _, row := range rows {
		res.Purposes = append(res.Purposes, dto.PurposeUsageResponse{
			PurposeID: row.PurposeID,
			TripCount: row.TripCount,
			TotalKm:   row.TotalKm,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// VehicleUsage returns one driver's trips grouped by vehicle, the
// "most used vehicles" view of a driver report.
func (h *ReportsHandler) VehicleUsage(w http.ResponseWriter, r *http.Request) {
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

	rows, err := services.DriverVehicleUsage(r.Context(), h.Store, driverID, period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			writeError(w, r, http.StatusBadRequest, "from must not be after to")
			return
		}
		log.Printf("vehicle usage failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.VehicleUsageReportResponse{
		DriverID: driverID,
		Vehicles: make([]dto.VehicleUsageResponse, 0, len(rows)),
	}
	for _, row := range rows {
		res.Vehicles = append(res.Vehicles, dto.VehicleUsageResponse{
			VehicleID: row.VehicleID,
			TripCount: row.TripCount,
			TotalKm:   row.TotalKm,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseYearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, fmt.Errorf("year is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > time.Now().Year()+1 {
		return 0, fmt.Errorf("year must be a plausible calendar year")
	}
	return year, nil
}
