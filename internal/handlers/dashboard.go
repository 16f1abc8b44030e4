package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// DashboardHandler handles dashboard operations
type DashboardHandler struct {
	analytics ports.AnalyticsService
	logger    *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analytics ports.AnalyticsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		analytics: analytics,
		logger:    logger.With(slog.String("handler", "dashboard")),
	}
}

// DashboardData is the dashboard payload.
type DashboardData struct {
	Report    *ports.ConsumptionReport `json:"report"`
	Timestamp time.Time                `json:"timestamp"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.analytics.ConsumptionReport(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, DashboardData{
		Report:    report,
		Timestamp: time.Now(),
	})
}

// GetConsumption handles GET /api/v1/dashboard/consumption
func (h *DashboardHandler) GetConsumption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.analytics.ConsumptionReport(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load consumption report",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load consumption report")
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
