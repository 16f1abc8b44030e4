// internal/handlers/locations.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// LocationsHandler handles location-related HTTP requests
type LocationsHandler struct {
	locations ports.LocationStore
	logger    *slog.Logger
}

// NewLocationsHandler creates a new locations handler
func NewLocationsHandler(locations ports.LocationStore, logger *slog.Logger) *LocationsHandler {
	return &LocationsHandler{
		locations: locations,
		logger:    logger.With(slog.String("handler", "locations")),
	}
}

// GetLocation handles GET /api/v1/locations/{id}
func (h *LocationsHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	location, err := h.locations.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get location",
			slog.String("location_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve location")
		return
	}
	if location == nil {
		h.respondError(w, http.StatusNotFound, "Location not found")
		return
	}

	h.respondJSON(w, http.StatusOK, location)
}

// ListLocations handles GET /api/v1/locations
func (h *LocationsHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locations, err := h.locations.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list locations",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list locations")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
		"count":     len(locations),
	})
}

// CreateLocation handles POST /api/v1/locations
func (h *LocationsHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var location domain.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := location.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.locations.Save(ctx, &location); err != nil {
		h.logger.ErrorContext(ctx, "failed to create location",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create location")
		return
	}

	h.respondJSON(w, http.StatusCreated, location)
}

// UpdateLocation handles PUT /api/v1/locations/{id}
func (h *LocationsHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var location domain.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	location.ID = id
	if err := location.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.locations.Save(ctx, &location); err != nil {
		h.logger.ErrorContext(ctx, "failed to update location",
			slog.String("location_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update location")
		return
	}

	h.respondJSON(w, http.StatusOK, location)
}

// DeleteLocation handles DELETE /api/v1/locations/{id}
func (h *LocationsHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.locations.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete location",
			slog.String("location_id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete location")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message":     "Location deleted successfully",
		"location_id": id,
	})
}

func (h *LocationsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *LocationsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
