// internal/handlers/snapshot.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// SnapshotHandler serves the bulk load and save endpoints used by the UI's
// sync cycle. A PUT reconciles the store toward the request body in one
// atomic operation; record families absent from the body are left untouched.
type SnapshotHandler struct {
	snapshots ports.SnapshotService
	logger    *slog.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshots ports.SnapshotService, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		snapshots: snapshots,
		logger:    logger.With(slog.String("handler", "snapshot")),
	}
}

// GetSnapshot handles GET /api/v1/snapshot
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.snapshots.LoadAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load snapshot",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load inventory")
		return
	}

	h.respondJSON(w, http.StatusOK, snap)
}

// SaveSnapshot handles PUT /api/v1/snapshot
func (h *SnapshotHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var snap domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.snapshots.SaveAll(ctx, &snap); err != nil {
		h.logger.ErrorContext(ctx, "failed to save snapshot",
			slog.Int("products", len(snap.Products)),
			slog.Int("locations", len(snap.Locations)),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save inventory")
		return
	}

	h.logger.InfoContext(ctx, "snapshot saved",
		slog.Int("products", len(snap.Products)),
		slog.Int("locations", len(snap.Locations)),
		slog.Bool("state", snap.State != nil))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Inventory saved successfully",
	})
}

func (h *SnapshotHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SnapshotHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
