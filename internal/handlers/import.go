// internal/handlers/import.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mfriesen/barstock-be/internal/workers"
)

// ImportHandler accepts supplier price lists and invoices and queues them for
// asynchronous processing.
type ImportHandler struct {
	asynqClient *asynq.Client
	jobs        *workers.JobTracker
	logger      *slog.Logger
	maxFileSize int64
	uploadDir   string
}

// NewImportHandler creates a new import handler
func NewImportHandler(asynqClient *asynq.Client, jobs *workers.JobTracker,
	maxFileSize int64, uploadDir string, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		asynqClient: asynqClient,
		jobs:        jobs,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
		uploadDir:   uploadDir,
	}
}

// ImportPriceList handles POST /api/v1/import/pricelist
func (h *ImportHandler) ImportPriceList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" &&
		contentType != "application/vnd.ms-excel" {
		h.respondError(w, http.StatusBadRequest, "Only Excel files are allowed")
		return
	}

	tempFile, err := h.saveUpload(file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save upload", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	jobID := uuid.New().String()
	payload := workers.ImportJobPayload{
		JobID:    jobID,
		FilePath: tempFile,
		FileName: header.Filename,
		Supplier: r.FormValue("supplier"),
	}

	if err := h.enqueue(ctx, workers.TypePriceListImport, jobID, payload); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to queue price list import", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "price list import queued",
		slog.String("job_id", jobID),
		slog.String("file", header.Filename))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Price list import has been queued for processing",
	})
}

// ImportInvoice handles POST /api/v1/import/invoice
func (h *ImportHandler) ImportInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		h.respondError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	supplier := r.FormValue("supplier")
	if supplier == "" {
		h.respondError(w, http.StatusBadRequest, "supplier is required")
		return
	}

	tempFile, err := h.saveUpload(file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save upload", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	jobID := uuid.New().String()
	payload := workers.ImportJobPayload{
		JobID:    jobID,
		FilePath: tempFile,
		FileName: header.Filename,
		Supplier: supplier,
	}

	if err := h.enqueue(ctx, workers.TypeInvoicePDF, jobID, payload); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to queue invoice import", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "invoice import queued",
		slog.String("job_id", jobID),
		slog.String("supplier", supplier))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Invoice import has been queued for processing",
	})
}

// ImportStatus handles GET /api/v1/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	status, err := h.jobs.Get(ctx, jobID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get job status",
			slog.String("job_id", jobID),
			slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "Failed to get job status")
		return
	}

	if status == nil {
		h.respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Helper methods

func (h *ImportHandler) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	tempFile := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(filename)))
	dst, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return tempFile, nil
}

func (h *ImportHandler) enqueue(ctx context.Context, taskType, jobID string, payload workers.ImportJobPayload) error {
	if err := h.jobs.Create(ctx, jobID, taskType, payload.FileName); err != nil {
		return fmt.Errorf("failed to create job record: %w", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	info, err := h.asynqClient.Enqueue(asynq.NewTask(taskType, b),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	h.logger.DebugContext(ctx, "task enqueued",
		slog.String("task_id", info.ID),
		slog.String("type", taskType))
	return nil
}

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
