// internal/workers/jobs.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// Task type names registered with the asynq mux.
const (
	TypePriceListImport  = "import:price_list"
	TypeInvoicePDF       = "import:invoice_pdf"
	TypeRefreshDashboard = "dashboard:refresh"
	TypeNotifyToast      = "notify:toast"
	TypeCleanupTempFiles = "cleanup:temp_files"
	TypeCleanupOldJobs   = "cleanup:old_jobs"
)

// Job statuses as stored in the import_jobs table.
const (
	JobQueued              = "queued"
	JobProcessing          = "processing"
	JobCompleted           = "completed"
	JobCompletedWithErrors = "completed_with_errors"
	JobFailed              = "failed"
)

// ImportJobPayload is the payload shared by the price list and invoice
// import tasks.
type ImportJobPayload struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	Supplier string `json:"supplier,omitempty"`
}

// ImportJobResult records what an import produced.
type ImportJobResult struct {
	ProductsParsed int      `json:"products_parsed"`
	ProductsSaved  int      `json:"products_saved"`
	Errors         []string `json:"errors,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// JobTracker persists import job lifecycle state so the status endpoint can
// report progress across processes.
type JobTracker struct {
	db     ports.Database
	logger *slog.Logger
}

// NewJobTracker creates a new job tracker
func NewJobTracker(db ports.Database, logger *slog.Logger) *JobTracker {
	return &JobTracker{
		db:     db,
		logger: logger.With(slog.String("component", "job_tracker")),
	}
}

// Create inserts a queued job record.
func (t *JobTracker) Create(ctx context.Context, jobID, jobType, fileName string) error {
	query := `
		INSERT INTO import_jobs (id, job_type, file_name, status)
		VALUES ($1, $2, $3, $4)`

	_, err := t.db.Exec(ctx, query, jobID, jobType, fileName, JobQueued)
	return err
}

// MarkProcessing flips the job to processing.
func (t *JobTracker) MarkProcessing(ctx context.Context, jobID string) error {
	query := `
		UPDATE import_jobs
		SET status = $2, started_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	_, err := t.db.Exec(ctx, query, jobID, JobProcessing)
	return err
}

// MarkFailed records a terminal failure.
func (t *JobTracker) MarkFailed(ctx context.Context, jobID, errMsg string) error {
	query := `
		UPDATE import_jobs
		SET status = $2, error = $3, completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	_, err := t.db.Exec(ctx, query, jobID, JobFailed, errMsg)
	return err
}

// Complete stores the result document and the final status.
func (t *JobTracker) Complete(ctx context.Context, jobID, status string, result ImportJobResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	query := `
		UPDATE import_jobs
		SET status = $2, result = $3, completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	_, err = t.db.Exec(ctx, query, jobID, status, resultJSON)
	return err
}

// JobStatus is the status endpoint's view of a job.
type JobStatus struct {
	JobID       string          `json:"job_id"`
	JobType     string          `json:"job_type"`
	FileName    string          `json:"file_name"`
	Status      string          `json:"status"`
	Error       *string         `json:"error,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Get returns the job record, or nil if no such job exists.
func (t *JobTracker) Get(ctx context.Context, jobID string) (*JobStatus, error) {
	query := `
		SELECT id, job_type, file_name, status, error, result, created_at, started_at, completed_at
		FROM import_jobs
		WHERE id = $1`

	var status JobStatus
	err := t.db.QueryRow(ctx, query, jobID).Scan(
		&status.JobID,
		&status.JobType,
		&status.FileName,
		&status.Status,
		&status.Error,
		&status.Result,
		&status.CreatedAt,
		&status.StartedAt,
		&status.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}
