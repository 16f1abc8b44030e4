// internal/workers/notifications_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mfriesen/barstock-be/internal/core/ports"
	"github.com/mfriesen/barstock-be/internal/pkg/config"
)

// NotificationProcessor delivers queued user notifications through the toast
// side-channel. Imports enqueue one of these when a job finishes so the
// browser sees the outcome even if it reconnected mid-import.
type NotificationProcessor struct {
	notifier ports.Notifier
	config   *config.Config
	logger   *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(notifier ports.Notifier, config *config.Config, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		notifier: notifier,
		config:   config,
		logger:   logger.With(slog.String("processor", "notification")),
	}
}

// ToastPayload is the payload of a TypeNotifyToast task.
type ToastPayload struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// SendToast handles a TypeNotifyToast task.
func (p *NotificationProcessor) SendToast(ctx context.Context, t *asynq.Task) error {
	var payload ToastPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	severity := ports.Severity(payload.Severity)
	switch severity {
	case ports.SeveritySuccess, ports.SeverityError, ports.SeverityInfo, ports.SeverityWarning:
	default:
		severity = ports.SeverityInfo
	}

	// In development, just log the toast
	if p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "toast would be sent",
			slog.String("severity", string(severity)),
			slog.String("message", payload.Message))
		return nil
	}

	p.notifier.Notify(ctx, severity, payload.Message)

	p.logger.InfoContext(ctx, "toast sent",
		slog.String("severity", string(severity)))
	return nil
}
