// internal/adapters/notify/notify.go
package notify

import (
	"context"
	"log/slog"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// LogNotifier writes notifications to the structured log. It is the fallback
// sink when no user-facing channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(slog.String("component", "notifier"))}
}

func (n *LogNotifier) Notify(ctx context.Context, severity ports.Severity, message string) {
	level := slog.LevelInfo
	switch severity {
	case ports.SeverityError:
		level = slog.LevelError
	case ports.SeverityWarning:
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, message, slog.String("severity", string(severity)))
}

// MultiNotifier fans a notification out to several sinks.
type MultiNotifier struct {
	sinks []ports.Notifier
}

var _ ports.Notifier = (*MultiNotifier)(nil)

func NewMultiNotifier(sinks ...ports.Notifier) *MultiNotifier {
	return &MultiNotifier{sinks: sinks}
}

func (n *MultiNotifier) Notify(ctx context.Context, severity ports.Severity, message string) {
	for _, sink := range n.sinks {
		sink.Notify(ctx, severity, message)
	}
}
