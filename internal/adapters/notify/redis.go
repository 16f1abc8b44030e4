// internal/adapters/notify/redis.go
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// ToastChannel is the pub/sub channel the web UI subscribes to for toast
// notifications.
const ToastChannel = "barstock:toasts"

// Toast is the wire shape published to the UI.
type Toast struct {
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisNotifier publishes notifications to a Redis pub/sub channel. Delivery
// is best effort: publish failures are logged, never returned, so a flaky
// Redis cannot stall a save.
type RedisNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ports.Notifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		logger: logger.With(slog.String("component", "redis_notifier")),
	}
}

func (n *RedisNotifier) Notify(ctx context.Context, severity ports.Severity, message string) {
	payload, err := json.Marshal(Toast{
		Severity:  string(severity),
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal toast", slog.Any("error", err))
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*2)
	defer cancel()

	if err := n.client.Publish(publishCtx, ToastChannel, payload).Err(); err != nil {
		n.logger.WarnContext(ctx, "failed to publish toast",
			slog.String("severity", string(severity)),
			slog.Any("error", err))
	}
}
