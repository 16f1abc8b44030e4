// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mfriesen/barstock-be/internal/adapters/db"
	"github.com/mfriesen/barstock-be/internal/pkg/config"
)

// HealthHandler checks the dependencies the API cannot serve without: the
// storage gateway, Redis, and (when a worker fleet is deployed) asynq.
type HealthHandler struct {
	gateway   *db.Gateway
	redis     *redis.Client
	asynq     *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. asynqInspector may be nil
// for deployments without background workers.
func NewHealthHandler(
	gateway *db.Gateway,
	redisClient *redis.Client,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		gateway:   gateway,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]CheckResult `json:"services"`
	Runtime     RuntimeInfo            `json:"runtime"`
}

// CheckResult is the outcome of probing one dependency.
type CheckResult struct {
	Status  string                 `json:"status"`
	Error   string                 `json:"error,omitempty"`
	Latency string                 `json:"latency,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RuntimeInfo carries the few process numbers worth watching on a small
// deployment.
type RuntimeInfo struct {
	GoVersion     string `json:"go_version"`
	Goroutines    int    `json:"goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
}

// Health handles the /health endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	services := map[string]CheckResult{
		"database": h.checkGateway(ctx),
		"redis":    h.checkRedis(ctx),
	}
	if h.asynq != nil {
		services["asynq"] = h.checkAsynq(ctx)
	}

	status := "healthy"
	statusCode := http.StatusOK
	for _, check := range services {
		if check.Status != "healthy" {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.respondHealth(ctx, w, statusCode, HealthStatus{
		Status:      status,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    services,
		Runtime: RuntimeInfo{
			GoVersion:     runtime.Version(),
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: memStats.Alloc / 1024 / 1024,
		},
	})
}

// Readiness handles the /ready endpoint. It only answers whether the two
// hard dependencies accept connections; a worker outage does not make the
// API unready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	details := map[string]string{
		"database": "ready",
		"redis":    "ready",
	}
	ready := true

	if err := h.gateway.Ping(ctx); err != nil {
		ready = false
		details["database"] = "not ready"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		ready = false
		details["redis"] = "not ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	h.respondHealth(ctx, w, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

// checkGateway pings the storage gateway and, when it is up, reports pool
// statistics and how many documents each collection holds.
func (h *HealthHandler) checkGateway(ctx context.Context) CheckResult {
	start := time.Now()

	if err := h.gateway.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "gateway health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Status: "unhealthy", Error: err.Error()}
	}

	details := h.gateway.Health(ctx)
	if counts, err := h.gateway.CollectionCounts(ctx); err == nil {
		docs := make(map[string]interface{}, len(counts))
		for collection, n := range counts {
			docs[string(collection)] = n
		}
		details["documents"] = docs
	}

	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: details,
	}
}

// checkRedis pings Redis and reports connection pool usage.
func (h *HealthHandler) checkRedis(ctx context.Context) CheckResult {
	start := time.Now()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Status: "unhealthy", Error: err.Error()}
	}

	poolStats := h.redis.PoolStats()
	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: map[string]interface{}{
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
		},
	}
}

// checkAsynq reports per-queue backlog so a stuck import queue shows up on
// the health page before users notice.
func (h *HealthHandler) checkAsynq(ctx context.Context) CheckResult {
	start := time.Now()

	queues, err := h.asynq.Queues()
	if err != nil {
		h.logger.ErrorContext(ctx, "asynq health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Status: "unhealthy", Error: err.Error()}
	}

	backlog := make(map[string]interface{}, len(queues))
	for _, queue := range queues {
		info, err := h.asynq.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		backlog[queue] = map[string]interface{}{
			"active":  info.Active,
			"pending": info.Pending,
			"retry":   info.Retry,
		}
	}

	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: map[string]interface{}{"queues": backlog},
	}
}

func (h *HealthHandler) respondHealth(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response",
			slog.String("error", err.Error()))
	}
}
