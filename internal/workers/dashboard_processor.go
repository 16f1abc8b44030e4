// internal/workers/dashboard_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// DashboardProcessor recomputes the consumption report in the background so
// the first dashboard request after an import hits a warm cache.
type DashboardProcessor struct {
	analytics ports.AnalyticsService
	logger    *slog.Logger
}

// NewDashboardProcessor creates a new dashboard processor
func NewDashboardProcessor(analytics ports.AnalyticsService, logger *slog.Logger) *DashboardProcessor {
	return &DashboardProcessor{
		analytics: analytics,
		logger:    logger.With(slog.String("processor", "dashboard")),
	}
}

// RefreshDashboard handles a TypeRefreshDashboard task.
func (p *DashboardProcessor) RefreshDashboard(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "refreshing dashboard")

	report, err := p.analytics.ConsumptionReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh dashboard: %w", err)
	}

	p.logger.InfoContext(ctx, "dashboard refreshed",
		slog.Int("locations", len(report.Locations)),
		slog.Int("entries", report.Total.EntryCount))
	return nil
}
