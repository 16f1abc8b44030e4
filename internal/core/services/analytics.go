// internal/core/services/analytics.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	redis_a "github.com/mfriesen/barstock-be/internal/adapters/redis_adapter"
	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

const dashboardCacheTTL = 5 * time.Minute

// Analytics computes the consumption dashboard from the current product and
// location sets.
type Analytics struct {
	products  ports.ProductStore
	locations ports.LocationStore
	cache     ports.CacheRepository
	logger    *slog.Logger
}

var _ ports.AnalyticsService = (*Analytics)(nil)

func NewAnalytics(products ports.ProductStore, locations ports.LocationStore,
	cache ports.CacheRepository, logger *slog.Logger) *Analytics {
	return &Analytics{
		products:  products,
		locations: locations,
		cache:     cache,
		logger:    logger.With(slog.String("service", "analytics")),
	}
}

// ConsumptionReport aggregates consumed volume and cost per location plus a
// venue-wide total. Results are cached; any save invalidates the dash prefix.
func (a *Analytics) ConsumptionReport(ctx context.Context) (*ports.ConsumptionReport, error) {
	if a.cache == nil {
		return a.computeReport(ctx)
	}

	var report ports.ConsumptionReport
	key := redis_a.BuildKey(redis_a.PrefixDashboard, "consumption")
	err := a.cache.GetOrSet(ctx, key, &report, func() (interface{}, error) {
		computed, err := a.computeReport(ctx)
		if err != nil {
			return nil, err
		}
		return computed, nil
	}, dashboardCacheTTL)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (a *Analytics) computeReport(ctx context.Context) (*ports.ConsumptionReport, error) {
	products, err := a.products.List(ctx, ports.ProductListParams{})
	if err != nil {
		return nil, fmt.Errorf("loading products for report: %w", err)
	}
	locations, err := a.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading locations for report: %w", err)
	}

	index := domain.ProductIndex(products)
	report := &ports.ConsumptionReport{
		Locations: make([]ports.LocationReport, 0, len(locations)),
		Total: domain.ConsumptionSummary{
			ConsumedVolume: decimal.Zero,
			Cost:           decimal.Zero,
		},
	}

	for i := range locations {
		loc := &locations[i]
		summary := domain.LocationConsumption(loc, index)
		report.Locations = append(report.Locations, ports.LocationReport{
			LocationID:   loc.ID,
			LocationName: loc.Name,
			Summary:      summary,
		})
		report.Total.ConsumedVolume = report.Total.ConsumedVolume.Add(summary.ConsumedVolume)
		report.Total.Cost = report.Total.Cost.Add(summary.Cost)
		report.Total.EntryCount += summary.EntryCount
		report.Total.MissingProduct += summary.MissingProduct
	}

	if report.Total.MissingProduct > 0 {
		a.logger.WarnContext(ctx, "report references missing products",
			slog.Int("missing", report.Total.MissingProduct))
	}
	return report, nil
}
