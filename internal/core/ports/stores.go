package ports

import (
	"context"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

// ProductStore is the application service port for product definitions.
// Validation happens here, never in the storage gateway.
type ProductStore interface {
	Save(ctx context.Context, p *domain.Product) error
	SaveBatch(ctx context.Context, products []domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, params ProductListParams) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductListParams filters and orders a product listing.
type ProductListParams struct {
	Category string `json:"category,omitempty"`
	Supplier string `json:"supplier,omitempty"`
	Search   string `json:"search,omitempty"`
	SortBy   string `json:"sort_by"`
}

// LocationStore is the application service port for locations and their
// nested counters, areas and inventory entries.
type LocationStore interface {
	Save(ctx context.Context, l *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Delete(ctx context.Context, id string) error
}

// SnapshotService is the bulk-sync port the browser UI talks to: one call
// loads everything, one call atomically reconciles everything.
type SnapshotService interface {
	SaveAll(ctx context.Context, snap *domain.Snapshot) error
	LoadAll(ctx context.Context) (*domain.Snapshot, error)
}

// AnalyticsService computes the consumption/cost dashboard.
type AnalyticsService interface {
	ConsumptionReport(ctx context.Context) (*ConsumptionReport, error)
}

// ConsumptionReport is the dashboard payload: per-location summaries plus a
// venue-wide total.
type ConsumptionReport struct {
	Locations []LocationReport          `json:"locations"`
	Total     domain.ConsumptionSummary `json:"total"`
}

// LocationReport pairs a location with its aggregated consumption.
type LocationReport struct {
	LocationID   string                    `json:"location_id"`
	LocationName string                    `json:"location_name"`
	Summary      domain.ConsumptionSummary `json:"summary"`
}
