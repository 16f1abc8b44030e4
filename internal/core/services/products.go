// internal/core/services/products.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// ProductService provides typed, validated access to the product collection
// on top of the schemaless storage gateway.
type ProductService struct {
	gateway ports.StorageGateway
	logger  *slog.Logger
}

var _ ports.ProductStore = (*ProductService)(nil)

func NewProductService(gateway ports.StorageGateway, logger *slog.Logger) *ProductService {
	return &ProductService{
		gateway: gateway,
		logger:  logger.With(slog.String("service", "products")),
	}
}

// Save validates the product, fills in derived fields and upserts it.
func (s *ProductService) Save(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating product: %w", err)
	}
	p.PrepareForStorage()

	if _, err := s.gateway.Put(ctx, ports.CollectionProducts, p); err != nil {
		return fmt.Errorf("saving product %s: %w", p.ID, err)
	}

	s.logger.InfoContext(ctx, "product saved",
		slog.String("product_id", p.ID),
		slog.String("name", p.Name))
	return nil
}

// SaveBatch saves every product in order. It stops at the first failure so
// the caller can report which record was rejected.
func (s *ProductService) SaveBatch(ctx context.Context, products []domain.Product) error {
	for i := range products {
		if err := s.Save(ctx, &products[i]); err != nil {
			return fmt.Errorf("product %d of %d: %w", i+1, len(products), err)
		}
	}
	return nil
}

// GetByID returns the product stored under id, or nil when absent.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := s.gateway.Get(ctx, ports.CollectionProducts, id)
	if err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	if doc == nil {
		return nil, nil
	}

	var p domain.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decoding product %s: %w", id, err)
	}
	return &p, nil
}

// List returns products matching the filter, sorted by the requested field.
// Category filtering hits the category index; supplier and search filters are
// applied in memory over the result set.
func (s *ProductService) List(ctx context.Context, params ports.ProductListParams) ([]domain.Product, error) {
	var (
		docs []json.RawMessage
		err  error
	)
	if params.Category != "" {
		docs, err = s.gateway.GetAllByCategory(ctx, params.Category)
	} else {
		docs, err = s.gateway.GetAll(ctx, ports.CollectionProducts)
	}
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var p domain.Product
		if err := json.Unmarshal(doc, &p); err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable product record",
				slog.Any("error", err))
			continue
		}
		if !matchesProduct(&p, params) {
			continue
		}
		products = append(products, p)
	}

	sortProducts(products, params.SortBy)
	return products, nil
}

// Delete removes the product definition. Inventory entries referencing it are
// left in place; the dashboard tolerates the dangling reference.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, ports.CollectionProducts, id); err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

func matchesProduct(p *domain.Product, params ports.ProductListParams) bool {
	if params.Supplier != "" && !strings.EqualFold(p.Supplier, params.Supplier) {
		return false
	}
	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Notes), needle) {
			return false
		}
	}
	return true
}

func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case "price":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PricePerBottle.LessThan(products[j].PricePerBottle)
		})
	case "category":
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Category != products[j].Category {
				return products[i].Category < products[j].Category
			}
			return products[i].Name < products[j].Name
		})
	case "updated":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].LastUpdated.After(products[j].LastUpdated)
		})
	default: // name
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	}
}
