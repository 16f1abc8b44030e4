// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

// benchProducts builds n products and an ID index the way the consumption
// math consumes them.
func benchProducts(n int) ([]domain.Product, map[string]*domain.Product) {
	crate := 20
	products := make([]domain.Product, n)
	index := make(map[string]*domain.Product, n)

	for i := 0; i < n; i++ {
		products[i] = domain.Product{
			ID:             uuid.New().String(),
			Name:           fmt.Sprintf("Bench Beer %d", i),
			Category:       domain.CategoryBeer,
			Volume:         500,
			PricePerBottle: decimal.NewFromFloat(1.20),
			ItemsPerCrate:  &crate,
			Supplier:       "Getraenke Mueller",
		}
	}
	for i := range products {
		index[products[i].ID] = &products[i]
	}
	return products, index
}

// benchLocation spreads entriesPerArea entries for the given products over
// areas areas behind a single counter.
func benchLocation(areas, entriesPerArea int, products []domain.Product) *domain.Location {
	loc := &domain.Location{
		ID:   uuid.New().String(),
		Name: "Hauptbar",
		Counters: []domain.Counter{
			{ID: uuid.New().String(), Name: "Tresen"},
		},
	}

	for a := 0; a < areas; a++ {
		area := domain.Area{
			ID:   uuid.New().String(),
			Name: fmt.Sprintf("Regal %d", a+1),
		}
		for e := 0; e < entriesPerArea; e++ {
			p := products[(a*entriesPerArea+e)%len(products)]
			area.InventoryItems = append(area.InventoryItems, domain.InventoryEntry{
				ProductID:    p.ID,
				StartCrates:  2,
				StartBottles: 10,
				EndCrates:    1,
				EndBottles:   3,
			})
		}
		loc.Counters[0].Areas = append(loc.Counters[0].Areas, area)
	}
	return loc
}

// benchSnapshot assembles a full sync payload with the given product count
// and a location referencing every product.
func benchSnapshot(productCount int) *domain.Snapshot {
	products, _ := benchProducts(productCount)
	loc := benchLocation(4, productCount/4+1, products)

	return &domain.Snapshot{
		Products:  products,
		Locations: []domain.Location{*loc},
		State: &domain.InventoryState{
			Products:  products,
			Locations: []domain.Location{*loc},
		},
	}
}
