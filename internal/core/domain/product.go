package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory represents beverage categories
type ProductCategory string

// Category constants
const (
	CategoryBeer      ProductCategory = "beer"
	CategoryWine      ProductCategory = "wine"
	CategorySparkling ProductCategory = "sparkling"
	CategorySpirits   ProductCategory = "spirits"
	CategoryLiqueur   ProductCategory = "liqueur"
	CategorySoft      ProductCategory = "soft_drink"
	CategoryJuice     ProductCategory = "juice"
	CategoryWater     ProductCategory = "water"
	CategorySyrup     ProductCategory = "syrup"
	CategoryOther     ProductCategory = "other"
)

// Product is a purchasable beverage definition. Products are referenced from
// inventory entries by id; the storage layer does not enforce that reference,
// so a Product may be deleted while entries still point at it.
type Product struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Category       ProductCategory  `json:"category"`
	Volume         float64          `json:"volume"` // ml per bottle/unit
	PricePerBottle decimal.Decimal  `json:"pricePerBottle"`
	ItemsPerCrate  *int             `json:"itemsPerCrate,omitempty"`
	PricePer100ml  *decimal.Decimal `json:"pricePer100ml,omitempty"`
	Supplier       string           `json:"supplier,omitempty"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	LastUpdated    time.Time        `json:"lastUpdated"`
}

// Validate performs domain validation on the product. The persistence gateway
// accepts records as-is; callers run this before handing records down.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Volume < 0 {
		return fmt.Errorf("volume cannot be negative")
	}
	if p.PricePerBottle.IsNegative() {
		return fmt.Errorf("pricePerBottle cannot be negative")
	}
	if p.ItemsPerCrate != nil && *p.ItemsPerCrate <= 0 {
		return fmt.Errorf("itemsPerCrate must be positive")
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	return nil
}

// PrepareForStorage assigns an id if missing, derives the per-100ml price and
// stamps LastUpdated.
func (p *Product) PrepareForStorage() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PricePer100ml == nil && p.Volume > 0 {
		per100 := p.PricePerBottle.
			Div(decimal.NewFromFloat(p.Volume)).
			Mul(decimal.NewFromInt(100)).
			Round(4)
		p.PricePer100ml = &per100
	}
	p.LastUpdated = time.Now()
}
