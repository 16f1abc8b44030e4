package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

func intPtr(v int) *int { return &v }

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   *domain.Product
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_product_with_all_fields",
			product: &domain.Product{
				ID:             "p1",
				Name:           "Augustiner Helles",
				Category:       domain.CategoryBeer,
				Volume:         500,
				PricePerBottle: decimal.NewFromFloat(1.20),
				ItemsPerCrate:  intPtr(20),
				Supplier:       "Getränke Huber",
			},
			wantError: false,
		},
		{
			name: "missing_name",
			product: &domain.Product{
				Volume:         500,
				PricePerBottle: decimal.NewFromFloat(1.20),
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "negative_volume",
			product: &domain.Product{
				Name:           "Broken",
				Volume:         -1,
				PricePerBottle: decimal.NewFromFloat(1.20),
			},
			wantError: true,
			errorMsg:  "volume cannot be negative",
		},
		{
			name: "negative_price",
			product: &domain.Product{
				Name:           "Broken",
				Volume:         500,
				PricePerBottle: decimal.NewFromFloat(-0.5),
			},
			wantError: true,
			errorMsg:  "pricePerBottle cannot be negative",
		},
		{
			name: "zero_items_per_crate",
			product: &domain.Product{
				Name:           "Broken",
				Volume:         500,
				PricePerBottle: decimal.NewFromFloat(1.20),
				ItemsPerCrate:  intPtr(0),
			},
			wantError: true,
			errorMsg:  "itemsPerCrate must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestProduct_Validate_DefaultsCategory(t *testing.T) {
	p := &domain.Product{
		Name:           "Mystery Bottle",
		Volume:         700,
		PricePerBottle: decimal.NewFromFloat(18),
	}
	require.NoError(t, p.Validate())
	assert.Equal(t, domain.CategoryOther, p.Category)
}

func TestProduct_PrepareForStorage(t *testing.T) {
	p := &domain.Product{
		Name:           "Gin Sul",
		Category:       domain.CategorySpirits,
		Volume:         500,
		PricePerBottle: decimal.NewFromFloat(29.90),
	}

	p.PrepareForStorage()

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.LastUpdated.IsZero())
	require.NotNil(t, p.PricePer100ml)
	// 29.90 / 500ml * 100ml
	assert.True(t, p.PricePer100ml.Equal(decimal.NewFromFloat(5.98)),
		"expected 5.98, got %s", p.PricePer100ml)
}

func TestProduct_PrepareForStorage_KeepsExistingID(t *testing.T) {
	p := &domain.Product{
		ID:             "fixed-id",
		Name:           "Tonic",
		Volume:         200,
		PricePerBottle: decimal.NewFromFloat(1.10),
	}
	p.PrepareForStorage()
	assert.Equal(t, "fixed-id", p.ID)
}

func TestLocation_PrepareForStorage_AssignsNestedIDs(t *testing.T) {
	loc := &domain.Location{
		Name: "Hauptbar",
		Counters: []domain.Counter{
			{Name: "Front", Areas: []domain.Area{{Name: "Kühlschrank"}}},
		},
	}

	loc.PrepareForStorage()

	assert.NotEmpty(t, loc.ID)
	assert.NotEmpty(t, loc.Counters[0].ID)
	assert.NotEmpty(t, loc.Counters[0].Areas[0].ID)
}

func TestLocation_Validate(t *testing.T) {
	loc := &domain.Location{
		Name: "Hauptbar",
		Counters: []domain.Counter{
			{Name: "Front", Areas: []domain.Area{{Name: ""}}},
		},
	}
	err := loc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "area 0")
}
