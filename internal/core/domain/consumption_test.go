package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

func beer() *domain.Product {
	return &domain.Product{
		ID:             "beer",
		Name:           "Helles",
		Category:       domain.CategoryBeer,
		Volume:         500,
		PricePerBottle: decimal.NewFromFloat(1.50),
		ItemsPerCrate:  intPtr(20),
	}
}

func TestEntryConsumedVolume(t *testing.T) {
	tests := []struct {
		name     string
		entry    domain.InventoryEntry
		expected float64 // ml
	}{
		{
			name: "bottles_only",
			entry: domain.InventoryEntry{
				ProductID:    "beer",
				StartBottles: 10,
				EndBottles:   4,
			},
			expected: 3000,
		},
		{
			name: "crates_bottles_and_open_volume",
			entry: domain.InventoryEntry{
				ProductID:       "beer",
				StartCrates:     2,
				StartBottles:    5,
				StartOpenVolume: 250,
				EndCrates:       1,
				EndBottles:      2,
				EndOpenVolume:   100,
			},
			// one crate (20*500) + three bottles (1500) + 150 open
			expected: 11650,
		},
		{
			name: "end_exceeds_start_floors_at_zero",
			entry: domain.InventoryEntry{
				ProductID:    "beer",
				StartBottles: 2,
				EndBottles:   5,
			},
			expected: 0,
		},
		{
			name:     "no_counts_no_consumption",
			entry:    domain.InventoryEntry{ProductID: "beer"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.EntryConsumedVolume(&tt.entry, beer())
			assert.True(t, got.Equal(decimal.NewFromFloat(tt.expected)),
				"expected %v ml, got %s", tt.expected, got)
		})
	}
}

func TestEntryConsumptionCost(t *testing.T) {
	entry := domain.InventoryEntry{ProductID: "beer", StartBottles: 10, EndBottles: 4}

	cost := domain.EntryConsumptionCost(&entry, beer())

	// six bottles at 1.50
	assert.True(t, cost.Equal(decimal.NewFromFloat(9)), "got %s", cost)
}

func TestEntryConsumptionCost_ZeroVolumeProduct(t *testing.T) {
	p := beer()
	p.Volume = 0
	entry := domain.InventoryEntry{ProductID: "beer", StartBottles: 10}

	assert.True(t, domain.EntryConsumptionCost(&entry, p).IsZero())
}

func TestAreaConsumption_SkipsDanglingReferences(t *testing.T) {
	area := domain.Area{
		Name: "Kühlschrank",
		InventoryItems: []domain.InventoryEntry{
			{ProductID: "beer", StartBottles: 4, EndBottles: 2},
			{ProductID: "deleted-product", StartBottles: 9, EndBottles: 0},
		},
	}
	idx := domain.ProductIndex([]domain.Product{*beer()})

	sum := domain.AreaConsumption(&area, idx)

	assert.Equal(t, 1, sum.EntryCount)
	assert.Equal(t, 1, sum.MissingProduct)
	assert.True(t, sum.ConsumedVolume.Equal(decimal.NewFromInt(1000)), "got %s", sum.ConsumedVolume)
	assert.True(t, sum.Cost.Equal(decimal.NewFromInt(3)), "got %s", sum.Cost)
}

func TestLocationConsumption_AggregatesCountersAndAreas(t *testing.T) {
	loc := domain.Location{
		Name: "Hauptbar",
		Counters: []domain.Counter{
			{
				Name: "Front",
				Areas: []domain.Area{
					{InventoryItems: []domain.InventoryEntry{{ProductID: "beer", StartBottles: 2, EndBottles: 1}}},
					{InventoryItems: []domain.InventoryEntry{{ProductID: "beer", StartBottles: 3, EndBottles: 1}}},
				},
			},
			{
				Name: "Back",
				Areas: []domain.Area{
					{InventoryItems: []domain.InventoryEntry{{ProductID: "beer", StartBottles: 1, EndBottles: 0}}},
				},
			},
		},
	}
	idx := domain.ProductIndex([]domain.Product{*beer()})

	sum := domain.LocationConsumption(&loc, idx)

	assert.Equal(t, 3, sum.EntryCount)
	// four bottles in total
	assert.True(t, sum.ConsumedVolume.Equal(decimal.NewFromInt(2000)), "got %s", sum.ConsumedVolume)
	assert.True(t, sum.Cost.Equal(decimal.NewFromInt(6)), "got %s", sum.Cost)
}
