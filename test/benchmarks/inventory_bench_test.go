package benchmarks

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

func BenchmarkLocationConsumption(b *testing.B) {
	sizes := []struct {
		areas   int
		entries int
	}{
		{areas: 2, entries: 5},
		{areas: 4, entries: 25},
		{areas: 8, entries: 125},
	}

	for _, size := range sizes {
		name := fmt.Sprintf("%dx%d", size.areas, size.entries)
		b.Run(name, func(b *testing.B) {
			products, index := benchProducts(size.areas * size.entries)
			loc := benchLocation(size.areas, size.entries, products)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = domain.LocationConsumption(loc, index)
			}
		})
	}
}

func BenchmarkEntryConsumedVolume(b *testing.B) {
	products, _ := benchProducts(1)
	entry := &domain.InventoryEntry{
		ProductID:       products[0].ID,
		StartCrates:     2,
		StartBottles:    10,
		StartOpenVolume: 250,
		EndCrates:       1,
		EndBottles:      3,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = domain.EntryConsumedVolume(entry, &products[0])
	}
}

func BenchmarkSnapshotJSON(b *testing.B) {
	for _, count := range []int{10, 100, 1000} {
		snap := benchSnapshot(count)
		data, err := json.Marshal(snap)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("Marshal_%d", count), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := json.Marshal(snap); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("Unmarshal_%d", count), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var decoded domain.Snapshot
				if err := json.Unmarshal(data, &decoded); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPrepareForStorage(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		product := domain.Product{
			Name:           "Augustiner Helles",
			Category:       domain.CategoryBeer,
			Volume:         500,
			PricePerBottle: decimal.NewFromFloat(1.20),
		}
		product.PrepareForStorage()
	}
}

func BenchmarkProductValidate(b *testing.B) {
	products, _ := benchProducts(100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := products[i%len(products)].Validate(); err != nil {
			b.Fatal(err)
		}
	}
}
