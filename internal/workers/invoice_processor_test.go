// internal/workers/invoice_processor_test.go
package workers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

func TestParseInvoiceLines(t *testing.T) {
	lines := []string{
		"Getraenke Mueller GmbH",
		"Rechnung 2026-0815",
		"",
		"1 Augustiner Helles 0,5l 20x0,5 1,20",
		"2 Riesling Kabinett 750ml 9,50",
		"3 Gerolsteiner Sprudel 0,75l 12x0,75 0,79",
		"Zwischensumme 123,45",
		"4 Should Not Appear 0,5l 1,00",
	}

	products := parseInvoiceLines(lines, "Getraenke Mueller")

	require.Len(t, products, 3)

	beer := products[0]
	assert.Equal(t, "Augustiner Helles", beer.Name)
	assert.Equal(t, domain.CategoryBeer, beer.Category)
	assert.Equal(t, 500.0, beer.Volume)
	assert.True(t, beer.PricePerBottle.Equal(decimal.NewFromFloat(1.20)))
	require.NotNil(t, beer.ItemsPerCrate)
	assert.Equal(t, 20, *beer.ItemsPerCrate)
	assert.Equal(t, "Getraenke Mueller", beer.Supplier)

	wine := products[1]
	assert.Equal(t, "Riesling Kabinett", wine.Name)
	assert.Equal(t, domain.CategoryWine, wine.Category)
	assert.Equal(t, 750.0, wine.Volume)
	assert.True(t, wine.PricePerBottle.Equal(decimal.NewFromFloat(9.50)))
	assert.Nil(t, wine.ItemsPerCrate)

	water := products[2]
	assert.Equal(t, domain.CategoryWater, water.Category)
	assert.Equal(t, 750.0, water.Volume)
}

func TestParseInvoiceLines_IgnoresUnparseableLines(t *testing.T) {
	lines := []string{
		"Lieferdatum: 2026-08-15",
		"kein Preis auf dieser Zeile 0,5l",
		"kein Volumen 1,20",
	}

	products := parseInvoiceLines(lines, "")
	assert.Empty(t, products)
}

func TestParseVolumeML(t *testing.T) {
	tests := []struct {
		value string
		unit  string
		want  float64
	}{
		{"0,5", "l", 500},
		{"0.75", "l", 750},
		{"33", "cl", 330},
		{"500", "ml", 500},
		{"garbage", "l", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseVolumeML(tt.value, tt.unit),
			"value=%s unit=%s", tt.value, tt.unit)
	}
}

func TestCategorizeBeverage(t *testing.T) {
	tests := []struct {
		name string
		want domain.ProductCategory
	}{
		{"Augustiner Helles", domain.CategoryBeer},
		{"Riesling Kabinett", domain.CategoryWine},
		{"Prosecco Frizzante", domain.CategorySparkling},
		{"Monkey 47 Gin", domain.CategorySpirits},
		{"Apfelsaft naturtrueb", domain.CategoryJuice},
		{"Gerolsteiner Wasser", domain.CategoryWater},
		{"Holunder Sirup", domain.CategorySyrup},
		{"Club Mate", domain.CategorySoft},
		{"Mystery Bottle", domain.CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, categorizeBeverage(tt.name), tt.name)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1,20", "1.2", false},
		{"1.20", "1.2", false},
		{"€ 9,50", "9.5", false},
		{"EUR 2.00", "2", false},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got.String(), tt.input)
	}
}
