// internal/workers/pricelist_processor_test.go
package workers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/test/helpers"
)

func newSheetRow(t *testing.T, values ...string) *xlsx.Row {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("PriceList")
	require.NoError(t, err)

	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
	return row
}

func TestPriceListParseRow(t *testing.T) {
	p := NewPriceListProcessor(nil, nil, helpers.TestLogger())

	t.Run("full_row", func(t *testing.T) {
		row := newSheetRow(t,
			"Augustiner Helles", "Bier", "500", "1,20", "20", "Getraenke Mueller", "Pfandflasche")

		product, err := p.parseRow(row, "")
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "Augustiner Helles", product.Name)
		assert.Equal(t, domain.CategoryBeer, product.Category)
		assert.Equal(t, 500.0, product.Volume)
		assert.True(t, product.PricePerBottle.Equal(decimal.NewFromFloat(1.20)))
		require.NotNil(t, product.ItemsPerCrate)
		assert.Equal(t, 20, *product.ItemsPerCrate)
		assert.Equal(t, "Getraenke Mueller", product.Supplier)
		assert.Equal(t, "Pfandflasche", product.Notes)
	})

	t.Run("empty_name_skips_row", func(t *testing.T) {
		row := newSheetRow(t, "", "Bier", "500", "1,20")

		product, err := p.parseRow(row, "")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("bad_price_is_an_error", func(t *testing.T) {
		row := newSheetRow(t, "Augustiner Helles", "Bier", "500", "n/a")

		product, err := p.parseRow(row, "")
		require.Error(t, err)
		assert.Nil(t, product)
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("fallback_supplier_applies_when_column_empty", func(t *testing.T) {
		row := newSheetRow(t, "Riesling", "Wein", "750", "9,50")

		product, err := p.parseRow(row, "Weinhaus Schmitt")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Weinhaus Schmitt", product.Supplier)
	})
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input string
		want  domain.ProductCategory
	}{
		{"Bier", domain.CategoryBeer},
		{"beer", domain.CategoryBeer},
		{"WEIN", domain.CategoryWine},
		{"Sekt", domain.CategorySparkling},
		{"Spirituosen", domain.CategorySpirits},
		{"Saft", domain.CategoryJuice},
		{"Mineralwasser", domain.CategoryWater},
		{"Sirup", domain.CategorySyrup},
		{"Limonade", domain.CategorySoft},
		{"", domain.CategoryOther},
		{"whatever", domain.CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeCategory(tt.input), tt.input)
	}
}
