// internal/core/services/analytics_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/services"
	"github.com/mfriesen/barstock-be/test/helpers"
	"github.com/mfriesen/barstock-be/test/mocks"
)

func TestAnalytics_ConsumptionReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// 500ml bottles at 2.00 each, crate of 20. One crate plus six bottles
	// counted in, two bottles counted out: 24 bottles consumed, 12000ml, 48.00.
	crate := 20
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ID = "p-1"
		p.Volume = 500
		p.PricePerBottle = decimal.NewFromFloat(2.00)
		p.ItemsPerCrate = &crate
	})

	location := helpers.CreateTestLocation("p-1")
	location.ID = "l-1"
	location.Name = "Hauptbar"

	productsStore := mocks.NewMockProductStore(ctrl)
	productsStore.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]domain.Product{*product}, nil)

	locationsStore := mocks.NewMockLocationStore(ctrl)
	locationsStore.EXPECT().
		List(gomock.Any()).
		Return([]domain.Location{*location}, nil)

	svc := services.NewAnalytics(productsStore, locationsStore, nil, helpers.TestLogger())
	report, err := svc.ConsumptionReport(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Locations, 1)
	assert.Equal(t, "l-1", report.Locations[0].LocationID)
	assert.Equal(t, "Hauptbar", report.Locations[0].LocationName)
	assert.True(t, report.Total.ConsumedVolume.Equal(decimal.NewFromInt(12000)),
		"got %s", report.Total.ConsumedVolume)
	assert.True(t, report.Total.Cost.Equal(decimal.NewFromInt(48)),
		"got %s", report.Total.Cost)
	assert.Equal(t, 1, report.Total.EntryCount)
	assert.Equal(t, 0, report.Total.MissingProduct)
}

func TestAnalytics_ConsumptionReport_CountsMissingProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	location := helpers.CreateTestLocation("deleted-product")

	productsStore := mocks.NewMockProductStore(ctrl)
	productsStore.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]domain.Product{}, nil)

	locationsStore := mocks.NewMockLocationStore(ctrl)
	locationsStore.EXPECT().
		List(gomock.Any()).
		Return([]domain.Location{*location}, nil)

	svc := services.NewAnalytics(productsStore, locationsStore, nil, helpers.TestLogger())
	report, err := svc.ConsumptionReport(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Total.EntryCount)
	assert.Equal(t, 1, report.Total.MissingProduct)
	assert.True(t, report.Total.Cost.IsZero())
}

func TestAnalytics_ConsumptionReport_ServedFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A cache hit must not touch the stores.
	productsStore := mocks.NewMockProductStore(ctrl)
	locationsStore := mocks.NewMockLocationStore(ctrl)

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().
		GetOrSet(gomock.Any(), "dash:consumption", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	svc := services.NewAnalytics(productsStore, locationsStore, cache, helpers.TestLogger())
	_, err := svc.ConsumptionReport(context.Background())

	require.NoError(t, err)
}
