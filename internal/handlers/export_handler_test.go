// internal/handlers/export_handler_test.go
package handlers_test

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfriesen/barstock-be/internal/handlers"
	"github.com/mfriesen/barstock-be/test/helpers"
	"github.com/mfriesen/barstock-be/test/mocks"
)

func TestExportHandler_ExportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSnapshots := mocks.NewMockSnapshotService(ctrl)
	mockAnalytics := mocks.NewMockAnalyticsService(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)
	handler := handlers.NewExportHandler(mockSnapshots, mockAnalytics, mockCache, helpers.TestLogger())

	mockSnapshots.EXPECT().
		LoadAll(gomock.Any()).
		Return(helpers.CreateTestSnapshot(2), nil)

	req := httptest.NewRequest("GET", "/api/v1/export/csv", nil)
	w := httptest.NewRecorder()

	handler.ExportCSV(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "barstock_products_")

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 products
	assert.Equal(t, "Name", records[0][1])
	assert.Equal(t, "Test Product 1", records[1][1])
}

func TestExportHandler_ExportCSV_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSnapshots := mocks.NewMockSnapshotService(ctrl)
	mockAnalytics := mocks.NewMockAnalyticsService(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)
	handler := handlers.NewExportHandler(mockSnapshots, mockAnalytics, mockCache, helpers.TestLogger())

	mockSnapshots.EXPECT().
		LoadAll(gomock.Any()).
		Return(nil, errors.New("database connection failed"))

	req := httptest.NewRequest("GET", "/api/v1/export/csv", nil)
	w := httptest.NewRecorder()

	handler.ExportCSV(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExportHandler_ExportJSON(t *testing.T) {
	t.Run("cache_miss_builds_and_caches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSnapshots := mocks.NewMockSnapshotService(ctrl)
		mockAnalytics := mocks.NewMockAnalyticsService(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		handler := handlers.NewExportHandler(mockSnapshots, mockAnalytics, mockCache, helpers.TestLogger())

		mockCache.EXPECT().
			Get(gomock.Any(), "export:json", gomock.Any()).
			Return(errors.New("cache miss"))
		mockSnapshots.EXPECT().
			LoadAll(gomock.Any()).
			Return(helpers.CreateTestSnapshot(3), nil)

		cached := make(chan struct{})
		mockCache.EXPECT().
			Set(gomock.Any(), "export:json", gomock.Any()).
			DoAndReturn(func(_, _, _ interface{}) error {
				close(cached)
				return nil
			})

		req := httptest.NewRequest("GET", "/api/v1/export/json", nil)
		w := httptest.NewRecorder()

		handler.ExportJSON(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

		var response handlers.JSONExportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 3, response.Metadata.TotalProducts)
		assert.Equal(t, 1, response.Metadata.TotalLocations)

		select {
		case <-cached:
		case <-time.After(2 * time.Second):
			t.Fatal("export was never written to the cache")
		}
	})

	t.Run("cache_hit_skips_store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSnapshots := mocks.NewMockSnapshotService(ctrl)
		mockAnalytics := mocks.NewMockAnalyticsService(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		handler := handlers.NewExportHandler(mockSnapshots, mockAnalytics, mockCache, helpers.TestLogger())

		payload := []byte(`{"snapshot":null,"metadata":{}}`)
		mockCache.EXPECT().
			Get(gomock.Any(), "export:json", gomock.Any()).
			DoAndReturn(func(_ interface{}, _ string, dest *[]byte) error {
				*dest = payload
				return nil
			})

		req := httptest.NewRequest("GET", "/api/v1/export/json", nil)
		w := httptest.NewRecorder()

		handler.ExportJSON(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
		assert.Equal(t, payload, w.Body.Bytes())
	})
}

func TestExportHandler_ExportExcel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSnapshots := mocks.NewMockSnapshotService(ctrl)
	mockAnalytics := mocks.NewMockAnalyticsService(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)
	handler := handlers.NewExportHandler(mockSnapshots, mockAnalytics, mockCache, helpers.TestLogger())

	mockSnapshots.EXPECT().
		LoadAll(gomock.Any()).
		Return(helpers.CreateTestSnapshot(2), nil)
	mockAnalytics.EXPECT().
		ConsumptionReport(gomock.Any()).
		Return(testReport(), nil)

	req := httptest.NewRequest("GET", "/api/v1/export/excel", nil)
	w := httptest.NewRecorder()

	handler.ExportExcel(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Greater(t, w.Body.Len(), 0)
}
