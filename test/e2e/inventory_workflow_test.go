//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfriesen/barstock-be/internal/adapters/db"
	"github.com/mfriesen/barstock-be/internal/adapters/notify"
	redis_a "github.com/mfriesen/barstock-be/internal/adapters/redis_adapter"
	"github.com/mfriesen/barstock-be/internal/adapters/storage"
	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/services"
	"github.com/mfriesen/barstock-be/internal/handlers"
	"github.com/mfriesen/barstock-be/internal/pkg/config"
	"github.com/mfriesen/barstock-be/test/helpers"
)

// startTestServer wires the full HTTP stack against a throwaway
// PostgreSQL container and an in-memory Redis.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	testDB := helpers.SetupTestDB(t)
	testRedis := helpers.SetupTestRedis(t)
	logger := helpers.TestLogger()

	gateway, err := db.NewGateway(testDB.Config, logger, notify.NewLogNotifier(logger))
	require.NoError(t, err)
	t.Cleanup(func() { gateway.Close() })

	cache := redis_a.NewCache(testRedis.Client, time.Minute, logger)

	productService := services.NewProductService(gateway, logger)
	locationService := services.NewLocationService(gateway, logger)
	snapshotStore := services.NewSnapshotStore(gateway, cache, logger)
	analytics := services.NewAnalytics(productService, locationService, cache, logger)

	localStorage, err := storage.NewLocalStorage(t.TempDir(), logger)
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "barstock-api",
			Environment: "test",
			Version:     "e2e",
		},
	}

	productsHandler := handlers.NewProductsHandler(productService, localStorage, 5<<20, logger)
	locationsHandler := handlers.NewLocationsHandler(locationService, logger)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotStore, logger)
	dashboardHandler := handlers.NewDashboardHandler(analytics, logger)
	exportHandler := handlers.NewExportHandler(snapshotStore, analytics, cache, logger)
	healthHandler := handlers.NewHealthHandler(gateway, testRedis.Client, nil, cfg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Readiness)

	mux.HandleFunc("GET /api/v1/products", productsHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", productsHandler.GetProduct)
	mux.HandleFunc("POST /api/v1/products", productsHandler.CreateProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", productsHandler.UpdateProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", productsHandler.DeleteProduct)

	mux.HandleFunc("GET /api/v1/locations", locationsHandler.ListLocations)
	mux.HandleFunc("POST /api/v1/locations", locationsHandler.CreateLocation)

	mux.HandleFunc("GET /api/v1/snapshot", snapshotHandler.GetSnapshot)
	mux.HandleFunc("PUT /api/v1/snapshot", snapshotHandler.SaveSnapshot)

	mux.HandleFunc("GET /api/v1/export/csv", exportHandler.ExportCSV)
	mux.HandleFunc("GET /api/v1/export/json", exportHandler.ExportJSON)

	mux.HandleFunc("GET /api/v1/dashboard/consumption", dashboardHandler.GetConsumption)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestInventoryWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}

	server := startTestServer(t)
	client := server.Client()
	base := server.URL

	var productID string

	t.Run("create product", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost, base+"/api/v1/products", map[string]interface{}{
			"name":           "Tegernseer Hell",
			"category":       "beer",
			"volume":         500,
			"pricePerBottle": "1.10",
			"itemsPerCrate":  20,
			"supplier":       "Getraenke Mueller",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created domain.Product
		decodeBody(t, resp, &created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Tegernseer Hell", created.Name)
		require.NotNil(t, created.PricePer100ml)
		assert.Equal(t, "0.22", created.PricePer100ml.String())
		productID = created.ID
	})

	t.Run("get product", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, base+"/api/v1/products/"+productID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var product domain.Product
		decodeBody(t, resp, &product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, domain.CategoryBeer, product.Category)
	})

	t.Run("list products filtered by category", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, base+"/api/v1/products?category=beer", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var listing struct {
			Products []domain.Product `json:"products"`
			Count    int              `json:"count"`
		}
		decodeBody(t, resp, &listing)
		require.Equal(t, 1, listing.Count)
		assert.Equal(t, productID, listing.Products[0].ID)

		resp = doJSON(t, client, http.MethodGet, base+"/api/v1/products?category=wine", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &listing)
		assert.Zero(t, listing.Count)
	})

	t.Run("update product", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPut, base+"/api/v1/products/"+productID, map[string]interface{}{
			"name":           "Tegernseer Hell",
			"category":       "beer",
			"volume":         500,
			"pricePerBottle": "1.25",
			"itemsPerCrate":  20,
			"supplier":       "Getraenke Mueller",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated domain.Product
		decodeBody(t, resp, &updated)
		assert.Equal(t, "1.25", updated.PricePerBottle.String())
	})

	t.Run("create location", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost, base+"/api/v1/locations", map[string]interface{}{
			"name": "Hauptbar",
			"counters": []map[string]interface{}{
				{
					"name": "Tresen",
					"areas": []map[string]interface{}{
						{
							"name": "Kühlschrank links",
							"inventoryItems": []map[string]interface{}{
								{
									"productId":    productID,
									"startCrates":  1,
									"startBottles": 6,
									"endBottles":   2,
								},
							},
						},
					},
				},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("snapshot roundtrip", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, base+"/api/v1/snapshot", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var snap domain.Snapshot
		decodeBody(t, resp, &snap)
		require.Len(t, snap.Products, 1)
		require.Len(t, snap.Locations, 1)
		assert.Equal(t, productID, snap.Products[0].ID)

		// A save that carries only locations must leave products untouched.
		snap.Locations[0].Name = "Hauptbar (umbenannt)"
		resp = doJSON(t, client, http.MethodPut, base+"/api/v1/snapshot", map[string]interface{}{
			"locations": snap.Locations,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, client, http.MethodGet, base+"/api/v1/snapshot", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &snap)
		require.Len(t, snap.Products, 1)
		require.Len(t, snap.Locations, 1)
		assert.Equal(t, "Hauptbar (umbenannt)", snap.Locations[0].Name)
	})

	t.Run("dashboard consumption", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, base+"/api/v1/dashboard/consumption", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report struct {
			Locations []struct {
				LocationName string `json:"location_name"`
			} `json:"locations"`
			Total struct {
				EntryCount int `json:"entryCount"`
			} `json:"total"`
		}
		decodeBody(t, resp, &report)
		require.Len(t, report.Locations, 1)
		assert.Equal(t, 1, report.Total.EntryCount)
	})

	t.Run("export csv", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, base+"/api/v1/export/csv", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		records, err := csv.NewReader(resp.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Contains(t, records[1], "Tegernseer Hell")
	})

	t.Run("delete product", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodDelete, base+"/api/v1/products/"+productID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, client, http.MethodGet, base+"/api/v1/products/"+productID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestConcurrentSnapshotReads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}

	server := startTestServer(t)
	client := server.Client()

	resp := doJSON(t, client, http.MethodPut, server.URL+"/api/v1/snapshot", map[string]interface{}{
		"products": []map[string]interface{}{
			{"id": "p-1", "name": "Augustiner Helles", "category": "beer", "volume": 500, "pricePerBottle": "1.20"},
		},
		"locations": []map[string]interface{}{},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	const readers = 10
	var wg sync.WaitGroup
	errs := make(chan error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(server.URL + "/api/v1/snapshot")
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("unexpected status %d", resp.StatusCode)
				return
			}
			var snap domain.Snapshot
			if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
				errs <- err
				return
			}
			if len(snap.Products) != 1 {
				errs <- fmt.Errorf("expected 1 product, got %d", len(snap.Products))
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}

	server := startTestServer(t)
	client := server.Client()

	resp, err := client.Get(server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string                     `json:"status"`
		Services map[string]json.RawMessage `json:"services"`
	}
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Services, "database")
	assert.Contains(t, health.Services, "redis")

	resp, err = client.Get(server.URL + "/ready")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
