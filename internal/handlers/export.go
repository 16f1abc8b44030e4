// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/mfriesen/barstock-be/internal/adapters/redis_adapter"
	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Snapshot *domain.Snapshot `json:"snapshot"`
	Metadata ExportMetadata   `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate     time.Time `json:"export_date"`
	TotalProducts  int       `json:"total_products"`
	TotalLocations int       `json:"total_locations"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	snapshots ports.SnapshotService
	analytics ports.AnalyticsService
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(snapshots ports.SnapshotService, analytics ports.AnalyticsService,
	cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		snapshots: snapshots,
		analytics: analytics,
		cache:     cache,
		logger:    logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.InfoContext(ctx, "starting Excel export")

	snap, err := h.snapshots.LoadAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory for export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	report, err := h.analytics.ConsumptionReport(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load consumption report for export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(snap, report)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("barstock_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("products", len(snap.Products)),
		slog.Int("locations", len(snap.Locations)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json")
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response", slog.String("error", err.Error()))
		}
		return
	}

	snap, err := h.snapshots.LoadAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory for export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := JSONExportResponse{
		Snapshot: snap,
		Metadata: ExportMetadata{
			ExportDate:     time.Now(),
			TotalProducts:  len(snap.Products),
			TotalLocations: len(snap.Locations),
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON response", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response", slog.String("error", err.Error()))
		return
	}

	// Cache the result (async)
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, responseData); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export", slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("products", len(snap.Products)))
}

// ExportCSV handles GET /api/v1/export/csv
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.snapshots.LoadAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load inventory for export", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write(productHeaders()); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to generate CSV")
		return
	}
	for i := range snap.Products {
		if err := writer.Write(productRow(&snap.Products[i])); err != nil {
			h.respondError(w, http.StatusInternalServerError, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("barstock_products_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))

	if _, err := w.Write(buffer.Bytes()); err != nil {
		h.logger.ErrorContext(ctx, "failed to write CSV response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "CSV export completed",
		slog.Int("products", len(snap.Products)))
}

// generateExcelFile creates a workbook with a product sheet and a per-location
// consumption sheet.
func (h *ExportHandler) generateExcelFile(snap *domain.Snapshot, report *ports.ConsumptionReport) ([]byte, error) {
	file := xlsx.NewFile()

	productSheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := productSheet.AddRow()
	for _, header := range productHeaders() {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range snap.Products {
		dataRow := productSheet.AddRow()
		for _, value := range productRow(&snap.Products[i]) {
			dataRow.AddCell().Value = value
		}
	}

	for i := 0; i < len(productHeaders()); i++ {
		productSheet.SetColWidth(i, i, 18)
	}

	consumptionSheet, err := file.AddSheet("Consumption")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	consHeader := consumptionSheet.AddRow()
	for _, header := range []string{"Location", "Consumed Volume (ml)", "Cost", "Entries", "Missing Products"} {
		cell := consHeader.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, loc := range report.Locations {
		row := consumptionSheet.AddRow()
		row.AddCell().Value = loc.LocationName
		row.AddCell().Value = loc.Summary.ConsumedVolume.String()
		row.AddCell().Value = loc.Summary.Cost.StringFixed(2)
		row.AddCell().Value = strconv.Itoa(loc.Summary.EntryCount)
		row.AddCell().Value = strconv.Itoa(loc.Summary.MissingProduct)
	}

	totalRow := consumptionSheet.AddRow()
	totalRow.AddCell().Value = "Total"
	totalRow.AddCell().Value = report.Total.ConsumedVolume.String()
	totalRow.AddCell().Value = report.Total.Cost.StringFixed(2)
	totalRow.AddCell().Value = strconv.Itoa(report.Total.EntryCount)
	totalRow.AddCell().Value = strconv.Itoa(report.Total.MissingProduct)

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func productHeaders() []string {
	return []string{
		"ID", "Name", "Category", "Volume (ml)", "Price Per Bottle",
		"Items Per Crate", "Price Per 100ml", "Supplier", "Notes", "Last Updated",
	}
}

func productRow(p *domain.Product) []string {
	itemsPerCrate := ""
	if p.ItemsPerCrate != nil {
		itemsPerCrate = strconv.Itoa(*p.ItemsPerCrate)
	}
	pricePer100 := ""
	if p.PricePer100ml != nil {
		pricePer100 = p.PricePer100ml.StringFixed(4)
	}
	return []string{
		p.ID,
		p.Name,
		string(p.Category),
		strconv.FormatFloat(p.Volume, 'f', -1, 64),
		p.PricePerBottle.StringFixed(2),
		itemsPerCrate,
		pricePer100,
		p.Supplier,
		p.Notes,
		p.LastUpdated.Format("2006-01-02 15:04:05"),
	}
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{
		"error":   message,
		"status":  "error",
		"message": message,
	}

	json.NewEncoder(w).Encode(response)
}
