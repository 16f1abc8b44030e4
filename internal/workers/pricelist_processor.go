// internal/workers/pricelist_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// PriceListProcessor imports supplier price lists from Excel files. Expected
// columns: name, category, volume (ml), price per bottle, items per crate,
// supplier, notes. The first row is treated as a header.
type PriceListProcessor struct {
	products ports.ProductStore
	tracker  *JobTracker
	logger   *slog.Logger
}

// NewPriceListProcessor creates a new price list processor
func NewPriceListProcessor(products ports.ProductStore, tracker *JobTracker, logger *slog.Logger) *PriceListProcessor {
	return &PriceListProcessor{
		products: products,
		tracker:  tracker,
		logger:   logger.With(slog.String("processor", "price_list")),
	}
}

// ProcessPriceList handles a TypePriceListImport task.
func (p *PriceListProcessor) ProcessPriceList(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ImportJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing price list",
		slog.String("job_id", payload.JobID),
		slog.String("file", payload.FileName))

	_ = p.tracker.MarkProcessing(ctx, payload.JobID)

	file, err := xlsx.OpenFile(payload.FilePath)
	if err != nil {
		errMsg := fmt.Sprintf("failed to open Excel file: %v", err)
		_ = p.tracker.MarkFailed(ctx, payload.JobID, errMsg)
		return fmt.Errorf("%s", errMsg)
	}

	var products []domain.Product
	var parseErrors []string

	if len(file.Sheets) > 0 {
		sheet := file.Sheets[0]
		rowIdx := 0

		err = sheet.ForEachRow(func(r *xlsx.Row) error {
			if rowIdx == 0 {
				rowIdx++
				return nil
			}
			rowIdx++

			product, rowErr := p.parseRow(r, payload.Supplier)
			if rowErr != nil {
				parseErrors = append(parseErrors, fmt.Sprintf("row %d: %v", rowIdx, rowErr))
				return nil
			}
			if product != nil {
				products = append(products, *product)
			}
			return nil
		})
		if err != nil {
			errMsg := fmt.Sprintf("failed to process Excel rows: %v", err)
			_ = p.tracker.MarkFailed(ctx, payload.JobID, errMsg)
			return fmt.Errorf("%s", errMsg)
		}
	}

	saved := 0
	status := JobCompleted
	if len(products) > 0 {
		if err := p.products.SaveBatch(ctx, products); err != nil {
			status = JobCompletedWithErrors
			parseErrors = append(parseErrors, err.Error())
		} else {
			saved = len(products)
		}
	}
	if len(parseErrors) > 0 && status == JobCompleted {
		status = JobCompletedWithErrors
	}

	_ = p.tracker.Complete(ctx, payload.JobID, status, ImportJobResult{
		ProductsParsed: len(products),
		ProductsSaved:  saved,
		Errors:         parseErrors,
		ProcessingTime: time.Since(start).String(),
	})

	if strings.HasPrefix(payload.FilePath, os.TempDir()) {
		_ = os.Remove(payload.FilePath)
	}

	p.logger.InfoContext(ctx, "price list processing completed",
		slog.String("job_id", payload.JobID),
		slog.Int("products_parsed", len(products)),
		slog.Int("products_saved", saved),
		slog.Int("errors", len(parseErrors)))

	return nil
}

// parseRow converts one sheet row into a product. An empty name means the row
// is skipped silently; a name without a usable price is an error the result
// reports.
func (p *PriceListProcessor) parseRow(r *xlsx.Row, fallbackSupplier string) (*domain.Product, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	name := get(0)
	if name == "" {
		return nil, nil
	}

	price, err := parsePrice(get(3))
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	volume := 0.0
	if v := get(2); v != "" {
		volume, err = strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("volume: %w", err)
		}
	}

	product := &domain.Product{
		Name:           name,
		Category:       normalizeCategory(get(1)),
		Volume:         volume,
		PricePerBottle: price,
		Supplier:       get(5),
		Notes:          get(6),
	}
	if product.Supplier == "" {
		product.Supplier = fallbackSupplier
	}

	if crate := get(4); crate != "" {
		if n, err := strconv.Atoi(crate); err == nil && n > 0 {
			product.ItemsPerCrate = &n
		}
	}

	return product, nil
}

// parsePrice accepts "1.20", "1,20", "€ 1.20" and "EUR 1.20".
func parsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("€", "", "EUR", "", " ", "").Replace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	return decimal.NewFromString(cleaned)
}

// normalizeCategory maps free-form category labels, including the German ones
// suppliers use, onto the fixed category set.
func normalizeCategory(s string) domain.ProductCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beer", "bier":
		return domain.CategoryBeer
	case "wine", "wein":
		return domain.CategoryWine
	case "sparkling", "sekt", "champagner":
		return domain.CategorySparkling
	case "spirits", "spirituosen", "schnaps":
		return domain.CategorySpirits
	case "liqueur", "likoer", "likör":
		return domain.CategoryLiqueur
	case "soft_drink", "softdrink", "limonade", "limo":
		return domain.CategorySoft
	case "juice", "saft":
		return domain.CategoryJuice
	case "water", "wasser", "mineralwasser":
		return domain.CategoryWater
	case "syrup", "sirup":
		return domain.CategorySyrup
	default:
		return domain.CategoryOther
	}
}
