// internal/workers/invoice_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ledongthuc/pdf"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// InvoiceProcessor imports product definitions from supplier invoice PDFs.
// Invoices list one beverage per line with a volume and a unit price; lines
// that do not match that shape are ignored.
type InvoiceProcessor struct {
	products ports.ProductStore
	tracker  *JobTracker
	logger   *slog.Logger
}

// NewInvoiceProcessor creates a new invoice processor
func NewInvoiceProcessor(products ports.ProductStore, tracker *JobTracker, logger *slog.Logger) *InvoiceProcessor {
	return &InvoiceProcessor{
		products: products,
		tracker:  tracker,
		logger:   logger.With(slog.String("processor", "invoice")),
	}
}

// ProcessInvoice handles a TypeInvoicePDF task.
func (p *InvoiceProcessor) ProcessInvoice(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ImportJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing invoice PDF",
		slog.String("job_id", payload.JobID),
		slog.String("file", payload.FileName))

	_ = p.tracker.MarkProcessing(ctx, payload.JobID)

	lines, err := p.extractTextLines(ctx, payload.FilePath)
	if err != nil {
		errMsg := fmt.Sprintf("failed to read PDF: %v", err)
		_ = p.tracker.MarkFailed(ctx, payload.JobID, errMsg)
		return fmt.Errorf("%s", errMsg)
	}

	products := parseInvoiceLines(lines, payload.Supplier)

	saved := 0
	status := JobCompleted
	var errors []string
	if len(products) > 0 {
		if err := p.products.SaveBatch(ctx, products); err != nil {
			status = JobCompletedWithErrors
			errors = append(errors, err.Error())
		} else {
			saved = len(products)
		}
	}

	_ = p.tracker.Complete(ctx, payload.JobID, status, ImportJobResult{
		ProductsParsed: len(products),
		ProductsSaved:  saved,
		Errors:         errors,
		ProcessingTime: time.Since(start).String(),
	})

	if strings.HasPrefix(payload.FilePath, os.TempDir()) {
		_ = os.Remove(payload.FilePath)
	}

	p.logger.InfoContext(ctx, "invoice processing completed",
		slog.String("job_id", payload.JobID),
		slog.Int("products_parsed", len(products)),
		slog.Int("products_saved", saved))

	return nil
}

func (p *InvoiceProcessor) extractTextLines(ctx context.Context, filePath string) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.WarnContext(ctx, "failed to extract text from page",
				slog.Int("page", pageNum),
				slog.Any("error", err))
			continue
		}

		lines = append(lines, strings.Split(text, "\n")...)
	}

	return lines, nil
}

var (
	// "Augustiner Helles 0,5l 20x0,5 1,20" or "Riesling 750ml 9.50"
	volumeRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|cl|l)\b`)
	crateRe  = regexp.MustCompile(`(\d+)\s*x\s*\d+(?:[.,]\d+)?`)
	priceRe  = regexp.MustCompile(`(?:€\s*)?(\d{1,4}(?:[.,]\d{2}))\s*$`)
	footerRe = regexp.MustCompile(`(?i)(zwischensumme|summe|gesamt|subtotal|total|mwst|ust)`)
)

// parseInvoiceLines turns invoice text lines into product definitions. A line
// must carry a volume and end with a price to count; everything before the
// volume is the product name.
func parseInvoiceLines(lines []string, supplier string) []domain.Product {
	var products []domain.Product

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if footerRe.MatchString(line) {
			break
		}

		priceMatch := priceRe.FindStringSubmatch(line)
		volMatch := volumeRe.FindStringSubmatchIndex(line)
		if priceMatch == nil || volMatch == nil {
			continue
		}

		name := strings.TrimSpace(line[:volMatch[0]])
		name = regexp.MustCompile(`^\d+\s+`).ReplaceAllString(name, "")
		if name == "" {
			continue
		}

		volume := parseVolumeML(
			line[volMatch[2]:volMatch[3]],
			strings.ToLower(line[volMatch[4]:volMatch[5]]),
		)
		price, err := parsePrice(priceMatch[1])
		if err != nil || price.IsNegative() {
			continue
		}

		product := domain.Product{
			Name:           name,
			Category:       categorizeBeverage(name),
			Volume:         volume,
			PricePerBottle: price,
			Supplier:       supplier,
		}

		if crateMatch := crateRe.FindStringSubmatch(line); crateMatch != nil {
			if n, err := strconv.Atoi(crateMatch[1]); err == nil && n > 0 {
				product.ItemsPerCrate = &n
			}
		}

		products = append(products, product)
	}

	return products
}

// parseVolumeML converts a "0,5 l" style volume expression to milliliters.
func parseVolumeML(value, unit string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "l":
		return v * 1000
	case "cl":
		return v * 10
	default:
		return v
	}
}

// categorizeBeverage guesses the category from the product name.
func categorizeBeverage(name string) domain.ProductCategory {
	lower := strings.ToLower(name)

	keywordCategories := []struct {
		category domain.ProductCategory
		keywords []string
	}{
		{domain.CategoryBeer, []string{"helles", "pils", "weissbier", "weizen", "lager", "dunkel", "bier", "ipa"}},
		{domain.CategorySparkling, []string{"sekt", "prosecco", "champagner", "cremant", "cava"}},
		{domain.CategoryWine, []string{"riesling", "merlot", "chardonnay", "spaetburgunder", "wein", "cuvee", "rose"}},
		{domain.CategorySpirits, []string{"gin", "vodka", "wodka", "whisky", "whiskey", "rum", "tequila", "korn"}},
		{domain.CategoryLiqueur, []string{"likoer", "likör", "amaretto", "aperol", "campari"}},
		{domain.CategoryJuice, []string{"saft", "juice", "nektar"}},
		{domain.CategoryWater, []string{"wasser", "water", "sprudel"}},
		{domain.CategorySyrup, []string{"sirup", "syrup"}},
		{domain.CategorySoft, []string{"cola", "limo", "limonade", "spezi", "tonic", "mate"}},
	}

	for _, kc := range keywordCategories {
		for _, kw := range kc.keywords {
			if strings.Contains(lower, kw) {
				return kc.category
			}
		}
	}
	return domain.CategoryOther
}
