// cmd/seeder/main.go
//
// Seeds the database with a demo bar: a product catalog of common German
// beverages, two locations with counters and areas, and a matching state
// record. Meant for development and demos, not production.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfriesen/barstock-be/internal/adapters/db"
	"github.com/mfriesen/barstock-be/internal/adapters/notify"
	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

func main() {
	var (
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun   = flag.Bool("dry-run", false, "Preview the seed data without writing to the database")
		wipe     = flag.Bool("wipe", false, "Clear existing records before seeding")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	snap := buildDemoSnapshot()

	fmt.Printf("Seed data: %d products, %d locations\n", len(snap.Products), len(snap.Locations))
	if *dryRun {
		for _, p := range snap.Products {
			fmt.Printf("  - %s (%s, %.0fml, %s)\n", p.Name, p.Category, p.Volume, p.PricePerBottle.StringFixed(2))
		}
		fmt.Println("\n[DRY RUN] No changes were made to the database")
		return
	}

	dbConfig := &db.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "barstock"),
		Password: getEnv("DB_PASSWORD", "barstock_dev_2026"),
		Database: getEnv("DB_NAME", "barstock_inventory"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	ctx := context.Background()

	gateway, err := db.NewGateway(dbConfig, logger, notify.NewLogNotifier(logger))
	if err != nil {
		logger.Error("failed to initialize storage gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer gateway.Close()

	if *wipe {
		logger.Info("clearing existing records")
		for _, c := range []ports.Collection{
			ports.CollectionProducts,
			ports.CollectionLocations,
			ports.CollectionInventoryState,
		} {
			if err := gateway.ClearStore(ctx, c); err != nil {
				logger.Error("failed to clear collection",
					slog.String("collection", string(c)),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	if err := gateway.SaveAll(ctx, snap); err != nil {
		logger.Error("failed to seed database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed",
		slog.Int("products", len(snap.Products)),
		slog.Int("locations", len(snap.Locations)))
	fmt.Println("Seeding completed successfully")
}

type demoProduct struct {
	name     string
	category domain.ProductCategory
	volume   float64
	price    string
	crate    int
	supplier string
}

func buildDemoSnapshot() *domain.Snapshot {
	catalog := []demoProduct{
		{"Augustiner Helles", domain.CategoryBeer, 500, "1.20", 20, "Getraenke Mueller"},
		{"Tegernseer Hell", domain.CategoryBeer, 500, "1.35", 20, "Getraenke Mueller"},
		{"Franziskaner Weissbier", domain.CategoryBeer, 500, "1.25", 20, "Getraenke Mueller"},
		{"Riesling Kabinett", domain.CategoryWine, 750, "9.50", 0, "Weinhandel Schmitt"},
		{"Grauburgunder", domain.CategoryWine, 750, "8.90", 0, "Weinhandel Schmitt"},
		{"Prosecco Frizzante", domain.CategorySparkling, 750, "6.80", 6, "Weinhandel Schmitt"},
		{"Havana Club 3", domain.CategorySpirits, 700, "14.90", 0, "Spirituosen Krause"},
		{"Monkey 47 Gin", domain.CategorySpirits, 500, "29.90", 0, "Spirituosen Krause"},
		{"Gerolsteiner Sprudel", domain.CategoryWater, 750, "0.79", 12, "Getraenke Mueller"},
		{"Coca-Cola", domain.CategorySoft, 330, "0.95", 24, "Getraenke Mueller"},
		{"Orangensaft", domain.CategoryJuice, 1000, "2.40", 6, "Getraenke Mueller"},
		{"Holunder Sirup", domain.CategorySyrup, 500, "4.20", 0, "Feinkost Albrecht"},
	}

	products := make([]domain.Product, 0, len(catalog))
	for _, d := range catalog {
		p := domain.Product{
			ID:             uuid.NewString(),
			Name:           d.name,
			Category:       d.category,
			Volume:         d.volume,
			PricePerBottle: decimal.RequireFromString(d.price),
			Supplier:       d.supplier,
		}
		if d.crate > 0 {
			crate := d.crate
			p.ItemsPerCrate = &crate
		}
		p.PrepareForStorage()
		products = append(products, p)
	}

	entries := func(ids ...int) []domain.InventoryEntry {
		out := make([]domain.InventoryEntry, 0, len(ids))
		for _, i := range ids {
			out = append(out, domain.InventoryEntry{
				ProductID:    products[i].ID,
				StartCrates:  1,
				StartBottles: 6,
				EndBottles:   3,
			})
		}
		return out
	}

	locations := []domain.Location{
		{
			ID:   uuid.NewString(),
			Name: "Hauptbar",
			Counters: []domain.Counter{
				{
					ID:   uuid.NewString(),
					Name: "Tresen",
					Areas: []domain.Area{
						{ID: uuid.NewString(), Name: "Kühlschrank links", InventoryItems: entries(0, 1, 2)},
						{ID: uuid.NewString(), Name: "Kühlschrank rechts", InventoryItems: entries(8, 9, 10)},
					},
				},
				{
					ID:   uuid.NewString(),
					Name: "Cocktailstation",
					Areas: []domain.Area{
						{ID: uuid.NewString(), Name: "Regal", InventoryItems: entries(6, 7, 11)},
					},
				},
			},
		},
		{
			ID:   uuid.NewString(),
			Name: "Terrasse",
			Counters: []domain.Counter{
				{
					ID:   uuid.NewString(),
					Name: "Außentresen",
					Areas: []domain.Area{
						{ID: uuid.NewString(), Name: "Weinkühler", InventoryItems: entries(3, 4, 5)},
					},
				},
			},
		},
	}

	return &domain.Snapshot{
		Products:  products,
		Locations: locations,
		State: &domain.InventoryState{
			Products:        products,
			Locations:       locations,
			UnsyncedChanges: false,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
