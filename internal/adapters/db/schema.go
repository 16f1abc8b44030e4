// internal/adapters/db/schema.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// setupLockID namespaces the advisory lock taken while creating tables, so
// concurrent instances serialize their schema setup instead of racing.
const setupLockID = 0x6261727374 // "barst"

var schemaStatements = map[ports.Collection][]string{
	ports.CollectionProducts: {
		`CREATE TABLE IF NOT EXISTS products (
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			category   TEXT GENERATED ALWAYS AS (doc->>'category') STORED,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	},
	ports.CollectionLocations: {
		`CREATE TABLE IF NOT EXISTS locations (
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	ports.CollectionInventoryState: {
		`CREATE TABLE IF NOT EXISTS inventory_state (
			key        TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
}

// ensureSchema creates any missing collection tables. Creation is idempotent
// per table, so a collection added in a later release gets its table on the
// next startup without touching the existing ones.
func (g *Gateway) ensureSchema(ctx context.Context, database *Database) error {
	conn, err := database.Pool().Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for schema setup: %w", err)
	}
	defer conn.Release()

	var acquired bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", setupLockID).Scan(&acquired); err != nil {
		return fmt.Errorf("failed to probe schema setup lock: %w", err)
	}
	if !acquired {
		g.notify(ctx, ports.SeverityInfo, "Waiting for another session to finish storage setup")
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", setupLockID); err != nil {
			return fmt.Errorf("failed to wait for schema setup lock: %w", err)
		}
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", setupLockID)
	}()

	for c, stmts := range schemaStatements {
		for _, stmt := range stmts {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to ensure %s schema: %w", c, err)
			}
		}
	}

	g.logger.Debug("storage schema ensured", slog.Int("collections", len(schemaStatements)))
	return nil
}
