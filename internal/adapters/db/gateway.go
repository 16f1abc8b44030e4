// internal/adapters/db/gateway.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

const pgUniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Gateway implements ports.StorageGateway on PostgreSQL, storing each record
// family as JSONB documents in its own table. The underlying connection pool
// is opened lazily on first use and memoized, including a failed open: a
// gateway whose storage could not be opened stays unusable.
type Gateway struct {
	config   *Config
	logger   *slog.Logger
	notifier ports.Notifier

	openOnce sync.Once
	database *Database
	openErr  error

	watchStop context.CancelFunc
	watchDone chan struct{}
}

// NewGateway validates the storage configuration and returns an unopened
// gateway. A configuration the driver cannot use at all fails here with
// ErrStorageUnsupported; reachability problems surface later, on first use.
func NewGateway(config *Config, logger *slog.Logger, notifier ports.Notifier) (*Gateway, error) {
	if config == nil {
		config = DefaultConfig()
	}
	g := &Gateway{
		config:   config,
		logger:   logger.With(slog.String("component", "storage_gateway")),
		notifier: notifier,
	}
	if _, err := pgxpool.ParseConfig(config.DSN()); err != nil {
		g.notify(context.Background(), ports.SeverityError, "Storage is not supported in this environment")
		return nil, fmt.Errorf("%w: %v", ErrStorageUnsupported, err)
	}
	return g, nil
}

// conn opens the pool and ensures the schema exactly once.
func (g *Gateway) conn(ctx context.Context) (*Database, error) {
	g.openOnce.Do(func() {
		database, err := NewDatabase(ctx, g.config, g.logger)
		if err != nil {
			g.openErr = err
			g.notify(ctx, ports.SeverityError, "Inventory storage could not be opened")
			return
		}
		if err := g.ensureSchema(ctx, database); err != nil {
			database.Close()
			g.openErr = err
			g.notify(ctx, ports.SeverityError, "Inventory storage could not be opened")
			return
		}
		g.database = database
		g.startWatcher()
	})
	return g.database, g.openErr
}

// startWatcher pings the pool on the health check period and raises a
// notification when connectivity is lost or comes back.
func (g *Gateway) startWatcher() {
	ctx, cancel := context.WithCancel(context.Background())
	g.watchStop = cancel
	g.watchDone = make(chan struct{})

	go func() {
		defer close(g.watchDone)
		ticker := time.NewTicker(g.config.HealthCheckPeriod)
		defer ticker.Stop()

		healthy := true
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			pingCtx, pingCancel := context.WithTimeout(ctx, time.Second*5)
			err := g.database.Ping(pingCtx)
			pingCancel()

			switch {
			case err != nil && healthy:
				healthy = false
				g.logger.Warn("storage connection lost", slog.Any("error", err))
				g.notify(ctx, ports.SeverityWarning, "Storage connection lost, retrying")
			case err == nil && !healthy:
				healthy = true
				g.logger.Info("storage connection restored")
				g.notify(ctx, ports.SeverityInfo, "Storage connection restored")
			}
		}
	}()
}

// Close releases the pool if it was ever opened.
func (g *Gateway) Close() {
	if g.watchStop != nil {
		g.watchStop()
		<-g.watchDone
	}
	if g.database != nil {
		g.database.Close()
	}
}

// Ping opens the gateway if necessary and verifies connectivity.
func (g *Gateway) Ping(ctx context.Context) error {
	database, err := g.conn(ctx)
	if err != nil {
		return err
	}
	return database.Ping(ctx)
}

// Health reports pool statistics, or the open error for a gateway that never
// came up.
func (g *Gateway) Health(ctx context.Context) map[string]interface{} {
	database, err := g.conn(ctx)
	if err != nil {
		return map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		}
	}
	return database.Health(ctx)
}

// CollectionCounts reports how many documents each collection holds. The
// health surface uses it to show store occupancy next to pool statistics.
func (g *Gateway) CollectionCounts(ctx context.Context) (map[ports.Collection]int64, error) {
	database, err := g.conn(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[ports.Collection]int64, len(collections))
	for c, spec := range collections {
		query, args, err := psql.Select("COUNT(*)").From(spec.table).ToSql()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := database.QueryRow(ctx, query, args...).Scan(&n); err != nil {
			return nil, err
		}
		counts[c] = n
	}
	return counts, nil
}

func (g *Gateway) notify(ctx context.Context, severity ports.Severity, message string) {
	if g.notifier == nil {
		return
	}
	g.notifier.Notify(ctx, severity, message)
}

// GetAll returns every record of the collection in primary-key order.
func (g *Gateway) GetAll(ctx context.Context, c ports.Collection) ([]json.RawMessage, error) {
	spec, err := specFor(c)
	if err != nil {
		return nil, err
	}
	database, err := g.conn(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select("doc").From(spec.table).OrderBy(spec.keyCol).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectDocs(rows)
}

// Get returns the record stored under key, or nil when absent.
func (g *Gateway) Get(ctx context.Context, c ports.Collection, key string) (json.RawMessage, error) {
	spec, err := specFor(c)
	if err != nil {
		return nil, err
	}
	database, err := g.conn(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select("doc").From(spec.table).Where(sq.Eq{spec.keyCol: key}).ToSql()
	if err != nil {
		return nil, err
	}
	var doc json.RawMessage
	if err := database.QueryRow(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Put upserts record by its primary key and returns that key.
func (g *Gateway) Put(ctx context.Context, c ports.Collection, record any) (string, error) {
	spec, err := specFor(c)
	if err != nil {
		return "", err
	}
	database, err := g.conn(ctx)
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	key, ok := extractKey(doc, spec.keyField)
	if !ok {
		return "", fmt.Errorf("%s: %w", c, ErrMissingKey)
	}
	if _, err := database.Exec(ctx, upsertSQL(spec), key, doc); err != nil {
		return "", err
	}
	return key, nil
}

// Add inserts record, failing with ErrKeyExists when the key is taken.
func (g *Gateway) Add(ctx context.Context, c ports.Collection, record any) (string, error) {
	spec, err := specFor(c)
	if err != nil {
		return "", err
	}
	database, err := g.conn(ctx)
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	key, ok := extractKey(doc, spec.keyField)
	if !ok {
		return "", fmt.Errorf("%s: %w", c, ErrMissingKey)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s, doc) VALUES ($1, $2)", spec.table, spec.keyCol)
	if _, err := database.Exec(ctx, insert, key, doc); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", fmt.Errorf("%s %q: %w", c, key, ErrKeyExists)
		}
		return "", err
	}
	return key, nil
}

// Delete removes key from the collection. Absent keys are a no-op.
func (g *Gateway) Delete(ctx context.Context, c ports.Collection, key string) error {
	spec, err := specFor(c)
	if err != nil {
		return err
	}
	database, err := g.conn(ctx)
	if err != nil {
		return err
	}

	query, args, err := psql.Delete(spec.table).Where(sq.Eq{spec.keyCol: key}).ToSql()
	if err != nil {
		return err
	}
	_, err = database.Exec(ctx, query, args...)
	return err
}

// ClearStore removes every record of the collection.
func (g *Gateway) ClearStore(ctx context.Context, c ports.Collection) error {
	spec, err := specFor(c)
	if err != nil {
		return err
	}
	database, err := g.conn(ctx)
	if err != nil {
		return err
	}
	_, err = database.Exec(ctx, "DELETE FROM "+spec.table)
	return err
}

// GetAllByCategory reads products through the generated category column.
func (g *Gateway) GetAllByCategory(ctx context.Context, category string) ([]json.RawMessage, error) {
	database, err := g.conn(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select("doc").
		From("products").
		Where(sq.Eq{"category": category}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectDocs(rows)
}

// SaveAll reconciles the snapshot against the store in one transaction. Each
// non-nil family has its stored key set made equal to the input key set; a
// non-nil State is upserted under domain.StateKey. A nil snapshot is the
// absent-everything case of that rule: a silent no-op, no write and no
// notification. Every other call raises exactly one notification: success
// after commit, error after rollback.
func (g *Gateway) SaveAll(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return nil
	}
	database, err := g.conn(ctx)
	if err != nil {
		return err
	}

	err = database.Transaction(ctx, func(tx pgx.Tx) error {
		if snap.Products != nil {
			records := make([]any, len(snap.Products))
			for i := range snap.Products {
				records[i] = snap.Products[i]
			}
			if err := reconcileCollection(ctx, tx, ports.CollectionProducts, records); err != nil {
				return err
			}
		}
		if snap.Locations != nil {
			records := make([]any, len(snap.Locations))
			for i := range snap.Locations {
				records[i] = snap.Locations[i]
			}
			if err := reconcileCollection(ctx, tx, ports.CollectionLocations, records); err != nil {
				return err
			}
		}
		if snap.State != nil {
			if err := writeState(ctx, tx, snap.State); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		g.logger.Error("inventory save failed", slog.Any("error", err))
		g.notify(ctx, ports.SeverityError, "Inventory could not be saved")
		return err
	}

	g.logger.Info("inventory saved",
		slog.Int("products", len(snap.Products)),
		slog.Int("locations", len(snap.Locations)),
		slog.Bool("state", snap.State != nil),
	)
	g.notify(ctx, ports.SeveritySuccess, "Inventory saved")
	return nil
}

// reconcileCollection makes the stored key set of one collection equal to the
// key set of records, inside the caller's transaction.
func reconcileCollection(ctx context.Context, tx pgx.Tx, c ports.Collection, records []any) error {
	spec, err := specFor(c)
	if err != nil {
		return err
	}
	docs, err := keyedDocs(records, spec.keyField)
	if err != nil {
		return err
	}

	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT %s FROM %s", spec.keyCol, spec.table))
	if err != nil {
		return err
	}
	stored, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return err
	}

	upsert := upsertSQL(spec)
	for _, d := range docs {
		if _, err := tx.Exec(ctx, upsert, d.key, d.doc); err != nil {
			return err
		}
	}

	if stale := staleKeys(stored, docs); len(stale) > 0 {
		del := fmt.Sprintf("DELETE FROM %s WHERE %s = ANY($1)", spec.table, spec.keyCol)
		if _, err := tx.Exec(ctx, del, stale); err != nil {
			return err
		}
	}
	return nil
}

// writeState upserts the singleton state record, stamping the fixed key into
// the document so readers see it regardless of whether the caller set it.
func writeState(ctx context.Context, tx pgx.Tx, state *domain.InventoryState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	doc["key"] = json.RawMessage(fmt.Sprintf("%q", domain.StateKey))
	stamped, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	spec := collections[ports.CollectionInventoryState]
	_, err = tx.Exec(ctx, upsertSQL(spec), domain.StateKey, stamped)
	return err
}

// LoadAll reads all three families concurrently. Stored documents that no
// longer decode into the current types are skipped with a warning rather
// than failing the whole load.
func (g *Gateway) LoadAll(ctx context.Context) (*domain.Snapshot, error) {
	if _, err := g.conn(ctx); err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		Products:  []domain.Product{},
		Locations: []domain.Location{},
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		docs, err := g.GetAll(egCtx, ports.CollectionProducts)
		if err != nil {
			return err
		}
		snap.Products = decodeDocs[domain.Product](g.logger, ports.CollectionProducts, docs)
		return nil
	})
	eg.Go(func() error {
		docs, err := g.GetAll(egCtx, ports.CollectionLocations)
		if err != nil {
			return err
		}
		snap.Locations = decodeDocs[domain.Location](g.logger, ports.CollectionLocations, docs)
		return nil
	})
	eg.Go(func() error {
		doc, err := g.Get(egCtx, ports.CollectionInventoryState, domain.StateKey)
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		var state domain.InventoryState
		if err := json.Unmarshal(doc, &state); err != nil {
			g.logger.Warn("skipping undecodable state record", slog.Any("error", err))
			return nil
		}
		snap.State = &state
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func upsertSQL(spec collectionSpec) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s, doc) VALUES ($1, $2) ON CONFLICT (%s) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()",
		spec.table, spec.keyCol, spec.keyCol,
	)
}

func collectDocs(rows pgx.Rows) ([]json.RawMessage, error) {
	docs, err := pgx.CollectRows(rows, pgx.RowTo[json.RawMessage])
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}
	return docs, nil
}

func decodeDocs[T any](logger *slog.Logger, c ports.Collection, docs []json.RawMessage) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			logger.Warn("skipping undecodable record",
				slog.String("collection", string(c)),
				slog.Any("error", err),
			)
			continue
		}
		out = append(out, v)
	}
	return out
}
