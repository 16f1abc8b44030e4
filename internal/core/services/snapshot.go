// internal/core/services/snapshot.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis_a "github.com/mfriesen/barstock-be/internal/adapters/redis_adapter"
	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

const snapshotCacheTTL = 2 * time.Minute

// SnapshotStore is the bulk-sync service backing the browser UI's load and
// save cycle. Reads go through the cache; a successful save invalidates it.
type SnapshotStore struct {
	gateway ports.StorageGateway
	cache   ports.CacheRepository
	logger  *slog.Logger
}

var _ ports.SnapshotService = (*SnapshotStore)(nil)

func NewSnapshotStore(gateway ports.StorageGateway, cache ports.CacheRepository, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{
		gateway: gateway,
		cache:   cache,
		logger:  logger.With(slog.String("service", "snapshot")),
	}
}

// SaveAll hands the snapshot to the gateway for atomic reconciliation and
// invalidates cached reads on success. Gateway errors pass through unchanged
// so callers can inspect the engine failure.
func (s *SnapshotStore) SaveAll(ctx context.Context, snap *domain.Snapshot) error {
	if err := s.gateway.SaveAll(ctx, snap); err != nil {
		return err
	}
	if s.cache != nil {
		redis_a.InvalidateInventoryCache(ctx, s.cache, s.logger)
	}
	return nil
}

// LoadAll returns the full store contents, served from cache when fresh.
func (s *SnapshotStore) LoadAll(ctx context.Context) (*domain.Snapshot, error) {
	if s.cache == nil {
		return s.gateway.LoadAll(ctx)
	}

	var snap domain.Snapshot
	key := redis_a.BuildKey(redis_a.PrefixSnapshot, "full")
	err := s.cache.GetOrSet(ctx, key, &snap, func() (interface{}, error) {
		loaded, err := s.gateway.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		return loaded, nil
	}, snapshotCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return &snap, nil
}
