package ports

import (
	"context"
	"encoding/json"

	"github.com/mfriesen/barstock-be/internal/core/domain"
)

// Collection names one of the three persisted record families.
type Collection string

const (
	CollectionProducts       Collection = "products"
	CollectionLocations      Collection = "locations"
	CollectionInventoryState Collection = "inventory_state"
)

// StorageGateway is the persistence port for the three record families. It is
// deliberately schemaless: records go in and come out as raw JSON documents,
// keyed by the collection's primary key field, and the gateway performs no
// validation beyond key extraction. Typed access is the service layer's job.
//
// All failures of the underlying engine (including capacity exhaustion)
// propagate to the caller unmodified. "Not found" is not a failure: Get
// returns a nil document.
type StorageGateway interface {
	// GetAll returns every record of the collection in primary-key order.
	GetAll(ctx context.Context, c Collection) ([]json.RawMessage, error)
	// Get returns the record stored under key, or nil if absent.
	Get(ctx context.Context, c Collection, key string) (json.RawMessage, error)
	// Put upserts record by its primary key and returns that key. Malformed
	// records are stored as-is; only a missing primary key is rejected.
	Put(ctx context.Context, c Collection, record any) (string, error)
	// Add inserts record; it fails with ErrKeyExists if the key is taken.
	Add(ctx context.Context, c Collection, record any) (string, error)
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, c Collection, key string) error
	// ClearStore removes every record of the collection.
	ClearStore(ctx context.Context, c Collection) error

	// GetAllByCategory reads products through the category index.
	GetAllByCategory(ctx context.Context, category string) ([]json.RawMessage, error)

	// SaveAll reconciles the supplied snapshot against the store inside one
	// atomic transaction: for each non-nil record family the stored key set is
	// made equal to the input key set (upsert present, prune absent, skip
	// input records lacking an id); a non-nil State is upserted under the
	// fixed state key. Nil fields are left untouched.
	SaveAll(ctx context.Context, snap *domain.Snapshot) error
	// LoadAll reads all three families; State is nil when no record exists.
	LoadAll(ctx context.Context) (*domain.Snapshot, error)
}
