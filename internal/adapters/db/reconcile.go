// internal/adapters/db/reconcile.go
package db

import (
	"encoding/json"
	"fmt"

	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// collectionSpec maps a collection to its table and primary key column. The
// key column mirrors the same-named field inside the JSON document.
type collectionSpec struct {
	table    string
	keyCol   string
	keyField string
}

var collections = map[ports.Collection]collectionSpec{
	ports.CollectionProducts:       {table: "products", keyCol: "id", keyField: "id"},
	ports.CollectionLocations:      {table: "locations", keyCol: "id", keyField: "id"},
	ports.CollectionInventoryState: {table: "inventory_state", keyCol: "key", keyField: "key"},
}

func specFor(c ports.Collection) (collectionSpec, error) {
	spec, ok := collections[c]
	if !ok {
		return collectionSpec{}, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	return spec, nil
}

// keyedDoc pairs a serialized record with its extracted primary key.
type keyedDoc struct {
	key string
	doc json.RawMessage
}

// extractKey pulls the primary key field out of a serialized document. The
// second return is false when the field is absent, null, empty, or not a
// string.
func extractKey(doc json.RawMessage, field string) (string, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(doc, &probe); err != nil {
		return "", false
	}
	raw, ok := probe[field]
	if !ok {
		return "", false
	}
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return "", false
	}
	return key, key != ""
}

// keyedDocs serializes records and extracts their keys, dropping records
// without a usable primary key. Bulk reconciliation treats those as absent
// rather than failing the batch.
func keyedDocs(records []any, field string) ([]keyedDoc, error) {
	docs := make([]keyedDoc, 0, len(records))
	for _, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		key, ok := extractKey(doc, field)
		if !ok {
			continue
		}
		docs = append(docs, keyedDoc{key: key, doc: doc})
	}
	return docs, nil
}

// staleKeys returns the stored keys that do not appear in the input set, in
// their original order.
func staleKeys(stored []string, input []keyedDoc) []string {
	present := make(map[string]struct{}, len(input))
	for _, d := range input {
		present[d.key] = struct{}{}
	}
	var stale []string
	for _, k := range stored {
		if _, ok := present[k]; !ok {
			stale = append(stale, k)
		}
	}
	return stale
}
