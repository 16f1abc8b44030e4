package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Location is a venue holding inventory. Counters, areas and inventory
// entries are owned exclusively by their parent and are persisted as part of
// the Location document: rewriting or deleting a Location rewrites or deletes
// everything nested under it.
type Location struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Address  string    `json:"address,omitempty"`
	Counters []Counter `json:"counters"`
}

// Counter is a serving station within a Location.
type Counter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Areas       []Area `json:"areas"`
}

// Area is a storage section within a Counter (shelf, fridge, cellar bay).
type Area struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	DisplayOrder   *int             `json:"displayOrder,omitempty"`
	InventoryItems []InventoryEntry `json:"inventoryItems"`
}

// InventoryEntry records start and end counts for one product within an Area
// over a counting period. ProductID is a soft reference: the product
// definition may be missing, which the consumption calculator tolerates.
type InventoryEntry struct {
	ProductID       string  `json:"productId"`
	StartCrates     float64 `json:"startCrates"`
	StartBottles    float64 `json:"startBottles"`
	StartOpenVolume float64 `json:"startOpenVolume"` // ml
	EndCrates       float64 `json:"endCrates"`
	EndBottles      float64 `json:"endBottles"`
	EndOpenVolume   float64 `json:"endOpenVolume"` // ml
}

// Validate performs domain validation on the location tree.
func (l *Location) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	for i := range l.Counters {
		if l.Counters[i].Name == "" {
			return fmt.Errorf("counter %d: name is required", i)
		}
		for j := range l.Counters[i].Areas {
			if l.Counters[i].Areas[j].Name == "" {
				return fmt.Errorf("counter %d, area %d: name is required", i, j)
			}
		}
	}
	return nil
}

// PrepareForStorage assigns ids to the location and any nested counters or
// areas that lack one.
func (l *Location) PrepareForStorage() {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	for i := range l.Counters {
		if l.Counters[i].ID == "" {
			l.Counters[i].ID = uuid.NewString()
		}
		for j := range l.Counters[i].Areas {
			if l.Counters[i].Areas[j].ID == "" {
				l.Counters[i].Areas[j].ID = uuid.NewString()
			}
		}
	}
}
