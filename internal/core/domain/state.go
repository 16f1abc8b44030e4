package domain

// StateKey is the fixed primary key under which the singleton InventoryState
// record is stored. At most one record of this kind exists; every write
// targets this key.
const StateKey = "currentState"

// InventoryState is the singleton snapshot of the whole application: the full
// product and location sets plus a dirty flag the UI uses to show pending
// changes. The persistence gateway attaches StateKey before writing; the
// value itself does not carry the key.
type InventoryState struct {
	Products        []Product  `json:"products"`
	Locations       []Location `json:"locations"`
	UnsyncedChanges bool       `json:"unsyncedChanges"`
}

// Snapshot is the payload of a bulk save and the result of a bulk load.
// Nil fields mean "leave that record family untouched"; a non-nil empty slice
// reconciles the family toward empty.
type Snapshot struct {
	Products  []Product       `json:"products"`
	Locations []Location      `json:"locations"`
	State     *InventoryState `json:"state,omitempty"`
}
