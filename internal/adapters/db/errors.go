// internal/adapters/db/errors.go
package db

import "errors"

var (
	// ErrStorageUnsupported is returned by NewGateway when the configured
	// storage backend cannot be used at all (unparseable DSN, missing
	// driver support). The gateway is unusable after this.
	ErrStorageUnsupported = errors.New("storage not supported")

	// ErrKeyExists is returned by Add when a record with the same primary
	// key is already stored.
	ErrKeyExists = errors.New("record with this key already exists")

	// ErrMissingKey is returned when a record offered to Put or Add has no
	// primary key value.
	ErrMissingKey = errors.New("record has no primary key")

	// ErrUnknownCollection is returned for collection names the gateway
	// does not manage.
	ErrUnknownCollection = errors.New("unknown collection")
)
