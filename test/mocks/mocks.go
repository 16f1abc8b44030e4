// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/gateway.go -destination=gateway_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/stores.go -destination=stores_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/notifier.go -destination=notifier_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/adapters/storage/s3.go -destination=storage_client_mock.go -package=mocks StorageClient
