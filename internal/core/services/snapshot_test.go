// internal/core/services/snapshot_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfriesen/barstock-be/internal/core/services"
	"github.com/mfriesen/barstock-be/test/helpers"
	"github.com/mfriesen/barstock-be/test/mocks"
)

func TestSnapshotStore_SaveAll_InvalidatesCacheOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := helpers.CreateTestSnapshot(2)

	gateway := mocks.NewMockStorageGateway(ctrl)
	gateway.EXPECT().SaveAll(gomock.Any(), snap).Return(nil)

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().DeletePattern(gomock.Any(), "snapshot:*").Return(nil)
	cache.EXPECT().DeletePattern(gomock.Any(), "products:*").Return(nil)
	cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)

	svc := services.NewSnapshotStore(gateway, cache, helpers.TestLogger())
	require.NoError(t, svc.SaveAll(context.Background(), snap))
}

func TestSnapshotStore_SaveAll_GatewayErrorPassesThroughUnwrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engineErr := errors.New("could not serialize access")

	gateway := mocks.NewMockStorageGateway(ctrl)
	gateway.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(engineErr)

	// No cache calls expected: a failed save must not invalidate.
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := services.NewSnapshotStore(gateway, cache, helpers.TestLogger())
	err := svc.SaveAll(context.Background(), helpers.CreateTestSnapshot(1))

	assert.Same(t, engineErr, err)
}

func TestSnapshotStore_LoadAll_CacheMissFetchesFromGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := helpers.CreateTestSnapshot(2)

	gateway := mocks.NewMockStorageGateway(ctrl)
	gateway.EXPECT().LoadAll(gomock.Any()).Return(snap, nil)

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().
		GetOrSet(gomock.Any(), "snapshot:full", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, key string, dest any,
			fetch func() (any, error), ttl any) error {
			// Simulate a miss: invoke the fetch callback.
			_, err := fetch()
			return err
		})

	svc := services.NewSnapshotStore(gateway, cache, helpers.TestLogger())
	got, err := svc.LoadAll(context.Background())

	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestSnapshotStore_LoadAll_WithoutCacheHitsGatewayDirectly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := helpers.CreateTestSnapshot(1)

	gateway := mocks.NewMockStorageGateway(ctrl)
	gateway.EXPECT().LoadAll(gomock.Any()).Return(snap, nil)

	svc := services.NewSnapshotStore(gateway, nil, helpers.TestLogger())
	got, err := svc.LoadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, snap, got)
}
