package engine

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	snapshotv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/snapshot/v1"
	snapshotmock "github.com/muhammadchandra19/venue-ledger/internal/domain/snapshot/v1/mock"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/registry"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testFixture struct {
	mockSnapshotStore *snapshotmock.MockStore
	registry          *registry.Registry
	engine            *Engine
}

func setupTestFixture(t *testing.T, opts *Options) *testFixture {
	ctrl := gomock.NewController(t)
	f := &testFixture{
		mockSnapshotStore: snapshotmock.NewMockStore(ctrl),
		registry:          registry.NewRegistry(),
	}
	f.engine = NewEngineWithOptions(f.registry, f.mockSnapshotStore, logger.NewNop(), opts)
	return f
}

func storedSnapshot(t *testing.T) *snapshotv1.Snapshot {
	t.Helper()
	l := ledger.NewLedger("north")
	l.CreateSell("bob", "iron", 10, 5)
	return l.Snapshot()
}

func TestEngine_Restore(t *testing.T) {
	f := setupTestFixture(t, &Options{TickInterval: time.Second, SnapshotInterval: time.Second, Venues: []string{"south"}})
	f.mockSnapshotStore.EXPECT().Venues(gomock.Any()).Return([]string{"north", "empty"}, nil)
	f.mockSnapshotStore.EXPECT().Load(gomock.Any(), "north").Return(storedSnapshot(t), nil)
	f.mockSnapshotStore.EXPECT().Load(gomock.Any(), "empty").Return(nil, nil)

	require.NoError(t, f.engine.Restore(context.Background()))

	north, ok := f.registry.Ledger("north")
	require.True(t, ok)
	assert.Equal(t, 1, north.Len())
	assert.Equal(t, []string{"north", "south"}, f.registry.Venues())
	assert.Equal(t, 0, f.engine.Dirty(), "restored ledgers match their snapshots")
}

func TestEngine_RestoreFailures(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(store *snapshotmock.MockStore)
	}{
		{
			name: "listing fails",
			setup: func(store *snapshotmock.MockStore) {
				store.EXPECT().Venues(gomock.Any()).Return(nil, stderrors.New("redis down"))
			},
		},
		{
			name: "loading fails",
			setup: func(store *snapshotmock.MockStore) {
				store.EXPECT().Venues(gomock.Any()).Return([]string{"north"}, nil)
				store.EXPECT().Load(gomock.Any(), "north").Return(nil, stderrors.New("redis down"))
			},
		},
		{
			name: "snapshot is for another venue",
			setup: func(store *snapshotmock.MockStore) {
				store.EXPECT().Venues(gomock.Any()).Return([]string{"south"}, nil)
				store.EXPECT().Load(gomock.Any(), "south").Return(&snapshotv1.Snapshot{Venue: "north"}, nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t, nil)
			tc.setup(f.mockSnapshotStore)
			assert.Error(t, f.engine.Start(context.Background()))
		})
	}
}

func TestEngine_TickMatchesTouchedVenues(t *testing.T) {
	f := setupTestFixture(t, nil)
	north := f.registry.Open("north")
	north.CreateSell("bob", "iron", 10, 5)
	north.CreateBuy("alice", "iron", 12, 3, 36)

	result := f.engine.Tick(context.Background())

	assert.Equal(t, 1, result.Solves)
	assert.Equal(t, int64(1), f.engine.GetTotalSolves())
	assert.Equal(t, int64(1), f.engine.GetTicks())
	assert.Equal(t, 0, f.engine.Tick(context.Background()).Solves)
}

func TestEngine_SnapshotDirty(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.registry.Open("north").CreateSell("bob", "iron", 10, 5)
	f.registry.Open("south")
	require.Equal(t, 1, f.engine.Dirty())

	f.mockSnapshotStore.EXPECT().Store(gomock.Any(), gomock.Any()).Return(stderrors.New("redis down"))
	assert.Error(t, f.engine.SnapshotDirty(context.Background()))
	assert.Equal(t, 1, f.engine.Dirty(), "failed venue is retried")

	var stored *snapshotv1.Snapshot
	f.mockSnapshotStore.EXPECT().Store(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *snapshotv1.Snapshot) error {
			stored = s
			return nil
		})
	require.NoError(t, f.engine.SnapshotDirty(context.Background()))
	assert.Equal(t, 0, f.engine.Dirty())
	require.NotNil(t, stored)
	assert.Equal(t, "north", stored.Venue)
	assert.Len(t, stored.Orders, 1)

	require.NoError(t, f.engine.SnapshotDirty(context.Background()), "nothing changed, nothing stored")
}

func TestEngine_StartStop(t *testing.T) {
	f := setupTestFixture(t, &Options{
		TickInterval:     5 * time.Millisecond,
		SnapshotInterval: 5 * time.Millisecond,
		Venues:           []string{"north"},
	})
	f.mockSnapshotStore.EXPECT().Venues(gomock.Any()).Return(nil, nil)
	f.mockSnapshotStore.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)

	require.NoError(t, f.engine.Start(context.Background()))

	north, ok := f.registry.Ledger("north")
	require.True(t, ok)
	north.CreateSell("bob", "iron", 10, 5)
	north.CreateBuy("alice", "iron", 12, 3, 36)

	require.Eventually(t, func() bool { return f.engine.GetTotalSolves() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.engine.Stop(ctx))
	assert.Equal(t, 0, f.engine.Dirty())
}
