package editor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo wraps the memory fake and counts remote position updates.
type countingRepo struct {
	*MemoryRepository
	positionCalls atomic.Int32
}

func (r *countingRepo) UpdateItemPosition(ctx context.Context, itemID string, position int) error {
	r.positionCalls.Add(1)
	return r.MemoryRepository.UpdateItemPosition(ctx, itemID, position)
}

// newLoadedStore seeds a playlist with n media items and returns a loaded
// store plus the item ids in timeline order.
func newLoadedStore(t *testing.T, n int) (*Store, *countingRepo, []string) {
	t.Helper()
	repo := &countingRepo{MemoryRepository: NewMemoryRepository()}
	pl := repo.SeedPlaylist(Playlist{Name: "Lobby screens", OwnerID: "user-1", DefaultDuration: 10})

	store := NewStore(repo, zerolog.Nop())
	require.NoError(t, store.Load(context.Background(), pl.ID))

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		m := repo.SeedMedia(Media{Name: "asset", Type: "image"})
		it, err := store.AddItem(context.Background(), m.ID, ItemTypeMedia)
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}
	repo.positionCalls.Store(0)
	return store, repo, ids
}

func assertDense(t *testing.T, items []PlaylistItem) {
	t.Helper()
	for i, it := range items {
		assert.Equalf(t, i, it.Position, "item %d (%s) has position %d", i, it.ID, it.Position)
	}
}

func itemIDs(items []PlaylistItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestAddItemAppendsInCallOrder(t *testing.T) {
	// Empty playlist; three sequential adds end at positions 0, 1, 2.
	repo := NewMemoryRepository()
	pl := repo.SeedPlaylist(Playlist{Name: "empty"})
	store := NewStore(repo, zerolog.Nop())
	require.NoError(t, store.Load(context.Background(), pl.ID))

	m := repo.SeedMedia(Media{Name: "clip", Type: "video", Duration: 42})
	for i := 0; i < 3; i++ {
		it, err := store.AddItem(context.Background(), m.ID, ItemTypeMedia)
		require.NoError(t, err)
		assert.Equal(t, i, it.Position)
	}
	assertDense(t, store.Items())
}

func TestLoadResolvesContentSnapshots(t *testing.T) {
	repo := NewMemoryRepository()
	pl := repo.SeedPlaylist(Playlist{Name: "mixed"})
	m := repo.SeedMedia(Media{Name: "promo.mp4", Type: "video", Duration: 30})
	l := repo.SeedLayout(Layout{Name: "menu board", Orientation: "landscape"})

	store := NewStore(repo, zerolog.Nop())
	require.NoError(t, store.Load(context.Background(), pl.ID))
	_, err := store.AddItem(context.Background(), m.ID, ItemTypeMedia)
	require.NoError(t, err)
	_, err = store.AddItem(context.Background(), l.ID, ItemTypeLayout)
	require.NoError(t, err)

	// Fresh store, fresh load: snapshots must be joined in.
	reloaded := NewStore(repo, zerolog.Nop())
	require.NoError(t, reloaded.Load(context.Background(), pl.ID))
	items := reloaded.Items()
	require.Len(t, items, 2)

	require.NotNil(t, items[0].Content)
	assert.Equal(t, ItemTypeMedia, items[0].Content.Kind)
	assert.Equal(t, "promo.mp4", items[0].Content.Name())
	assert.Equal(t, 30, items[0].EffectiveDuration(reloaded.Playlist().DefaultDuration))

	require.NotNil(t, items[1].Content)
	assert.Equal(t, ItemTypeLayout, items[1].Content.Kind)
	require.NotNil(t, items[1].Content.Layout)
	assert.Nil(t, items[1].Content.Media)
}

func TestLoadFailureIsLoadError(t *testing.T) {
	store := NewStore(NewMemoryRepository(), zerolog.Nop())
	err := store.Load(context.Background(), "missing")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderMovesItem(t *testing.T) {
	tests := []struct {
		name      string
		source    int
		target    int
		wantOrder []int // indices into the original [A B C D]
	}{
		{"first to last", 0, 3, []int{1, 2, 3, 0}},
		{"last to first", 3, 0, []int{3, 0, 1, 2}},
		{"middle back", 2, 0, []int{2, 0, 1, 3}},
		{"middle forward", 1, 2, []int{0, 2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, ids := newLoadedStore(t, 4)
			require.NoError(t, store.Reorder(context.Background(), tt.source, tt.target))

			want := make([]string, len(tt.wantOrder))
			for i, orig := range tt.wantOrder {
				want[i] = ids[orig]
			}
			items := store.Items()
			assert.Equal(t, want, itemIDs(items))
			assertDense(t, items)
		})
	}
}

func TestReorderSameIndexIsNoop(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 4)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Reorder(context.Background(), i, i))
	}
	assert.Equal(t, ids, itemIDs(store.Items()))
	assert.Zero(t, repo.positionCalls.Load(), "no-op reorder must not touch the remote store")
}

func TestReorderPersistsOnlyChangedPositions(t *testing.T) {
	store, repo, _ := newLoadedStore(t, 5)
	// Moving index 3 to 4 changes exactly two rows.
	require.NoError(t, store.Reorder(context.Background(), 3, 4))
	assert.Equal(t, int32(2), repo.positionCalls.Load())
}

func TestReorderOutOfRange(t *testing.T) {
	store, _, _ := newLoadedStore(t, 3)
	assert.ErrorIs(t, store.Reorder(context.Background(), -1, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, store.Reorder(context.Background(), 0, 3), ErrIndexOutOfRange)
}

func TestReorderSyncFailureReloadsGroundTruth(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 3)
	syncDown := errors.New("connection refused")
	repo.UpdatePositionErr = func(string) error { return syncDown }

	err := store.Reorder(context.Background(), 0, 2)
	var se *SyncError
	require.ErrorAs(t, err, &se)

	// Optimistic state is discarded; the reload restored the last
	// known-good remote ordering.
	repo.UpdatePositionErr = nil
	items := store.Items()
	assert.Equal(t, ids, itemIDs(items))
	assertDense(t, items)
}

func TestRemoveItemRenumbers(t *testing.T) {
	store, _, ids := newLoadedStore(t, 3)
	require.NoError(t, store.RemoveItem(context.Background(), ids[1]))

	items := store.Items()
	assert.Equal(t, []string{ids[0], ids[2]}, itemIDs(items))
	assertDense(t, items)
}

func TestRemoveFailureLeavesLocalState(t *testing.T) {
	store, _, ids := newLoadedStore(t, 3)
	err := store.RemoveItem(context.Background(), "no-such-item")
	var me *MutationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ids, itemIDs(store.Items()))
}

func TestInsertAtShiftsFollowers(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 3)
	m := repo.SeedMedia(Media{Name: "inserted", Type: "image"})

	created, err := store.InsertAt(context.Background(), 1, m.ID, ItemTypeMedia)
	require.NoError(t, err)

	items := store.Items()
	assert.Equal(t, []string{ids[0], created.ID, ids[1], ids[2]}, itemIDs(items))
	assertDense(t, items)
}

func TestInsertThenRemoveRoundTrips(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 4)
	m := repo.SeedMedia(Media{Name: "transient", Type: "image"})

	created, err := store.InsertAt(context.Background(), 2, m.ID, ItemTypeMedia)
	require.NoError(t, err)
	require.NoError(t, store.RemoveItem(context.Background(), created.ID))

	items := store.Items()
	assert.Equal(t, ids, itemIDs(items))
	assertDense(t, items)

	// Remote agrees after the round trip.
	fresh := NewStore(repo, zerolog.Nop())
	require.NoError(t, fresh.Load(context.Background(), store.Playlist().ID))
	assert.Equal(t, ids, itemIDs(fresh.Items()))
	assertDense(t, fresh.Items())
}

func TestUpdateDurationClamps(t *testing.T) {
	store, _, ids := newLoadedStore(t, 1)

	got, err := store.UpdateDuration(context.Background(), ids[0], 9000)
	require.NoError(t, err)
	assert.Equal(t, MaxItemDuration, got)

	got, err = store.UpdateDuration(context.Background(), ids[0], 0)
	require.NoError(t, err)
	assert.Equal(t, MinItemDuration, got)

	it := store.Items()[0]
	require.NotNil(t, it.Duration)
	assert.Equal(t, MinItemDuration, *it.Duration)
}

func TestUpdateDurationFailureIsNonBlocking(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 1)
	repo.UpdateDurationErr = func(string) error { return errors.New("timeout") }

	got, err := store.UpdateDuration(context.Background(), ids[0], 25)
	require.NoError(t, err, "duration persistence failures are logged, not surfaced")
	assert.Equal(t, 25, got)

	it := store.Items()[0]
	require.NotNil(t, it.Duration)
	assert.Equal(t, 25, *it.Duration)
}

func TestMutationsRequireLoad(t *testing.T) {
	store := NewStore(NewMemoryRepository(), zerolog.Nop())
	_, err := store.AddItem(context.Background(), "ref", ItemTypeMedia)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, store.Reorder(context.Background(), 0, 1), ErrNotLoaded)
	assert.ErrorIs(t, store.RemoveItem(context.Background(), "x"), ErrNotLoaded)
}

func TestDensityAfterMixedOperations(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 5)
	ctx := context.Background()

	require.NoError(t, store.Reorder(ctx, 4, 1))
	require.NoError(t, store.RemoveItem(ctx, ids[0]))
	m := repo.SeedMedia(Media{Name: "late", Type: "video", Duration: 15})
	_, err := store.InsertAt(ctx, 3, m.ID, ItemTypeMedia)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, m.ID, ItemTypeMedia)
	require.NoError(t, err)
	require.NoError(t, store.Reorder(ctx, 0, 5))

	items := store.Items()
	require.Len(t, items, 6)
	assertDense(t, items)

	fresh := NewStore(repo, zerolog.Nop())
	require.NoError(t, fresh.Load(ctx, store.Playlist().ID))
	assert.Equal(t, itemIDs(items), itemIDs(fresh.Items()))
	assertDense(t, fresh.Items())
}
