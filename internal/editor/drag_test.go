package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragReorderDropMovesToSlot(t *testing.T) {
	// Timeline [A B C D]: grab A, drop on the slot after D.
	store, _, ids := newLoadedStore(t, 4)
	ctrl := NewDragController(store)

	require.NoError(t, ctrl.StartReorder(0))
	assert.Equal(t, OriginReorder, ctrl.Origin())

	require.NoError(t, ctrl.Drop(context.Background(), 4))
	assert.Equal(t, []string{ids[1], ids[2], ids[3], ids[0]}, itemIDs(store.Items()))
	assertDense(t, store.Items())

	assert.False(t, ctrl.Active())
	assert.Equal(t, NoHover, ctrl.HoverIndex())
}

func TestDragReorderSlotAdjustment(t *testing.T) {
	// Dropping on the slot directly after the source is a no-op: once the
	// source leaves the timeline, that slot is where it came from.
	store, repo, ids := newLoadedStore(t, 4)
	ctrl := NewDragController(store)

	require.NoError(t, ctrl.StartReorder(1))
	require.NoError(t, ctrl.Drop(context.Background(), 2))
	assert.Equal(t, ids, itemIDs(store.Items()))
	assert.Zero(t, repo.positionCalls.Load())
}

func TestDragFromLibraryInsertsWithoutAdjustment(t *testing.T) {
	store, repo, ids := newLoadedStore(t, 3)
	m := repo.SeedMedia(Media{Name: "new asset", Type: "image"})
	ctrl := NewDragController(store)

	require.NoError(t, ctrl.StartLibraryDrag(m.ID, ItemTypeMedia))
	assert.Equal(t, OriginLibrary, ctrl.Origin())
	require.NoError(t, ctrl.Drop(context.Background(), 1))

	items := store.Items()
	require.Len(t, items, 4)
	assert.Equal(t, ids[0], items[0].ID)
	assert.Equal(t, m.ID, items[1].ContentRef)
	assert.Equal(t, ids[1], items[2].ID)
	assertDense(t, items)
	assert.False(t, ctrl.Active())
}

func TestDragOverDeduplicatesHover(t *testing.T) {
	store, _, _ := newLoadedStore(t, 4)
	ctrl := NewDragController(store)
	require.NoError(t, ctrl.StartReorder(0))

	assert.True(t, ctrl.DragOver(2))
	assert.Equal(t, 2, ctrl.HoverIndex())
	// Same slot again: no state change to emit.
	assert.False(t, ctrl.DragOver(2))
	assert.True(t, ctrl.DragOver(3))
	assert.Equal(t, 3, ctrl.HoverIndex())
}

func TestDragOverSourceShowsNoIndicator(t *testing.T) {
	store, _, _ := newLoadedStore(t, 4)
	ctrl := NewDragController(store)
	require.NoError(t, ctrl.StartReorder(2))

	assert.True(t, ctrl.DragOver(1))
	assert.True(t, ctrl.DragOver(2))
	assert.Equal(t, NoHover, ctrl.HoverIndex())
	// Hovering the source repeatedly stays deduplicated.
	assert.False(t, ctrl.DragOver(2))
}

func TestDragOverWithoutSession(t *testing.T) {
	store, _, _ := newLoadedStore(t, 2)
	ctrl := NewDragController(store)
	assert.False(t, ctrl.DragOver(1))
	assert.Equal(t, NoHover, ctrl.HoverIndex())
}

func TestSingleSessionAtATime(t *testing.T) {
	store, _, _ := newLoadedStore(t, 2)
	ctrl := NewDragController(store)

	require.NoError(t, ctrl.StartReorder(0))
	assert.ErrorIs(t, ctrl.StartReorder(1), ErrDragActive)
	assert.ErrorIs(t, ctrl.StartLibraryDrag("ref", ItemTypeMedia), ErrDragActive)

	ctrl.Cancel()
	assert.NoError(t, ctrl.StartLibraryDrag("ref", ItemTypeMedia))
}

func TestDragLeaveEndsLibraryDragOnly(t *testing.T) {
	store, _, _ := newLoadedStore(t, 3)
	ctrl := NewDragController(store)

	require.NoError(t, ctrl.StartLibraryDrag("ref", ItemTypeMedia))
	assert.True(t, ctrl.DragOver(1))
	assert.True(t, ctrl.DragLeave())
	assert.False(t, ctrl.Active())

	require.NoError(t, ctrl.StartReorder(0))
	assert.True(t, ctrl.DragOver(2))
	assert.True(t, ctrl.DragLeave())
	assert.True(t, ctrl.Active(), "reorder drags survive leaving the container")
	assert.Equal(t, NoHover, ctrl.HoverIndex())
}

func TestDropResetsEvenWhenMutationFails(t *testing.T) {
	store, repo, _ := newLoadedStore(t, 3)
	repo.UpdatePositionErr = func(string) error { return errors.New("down") }
	ctrl := NewDragController(store)

	require.NoError(t, ctrl.StartReorder(0))
	err := ctrl.Drop(context.Background(), 3)
	var se *SyncError
	require.ErrorAs(t, err, &se)

	assert.False(t, ctrl.Active())
	assert.Equal(t, NoHover, ctrl.HoverIndex())
	assert.Equal(t, OriginNone, ctrl.Origin())
}

func TestDropWithoutSession(t *testing.T) {
	store, _, _ := newLoadedStore(t, 2)
	ctrl := NewDragController(store)
	assert.ErrorIs(t, ctrl.Drop(context.Background(), 0), ErrNoDrag)
}

func TestStartReorderValidatesIndex(t *testing.T) {
	store, _, _ := newLoadedStore(t, 2)
	ctrl := NewDragController(store)
	assert.ErrorIs(t, ctrl.StartReorder(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, ctrl.StartReorder(-1), ErrIndexOutOfRange)
}
