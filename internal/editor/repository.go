package editor

import (
	"context"
)

// InsertItemParams describes a new item row. A nil Position appends after
// the playlist's current maximum position; an explicit Position inserts at
// that exact value (the Store has already shifted the neighbours).
type InsertItemParams struct {
	PlaylistID string
	ItemType   ItemType
	ContentRef string
	Position   *int
	Duration   *int
}

// Repository is the remote ordered store the editor mirrors. It is passed
// in explicitly so the Store can run against Postgres in the service and
// against an in-memory fake in tests.
//
// Implementations assign item ids on insert and return FetchItems rows
// ordered by position.
type Repository interface {
	FetchPlaylist(ctx context.Context, id string) (Playlist, error)
	FetchItems(ctx context.Context, playlistID string) ([]PlaylistItem, error)
	InsertItem(ctx context.Context, p InsertItemParams) (PlaylistItem, error)
	UpdateItemPosition(ctx context.Context, itemID string, position int) error
	UpdateItemDuration(ctx context.Context, itemID string, seconds int) error
	DeleteItem(ctx context.Context, itemID string) error

	// Batched content lookups used to resolve snapshots without N+1 fetches.
	FetchMediaByIDs(ctx context.Context, ids []string) ([]Media, error)
	FetchLayoutsByIDs(ctx context.Context, ids []string) ([]Layout, error)
}
