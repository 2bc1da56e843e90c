package editor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PositionChange is one row the remote store must end up with.
type PositionChange struct {
	ItemID   string `json:"itemId"`
	Position int    `json:"position"`
}

// syncPositions issues every update concurrently (each targets a disjoint
// row, so order does not matter) and treats the batch as succeeded only if
// all updates succeed. Any failure surfaces as a SyncError; the caller
// reloads ground truth instead of retrying individual rows, since position
// updates are idempotent and a full reload always converges.
func syncPositions(ctx context.Context, repo Repository, changes []PositionChange) error {
	if len(changes) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, ch := range changes {
		g.Go(func() error {
			return repo.UpdateItemPosition(ctx, ch.ItemID, ch.Position)
		})
	}
	if err := g.Wait(); err != nil {
		return &SyncError{Err: err}
	}
	return nil
}
