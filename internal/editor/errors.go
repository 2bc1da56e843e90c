package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Repository implementations when the
	// requested playlist or item does not exist.
	ErrNotFound = errors.New("editor: not found")

	// ErrNotLoaded is returned when a mutation is attempted before Load.
	ErrNotLoaded = errors.New("editor: playlist not loaded")

	ErrItemNotFound    = errors.New("editor: item not in playlist")
	ErrIndexOutOfRange = errors.New("editor: index out of range")
	ErrInvalidItemType = errors.New("editor: invalid item type")

	ErrDragActive = errors.New("editor: drag session already active")
	ErrNoDrag     = errors.New("editor: no active drag session")
)

// LoadError means the initial fetch of playlist, items or content failed.
// Callers show a blocking error state with a retry affordance; nothing is
// partially rendered.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load playlist: %v", e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SyncError means a position batch failed after an optimistic local
// mutation. Recovery is a full reload of ground truth, never a per-row
// retry.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string { return fmt.Sprintf("sync positions: %v", e.Err) }
func (e *SyncError) Unwrap() error { return e.Err }

// MutationError wraps a failed add, insert, remove or duration update. It
// is reported to the user without blocking the editor.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string { return fmt.Sprintf("%s item: %v", e.Op, e.Err) }
func (e *MutationError) Unwrap() error { return e.Err }
