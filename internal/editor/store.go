package editor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Store holds the authoritative in-memory ordered item list for one open
// playlist editor instance and keeps positions dense across mutations.
//
// A Store is scoped to a single editor session; the remote store behind the
// Repository is the only shared resource. Two editors mutating the same
// playlist are not coordinated here: the remote store is last-write-wins.
type Store struct {
	repo Repository
	log  zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	playlist Playlist
	items    []PlaylistItem
	saving   bool
}

func NewStore(repo Repository, log zerolog.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// Load fetches playlist metadata and all items ordered by position, then
// resolves content snapshots with one batched lookup per item type. On any
// failure it returns a LoadError and leaves the store unloaded; nothing is
// partially applied.
func (s *Store) Load(ctx context.Context, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, playlistID)
}

func (s *Store) load(ctx context.Context, playlistID string) error {
	pl, err := s.repo.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return &LoadError{Err: err}
	}
	items, err := s.repo.FetchItems(ctx, playlistID)
	if err != nil {
		return &LoadError{Err: err}
	}
	if err := s.resolveContent(ctx, items); err != nil {
		return &LoadError{Err: err}
	}
	s.playlist = pl
	s.items = items
	s.loaded = true
	return nil
}

// resolveContent joins content snapshots onto items, one batched lookup per
// item type.
func (s *Store) resolveContent(ctx context.Context, items []PlaylistItem) error {
	var mediaIDs, layoutIDs []string
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.ContentRef] {
			continue
		}
		seen[it.ContentRef] = true
		switch it.ItemType {
		case ItemTypeMedia:
			mediaIDs = append(mediaIDs, it.ContentRef)
		case ItemTypeLayout:
			layoutIDs = append(layoutIDs, it.ContentRef)
		}
	}

	mediaByID := make(map[string]Media, len(mediaIDs))
	if len(mediaIDs) > 0 {
		media, err := s.repo.FetchMediaByIDs(ctx, mediaIDs)
		if err != nil {
			return err
		}
		for _, m := range media {
			mediaByID[m.ID] = m
		}
	}
	layoutByID := make(map[string]Layout, len(layoutIDs))
	if len(layoutIDs) > 0 {
		layouts, err := s.repo.FetchLayoutsByIDs(ctx, layoutIDs)
		if err != nil {
			return err
		}
		for _, l := range layouts {
			layoutByID[l.ID] = l
		}
	}

	for i := range items {
		switch items[i].ItemType {
		case ItemTypeMedia:
			if m, ok := mediaByID[items[i].ContentRef]; ok {
				c := MediaContent(m)
				items[i].Content = &c
			}
		case ItemTypeLayout:
			if l, ok := layoutByID[items[i].ContentRef]; ok {
				c := LayoutContent(l)
				items[i].Content = &c
			}
		}
	}
	return nil
}

// Playlist returns the loaded playlist metadata.
func (s *Store) Playlist() Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlist
}

// Items returns a copy of the current ordered item list.
func (s *Store) Items() []PlaylistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PlaylistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IndexOf returns the index of the item with the given id, or -1.
func (s *Store) IndexOf(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(itemID)
}

// Saving reports whether a position batch is in flight.
func (s *Store) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *Store) indexOf(itemID string) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// AddItem appends a new item after the last position. The remote insert
// happens first; on failure the local list is left unchanged.
func (s *Store) AddItem(ctx context.Context, contentRef string, itemType ItemType) (PlaylistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return PlaylistItem{}, ErrNotLoaded
	}
	if !itemType.Valid() {
		return PlaylistItem{}, &MutationError{Op: "add", Err: ErrInvalidItemType}
	}

	created, err := s.repo.InsertItem(ctx, InsertItemParams{
		PlaylistID: s.playlist.ID,
		ItemType:   itemType,
		ContentRef: contentRef,
	})
	if err != nil {
		return PlaylistItem{}, &MutationError{Op: "add", Err: err}
	}
	s.attachContent(ctx, &created)
	s.items = append(s.items, created)
	return created, nil
}

// InsertAt places a new item at the given index, shifting every item at or
// after it up by one both locally and remotely. Used for drops from the
// library panel onto a specific timeline slot.
func (s *Store) InsertAt(ctx context.Context, index int, contentRef string, itemType ItemType) (PlaylistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return PlaylistItem{}, ErrNotLoaded
	}
	if !itemType.Valid() {
		return PlaylistItem{}, &MutationError{Op: "insert", Err: ErrInvalidItemType}
	}
	if index < 0 || index > len(s.items) {
		return PlaylistItem{}, &MutationError{Op: "insert", Err: ErrIndexOutOfRange}
	}

	shifts := make([]PositionChange, 0, len(s.items)-index)
	for i := index; i < len(s.items); i++ {
		shifts = append(shifts, PositionChange{ItemID: s.items[i].ID, Position: i + 1})
	}
	s.saving = true
	defer func() { s.saving = false }()
	if err := syncPositions(ctx, s.repo, shifts); err != nil {
		s.resync(ctx)
		return PlaylistItem{}, err
	}

	pos := index
	created, err := s.repo.InsertItem(ctx, InsertItemParams{
		PlaylistID: s.playlist.ID,
		ItemType:   itemType,
		ContentRef: contentRef,
		Position:   &pos,
	})
	if err != nil {
		// The shift already moved remote rows; reload ground truth.
		s.resync(ctx)
		return PlaylistItem{}, &MutationError{Op: "insert", Err: err}
	}
	s.attachContent(ctx, &created)

	s.items = append(s.items, PlaylistItem{})
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = created
	s.renumber()
	return created, nil
}

// RemoveItem deletes remotely first, removes locally, then renumbers the
// remaining items so positions stay dense and persists the renumbering.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return &MutationError{Op: "remove", Err: ErrItemNotFound}
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return &MutationError{Op: "remove", Err: err}
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	s.saving = true
	defer func() { s.saving = false }()
	if err := syncPositions(ctx, s.repo, s.renumber()); err != nil {
		s.resync(ctx)
		return err
	}
	return nil
}

// Reorder moves the item at sourceIndex to rest at targetIndex. It is a
// no-op when the indices are equal and issues no remote calls in that case.
// The move is optimistic: local state changes immediately, every changed
// position is persisted, and a failed batch is resolved by reloading ground
// truth and discarding the optimistic state.
func (s *Store) Reorder(ctx context.Context, sourceIndex, targetIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if sourceIndex < 0 || sourceIndex >= len(s.items) {
		return ErrIndexOutOfRange
	}
	if targetIndex < 0 || targetIndex >= len(s.items) {
		return ErrIndexOutOfRange
	}
	if sourceIndex == targetIndex {
		return nil
	}

	moved := s.items[sourceIndex]
	rest := append(s.items[:sourceIndex], s.items[sourceIndex+1:]...)
	rest = append(rest, PlaylistItem{})
	copy(rest[targetIndex+1:], rest[targetIndex:])
	rest[targetIndex] = moved
	s.items = rest

	s.saving = true
	defer func() { s.saving = false }()
	if err := syncPositions(ctx, s.repo, s.renumber()); err != nil {
		s.resync(ctx)
		return err
	}
	return nil
}

// UpdateDuration clamps the override to [MinItemDuration, MaxItemDuration]
// and applies it. Persistence failure is non-blocking: the local edit is
// kept and the failure is only logged.
func (s *Store) UpdateDuration(ctx context.Context, itemID string, seconds int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return 0, ErrNotLoaded
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return 0, &MutationError{Op: "duration", Err: ErrItemNotFound}
	}

	if seconds < MinItemDuration {
		seconds = MinItemDuration
	}
	if seconds > MaxItemDuration {
		seconds = MaxItemDuration
	}
	if err := s.repo.UpdateItemDuration(ctx, itemID, seconds); err != nil {
		s.log.Warn().Err(err).Str("item", itemID).Msg("duration update not persisted")
	}
	d := seconds
	s.items[idx].Duration = &d
	return seconds, nil
}

// renumber makes local positions dense and returns the changes that must be
// persisted.
func (s *Store) renumber() []PositionChange {
	var changes []PositionChange
	for i := range s.items {
		if s.items[i].Position != i {
			s.items[i].Position = i
			changes = append(changes, PositionChange{ItemID: s.items[i].ID, Position: i})
		}
	}
	return changes
}

// resync discards optimistic state and reloads ground truth after a failed
// batch. A failed reload is only logged; the caller already holds the
// original error and the next Load converges.
func (s *Store) resync(ctx context.Context) {
	if err := s.load(ctx, s.playlist.ID); err != nil {
		s.log.Warn().Err(err).Str("playlist", s.playlist.ID).Msg("resync after failed sync")
	}
}

// attachContent resolves the snapshot for a freshly inserted item.
// Best-effort: an item without a snapshot still renders with its ref.
func (s *Store) attachContent(ctx context.Context, it *PlaylistItem) {
	tmp := []PlaylistItem{*it}
	if err := s.resolveContent(ctx, tmp); err != nil {
		s.log.Warn().Err(err).Str("item", it.ID).Msg("content snapshot not resolved")
		return
	}
	it.Content = tmp[0].Content
}
