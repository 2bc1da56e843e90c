package editor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests and local
// development. It mirrors the Postgres implementation's observable
// behavior: store-assigned uuids, appends after the maximum position, and
// FetchItems ordered by position.
type MemoryRepository struct {
	mu        sync.Mutex
	playlists map[string]Playlist
	items     map[string]PlaylistItem
	media     map[string]Media
	layouts   map[string]Layout

	// UpdatePositionErr, when set, is consulted before each position
	// update; a non-nil return fails that row without applying it.
	UpdatePositionErr func(itemID string) error
	// UpdateDurationErr, when set, fails duration updates.
	UpdateDurationErr func(itemID string) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		playlists: make(map[string]Playlist),
		items:     make(map[string]PlaylistItem),
		media:     make(map[string]Media),
		layouts:   make(map[string]Layout),
	}
}

// SeedPlaylist stores a playlist, assigning an id when missing.
func (r *MemoryRepository) SeedPlaylist(p Playlist) Playlist {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.ApprovalStatus == "" {
		p.ApprovalStatus = ApprovalDraft
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.playlists[p.ID] = p
	return p
}

func (r *MemoryRepository) SeedMedia(m Media) Media {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.media[m.ID] = m
	return m
}

func (r *MemoryRepository) SeedLayout(l Layout) Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	r.layouts[l.ID] = l
	return l
}

func (r *MemoryRepository) FetchPlaylist(ctx context.Context, id string) (Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[id]
	if !ok {
		return Playlist{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepository) FetchItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PlaylistItem
	for _, it := range r.items {
		if it.PlaylistID == playlistID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) InsertItem(ctx context.Context, p InsertItemParams) (PlaylistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[p.PlaylistID]; !ok {
		return PlaylistItem{}, ErrNotFound
	}

	pos := 0
	if p.Position != nil {
		pos = *p.Position
	} else {
		for _, it := range r.items {
			if it.PlaylistID == p.PlaylistID && it.Position >= pos {
				pos = it.Position + 1
			}
		}
	}

	it := PlaylistItem{
		ID:         uuid.NewString(),
		PlaylistID: p.PlaylistID,
		ItemType:   p.ItemType,
		ContentRef: p.ContentRef,
		Position:   pos,
		Duration:   p.Duration,
		CreatedAt:  time.Now().UTC(),
	}
	r.items[it.ID] = it
	return it, nil
}

func (r *MemoryRepository) UpdateItemPosition(ctx context.Context, itemID string, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdatePositionErr != nil {
		if err := r.UpdatePositionErr(itemID); err != nil {
			return err
		}
	}
	it, ok := r.items[itemID]
	if !ok {
		return ErrNotFound
	}
	it.Position = position
	r.items[itemID] = it
	return nil
}

func (r *MemoryRepository) UpdateItemDuration(ctx context.Context, itemID string, seconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateDurationErr != nil {
		if err := r.UpdateDurationErr(itemID); err != nil {
			return err
		}
	}
	it, ok := r.items[itemID]
	if !ok {
		return ErrNotFound
	}
	it.Duration = &seconds
	r.items[itemID] = it
	return nil
}

func (r *MemoryRepository) DeleteItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return ErrNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *MemoryRepository) FetchMediaByIDs(ctx context.Context, ids []string) ([]Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Media
	for _, id := range ids {
		if m, ok := r.media[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryRepository) FetchLayoutsByIDs(ctx context.Context, ids []string) ([]Layout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Layout
	for _, id := range ids {
		if l, ok := r.layouts[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
