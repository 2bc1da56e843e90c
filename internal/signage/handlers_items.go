package signage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"editor-service/internal/editor"
)

// loadEditorStore loads the playlist into a fresh editor store and applies
// the owner check. Writes the error response itself when it returns false.
func (s *Server) loadEditorStore(w http.ResponseWriter, r *http.Request) (*editor.Store, string, bool) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return nil, "", false
	}

	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return nil, "", false
	}

	store := editor.NewStore(s.repo, s.log)
	if err := store.Load(ctx, playlistID); err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return nil, "", false
		}
		s.log.Error().Err(err).Str("playlist", playlistID).Msg("load playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return nil, "", false
	}

	if store.Playlist().OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, "", false
	}
	return store, playlistID, true
}

// writeMutationError maps editor error kinds to HTTP responses.
func (s *Server) writeMutationError(w http.ResponseWriter, playlistID string, err error) {
	var syncErr *editor.SyncError
	if errors.As(err, &syncErr) {
		// Optimistic state was discarded and ground truth reloaded; the
		// client refetches instead of retrying.
		s.log.Warn().Err(err).Str("playlist", playlistID).Msg("position sync failed")
		writeError(w, http.StatusBadGateway, "position sync failed, playlist reloaded")
		return
	}
	if errors.Is(err, editor.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if errors.Is(err, editor.ErrIndexOutOfRange) {
		writeError(w, http.StatusBadRequest, "index out of range")
		return
	}
	if errors.Is(err, editor.ErrInvalidItemType) {
		writeError(w, http.StatusBadRequest, `itemType must be "media" or "layout"`)
		return
	}
	s.log.Error().Err(err).Str("playlist", playlistID).Msg("item mutation")
	writeError(w, http.StatusInternalServerError, "database error")
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	store, playlistID, ok := s.loadEditorStore(w, r)
	if !ok {
		return
	}

	var body struct {
		ContentRef string          `json:"contentRef"`
		ItemType   editor.ItemType `json:"itemType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ContentRef == "" {
		writeError(w, http.StatusBadRequest, "missing contentRef")
		return
	}

	item, err := store.AddItem(r.Context(), body.ContentRef, body.ItemType)
	if err != nil {
		s.writeMutationError(w, playlistID, err)
		return
	}

	s.publishEvent(r.Context(), "item.added", map[string]any{
		"playlistId": playlistID,
		"item":       item,
	})

	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleInsertItem(w http.ResponseWriter, r *http.Request) {
	store, playlistID, ok := s.loadEditorStore(w, r)
	if !ok {
		return
	}

	var body struct {
		Index      int             `json:"index"`
		ContentRef string          `json:"contentRef"`
		ItemType   editor.ItemType `json:"itemType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ContentRef == "" {
		writeError(w, http.StatusBadRequest, "missing contentRef")
		return
	}

	item, err := store.InsertAt(r.Context(), body.Index, body.ContentRef, body.ItemType)
	if err != nil {
		s.writeMutationError(w, playlistID, err)
		return
	}

	s.publishEvent(r.Context(), "item.added", map[string]any{
		"playlistId": playlistID,
		"item":       item,
	})

	writeJSON(w, http.StatusCreated, item)
}

// handleMoveItem relocates an item to a target index within its playlist.
func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	store, playlistID, ok := s.loadEditorStore(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	var body struct {
		TargetIndex int `json:"targetIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	source := store.IndexOf(itemID)
	if source < 0 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	target := body.TargetIndex
	if target < 0 {
		writeError(w, http.StatusBadRequest, "targetIndex must be >= 0")
		return
	}
	if n := store.Len(); target >= n {
		target = n - 1
	}

	if err := store.Reorder(r.Context(), source, target); err != nil {
		s.writeMutationError(w, playlistID, err)
		return
	}

	s.publishEvent(r.Context(), "item.moved", map[string]any{
		"playlistId": playlistID,
		"itemId":     itemID,
		"from":       source,
		"to":         target,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"itemId": itemID,
		"from":   source,
		"to":     target,
	})
}

func (s *Server) handleUpdateItemDuration(w http.ResponseWriter, r *http.Request) {
	store, playlistID, ok := s.loadEditorStore(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	var body struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	applied, err := store.UpdateDuration(r.Context(), itemID, body.Seconds)
	if err != nil {
		s.writeMutationError(w, playlistID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"itemId":   itemID,
		"duration": applied,
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	store, playlistID, ok := s.loadEditorStore(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	pos := store.IndexOf(itemID)
	if err := store.RemoveItem(r.Context(), itemID); err != nil {
		s.writeMutationError(w, playlistID, err)
		return
	}

	s.publishEvent(r.Context(), "item.removed", map[string]any{
		"playlistId": playlistID,
		"itemId":     itemID,
		"position":   pos,
	})

	w.WriteHeader(http.StatusNoContent)
}
