package signage

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"editor-service/internal/editor"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, name, description, shuffle, loop, default_duration, approval_status, created_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT 200
	`, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("list playlists")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	playlists := []editor.Playlist{}
	for rows.Next() {
		var pl editor.Playlist
		if err := rows.Scan(
			&pl.ID,
			&pl.OwnerID,
			&pl.Name,
			&pl.Description,
			&pl.Shuffle,
			&pl.Loop,
			&pl.DefaultDuration,
			&pl.ApprovalStatus,
			&pl.CreatedAt,
		); err != nil {
			s.log.Error().Err(err).Msg("list playlists scan")
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		s.log.Error().Err(err).Msg("list playlists rows")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := r.Header.Get("X-User-Id")
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		Shuffle         *bool  `json:"shuffle"`
		Loop            *bool  `json:"loop"`
		DefaultDuration *int   `json:"defaultDuration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Description = strings.TrimSpace(body.Description)

	if body.Name == "" || len(body.Name) > 200 {
		writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
		return
	}
	if len(body.Description) > 1000 {
		writeError(w, http.StatusBadRequest, "description is too long")
		return
	}

	shuffle := false
	if body.Shuffle != nil {
		shuffle = *body.Shuffle
	}
	loop := true
	if body.Loop != nil {
		loop = *body.Loop
	}
	defaultDuration := editor.DefaultItemDuration
	if body.DefaultDuration != nil {
		defaultDuration = clampDuration(*body.DefaultDuration)
	}

	var pl editor.Playlist
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlists (owner_id, name, description, shuffle, loop, default_duration)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, owner_id, name, description, shuffle, loop, default_duration, approval_status, created_at
	`, ownerID, body.Name, body.Description, shuffle, loop, defaultDuration).Scan(
		&pl.ID,
		&pl.OwnerID,
		&pl.Name,
		&pl.Description,
		&pl.Shuffle,
		&pl.Loop,
		&pl.DefaultDuration,
		&pl.ApprovalStatus,
		&pl.CreatedAt,
	)
	if err != nil {
		s.log.Error().Err(err).Msg("create playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.created", map[string]any{"playlist": pl})

	writeJSON(w, http.StatusCreated, pl)
}

// handleGetPlaylist returns playlist metadata plus its items with content
// snapshots resolved, in position order.
func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	store := editor.NewStore(s.repo, s.log)
	if err := store.Load(ctx, playlistID); err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		s.log.Error().Err(err).Str("playlist", playlistID).Msg("load playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playlist": store.Playlist(),
		"items":    store.Items(),
	})
}

// handlePatchPlaylist updates playlist metadata. Only the owner can update.
func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var body struct {
		Name            *string `json:"name"`
		Description     *string `json:"description"`
		Shuffle         *bool   `json:"shuffle"`
		Loop            *bool   `json:"loop"`
		DefaultDuration *int    `json:"defaultDuration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		s.log.Error().Err(err).Msg("patch playlist begin tx")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback(ctx)

	var existing editor.Playlist
	err = tx.QueryRow(ctx, `
		SELECT id, owner_id, name, description, shuffle, loop, default_duration, approval_status, created_at
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(
		&existing.ID,
		&existing.OwnerID,
		&existing.Name,
		&existing.Description,
		&existing.Shuffle,
		&existing.Loop,
		&existing.DefaultDuration,
		&existing.ApprovalStatus,
		&existing.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("patch playlist fetch")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if existing.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" || len(name) > 200 {
			writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
			return
		}
		existing.Name = name
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		if len(desc) > 1000 {
			writeError(w, http.StatusBadRequest, "description is too long")
			return
		}
		existing.Description = desc
	}
	if body.Shuffle != nil {
		existing.Shuffle = *body.Shuffle
	}
	if body.Loop != nil {
		existing.Loop = *body.Loop
	}
	if body.DefaultDuration != nil {
		existing.DefaultDuration = clampDuration(*body.DefaultDuration)
	}

	_, err = tx.Exec(ctx, `
		UPDATE playlists
		SET name = $2,
			description = $3,
			shuffle = $4,
			loop = $5,
			default_duration = $6
		WHERE id = $1
	`, existing.ID, existing.Name, existing.Description, existing.Shuffle, existing.Loop, existing.DefaultDuration)
	if err != nil {
		s.log.Error().Err(err).Msg("patch playlist update")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error().Err(err).Msg("patch playlist commit")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.updated", map[string]any{"playlist": existing})

	writeJSON(w, http.StatusOK, existing)
}

// handleDeletePlaylist deletes a playlist and its items. Owner only.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var ownerID string
	err := s.db.QueryRow(ctx, `SELECT owner_id FROM playlists WHERE id = $1`, playlistID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("delete playlist fetch")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if ownerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, playlistID); err != nil {
		s.log.Error().Err(err).Msg("delete playlist exec")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.deleted", map[string]any{"playlistId": playlistID})

	w.WriteHeader(http.StatusNoContent)
}

func clampDuration(seconds int) int {
	if seconds < editor.MinItemDuration {
		return editor.MinItemDuration
	}
	if seconds > editor.MaxItemDuration {
		return editor.MaxItemDuration
	}
	return seconds
}
