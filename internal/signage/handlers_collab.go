package signage

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editor-service/internal/editor"
)

// Approvals is the external review subsystem. Only its call signature is
// owned here: resource in, granted status out.
type Approvals interface {
	Request(ctx context.Context, resourceType, resourceID string) (editor.ApprovalStatus, error)
}

// PreviewLinks mints short-lived shareable preview URLs for a resource.
type PreviewLinks interface {
	Create(ctx context.Context, resourceType, resourceID string) (PreviewLink, error)
}

type PreviewLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// passthroughApprovals accepts every request; deployments wire the real
// approval service in front of it at the gateway.
type passthroughApprovals struct{}

func (passthroughApprovals) Request(ctx context.Context, resourceType, resourceID string) (editor.ApprovalStatus, error) {
	return editor.ApprovalInReview, nil
}

type localPreviewLinks struct {
	baseURL string
	ttl     time.Duration
}

func (p localPreviewLinks) Create(ctx context.Context, resourceType, resourceID string) (PreviewLink, error) {
	base := p.baseURL
	if base == "" {
		base = "https://preview.signage.local"
	}
	ttl := p.ttl
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return PreviewLink{
		URL:       base + "/" + resourceType + "/" + resourceID + "?token=" + uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// handleRequestApproval hands the playlist to the approval subsystem and
// stores whatever status it granted.
func (s *Server) handleRequestApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	var ownerID string
	err := s.db.QueryRow(ctx, `SELECT owner_id FROM playlists WHERE id = $1`, playlistID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("approval fetch playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if ownerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	status, err := s.approvals.Request(ctx, "playlist", playlistID)
	if err != nil {
		s.log.Error().Err(err).Str("playlist", playlistID).Msg("approval request")
		writeError(w, http.StatusBadGateway, "approval service unavailable")
		return
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE playlists SET approval_status = $2 WHERE id = $1
	`, playlistID, status); err != nil {
		s.log.Error().Err(err).Msg("approval status update")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.approval", map[string]any{
		"playlistId":     playlistID,
		"approvalStatus": status,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"playlistId":     playlistID,
		"approvalStatus": status,
	})
}

func (s *Server) handleCreatePreviewLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	var ownerID string
	err := s.db.QueryRow(ctx, `SELECT owner_id FROM playlists WHERE id = $1`, playlistID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("preview fetch playlist")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if ownerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	link, err := s.previews.Create(ctx, "playlist", playlistID)
	if err != nil {
		s.log.Error().Err(err).Str("playlist", playlistID).Msg("create preview link")
		writeError(w, http.StatusBadGateway, "preview service unavailable")
		return
	}

	writeJSON(w, http.StatusCreated, link)
}
