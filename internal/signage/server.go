package signage

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"editor-service/internal/editor"
)

// Server is the playlist editor service: playlist and item CRUD, the media
// library window, collaborator call-outs and the WebSocket editor session.
type Server struct {
	db  DB
	rdb *redis.Client
	log zerolog.Logger

	repo      editor.Repository
	approvals Approvals
	previews  PreviewLinks

	mediaWindow editor.Window
}

func NewServer(db DB, rdb *redis.Client, log zerolog.Logger) *Server {
	return &Server{
		db:        db,
		rdb:       rdb,
		log:       log,
		repo:      NewRepository(db),
		approvals: passthroughApprovals{},
		previews:  localPreviewLinks{},
		// Media library grid: 4 thumbnails per 120px row.
		mediaWindow: editor.Window{RowHeight: 120, ItemsPerRow: 4},
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Get("/media", s.handleListMedia)

	r.Get("/playlists", s.handleListPlaylists)
	r.Post("/playlists", s.handleCreatePlaylist)
	r.Get("/playlists/{id}", s.handleGetPlaylist)
	r.Patch("/playlists/{id}", s.handlePatchPlaylist)
	r.Delete("/playlists/{id}", s.handleDeletePlaylist)

	r.Post("/playlists/{id}/items", s.handleAddItem)
	r.Post("/playlists/{id}/items/insert", s.handleInsertItem)
	r.Patch("/playlists/{id}/items/{itemId}", s.handleMoveItem)
	r.Patch("/playlists/{id}/items/{itemId}/duration", s.handleUpdateItemDuration)
	r.Delete("/playlists/{id}/items/{itemId}", s.handleDeleteItem)

	r.Get("/playlists/{id}/session", s.handleEditorSession)

	r.Post("/playlists/{id}/approval/request", s.handleRequestApproval)
	r.Post("/playlists/{id}/preview-link", s.handleCreatePreviewLink)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "editor-service",
	})
}
