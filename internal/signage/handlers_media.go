package signage

import (
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"editor-service/internal/editor"
)

// handleListMedia serves the media library as a virtualized window: the
// client reports its scroll offset and viewport height in pixels, and only
// the rows intersecting that window (plus overscan) are returned.
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	scrollTop := intQuery(r, "scrollTop", 0)
	viewportHeight := intQuery(r, "viewportHeight", 600)
	folderID := r.URL.Query().Get("folderId")

	var total int
	var err error
	if folderID != "" {
		err = s.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM media WHERE owner_id = $1 AND folder_id = $2
		`, userID, folderID).Scan(&total)
	} else {
		err = s.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM media WHERE owner_id = $1
		`, userID).Scan(&total)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("count media")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	start, end := s.mediaWindow.VisibleRange(scrollTop, viewportHeight, total)

	entries := []editor.Media{}
	if end > start {
		var rows pgx.Rows
		if folderID != "" {
			rows, err = s.db.Query(ctx, `
				SELECT id, name, type, url, thumbnail_url, duration, folder_id
				FROM media
				WHERE owner_id = $1 AND folder_id = $2
				ORDER BY created_at DESC, id
				LIMIT $3 OFFSET $4
			`, userID, folderID, end-start, start)
		} else {
			rows, err = s.db.Query(ctx, `
				SELECT id, name, type, url, thumbnail_url, duration, folder_id
				FROM media
				WHERE owner_id = $1
				ORDER BY created_at DESC, id
				LIMIT $2 OFFSET $3
			`, userID, end-start, start)
		}
		if err != nil {
			s.log.Error().Err(err).Msg("list media")
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		defer rows.Close()

		for rows.Next() {
			var m editor.Media
			if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.URL, &m.ThumbnailURL, &m.Duration, &m.FolderID); err != nil {
				s.log.Error().Err(err).Msg("list media scan")
				writeError(w, http.StatusInternalServerError, "database error")
				return
			}
			entries = append(entries, m)
		}
		if err := rows.Err(); err != nil {
			s.log.Error().Err(err).Msg("list media rows")
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"start":   start,
		"end":     end,
		"entries": entries,
	})
}

func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
