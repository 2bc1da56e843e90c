package signage

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"editor-service/internal/editor"
)

var upgrader = websocket.Upgrader{
	// Origin is enforced at the gateway.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Inbound editor session messages. Slot indices count the insertion gaps
// of the timeline, 0..len(items).
type sessionMessage struct {
	Type string `json:"type"`

	SourceIndex *int            `json:"sourceIndex,omitempty"` // drag_start
	Slot        *int            `json:"slot,omitempty"`        // drag_over, drop
	ContentRef  string          `json:"contentRef,omitempty"`  // drag_enter
	ItemType    editor.ItemType `json:"itemType,omitempty"`    // drag_enter
}

type stateMessage struct {
	Type     string                `json:"type"` // "state"
	Playlist editor.Playlist       `json:"playlist"`
	Items    []editor.PlaylistItem `json:"items"`
	Saving   bool                  `json:"saving"`
}

type hoverMessage struct {
	Type      string `json:"type"` // "hover"
	HoverSlot *int   `json:"hoverSlot"`
}

type toastMessage struct {
	Type    string `json:"type"` // "toast"
	Kind    string `json:"kind"` // "error" | "info"
	Message string `json:"message"`
}

// handleEditorSession runs a WebSocket editor session: one store and one
// drag controller per connection, messages processed strictly in order so
// a new drag cannot start while a position batch is settling.
func (s *Server) handleEditorSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	store := editor.NewStore(s.repo, s.log)
	if err := store.Load(ctx, playlistID); err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		s.log.Error().Err(err).Str("playlist", playlistID).Msg("session load")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if store.Playlist().OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("session upgrade")
		return
	}
	defer conn.Close()

	ctrl := editor.NewDragController(store)
	if err := conn.WriteJSON(s.snapshot(store)); err != nil {
		return
	}

	for {
		var msg sessionMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Str("playlist", playlistID).Msg("session closed")
			}
			return
		}
		if !s.handleSessionMessage(ctx, conn, store, ctrl, msg) {
			return
		}
	}
}

// handleSessionMessage applies one message and reports whether the session
// should continue.
func (s *Server) handleSessionMessage(ctx context.Context, conn *websocket.Conn, store *editor.Store, ctrl *editor.DragController, msg sessionMessage) bool {
	switch msg.Type {
	case "drag_start":
		if msg.SourceIndex == nil {
			return s.sendToast(conn, "error", "drag_start requires sourceIndex")
		}
		if err := ctrl.StartReorder(*msg.SourceIndex); err != nil {
			return s.sendToast(conn, "error", err.Error())
		}

	case "drag_enter":
		if err := ctrl.StartLibraryDrag(msg.ContentRef, msg.ItemType); err != nil {
			return s.sendToast(conn, "error", err.Error())
		}

	case "drag_over":
		if msg.Slot == nil {
			return s.sendToast(conn, "error", "drag_over requires slot")
		}
		// Only emit when the observed hover actually changed.
		if ctrl.DragOver(*msg.Slot) {
			return s.sendHover(conn, ctrl)
		}

	case "drag_leave":
		if ctrl.DragLeave() {
			return s.sendHover(conn, ctrl)
		}

	case "drop":
		if msg.Slot == nil {
			ctrl.Cancel()
			return s.sendToast(conn, "error", "drop requires slot")
		}
		if err := ctrl.Drop(ctx, *msg.Slot); err != nil {
			// The store already reconciled (reload on sync failure); the
			// refreshed state follows the toast.
			if !s.sendToast(conn, "error", userFacing(err)) {
				return false
			}
		}
		return conn.WriteJSON(s.snapshot(store)) == nil

	case "drag_end":
		ctrl.Cancel()
		return s.sendHover(conn, ctrl)

	default:
		return s.sendToast(conn, "error", "unknown message type")
	}
	return true
}

func (s *Server) snapshot(store *editor.Store) stateMessage {
	return stateMessage{
		Type:     "state",
		Playlist: store.Playlist(),
		Items:    store.Items(),
		Saving:   store.Saving(),
	}
}

func (s *Server) sendHover(conn *websocket.Conn, ctrl *editor.DragController) bool {
	msg := hoverMessage{Type: "hover"}
	if h := ctrl.HoverIndex(); h != editor.NoHover {
		msg.HoverSlot = &h
	}
	return conn.WriteJSON(msg) == nil
}

func (s *Server) sendToast(conn *websocket.Conn, kind, message string) bool {
	return conn.WriteJSON(toastMessage{Type: "toast", Kind: kind, Message: message}) == nil
}

// userFacing strips storage detail from mutation errors shown in the
// editor.
func userFacing(err error) string {
	var syncErr *editor.SyncError
	if errors.As(err, &syncErr) {
		return "could not save the new order, playlist reloaded"
	}
	var mutErr *editor.MutationError
	if errors.As(err, &mutErr) {
		return "could not " + mutErr.Op + " item"
	}
	return err.Error()
}
