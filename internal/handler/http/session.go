package http

import (
	"log/slog"
	"net/http"

	"github.com/vardhmanmills/storefront/internal/session"
	"github.com/vardhmanmills/storefront/pkg/httputil"
)

// SessionHandler mints browsing-session tokens.
type SessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(sessions *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Issue()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "session minted",
		slog.String("session_id", sess.SessionID),
	)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: sess})
}
