package session_notifications

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
)

const (
	msgSessionNotFound      = "Sesión no encontrada o expirada"
	msgNotificationNotFound = "Notificación no encontrada"
)

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// List GET /api/v1/sessions/{sessionId}/notifications
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromList(s.Feed.List()))
}

// Dismiss DELETE /api/v1/sessions/{sessionId}/notifications/{id}
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}
	id := mux.Vars(r)["id"]

	if !s.Feed.Dismiss(id) {
		h.logger.Warn("DELETE /sessions/{id}/notifications/{nid} - Notification not found: session_id=%s, notification_id=%s", s.ID, id)
		handlers.RespondNotFound(w, msgNotificationNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
