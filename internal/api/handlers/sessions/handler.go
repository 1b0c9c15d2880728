package sessions

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/portal"
)

const (
	msgInvalidRequestBody = "Cuerpo de la solicitud no válido"
	msgInvalidVariant     = "Variante no válida, usa portal o backoffice"
	msgSessionNotFound    = "Sesión no encontrada o expirada"
)

type Handler struct {
	registry SessionRegistry
	logger   Logger
}

func NewHandler(registry SessionRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// Create POST /api/v1/sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	s, err := h.registry.Create(userID, req.variant())
	if err != nil {
		switch {
		case errors.Is(err, portal.ErrInvalidInput):
			h.logger.Warn("POST /sessions - Invalid input: user_id=%s, variant=%s", userID, req.Variant)
			handlers.RespondBadRequest(w, msgInvalidVariant)

		default:
			h.logger.Error("POST /sessions - Failed to create session: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created: session_id=%s, user_id=%s", s.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, fromSession(s))
}

// Close DELETE /api/v1/sessions/{sessionId}
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.registry.Close(id, userID); err != nil {
		switch {
		case errors.Is(err, portal.ErrSessionNotFound):
			h.logger.Warn("DELETE /sessions/{id} - Session not found: session_id=%s", id)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("DELETE /sessions/{id} - Failed to close session: session_id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /sessions/{id} - Session closed: session_id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
