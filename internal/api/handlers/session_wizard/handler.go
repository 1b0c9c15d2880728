package session_wizard

import (
	"errors"
	"net/http"
	"time"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "Cuerpo de la solicitud no válido"
	msgInvalidEvent       = "Evento no válido"
	msgInvalidTransition  = "La acción no está disponible en este paso"
	msgSessionNotFound    = "Sesión no encontrada o expirada"
	msgAgendaUnavailable  = "La agenda no está disponible, inténtalo de nuevo"
)

type Handler struct {
	location *time.Location
	logger   Logger
}

func NewHandler(location *time.Location, logger Logger) *Handler {
	return &Handler{
		location: location,
		logger:   logger,
	}
}

// Get GET /api/v1/sessions/{sessionId}/wizard
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromState(s.Wizard.Snapshot()))
}

// Dispatch POST /api/v1/sessions/{sessionId}/wizard/events
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	var req EventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/wizard/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ev, err := req.ToEvent(h.location)
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/wizard/events - Invalid event: session_id=%s, error=%v", s.ID, err)
		handlers.RespondBadRequest(w, msgInvalidEvent)
		return
	}

	if _, isSubmit := ev.(wizard.Submit); isSubmit {
		created, err := s.Wizard.Submit(r.Context())
		if err != nil {
			h.respondError(w, s.ID, ev, err)
			return
		}

		h.logger.Info("POST /sessions/{id}/wizard/events - Appointment created: session_id=%s, appointment_id=%s", s.ID, created.ID)
		handlers.RespondJSON(w, http.StatusCreated, SubmitResponse{
			Appointment: models.FromDomainAppointment(created),
			Wizard:      FromState(s.Wizard.Snapshot()),
		})
		return
	}

	if err := s.Wizard.Dispatch(r.Context(), ev); err != nil {
		h.respondError(w, s.ID, ev, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromState(s.Wizard.Snapshot()))
}

func (h *Handler) respondError(w http.ResponseWriter, sessionID string, ev wizard.Event, err error) {
	switch {
	case errors.Is(err, wizard.ErrInvalidTransition):
		h.logger.Warn("POST /sessions/{id}/wizard/events - Invalid transition: session_id=%s, event=%s", sessionID, ev.Name())
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("POST /sessions/{id}/wizard/events - Validation failed: session_id=%s, event=%s, error=%v", sessionID, ev.Name(), err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, domain.UserMessage(err))
		}

	case errors.Is(err, domain.ErrConflict):
		h.logger.Warn("POST /sessions/{id}/wizard/events - Slot conflict: session_id=%s", sessionID)
		handlers.RespondConflict(w, domain.UserMessage(err))

	case errors.Is(err, domain.ErrNotFound):
		handlers.RespondNotFound(w, domain.UserMessage(err))

	case errors.Is(err, domain.ErrUnauthorized):
		handlers.RespondUnauthorized(w, domain.UserMessage(err))

	case errors.Is(err, domain.ErrTransient):
		h.logger.Warn("POST /sessions/{id}/wizard/events - Agenda unavailable: session_id=%s, error=%v", sessionID, err)
		handlers.RespondError(w, http.StatusBadGateway, msgAgendaUnavailable)

	default:
		h.logger.Error("POST /sessions/{id}/wizard/events - Failed to handle event: session_id=%s, event=%s, error=%v", sessionID, ev.Name(), err)
		handlers.RespondInternalError(w)
	}
}
