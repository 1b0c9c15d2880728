package session_appointments

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/booking/actions"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "Cuerpo de la solicitud no válido"
	msgInvalidFilter      = "Parámetros de búsqueda no válidos"
	msgSessionNotFound    = "Sesión no encontrada o expirada"
	msgNotLoaded          = "La cita no está cargada, actualiza la lista"
	msgCannotConfirm      = "La cita no se puede confirmar"
	msgCannotCancel       = "La cita no se puede cancelar"
	msgInProgress         = "Ya hay un cambio de estado en curso"
	msgStale              = "La cita ha cambiado, actualiza la lista"
	msgAgendaUnavailable  = "La agenda no está disponible, inténtalo de nuevo"
)

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// List GET /api/v1/sessions/{sessionId}/appointments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	filter, err := ToFilter(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/appointments - Invalid filter: %v", err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidFilter)
		}
		return
	}

	list, err := s.Actions.Load(r.Context(), filter)
	if err != nil {
		h.respondError(w, "GET /sessions/{id}/appointments", s.ID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromList(list))
}

// Get GET /api/v1/sessions/{sessionId}/appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}
	id := mux.Vars(r)["id"]

	detail, err := s.Actions.Open(r.Context(), id)
	if err != nil {
		h.respondError(w, "GET /sessions/{id}/appointments/{aid}", s.ID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromDetail(detail))
}

// Confirm POST /api/v1/sessions/{sessionId}/appointments/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}
	id := mux.Vars(r)["id"]

	var req models.ConfirmRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /sessions/{id}/appointments/{aid}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := s.Actions.Confirm(r.Context(), id, req.Notes)
	if err != nil {
		h.respondError(w, "POST /sessions/{id}/appointments/{aid}/confirm", s.ID, err)
		return
	}

	h.logger.Info("POST /sessions/{id}/appointments/{aid}/confirm - Appointment confirmed: session_id=%s, appointment_id=%s", s.ID, id)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(appointment))
}

// Cancel POST /api/v1/sessions/{sessionId}/appointments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}
	id := mux.Vars(r)["id"]

	var req models.CancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/appointments/{aid}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	message, err := s.Actions.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		h.respondError(w, "POST /sessions/{id}/appointments/{aid}/cancel", s.ID, err)
		return
	}

	h.logger.Info("POST /sessions/{id}/appointments/{aid}/cancel - Appointment cancelled: session_id=%s, appointment_id=%s", s.ID, id)
	handlers.RespondJSON(w, http.StatusOK, models.MessageResponse{Message: message})
}

// respondError сначала проверяет ошибки сессии, затем причину от agenda API
func (h *Handler) respondError(w http.ResponseWriter, op, sessionID string, err error) {
	switch {
	case errors.Is(err, actions.ErrAppointmentNotLoaded):
		h.logger.Warn("%s - Appointment not loaded: session_id=%s", op, sessionID)
		handlers.RespondNotFound(w, msgNotLoaded)

	case errors.Is(err, actions.ErrCannotConfirm):
		h.logger.Warn("%s - Cannot confirm: session_id=%s", op, sessionID)
		handlers.RespondConflict(w, msgCannotConfirm)

	case errors.Is(err, actions.ErrCannotCancel):
		h.logger.Warn("%s - Cannot cancel: session_id=%s", op, sessionID)
		handlers.RespondConflict(w, msgCannotCancel)

	case errors.Is(err, actions.ErrActionInProgress):
		h.logger.Warn("%s - Action in progress: session_id=%s", op, sessionID)
		handlers.RespondConflict(w, msgInProgress)

	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("%s - Validation failed: session_id=%s, error=%v", op, sessionID, err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, domain.UserMessage(err))
		}

	case errors.Is(err, domain.ErrConflict):
		h.logger.Warn("%s - Rejected by agenda: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondConflict(w, msgStale)

	case errors.Is(err, domain.ErrNotFound):
		handlers.RespondNotFound(w, domain.UserMessage(err))

	case errors.Is(err, domain.ErrUnauthorized):
		handlers.RespondUnauthorized(w, domain.UserMessage(err))

	case errors.Is(err, domain.ErrTransient):
		h.logger.Warn("%s - Agenda unavailable: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondError(w, http.StatusBadGateway, msgAgendaUnavailable)

	default:
		h.logger.Error("%s - Failed: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
