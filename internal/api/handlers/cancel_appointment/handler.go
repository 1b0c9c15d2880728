package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/service/appointments"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "Cuerpo de la solicitud no válido"
	msgNotFound           = "Cita no encontrada"
	msgCannotCancel       = "La cita no se puede cancelar"
	msgReasonRequired     = "El motivo de cancelación es obligatorio"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID, _ := middleware.GetUserID(r.Context())

	var req models.CancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Cancel(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/cancel - Invalid reason: appointment_id=%s", id)
			if !handlers.RespondValidationError(w, err) {
				handlers.RespondBadRequest(w, msgReasonRequired)
			}

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/cancel - Appointment not found: appointment_id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("POST /appointments/{id}/cancel - Cannot cancel: appointment_id=%s", id)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("POST /appointments/{id}/cancel - Failed to cancel appointment: appointment_id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/cancel - Appointment cancelled: appointment_id=%s, user_id=%s", id, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
