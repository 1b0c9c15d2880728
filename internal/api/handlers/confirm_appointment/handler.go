package confirm_appointment

import (
	"errors"
	"io"
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
	msgCannotConfirm      = "Solo se pueden confirmar citas pendientes"
	msgInvalidNotes       = "Notas no válidas"
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

// Handle POST /api/v1/appointments/{id}/confirm
// Тело запроса опционально: {"notes": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID, _ := middleware.GetUserID(r.Context())

	var req models.ConfirmRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /appointments/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	appointment, err := h.service.Confirm(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/confirm - Invalid notes: appointment_id=%s", id)
			if !handlers.RespondValidationError(w, err) {
				handlers.RespondBadRequest(w, msgInvalidNotes)
			}

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm - Appointment not found: appointment_id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotConfirm):
			h.logger.Warn("POST /appointments/{id}/confirm - Cannot confirm: appointment_id=%s", id)
			handlers.RespondConflict(w, msgCannotConfirm)

		default:
			h.logger.Error("POST /appointments/{id}/confirm - Failed to confirm appointment: appointment_id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/confirm - Appointment confirmed: appointment_id=%s, user_id=%s", id, userID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
