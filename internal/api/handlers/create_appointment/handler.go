package create_appointment

import (
	"errors"
	"net/http"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	createAppointment "github.com/arnela/gabinete-booking/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "Cuerpo de la solicitud no válido"
	msgMissingUserID      = "Falta el identificador de usuario"
	msgSlotNotAvailable   = "El horario seleccionado ya no está disponible"
	msgScheduleBusy       = "La agenda está ocupada, inténtalo de nuevo"
	msgProviderNotFound   = "Profesional no encontrado"
	msgClientNotFound     = "Cliente no encontrado"
	msgInvalidDate        = "La fecha seleccionada no está disponible para reservas"
	msgInvalidTimeSlot    = "El horario está fuera del horario de atención"
	msgTooLateToBook      = "Es demasiado tarde para reservar este horario"
	msgInvalidInput       = "Datos de la cita no válidos"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%s, error=%v", userID, err)
			if !handlers.RespondValidationError(w, err) {
				handlers.RespondBadRequest(w, msgInvalidInput)
			}

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: provider_id=%s, start=%s", req.ProviderID, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrScheduleBusy):
			h.logger.Warn("POST /appointments - Schedule locked: provider_id=%s", req.ProviderID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgScheduleBusy)

		case errors.Is(err, createAppointment.ErrProviderNotFound):
			h.logger.Warn("POST /appointments - Provider not found: provider_id=%s", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: user_id=%s", userID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: start=%s", req.StartTime)
			if !handlers.RespondValidationError(w, err) {
				handlers.RespondBadRequest(w, msgInvalidDate)
			}

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%s, provider_id=%s, error=%v",
				userID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, user_id=%s, provider_id=%s",
		result.Appointment.ID, userID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
