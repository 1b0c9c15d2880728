package get_available_slots

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	getAvailableSlots "github.com/arnela/gabinete-booking/internal/usecase/get_available_slots"
)

const (
	msgMissingProviderID = "El profesional es obligatorio"
	msgMissingDate       = "La fecha es obligatoria"
	msgInvalidParams     = "Parámetros no válidos: se espera date=YYYY-MM-DD y duration=45|60"
	msgInvalidDuration   = "La duración debe ser de 45 o 60 minutos"
	msgInvalidDate       = "La fecha seleccionada no está disponible para reservas"
	msgProviderNotFound  = "Profesional no encontrado"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/appointments/available-slots
// Query params: providerId (required), date (required, YYYY-MM-DD), duration (45|60, default 60)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	providerID := strings.TrimSpace(query.Get("providerId"))
	if providerID == "" {
		h.logger.Warn("GET /appointments/available-slots - Missing provider ID")
		handlers.RespondBadRequest(w, msgMissingProviderID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /appointments/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(providerID, dateStr, query.Get("duration"), h.location)
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /appointments/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /appointments/available-slots - Date out of window: provider_id=%s, date=%s", providerID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrProviderNotFound):
			h.logger.Warn("GET /appointments/available-slots - Provider not found: provider_id=%s", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		default:
			h.logger.Error("GET /appointments/available-slots - Failed to get slots: provider_id=%s, date=%s, error=%v",
				providerID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/available-slots - Slots retrieved: provider_id=%s, date=%s, slots_count=%d",
		providerID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
