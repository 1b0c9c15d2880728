package session_providers

import (
	"net/http"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

const (
	msgSessionNotFound   = "Sesión no encontrada o expirada"
	msgAgendaUnavailable = "No se pudo cargar la lista de especialistas"
)

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle GET /api/v1/sessions/{sessionId}/providers
// Возвращает только активных специалистов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return
	}

	employees, err := s.Providers(r.Context())
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/providers - Failed to list employees: session_id=%s, error=%v", s.ID, err)
		handlers.RespondError(w, http.StatusBadGateway, msgAgendaUnavailable)
		return
	}

	active := make([]*domain.Employee, 0, len(employees))
	for i := range employees {
		if employees[i].IsActive {
			active = append(active, &employees[i])
		}
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainEmployees(active))
}
