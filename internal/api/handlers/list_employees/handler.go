package list_employees

import (
	"net/http"
	"strconv"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
)

const msgInvalidIsActive = "Parámetro isActive no válido"

type Handler struct {
	service EmployeeService
	logger  Logger
}

func NewHandler(service EmployeeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/employees?isActive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("isActive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.logger.Warn("GET /employees - Invalid isActive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIsActive)
			return
		}
		activeOnly = parsed
	}

	employees, err := h.service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("GET /employees - Failed to list employees: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, employees)
}
