package search_clients

import (
	"net/http"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients?search=<q>&isActive=true
// Поиск всегда идет только по активным клиентам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	clients, err := h.service.SearchClients(r.Context(), term)
	if err != nil {
		h.logger.Error("GET /clients - Failed to search clients: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, clients)
}
