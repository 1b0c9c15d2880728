package search_clients

import (
	"context"

	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

type ClientService interface {
	SearchClients(ctx context.Context, term string) ([]models.ClientSummaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
