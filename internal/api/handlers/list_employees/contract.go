package list_employees

import (
	"context"

	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

type EmployeeService interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
