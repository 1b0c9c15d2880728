package portal

import (
	"context"
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/actions"
	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/domain"
)

// AgendaAPI клиент agenda API от имени пользователя сессии
type AgendaAPI interface {
	wizard.AvailabilityResolver
	wizard.ClientSearcher
	wizard.AppointmentCreator
	actions.AppointmentsAPI
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
}

// APIFactory создает клиент agenda API для пользователя
type APIFactory func(userID string) AgendaAPI

// Metrics метрики портала и компонентов сессии
type Metrics interface {
	wizard.Metrics
	IncNotification(kind string)
	IncOptimistic(outcome string)
	SetActiveSessions(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
