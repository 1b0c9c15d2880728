package wizard

import (
	"context"
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// AvailabilityResolver источник свободных слотов специалиста на дату
type AvailabilityResolver interface {
	GetAvailableSlots(ctx context.Context, providerID string, date time.Time, durationMinutes int) ([]time.Time, error)
}

// ClientSearcher поиск клиентов (только в варианте backoffice)
type ClientSearcher interface {
	SearchClients(ctx context.Context, query string) ([]domain.ClientSummary, error)
}

// AppointmentCreator создание записи из заполненного черновика
type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error)
}

// Notifier лента уведомлений пользователя
type Notifier interface {
	Success(message string) string
	Error(message string) string
}

// Metrics метрики мастера записи
type Metrics interface {
	IncWizardEvent(step, event, outcome string)
	IncSlotFetch(outcome string)
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
