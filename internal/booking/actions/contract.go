package actions

import (
	"context"
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/store"
	"github.com/arnela/gabinete-booking/internal/domain"
)

// AppointmentsAPI операции agenda API над записями
type AppointmentsAPI interface {
	GetAppointment(ctx context.Context, id string) (*domain.Appointment, error)
	ListAppointments(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error)
	ConfirmAppointment(ctx context.Context, id string, notes *string) (*domain.Appointment, error)
	CancelAppointment(ctx context.Context, id, reason string) (string, error)
}

// Store хранилище записей сессии
type Store interface {
	SetAppointments(list []domain.Appointment)
	Get(id string) (domain.Appointment, bool)
	Upsert(a domain.Appointment)
	Select(a domain.Appointment)
	ApplyPatch(p store.StatusPatch) (store.StatusPatch, bool)
	Restore(prior store.StatusPatch)
}

// Notifier лента уведомлений пользователя
type Notifier interface {
	Success(message string) string
	Error(message string) string
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
