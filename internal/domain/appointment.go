package domain

import (
	"time"
)

// AppointmentStatus статус записи на приём
//
// Переходы:
//
//	pending → confirmed → completed
//	confirmed → rescheduled
//	pending | confirmed | rescheduled → cancelled
//
// completed и cancelled терминальные.
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
)

var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusCompleted, StatusRescheduled, StatusCancelled},
	StatusRescheduled: {StatusCompleted, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// IsValid returns true for statuses known to the lifecycle.
func (s AppointmentStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus конвертирует строку в AppointmentStatus с валидацией
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if !status.IsValid() {
		return "", NewValidationError("status", "estado de cita desconocido")
	}
	return status, nil
}

// Appointment запись клиента к специалисту
type Appointment struct {
	ID              string
	ClientID        string
	ProviderID      string // сотрудник/терапевт, ровно один владелец
	Title           string
	Description     *string
	Room            *string
	StartTime       time.Time
	EndTime         time.Time // всегда StartTime + DurationMinutes
	DurationMinutes int
	Status          AppointmentStatus

	Notes              *string // только для подтверждённых
	CancellationReason *string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime вычисляет время окончания приёма
func EndTime(start time.Time, durationMinutes int) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// Normalize пересчитывает производное поле EndTime
func (a *Appointment) Normalize() {
	a.EndTime = EndTime(a.StartTime, a.DurationMinutes)
}

// Interval возвращает занятый интервал [StartTime, EndTime)
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: EndTime(a.StartTime, a.DurationMinutes)}
}

// IsActive returns true if the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanTransitionTo проверяет допустимость перехода в новый статус
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range allowedTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// CanCancel разрешает отмену нетерминальных записей, которые ещё не начались
func (a *Appointment) CanCancel(now time.Time) bool {
	if !a.CanTransitionTo(StatusCancelled) {
		return false
	}
	return a.StartTime.After(now)
}

// CanConfirm разрешает подтверждение только ожидающей записи
func (a *Appointment) CanConfirm() bool {
	return a.Status == StatusPending
}

// IsDisplayOnly сообщает, что прошедшая нетерминальная запись доступна только для просмотра
func (a *Appointment) IsDisplayOnly(now time.Time) bool {
	return !a.Status.IsTerminal() && !a.StartTime.After(now)
}

// Actions действия, доступные пользователю для записи
type Actions struct {
	Cancel  bool
	Confirm bool
}

// AvailableActions возвращает матрицу разрешённых действий на момент now
func (a *Appointment) AvailableActions(now time.Time) Actions {
	return Actions{
		Cancel:  a.CanCancel(now),
		Confirm: a.CanConfirm(),
	}
}

// AppointmentsFilter фильтр списка записей
type AppointmentsFilter struct {
	ProviderID *string
	ClientID   *string
	Status     *AppointmentStatus
	From       *time.Time // включительно, по StartTime
	To         *time.Time // не включительно
	ActiveOnly bool       // исключить отменённые
}

// CreateAppointmentRequest запрос на создание записи, собранный мастером
// ClientID == nil означает «клиент определяется по авторизованному пользователю»
type CreateAppointmentRequest struct {
	ClientID        *string
	ProviderID      string
	Title           string
	Description     *string
	Room            *string
	StartTime       time.Time
	DurationMinutes int
}
