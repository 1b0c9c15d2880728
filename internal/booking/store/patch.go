package store

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// Field поле записи, затрагиваемое StatusPatch
type Field uint8

const (
	FieldStatus Field = 1 << iota
	FieldNotes
	FieldCancellationReason
	FieldConfirmedAt
	FieldCancelledAt
)

// StatusPatch изменение статуса и связанных с ним полей
// Fields перечисляет поля, которые патч записывает; остальные не трогаются
type StatusPatch struct {
	ID                 string
	Fields             Field
	Status             domain.AppointmentStatus
	Notes              *string
	CancellationReason *string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
}

// ConfirmPatch патч подтверждения записи
func ConfirmPatch(id string, notes *string, at time.Time) StatusPatch {
	return StatusPatch{
		ID:          id,
		Fields:      FieldStatus | FieldNotes | FieldConfirmedAt,
		Status:      domain.StatusConfirmed,
		Notes:       notes,
		ConfirmedAt: &at,
	}
}

// CancelPatch патч отмены записи
func CancelPatch(id, reason string, at time.Time) StatusPatch {
	return StatusPatch{
		ID:                 id,
		Fields:             FieldStatus | FieldCancellationReason | FieldCancelledAt,
		Status:             domain.StatusCancelled,
		CancellationReason: &reason,
		CancelledAt:        &at,
	}
}

func (p StatusPatch) has(f Field) bool {
	return p.Fields&f != 0
}

// ApplyPatch записывает поля патча в список и в выбранную запись
// Возвращает патч с прежними значениями тех же полей; ok = false, если записи нет
func (s *Store) ApplyPatch(p StatusPatch) (prior StatusPatch, ok bool) {
	s.mu.Lock()
	var target *domain.Appointment
	if i := s.indexLocked(p.ID); i >= 0 {
		target = &s.appointments[i]
	} else if s.selected != nil && s.selected.ID == p.ID {
		target = s.selected
	}
	if target == nil {
		s.mu.Unlock()
		return StatusPatch{}, false
	}

	prior = capture(*target, p.Fields)
	s.writeLocked(p)
	s.mu.Unlock()

	s.emit(Event{Type: EventPatched, AppointmentID: p.ID})
	return prior, true
}

// Restore возвращает полям значения из prior, не трогая остальные поля
func (s *Store) Restore(prior StatusPatch) {
	s.mu.Lock()
	s.writeLocked(prior)
	s.mu.Unlock()

	s.emit(Event{Type: EventPatched, AppointmentID: prior.ID})
}

func (s *Store) writeLocked(p StatusPatch) {
	if i := s.indexLocked(p.ID); i >= 0 {
		write(&s.appointments[i], p)
	}
	if s.selected != nil && s.selected.ID == p.ID {
		write(s.selected, p)
	}
}

func capture(a domain.Appointment, fields Field) StatusPatch {
	return StatusPatch{
		ID:                 a.ID,
		Fields:             fields,
		Status:             a.Status,
		Notes:              cloneString(a.Notes),
		CancellationReason: cloneString(a.CancellationReason),
		ConfirmedAt:        cloneTime(a.ConfirmedAt),
		CancelledAt:        cloneTime(a.CancelledAt),
	}
}

func write(a *domain.Appointment, p StatusPatch) {
	if p.has(FieldStatus) {
		a.Status = p.Status
	}
	if p.has(FieldNotes) {
		a.Notes = cloneString(p.Notes)
	}
	if p.has(FieldCancellationReason) {
		a.CancellationReason = cloneString(p.CancellationReason)
	}
	if p.has(FieldConfirmedAt) {
		a.ConfirmedAt = cloneTime(p.ConfirmedAt)
	}
	if p.has(FieldCancelledAt) {
		a.CancelledAt = cloneTime(p.CancelledAt)
	}
}
