// Package store хранит список записей и выбранную запись сессии.
//
// Все изменения проходят через методы Store, читатели получают копии.
package store

import (
	"sync"
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

type EventType string

const (
	EventListReplaced EventType = "list_replaced"
	EventUpserted     EventType = "upserted"
	EventPatched      EventType = "patched"
	EventSelected     EventType = "selected"
)

// Event уведомление об изменении хранилища
type Event struct {
	Type          EventType
	AppointmentID string
}

// Store хранилище записей одной сессии
type Store struct {
	mu           sync.RWMutex
	appointments []domain.Appointment
	selected     *domain.Appointment

	listenersMu sync.Mutex
	listeners   map[int]func(Event)
	nextID      int
}

func New() *Store {
	return &Store{listeners: make(map[int]func(Event))}
}

// SetAppointments заменяет список целиком
// Выбранная запись обновляется, если она есть в новом списке
func (s *Store) SetAppointments(list []domain.Appointment) {
	s.mu.Lock()
	s.appointments = make([]domain.Appointment, len(list))
	for i := range list {
		s.appointments[i] = clone(list[i])
	}
	if s.selected != nil {
		if i := s.indexLocked(s.selected.ID); i >= 0 {
			sel := clone(s.appointments[i])
			s.selected = &sel
		}
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventListReplaced})
}

// Appointments возвращает копию списка
func (s *Store) Appointments() []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Appointment, len(s.appointments))
	for i := range s.appointments {
		result[i] = clone(s.appointments[i])
	}
	return result
}

// Get возвращает запись из списка или выбранную запись
func (s *Store) Get(id string) (domain.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return clone(s.appointments[i]), true
	}
	if s.selected != nil && s.selected.ID == id {
		return clone(*s.selected), true
	}
	return domain.Appointment{}, false
}

// Upsert заменяет запись с тем же ID в списке и в выбранной записи или добавляет ее в список
func (s *Store) Upsert(a domain.Appointment) {
	s.mu.Lock()
	if i := s.indexLocked(a.ID); i >= 0 {
		s.appointments[i] = clone(a)
	} else {
		s.appointments = append(s.appointments, clone(a))
	}
	if s.selected != nil && s.selected.ID == a.ID {
		sel := clone(a)
		s.selected = &sel
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventUpserted, AppointmentID: a.ID})
}

// Select делает запись выбранной
func (s *Store) Select(a domain.Appointment) {
	s.mu.Lock()
	sel := clone(a)
	s.selected = &sel
	s.mu.Unlock()

	s.emit(Event{Type: EventSelected, AppointmentID: a.ID})
}

// Selected возвращает выбранную запись
func (s *Store) Selected() (domain.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return domain.Appointment{}, false
	}
	return clone(*s.selected), true
}

func (s *Store) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()

	s.emit(Event{Type: EventSelected})
}

// Subscribe регистрирует слушателя; возвращает функцию отписки
func (s *Store) Subscribe(fn func(Event)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) emit(e Event) {
	s.listenersMu.Lock()
	listeners := make([]func(Event), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

// clone копирует запись вместе с указателями на опциональные поля
func clone(a domain.Appointment) domain.Appointment {
	a.Description = cloneString(a.Description)
	a.Room = cloneString(a.Room)
	a.Notes = cloneString(a.Notes)
	a.CancellationReason = cloneString(a.CancellationReason)
	a.ConfirmedAt = cloneTime(a.ConfirmedAt)
	a.CancelledAt = cloneTime(a.CancelledAt)
	return a
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
