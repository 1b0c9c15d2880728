// Package notify хранит временные уведомления пользователя портала.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindLoading Kind = "loading"
	KindInfo    Kind = "info"
)

// Notification временное уведомление, которое пользователь может закрыть
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
	ExpiresAt *time.Time // nil для loading: закрывается по ID
}

type Op string

const (
	OpAdded     Op = "added"
	OpDismissed Op = "dismissed"
)

// Change событие изменения ленты
type Change struct {
	Op           Op
	Notification Notification
}

// Feed лента уведомлений одной сессии
type Feed struct {
	ttl          time.Duration
	metrics      Metrics
	timeProvider TimeProvider

	mu        sync.Mutex
	items     []Notification
	timers    map[string]*time.Timer
	listeners map[int]func(Change)
	nextID    int
	closed    bool
}

// NewFeed создает ленту; ttl <= 0 отключает автоматическое скрытие
func NewFeed(ttl time.Duration, metrics Metrics) *Feed {
	return &Feed{
		ttl:          ttl,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		timers:       make(map[string]*time.Timer),
		listeners:    make(map[int]func(Change)),
	}
}

func (f *Feed) Success(message string) string {
	return f.push(KindSuccess, message, true)
}

func (f *Feed) Error(message string) string {
	return f.push(KindError, message, true)
}

func (f *Feed) Info(message string) string {
	return f.push(KindInfo, message, true)
}

// Loading добавляет индикатор загрузки, который живет до Dismiss
func (f *Feed) Loading(message string) string {
	return f.push(KindLoading, message, false)
}

// Dismiss удаляет уведомление; false, если его уже нет
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	n, ok := f.removeLocked(id)
	listeners := f.listenersLocked()
	f.mu.Unlock()

	if ok {
		emit(listeners, Change{Op: OpDismissed, Notification: n})
	}
	return ok
}

// List возвращает актуальные уведомления в порядке добавления
func (f *Feed) List() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.timeProvider.Now()
	result := make([]Notification, 0, len(f.items))
	for _, n := range f.items {
		if n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
			continue
		}
		result = append(result, n)
	}
	return result
}

// Subscribe регистрирует слушателя изменений; возвращает функцию отписки
func (f *Feed) Subscribe(fn func(Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.listeners[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Close останавливает таймеры и отписывает всех слушателей
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, t := range f.timers {
		t.Stop()
		delete(f.timers, id)
	}
	f.listeners = make(map[int]func(Change))
	f.closed = true
}

func (f *Feed) push(kind Kind, message string, expires bool) string {
	now := f.timeProvider.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return n.ID
	}
	if expires && f.ttl > 0 {
		at := now.Add(f.ttl)
		n.ExpiresAt = &at
		id := n.ID
		f.timers[id] = time.AfterFunc(f.ttl, func() { f.Dismiss(id) })
	}
	f.items = append(f.items, n)
	listeners := f.listenersLocked()
	f.mu.Unlock()

	if f.metrics != nil {
		f.metrics.IncNotification(string(kind))
	}
	emit(listeners, Change{Op: OpAdded, Notification: n})
	return n.ID
}

func (f *Feed) removeLocked(id string) (Notification, bool) {
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return n, true
		}
	}
	return Notification{}, false
}

func (f *Feed) listenersLocked() []func(Change) {
	result := make([]func(Change), 0, len(f.listeners))
	for _, l := range f.listeners {
		result = append(result, l)
	}
	return result
}

func emit(listeners []func(Change), c Change) {
	for _, l := range listeners {
		l(c)
	}
}
