package portal

import (
	"context"
	"sync"
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/actions"
	"github.com/arnela/gabinete-booking/internal/booking/notify"
	"github.com/arnela/gabinete-booking/internal/booking/store"
	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/domain"
)

type StreamEventType string

const (
	StreamWizard       StreamEventType = "wizard"
	StreamAppointments StreamEventType = "appointments"
	StreamNotification StreamEventType = "notification"
)

// StreamEvent изменение состояния сессии для подписчиков
// Заполнено ровно одно из полей Wizard, Store, Notification
type StreamEvent struct {
	Type         StreamEventType
	Wizard       *wizard.State
	Store        *store.Event
	Notification *notify.Change
}

// Session состояние одного пользователя портала
type Session struct {
	ID        string
	UserID    string
	Variant   wizard.Variant
	CreatedAt time.Time

	Wizard  *wizard.Wizard
	Store   *store.Store
	Feed    *notify.Feed
	Actions *actions.Service

	api   AgendaAPI
	clock TimeProvider

	mu       sync.Mutex
	lastSeen time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// Providers список специалистов
func (s *Session) Providers(ctx context.Context) ([]domain.Employee, error) {
	return s.api.ListEmployees(ctx)
}

// Watch подписывает fn на изменения мастера, хранилища и ленты уведомлений
// Возвращает функцию отписки
func (s *Session) Watch(fn func(StreamEvent)) func() {
	unsubWizard := s.Wizard.Subscribe(func(state wizard.State) {
		fn(StreamEvent{Type: StreamWizard, Wizard: &state})
	})
	unsubStore := s.Store.Subscribe(func(e store.Event) {
		fn(StreamEvent{Type: StreamAppointments, Store: &e})
	})
	unsubFeed := s.Feed.Subscribe(func(c notify.Change) {
		fn(StreamEvent{Type: StreamNotification, Notification: &c})
	})

	return func() {
		unsubWizard()
		unsubStore()
		unsubFeed()
	}
}

// Touch отмечает активность пользователя, например сообщение в открытом потоке событий
func (s *Session) Touch() {
	s.touch(s.clock.Now())
}

// Done закрывается, когда сессия закрыта или вытеснена
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.Wizard.Shutdown()
		s.Feed.Close()
		close(s.done)
	})
}
