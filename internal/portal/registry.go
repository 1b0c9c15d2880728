// Package portal хранит сессии пользователей портала записи.
//
// Сессия владеет мастером записи, хранилищем записей, лентой уведомлений и
// сервисом действий. Сессии без обращений дольше IdleTTL удаляются фоновой задачей.
package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arnela/gabinete-booking/internal/booking/actions"
	"github.com/arnela/gabinete-booking/internal/booking/notify"
	"github.com/arnela/gabinete-booking/internal/booking/optimistic"
	"github.com/arnela/gabinete-booking/internal/booking/store"
	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/domain"
)

// Options параметры сессий
type Options struct {
	IdleTTL         time.Duration
	NotificationTTL time.Duration
	SearchDebounce  time.Duration
	Location        *time.Location
}

// Registry реестр сессий портала
type Registry struct {
	opts         Options
	newAPI       APIFactory
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry создает пустой реестр
func NewRegistry(opts Options, newAPI APIFactory, metrics Metrics, logger Logger) *Registry {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Registry{
		opts:         opts,
		newAPI:       newAPI,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		sessions:     make(map[string]*Session),
	}
}

// Create открывает новую сессию пользователя
func (r *Registry) Create(userID string, variant wizard.Variant) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: Create - empty user id", ErrInvalidInput)
	}
	if _, err := wizard.ParseVariant(string(variant)); err != nil {
		return nil, fmt.Errorf("%w: Create - %v", ErrInvalidInput, err)
	}

	api := r.newAPI(userID)
	now := r.timeProvider.Now()

	st := store.New()
	feed := notify.NewFeed(r.opts.NotificationTTL, r.metrics)
	protocol := optimistic.New(feed, r.metrics, r.logger)

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Variant:   variant,
		CreatedAt: now,
		Store:     st,
		Feed:      feed,
		Actions:   actions.NewService(api, st, protocol, feed, r.logger),
		api:       api,
		clock:     r.timeProvider,
		lastSeen:  now,
		done:      make(chan struct{}),
	}
	s.Wizard = wizard.New(
		wizard.Config{
			Variant:        variant,
			SearchDebounce: r.opts.SearchDebounce,
			Location:       r.opts.Location,
			OnCreated: func(a domain.Appointment) {
				st.Upsert(a)
			},
		},
		api,
		api,
		api,
		feed,
		r.metrics,
		r.logger,
	)

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(n)
	r.logger.Info("Portal: session id=%s opened for user=%s variant=%s", s.ID, userID, variant)
	return s, nil
}

// Get возвращает сессию пользователя и отмечает обращение
func (r *Registry) Get(id, userID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("%w: Get - id=%s", ErrSessionNotFound, id)
	}

	s.touch(r.timeProvider.Now())
	return s, nil
}

// Close закрывает сессию пользователя
func (r *Registry) Close(id, userID string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		r.mu.Unlock()
		return fmt.Errorf("%w: Close - id=%s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	s.close()
	r.metrics.SetActiveSessions(n)
	r.logger.Info("Portal: session id=%s closed", id)
	return nil
}

// Len количество открытых сессий
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle закрывает сессии без обращений дольше IdleTTL, возвращает их количество
func (r *Registry) EvictIdle() int {
	deadline := r.timeProvider.Now().Add(-r.opts.IdleTTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(deadline) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}

	for _, s := range expired {
		s.close()
		r.logger.Info("Portal: session id=%s evicted after idle timeout", s.ID)
	}
	r.metrics.SetActiveSessions(n)
	return len(expired)
}

// RunJanitor периодически вызывает EvictIdle до отмены ctx
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// CloseAll закрывает все сессии при остановке сервиса
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	r.metrics.SetActiveSessions(0)
}
