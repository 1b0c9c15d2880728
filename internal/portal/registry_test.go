package portal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/portal/portaltest"
	"github.com/arnela/gabinete-booking/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeMetrics struct {
	mu     sync.Mutex
	active int
}

func (m *fakeMetrics) IncWizardEvent(step, event, outcome string) {}
func (m *fakeMetrics) IncSlotFetch(outcome string)                {}
func (m *fakeMetrics) IncNotification(kind string)                {}
func (m *fakeMetrics) IncOptimistic(outcome string)               {}

func (m *fakeMetrics) SetActiveSessions(n int) {
	m.mu.Lock()
	m.active = n
	m.mu.Unlock()
}

func (m *fakeMetrics) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func newRegistry(t *testing.T) (*Registry, *fakeClock, *fakeMetrics, map[string]*portaltest.API) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)}
	m := &fakeMetrics{}
	apis := make(map[string]*portaltest.API)

	r := NewRegistry(Options{IdleTTL: 30 * time.Minute, NotificationTTL: time.Minute},
		func(userID string) AgendaAPI {
			api := portaltest.NewAPI(userID)
			api.Employees = []domain.Employee{{ID: "e1", Name: "Ana", IsActive: true}}
			apis[userID] = api
			return api
		},
		m, logger.Nop())
	r.timeProvider = clock
	t.Cleanup(r.CloseAll)

	return r, clock, m, apis
}

func TestCreate(t *testing.T) {
	r, _, m, apis := newRegistry(t)

	s, err := r.Create("user-1", wizard.VariantBackoffice)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, wizard.VariantBackoffice, s.Wizard.Variant())
	assert.Equal(t, "closed", s.Wizard.Snapshot().Step)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, m.Active())
	assert.Contains(t, apis, "user-1")

	providers, err := s.Providers(context.Background())
	require.NoError(t, err)
	assert.Len(t, providers, 1)
}

func TestCreate_InvalidInput(t *testing.T) {
	r, _, _, _ := newRegistry(t)

	_, err := r.Create("  ", wizard.VariantPortal)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Create("user-1", wizard.Variant("kiosk"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, r.Len())
}

func TestGet_OwnerOnly(t *testing.T) {
	r, _, _, _ := newRegistry(t)

	s, err := r.Create("user-1", wizard.VariantPortal)
	require.NoError(t, err)

	got, err := r.Get(s.ID, "user-1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(s.ID, "user-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = r.Get("missing", "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestClose(t *testing.T) {
	r, _, m, _ := newRegistry(t)

	s, err := r.Create("user-1", wizard.VariantPortal)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Close(s.ID, "user-2"), ErrSessionNotFound)
	require.NoError(t, r.Close(s.ID, "user-1"))

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, m.Active())
	assert.ErrorIs(t, r.Close(s.ID, "user-1"), ErrSessionNotFound)
}

func TestEvictIdle(t *testing.T) {
	r, clock, m, _ := newRegistry(t)

	idle, err := r.Create("user-1", wizard.VariantPortal)
	require.NoError(t, err)
	active, err := r.Create("user-2", wizard.VariantPortal)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = r.Get(active.ID, "user-2")
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())

	_, err = r.Get(idle.ID, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(active.ID, "user-2")
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Active())

	assert.Equal(t, 0, r.EvictIdle())
}

func TestTouchAndDone(t *testing.T) {
	r, clock, _, _ := newRegistry(t)

	s, err := r.Create("user-1", wizard.VariantPortal)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	s.Touch()
	clock.Advance(20 * time.Minute)
	assert.Equal(t, 0, r.EvictIdle())

	select {
	case <-s.Done():
		t.Fatal("session must stay open")
	default:
	}

	clock.Advance(31 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("done must be closed after eviction")
	}
	require.NotPanics(t, s.close)
}

func TestWatch(t *testing.T) {
	r, _, _, _ := newRegistry(t)

	s, err := r.Create("user-1", wizard.VariantPortal)
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		events []StreamEventType
	)
	unsubscribe := s.Watch(func(e StreamEvent) {
		mu.Lock()
		events = append(events, e.Type)
		mu.Unlock()
	})

	require.NoError(t, s.Wizard.Dispatch(context.Background(), wizard.Open{}))
	s.Feed.Info("hola")
	s.Store.SetAppointments(nil)

	unsubscribe()
	s.Feed.Info("adiós")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []StreamEventType{StreamWizard, StreamNotification, StreamAppointments}, events)
}
