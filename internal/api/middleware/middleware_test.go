package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/portal"
)

func TestAuth(t *testing.T) {
	var got string
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(UserIDHeader, "user-1")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "user-1", got)
}

func TestRequestID(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "req-1", got)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
	assert.Equal(t, got, w.Header().Get(RequestIDHeader))
}

type recordedLog struct{ buf bytes.Buffer }

func (l *recordedLog) Info(format string, v ...interface{}) {
	fmt.Fprintf(&l.buf, format, v...)
}

type recordedMetrics struct {
	route  string
	status int
}

func (m *recordedMetrics) ObserveHTTPRequest(_, route string, status int, _ time.Duration) {
	m.route = route
	m.status = status
}

func TestAccessLogAndMetrics(t *testing.T) {
	log := &recordedLog{}
	m := &recordedMetrics{}

	r := mux.NewRouter()
	r.Use(RequestID, AccessLog(log), MetricsMiddleware(m))
	r.HandleFunc("/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments/abc", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/appointments/{id}", m.route)
	assert.Equal(t, http.StatusNotFound, m.status)
	assert.Contains(t, log.buf.String(), "path=/appointments/abc status=404")
}

type fakeRegistry struct {
	sessions map[string]*portal.Session
}

func (f *fakeRegistry) Get(id, userID string) (*portal.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, portal.ErrSessionNotFound
	}
	return s, nil
}

func TestSession(t *testing.T) {
	reg := &fakeRegistry{sessions: map[string]*portal.Session{
		"s1": {ID: "s1", UserID: "user-1"},
	}}

	var got *portal.Session
	r := mux.NewRouter()
	sub := r.PathPrefix("/sessions/{sessionId}").Subrouter()
	sub.Use(Auth, Session(reg))
	sub.HandleFunc("/wizard", func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1/wizard", nil)
	req.Header.Set(UserIDHeader, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.ID)

	req = httptest.NewRequest(http.MethodGet, "/sessions/s1/wizard", nil)
	req.Header.Set(UserIDHeader, "user-2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
