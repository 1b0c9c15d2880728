package session_notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/booking/notify"
	"github.com/arnela/gabinete-booking/internal/portal"
	"github.com/arnela/gabinete-booking/pkg/logger"
)

func TestListAndDismiss(t *testing.T) {
	feed := notify.NewFeed(time.Minute, nil)
	t.Cleanup(feed.Close)
	s := &portal.Session{ID: "s1", UserID: "user-1", Feed: feed}

	okID := feed.Success("Cita creada correctamente")
	feed.Loading("Cancelando cita...")

	h := NewHandler(logger.Nop())
	r := mux.NewRouter()
	r.HandleFunc("/notifications", h.List)
	r.HandleFunc("/notifications/{id}", h.Dismiss)
	serve := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req = req.WithContext(middleware.WithSession(req.Context(), s))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := serve(http.MethodGet, "/notifications")
	require.Equal(t, http.StatusOK, w.Code)

	var list []NotificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "success", list[0].Kind)
	assert.NotNil(t, list[0].ExpiresAt)
	assert.Equal(t, "loading", list[1].Kind)
	assert.Nil(t, list[1].ExpiresAt)

	assert.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/notifications/"+okID).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodDelete, "/notifications/"+okID).Code)
	assert.Len(t, feed.List(), 1)
}
