package sessions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/portal"
	"github.com/arnela/gabinete-booking/internal/portal/portaltest"
	"github.com/arnela/gabinete-booking/pkg/logger"
	"github.com/arnela/gabinete-booking/pkg/metrics"
)

func newRouter(t *testing.T) (*mux.Router, *portal.Registry) {
	t.Helper()

	reg := portal.NewRegistry(portal.Options{IdleTTL: time.Hour},
		func(userID string) portal.AgendaAPI { return portaltest.NewAPI(userID) },
		metrics.NewWithRegistry(prometheus.NewRegistry(), "test"), logger.Nop())
	t.Cleanup(reg.CloseAll)

	h := NewHandler(reg, logger.Nop())
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/sessions", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionId}", h.Close).Methods(http.MethodDelete)
	return r, reg
}

func do(r *mux.Router, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndClose(t *testing.T) {
	r, reg := newRouter(t)

	w := do(r, http.MethodPost, "/sessions", "user-1", `{"variant":"backoffice"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "backoffice", resp.Variant)
	assert.Equal(t, 1, reg.Len())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/sessions/"+resp.ID, "user-2", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/sessions/"+resp.ID, "user-1", "").Code)
	assert.Equal(t, 0, reg.Len())
}

func TestCreate_DefaultVariant(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/sessions", "user-1", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "portal", resp.Variant)
}

func TestCreate_InvalidVariant(t *testing.T) {
	r, reg := newRouter(t)

	w := do(r, http.MethodPost, "/sessions", "user-1", `{"variant":"kiosk"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, reg.Len())
}
