package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/api/handlers"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/domain"
	createAppointment "github.com/arnela/gabinete-booking/internal/usecase/create_appointment"
	"github.com/arnela/gabinete-booking/pkg/logger"
)

type fakeUseCase struct {
	got *createAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	a := &domain.Appointment{
		ID: "a-1", ClientID: "c-1", ProviderID: req.ProviderID, Title: req.Title,
		StartTime: req.StartTime, DurationMinutes: req.DurationMinutes, Status: domain.StatusPending,
		CreatedBy: req.UserID,
	}
	a.Normalize()
	return &createAppointment.Response{Appointment: a}, nil
}

const body = `{"providerId":"p-1","title":"Sesión","startTime":"2025-11-24T10:00:00Z","durationMinutes":45}`

func serve(t *testing.T, uc *fakeUseCase, userID, payload string) *httptest.ResponseRecorder {
	t.Helper()
	h := middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.Nop()).Handle))
	r := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(payload))
	if userID != "" {
		r.Header.Set(middleware.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	w := serve(t, uc, "user-1", body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-1", uc.got.UserID)
	assert.Nil(t, uc.got.ClientID)
	assert.Equal(t, time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC), uc.got.StartTime.UTC())

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, "2025-11-24T10:45:00Z", resp["endTime"])
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"conflict", createAppointment.ErrSlotNotAvailable, http.StatusConflict, ""},
		{"busy", createAppointment.ErrScheduleBusy, http.StatusServiceUnavailable, ""},
		{"provider", createAppointment.ErrProviderNotFound, http.StatusNotFound, ""},
		{"validation", fmt.Errorf("%w: %w", createAppointment.ErrInvalidInput, domain.NewValidationError("title", "el título es obligatorio")), http.StatusBadRequest, "title"},
		{"off grid", createAppointment.ErrInvalidTimeSlot, http.StatusBadRequest, ""},
		{"internal", createAppointment.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, &fakeUseCase{err: tt.err}, "user-1", body)
			assert.Equal(t, tt.status, w.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestHandle_RequiresUserAndBody(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(t, &fakeUseCase{}, "", body).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, &fakeUseCase{}, "user-1", `{"providerId":`).Code)
}
