package get_available_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/arnela/gabinete-booking/internal/usecase/get_available_slots"
	"github.com/arnela/gabinete-booking/pkg/logger"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	loc := time.FixedZone("CET", 3600)
	return &getAvailableSlots.Response{Slots: []time.Time{time.Date(2025, 11, 24, 9, 0, 0, 0, loc)}}, nil
}

func get(h *Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, time.UTC, logger.Nop())

	w := get(h, "/api/v1/appointments/available-slots?providerId=p-1&date=2025-11-24")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slots":["2025-11-24T08:00:00Z"]}`, w.Body.String())
	assert.Equal(t, 60, uc.got.DurationMinutes)

	w = get(h, "/api/v1/appointments/available-slots?providerId=p-1&date=2025-11-24&duration=45")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 45, uc.got.DurationMinutes)
}

func TestHandle_BadRequests(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, time.UTC, logger.Nop())

	assert.Equal(t, http.StatusBadRequest, get(h, "/x?date=2025-11-24").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/x?providerId=p-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/x?providerId=p-1&date=24/11/2025").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/x?providerId=p-1&date=2025-11-24&duration=abc").Code)

	h = NewHandler(&fakeUseCase{err: getAvailableSlots.ErrProviderNotFound}, time.UTC, logger.Nop())
	assert.Equal(t, http.StatusNotFound, get(h, "/x?providerId=p-1&date=2025-11-24").Code)

	h = NewHandler(&fakeUseCase{err: getAvailableSlots.ErrInvalidDate}, time.UTC, logger.Nop())
	assert.Equal(t, http.StatusBadRequest, get(h, "/x?providerId=p-1&date=2020-01-01").Code)
}
