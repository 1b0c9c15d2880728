package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClinicSchedule(t *testing.T) {
	s, err := NewClinicSchedule(time.UTC, "09:00", "20:00", 30, 60)
	require.NoError(t, err)
	assert.Equal(t, 540, s.OpensAt)
	assert.Equal(t, 1200, s.ClosesAt)
	assert.Equal(t, time.Hour, s.MinNotice)

	_, err = NewClinicSchedule(time.UTC, "20:00", "09:00", 30, 0)
	assert.Error(t, err)
	_, err = NewClinicSchedule(time.UTC, "9am", "20:00", 30, 0)
	assert.Error(t, err)
	_, err = NewClinicSchedule(time.UTC, "09:00", "20:00", 0, 0)
	assert.Error(t, err)
}

func TestClinicSchedule_IsOnGrid(t *testing.T) {
	s, err := NewClinicSchedule(time.UTC, "09:00", "20:00", 30, 0)
	require.NoError(t, err)

	at := func(day, h, m int) time.Time { return time.Date(2025, 11, day, h, m, 0, 0, time.UTC) }

	assert.True(t, s.IsOnGrid(at(24, 9, 0), 60))
	assert.True(t, s.IsOnGrid(at(24, 10, 30), 45))
	assert.True(t, s.IsOnGrid(at(24, 19, 0), 60))
	assert.False(t, s.IsOnGrid(at(24, 19, 30), 60), "ends after closing")
	assert.False(t, s.IsOnGrid(at(24, 8, 30), 45), "before opening")
	assert.False(t, s.IsOnGrid(at(24, 10, 15), 45), "off grid")
	assert.False(t, s.IsOnGrid(at(29, 10, 0), 60), "saturday")
}

func TestClinicSchedule_DayBoundsInLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	s, err := NewClinicSchedule(loc, "09:00", "14:00", 30, 0)
	require.NoError(t, err)

	open, close := s.DayBounds(time.Date(2025, 11, 24, 0, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 11, 24, 8, 0, 0, 0, time.UTC), open.UTC())
	assert.Equal(t, time.Date(2025, 11, 24, 13, 0, 0, 0, time.UTC), close.UTC())
}

func TestClinicSchedule_DayBoundsOnDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	s, err := NewClinicSchedule(loc, "09:00", "20:00", 30, 0)
	require.NoError(t, err)

	// 30.03.2025 переход на летнее время, 26.10.2025 обратно
	for _, day := range []time.Time{
		time.Date(2025, 3, 30, 0, 0, 0, 0, loc),
		time.Date(2025, 10, 26, 0, 0, 0, 0, loc),
	} {
		open, close := s.DayBounds(day)
		assert.Equal(t, 9, open.Hour(), day.Format(DateFormat))
		assert.Equal(t, 0, open.Minute())
		assert.Equal(t, 20, close.Hour(), day.Format(DateFormat))
		assert.Equal(t, day.Day(), open.Day())
	}

	open, _ := s.DayBounds(time.Date(2025, 3, 30, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 30, 7, 0, 0, 0, time.UTC), open.UTC())
}
