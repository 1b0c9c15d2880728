package domain

import (
	"fmt"
	"time"
)

// ClinicSchedule рабочее время клиники
// Приём возможен по будням с OpensAt до ClosesAt, начало слота кратно StepMinutes от открытия
type ClinicSchedule struct {
	Location    *time.Location
	OpensAt     int // минуты от полуночи
	ClosesAt    int // минуты от полуночи
	StepMinutes int
	MinNotice   time.Duration
}

// NewClinicSchedule разбирает время открытия и закрытия в формате HH:MM
func NewClinicSchedule(loc *time.Location, opensAt, closesAt string, stepMinutes, minNoticeMinutes int) (ClinicSchedule, error) {
	opens, err := parseClock(opensAt)
	if err != nil {
		return ClinicSchedule{}, err
	}
	closes, err := parseClock(closesAt)
	if err != nil {
		return ClinicSchedule{}, err
	}
	if opens >= closes {
		return ClinicSchedule{}, fmt.Errorf("opening time %s must be before closing time %s", opensAt, closesAt)
	}
	if stepMinutes <= 0 {
		return ClinicSchedule{}, fmt.Errorf("slot step must be positive, got %d", stepMinutes)
	}
	if loc == nil {
		loc = time.UTC
	}

	return ClinicSchedule{
		Location:    loc,
		OpensAt:     opens,
		ClosesAt:    closes,
		StepMinutes: stepMinutes,
		MinNotice:   time.Duration(minNoticeMinutes) * time.Minute,
	}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DayBounds возвращает время открытия и закрытия в указанный день
// Часы считаются по местному времени, в том числе в дни перехода на летнее время
func (s ClinicSchedule) DayBounds(date time.Time) (open, close time.Time) {
	y, m, d := date.In(s.Location).Date()
	open = time.Date(y, m, d, s.OpensAt/60, s.OpensAt%60, 0, 0, s.Location)
	close = time.Date(y, m, d, s.ClosesAt/60, s.ClosesAt%60, 0, 0, s.Location)
	return open, close
}

// IsOnGrid проверяет, что приём начинается на сетке слотов и заканчивается до закрытия
func (s ClinicSchedule) IsOnGrid(start time.Time, durationMinutes int) bool {
	local := start.In(s.Location)
	if !IsWeekday(local) {
		return false
	}
	open, close := s.DayBounds(local)
	if local.Before(open) || EndTime(local, durationMinutes).After(close) {
		return false
	}
	offset := local.Sub(open)
	return offset%(time.Duration(s.StepMinutes)*time.Minute) == 0
}

// EarliestStart самое раннее допустимое начало приёма относительно now
func (s ClinicSchedule) EarliestStart(now time.Time) time.Time {
	return now.Add(s.MinNotice)
}
