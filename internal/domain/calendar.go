package domain

import (
	"fmt"
	"time"
)

// DateOnly обнуляет время, оставляя календарную дату в той же зоне
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate разбирает дату в формате YYYY-MM-DD в зоне loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateFormat, s, loc)
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("fecha inválida %q, se espera YYYY-MM-DD", s))
	}
	return d, nil
}

// IsWeekday returns true for Monday through Friday.
func IsWeekday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// LastBookableDate последний день, доступный для записи
func LastBookableDate(today time.Time) time.Time {
	return DateOnly(today).AddDate(0, BookingHorizonMonths, 0)
}

// IsBookableDate допускает только будни от сегодняшнего дня до сегодня + 6 месяцев включительно
// Чистый предикат над календарной датой, время суток игнорируется
func IsBookableDate(date, today time.Time) bool {
	d := DateOnly(date)
	t := DateOnly(today.In(date.Location()))

	if !IsWeekday(d) {
		return false
	}
	if d.Before(t) {
		return false
	}
	return !d.After(LastBookableDate(t))
}

// CheckBookableDate возвращает ValidationError с причиной, если дата недоступна
func CheckBookableDate(date, today time.Time) error {
	if IsBookableDate(date, today) {
		return nil
	}
	d := DateOnly(date)
	switch {
	case !IsWeekday(d):
		return NewValidationError("date", "solo se pueden reservar citas de lunes a viernes")
	case d.Before(DateOnly(today.In(date.Location()))):
		return NewValidationError("date", "la fecha ya ha pasado")
	default:
		return NewValidationError("date", fmt.Sprintf("solo se puede reservar con %d meses de antelación", BookingHorizonMonths))
	}
}
