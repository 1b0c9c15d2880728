package domain

import "time"

// Допустимые длительности приёма в минутах
const (
	Duration45 = 45
	Duration60 = 60

	DefaultDurationMinutes = Duration60
)

// Ограничения бронирования
const (
	BookingHorizonMonths = 6 // дата приёма не дальше 6 месяцев от сегодня
	MinSearchLength      = 2 // минимальная длина запроса поиска клиента
	SearchDebounce       = 300 * time.Millisecond

	MaxTitleLength              = 200
	MaxDescriptionLength        = 2000
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот в расписании специалиста
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusRescheduled,
	StatusCompleted,
}

// IsAllowedDuration проверяет, что длительность входит в {45, 60}
func IsAllowedDuration(minutes int) bool {
	return minutes == Duration45 || minutes == Duration60
}
