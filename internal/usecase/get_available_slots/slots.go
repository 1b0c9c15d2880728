package get_available_slots

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// generateSlots возвращает свободные начала приёма на дату
//
// Кандидаты идут от открытия клиники с шагом StepMinutes, приём должен закончиться до закрытия.
// Отбрасываются кандидаты раньше now + MinNotice и пересекающиеся с активными записями.
// Пересечение строгое: запись, которая заканчивается ровно в начале слота, его не занимает.
func generateSlots(
	schedule domain.ClinicSchedule,
	date time.Time,
	durationMinutes int,
	now time.Time,
	appointments []*domain.Appointment,
) []time.Time {
	slots := make([]time.Time, 0)

	if !domain.IsWeekday(date.In(schedule.Location)) {
		return slots
	}

	busy := busyIntervals(appointments)
	earliest := schedule.EarliestStart(now)
	open, close := schedule.DayBounds(date)
	step := time.Duration(schedule.StepMinutes) * time.Minute

	for start := open; !domain.EndTime(start, durationMinutes).After(close); start = start.Add(step) {
		if start.Before(earliest) {
			continue
		}
		candidate := domain.Interval{Start: start, End: domain.EndTime(start, durationMinutes)}
		if candidate.OverlapsAny(busy) {
			continue
		}
		slots = append(slots, start.UTC())
	}

	return slots
}

// busyIntervals интервалы, занятые активными записями
func busyIntervals(appointments []*domain.Appointment) []domain.Interval {
	busy := make([]domain.Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		busy = append(busy, a.Interval())
	}
	return busy
}
