package domain

import "time"

// Interval полуоткрытый интервал времени [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет РЕАЛЬНОЕ пересечение интервалов
// Интервалы, которые только касаются границами, не пересекаются:
// - 10:00-11:00 и 11:00-12:00 → НЕТ пересечения
// - 10:00-11:00 и 10:30-11:15 → ЕСТЬ пересечение
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// OverlapsAny returns true if the interval overlaps any of busy.
func (i Interval) OverlapsAny(busy []Interval) bool {
	for _, b := range busy {
		if i.Overlaps(b) {
			return true
		}
	}
	return false
}
