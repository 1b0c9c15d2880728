package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ProviderID      string
	Date            time.Time // календарная дата в часовом поясе клиники
	DurationMinutes int
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ProviderID      string
	Date            time.Time
	DurationMinutes int
	Slots           []time.Time // начала слотов в UTC, по возрастанию
}
