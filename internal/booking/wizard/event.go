package wizard

import "time"

// Event событие, которое пользователь отправляет мастеру
// Набор событий закрыт: реализации есть только в этом пакете
type Event interface {
	Name() string
	isEvent()
}

type (
	Open  struct{}
	Close struct{}

	// SearchClients ввод в поле поиска клиента
	SearchClients struct{ Query string }

	// SelectClient выбор клиента из результатов поиска
	SelectClient struct{ ClientID string }

	SelectProvider struct{ ProviderID string }

	// SelectDate календарная дата в часовом поясе клиники
	SelectDate struct{ Date time.Time }

	SetDuration struct{ Minutes int }

	// SetRoom кабинет, только backoffice; пустая строка сбрасывает значение
	SetRoom struct{ Room string }

	SelectSlot struct{ Slot time.Time }

	SetDetails struct {
		Title       string
		Description string
	}

	Next   struct{}
	Back   struct{}
	Submit struct{}
)

func (Open) Name() string           { return "open" }
func (Close) Name() string          { return "close" }
func (SearchClients) Name() string  { return "search_clients" }
func (SelectClient) Name() string   { return "select_client" }
func (SelectProvider) Name() string { return "select_provider" }
func (SelectDate) Name() string     { return "select_date" }
func (SetDuration) Name() string    { return "set_duration" }
func (SetRoom) Name() string        { return "set_room" }
func (SelectSlot) Name() string     { return "select_slot" }
func (SetDetails) Name() string     { return "set_details" }
func (Next) Name() string           { return "next" }
func (Back) Name() string           { return "back" }
func (Submit) Name() string         { return "submit" }

func (Open) isEvent()           {}
func (Close) isEvent()          {}
func (SearchClients) isEvent()  {}
func (SelectClient) isEvent()   {}
func (SelectProvider) isEvent() {}
func (SelectDate) isEvent()     {}
func (SetDuration) isEvent()    {}
func (SetRoom) isEvent()        {}
func (SelectSlot) isEvent()     {}
func (SetDetails) isEvent()     {}
func (Next) isEvent()           {}
func (Back) isEvent()           {}
func (Submit) isEvent()         {}
