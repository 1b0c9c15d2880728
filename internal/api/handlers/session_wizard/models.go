package session_wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

var errUnknownEvent = errors.New("unknown event type")

// EventRequest событие мастера; используются только поля, относящиеся к type
type EventRequest struct {
	Type        string     `json:"type"`
	Query       string     `json:"query,omitempty"`
	ClientID    string     `json:"clientId,omitempty"`
	ProviderID  string     `json:"providerId,omitempty"`
	Date        string     `json:"date,omitempty"` // YYYY-MM-DD в часовом поясе клиники
	Minutes     int        `json:"minutes,omitempty"`
	Room        string     `json:"room,omitempty"`
	Slot        *time.Time `json:"slot,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
}

// ToEvent конвертирует запрос в событие мастера
func (r *EventRequest) ToEvent(loc *time.Location) (wizard.Event, error) {
	switch strings.TrimSpace(r.Type) {
	case "open":
		return wizard.Open{}, nil
	case "close":
		return wizard.Close{}, nil
	case "search_clients":
		return wizard.SearchClients{Query: r.Query}, nil
	case "select_client":
		return wizard.SelectClient{ClientID: r.ClientID}, nil
	case "select_provider":
		return wizard.SelectProvider{ProviderID: r.ProviderID}, nil
	case "select_date":
		date, err := time.ParseInLocation(domain.DateFormat, r.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date format: %w", err)
		}
		return wizard.SelectDate{Date: date}, nil
	case "set_duration":
		return wizard.SetDuration{Minutes: r.Minutes}, nil
	case "set_room":
		return wizard.SetRoom{Room: r.Room}, nil
	case "select_slot":
		if r.Slot == nil {
			return nil, errors.New("slot is required")
		}
		return wizard.SelectSlot{Slot: r.Slot.UTC()}, nil
	case "set_details":
		return wizard.SetDetails{Title: r.Title, Description: r.Description}, nil
	case "next":
		return wizard.Next{}, nil
	case "back":
		return wizard.Back{}, nil
	case "submit":
		return wizard.Submit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEvent, r.Type)
	}
}

type DraftResponse struct {
	ClientID        *string                       `json:"clientId,omitempty"`
	Client          *models.ClientSummaryResponse `json:"client,omitempty"`
	ProviderID      *string                       `json:"providerId,omitempty"`
	Date            *string                       `json:"date,omitempty"`
	DurationMinutes int                           `json:"durationMinutes"`
	Room            *string                       `json:"room,omitempty"`
	SelectedSlot    *time.Time                    `json:"selectedSlot,omitempty"`
	Title           string                        `json:"title"`
	Description     *string                       `json:"description,omitempty"`
}

// StateResponse снимок мастера
type StateResponse struct {
	Version      uint64                         `json:"version"`
	Variant      string                         `json:"variant"`
	Step         string                         `json:"step"`
	Draft        DraftResponse                  `json:"draft"`
	Slots        []time.Time                    `json:"slots"`
	SlotsLoading bool                           `json:"slotsLoading"`
	SlotsError   string                         `json:"slotsError,omitempty"`
	SearchQuery  string                         `json:"searchQuery,omitempty"`
	Clients      []models.ClientSummaryResponse `json:"clients"`
	Searching    bool                           `json:"searching"`
	SearchError  string                         `json:"searchError,omitempty"`
	LastError    string                         `json:"lastError,omitempty"`
	CanGoNext    bool                           `json:"canGoNext"`
	CanGoBack    bool                           `json:"canGoBack"`
	CanSubmit    bool                           `json:"canSubmit"`
}

// SubmitResponse ответ на submit: созданная запись и новое состояние мастера
type SubmitResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	Wizard      StateResponse               `json:"wizard"`
}

// FromState конвертирует снимок мастера в DTO; время слотов в UTC
func FromState(s wizard.State) StateResponse {
	resp := StateResponse{
		Version:      s.Version,
		Variant:      string(s.Variant),
		Step:         s.Step,
		Slots:        make([]time.Time, 0, len(s.Slots)),
		SlotsLoading: s.SlotsLoading,
		SlotsError:   s.SlotsError,
		SearchQuery:  s.SearchQuery,
		Clients:      make([]models.ClientSummaryResponse, 0, len(s.Clients)),
		Searching:    s.Searching,
		SearchError:  s.SearchError,
		LastError:    s.LastError,
		CanGoNext:    s.CanGoNext,
		CanGoBack:    s.CanGoBack,
		CanSubmit:    s.CanSubmit,
	}

	for _, slot := range s.Slots {
		resp.Slots = append(resp.Slots, slot.UTC())
	}
	for _, c := range s.Clients {
		resp.Clients = append(resp.Clients, clientSummary(c))
	}

	d := s.Draft
	resp.Draft = DraftResponse{
		ClientID:        d.ClientID,
		ProviderID:      d.ProviderID,
		DurationMinutes: d.DurationMinutes,
		Room:            d.Room,
		Title:           d.Title,
		Description:     d.Description,
	}
	if d.Client != nil {
		c := clientSummary(*d.Client)
		resp.Draft.Client = &c
	}
	if d.Date != nil {
		date := d.Date.Format(domain.DateFormat)
		resp.Draft.Date = &date
	}
	if d.SelectedSlot != nil {
		slot := d.SelectedSlot.UTC()
		resp.Draft.SelectedSlot = &slot
	}

	return resp
}

func clientSummary(c domain.ClientSummary) models.ClientSummaryResponse {
	return models.ClientSummaryResponse{ID: c.ID, Name: c.Name, DNI: c.DNI, Email: c.Email}
}
