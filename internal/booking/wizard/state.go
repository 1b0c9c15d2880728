package wizard

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// State снимок состояния мастера
// Version растет с каждым снимком; слушатели получают снимки в порядке версий
type State struct {
	Version uint64
	Variant Variant
	Step    string
	Draft   Draft

	Slots        []time.Time
	SlotsLoading bool
	SlotsError   string

	SearchQuery string
	Clients     []domain.ClientSummary
	Searching   bool
	SearchError string

	LastError string

	CanGoNext bool
	CanGoBack bool
	CanSubmit bool
}

// Snapshot возвращает текущее состояние
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wizard) stateLocked() State {
	w.version++
	s := State{
		Version:      w.version,
		Variant:      w.variant,
		Step:         w.step.Name(),
		Draft:        w.draft.clone(),
		Slots:        append([]time.Time(nil), w.slots...),
		SlotsLoading: w.slotsLoading,
		SlotsError:   w.slotsError,
		SearchQuery:  w.searchQuery,
		Clients:      append([]domain.ClientSummary(nil), w.clients...),
		Searching:    w.searching,
		SearchError:  w.searchError,
		LastError:    w.lastError,
	}

	switch w.step.(type) {
	case SelectingClient:
		s.CanGoNext = w.draft.ClientID != nil
	case SelectingProvider:
		s.CanGoNext = w.draft.ProviderID != nil
		s.CanGoBack = w.variant == VariantBackoffice
	case SelectingDateTime:
		s.CanGoNext = w.draft.SelectedSlot != nil && containsSlot(w.slots, *w.draft.SelectedSlot)
		s.CanGoBack = true
	case EnteringDetails:
		s.CanGoBack = true
		s.CanSubmit = domain.ValidateTitle(w.draft.Title) == nil
	}
	return s
}
