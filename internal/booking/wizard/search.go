package wizard

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// searchLocked планирует поиск клиента с задержкой
// Новый ввод отменяет и таймер, и уже выполняющийся поиск
func (w *Wizard) searchLocked(ctx context.Context, query string) {
	q := strings.TrimSpace(query)
	w.searchQuery = q
	w.searchSeq++
	seq, gen := w.searchSeq, w.generation

	if utf8.RuneCountInString(q) < domain.MinSearchLength {
		w.search.Cancel()
		w.clients = nil
		w.searching = false
		w.searchError = ""
		return
	}

	w.searching = true
	w.search.Trigger(context.WithoutCancel(ctx), func(taskCtx context.Context) {
		results, err := w.searcher.SearchClients(taskCtx, q)

		w.mu.Lock()
		if seq != w.searchSeq || gen != w.generation || taskCtx.Err() != nil {
			w.mu.Unlock()
			return
		}

		w.searching = false
		if err != nil {
			w.clients = nil
			w.searchError = domain.UserMessage(err)
		} else {
			w.clients = results
			w.searchError = ""
		}
		state := w.stateLocked()
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("Wizard: client search %q failed: %v", q, err)
		}
		w.publish(state)
	})
}

func (w *Wizard) selectClientLocked(clientID string) error {
	for _, c := range w.clients {
		if c.ID == clientID {
			id, summary := c.ID, c
			w.draft.ClientID = &id
			w.draft.Client = &summary
			return nil
		}
	}
	return domain.NewValidationError("clientId", "selecciona un cliente de los resultados de búsqueda")
}
