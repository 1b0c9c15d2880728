package wizard

import (
	"context"
	"time"
)

const (
	slotFetchApplied = "applied"
	slotFetchStale   = "stale"
	slotFetchError   = "error"
)

// fetchSlotsLocked запрашивает слоты для текущих (специалист, дата, длительность)
// Каждый запрос получает новый номер; предыдущий запрос отменяется, его ответ отбрасывается.
// keepSelection сохраняет выбранный слот, если он окажется в новом списке
func (w *Wizard) fetchSlotsLocked(ctx context.Context, keepSelection bool) {
	w.clearSlotsLocked()
	if !keepSelection {
		w.draft.SelectedSlot = nil
	}

	if w.draft.ProviderID == nil || w.draft.Date == nil {
		return
	}

	w.slotSeq++
	seq, gen := w.slotSeq, w.generation
	providerID, date, duration := *w.draft.ProviderID, *w.draft.Date, w.draft.DurationMinutes

	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancelSlots = cancel
	w.slotsLoading = true

	go w.fetchSlots(fetchCtx, cancel, seq, gen, providerID, date, duration)
}

func (w *Wizard) fetchSlots(ctx context.Context, cancel context.CancelFunc, seq, gen uint64, providerID string, date time.Time, duration int) {
	defer cancel()

	slots, err := w.resolver.GetAvailableSlots(ctx, providerID, date, duration)

	w.mu.Lock()
	if seq != w.slotSeq || gen != w.generation {
		w.mu.Unlock()
		w.metrics.IncSlotFetch(slotFetchStale)
		return
	}

	w.slotsLoading = false
	w.cancelSlots = nil

	if err != nil {
		w.slots = nil
		w.slotsError = msgSlotsFailed
		w.draft.SelectedSlot = nil
		state := w.stateLocked()
		w.mu.Unlock()

		w.logger.Warn("Wizard: failed to get slots provider=%s date=%s: %v",
			providerID, date.Format("2006-01-02"), err)
		w.metrics.IncSlotFetch(slotFetchError)
		w.notifier.Error(msgSlotsFailed)
		w.publish(state)
		return
	}

	w.slots = slots
	if w.draft.SelectedSlot != nil && !containsSlot(slots, *w.draft.SelectedSlot) {
		w.draft.SelectedSlot = nil
	}
	state := w.stateLocked()
	w.mu.Unlock()

	w.metrics.IncSlotFetch(slotFetchApplied)
	w.publish(state)
}

// clearSlotsLocked отменяет текущий запрос и очищает список слотов
// Номер запроса увеличивается, чтобы поздний ответ не перезаписал пустой список
func (w *Wizard) clearSlotsLocked() {
	if w.cancelSlots != nil {
		w.cancelSlots()
		w.cancelSlots = nil
	}
	w.slotSeq++
	w.slots = nil
	w.slotsLoading = false
	w.slotsError = ""
}

func containsSlot(slots []time.Time, slot time.Time) bool {
	for _, s := range slots {
		if s.Equal(slot) {
			return true
		}
	}
	return false
}
