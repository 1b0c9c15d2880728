// Package wizard реализует пошаговый мастер записи на приём.
//
// Мастер принимает только допустимые пары (шаг, событие), проверяет условия
// перехода вперед и подгружает свободные слоты асинхронно. Результаты запросов,
// отправленных до сброса черновика или вытесненных более новым запросом, отбрасываются.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/pkg/debounce"
)

const (
	outcomeOK         = "ok"
	outcomeInvalid    = "invalid"
	outcomeValidation = "validation"
	outcomeError      = "error"

	msgAppointmentCreated = "Cita creada correctamente"
	msgSlotsFailed        = "No se pudieron cargar los horarios disponibles"
)

// Config параметры мастера
type Config struct {
	Variant        Variant
	SearchDebounce time.Duration
	Location       *time.Location // часовой пояс клиники, в нем считается «сегодня»

	// OnCreated вызывается после успешного создания записи
	OnCreated func(domain.Appointment)
}

// Wizard мастер записи одной сессии
type Wizard struct {
	variant      Variant
	loc          *time.Location
	onCreated    func(domain.Appointment)
	resolver     AvailabilityResolver
	searcher     ClientSearcher
	creator      AppointmentCreator
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	search       *debounce.Debouncer

	mu         sync.Mutex
	step       Step
	draft      Draft
	generation uint64
	version    uint64
	lastError  string

	slots        []time.Time
	slotsLoading bool
	slotsError   string
	slotSeq      uint64
	cancelSlots  context.CancelFunc

	searchQuery string
	searchSeq   uint64
	clients     []domain.ClientSummary
	searching   bool
	searchError string

	listenersMu sync.Mutex
	listeners   map[int]func(State)
	nextID      int

	// deliverMu упорядочивает доставку снимков слушателям
	deliverMu sync.Mutex
	delivered uint64
}

// New создает закрытый мастер
func New(
	cfg Config,
	resolver AvailabilityResolver,
	searcher ClientSearcher,
	creator AppointmentCreator,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Wizard {
	if cfg.Variant == "" {
		cfg.Variant = VariantPortal
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = domain.SearchDebounce
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Wizard{
		variant:      cfg.Variant,
		loc:          cfg.Location,
		onCreated:    cfg.OnCreated,
		resolver:     resolver,
		searcher:     searcher,
		creator:      creator,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		search:       debounce.New(cfg.SearchDebounce),
		step:         Closed{},
		draft:        newDraft(),
		listeners:    make(map[int]func(State)),
	}
}

func (w *Wizard) Variant() Variant {
	return w.variant
}

// Dispatch применяет событие к текущему шагу
// Возвращает ErrInvalidTransition для недопустимой пары (шаг, событие)
// и *domain.ValidationError, если не выполнено условие перехода
func (w *Wizard) Dispatch(ctx context.Context, ev Event) error {
	if _, ok := ev.(Submit); ok {
		_, err := w.Submit(ctx)
		return err
	}

	w.mu.Lock()
	from := w.step
	err := w.handleLocked(ctx, ev)
	state := w.stateLocked()
	w.mu.Unlock()

	w.record(from, ev, err)
	w.publish(state)
	return err
}

func (w *Wizard) handleLocked(ctx context.Context, ev Event) error {
	if _, ok := ev.(Close); ok {
		if _, closed := w.step.(Closed); closed {
			return w.invalid(ev)
		}
		w.resetLocked()
		return nil
	}

	switch w.step.(type) {
	case Closed:
		if _, ok := ev.(Open); ok {
			w.resetLocked()
			w.step = w.variant.InitialStep()
			return nil
		}

	case SelectingClient:
		switch e := ev.(type) {
		case SearchClients:
			w.searchLocked(ctx, e.Query)
			return nil
		case SelectClient:
			return w.selectClientLocked(e.ClientID)
		case Next:
			if w.draft.ClientID == nil {
				return domain.NewValidationError("clientId", "selecciona un cliente para continuar")
			}
			w.step = SelectingProvider{}
			return nil
		}

	case SelectingProvider:
		switch e := ev.(type) {
		case SelectProvider:
			return w.setProviderLocked(e.ProviderID)
		case Next:
			if w.draft.ProviderID == nil {
				return domain.NewValidationError("providerId", "selecciona un especialista para continuar")
			}
			w.step = SelectingDateTime{}
			w.fetchSlotsLocked(ctx, true)
			return nil
		case Back:
			if w.variant == VariantBackoffice {
				w.step = SelectingClient{}
				return nil
			}
		}

	case SelectingDateTime:
		switch e := ev.(type) {
		case SelectProvider:
			if err := w.setProviderLocked(e.ProviderID); err != nil {
				return err
			}
			w.fetchSlotsLocked(ctx, false)
			return nil
		case SelectDate:
			return w.selectDateLocked(ctx, e.Date)
		case SetDuration:
			if err := domain.ValidateDuration(e.Minutes); err != nil {
				return err
			}
			w.draft.DurationMinutes = e.Minutes
			w.fetchSlotsLocked(ctx, false)
			return nil
		case SetRoom:
			if w.variant != VariantBackoffice {
				break
			}
			w.setRoomLocked(e.Room)
			return nil
		case SelectSlot:
			if !containsSlot(w.slots, e.Slot) {
				return domain.NewValidationError("slot", "el horario seleccionado no está disponible")
			}
			slot := e.Slot
			w.draft.SelectedSlot = &slot
			return nil
		case Next:
			if w.draft.SelectedSlot == nil || !containsSlot(w.slots, *w.draft.SelectedSlot) {
				return domain.NewValidationError("slot", "selecciona un horario para continuar")
			}
			w.step = EnteringDetails{}
			return nil
		case Back:
			w.clearSlotsLocked()
			w.draft.SelectedSlot = nil
			w.step = SelectingProvider{}
			return nil
		}

	case EnteringDetails:
		switch e := ev.(type) {
		case SetDetails:
			w.draft.Title = e.Title
			w.draft.Description = nil
			if d := strings.TrimSpace(e.Description); d != "" {
				w.draft.Description = &d
			}
			w.lastError = ""
			return nil
		case Back:
			w.step = SelectingDateTime{}
			w.fetchSlotsLocked(ctx, true)
			return nil
		}
	}

	return w.invalid(ev)
}

func (w *Wizard) invalid(ev Event) error {
	return fmt.Errorf("%w: %s in step %s", ErrInvalidTransition, ev.Name(), w.step.Name())
}

func (w *Wizard) setProviderLocked(providerID string) error {
	id := strings.TrimSpace(providerID)
	if id == "" {
		return domain.NewValidationError("providerId", "selecciona un especialista")
	}
	w.draft.ProviderID = &id
	return nil
}

func (w *Wizard) selectDateLocked(ctx context.Context, date time.Time) error {
	d := domain.DateOnly(date.In(w.loc))
	today := w.timeProvider.Now().In(w.loc)
	if err := domain.CheckBookableDate(d, today); err != nil {
		return err
	}
	w.draft.Date = &d
	w.fetchSlotsLocked(ctx, false)
	return nil
}

func (w *Wizard) setRoomLocked(room string) {
	r := strings.TrimSpace(room)
	if r == "" {
		w.draft.Room = nil
		return
	}
	w.draft.Room = &r
}

// resetLocked закрывает мастер и делает неактуальными все запросы, отправленные до сброса
func (w *Wizard) resetLocked() {
	w.generation++
	w.clearSlotsLocked()
	w.search.Cancel()

	w.step = Closed{}
	w.draft = newDraft()
	w.lastError = ""
	w.searchQuery = ""
	w.clients = nil
	w.searching = false
	w.searchError = ""
}

// Shutdown закрывает мастер и отменяет фоновые запросы
func (w *Wizard) Shutdown() {
	w.mu.Lock()
	w.resetLocked()
	w.mu.Unlock()
}

// Submit отправляет черновик: EnteringDetails → Submitting → Closed
// При ошибке мастер возвращается в EnteringDetails, черновик сохраняется
func (w *Wizard) Submit(ctx context.Context) (*domain.Appointment, error) {
	ev := Submit{}

	w.mu.Lock()
	from := w.step
	if _, ok := w.step.(EnteringDetails); !ok {
		err := w.invalid(ev)
		w.mu.Unlock()
		w.record(from, ev, err)
		return nil, err
	}
	if err := w.checkCompleteLocked(); err != nil {
		w.lastError = domain.UserMessage(err)
		state := w.stateLocked()
		w.mu.Unlock()
		w.record(from, ev, err)
		w.publish(state)
		return nil, err
	}

	req := w.draft.request(w.variant)
	gen := w.generation
	w.step = Submitting{}
	w.lastError = ""
	state := w.stateLocked()
	w.mu.Unlock()
	w.publish(state)

	created, err := w.creator.CreateAppointment(ctx, req)

	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		w.logger.Warn("Wizard: submission result ignored, wizard was reset")
		if err != nil {
			return nil, err
		}
		return created, nil
	}

	if err != nil {
		w.step = EnteringDetails{}
		w.lastError = domain.UserMessage(err)
		state = w.stateLocked()
		w.mu.Unlock()

		w.logger.Warn("Wizard: failed to create appointment provider=%s start=%s: %v",
			req.ProviderID, req.StartTime.Format(time.RFC3339), err)
		w.notifier.Error(state.LastError)
		w.record(from, ev, err)
		w.publish(state)
		return nil, err
	}

	w.resetLocked()
	state = w.stateLocked()
	w.mu.Unlock()

	w.logger.Info("Wizard: appointment id=%s created", created.ID)
	w.notifier.Success(msgAppointmentCreated)
	if w.onCreated != nil {
		w.onCreated(*created)
	}
	w.record(from, ev, nil)
	w.publish(state)
	return created, nil
}

func (w *Wizard) checkCompleteLocked() error {
	if err := domain.ValidateTitle(w.draft.Title); err != nil {
		return err
	}
	if w.variant == VariantBackoffice && w.draft.ClientID == nil {
		return domain.NewValidationError("clientId", "selecciona un cliente")
	}
	if w.draft.ProviderID == nil {
		return domain.NewValidationError("providerId", "selecciona un especialista")
	}
	if w.draft.SelectedSlot == nil {
		return domain.NewValidationError("slot", "selecciona un horario")
	}
	return nil
}

func (w *Wizard) record(from Step, ev Event, err error) {
	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidTransition):
		outcome = outcomeInvalid
	case errors.Is(err, domain.ErrValidation):
		outcome = outcomeValidation
	default:
		outcome = outcomeError
	}
	w.metrics.IncWizardEvent(from.Name(), ev.Name(), outcome)
}

// Subscribe регистрирует слушателя состояния; возвращает функцию отписки
func (w *Wizard) Subscribe(fn func(State)) func() {
	w.listenersMu.Lock()
	defer w.listenersMu.Unlock()

	id := w.nextID
	w.nextID++
	w.listeners[id] = fn

	return func() {
		w.listenersMu.Lock()
		defer w.listenersMu.Unlock()
		delete(w.listeners, id)
	}
}

// publish доставляет снимок слушателям
// Снимок, снятый раньше уже доставленного, отбрасывается
func (w *Wizard) publish(state State) {
	w.deliverMu.Lock()
	defer w.deliverMu.Unlock()

	if state.Version <= w.delivered {
		w.logger.Info("Wizard: outdated snapshot version=%d dropped, delivered=%d", state.Version, w.delivered)
		return
	}
	w.delivered = state.Version

	w.listenersMu.Lock()
	listeners := make([]func(State), 0, len(w.listeners))
	for _, l := range w.listeners {
		listeners = append(listeners, l)
	}
	w.listenersMu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
