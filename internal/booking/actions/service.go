// Package actions выполняет действия пользователя над записями: загрузку,
// просмотр, подтверждение и отмену. Изменения статуса проходят через
// оптимистичный протокол и откатываются, если сервер их не принял.
package actions

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/arnela/gabinete-booking/internal/booking/optimistic"
	"github.com/arnela/gabinete-booking/internal/booking/store"
	"github.com/arnela/gabinete-booking/internal/domain"
)

const (
	msgConfirming     = "Confirmando cita..."
	msgConfirmed      = "Cita confirmada correctamente"
	msgConfirmFailed  = "No se pudo confirmar la cita"
	msgCancelling     = "Cancelando cita..."
	msgCancelled      = "Cita cancelada correctamente"
	msgCancelFailed   = "No se pudo cancelar la cita"
	msgLoadFailed     = "No se pudieron cargar las citas"
	msgNotFoundDetail = "No se pudo cargar la cita"
)

// Detail запись вместе с доступными действиями
type Detail struct {
	Appointment domain.Appointment
	Actions     domain.Actions
	DisplayOnly bool
}

// Service действия над записями одной сессии
type Service struct {
	api          AppointmentsAPI
	store        Store
	protocol     *optimistic.Protocol
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger

	// busy занят на время изменения статуса; захватывается атомарно
	busy atomic.Bool
}

func NewService(api AppointmentsAPI, st Store, protocol *optimistic.Protocol, notifier Notifier, logger Logger) *Service {
	return &Service{
		api:          api,
		store:        st,
		protocol:     protocol,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// IsBusy возвращает true, пока выполняется изменение статуса
func (s *Service) IsBusy() bool {
	return s.busy.Load() || s.protocol.IsLoading()
}

// begin захватывает право на изменение статуса; false, если другое изменение уже идет
func (s *Service) begin() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Service) end() {
	s.busy.Store(false)
}

// Load загружает список записей в хранилище
func (s *Service) Load(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	list, err := s.api.ListAppointments(ctx, filter)
	if err != nil {
		s.logger.Warn("Actions: failed to list appointments: %v", err)
		s.notifier.Error(msgLoadFailed)
		return nil, err
	}

	for i := range list {
		list[i].Normalize()
	}
	s.store.SetAppointments(list)
	return list, nil
}

// Open обновляет запись с сервера, делает ее выбранной и возвращает доступные действия
func (s *Service) Open(ctx context.Context, id string) (*Detail, error) {
	a, err := s.api.GetAppointment(ctx, id)
	if err != nil {
		s.logger.Warn("Actions: failed to refresh appointment id=%s: %v", id, err)
		s.notifier.Error(msgNotFoundDetail)
		return nil, err
	}

	a.Normalize()
	if _, ok := s.store.Get(id); ok {
		s.store.Upsert(*a)
	}
	s.store.Select(*a)
	return s.detail(*a), nil
}

// Detail возвращает запись из хранилища с доступными действиями
func (s *Service) Detail(id string) (*Detail, error) {
	a, ok := s.store.Get(id)
	if !ok {
		return nil, ErrAppointmentNotLoaded
	}
	return s.detail(a), nil
}

func (s *Service) detail(a domain.Appointment) *Detail {
	now := s.timeProvider.Now()
	return &Detail{
		Appointment: a,
		Actions:     a.AvailableActions(now),
		DisplayOnly: a.IsDisplayOnly(now),
	}
}

// Confirm подтверждает ожидающую запись
// Ошибка предусловия возвращается до обращения к сети; сетевая ошибка откатывает статус
// и возвращается как ErrNotCommitted вместе с исходной причиной
func (s *Service) Confirm(ctx context.Context, id string, notes *string) (*domain.Appointment, error) {
	if !s.begin() {
		return nil, ErrActionInProgress
	}
	defer s.end()

	current, ok := s.store.Get(id)
	if !ok {
		return nil, ErrAppointmentNotLoaded
	}
	if !current.CanConfirm() {
		return nil, ErrCannotConfirm
	}

	var commitErr error
	result, committed := optimistic.Execute(ctx, s.protocol, optimistic.Update[store.StatusPatch, *domain.Appointment]{
		Name: "confirm " + id,
		Apply: func() store.StatusPatch {
			prior, _ := s.store.ApplyPatch(store.ConfirmPatch(id, notes, s.timeProvider.Now()))
			return prior
		},
		Commit: func(ctx context.Context) (*domain.Appointment, error) {
			return s.api.ConfirmAppointment(ctx, id, notes)
		},
		Rollback: s.store.Restore,
		OnSuccess: func(a *domain.Appointment) {
			a.Normalize()
			s.store.Upsert(*a)
		},
		OnError:        func(err error) { commitErr = err },
		LoadingMessage: msgConfirming,
		SuccessMessage: msgConfirmed,
		ErrorMessage:   msgConfirmFailed,
	})
	if !committed {
		return nil, fmt.Errorf("%w: %w", ErrNotCommitted, commitErr)
	}
	return result, nil
}

// Cancel отменяет запись с обязательной причиной
// Пустая причина отклоняется без обращения к сети
func (s *Service) Cancel(ctx context.Context, id, reason string) (string, error) {
	if err := domain.ValidateCancellationReason(reason); err != nil {
		return "", err
	}
	if !s.begin() {
		return "", ErrActionInProgress
	}
	defer s.end()

	current, ok := s.store.Get(id)
	if !ok {
		return "", ErrAppointmentNotLoaded
	}
	if !current.CanCancel(s.timeProvider.Now()) {
		return "", ErrCannotCancel
	}

	var commitErr error
	message, committed := optimistic.Execute(ctx, s.protocol, optimistic.Update[store.StatusPatch, string]{
		Name: "cancel " + id,
		Apply: func() store.StatusPatch {
			prior, _ := s.store.ApplyPatch(store.CancelPatch(id, strings.TrimSpace(reason), s.timeProvider.Now()))
			return prior
		},
		Commit: func(ctx context.Context) (string, error) {
			return s.api.CancelAppointment(ctx, id, strings.TrimSpace(reason))
		},
		Rollback: s.store.Restore,
		OnSuccess: func(message string) {
			if message == "" {
				message = msgCancelled
			}
			s.notifier.Success(message)
		},
		OnError:        func(err error) { commitErr = err },
		LoadingMessage: msgCancelling,
		ErrorMessage:   msgCancelFailed,
	})
	if !committed {
		return "", fmt.Errorf("%w: %w", ErrNotCommitted, commitErr)
	}
	return message, nil
}
