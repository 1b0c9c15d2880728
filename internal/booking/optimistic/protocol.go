// Package optimistic применяет изменение локального состояния до ответа сервера
// и откатывает его, если сетевой вызов завершился ошибкой.
package optimistic

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/arnela/gabinete-booking/internal/domain"
)

const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"

	defaultLoadingMessage = "Procesando..."
)

// Update описание одного оптимистичного обновления
//
// Apply выполняется синхронно и возвращает прежние значения тех полей,
// которые оно изменило. Rollback получает ровно это значение.
type Update[S, T any] struct {
	Name string

	Apply     func() S
	Commit    func(ctx context.Context) (T, error)
	Rollback  func(prior S)
	OnSuccess func(result T)
	OnError   func(err error)

	LoadingMessage string
	SuccessMessage string
	ErrorMessage   string // пусто: сообщение выводится из класса ошибки
}

// Protocol выполняет оптимистичные обновления и сообщает об исходе через Notifier
// Перекрывающиеся вызовы не сериализуются: вызывающая сторона проверяет IsLoading
type Protocol struct {
	notifier Notifier
	metrics  Metrics
	logger   Logger

	inFlight atomic.Int64
}

func New(notifier Notifier, metrics Metrics, logger Logger) *Protocol {
	return &Protocol{
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// IsLoading возвращает true, пока есть незавершенные вызовы
func (p *Protocol) IsLoading() bool {
	return p.inFlight.Load() > 0
}

// Execute применяет обновление и дожидается подтверждения
// При ошибке состояние откатывается, а результат равен (zero, false); паника и ошибка наружу не выходят
func Execute[S, T any](ctx context.Context, p *Protocol, u Update[S, T]) (result T, ok bool) {
	prior := u.Apply()

	p.inFlight.Add(1)
	loadingMsg := u.LoadingMessage
	if loadingMsg == "" {
		loadingMsg = defaultLoadingMessage
	}
	loadingID := p.notifier.Loading(loadingMsg)

	value, err := commit(ctx, u.Commit)

	if err != nil {
		// откат до снятия индикатора загрузки
		u.Rollback(prior)
		p.notifier.Dismiss(loadingID)
		p.inFlight.Add(-1)

		p.logger.Warn("Optimistic %s: rolled back: %v", u.Name, err)
		p.metrics.IncOptimistic(OutcomeRolledBack)

		if u.OnError != nil {
			u.OnError(err)
		}

		msg := u.ErrorMessage
		if msg == "" {
			msg = domain.UserMessage(err)
		}
		p.notifier.Error(msg)

		var zero T
		return zero, false
	}

	p.notifier.Dismiss(loadingID)
	p.inFlight.Add(-1)

	p.metrics.IncOptimistic(OutcomeCommitted)
	p.logger.Info("Optimistic %s: committed", u.Name)

	if u.OnSuccess != nil {
		u.OnSuccess(value)
	}
	if u.SuccessMessage != "" {
		p.notifier.Success(u.SuccessMessage)
	}
	return value, true
}

func commit[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("commit panicked: %v", r)
		}
	}()
	return fn(ctx)
}
