// Package debounce реализует отменяемую отложенную задачу.
//
// Каждый новый Trigger отменяет ещё не сработавший таймер и контекст
// задачи, запущенной предыдущим срабатыванием, поэтому в пределах серии
// нажатий выполняется не более одной актуальной задачи.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer откладывает выполнение задачи на delay
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// New создает debouncer с задержкой delay
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay возвращает задержку срабатывания
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger планирует выполнение fn через delay, отменяя предыдущую задачу
// fn получает контекст, который отменяется следующим Trigger или Cancel
func (d *Debouncer) Trigger(parent context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Cancel отменяет запланированную и выполняющуюся задачу
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
