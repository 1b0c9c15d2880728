package agendaapi

import "time"

// Metrics метрики исходящих запросов
type Metrics interface {
	ObserveAPIRequest(method, route string, status int, d time.Duration)
	IncAPIRetry(method, route string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
