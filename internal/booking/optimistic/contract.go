package optimistic

// Notifier лента уведомлений пользователя
type Notifier interface {
	Loading(message string) string
	Success(message string) string
	Error(message string) string
	Dismiss(id string) bool
}

// Metrics метрики исходов оптимистичных обновлений
type Metrics interface {
	IncOptimistic(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
