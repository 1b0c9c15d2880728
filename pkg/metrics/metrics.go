package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	apiRetries  *prometheus.CounterVec

	wizardTransitions *prometheus.CounterVec
	slotFetches       *prometheus.CounterVec
	optimistic        *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	notifications     *prometheus.CounterVec

	registerer prometheus.Registerer
}

// New регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует метрики в переданном registry
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests handled.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database queries that returned an error.",
			ConstLabels: labels,
		}, []string{"operation"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agenda_api_requests_total",
			Help:        "Outbound requests to the agenda API.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "agenda_api_request_duration_seconds",
			Help:        "Outbound agenda API latency including retries.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agenda_api_retries_total",
			Help:        "Retried outbound agenda API requests.",
			ConstLabels: labels,
		}, []string{"method", "route"}),
		wizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_wizard_events_total",
			Help:        "Booking wizard events by step and outcome.",
			ConstLabels: labels,
		}, []string{"step", "event", "outcome"}),
		slotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_slot_fetches_total",
			Help:        "Availability fetches by outcome (applied, stale, error).",
			ConstLabels: labels,
		}, []string{"outcome"}),
		optimistic: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "optimistic_updates_total",
			Help:        "Optimistic updates by outcome (committed, rolled_back).",
			ConstLabels: labels,
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "portal_active_sessions",
			Help:        "Portal sessions currently held in memory.",
			ConstLabels: labels,
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "portal_notifications_total",
			Help:        "Notifications pushed to users by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		registerer: reg,
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.apiRequests,
		m.apiDuration,
		m.apiRetries,
		m.wizardTransitions,
		m.slotFetches,
		m.optimistic,
		m.activeSessions,
		m.notifications,
	)

	return m
}

// Registerer возвращает registry, в котором зарегистрированы метрики
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return nil
	}
	return m.registerer
}

// ObserveHTTPRequest записывает метрики входящего HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// ObserveAPIRequest записывает исходящий запрос к agenda API
// status = 0 означает транспортную ошибку
func (m *Metrics) ObserveAPIRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncAPIRetry(method, route string) {
	if m == nil {
		return
	}
	m.apiRetries.WithLabelValues(method, route).Inc()
}

func (m *Metrics) IncWizardEvent(step, event, outcome string) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(step, event, outcome).Inc()
}

func (m *Metrics) IncSlotFetch(outcome string) {
	if m == nil {
		return
	}
	m.slotFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncOptimistic(outcome string) {
	if m == nil {
		return
	}
	m.optimistic.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) IncNotification(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

// APIRetries счетчик повторов исходящих запросов
func (m *Metrics) APIRetries() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.apiRetries
}
