package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal    *prometheus.CounterVec
	dbQueryDuration   *prometheus.HistogramVec
	dbConnectionsOpen *prometheus.GaugeVec

	bookingSubmissions *prometheus.CounterVec
	remindersSent      *prometheus.CounterVec
	reminderErrors     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		dbConnectionsOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		bookingSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_submissions_total",
			Help:        "Booking submissions by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reminders_sent_total",
			Help:        "Reminders stamped as sent by threshold",
			ConstLabels: constLabels,
		}, []string{"threshold"}),
		reminderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reminder_errors_total",
			Help:        "Reminder failures by threshold",
			ConstLabels: constLabels,
		}, []string{"threshold"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.httpRequestsTotal,
			m.httpRequestDuration,
			m.dbQueriesTotal,
			m.dbQueryDuration,
			m.dbConnectionsOpen,
			m.bookingSubmissions,
			m.remindersSent,
			m.reminderErrors,
		)
	}

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnectionsOpen.WithLabelValues("open").Set(float64(open))
	m.dbConnectionsOpen.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnectionsOpen.WithLabelValues("idle").Set(float64(idle))
}

// IncBookingSubmission увеличивает счетчик попыток бронирования
func (m *Metrics) IncBookingSubmission(result string) {
	if m == nil {
		return
	}
	m.bookingSubmissions.WithLabelValues(result).Inc()
}

// IncReminderSent увеличивает счетчик отправленных напоминаний
func (m *Metrics) IncReminderSent(threshold string) {
	if m == nil {
		return
	}
	m.remindersSent.WithLabelValues(threshold).Inc()
}

// IncReminderError увеличивает счетчик ошибок напоминаний
func (m *Metrics) IncReminderError(threshold string) {
	if m == nil {
		return
	}
	m.reminderErrors.WithLabelValues(threshold).Inc()
}
