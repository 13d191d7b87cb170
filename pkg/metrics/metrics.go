package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
// Регистрируется в глобальном prometheus-регистре при создании
type Metrics struct {
	serviceName string

	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec   // service, method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // service, method, path

	// Метрики базы данных
	DBQueryDuration   *prometheus.HistogramVec // service, operation
	DBQueryErrors     *prometheus.CounterVec   // service, operation
	DBConnectionsOpen *prometheus.GaugeVec     // service
	DBConnectionsIdle *prometheus.GaugeVec     // service

	// Бизнес-метрики ядра бронирования
	HoldsActive          prometheus.Gauge       // количество активных холдов
	HoldsExpiredTotal    prometheus.Counter     // сколько холдов истекло (lazy + sweep)
	HoldConflictsTotal   prometheus.Counter     // сколько аллокаций проиграло гонку за слот
	ConfirmTotal         *prometheus.CounterVec // source=primary|fallback
	ProviderCallDuration prometheus.Histogram   // латентность внешнего провайдера
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"service", "method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"service", "operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Total database query errors",
			},
			[]string{"service", "operation"},
		),
		DBConnectionsOpen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections_open",
				Help: "Open database connections",
			},
			[]string{"service"},
		),
		DBConnectionsIdle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Idle database connections",
			},
			[]string{"service"},
		),
		HoldsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reservation_holds_active",
			Help: "Number of currently active (unexpired) holds",
		}),
		HoldsExpiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservation_holds_expired_total",
			Help: "Total holds flipped to expired (lazy reads and sweeper)",
		}),
		HoldConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservation_hold_conflicts_total",
			Help: "Total hold allocations rejected because the slot was taken",
		}),
		ConfirmTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_confirm_total",
				Help: "Total confirmed holds by booking source",
			},
			[]string{"source"},
		),
		ProviderCallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reservation_provider_call_duration_seconds",
			Help:    "External reservation provider call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnectionsOpen,
		m.DBConnectionsIdle,
		m.HoldsActive,
		m.HoldsExpiredTotal,
		m.HoldConflictsTotal,
		m.ConfirmTotal,
		m.ProviderCallDuration,
	)

	return m
}

// ServiceName возвращает имя сервиса, под которым зарегистрированы метрики
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// IncHoldConflict увеличивает счётчик проигранных аллокаций слота
func (m *Metrics) IncHoldConflict() {
	m.HoldConflictsTotal.Inc()
}

// AddHoldsExpired увеличивает счётчик истёкших холдов
func (m *Metrics) AddHoldsExpired(n int64) {
	m.HoldsExpiredTotal.Add(float64(n))
}

// SetHoldsActive выставляет gauge активных холдов
func (m *Metrics) SetHoldsActive(n int64) {
	m.HoldsActive.Set(float64(n))
}

// IncConfirm увеличивает счётчик подтверждений по источнику брони
func (m *Metrics) IncConfirm(source string) {
	m.ConfirmTotal.WithLabelValues(source).Inc()
}

// ObserveProviderCall записывает латентность вызова внешнего провайдера
func (m *Metrics) ObserveProviderCall(seconds float64) {
	m.ProviderCallDuration.Observe(seconds)
}
