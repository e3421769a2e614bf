package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — Prometheus метрики выполнения pipeline.
//
// Методы безопасны для nil-получателя: без метрик вызовы ничего не делают.
type Metrics struct {
	executions        *prometheus.CounterVec
	executionDuration prometheus.Histogram
	cardDuration      *prometheus.HistogramVec
	cardErrors        *prometheus.CounterVec
	httpRequests      prometheus.Counter
}

// NewMetrics регистрирует метрики в reg.
// Для глобального реестра передайте prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardflow_executions_total",
			Help: "Pipeline executions by final status",
		}, []string{"status"}),
		executionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardflow_execution_duration_seconds",
			Help:    "Duration of a whole pipeline execution",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		cardDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cardflow_card_duration_seconds",
			Help:    "Duration of a single card execution",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"executor"}),
		cardErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cardflow_card_errors_total",
			Help: "Card executions that ended with an error",
		}, []string{"executor"}),
		httpRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "cardflow_api_http_requests_total",
			Help: "Total HTTP requests handled by cardflow-api",
		}),
	}
}

// ObserveExecution учитывает завершённый запуск.
func (m *Metrics) ObserveExecution(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(status).Inc()
	m.executionDuration.Observe(d.Seconds())
}

// ObserveCard учитывает выполнение одной карточки.
// executor — имя функции из каталога, а не ID определения от клиента.
func (m *Metrics) ObserveCard(executor string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.cardDuration.WithLabelValues(executor).Observe(d.Seconds())
	if failed {
		m.cardErrors.WithLabelValues(executor).Inc()
	}
}

// IncHTTPRequests учитывает HTTP запрос.
func (m *Metrics) IncHTTPRequests() {
	if m == nil {
		return
	}
	m.httpRequests.Inc()
}
