// Package metrics holds the Prometheus collectors of the service. Every
// collector is registered on the registry passed to New so tests can use a
// private one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

type Metrics struct {
	reg prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	reconciliations *prometheus.CounterVec
	unitsDeducted   prometheus.Counter
	dbTransient     *prometheus.CounterVec
}

func New(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		// labels: method, route (gin full path), status
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		// labels: outcome (applied, no_deduction, rejected, not_found, error)
		reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Variation inventory reconciliations by outcome",
		}, []string{"outcome"}),

		unitsDeducted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "material_units_deducted_total",
			Help:      "Material units consumed by raised variation inventory",
		}),

		// labels: op (read, write, begin)
		dbTransient: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_transient_errors_total",
			Help:      "Transient database connection failures seen by the retry loop",
		}, []string{"op"}),
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, took time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *Metrics) Reconciliation(outcome string) {
	m.reconciliations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) UnitsDeducted(n int64) {
	if n > 0 {
		m.unitsDeducted.Add(float64(n))
	}
}

func (m *Metrics) DBTransient(op string) {
	m.dbTransient.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
