package mock

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics are the Prometheus collectors of one server
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog_mock",
			Name:      "requests_total",
			Help:      "REST requests served, by method, table and status.",
		}, []string{"method", "table", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalog_mock",
			Name:      "request_duration_seconds",
			Help:      "REST request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "table"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "catalog_mock",
			Name:      "table_rows",
			Help:      "Rows currently stored per table.",
		}, []string{"table"}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.rows)
	return m
}

func (m *metrics) observe(method, table string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, table, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, table).Observe(d.Seconds())
}
