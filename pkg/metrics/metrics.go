package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the board's collectors on a private registry so several
// boards (and tests) can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	OrdersPlacedTotal    *prometheus.CounterVec
	OrdersCancelledTotal *prometheus.CounterVec
	CancelMissesTotal    prometheus.Counter
	ValidationRejects    *prometheus.CounterVec
	AggregationConflicts *prometheus.CounterVec
	OpenOrders           prometheus.Gauge
	SummaryLatencyMs     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		Registry:             prometheus.NewRegistry(),
		OrdersPlacedTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_placed_total", Help: "Orders placed by side"}, []string{"side"}),
		OrdersCancelledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_cancelled_total", Help: "Orders cancelled by side"}, []string{"side"}),
		CancelMissesTotal:    prometheus.NewCounter(prometheus.CounterOpts{Name: "order_cancel_misses_total", Help: "Cancels that matched no open order"}),
		ValidationRejects:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "order_validation_rejects_total", Help: "Orders rejected at placement by field"}, []string{"field"}),
		AggregationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "aggregation_conflicts_total", Help: "Summaries that failed on a mixed-asset price level"}, []string{"side"}),
		OpenOrders:           prometheus.NewGauge(prometheus.GaugeOpts{Name: "open_orders", Help: "Orders currently on the board"}),
		SummaryLatencyMs:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: "summary_latency_ms", Help: "Time to aggregate one side", Buckets: prometheus.ExponentialBuckets(0.01, 4, 10)}),
	}
	m.Registry.MustRegister(
		m.OrdersPlacedTotal,
		m.OrdersCancelledTotal,
		m.CancelMissesTotal,
		m.ValidationRejects,
		m.AggregationConflicts,
		m.OpenOrders,
		m.SummaryLatencyMs,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
