// Package metrics holds the Prometheus collectors for the storefront API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Metrics holds Prometheus metrics collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	ReviewsWritten       *prometheus.CounterVec
	ReviewWriteConflicts prometheus.Counter
	OrdersCreated        prometheus.Counter
	OrderValue           prometheus.Histogram
	CartsSaved           prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		ReviewsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reviews_written_total",
				Help:      "Review writes by action (created, updated, deleted)",
			},
			[]string{"action"},
		),
		ReviewWriteConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "review_write_conflicts_total",
				Help:      "Review writes retried because the product changed concurrently",
			},
		),
		OrdersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Total number of orders placed",
			},
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "order_value",
				Help:      "Order total price",
				Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 5000},
			},
		),
		CartsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "carts_saved_total",
				Help:      "Server-side cart writes",
			},
		),
	}
}

// ReviewWritten counts a review write.
func (m *Metrics) ReviewWritten(action string) {
	if m == nil {
		return
	}
	m.ReviewsWritten.WithLabelValues(action).Inc()
}

// ReviewConflict counts a retried review write.
func (m *Metrics) ReviewConflict() {
	if m == nil {
		return
	}
	m.ReviewWriteConflicts.Inc()
}

// OrderCreated counts a placed order and observes its value.
func (m *Metrics) OrderCreated(total float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
	m.OrderValue.Observe(total)
}

// CartSaved counts a server-side cart write.
func (m *Metrics) CartSaved() {
	if m == nil {
		return
	}
	m.CartsSaved.Inc()
}
