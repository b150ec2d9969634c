package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors the server and the application layer update.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	SalesRecorded    *prometheus.CounterVec
	CoinsAwarded     *prometheus.CounterVec
	CoinsRedeemed    prometheus.Counter
	LoanApplications *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry, so tests can build
// as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddy_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paddy_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SalesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddy_sales_recorded_total",
			Help: "Sales recorded by kind and payment type.",
		}, []string{"kind", "payment_type"}),
		CoinsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddy_coins_awarded_total",
			Help: "Paddy Coins awarded by action.",
		}, []string{"action"}),
		CoinsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paddy_coins_redeemed_total",
			Help: "Paddy Coins spent on redemptions.",
		}),
		LoanApplications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddy_loan_applications_total",
			Help: "Loan applications submitted by tier.",
		}, []string{"tier"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paddy_events_published_total",
			Help: "Domain events handed to the publisher, by type and outcome.",
		}, []string{"event_type", "outcome"}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.SalesRecorded, m.CoinsAwarded,
		m.CoinsRedeemed, m.LoanApplications, m.EventsPublished)
	return m
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry to tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
