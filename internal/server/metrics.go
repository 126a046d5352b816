package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the API's Prometheus collectors.
type Metrics struct {
	registry         *prometheus.Registry
	ingredientsAdded *prometheus.CounterVec
	conversionErrors *prometheus.CounterVec
	requests         *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry, so several servers
// can live in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingredientsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocer_ingredients_added_total",
			Help: "Ingredients added to the shopping list by unit kind.",
		}, []string{"kind"}),
		conversionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocer_conversion_errors_total",
			Help: "Rejected unit conversions and additions by error kind.",
		}, []string{"kind"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grocer_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.ingredientsAdded,
		m.conversionErrors,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
