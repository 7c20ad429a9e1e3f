package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	events   *prometheus.CounterVec
	mounts   *prometheus.CounterVec
	requests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burger",
			Name:      "events_total",
			Help:      "Domain events dispatched, by type.",
		}, []string{"type"}),
		mounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burger",
			Name:      "view_mounts_total",
			Help:      "Views mounted by the navigator, by view.",
		}, []string{"view"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burger",
			Name:      "http_requests_total",
			Help:      "Local API requests, by method and status code.",
		}, []string{"method", "code"}),
	}
	m.Registry.MustRegister(
		m.events,
		m.mounts,
		m.requests,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveRequest(method, code string) {
	m.requests.WithLabelValues(method, code).Inc()
}
