// Package metrics holds the gateway's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aspect-build/dstack-gateway/internal/attestation"
	"github.com/aspect-build/dstack-gateway/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dstack_gateway"

var _ attestation.Observer = (*Metrics)(nil)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	agentCalls *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, including the agent round trip.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		agentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_calls_total",
			Help:      "Attestation agent round trips, by operation and outcome.",
		}, []string{"op", "outcome"}),
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build metadata of the running gateway.",
	}, []string{"version", "commit"})
	buildInfo.WithLabelValues(version.Version, version.GitCommit).Set(1)

	reg.MustRegister(
		m.requests,
		m.latency,
		m.agentCalls,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, took time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(took.Seconds())
}

func (m *Metrics) ObserveAgentCall(op string, outcome attestation.Outcome) {
	m.agentCalls.WithLabelValues(op, string(outcome)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
