// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors for RPC traffic and settlements.
// Each instance owns its registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	settlements prometheus.Counter
	transfers   prometheus.Histogram
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nbang_rpc_requests_total",
			Help: "Total number of RPC calls by procedure and result code",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nbang_rpc_duration_seconds",
			Help:    "Time taken to serve RPC calls",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"procedure"}),
		settlements: factory.NewCounter(prometheus.CounterOpts{
			Name: "nbang_settlements_total",
			Help: "Total number of settlements calculated",
		}),
		transfers: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nbang_settlement_transfers",
			Help:    "Number of transfers recommended per settlement",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
	}
}

// ObserveRPC records one finished call. code is "ok" for successful calls.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

// ObserveSettlement records one settlement and how many transfers it produced.
func (m *Metrics) ObserveSettlement(transfers int) {
	m.settlements.Inc()
	m.transfers.Observe(float64(transfers))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
