// Package metrics defines the Prometheus collectors of the server and of the
// sync engine. Collectors are registered on a caller-supplied registerer so
// tests can use a private registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "hisab"

// RPC holds the server-side RPC collectors.
type RPC struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewRPC creates and registers the RPC collectors.
func NewRPC(reg prometheus.Registerer) *RPC {
	m := &RPC{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}

// Sync holds the sync engine collectors.
type Sync struct {
	Bootstraps   *prometheus.CounterVec
	RemoteWrites *prometheus.CounterVec
	State        prometheus.Gauge
}

// NewSync creates and registers the sync engine collectors.
func NewSync(reg prometheus.Registerer) *Sync {
	m := &Sync{
		Bootstraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "bootstraps_total",
			Help:      "Bootstrap runs by outcome (loaded, seeded, error).",
		}, []string{"result"}),
		RemoteWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "remote_writes_total",
			Help:      "Remote write attempts by outcome (ok, error, dropped, skipped).",
		}, []string{"result"}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "state",
			Help:      "Current engine state (0 unauthenticated, 1 bootstrapping, 2 synced, 3 sync error).",
		}),
	}
	reg.MustRegister(m.Bootstraps, m.RemoteWrites, m.State)
	return m
}
