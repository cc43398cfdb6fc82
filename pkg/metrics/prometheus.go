// Package metrics counts what a clipfinder run did, using Prometheus collectors.
//
// The process is a batch job, so nothing is served over HTTP: the registry is
// written once at the end of a run in the node_exporter textfile format.
// Every method is safe on a nil *Manager, which disables collection.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the collectors for one run.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	requests *prometheus.CounterVec
	games    *prometheus.CounterVec
	events   *prometheus.CounterVec
	clips    *prometheus.CounterVec
	media    *prometheus.CounterVec
	players  *prometheus.CounterVec
	lastRun  prometheus.Gauge
}

// NewManager creates a Manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "clipfinder",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.requests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "stats_requests_total",
		Help:      "Requests sent to the stats service by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	m.games = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "games_total",
		Help:      "Games seen by discovery by outcome (scanned, skipped, failed).",
	}, []string{"outcome"})
	m.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "events_classified_total",
		Help:      "Qualifying play-by-play events by assigned category.",
	}, []string{"category"})
	m.clips = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "clips_total",
		Help:      "Clip URL lookups by category and outcome.",
	}, []string{"category", "outcome"})
	m.media = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "media_operations_total",
		Help:      "Media fetch/trim invocations by outcome.",
	}, []string{"operation", "outcome"})
	m.players = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "players_total",
		Help:      "Requested players by resolution outcome.",
	}, []string{"outcome"})
	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the metrics file was written.",
	})
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Manager) RecordRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Manager) RecordGame(outcome string) {
	if m == nil {
		return
	}
	m.games.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordEvent(category string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(category).Inc()
}

func (m *Manager) RecordClip(category, outcome string) {
	if m == nil {
		return
	}
	m.clips.WithLabelValues(category, outcome).Inc()
}

func (m *Manager) RecordMedia(operation, outcome string) {
	if m == nil {
		return
	}
	m.media.WithLabelValues(operation, outcome).Inc()
}

func (m *Manager) RecordPlayer(outcome string) {
	if m == nil {
		return
	}
	m.players.WithLabelValues(outcome).Inc()
}

// WriteTextfile stamps the run time and writes every collector to path.
// An empty path is a no-op.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	m.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
