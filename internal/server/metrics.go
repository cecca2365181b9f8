package server

import (
	"sync"
	"sync/atomic"
	"time"
)

type routeCounters struct {
	requests atomic.Int64
	errors   atomic.Int64
	nanos    atomic.Int64
}

// Metrics counts requests per route.
type Metrics struct {
	started time.Time

	mu     sync.RWMutex
	routes map[string]*routeCounters
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{started: time.Now(), routes: make(map[string]*routeCounters)}
}

func (m *Metrics) counters(route string) *routeCounters {
	m.mu.RLock()
	c, ok := m.routes[route]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.routes[route]; !ok {
		c = &routeCounters{}
		m.routes[route] = c
	}
	return c
}

// Observe records one request to route.
func (m *Metrics) Observe(route string, status int, elapsed time.Duration) {
	c := m.counters(route)
	c.requests.Add(1)
	c.nanos.Add(int64(elapsed))
	if status >= 400 {
		c.errors.Add(1)
	}
}

// RouteStats is the snapshot of one route.
type RouteStats struct {
	Requests         int64   `json:"requests"`
	Errors           int64   `json:"errors"`
	AverageLatencyMS float64 `json:"average_latency_ms"`
}

// MetricsSnapshot is the body of GET /metrics.
type MetricsSnapshot struct {
	UptimeSeconds float64               `json:"uptime_seconds"`
	TotalRequests int64                 `json:"total_requests"`
	TotalErrors   int64                 `json:"total_errors"`
	Routes        map[string]RouteStats `json:"routes"`
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		UptimeSeconds: time.Since(m.started).Seconds(),
		Routes:        make(map[string]RouteStats, len(m.routes)),
	}
	for route, c := range m.routes {
		stats := RouteStats{Requests: c.requests.Load(), Errors: c.errors.Load()}
		if stats.Requests > 0 {
			stats.AverageLatencyMS = float64(c.nanos.Load()) / float64(stats.Requests) / float64(time.Millisecond)
		}
		snap.Routes[route] = stats
		snap.TotalRequests += stats.Requests
		snap.TotalErrors += stats.Errors
	}
	return snap
}
