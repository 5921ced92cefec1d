package gateway

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"launchpad/internal/domain"
)

// StatusResponse is the JSON body returned by GET /api/v1/status.
type StatusResponse struct {
	Service    ServiceStatus `json:"service"`
	Configured bool          `json:"configured"`
	Runs       RunStatus     `json:"runs"`
	Observers  int           `json:"observers"`
}

// ServiceStatus holds build and uptime info.
type ServiceStatus struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// RunStatus counts publish runs seen on the bus since start.
type RunStatus struct {
	Started   int64 `json:"started"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// RunCounters tallies publish runs from bus events.
type RunCounters struct {
	started   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// NewRunCounters subscribes to the publish lifecycle on bus.
func NewRunCounters(bus domain.EventBus) *RunCounters {
	c := &RunCounters{}
	if bus == nil {
		return c
	}
	bus.Subscribe(domain.EventPublishStarted, func(context.Context, domain.Event) { c.started.Add(1) })
	bus.Subscribe(domain.EventPublishCompleted, func(context.Context, domain.Event) { c.completed.Add(1) })
	bus.Subscribe(domain.EventPublishFailed, func(context.Context, domain.Event) { c.failed.Add(1) })
	return c
}

// Snapshot returns the current counts.
func (c *RunCounters) Snapshot() RunStatus {
	return RunStatus{
		Started:   c.started.Load(),
		Completed: c.completed.Load(),
		Failed:    c.failed.Load(),
	}
}

// StatusDeps holds what the status and metrics endpoints report on.
type StatusDeps struct {
	Gate        ConfigGate
	Runs        *RunCounters
	Version     string
	Gatherer    prometheus.Gatherer // nil disables /metrics
	MetricsPath string
}

// RegisterStatusHandlers mounts GET /api/v1/status and the Prometheus endpoint.
func RegisterStatusHandlers(s *Server, deps StatusDeps) {
	startTime := time.Now()
	s.RegisterHTTPRoute("GET /api/v1/status", statusHandler(s, deps, startTime))

	if deps.Gatherer != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.RegisterHTTPRoute("GET "+path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
}

func statusHandler(s *Server, deps StatusDeps, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Service: ServiceStatus{
				Name:          "launchpad",
				Version:       deps.Version,
				UptimeSeconds: int64(time.Since(startTime).Seconds()),
			},
			Configured: deps.Gate.Configured(),
			Observers:  s.Observers(),
		}
		if deps.Runs != nil {
			resp.Runs = deps.Runs.Snapshot()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
