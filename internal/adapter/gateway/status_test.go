package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/domain"
	"launchpad/internal/infra/metrics"
)

func TestStatusEndpoint(t *testing.T) {
	bus := &testBus{}
	runs := NewRunCounters(bus)
	srv := NewServer(bus, nil, "", discardLogger())
	RegisterStatusHandlers(srv, StatusDeps{Gate: &fakeGate{configured: true}, Runs: runs, Version: "v1.2.3"})
	h := srv.Handler()

	for _, ev := range []domain.ProvisioningEvent{domain.CreatingRepo{}, domain.Done{}, domain.CreatingRepo{}, domain.Failed{Error: "x"}} {
		e, err := domain.NewRunEvent("run", 1, ev, time.Now())
		require.NoError(t, err)
		bus.Publish(context.Background(), e)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "launchpad", resp.Service.Name)
	assert.Equal(t, "v1.2.3", resp.Service.Version)
	assert.True(t, resp.Configured)
	assert.Equal(t, RunStatus{Started: 2, Completed: 1, Failed: 1}, resp.Runs)
	assert.Equal(t, 0, resp.Observers)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector()
	reg.MustRegister(collector)
	collector.RecordDeploy("success")

	srv := NewServer(&testBus{}, nil, "", discardLogger())
	RegisterStatusHandlers(srv, StatusDeps{Gate: &fakeGate{}, Gatherer: reg, MetricsPath: "/metrics"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `launchpad_deploys_total{outcome="success"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	srv := NewServer(&testBus{}, nil, "", discardLogger())
	RegisterStatusHandlers(srv, StatusDeps{Gate: &fakeGate{}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
