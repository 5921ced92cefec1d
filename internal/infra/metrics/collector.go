// Package metrics provides Prometheus metrics for the provisioning backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds Prometheus metrics for launchpad.
type Collector struct {
	publishRuns     *prometheus.CounterVec
	publishDuration prometheus.Histogram
	blobsUploaded   prometheus.Counter
	verifications   *prometheus.CounterVec
	deploys         *prometheus.CounterVec
	gateRejections  prometheus.Counter
	activePublishes prometheus.Gauge
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		publishRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchpad_publish_runs_total",
				Help: "Repository publish runs by outcome",
			},
			[]string{"outcome"},
		),
		publishDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launchpad_publish_duration_seconds",
				Help:    "Wall time of a repository publish run",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		blobsUploaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "launchpad_blobs_uploaded_total",
				Help: "Blobs created on the git host",
			},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchpad_verifications_total",
				Help: "Credential verifications by kind and result",
			},
			[]string{"kind", "result"},
		),
		deploys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchpad_deploys_total",
				Help: "Deployment triggers by outcome",
			},
			[]string{"outcome"},
		),
		gateRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "launchpad_gate_rejections_total",
				Help: "Setup requests refused because the app is already configured",
			},
		),
		activePublishes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "launchpad_publishes_active",
				Help: "Publish runs currently streaming",
			},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.publishRuns.Describe(ch)
	c.publishDuration.Describe(ch)
	c.blobsUploaded.Describe(ch)
	c.verifications.Describe(ch)
	c.deploys.Describe(ch)
	c.gateRejections.Describe(ch)
	c.activePublishes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.publishRuns.Collect(ch)
	c.publishDuration.Collect(ch)
	c.blobsUploaded.Collect(ch)
	c.verifications.Collect(ch)
	c.deploys.Collect(ch)
	c.gateRejections.Collect(ch)
	c.activePublishes.Collect(ch)
}

// PublishStarted marks a run as active and returns a func that records its end.
// outcome is "success" or an error code.
func (c *Collector) PublishStarted() func(outcome string) {
	start := time.Now()
	c.activePublishes.Inc()
	return func(outcome string) {
		c.activePublishes.Dec()
		c.publishRuns.WithLabelValues(outcome).Inc()
		c.publishDuration.Observe(time.Since(start).Seconds())
	}
}

// RecordBlob counts one uploaded blob.
func (c *Collector) RecordBlob() {
	c.blobsUploaded.Inc()
}

// RecordVerification counts one credential probe.
func (c *Collector) RecordVerification(kind string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	c.verifications.WithLabelValues(kind, result).Inc()
}

// RecordDeploy counts one deployment trigger.
func (c *Collector) RecordDeploy(outcome string) {
	c.deploys.WithLabelValues(outcome).Inc()
}

// RecordGateRejection counts one request refused by the configured gate.
func (c *Collector) RecordGateRejection() {
	c.gateRejections.Inc()
}
