// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-run gauges for the briefing job and writes
// them in the Prometheus text format for the node_exporter textfile
// collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

const namespace = "clinical_briefing"

// RunMetrics holds the gauges for one pipeline run. It satisfies the
// pipeline's Recorder interface.
type RunMetrics struct {
	registry *prometheus.Registry

	fetched       *prometheus.GaugeVec
	excluded      *prometheus.GaugeVec
	ranked        *prometheus.GaugeVec
	fetchFailed   *prometheus.GaugeVec
	runDuration   prometheus.Gauge
	lastSuccess   prometheus.Gauge
	highlightSize prometheus.Gauge
}

// NewRunMetrics registers the run gauges on a fresh registry.
func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()

	perCategory := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "category",
				Name:      name,
				Help:      help,
			},
			[]string{"category"},
		)
	}

	m := &RunMetrics{
		registry:    registry,
		fetched:     perCategory("papers_fetched", "Records returned by retrieval in the last run."),
		excluded:    perCategory("papers_excluded", "Records dropped as low value in the last run."),
		ranked:      perCategory("papers_ranked", "Papers ranked in the last run."),
		fetchFailed: perCategory("fetch_failed", "1 when retrieval failed for the category in the last run."),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run in seconds.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that rendered a briefing.",
		}),
		highlightSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "highlights",
			Help:      "Papers in the cross-category highlight list.",
		}),
	}

	registry.MustRegister(m.fetched, m.excluded, m.ranked, m.fetchFailed, m.runDuration, m.lastSuccess, m.highlightSize)
	return m
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry { return m.registry }

// ObserveCategory records the counts for one category result.
func (m *RunMetrics) ObserveCategory(res types.CategoryResult) {
	name := res.Category.Name
	m.fetched.WithLabelValues(name).Set(float64(res.Fetched))
	m.excluded.WithLabelValues(name).Set(float64(res.Excluded))
	m.ranked.WithLabelValues(name).Set(float64(len(res.Papers)))

	failed := 0.0
	if res.FetchError != "" {
		failed = 1
	}
	m.fetchFailed.WithLabelValues(name).Set(failed)
}

// ObserveRun records the run duration, the highlight count and, when the
// briefing was rendered, the completion time.
func (m *RunMetrics) ObserveRun(duration time.Duration, highlights int, completed time.Time) {
	m.runDuration.Set(duration.Seconds())
	m.highlightSize.Set(float64(highlights))
	if !completed.IsZero() {
		m.lastSuccess.Set(float64(completed.Unix()))
	}
}

// WriteFile writes all gauges to path in the Prometheus text format. The
// file is written atomically.
func (m *RunMetrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
