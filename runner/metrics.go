// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Plugin Runs
// =============================================================================

var (
	// passLatency measures the wall-clock duration of a full pass across
	// every plugin in that pass's mode.
	// Labels: mode (realtime, commit)
	passLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "semrec",
		Subsystem: "runner",
		Name:      "pass_latency_seconds",
		Help:      "Duration of a full recognizer pass in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"mode"})

	// pluginLatency measures a single plugin's Run duration.
	// Labels: plugin, mode
	pluginLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "semrec",
		Subsystem: "runner",
		Name:      "plugin_latency_seconds",
		Help:      "Duration of a single plugin Run call in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"plugin", "mode"})

	// pluginRuns counts plugin executions by outcome.
	// Labels: plugin, mode, outcome (ok, error, panic, cancelled)
	pluginRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "semrec",
		Subsystem: "runner",
		Name:      "plugin_runs_total",
		Help:      "Total plugin Run invocations by outcome",
	}, []string{"plugin", "mode", "outcome"})

	// candidatesFiltered counts candidates dropped by the confidence
	// threshold after merge.
	// Labels: mode
	candidatesFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "semrec",
		Subsystem: "runner",
		Name:      "candidates_filtered_total",
		Help:      "Total candidates dropped below the confidence threshold",
	}, []string{"mode"})

	// passesCancelled counts in-flight passes aborted because a newer pass
	// in the same mode superseded them or the recognizer was destroyed.
	// Labels: mode
	passesCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "semrec",
		Subsystem: "runner",
		Name:      "passes_cancelled_total",
		Help:      "Total in-flight passes cancelled by a superseding pass in the same mode or by destroy",
	}, []string{"mode"})
)

// RecordPassCancelled increments the cancellation counter for mode. The
// recognizer calls this when it aborts an in-flight pass's context
// because a newer pass in the same mode has started or Destroy was called.
func RecordPassCancelled(mode string) {
	passesCancelled.WithLabelValues(mode).Inc()
}
