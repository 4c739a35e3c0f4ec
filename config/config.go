// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads a RecognizerConfig from YAML: schedule timings,
// confidence thresholds, window size, and the list of built-in plugins
// the demo server should register.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"semrec/recognizer"
	"semrec/runner"
	"semrec/scheduler"
)

var configTracer = otel.Tracer("semrec.config")

var (
	configLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "semrec",
		Subsystem: "config",
		Name:      "load_errors_total",
		Help:      "Total RecognizerConfig load failures",
	})

	configLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "semrec",
		Subsystem: "config",
		Name:      "load_duration_seconds",
		Help:      "Time to load and validate a RecognizerConfig file",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
)

// ScheduleYAML mirrors scheduler.Config with explicit millisecond units:
// { realtime_ms, commit_after_ms }.
type ScheduleYAML struct {
	RealtimeMs    int `yaml:"realtime_ms,omitempty"`
	CommitAfterMs int `yaml:"commit_after_ms,omitempty"`
}

// ThresholdsYAML mirrors runner.Config.
type ThresholdsYAML struct {
	Realtime float64 `yaml:"realtime,omitempty"`
	Commit   float64 `yaml:"commit,omitempty"`
}

// RecognizerConfigYAML is the on-disk shape of a recognizer's tunables.
type RecognizerConfigYAML struct {
	WindowSize int             `yaml:"window_size,omitempty"`
	Schedule   *ScheduleYAML   `yaml:"schedule,omitempty"`
	Thresholds *ThresholdsYAML `yaml:"thresholds,omitempty"`

	// Plugins lists the built-in plugin names to register, by the same
	// name each returns from Plugin.Name() (e.g. "quantity", "email").
	// Omitted or empty means every built-in is enabled, matching the
	// demo server's hardcoded default before this field existed.
	Plugins []string `yaml:"plugins,omitempty"`
}

// Load reads and validates a RecognizerConfig from path, recording a
// trace span and metrics for both outcomes. The second return value is
// the enabled-plugin list from Plugins (nil if the file doesn't set it).
func Load(path string) (recognizer.Config, []string, error) {
	start := time.Now()
	_, span := configTracer.Start(context.Background(), "config.Load", trace.WithAttributes(
		attribute.String("semrec.config_path", path),
	))
	defer span.End()

	data, err := os.ReadFile(path)
	if err != nil {
		configLoadErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return recognizer.Config{}, nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, plugins, err := parse(data)
	configLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		configLoadErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return recognizer.Config{}, nil, err
	}
	return cfg, plugins, nil
}

func parse(data []byte) (recognizer.Config, []string, error) {
	var raw RecognizerConfigYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return recognizer.Config{}, nil, fmt.Errorf("parse recognizer config: %w", err)
	}
	return fromYAML(raw), raw.Plugins, nil
}

func fromYAML(raw RecognizerConfigYAML) recognizer.Config {
	cfg := recognizer.Config{WindowSize: raw.WindowSize}

	if raw.Schedule != nil {
		if raw.Schedule.RealtimeMs > 0 {
			cfg.Scheduler.RealtimeMs = time.Duration(raw.Schedule.RealtimeMs) * time.Millisecond
		}
		if raw.Schedule.CommitAfterMs > 0 {
			cfg.Scheduler.CommitAfterMs = time.Duration(raw.Schedule.CommitAfterMs) * time.Millisecond
		}
	}

	if raw.Thresholds != nil {
		cfg.Runner.RealtimeThreshold = raw.Thresholds.Realtime
		cfg.Runner.CommitThreshold = raw.Thresholds.Commit
	}

	return cfg
}

// Default returns a RecognizerConfig with every sub-component's
// documented defaults, equivalent to an empty YAML file.
func Default() recognizer.Config {
	return recognizer.Config{
		WindowSize: 500,
		Scheduler:  scheduler.DefaultConfig(),
		Runner:     runner.DefaultConfig(),
	}
}
