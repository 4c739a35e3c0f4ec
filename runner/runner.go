// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package runner orchestrates a registered set of plugins through a
// single recognition pass: priority ordering, mode partitioning,
// sequential execution with fault isolation, result merging and
// confidence-threshold filtering.
package runner

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"semrec/entity"
	"semrec/plugin"
)

var tracer = otel.Tracer("semrec.runner")

// Config holds the per-mode confidence thresholds applied to merged
// candidates before they're returned.
type Config struct {
	// RealtimeThreshold is the minimum confidence a candidate needs to
	// survive a realtime pass. Default: 0.8.
	RealtimeThreshold float64

	// CommitThreshold is the minimum confidence a candidate needs to
	// survive a commit pass. Default: 0.5.
	CommitThreshold float64
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{RealtimeThreshold: 0.8, CommitThreshold: 0.5}
}

func (c Config) withDefaults() Config {
	if c.RealtimeThreshold == 0 {
		c.RealtimeThreshold = DefaultConfig().RealtimeThreshold
	}
	if c.CommitThreshold == 0 {
		c.CommitThreshold = DefaultConfig().CommitThreshold
	}
	return c
}

// Runner holds the plugins registered at construction, already
// partitioned by mode and ordered by ascending priority (ties broken by
// registration order).
type Runner struct {
	cfg      Config
	realtime []plugin.Plugin
	commit   []plugin.Plugin
}

// New registers plugins and sorts each mode partition by ascending
// Priority, stable on registration order for ties.
func New(plugins []plugin.Plugin, cfg Config) *Runner {
	ordered := make([]plugin.Plugin, len(plugins))
	copy(ordered, plugins)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	r := &Runner{cfg: cfg.withDefaults()}
	for _, p := range ordered {
		switch p.Mode() {
		case plugin.ModeRealtime:
			r.realtime = append(r.realtime, p)
		case plugin.ModeCommit:
			r.commit = append(r.commit, p)
		}
	}
	return r
}

// RunRealtime executes only the realtime-mode plugins.
func (r *Runner) RunRealtime(ctx context.Context, base plugin.Context) plugin.Result {
	return r.run(ctx, plugin.ModeRealtime, base, r.realtime)
}

// RunCommit executes every realtime-mode plugin followed by every
// commit-mode plugin, so provisional spans get a chance to be
// reconfirmed by the same matchers that first produced them.
func (r *Runner) RunCommit(ctx context.Context, base plugin.Context) plugin.Result {
	list := make([]plugin.Plugin, 0, len(r.realtime)+len(r.commit))
	list = append(list, r.realtime...)
	list = append(list, r.commit...)
	return r.run(ctx, plugin.ModeCommit, base, list)
}

func (r *Runner) run(ctx context.Context, mode plugin.Mode, base plugin.Context, list []plugin.Plugin) plugin.Result {
	passID := uuid.New().String()
	start := time.Now()

	spanCtx, span := tracer.Start(ctx, "runner.Run", trace.WithAttributes(
		attribute.String("semrec.mode", string(mode)),
		attribute.String("semrec.pass_id", passID),
		attribute.Int("semrec.plugin_count", len(list)),
	))
	defer span.End()

	upsertByKey := make(map[string]entity.Candidate, len(list))
	var upsertOrder []string
	removeSet := make(map[string]struct{})

	for _, p := range list {
		pctx := base
		pctx.Context = spanCtx
		pctx.Mode = mode

		result := r.runOne(spanCtx, p, pctx, mode)

		for _, c := range result.Upsert {
			if _, exists := upsertByKey[c.Key]; !exists {
				upsertOrder = append(upsertOrder, c.Key)
			}
			upsertByKey[c.Key] = c
		}
		for _, k := range result.Remove {
			removeSet[k] = struct{}{}
		}
	}

	for k := range removeSet {
		delete(upsertByKey, k)
	}

	threshold := r.cfg.RealtimeThreshold
	if mode == plugin.ModeCommit {
		threshold = r.cfg.CommitThreshold
	}

	upsert := make([]entity.Candidate, 0, len(upsertOrder))
	for _, k := range upsertOrder {
		c, ok := upsertByKey[k]
		if !ok {
			continue
		}
		if c.Confidence < threshold {
			candidatesFiltered.WithLabelValues(string(mode)).Inc()
			continue
		}
		upsert = append(upsert, c)
	}

	remove := make([]string, 0, len(removeSet))
	for k := range removeSet {
		remove = append(remove, k)
	}

	passLatency.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("semrec.upsert_count", len(upsert)),
		attribute.Int("semrec.remove_count", len(remove)),
	)

	return plugin.Result{Upsert: upsert, Remove: remove}
}

// runOne invokes a single plugin with panic and error isolation: any
// panic or returned error is converted into an empty result so one
// broken plugin never prevents the rest of the pass from completing.
func (r *Runner) runOne(ctx context.Context, p plugin.Plugin, pctx plugin.Context, mode plugin.Mode) plugin.Result {
	start := time.Now()
	_, span := tracer.Start(ctx, "runner.plugin", trace.WithAttributes(
		attribute.String("semrec.plugin", p.Name()),
	))
	defer span.End()

	outcome := "ok"
	var result plugin.Result

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				outcome = "panic"
				span.RecordError(&PluginError{Plugin: p.Name(), Mode: mode, Panic: rec})
				result = plugin.Result{}
			}
		}()

		if ctx.Err() != nil {
			outcome = "cancelled"
			return
		}

		res, err := p.Run(pctx)
		if err != nil {
			outcome = "error"
			span.RecordError(&PluginError{Plugin: p.Name(), Mode: mode, Err: err})
			result = plugin.Result{}
			return
		}
		result = res
	}()

	pluginLatency.WithLabelValues(p.Name(), string(mode)).Observe(time.Since(start).Seconds())
	pluginRuns.WithLabelValues(p.Name(), string(mode), outcome).Inc()
	return result
}
