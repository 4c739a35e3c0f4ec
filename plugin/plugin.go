// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package plugin defines the contract implemented by every entity
// recognizer that the runner drives: the built-in quantity, date/time,
// email, URL and phone matchers are ordinary users of this contract,
// with no special access the runner doesn't also grant to a
// third-party plugin.
package plugin

import (
	"context"

	"semrec/buffer"
	"semrec/entity"
)

// Mode identifies which pass a plugin participates in.
type Mode string

const (
	// ModeRealtime plugins run during the fast, provisional pass, and
	// again during the commit pass (see ModeCommit).
	ModeRealtime Mode = "realtime"

	// ModeCommit plugins run only during the slower, confirming pass.
	// The commit pass also re-runs every realtime plugin, so a
	// realtime-mode plugin never needs to register twice.
	ModeCommit Mode = "commit"
)

// Context is the read-only view of recognizer state a plugin's Run
// receives. Run must not mutate Entities; it reports its findings via
// the returned Result (and, optionally, via OnEntity as it works).
type Context struct {
	context.Context

	// Text is the full buffer text at the time this pass started.
	Text string

	// Window is the cursor-centered slice of Text the plugin should
	// scan. Plugins are free to look outside Window, but Span offsets
	// they return are always relative to Text, not Window.
	Window buffer.Window

	// Cursor is the buffer's cursor offset at pass start. The recognizer
	// always sets it; a text-changing feed that supplies no cursor leaves
	// the buffer's cursor at len(Text).
	Cursor *int

	// Mode is which pass is currently running.
	Mode Mode

	// Entities is a snapshot of everything currently confirmed or
	// provisional in the store, for plugins whose output depends on
	// previously recognized entities.
	Entities []entity.Entity

	// OnEntity, if non-nil, lets a plugin stream a candidate to the
	// recognizer as soon as it is found, ahead of Run returning its final
	// Result: the recognizer performs an immediate single-candidate
	// upsert and entity event, bypassing the pass's merge and confidence
	// filtering. Run's returned Result must still include the cumulative
	// candidate set so reconciliation can compute removals correctly.
	//
	// This exists for plugins that discover candidates incrementally
	// over the course of one Run call (e.g. one watching a streaming LLM
	// response token by token). A plugin that sees its whole input at
	// once, like a regex scan over Window, has nothing to stream early —
	// it should just return its Result and leave OnEntity uncalled.
	OnEntity func(entity.Candidate)
}

// Result is what a plugin returns from a completed Run.
type Result struct {
	// Upsert lists candidates this plugin wants added or updated in the
	// store.
	Upsert []entity.Candidate

	// Remove lists keys this plugin wants explicitly removed,
	// independent of Upsert. The runner does not treat an omitted key
	// as an implicit remove; only reconciliation (driven by the
	// recognizer, not by any one plugin) does that.
	Remove []string
}

// Plugin is a single entity recognizer.
type Plugin interface {
	// Name identifies the plugin for logging, tracing and diagnostics.
	// Must be stable and unique within a single runner.
	Name() string

	// Mode reports which pass this plugin participates in.
	Mode() Mode

	// Priority orders execution within a pass: lower runs first. The
	// conventional default is 100. Plugins with equal priority run in
	// registration order.
	Priority() int

	// Run scans ctx.Window (and, if it chooses, the wider ctx.Text) and
	// returns the candidates it found. Run must respect ctx's
	// cancellation and return promptly once it is done.
	Run(ctx Context) (Result, error)
}
