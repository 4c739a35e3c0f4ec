// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package recognizer wires Buffer, Store, Emitter, Scheduler and Runner
// into the public engine: feed text in, get entity/remove/diagnostic
// events out.
package recognizer

import (
	"context"
	"fmt"
	"sync"

	"semrec/buffer"
	"semrec/emitter"
	"semrec/entity"
	"semrec/pkg/logging"
	"semrec/plugin"
	"semrec/runner"
	"semrec/scheduler"
	"semrec/store"
)

// State is the lifecycle state of a Recognizer, mirroring the
// uninitialized/ready/stopped shape used elsewhere for long-lived
// components with a destroy path.
type State int

const (
	StateReady State = iota
	StateDestroyed
)

func (s State) String() string {
	if s == StateDestroyed {
		return "destroyed"
	}
	return "ready"
}

// CommitReason names why a commit pass was forced, carried through into
// the info diagnostic so downstream logs can distinguish them.
type CommitReason string

const (
	CommitReasonEnter   CommitReason = "enter"
	CommitReasonBlur    CommitReason = "blur"
	CommitReasonTimeout CommitReason = "timeout"
	CommitReasonManual  CommitReason = "manual"
)

// Input is what Feed accepts.
type Input struct {
	Text      string
	Cursor    *int
	Composing *bool
}

// Snapshot is what State() returns: a point-in-time view of the engine.
type Snapshot struct {
	Text          string
	Revision      int
	Entities      []entity.Entity
	PendingCommit bool
}

// Config bundles the sub-component configuration a Recognizer needs at
// construction.
type Config struct {
	WindowSize int
	Scheduler  scheduler.Config
	Runner     runner.Config
	Logger     *logging.Logger
}

func (c Config) withDefaults() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = 500
	}
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
	return c
}

// Recognizer is the composition root. It owns a Buffer, Store, Emitter,
// Scheduler and Runner and is the only component that mutates the store.
//
// Thread Safety: the recognizer's execution model is single-threaded
// cooperative (see scheduler.Scheduler); mu guards the lifecycle fields
// that the scheduler's own timer goroutines can race against (destroy,
// pass cancellation) and serializes every Feed, State and pass access to
// the buffer and store.
type Recognizer struct {
	mu sync.Mutex

	cfg    Config
	logger *logging.Logger

	buf   *buffer.Buffer
	store *store.Store
	emit  *emitter.Emitter
	sched *scheduler.Scheduler
	run   *runner.Runner

	state State

	realtimeCancel context.CancelFunc
	commitCancel   context.CancelFunc
}

// New builds a Recognizer registered with plugins and ready to accept
// Feed/Commit calls.
func New(plugins []plugin.Plugin, cfg Config) *Recognizer {
	cfg = cfg.withDefaults()

	r := &Recognizer{
		cfg:    cfg,
		logger: cfg.Logger,
		buf:    buffer.New(),
		store:  store.New(),
		emit:   emitter.New(),
		run:    runner.New(plugins, cfg.Runner),
		state:  StateReady,
	}
	r.sched = scheduler.New(cfg.Scheduler, r.runRealtimePass, r.runCommitPass)
	return r
}

// Feed applies new text/cursor/composing state. Text changes arm the
// scheduler; composing becoming true suspends passes until it clears.
func (r *Recognizer) Feed(in Input) {
	r.mu.Lock()
	if r.state == StateDestroyed {
		r.mu.Unlock()
		r.logger.Debug("feed ignored", "error", ErrDestroyed)
		return
	}

	if in.Composing != nil {
		r.sched.SetComposing(*in.Composing)
		if *in.Composing {
			r.mu.Unlock()
			return
		}
	}

	if r.buf.Update(in.Text, in.Cursor) {
		r.sched.ScheduleAnalysis()
	}
	r.mu.Unlock()
}

// Commit forces an immediate commit pass, bypassing the debounce.
func (r *Recognizer) Commit(reason CommitReason) {
	r.mu.Lock()
	if r.state == StateDestroyed {
		r.mu.Unlock()
		r.logger.Debug("commit ignored", "error", ErrDestroyed)
		return
	}
	r.mu.Unlock()

	r.emit.EmitDiagnostic(emitter.DiagnosticEvent{
		Severity: emitter.SeverityInfo,
		Message:  fmt.Sprintf("Commit triggered: %s", reason),
		Source:   "recognizer",
	})
	r.sched.ForceCommit()
}

// State returns a snapshot of the current text, revision, entities and
// commit-pending status.
func (r *Recognizer) State() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Text:          r.buf.Text(),
		Revision:      r.buf.Revision(),
		Entities:      r.store.GetAll(),
		PendingCommit: r.sched.IsPendingCommit(),
	}
}

// OnEntity, OnRemove and OnDiagnostic subscribe to the recognizer's
// three event channels, wrapping the emitter's typed On* calls.
func (r *Recognizer) OnEntity(h emitter.EntityHandler) emitter.Subscription { return r.emit.OnEntity(h) }
func (r *Recognizer) OnRemove(h emitter.RemoveHandler) emitter.Subscription { return r.emit.OnRemove(h) }
func (r *Recognizer) OnDiagnostic(h emitter.DiagnosticHandler) emitter.Subscription {
	return r.emit.OnDiagnostic(h)
}

// Off removes a single subscription previously returned by an On* call.
func (r *Recognizer) Off(sub emitter.Subscription) { r.emit.Off(sub) }

// Destroy stops the scheduler, aborts any in-flight pass, clears every
// listener and resets the buffer and store. Idempotent.
func (r *Recognizer) Destroy() {
	r.mu.Lock()
	if r.state == StateDestroyed {
		r.mu.Unlock()
		return
	}
	r.state = StateDestroyed
	r.cancelInFlightLocked(plugin.ModeRealtime)
	r.cancelInFlightLocked(plugin.ModeCommit)
	r.mu.Unlock()

	r.logger.Info("recognizer destroyed")
	r.sched.Destroy()
	r.emit.RemoveAllListeners("")
	r.store.Clear()
	r.buf.Reset()
}

func (r *Recognizer) cancelInFlightLocked(mode plugin.Mode) {
	var cancel *context.CancelFunc
	if mode == plugin.ModeRealtime {
		cancel = &r.realtimeCancel
	} else {
		cancel = &r.commitCancel
	}
	if *cancel != nil {
		(*cancel)()
		runner.RecordPassCancelled(string(mode))
		*cancel = nil
	}
}

func (r *Recognizer) startPassLocked(mode plugin.Mode) context.Context {
	r.cancelInFlightLocked(mode)
	ctx, cancel := context.WithCancel(context.Background())
	if mode == plugin.ModeRealtime {
		r.realtimeCancel = cancel
	} else {
		r.commitCancel = cancel
	}
	return ctx
}

func (r *Recognizer) buildPluginContext(ctx context.Context, mode plugin.Mode) plugin.Context {
	cursor := r.buf.Cursor()
	return plugin.Context{
		Context:  ctx,
		Text:     r.buf.Text(),
		Window:   r.buf.GetWindow(r.cfg.WindowSize),
		Cursor:   &cursor,
		Mode:     mode,
		Entities: r.store.GetAll(),
		OnEntity: func(c entity.Candidate) { r.streamCandidate(ctx, c) },
	}
}

// streamCandidate lets a plugin push a single candidate ahead of its
// final Result: an immediate upsert into the store followed by the
// matching entity event. The plugin's returned Result must still carry
// the cumulative set so the eventual reconciliation computes removals
// correctly; this only short-circuits the add/update half of that.
func (r *Recognizer) streamCandidate(ctx context.Context, c entity.Candidate) {
	r.mu.Lock()
	if r.state == StateDestroyed || ctx.Err() != nil {
		r.mu.Unlock()
		return
	}
	diff := r.store.Upsert([]entity.Candidate{c})
	r.mu.Unlock()

	r.emitDiff(diff)
}

// runRealtimePass is the scheduler's realtime callback.
func (r *Recognizer) runRealtimePass() {
	r.mu.Lock()
	if r.state == StateDestroyed {
		r.mu.Unlock()
		return
	}
	startRevision := r.buf.Revision()
	ctx := r.startPassLocked(plugin.ModeRealtime)
	pctx := r.buildPluginContext(ctx, plugin.ModeRealtime)
	r.mu.Unlock()

	result := r.run.RunRealtime(ctx, pctx)
	r.finishPass(ctx, startRevision, result, false)
}

// runCommitPass is the scheduler's commit callback.
func (r *Recognizer) runCommitPass() {
	r.mu.Lock()
	if r.state == StateDestroyed {
		r.mu.Unlock()
		return
	}
	startRevision := r.buf.Revision()
	ctx := r.startPassLocked(plugin.ModeCommit)
	pctx := r.buildPluginContext(ctx, plugin.ModeCommit)
	r.mu.Unlock()

	result := r.run.RunCommit(ctx, pctx)

	for i := range result.Upsert {
		result.Upsert[i].Status = entity.StatusConfirmed
	}

	r.finishPass(ctx, startRevision, result, true)
}

// finishPass reconciles a pass's result into the store and emits the
// ordered remove/add/update events. The stale-pass guard clamps spans
// against the buffer's current length rather than discarding the pass
// outright, a deliberate best-effort reconcile choice.
func (r *Recognizer) finishPass(ctx context.Context, startRevision int, result plugin.Result, isCommit bool) {
	r.mu.Lock()
	if r.state == StateDestroyed || ctx.Err() != nil {
		r.mu.Unlock()
		return
	}

	if r.buf.Revision() != startRevision {
		r.logger.Debug("buffer advanced mid-pass, clamping spans",
			"start_revision", startRevision, "current_revision", r.buf.Revision())
		result.Upsert = clampToCurrentText(result.Upsert, r.buf.Text())
	}

	diff := r.store.Reconcile(result.Upsert)
	var promoted []entity.Entity
	if isCommit {
		promoted = r.store.ConfirmAll()
	}

	// No newer pass superseded this one, so release its cancel func now
	// instead of counting it as cancelled when the next pass starts.
	if isCommit {
		r.commitCancel()
		r.commitCancel = nil
	} else {
		r.realtimeCancel()
		r.realtimeCancel = nil
	}
	r.mu.Unlock()

	r.emitDiff(diff)
	for _, e := range promoted {
		r.emit.EmitEntity(emitter.EntityEvent{Entity: e, IsUpdate: true})
	}
}

func (r *Recognizer) emitDiff(diff store.Diff) {
	for _, e := range diff.Removed {
		r.emit.EmitRemove(emitter.RemoveEvent{ID: e.ID, Key: e.Key})
	}
	for _, e := range diff.Added {
		r.emit.EmitEntity(emitter.EntityEvent{Entity: e, IsUpdate: false})
	}
	for _, e := range diff.Updated {
		r.emit.EmitEntity(emitter.EntityEvent{Entity: e, IsUpdate: true})
	}
}

// clampToCurrentText drops candidates whose span no longer fits within
// text, and clamps the rest to text's length, so a pass racing ahead of
// a concurrent edit doesn't reconcile garbage offsets.
func clampToCurrentText(candidates []entity.Candidate, text string) []entity.Candidate {
	out := make([]entity.Candidate, 0, len(candidates))
	n := len(text)
	for _, c := range candidates {
		if c.Span.Start < 0 || c.Span.Start >= n {
			continue
		}
		if c.Span.End > n {
			c.Span.End = n
		}
		if c.Span.End <= c.Span.Start {
			continue
		}
		out = append(out, c)
	}
	return out
}
