// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scheduler drives the recognizer's two-phase debounce: a fast
// realtime pass after a short quiescence, and a slower confirming commit
// pass after a longer one. It also gates both passes while an IME
// composition is in progress.
//
// The debounce mechanism follows this project's file-watcher pattern
// (batch bursts of activity behind a timer, fire once the burst settles)
// adapted from per-burst batching to two independently-debounced timers
// that share the same arm/rearm trigger.
package scheduler

import (
	"sync"
	"time"
)

// Config holds the two debounce windows. Zero values are replaced with
// the documented defaults by New.
type Config struct {
	// RealtimeMs is how long to wait, quiescent, before firing the fast
	// provisional pass. Default: 150ms.
	RealtimeMs time.Duration

	// CommitAfterMs is how long to wait, quiescent, before firing the
	// confirming pass. Default: 700ms.
	CommitAfterMs time.Duration
}

// DefaultConfig returns the documented defaults: 150ms realtime, 700ms
// commit.
func DefaultConfig() Config {
	return Config{RealtimeMs: 150 * time.Millisecond, CommitAfterMs: 700 * time.Millisecond}
}

func (c Config) withDefaults() Config {
	if c.RealtimeMs <= 0 {
		c.RealtimeMs = DefaultConfig().RealtimeMs
	}
	if c.CommitAfterMs <= 0 {
		c.CommitAfterMs = DefaultConfig().CommitAfterMs
	}
	return c
}

// Scheduler arms and fires the realtime and commit timers.
//
// Thread Safety: Scheduler is safe for concurrent use; its internal
// state is protected by a mutex because timer callbacks run on their own
// goroutines even though the rest of the engine is driven from a single
// logical thread.
type Scheduler struct {
	mu sync.Mutex

	cfg Config

	realtimeTimer *time.Timer
	commitTimer   *time.Timer

	isComposing bool
	isDestroyed bool

	onRealtime func()
	onCommit   func()
}

// New creates a Scheduler that invokes onRealtime when the realtime
// timer fires and onCommit when the commit timer fires, or on
// ForceCommit. A timer fire invokes its callback on the timer's own
// goroutine (the arming call does not await it); ForceCommit invokes
// onCommit synchronously on the caller's goroutine. Neither callback
// may block indefinitely.
func New(cfg Config, onRealtime, onCommit func()) *Scheduler {
	return &Scheduler{
		cfg:        cfg.withDefaults(),
		onRealtime: onRealtime,
		onCommit:   onCommit,
	}
}

// ScheduleAnalysis (re)arms both timers from now. A no-op when destroyed
// or composing. Every call resets both timers, so the realtime pass only
// fires after RealtimeMs of quiescence and the commit pass only fires
// after CommitAfterMs of quiescence.
func (s *Scheduler) ScheduleAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isDestroyed || s.isComposing {
		return
	}
	s.rearmRealtimeLocked()
	s.rearmCommitLocked()
}

func (s *Scheduler) rearmRealtimeLocked() {
	if s.realtimeTimer != nil {
		s.realtimeTimer.Stop()
	}
	s.realtimeTimer = time.AfterFunc(s.cfg.RealtimeMs, func() {
		s.mu.Lock()
		s.realtimeTimer = nil
		destroyed := s.isDestroyed
		s.mu.Unlock()
		if !destroyed && s.onRealtime != nil {
			s.onRealtime()
		}
	})
}

func (s *Scheduler) rearmCommitLocked() {
	if s.commitTimer != nil {
		s.commitTimer.Stop()
	}
	s.commitTimer = time.AfterFunc(s.cfg.CommitAfterMs, func() {
		s.mu.Lock()
		s.commitTimer = nil
		destroyed := s.isDestroyed
		s.mu.Unlock()
		if !destroyed && s.onCommit != nil {
			s.onCommit()
		}
	})
}

// ForceCommit cancels both pending timers and invokes the commit
// callback immediately; the realtime pass is suppressed because the
// commit pass subsumes it.
func (s *Scheduler) ForceCommit() {
	s.mu.Lock()
	if s.realtimeTimer != nil {
		s.realtimeTimer.Stop()
		s.realtimeTimer = nil
	}
	if s.commitTimer != nil {
		s.commitTimer.Stop()
		s.commitTimer = nil
	}
	destroyed := s.isDestroyed
	s.mu.Unlock()
	if !destroyed && s.onCommit != nil {
		s.onCommit()
	}
}

// SetComposing sets the IME composition flag. Clearing it (true->false)
// immediately calls ScheduleAnalysis so the first post-composition
// feed's pending pass is not lost.
func (s *Scheduler) SetComposing(composing bool) {
	s.mu.Lock()
	was := s.isComposing
	s.isComposing = composing
	s.mu.Unlock()

	if was && !composing {
		s.ScheduleAnalysis()
	}
}

// Cancel stops both pending timers without invoking any callback.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.realtimeTimer != nil {
		s.realtimeTimer.Stop()
		s.realtimeTimer = nil
	}
	if s.commitTimer != nil {
		s.commitTimer.Stop()
		s.commitTimer = nil
	}
}

// Destroy cancels all timers and marks the scheduler so any in-flight
// timer fire that is still racing to acquire the lock becomes a no-op.
// Idempotent.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isDestroyed = true
	if s.realtimeTimer != nil {
		s.realtimeTimer.Stop()
		s.realtimeTimer = nil
	}
	if s.commitTimer != nil {
		s.commitTimer.Stop()
		s.commitTimer = nil
	}
}

// IsPendingCommit reports whether a commit timer is currently armed.
func (s *Scheduler) IsPendingCommit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitTimer != nil
}
