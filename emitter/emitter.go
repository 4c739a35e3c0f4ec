// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package emitter

import "fmt"

type entityEntry struct {
	id      int64
	handler EntityHandler
}

type removeEntry struct {
	id      int64
	handler RemoveHandler
}

type diagnosticEntry struct {
	id      int64
	handler DiagnosticHandler
}

// Emitter is the recognizer's subscription registry.
//
// Thread Safety: the recognizer's concurrency model is single-threaded
// cooperative; Emitter performs no internal locking and must only be
// driven from that one logical thread.
type Emitter struct {
	nextID int64

	entityHandlers     []entityEntry
	removeHandlers     []removeEntry
	diagnosticHandlers []diagnosticEntry
}

// New creates an empty Emitter.
func New() *Emitter {
	return &Emitter{}
}

// OnEntity registers h to receive entity events, returning a
// Subscription that Off can later remove. Handlers are invoked in
// registration order.
func (e *Emitter) OnEntity(h EntityHandler) Subscription {
	e.nextID++
	id := e.nextID
	e.entityHandlers = append(e.entityHandlers, entityEntry{id: id, handler: h})
	return Subscription{channel: ChannelEntity, id: id}
}

// OnRemove registers h to receive remove events.
func (e *Emitter) OnRemove(h RemoveHandler) Subscription {
	e.nextID++
	id := e.nextID
	e.removeHandlers = append(e.removeHandlers, removeEntry{id: id, handler: h})
	return Subscription{channel: ChannelRemove, id: id}
}

// OnDiagnostic registers h to receive diagnostic events.
func (e *Emitter) OnDiagnostic(h DiagnosticHandler) Subscription {
	e.nextID++
	id := e.nextID
	e.diagnosticHandlers = append(e.diagnosticHandlers, diagnosticEntry{id: id, handler: h})
	return Subscription{channel: ChannelDiagnostic, id: id}
}

// Off removes a single subscription previously returned by an On* call.
// Removing an already-removed or unknown subscription is a no-op.
func (e *Emitter) Off(sub Subscription) {
	switch sub.channel {
	case ChannelEntity:
		for i, entry := range e.entityHandlers {
			if entry.id == sub.id {
				e.entityHandlers = append(e.entityHandlers[:i], e.entityHandlers[i+1:]...)
				return
			}
		}
	case ChannelRemove:
		for i, entry := range e.removeHandlers {
			if entry.id == sub.id {
				e.removeHandlers = append(e.removeHandlers[:i], e.removeHandlers[i+1:]...)
				return
			}
		}
	case ChannelDiagnostic:
		for i, entry := range e.diagnosticHandlers {
			if entry.id == sub.id {
				e.diagnosticHandlers = append(e.diagnosticHandlers[:i], e.diagnosticHandlers[i+1:]...)
				return
			}
		}
	}
}

// RemoveAllListeners clears every handler on the given channel, or on
// every channel if channel is the zero value.
func (e *Emitter) RemoveAllListeners(channel Channel) {
	switch channel {
	case ChannelEntity:
		e.entityHandlers = nil
	case ChannelRemove:
		e.removeHandlers = nil
	case ChannelDiagnostic:
		e.diagnosticHandlers = nil
	default:
		e.entityHandlers = nil
		e.removeHandlers = nil
		e.diagnosticHandlers = nil
	}
}

// ListenerCount returns the number of handlers registered on channel.
func (e *Emitter) ListenerCount(channel Channel) int {
	switch channel {
	case ChannelEntity:
		return len(e.entityHandlers)
	case ChannelRemove:
		return len(e.removeHandlers)
	case ChannelDiagnostic:
		return len(e.diagnosticHandlers)
	default:
		return 0
	}
}

// EmitEntity dispatches ev to every entity handler in registration
// order. A handler that panics does not prevent the remaining handlers
// from running; the panic is converted into an error diagnostic
// (source "emitter") and dispatched to diagnostic handlers.
func (e *Emitter) EmitEntity(ev EntityEvent) {
	for _, entry := range e.entityHandlers {
		e.invokeEntity(entry.handler, ev)
	}
}

// EmitRemove dispatches ev to every remove handler in registration
// order, with the same fault isolation as EmitEntity.
func (e *Emitter) EmitRemove(ev RemoveEvent) {
	for _, entry := range e.removeHandlers {
		e.invokeRemove(entry.handler, ev)
	}
}

// EmitDiagnostic dispatches ev to every diagnostic handler in
// registration order. Panics from diagnostic handlers are swallowed
// rather than re-reported, to avoid infinite recursion.
func (e *Emitter) EmitDiagnostic(ev DiagnosticEvent) {
	for _, entry := range e.diagnosticHandlers {
		func() {
			defer func() { _ = recover() }()
			entry.handler(ev)
		}()
	}
}

func (e *Emitter) invokeEntity(h EntityHandler, ev EntityEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.EmitDiagnostic(DiagnosticEvent{
				Severity: SeverityError,
				Message:  fmt.Sprintf("entity handler panicked: %v", r),
				Source:   "emitter",
			})
		}
	}()
	h(ev)
}

func (e *Emitter) invokeRemove(h RemoveHandler, ev RemoveEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.EmitDiagnostic(DiagnosticEvent{
				Severity: SeverityError,
				Message:  fmt.Sprintf("remove handler panicked: %v", r),
				Source:   "emitter",
			})
		}
	}()
	h(ev)
}
