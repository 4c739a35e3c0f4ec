// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package emitter is the recognizer's type-dispatched subscription
// registry. It exposes three channels — entity, remove, diagnostic — as
// precise Go function types rather than a single polymorphic event
// stream, per the project's convention of keeping handler signatures
// exact instead of routing everything through `any`.
package emitter

import "semrec/entity"

// EntityEvent reports that an entity was added or updated in the store.
type EntityEvent struct {
	Entity   entity.Entity
	IsUpdate bool
}

// RemoveEvent reports that an entity was removed from the store.
type RemoveEvent struct {
	ID  string
	Key string
}

// Severity is the severity of a diagnostic event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DiagnosticEvent carries an operational notice: lifecycle info, a
// recoverable plugin/input anomaly, or a pass/handler fault.
type DiagnosticEvent struct {
	Severity Severity
	Message  string
	Span     *entity.Span
	Source   string
}

// EntityHandler handles entity events.
type EntityHandler func(EntityEvent)

// RemoveHandler handles remove events.
type RemoveHandler func(RemoveEvent)

// DiagnosticHandler handles diagnostic events.
type DiagnosticHandler func(DiagnosticEvent)

// Channel names one of the three event channels, used by Subscription
// and by the bulk RemoveAllListeners/ListenerCount operations.
type Channel string

const (
	ChannelEntity     Channel = "entity"
	ChannelRemove     Channel = "remove"
	ChannelDiagnostic Channel = "diagnostic"
)

// Subscription is the handle returned by On* and accepted by Off, naming
// both the channel and the specific registration to remove.
type Subscription struct {
	channel Channel
	id      int64
}

// Channel returns which channel this subscription was registered on.
func (s Subscription) Channel() Channel { return s.channel }
