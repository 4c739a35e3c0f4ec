// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package entity defines the data types shared by every layer of the
// recognizer: the span/kind/status vocabulary, the candidate record a
// plugin produces, and the stored entity the engine hands back to callers.
//
// Nothing in this package mutates shared state; every type here is a plain
// value or a small value-receiver helper.
package entity

import "fmt"

// Span is a half-open character interval [Start, End) into the buffer's
// full text. 0 <= Start < End <= len(text) is required of any Span that
// reaches a caller; producing an out-of-range Span is a plugin bug.
type Span struct {
	Start int
	End   int
}

// Valid reports whether the span is well-formed against a text of the
// given length.
func (s Span) Valid(textLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= textLen
}

// Len returns End-Start.
func (s Span) Len() int {
	return s.End - s.Start
}

// Kind is the closed enumeration of entity kinds. Custom is the only
// extension point: plugins that recognize something outside the built-in
// vocabulary use Custom and attach their own shape via Value.
type Kind string

const (
	KindQuantity Kind = "quantity"
	KindDatetime Kind = "datetime"
	KindEmail    Kind = "email"
	KindPhone    Kind = "phone"
	KindURL      Kind = "url"
	KindPerson   Kind = "person"
	KindPlace    Kind = "place"
	KindCustom   Kind = "custom"
)

// Status marks whether an entity came from a fast, possibly-wrong
// realtime pass or a slower confirming commit pass.
type Status string

const (
	StatusProvisional Status = "provisional"
	StatusConfirmed   Status = "confirmed"
)

// Candidate is what a plugin's Run produces: an entity observation before
// the store has assigned it a stable ID.
//
// Key is entirely under the producing plugin's control and is the sole
// axis of deduplication: two candidates sharing a Key represent the same
// logical entity instance across passes, no matter how their Span or
// Value changed in between.
type Candidate struct {
	Key        string
	Kind       Kind
	Span       Span
	Text       string
	Value      any
	Confidence float64
	Status     Status
}

// Entity is a Candidate augmented with an engine-minted ID. The ID is
// opaque to callers: they must not parse it, only compare it for
// equality. It is stable across updates to the same Key and is never
// reused after the Key is removed from the store.
type Entity struct {
	ID         string
	Key        string
	Kind       Kind
	Span       Span
	Text       string
	Value      any
	Confidence float64
	Status     Status
}

// String renders a compact, log-friendly summary of the entity.
func (e Entity) String() string {
	return fmt.Sprintf("Entity{id=%s key=%q kind=%s span=[%d,%d) status=%s}",
		e.ID, e.Key, e.Kind, e.Span.Start, e.Span.End, e.Status)
}

// Equal reports whether two entities carry the same observable fields
// (everything the store's upsert update-detection considers), ignoring
// ID, Key, Kind and Text. Store.Upsert uses it to decide whether an
// upsert of an existing key is an observable update.
func (e Entity) Equal(o Entity) bool {
	return e.Span == o.Span &&
		e.Confidence == o.Confidence &&
		e.Status == o.Status &&
		deepEqual(e.Value, o.Value)
}
