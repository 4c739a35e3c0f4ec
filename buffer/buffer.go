// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package buffer holds the recognizer's view of the text being edited:
// the current text, the cursor position, and a revision counter that
// advances exactly when the text changes.
//
// Buffer is not safe for concurrent use. The recognizer owns a single
// Buffer and only ever touches it from its own single logical thread of
// execution, per the engine's cooperative concurrency model.
package buffer

// Window is a cursor-centered slice of the buffer's text, returned by
// GetWindow so plugins can bound their analysis cost independent of
// document size.
type Window struct {
	// Text is the windowed substring.
	Text string

	// Offset is the absolute index into the full buffer text at which
	// Text begins. Span values a plugin computes against Text must be
	// shifted by Offset before they are meaningful against the full
	// text.
	Offset int
}

// Buffer is the mutable text+cursor+revision triple the rest of the
// engine reads from.
type Buffer struct {
	text     string
	cursor   int
	revision int
}

// New creates an empty Buffer at revision 0.
func New() *Buffer {
	return &Buffer{}
}

// Update replaces the buffer's text and cursor if the text has changed,
// incrementing Revision. If the text is unchanged but the cursor moved,
// only the cursor is updated and Revision is left alone. It reports
// whether the text changed.
//
// cursor is clamped to [0, len(text)]. A nil cursor defaults to
// len(text) when the text changes, and is ignored (cursor stays put)
// when the text is unchanged and no cursor was supplied.
func (b *Buffer) Update(text string, cursor *int) bool {
	changed := text != b.text
	if changed {
		b.text = text
		b.revision++
		if cursor != nil {
			b.cursor = clamp(*cursor, 0, len(text))
		} else {
			b.cursor = len(text)
		}
		return true
	}
	if cursor != nil {
		b.cursor = clamp(*cursor, 0, len(text))
	}
	return false
}

// Text returns the current full text.
func (b *Buffer) Text() string { return b.text }

// Cursor returns the current cursor offset.
func (b *Buffer) Cursor() int { return b.cursor }

// Revision returns the current revision counter.
func (b *Buffer) Revision() int { return b.revision }

// Reset zeroes all state, as on Recognizer.destroy.
func (b *Buffer) Reset() {
	b.text = ""
	b.cursor = 0
	b.revision = 0
}

// GetWindow computes the cursor-centered window of size min(width,
// len(text)). The half-window H = width/2 is taken before the cursor and
// width-H after it; if that would run off one edge, the window is shifted (not
// shrunk) so its length still reaches min(width, len(text)) whenever the
// text is long enough to supply it.
func (b *Buffer) GetWindow(width int) Window {
	n := len(b.text)
	if width <= 0 || n == 0 {
		return Window{Text: "", Offset: 0}
	}
	target := width
	if target > n {
		target = n
	}

	half := width / 2
	start := b.cursor - half
	end := b.cursor + width - half

	if start < 0 {
		end += -start
		start = 0
	}
	if end > n {
		start -= end - n
		end = n
	}
	start = clamp(start, 0, n)
	end = clamp(end, start, n)

	// Clamping above can leave the window shorter than target when the
	// cursor sits exactly at one extreme; stretch from the available
	// side to make up the difference.
	if end-start < target {
		if start == 0 {
			end = clamp(start+target, 0, n)
		} else if end == n {
			start = clamp(end-target, 0, n)
		}
	}

	return Window{Text: b.text[start:end], Offset: start}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
