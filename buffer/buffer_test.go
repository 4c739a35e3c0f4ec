// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestUpdate_TextChangeAdvancesRevision(t *testing.T) {
	b := New()
	require.Equal(t, 0, b.Revision())

	changed := b.Update("hello", nil)
	assert.True(t, changed)
	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, 5, b.Cursor()) // defaults to len(text)
	assert.Equal(t, 1, b.Revision())
}

func TestUpdate_SameTextIsNoop(t *testing.T) {
	b := New()
	b.Update("hello", nil)
	changed := b.Update("hello", nil)
	assert.False(t, changed)
	assert.Equal(t, 1, b.Revision())
}

func TestUpdate_CursorOnlyChangeDoesNotAdvanceRevision(t *testing.T) {
	b := New()
	b.Update("hello world", intp(5))
	rev := b.Revision()

	changed := b.Update("hello world", intp(2))
	assert.False(t, changed)
	assert.Equal(t, 2, b.Cursor())
	assert.Equal(t, rev, b.Revision())
}

func TestUpdate_CursorClampedToBounds(t *testing.T) {
	b := New()
	b.Update("abc", intp(999))
	assert.Equal(t, 3, b.Cursor())

	b.Update("abc", intp(-5))
	assert.Equal(t, 0, b.Cursor())
}

func TestGetWindow_EmptyText(t *testing.T) {
	b := New()
	w := b.GetWindow(10)
	assert.Equal(t, "", w.Text)
	assert.Equal(t, 0, w.Offset)
}

func TestGetWindow_WidthGreaterThanText(t *testing.T) {
	b := New()
	b.Update("short text", intp(3))
	w := b.GetWindow(500)
	assert.Equal(t, "short text", w.Text)
	assert.Equal(t, 0, w.Offset)
}

func TestGetWindow_CenteredOnCursor(t *testing.T) {
	b := New()
	text := "0123456789"
	b.Update(text, intp(5))
	w := b.GetWindow(4)
	assert.Len(t, w.Text, 4)
	// window should cover the cursor position
	assert.LessOrEqual(t, w.Offset, 5)
	assert.GreaterOrEqual(t, w.Offset+len(w.Text), 5)
}

func TestGetWindow_ClampsAtStart(t *testing.T) {
	b := New()
	text := "0123456789"
	b.Update(text, intp(0))
	w := b.GetWindow(4)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, 4, len(w.Text))
	assert.Equal(t, text[0:4], w.Text)
}

func TestGetWindow_ClampsAtEnd(t *testing.T) {
	b := New()
	text := "0123456789"
	b.Update(text, intp(10))
	w := b.GetWindow(4)
	assert.Equal(t, 6, w.Offset)
	assert.Equal(t, text[6:10], w.Text)
}

func TestReset(t *testing.T) {
	b := New()
	b.Update("hello", intp(2))
	b.Reset()
	assert.Equal(t, "", b.Text())
	assert.Equal(t, 0, b.Cursor())
	assert.Equal(t, 0, b.Revision())
}
