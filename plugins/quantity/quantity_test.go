// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package quantity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semrec/buffer"
	"semrec/entity"
	"semrec/plugin"
)

func TestRun_MatchesQuantityAtAbsoluteOffset(t *testing.T) {
	text := "convert 10 km to mi"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	c := res.Upsert[0]
	assert.Equal(t, entity.KindQuantity, c.Kind)
	assert.Equal(t, "10 km", c.Text)
	assert.Equal(t, entity.Span{Start: 8, End: 13}, c.Span)
	assert.Equal(t, entity.StatusProvisional, c.Status)
}

func TestRun_NoMatchReturnsEmptyResult(t *testing.T) {
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    "no numbers here",
		Window:  buffer.Window{Text: "no numbers here", Offset: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Upsert)
}

func TestRun_OffsetsAreRelativeToFullText(t *testing.T) {
	full := "preamble text 10 km more"
	window := buffer.Window{Text: "text 10 km more", Offset: 9}
	p := New()
	res, err := p.Run(plugin.Context{Context: context.Background(), Text: full, Window: window})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	assert.Equal(t, full[res.Upsert[0].Span.Start:res.Upsert[0].Span.End], "10 km")
}

// Run matches synchronously and returns its full result in one shot, so
// it has nothing to stream: OnEntity is for incremental producers (e.g.
// a streaming LLM response), not a regex that sees the whole window at
// once. A nil OnEntity must not be dereferenced, and a non-nil one must
// not be called.
func TestRun_DoesNotStream(t *testing.T) {
	var streamed []entity.Candidate
	p := New()
	text := "10 km"
	_, err := p.Run(plugin.Context{
		Context:  context.Background(),
		Text:     text,
		Window:   buffer.Window{Text: text, Offset: 0},
		OnEntity: func(c entity.Candidate) { streamed = append(streamed, c) },
	})
	require.NoError(t, err)
	assert.Empty(t, streamed)
}

func TestName_Mode_Priority(t *testing.T) {
	p := New()
	assert.Equal(t, "quantity", p.Name())
	assert.Equal(t, plugin.ModeRealtime, p.Mode())
	assert.Equal(t, 100, p.Priority())
}
