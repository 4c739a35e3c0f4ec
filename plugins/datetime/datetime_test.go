// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datetime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semrec/buffer"
	"semrec/entity"
	"semrec/plugin"
)

func TestRun_MatchesISODate(t *testing.T) {
	text := "due 2026-08-06 please"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	assert.Equal(t, "2026-08-06", res.Upsert[0].Text)
	assert.Equal(t, entity.StatusConfirmed, res.Upsert[0].Status)
}

func TestRun_MatchesTime(t *testing.T) {
	text := "meet at 14:30 today"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	assert.Equal(t, "14:30", res.Upsert[0].Text)
}

func TestRun_InvalidMonthDayIgnored(t *testing.T) {
	text := "code 2026-99-99 not a date"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Upsert)
}

func TestMode_IsCommit(t *testing.T) {
	assert.Equal(t, plugin.ModeCommit, New().Mode())
}
