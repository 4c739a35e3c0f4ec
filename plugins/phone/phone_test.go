// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package phone

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semrec/buffer"
	"semrec/plugin"
)

func TestRun_MatchesPhoneNumber(t *testing.T) {
	text := "call 555-123-4567 now"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	assert.Equal(t, "555-123-4567", res.Upsert[0].Text)
}

func TestRun_MatchesWithCountryCode(t *testing.T) {
	text := "+1 555-123-4567"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
}

func TestRun_NoMatch(t *testing.T) {
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    "no phone here",
		Window:  buffer.Window{Text: "no phone here", Offset: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Upsert)
}
