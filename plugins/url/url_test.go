// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package url

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semrec/buffer"
	"semrec/plugin"
)

func TestRun_MatchesURL(t *testing.T) {
	text := "see https://example.com/path for info"
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	assert.Equal(t, "https://example.com/path", res.Upsert[0].Text)
}

func TestRun_TrimsTrailingSentencePunctuation(t *testing.T) {
	text := "see https://example.com."
	p := New()
	res, err := p.Run(plugin.Context{
		Context: context.Background(),
		Text:    text,
		Window:  buffer.Window{Text: text, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Upsert, 1)
	assert.Equal(t, "https://example.com", res.Upsert[0].Text)
}
