// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"semrec/plugin"
)

func TestPluginError_UnwrapsToPanicSentinel(t *testing.T) {
	err := &PluginError{Plugin: "quantity", Mode: plugin.ModeRealtime, Panic: "boom"}
	assert.True(t, errors.Is(err, ErrPluginPanicked))
}

func TestPluginError_UnwrapsToUnderlyingError(t *testing.T) {
	underlying := errors.New("bad regex")
	err := &PluginError{Plugin: "quantity", Mode: plugin.ModeRealtime, Err: underlying}
	assert.True(t, errors.Is(err, underlying))
	assert.False(t, errors.Is(err, ErrPluginPanicked))
}

func TestPluginError_MessageIncludesPluginAndMode(t *testing.T) {
	err := &PluginError{Plugin: "quantity", Mode: plugin.ModeCommit, Panic: "boom"}
	assert.Contains(t, err.Error(), "quantity")
	assert.Contains(t, err.Error(), "commit")
}
