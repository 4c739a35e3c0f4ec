// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyYAMLYieldsZeroValueConfig(t *testing.T) {
	cfg, plugins, err := parse([]byte(``))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.WindowSize)
	assert.Empty(t, plugins)
}

func TestParse_OverridesScheduleAndThresholds(t *testing.T) {
	yamlDoc := []byte(`
window_size: 1000
schedule:
  realtime_ms: 100
  commit_after_ms: 500
thresholds:
  realtime: 0.7
  commit: 0.4
`)
	cfg, _, err := parse(yamlDoc)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.WindowSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Scheduler.RealtimeMs)
	assert.Equal(t, 500*time.Millisecond, cfg.Scheduler.CommitAfterMs)
	assert.Equal(t, 0.7, cfg.Runner.RealtimeThreshold)
	assert.Equal(t, 0.4, cfg.Runner.CommitThreshold)
}

func TestParse_PluginsList(t *testing.T) {
	yamlDoc := []byte(`
plugins:
  - quantity
  - email
`)
	_, plugins, err := parse(yamlDoc)
	require.NoError(t, err)
	assert.Equal(t, []string{"quantity", "email"}, plugins)
}

func TestParse_InvalidYAMLReturnsError(t *testing.T) {
	_, _, err := parse([]byte("not: valid: yaml: at: all:"))
	assert.Error(t, err)
}

func TestDefault_MatchesDocumentedDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 500, cfg.WindowSize)
	assert.Equal(t, 150*time.Millisecond, cfg.Scheduler.RealtimeMs)
	assert.Equal(t, 700*time.Millisecond, cfg.Scheduler.CommitAfterMs)
	assert.Equal(t, 0.8, cfg.Runner.RealtimeThreshold)
	assert.Equal(t, 0.5, cfg.Runner.CommitThreshold)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, _, err := Load("/nonexistent/path/to/config.yaml")
	assert.Error(t, err)
}
