// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPlugins_EmptyEnablesEverything(t *testing.T) {
	selected := selectPlugins(nil)
	assert.Len(t, selected, len(defaultPlugins()))
}

func TestSelectPlugins_FiltersByName(t *testing.T) {
	selected := selectPlugins([]string{"quantity", "url"})

	var names []string
	for _, p := range selected {
		names = append(names, p.Name())
	}
	assert.ElementsMatch(t, []string{"quantity", "url"}, names)
}

func TestSelectPlugins_UnknownNameIsIgnored(t *testing.T) {
	selected := selectPlugins([]string{"quantity", "not-a-real-plugin"})

	var names []string
	for _, p := range selected {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"quantity"}, names)
}
