// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package phone is a built-in plugin matching North American-style
// phone numbers, with or without a country code.
package phone

import (
	"fmt"
	"regexp"

	"semrec/entity"
	"semrec/plugin"
)

var pattern = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

// Plugin matches phone numbers in the realtime pass.
type Plugin struct {
	priority int
}

// New returns a phone plugin with the conventional default priority.
func New() *Plugin {
	return &Plugin{priority: 100}
}

func (p *Plugin) Name() string      { return "phone" }
func (p *Plugin) Mode() plugin.Mode { return plugin.ModeRealtime }
func (p *Plugin) Priority() int     { return p.priority }

func (p *Plugin) Run(ctx plugin.Context) (plugin.Result, error) {
	matches := pattern.FindAllStringIndex(ctx.Window.Text, -1)
	if len(matches) == 0 {
		return plugin.Result{}, nil
	}

	result := plugin.Result{Upsert: make([]entity.Candidate, 0, len(matches))}
	for _, m := range matches {
		start, end := m[0]+ctx.Window.Offset, m[1]+ctx.Window.Offset
		text := ctx.Window.Text[m[0]:m[1]]

		c := entity.Candidate{
			Key:        fmt.Sprintf("phone:%s:%d:%d", text, start, end),
			Kind:       entity.KindPhone,
			Span:       entity.Span{Start: start, End: end},
			Text:       text,
			Confidence: 0.75,
			Status:     entity.StatusProvisional,
		}
		result.Upsert = append(result.Upsert, c)
	}
	return result, nil
}
