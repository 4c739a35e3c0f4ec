// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package url is a built-in plugin matching http(s) URLs.
package url

import (
	"fmt"
	"regexp"

	"semrec/entity"
	"semrec/plugin"
)

var pattern = regexp.MustCompile(`\bhttps?://[^\s<>"']+`)

// Plugin matches URLs in the realtime pass.
type Plugin struct {
	priority int
}

// New returns a URL plugin with the conventional default priority.
func New() *Plugin {
	return &Plugin{priority: 100}
}

func (p *Plugin) Name() string      { return "url" }
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
		text := trimTrailingPunct(ctx.Window.Text[m[0]:m[1]])
		end = start + len(text)

		c := entity.Candidate{
			Key:        fmt.Sprintf("url:%s:%d:%d", text, start, end),
			Kind:       entity.KindURL,
			Span:       entity.Span{Start: start, End: end},
			Text:       text,
			Confidence: 0.9,
			Status:     entity.StatusProvisional,
		}
		result.Upsert = append(result.Upsert, c)
	}
	return result, nil
}

// trimTrailingPunct drops sentence-closing punctuation a greedy URL
// match tends to absorb (e.g. the period ending "see https://x.com.").
func trimTrailingPunct(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last == '.' || last == ',' || last == ')' || last == ';' || last == ':' {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}
