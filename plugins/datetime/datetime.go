// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datetime is a built-in plugin matching ISO-style dates
// (YYYY-MM-DD) and simple HH:MM times. Unlike the other built-ins it
// runs only in the commit pass: date parsing is cheap but its value is
// mostly in the confirmed result, so there's little benefit to the
// provisional churn of re-matching it on every keystroke.
package datetime

import (
	"fmt"
	"regexp"
	"time"

	"semrec/entity"
	"semrec/plugin"
)

var (
	datePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	timePattern = regexp.MustCompile(`\b([01]\d|2[0-3]):([0-5]\d)\b`)
)

// Value is the structured payload attached to a datetime candidate.
type Value struct {
	Time time.Time
}

// Plugin matches dates and times in the commit pass.
type Plugin struct {
	priority int
}

// New returns a datetime plugin with the conventional default priority.
func New() *Plugin {
	return &Plugin{priority: 100}
}

func (p *Plugin) Name() string      { return "datetime" }
func (p *Plugin) Mode() plugin.Mode { return plugin.ModeCommit }
func (p *Plugin) Priority() int     { return p.priority }

func (p *Plugin) Run(ctx plugin.Context) (plugin.Result, error) {
	var result plugin.Result

	for _, m := range datePattern.FindAllStringSubmatchIndex(ctx.Window.Text, -1) {
		start, end := m[0]+ctx.Window.Offset, m[1]+ctx.Window.Offset
		text := ctx.Window.Text[m[0]:m[1]]
		parsed, err := time.Parse("2006-01-02", text)
		if err != nil {
			continue
		}
		c := entity.Candidate{
			Key:        fmt.Sprintf("datetime:date:%s:%d:%d", text, start, end),
			Kind:       entity.KindDatetime,
			Span:       entity.Span{Start: start, End: end},
			Text:       text,
			Value:      Value{Time: parsed},
			Confidence: 0.85,
			Status:     entity.StatusConfirmed,
		}
		result.Upsert = append(result.Upsert, c)
	}

	for _, m := range timePattern.FindAllStringSubmatchIndex(ctx.Window.Text, -1) {
		start, end := m[0]+ctx.Window.Offset, m[1]+ctx.Window.Offset
		text := ctx.Window.Text[m[0]:m[1]]
		parsed, err := time.Parse("15:04", text)
		if err != nil {
			continue
		}
		c := entity.Candidate{
			Key:        fmt.Sprintf("datetime:time:%s:%d:%d", text, start, end),
			Kind:       entity.KindDatetime,
			Span:       entity.Span{Start: start, End: end},
			Text:       text,
			Value:      Value{Time: parsed},
			Confidence: 0.6,
			Status:     entity.StatusConfirmed,
		}
		result.Upsert = append(result.Upsert, c)
	}

	return result, nil
}
