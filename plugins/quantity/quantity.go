// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package quantity is a built-in plugin matching a number followed by a
// unit abbreviation (e.g. "10 km", "3.5 kg"). It is an ordinary user of
// the plugin contract, with no special access the runner doesn't also
// grant a third-party plugin.
package quantity

import (
	"fmt"
	"regexp"

	"semrec/entity"
	"semrec/plugin"
)

var pattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(km|m|cm|mm|kg|g|mg|lb|lbs|mi|ft|in|l|ml|gal|°c|°f|c|f)\b`)

// Value is the structured payload attached to a quantity candidate.
type Value struct {
	Amount float64
	Unit   string
}

// Plugin matches quantities in the realtime pass.
type Plugin struct {
	priority int
}

// New returns a quantity plugin with the conventional default priority.
func New() *Plugin {
	return &Plugin{priority: 100}
}

func (p *Plugin) Name() string      { return "quantity" }
func (p *Plugin) Mode() plugin.Mode { return plugin.ModeRealtime }
func (p *Plugin) Priority() int     { return p.priority }

// Run scans the window for quantity matches and reports them at
// absolute offsets into ctx.Text.
func (p *Plugin) Run(ctx plugin.Context) (plugin.Result, error) {
	matches := pattern.FindAllStringSubmatchIndex(ctx.Window.Text, -1)
	if len(matches) == 0 {
		return plugin.Result{}, nil
	}

	result := plugin.Result{Upsert: make([]entity.Candidate, 0, len(matches))}
	for _, m := range matches {
		start, end := m[0]+ctx.Window.Offset, m[1]+ctx.Window.Offset
		text := ctx.Window.Text[m[0]:m[1]]
		amountStr := ctx.Window.Text[m[2]:m[3]]
		unit := ctx.Window.Text[m[4]:m[5]]

		var amount float64
		fmt.Sscanf(amountStr, "%f", &amount)

		c := entity.Candidate{
			Key:        fmt.Sprintf("quantity:%s:%s:%d:%d", amountStr, unit, start, end),
			Kind:       entity.KindQuantity,
			Span:       entity.Span{Start: start, End: end},
			Text:       text,
			Value:      Value{Amount: amount, Unit: unit},
			Confidence: 0.9,
			Status:     entity.StatusProvisional,
		}
		result.Upsert = append(result.Upsert, c)
	}
	return result, nil
}
