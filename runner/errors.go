// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package runner

import (
	"errors"
	"fmt"

	"semrec/plugin"
)

// ErrPluginPanicked is wrapped by every PluginError produced from a
// recovered panic, so callers can errors.Is against it without caring
// which plugin or mode was involved.
var ErrPluginPanicked = errors.New("plugin panicked")

// PluginError carries structured context about a single plugin's
// failure during a pass: which plugin, which mode, and (for a recovered
// panic) the value that was recovered. It is attached to the
// corresponding span via RecordError but is not returned from RunRealtime
// or RunCommit — a single plugin's fault never fails the whole pass.
type PluginError struct {
	Plugin string
	Mode   plugin.Mode
	Panic  any
	Err    error
}

func (e *PluginError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("plugin %s (%s): panic: %v", e.Plugin, e.Mode, e.Panic)
	}
	return fmt.Sprintf("plugin %s (%s): %v", e.Plugin, e.Mode, e.Err)
}

func (e *PluginError) Unwrap() error {
	if e.Panic != nil {
		return ErrPluginPanicked
	}
	return e.Err
}
