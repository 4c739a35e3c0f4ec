// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package entity

import (
	"encoding/json"
	"reflect"
)

// deepEqual compares two plugin-owned Value payloads for the store's
// spurious-update suppression: no update event fires when every
// observable field, including Value, is unchanged. reflect.DeepEqual
// handles the common case of comparable structs/maps/slices directly;
// values that don't compare meaningfully that way (e.g. differing
// concrete types carrying equivalent data) fall back to a
// stable-serialization comparison.
func deepEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(ab) == string(bb)
}
