// Copyright 2021 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api contains the shared data types passed between the boot stages,
// the relocation and handoff machinery, and the emulator tooling.
package api

import "fmt"

// Range describes a half-open physical address range [Base, Base+Size).
type Range struct {
	Base uint32 `json:"base"`
	Size uint32 `json:"size"`
}

// End returns the first address past the range.
func (r Range) End() uint32 {
	return r.Base + r.Size
}

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return o.Base >= r.Base && o.End() <= r.End() && o.End() >= o.Base
}

// Overlaps reports whether r and o share at least one address.
func (r Range) Overlaps(o Range) bool {
	if r.Size == 0 || o.Size == 0 {
		return false
	}
	return r.Base < o.End() && o.Base < r.End()
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[0x%08x, 0x%08x)", r.Base, r.End())
}
