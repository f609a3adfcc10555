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

// Package relocate moves boot-stage images from the load buffer to their
// linked addresses.
//
// All validation happens at planning time. Once a Plan exists, executing it
// touches only the addresses the plan names, so a malformed descriptor can
// never scribble on memory: it fails before the first byte moves.
package relocate

import (
	"fmt"

	"github.com/u-root/u-root/pkg/align"

	"github.com/google/coldboot/api"
)

// wordSize is the copy granule destinations must be aligned to.
const wordSize = 4

// Copy is one validated move of Src to Dst. Backward means the copy must
// run from the last byte to the first because the ranges overlap with the
// destination above the source.
type Copy struct {
	Name     string
	Src      api.Range
	Dst      api.Range
	Backward bool
}

// Zero is a range cleared to zero bytes after all copies complete.
type Zero struct {
	Dst api.Range
}

// Plan is an ordered, validated set of moves. Copies execute in slice
// order; zeros after all copies.
type Plan struct {
	Copies []Copy
	Zeros  []Zero
}

// PlanError reports a descriptor set that cannot be turned into a safe
// plan. It is a configuration error: the image or layout is wrong, not the
// hardware.
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string {
	return "invalid relocation plan: " + e.Reason
}

func planErrorf(format string, args ...interface{}) error {
	return &PlanError{Reason: fmt.Sprintf(format, args...)}
}

// New validates the descriptors against the load buffer and the usable
// destination regions and returns an ordered plan.
//
// Ordering guarantees no copy's destination overlaps a source that has not
// been copied yet. Descriptor sets where that cannot be satisfied (mutual
// overlap between two stages) are rejected rather than approximated.
func New(descs []api.StageDescriptor, buffer api.Range, dests []api.Range) (*Plan, error) {
	if len(descs) == 0 {
		return nil, planErrorf("no stages to relocate")
	}

	for i, d := range descs {
		if d.Size == 0 {
			return nil, planErrorf("stage %q is empty", d.Name)
		}
		if d.Source+d.Size < d.Source || d.Dest+d.Size < d.Dest {
			return nil, planErrorf("stage %q wraps the address space", d.Name)
		}
		if !buffer.Contains(d.SourceRange()) {
			return nil, planErrorf("stage %q source %v outside load buffer %v", d.Name, d.SourceRange(), buffer)
		}
		if uint32(align.Up(uint(d.Dest), wordSize)) != d.Dest {
			return nil, planErrorf("stage %q destination 0x%08x unaligned", d.Name, d.Dest)
		}
		ok := false
		for _, reg := range dests {
			if reg.Contains(d.DestRange()) {
				ok = true
				break
			}
		}
		if !ok {
			return nil, planErrorf("stage %q destination %v outside usable memory", d.Name, d.DestRange())
		}
		for _, o := range descs[:i] {
			if d.DestRange().Overlaps(o.DestRange()) {
				return nil, planErrorf("stages %q and %q have overlapping destinations", o.Name, d.Name)
			}
		}
	}

	copies := make([]Copy, 0, len(descs))
	for _, d := range descs {
		src, dst := d.SourceRange(), d.DestRange()
		copies = append(copies, Copy{
			Name:     d.Name,
			Src:      src,
			Dst:      dst,
			Backward: src.Overlaps(dst) && dst.Base > src.Base,
		})
	}

	ordered, err := orderCopies(copies)
	if err != nil {
		return nil, err
	}

	// Zero the pad between each stage's declared size and its word-aligned
	// end, so a stage never starts with stale tail bytes after its image.
	var zeros []Zero
	for _, d := range descs {
		padded := uint32(align.Up(uint(d.Size), wordSize))
		if padded == d.Size {
			continue
		}
		zeros = append(zeros, Zero{Dst: api.Range{Base: d.Dest + d.Size, Size: padded - d.Size}})
	}

	return &Plan{Copies: ordered, Zeros: zeros}, nil
}

// orderCopies picks, at each step, a copy whose destination overlaps no
// remaining copy's source. n is small, so the quadratic scan is fine.
func orderCopies(copies []Copy) ([]Copy, error) {
	ordered := make([]Copy, 0, len(copies))
	remaining := append([]Copy(nil), copies...)

	for len(remaining) > 0 {
		picked := -1
		for i, c := range remaining {
			safe := true
			for j, o := range remaining {
				if i == j {
					continue
				}
				if c.Dst.Overlaps(o.Src) {
					safe = false
					break
				}
			}
			if safe {
				picked = i
				break
			}
		}
		if picked < 0 {
			return nil, planErrorf("stages overlap cyclically; no safe copy order exists")
		}
		ordered = append(ordered, remaining[picked])
		remaining = append(remaining[:picked], remaining[picked+1:]...)
	}
	return ordered, nil
}
