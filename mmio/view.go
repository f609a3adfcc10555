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

package mmio

import (
	"fmt"
	"sync"

	"github.com/usbarmory/tamago/bits"
)

// live tracks which blocks currently have a View open, keyed by base address.
var (
	liveMu sync.Mutex
	live   = map[uint32]string{}
)

// View is an exclusively-owned handle over one register block.
//
// The View holds no mutable state beyond its binding; all side effects are
// external hardware state changes.
type View struct {
	blk    Block
	b      Backend
	closed bool
}

// Open returns the single live View for the block, performing accesses
// through the given backend.
//
// Opening a block that already has a live View is a configuration defect and
// returns an error before any hardware access is made.
func Open(blk Block, b Backend) (*View, error) {
	liveMu.Lock()
	defer liveMu.Unlock()

	if holder, ok := live[blk.Base]; ok {
		return nil, fmt.Errorf("register block %s already open as %q", blk, holder)
	}
	live[blk.Base] = blk.Name
	return &View{blk: blk, b: b}, nil
}

// Close releases the View, allowing the block to be opened again.
// The hardware itself is unaffected.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true

	liveMu.Lock()
	defer liveMu.Unlock()
	delete(live, v.blk.Base)
}

// Block returns the block this View is bound to.
func (v *View) Block() Block {
	return v.blk
}

// Read32 returns the whole word at the given byte offset.
func (v *View) Read32(off uint32) uint32 {
	return v.b.Load(v.blk.Base + off)
}

// Write32 stores the whole word at the given byte offset.
func (v *View) Write32(off uint32, val uint32) {
	v.b.Store(v.blk.Base+off, val)
}

// Read returns the field's value, right-shifted to bit zero.
// There is no error path; hardware unavailability is not detectable here.
func (v *View) Read(f Field) uint32 {
	word := v.Read32(f.Reg)
	return bits.Get(&word, int(f.Shift), int(f.mask()))
}

// Write sets the field to val, masked to the field's declared width.
//
// RW sub-fields use a read-modify-write that preserves all bits outside the
// field; whole-word, WO and W1C fields store directly since a readback would
// either be meaningless or clear unrelated W1C bits.
func (v *View) Write(f Field, val uint32) {
	val &= f.mask()

	switch {
	case f.Access == W1C || f.Access == WO || f.Width >= 32:
		v.Write32(f.Reg, val<<f.Shift)
	default:
		word := v.Read32(f.Reg)
		bits.SetN(&word, int(f.Shift), int(f.mask()), val)
		v.Write32(f.Reg, word)
	}
}

// SetBits ORs mask into the register containing f, preserving other bits.
func (v *View) SetBits(f Field, mask uint32) {
	v.Write32(f.Reg, v.Read32(f.Reg)|(mask<<f.Shift&f.Mask()))
}

// ClearBits clears mask in the register containing f, preserving other bits.
func (v *View) ClearBits(f Field, mask uint32) {
	v.Write32(f.Reg, v.Read32(f.Reg)&^(mask<<f.Shift&f.Mask()))
}

// Barrier forces the most recent store to f's register to post by issuing a
// readback of the same register.
func (v *View) Barrier(f Field) {
	_ = v.Read32(f.Reg)
}
