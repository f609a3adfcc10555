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

// Package mmio provides typed access to memory-mapped hardware registers.
//
// A register block is described once, statically, as a base address plus a
// set of named fields with bit offsets, widths and access modes. A View is
// the only sanctioned way to read or write the block; at most one live View
// exists per physical block at a time, enforced by a registry keyed on base
// address. Interleaved read-modify-write sequences from two views over the
// same register would race even on a single core, so double-open is treated
// as a configuration defect rather than something to serialize.
package mmio

import "fmt"

// Access is a register field's access mode.
type Access uint8

const (
	// RW fields are written with a read-modify-write preserving all bits
	// outside the field.
	RW Access = iota

	// RO fields are read-only; writes to them are configuration defects.
	RO

	// WO fields are write-only; a write stores the shifted value directly
	// without reading back.
	WO

	// W1C fields clear on writing one; a write stores the mask directly so
	// no other W1C bits in the word are disturbed by a readback.
	W1C
)

// Field names a bit field within a register block.
//
// Fields are declared as package-level values next to the block they belong
// to, so the layout is fixed at build time.
type Field struct {
	// Name identifies the field for diagnostics.
	Name string

	// Reg is the byte offset of the containing 32-bit word within the block.
	Reg uint32

	// Shift is the field's bit offset within the word.
	Shift uint8

	// Width is the field's size in bits, 1..32.
	Width uint8

	// Access is the field's access mode.
	Access Access
}

// Mask returns the field's mask, positioned within the containing word.
func (f Field) Mask() uint32 {
	return f.mask() << f.Shift
}

// mask returns the unshifted mask for the field's width.
func (f Field) mask() uint32 {
	if f.Width >= 32 {
		return 0xffffffff
	}
	return 1<<f.Width - 1
}

// Reg declares a whole-word read-write field, the common case for registers
// that are always written in full.
func Reg(name string, off uint32) Field {
	return Field{Name: name, Reg: off, Shift: 0, Width: 32, Access: RW}
}

// Block describes a fixed-layout region of hardware registers.
type Block struct {
	// Name identifies the block for diagnostics.
	Name string

	// Base is the physical base address.
	Base uint32

	// Size is the length of the register region in bytes.
	Size uint32
}

// String returns a human-readable representation of the block.
func (b Block) String() string {
	return fmt.Sprintf("%s@0x%08x", b.Name, b.Base)
}
