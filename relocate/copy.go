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

package relocate

// Memory is byte-addressed physical memory. On the device it is the raw
// address space; in tests and the emulator it is backed by byte slices.
type Memory interface {
	Load8(addr uint32) byte
	Store8(addr uint32, b byte)
}

// Execute runs the plan against mem: every copy in order, then the zero
// fills. The plan carries the direction; Execute never re-derives it.
func (p *Plan) Execute(mem Memory) {
	for _, c := range p.Copies {
		if c.Backward {
			for i := c.Src.Size; i > 0; i-- {
				mem.Store8(c.Dst.Base+i-1, mem.Load8(c.Src.Base+i-1))
			}
			continue
		}
		for i := uint32(0); i < c.Src.Size; i++ {
			mem.Store8(c.Dst.Base+i, mem.Load8(c.Src.Base+i))
		}
	}
	for _, z := range p.Zeros {
		for i := uint32(0); i < z.Dst.Size; i++ {
			mem.Store8(z.Dst.Base+i, 0)
		}
	}
}
