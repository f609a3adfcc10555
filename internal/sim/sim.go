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

// Package sim is a scripted model of the hardware the boot path touches.
//
// It is not a simulator of the chip; it is a register map plus reaction
// rules ("when this value is stored here, that bit appears there after N
// reads"), which is exactly the shape of behavior the bring-up sequences
// depend on: lock bits, completion bits, auto-clearing request bits.
package sim

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Op is one recorded register access.
type Op struct {
	// Kind is "r" or "w".
	Kind string

	// Addr is the absolute register address.
	Addr uint32

	// Val is the value read or written.
	Val uint32
}

func (o Op) String() string {
	return fmt.Sprintf("%s %08x %08x", o.Kind, o.Addr, o.Val)
}

// Rule is one scripted hardware reaction. A store to Addr whose value
// matches Value under Mask arms the rule; after Reads subsequent loads of
// Target, Set bits appear and Clear bits vanish there. Reads of zero apply
// the effect at store time.
type Rule struct {
	Name   string `json:"name"`
	Addr   uint32 `json:"addr"`
	Mask   uint32 `json:"mask"`
	Value  uint32 `json:"value"`
	Target uint32 `json:"target"`
	Set    uint32 `json:"set"`
	Clear  uint32 `json:"clear"`
	Reads  int    `json:"reads"`
}

type pending struct {
	rule      Rule
	remaining int
}

type ramRegion struct {
	base uint32
	data []byte
}

// Model is scripted hardware: a register file with reaction rules, plus
// byte-addressed RAM regions. It implements the register backend and the
// relocation memory interfaces.
type Model struct {
	mu        sync.Mutex
	regs      map[uint32]uint32
	rules     []Rule
	pend      []pending
	ram       []ramRegion
	ops       []Op
	recording bool
}

// New returns a model with the given rules. Nil rules means no reactions;
// most callers want NewDefault.
func New(rules []Rule) *Model {
	return &Model{
		regs:      map[uint32]uint32{},
		rules:     rules,
		recording: true,
	}
}

// NewDefault returns a model scripted with the reactions a successful
// cold boot needs.
func NewDefault() *Model {
	return New(DefaultRules())
}

// AddRAM attaches a zeroed RAM region at base.
func (m *Model) AddRAM(base, size uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ram = append(m.ram, ramRegion{base: base, data: make([]byte, size)})
}

// Seed sets a register's value without recording an operation or arming
// rules.
func (m *Model) Seed(addr, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[addr] = val
}

// Load implements the register backend read.
func (m *Model) Load(addr uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Count this load against armed effects targeting addr.
	kept := m.pend[:0]
	for _, p := range m.pend {
		if p.rule.Target != addr {
			kept = append(kept, p)
			continue
		}
		p.remaining--
		if p.remaining > 0 {
			kept = append(kept, p)
			continue
		}
		m.apply(p.rule)
	}
	m.pend = kept

	v := m.regs[addr]
	m.record(Op{Kind: "r", Addr: addr, Val: v})
	return v
}

// Store implements the register backend write.
func (m *Model) Store(addr uint32, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regs[addr] = val
	m.record(Op{Kind: "w", Addr: addr, Val: val})

	for _, r := range m.rules {
		if r.Addr != addr || val&r.Mask != r.Value {
			continue
		}
		glog.V(2).Infof("sim: rule %q armed by store %08x=%08x", r.Name, addr, val)
		if r.Reads == 0 {
			m.apply(r)
			continue
		}
		m.pend = append(m.pend, pending{rule: r, remaining: r.Reads})
	}
}

func (m *Model) apply(r Rule) {
	v := m.regs[r.Target]
	m.regs[r.Target] = v&^r.Clear | r.Set
	glog.V(2).Infof("sim: rule %q fired: %08x %08x -> %08x", r.Name, r.Target, v, m.regs[r.Target])
}

func (m *Model) record(op Op) {
	if m.recording {
		m.ops = append(m.ops, op)
	}
}

// Load8 implements byte-addressed memory reads.
func (m *Model) Load8(addr uint32) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, off := m.region(addr)
	return r.data[off]
}

// Store8 implements byte-addressed memory writes.
func (m *Model) Store8(addr uint32, b byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, off := m.region(addr)
	r.data[off] = b
}

func (m *Model) region(addr uint32) (ramRegion, uint32) {
	for _, r := range m.ram {
		if addr >= r.base && addr-r.base < uint32(len(r.data)) {
			return r, addr - r.base
		}
	}
	panic(fmt.Sprintf("sim: memory access outside RAM: 0x%08x", addr))
}

// CopyIn writes b into RAM starting at addr.
func (m *Model) CopyIn(addr uint32, b []byte) {
	for i, c := range b {
		m.Store8(addr+uint32(i), c)
	}
}

// CopyOut reads n bytes of RAM starting at addr.
func (m *Model) CopyOut(addr, n uint32) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Load8(addr + uint32(i))
	}
	return out
}

// Ops returns every recorded register access in order.
func (m *Model) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Op(nil), m.ops...)
}

// Writes returns only the recorded stores.
func (m *Model) Writes() []Op {
	var w []Op
	for _, op := range m.Ops() {
		if op.Kind == "w" {
			w = append(w, op)
		}
	}
	return w
}

// Reg returns the current value of a register.
func (m *Model) Reg(addr uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[addr]
}
