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

// Package bringup models the hardware state the boot processor must
// establish — power rails, clocks, resets, memory training — as a static
// table of domains with explicit dependency edges, and walks that table in
// topological order.
//
// Power precedes clocks, clocks precede reset deassertion, and memory
// training precedes any use of external memory; violating that order
// produces undefined hardware behavior, not a catchable error, which is why
// the ordering lives in a validated graph instead of in call order.
package bringup

import (
	"fmt"

	"github.com/google/coldboot/mmio"
)

// Status is a domain's bring-up state.
type Status uint8

const (
	// Uninitialized means the domain has not been touched.
	Uninitialized Status = iota

	// Enabling means the domain's enable sequence is in progress.
	Enabling

	// Enabled means the domain is live.
	Enabled

	// Failed is absorbing: the enable sequence timed out or the hardware
	// responded invalidly. There is no retry; a bring-up failure means the
	// platform itself is not in a supported state.
	Failed
)

// String returns the status name as used on the monitor API.
func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Enabling:
		return "enabling"
	case Enabled:
		return "enabled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Domain is one named unit of hardware state with enable dependencies.
// Tables of domains are fixed at build time; only the Sequencer mutates
// their runtime status.
type Domain struct {
	// Name identifies the domain.
	Name string

	// Deps lists domains that must be Enabled before this one may start
	// Enabling.
	Deps []string

	// Enable issues the domain's register writes and readiness polls.
	Enable func(*Context) error
}

// Context hands enable sequences their register views and poll budgets.
//
// Views are opened on demand and cached, so a domain sequence and a later
// one share the single live handle per block rather than racing to open it.
type Context struct {
	backend mmio.Backend
	views   map[uint32]*mmio.View

	// scale multiplies every poll budget, so the same table runs against
	// scripted models with tiny counts and real hardware with real ones.
	scale int

	// dramID selects the DRAM parameter set for memory training.
	dramID int
}

// NewContext returns a Context performing register access through b.
// scale multiplies all poll budgets and must be at least 1.
func NewContext(b mmio.Backend, scale int, dramID int) *Context {
	if scale < 1 {
		scale = 1
	}
	return &Context{
		backend: b,
		views:   map[uint32]*mmio.View{},
		scale:   scale,
		dramID:  dramID,
	}
}

// View returns the live view for the block, opening it if needed.
func (c *Context) View(blk mmio.Block) (*mmio.View, error) {
	if v, ok := c.views[blk.Base]; ok {
		return v, nil
	}
	v, err := mmio.Open(blk, c.backend)
	if err != nil {
		return nil, err
	}
	c.views[blk.Base] = v
	return v, nil
}

// Budget returns a poll budget of n iterations scaled for the platform.
func (c *Context) Budget(n int) mmio.Budget {
	return mmio.Budget{Polls: n * c.scale}
}

// Close releases every view the context opened.
func (c *Context) Close() {
	for _, v := range c.views {
		v.Close()
	}
	c.views = map[uint32]*mmio.View{}
}
