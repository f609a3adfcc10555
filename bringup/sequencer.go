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

package bringup

import (
	"fmt"
	"sync"

	"github.com/google/coldboot/api"
)

// State is the sequencer's global state.
type State uint8

const (
	// NotStarted means Run has not been called.
	NotStarted State = iota

	// Running means the sequencer is walking the domain table.
	Running

	// Completed means every domain reached Enabled.
	Completed

	// Halted means a domain failed and no further hardware state changes
	// will be made.
	Halted
)

// String returns the state name as used on the monitor API.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// HaltError reports the first bring-up failure, identifying the domain as
// the cause. There is no retry at this layer.
type HaltError struct {
	// Domain is the domain that failed.
	Domain string

	// Err is the underlying failure, typically a *mmio.TimeoutError
	// wrapped with the enable stage that issued it.
	Err error
}

// Error implements error.
func (e *HaltError) Error() string {
	return fmt.Sprintf("bringup halted: domain %q: %v", e.Domain, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *HaltError) Unwrap() error {
	return e.Err
}

// Sequencer walks a validated domain table in dependency order.
//
// The mutex guards status reads from the monitor goroutine in the emulator;
// on the boot processor there is exactly one thread of control and the lock
// never contends.
type Sequencer struct {
	mu     sync.Mutex
	table  []Domain
	order  []int
	status []Status
	state  State
}

// NewSequencer validates the table as a DAG and computes the walk order.
// No register access happens here; a table defect fails construction.
func NewSequencer(table []Domain) (*Sequencer, error) {
	order, err := topoSort(table)
	if err != nil {
		return nil, fmt.Errorf("invalid domain table: %w", err)
	}
	return &Sequencer{
		table:  table,
		order:  order,
		status: make([]Status, len(table)),
	}, nil
}

// Run enables every domain in dependency order and returns nil once all are
// Enabled. The first failure marks its domain Failed, halts the sequencer
// and returns a *HaltError; no further domains are touched.
func (s *Sequencer) Run(ctx *Context) error {
	s.setState(Running)
	defer ctx.Close()

	for _, i := range s.order {
		d := s.table[i]

		// The topological order makes this impossible unless the table
		// was mutated after validation; treat it as a defect, not a
		// hardware fault.
		for _, dep := range d.Deps {
			if !s.Enabled(dep) {
				s.setState(Halted)
				return &HaltError{Domain: d.Name, Err: fmt.Errorf("dependency %q not enabled", dep)}
			}
		}

		s.setStatus(i, Enabling)
		if err := d.Enable(ctx); err != nil {
			s.setStatus(i, Failed)
			s.setState(Halted)
			return &HaltError{Domain: d.Name, Err: err}
		}
		s.setStatus(i, Enabled)
	}

	s.setState(Completed)
	return nil
}

// State returns the global sequencer state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Completed reports whether every domain reached Enabled.
func (s *Sequencer) Completed() bool {
	return s.State() == Completed
}

// Enabled reports whether the named domain is live.
func (s *Sequencer) Enabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.table {
		if d.Name == name {
			return s.status[i] == Enabled
		}
	}
	return false
}

// Statuses returns the per-domain status in walk order, for the monitor.
func (s *Sequencer) Statuses() []api.DomainStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]api.DomainStatus, 0, len(s.order))
	for _, i := range s.order {
		out = append(out, api.DomainStatus{
			Name:   s.table[i].Name,
			Status: s.status[i].String(),
			Deps:   s.table[i].Deps,
		})
	}
	return out
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

func (s *Sequencer) setStatus(i int, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[i] = st
}
