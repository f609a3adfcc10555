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

// Package bringup_test holds blackbox tests for the bring-up sequencer.
package bringup_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/bringup"
	"github.com/google/coldboot/internal/sim"
	"github.com/google/coldboot/mmio"
)

func TestSequencerRunsDependencyOrder(t *testing.T) {
	var visited []string
	visit := func(name string) func(*bringup.Context) error {
		return func(*bringup.Context) error {
			visited = append(visited, name)
			return nil
		}
	}

	// Declared reset-first to prove the order comes from the edges, not
	// the table.
	table := []bringup.Domain{
		{Name: "reset", Deps: []string{"clock"}, Enable: visit("reset")},
		{Name: "clock", Deps: []string{"power"}, Enable: visit("clock")},
		{Name: "power", Enable: visit("power")},
	}

	seq, err := bringup.NewSequencer(table)
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}
	if err := seq.Run(bringup.NewContext(sim.New(nil), 1, 0)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if diff := cmp.Diff([]string{"power", "clock", "reset"}, visited); diff != "" {
		t.Errorf("wrong enable order (-want +got):\n%s", diff)
	}
	if !seq.Completed() {
		t.Errorf("sequencer state %v, want completed", seq.State())
	}
}

func TestSequencerHaltsOnFailure(t *testing.T) {
	enabled := map[string]bool{}
	ok := func(name string) func(*bringup.Context) error {
		return func(*bringup.Context) error {
			enabled[name] = true
			return nil
		}
	}

	table := []bringup.Domain{
		{Name: "power", Enable: ok("power")},
		{Name: "clock", Deps: []string{"power"}, Enable: func(*bringup.Context) error {
			return fmt.Errorf("gate readback: %w", &mmio.TimeoutError{Block: "CAR", Field: "CLK_OUT_ENB_V", Polls: 8})
		}},
		{Name: "reset", Deps: []string{"clock"}, Enable: ok("reset")},
	}

	seq, err := bringup.NewSequencer(table)
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}
	err = seq.Run(bringup.NewContext(sim.New(nil), 1, 0))

	var halt *bringup.HaltError
	if !errors.As(err, &halt) {
		t.Fatalf("Run: got %v, want *HaltError", err)
	}
	if halt.Domain != "clock" {
		t.Errorf("halted on domain %q, want %q", halt.Domain, "clock")
	}
	var timeout *mmio.TimeoutError
	if !errors.As(err, &timeout) {
		t.Errorf("halt error does not unwrap to the timeout: %v", err)
	}

	if enabled["reset"] {
		t.Error("domain downstream of the failure was enabled")
	}
	if seq.State() != bringup.Halted {
		t.Errorf("sequencer state %v, want halted", seq.State())
	}

	want := []api.DomainStatus{
		{Name: "power", Status: "enabled"},
		{Name: "clock", Status: "failed", Deps: []string{"power"}},
		{Name: "reset", Status: "uninitialized", Deps: []string{"clock"}},
	}
	if diff := cmp.Diff(want, seq.Statuses()); diff != "" {
		t.Errorf("wrong statuses (-want +got):\n%s", diff)
	}
}

func TestSequencerRejectsCycleBeforeHardwareAccess(t *testing.T) {
	touched := false
	table := []bringup.Domain{
		{Name: "a", Deps: []string{"b"}, Enable: func(*bringup.Context) error { touched = true; return nil }},
		{Name: "b", Deps: []string{"a"}, Enable: func(*bringup.Context) error { touched = true; return nil }},
	}

	if _, err := bringup.NewSequencer(table); err == nil {
		t.Fatal("NewSequencer accepted a cyclic table")
	}
	if touched {
		t.Error("cyclic table reached an enable sequence")
	}
}

func TestContextSharesViews(t *testing.T) {
	blk := mmio.Block{Name: "SHARED", Base: 0x9000, Size: 0x100}

	ctx := bringup.NewContext(sim.New(nil), 1, 0)
	defer ctx.Close()

	v1, err := ctx.View(blk)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	v2, err := ctx.View(blk)
	if err != nil {
		t.Fatalf("second View: %v", err)
	}
	if v1 != v2 {
		t.Error("context opened two views over one block")
	}
}

func TestContextBudgetScaling(t *testing.T) {
	for _, test := range []struct {
		desc  string
		scale int
		n     int
		want  int
	}{
		{desc: "identity", scale: 1, n: 16, want: 16},
		{desc: "scaled", scale: 100, n: 16, want: 1600},
		{desc: "floor at one", scale: 0, n: 16, want: 16},
	} {
		t.Run(test.desc, func(t *testing.T) {
			ctx := bringup.NewContext(sim.New(nil), test.scale, 0)
			defer ctx.Close()
			if got := ctx.Budget(test.n); got.Polls != test.want {
				t.Errorf("Budget(%d) = %d polls, want %d", test.n, got.Polls, test.want)
			}
		})
	}
}
