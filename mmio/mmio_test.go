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

// Package mmio_test holds blackbox tests for the register access layer.
package mmio_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/coldboot/internal/sim"
	"github.com/google/coldboot/mmio"
)

func TestSubFieldWritePreservesNeighbors(t *testing.T) {
	blk := mmio.Block{Name: "TEST", Base: 0x1000, Size: 0x100}
	field := mmio.Field{Name: "MID", Reg: 0x10, Shift: 8, Width: 4, Access: mmio.RW}

	m := sim.New(nil)
	m.Seed(blk.Base+0x10, 0xdeadbeef)

	v, err := mmio.Open(blk, m)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	v.Write(field, 0x5)

	if got, want := m.Reg(blk.Base+0x10), uint32(0xdead05ef); got != want {
		t.Errorf("register after sub-field write: got %08x, want %08x", got, want)
	}
	if got, want := v.Read(field), uint32(0x5); got != want {
		t.Errorf("field readback: got %x, want %x", got, want)
	}
}

func TestWriteOnlyFieldIssuesNoRead(t *testing.T) {
	blk := mmio.Block{Name: "TEST", Base: 0x2000, Size: 0x100}

	for _, test := range []struct {
		desc  string
		field mmio.Field
		val   uint32
		want  uint32
	}{
		{
			desc:  "write-only whole word",
			field: mmio.Field{Name: "SET", Reg: 0x20, Width: 32, Access: mmio.WO},
			val:   0x41010001,
			want:  0x41010001,
		},
		{
			desc:  "write-one-to-clear",
			field: mmio.Field{Name: "ACK", Reg: 0x24, Shift: 4, Width: 1, Access: mmio.W1C},
			val:   1,
			want:  1 << 4,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			m := sim.New(nil)
			v, err := mmio.Open(blk, m)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer v.Close()

			v.Write(test.field, test.val)

			wantOps := []sim.Op{{Kind: "w", Addr: blk.Base + test.field.Reg, Val: test.want}}
			if diff := cmp.Diff(wantOps, m.Ops()); diff != "" {
				t.Errorf("unexpected access trace (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpenIsExclusive(t *testing.T) {
	blk := mmio.Block{Name: "TEST", Base: 0x3000, Size: 0x100}
	m := sim.New(nil)

	v, err := mmio.Open(blk, m)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := mmio.Open(blk, m); err == nil {
		t.Fatal("second Open of a live block succeeded")
	}

	v.Close()
	v2, err := mmio.Open(blk, m)
	if err != nil {
		t.Fatalf("Open after Close: %v", err)
	}
	v2.Close()
}

func TestWaitBudgetExhaustion(t *testing.T) {
	blk := mmio.Block{Name: "TEST", Base: 0x4000, Size: 0x100}
	lock := mmio.Field{Name: "LOCK", Reg: 0x30, Shift: 27, Width: 1, Access: mmio.RO}

	m := sim.New(nil)
	v, err := mmio.Open(blk, m)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	const polls = 7
	err = v.Wait(lock, mmio.Set(1), mmio.Budget{Polls: polls})

	var timeout *mmio.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Wait: got %v, want *TimeoutError", err)
	}
	if timeout.Polls != polls {
		t.Errorf("timeout after %d polls, want %d", timeout.Polls, polls)
	}

	// The budget bounds the accesses exactly, and a timed-out wait must
	// not have stored anything.
	ops := m.Ops()
	if len(ops) != polls {
		t.Errorf("issued %d accesses, want %d", len(ops), polls)
	}
	for _, op := range ops {
		if op.Kind != "r" {
			t.Errorf("wait issued a store: %v", op)
		}
	}
}

func TestWaitSatisfied(t *testing.T) {
	blk := mmio.Block{Name: "TEST", Base: 0x5000, Size: 0x100}
	busy := mmio.Field{Name: "BUSY", Reg: 0x40, Width: 32, Access: mmio.RO}

	m := sim.New([]sim.Rule{{
		Name: "busy-clears", Addr: blk.Base + 0x44, Mask: 1, Value: 1,
		Target: blk.Base + 0x40, Clear: 1 << 8, Reads: 3,
	}})
	m.Seed(blk.Base+0x40, 1<<8)

	v, err := mmio.Open(blk, m)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer v.Close()

	v.Write32(0x44, 1)
	if err := v.Wait(busy, mmio.Clear(1<<8), mmio.Budget{Polls: 10}); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
