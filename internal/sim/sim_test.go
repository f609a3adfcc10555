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

package sim_test

import (
	"strings"
	"testing"

	"github.com/google/coldboot/internal/sim"
	"github.com/google/go-cmp/cmp"
)

const (
	ctrlReg   = 0x60001000
	statusReg = 0x60001004
)

func lockRule(reads int) sim.Rule {
	return sim.Rule{
		Name:   "lock",
		Addr:   ctrlReg,
		Mask:   1 << 30,
		Value:  1 << 30,
		Target: statusReg,
		Set:    1 << 27,
		Reads:  reads,
	}
}

func TestRuleAppliesAfterReads(t *testing.T) {
	m := sim.New([]sim.Rule{lockRule(3)})

	m.Store(ctrlReg, 1<<30|0x4e)
	for i := 0; i < 2; i++ {
		if v := m.Load(statusReg); v&(1<<27) != 0 {
			t.Fatalf("lock bit set after %d loads, want 3", i+1)
		}
	}
	if v := m.Load(statusReg); v&(1<<27) == 0 {
		t.Error("lock bit clear after 3 loads")
	}
}

func TestRuleIgnoresNonMatchingStore(t *testing.T) {
	m := sim.New([]sim.Rule{lockRule(1)})

	// Enable bit clear: the rule must not arm.
	m.Store(ctrlReg, 0x4e)
	if v := m.Load(statusReg); v&(1<<27) != 0 {
		t.Error("lock bit set without the arming store")
	}
}

func TestRuleAppliesImmediatelyWithZeroReads(t *testing.T) {
	m := sim.New([]sim.Rule{{
		Name:   "ack",
		Addr:   ctrlReg,
		Mask:   1 << 8,
		Value:  1 << 8,
		Target: ctrlReg,
		Clear:  1 << 8,
	}})

	m.Store(ctrlReg, 1<<8|5)
	if v := m.Load(ctrlReg); v != 5 {
		t.Errorf("register reads %08x, want %08x", v, 5)
	}
}

func TestOpsRecordAccesses(t *testing.T) {
	m := sim.New(nil)
	m.Seed(statusReg, 0xAB)

	m.Store(ctrlReg, 1)
	_ = m.Load(statusReg)

	want := []sim.Op{
		{Kind: "w", Addr: ctrlReg, Val: 1},
		{Kind: "r", Addr: statusReg, Val: 0xAB},
	}
	if d := cmp.Diff(want, m.Ops()); d != "" {
		t.Errorf("op trace diff:\n%s", d)
	}
}

func TestRAMRoundTrip(t *testing.T) {
	m := sim.New(nil)
	m.AddRAM(0x40000000, 0x1000)

	in := []byte("payload bytes")
	m.CopyIn(0x40000100, in)
	if got := m.CopyOut(0x40000100, uint32(len(in))); string(got) != string(in) {
		t.Errorf("CopyOut = %q, want %q", got, in)
	}

	defer func() {
		if recover() == nil {
			t.Error("out-of-range access did not panic")
		}
	}()
	m.Load8(0x40001000)
}

func TestParseScript(t *testing.T) {
	for _, test := range []struct {
		desc    string
		json    string
		wantErr bool
		want    sim.Script
	}{
		{
			desc: "full script",
			json: `{"dram_id": 1, "extend": true, "rules": [{"name": "x", "addr": 16, "mask": 1, "value": 1, "target": 32, "set": 2, "reads": 4}]}`,
			want: sim.Script{
				DRAMID: 1,
				Extend: true,
				Rules:  []sim.Rule{{Name: "x", Addr: 16, Mask: 1, Value: 1, Target: 32, Set: 2, Reads: 4}},
			},
		},
		{
			desc: "defaults",
			json: `{}`,
			want: sim.Script{},
		},
		{
			desc:    "malformed",
			json:    `{"dram_id": `,
			wantErr: true,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			got, err := sim.ParseScript(strings.NewReader(test.json))
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("ParseScript: %v, wantErr %v", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if d := cmp.Diff(test.want, *got); d != "" {
				t.Errorf("script diff:\n%s", d)
			}
		})
	}
}

func TestFromScriptExtend(t *testing.T) {
	extra := lockRule(1)
	extra.Name = "extra"

	m, id := sim.FromScript(&sim.Script{DRAMID: 1, Extend: true, Rules: []sim.Rule{extra}})
	if id != 1 {
		t.Errorf("dram id %d, want 1", id)
	}

	// The appended rule must react alongside the defaults.
	m.Store(ctrlReg, 1<<30)
	if v := m.Load(statusReg); v&(1<<27) == 0 {
		t.Error("appended rule did not fire")
	}
}

func TestFromScriptNil(t *testing.T) {
	m, id := sim.FromScript(nil)
	if m == nil {
		t.Fatal("nil model")
	}
	if id != 0 {
		t.Errorf("dram id %d, want 0", id)
	}
}
