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

package bringup_test

import (
	"errors"
	"testing"

	"github.com/google/coldboot/bringup"
	"github.com/google/coldboot/internal/sim"
	"github.com/google/coldboot/soc/t210"
)

func runT210(t *testing.T, m *sim.Model) (*bringup.Sequencer, error) {
	t.Helper()
	seq, err := bringup.NewSequencer(bringup.T210Domains())
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}
	return seq, seq.Run(bringup.NewContext(m, 2, 0))
}

func hasWrite(m *sim.Model, addr, val uint32) bool {
	for _, op := range m.Writes() {
		if op.Addr == addr && op.Val == val {
			return true
		}
	}
	return false
}

func TestT210BringupCompletes(t *testing.T) {
	m := sim.NewDefault()
	seq, err := runT210(t, m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !seq.Completed() {
		t.Fatalf("sequencer state %v, want completed", seq.State())
	}

	// Landmarks the walk must have hit, in hardware terms: timebase
	// configured, CPU complex clock bursting from PLLX, all three power
	// partitions reported up, RAM repair complete.
	for _, landmark := range []struct {
		desc string
		addr uint32
		val  uint32
	}{
		{"microsecond timer config", t210.TIMER.Base + t210.TIMERUSUsecCfg.Reg, t210.USecCfg38_4MHz},
		{"system counter frequency", t210.SYSCTR0.Base + t210.SYSCTR0Cntfid.Reg, t210.CntFid19_2MHz},
		{"cclk burst to pllx", t210.CAR.Base + t210.CARCclkBurstPolicy.Reg, 0x20008888},
		{"crail ungate request", t210.PMC.Base + t210.PMCPwrgateTgl.Reg, t210.PwrgateToggleStart | t210.PartCRAIL},
		{"ce0 ungate request", t210.PMC.Base + t210.PMCPwrgateTgl.Reg, t210.PwrgateToggleStart | t210.PartCE0},
		{"ram repair request", t210.FLOW.Base + t210.FLOWRamRepair.Reg, t210.RamRepairReq},
		{"vi clock parked", t210.CAR.Base + t210.CARClkSourceVi.Reg, 0x80000000},
		{"sor1 clock parked", t210.CAR.Base + t210.CARClkSourceSor1.Reg, 0x8000},
		{"pmic read address", t210.I2C5.Base + t210.I2CCmdAddr0.Reg, uint32(t210.Max77620Pwr)<<1 | 1},
	} {
		if !hasWrite(m, landmark.addr, landmark.val) {
			t.Errorf("missing %s: no write of %08x to %08x", landmark.desc, landmark.val, landmark.addr)
		}
	}

	// The bring-up must never touch the CCPLEX reset release; that write
	// belongs to the handoff alone.
	if hasWrite(m, t210.CAR.Base+t210.CARRstCpugCmplxClr.Reg, 0x41010001) {
		t.Error("bring-up released the CPU reset")
	}

	if got := m.Reg(t210.PMC.Base + t210.PMCPwrgateStat.Reg); got&t210.PartC0NCMask == 0 {
		t.Errorf("C0NC partition not powered: status %08x", got)
	}
}

func TestT210BringupHaltsWithoutPllxLock(t *testing.T) {
	// Drop only the PLLX lock reaction: the walk must reach the CPU
	// complex domain and halt there, leaving earlier domains enabled.
	var rules []sim.Rule
	for _, r := range sim.DefaultRules() {
		if r.Name == "pllx-lock" {
			continue
		}
		rules = append(rules, r)
	}

	seq, err := runT210(t, sim.New(rules))

	var halt *bringup.HaltError
	if !errors.As(err, &halt) {
		t.Fatalf("Run: got %v, want *HaltError", err)
	}
	if halt.Domain != "ccplex-power" {
		t.Errorf("halted on %q, want %q", halt.Domain, "ccplex-power")
	}
	if !seq.Enabled("sdram") {
		t.Error("sdram should have been enabled before the failure")
	}
	if seq.Completed() {
		t.Error("sequencer reports completed after a halt")
	}
}

func TestT210BringupHaltsOnPmicReadbackMismatch(t *testing.T) {
	// Without the scripted PMIC answer the readback returns stale bus
	// data, and the walk must refuse to proceed past the pmic domain.
	var rules []sim.Rule
	for _, r := range sim.DefaultRules() {
		if r.Name == "pmic-readback" {
			continue
		}
		rules = append(rules, r)
	}

	seq, err := runT210(t, sim.New(rules))

	var halt *bringup.HaltError
	if !errors.As(err, &halt) {
		t.Fatalf("Run: got %v, want *HaltError", err)
	}
	if halt.Domain != "pmic" {
		t.Errorf("halted on %q, want %q", halt.Domain, "pmic")
	}
	if seq.Enabled("sdram") {
		t.Error("sdram enabled despite the pmic failure")
	}
}

func TestParams(t *testing.T) {
	for _, test := range []struct {
		desc    string
		id      int
		wantErr bool
	}{
		{desc: "first population", id: 0},
		{desc: "second population", id: 1},
		{desc: "unknown strapping", id: 9, wantErr: true},
	} {
		t.Run(test.desc, func(t *testing.T) {
			p, err := bringup.Params(test.id)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Params(%d): %v, wantErr %v", test.id, err, test.wantErr)
			}
			if !test.wantErr && p.ID != test.id {
				t.Errorf("Params(%d) returned entry for id %d", test.id, p.ID)
			}
		})
	}
}
