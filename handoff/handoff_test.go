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

// Package handoff_test holds blackbox tests for the handoff controller.
package handoff_test

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/bringup"
	"github.com/google/coldboot/handoff"
	"github.com/google/coldboot/internal/sim"
	"github.com/google/coldboot/soc/t210"
)

func noop(*bringup.Context) error { return nil }

// completedSequencer runs a trivial table to completion so the handoff's
// state checks pass. withSDRAM adds an enabled "sdram" domain.
func completedSequencer(t *testing.T, m *sim.Model, withSDRAM bool) (*bringup.Sequencer, *bringup.Context) {
	t.Helper()
	table := []bringup.Domain{{Name: "osc", Enable: noop}}
	if withSDRAM {
		table = append(table, bringup.Domain{Name: "sdram", Deps: []string{"osc"}, Enable: noop})
	}
	seq, err := bringup.NewSequencer(table)
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}
	ctx := bringup.NewContext(m, 1, 0)
	if err := seq.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return seq, ctx
}

// stage writes a payload into RAM at dest and returns its descriptor with
// a correct digest.
func stage(m *sim.Model, dest uint32) api.StageDescriptor {
	payload := []byte("second stage payload, relocated and ready")
	m.CopyIn(dest, payload)
	digest := sha256.Sum256(payload)
	return api.StageDescriptor{
		Name:   "stage2",
		Dest:   dest,
		Size:   uint32(len(payload)),
		Entry:  dest,
		SHA256: digest[:],
	}
}

func TestValidateRefuses(t *testing.T) {
	const dest = t210.IRAMBase + 0x30000

	for _, test := range []struct {
		desc      string
		withSDRAM bool
		mangle    func(*api.StageDescriptor)
	}{
		{
			desc:   "digest mismatch",
			mangle: func(d *api.StageDescriptor) { d.SHA256[0] ^= 0xff },
		},
		{
			desc:   "missing digest",
			mangle: func(d *api.StageDescriptor) { d.SHA256 = nil },
		},
		{
			desc:   "entry outside image",
			mangle: func(d *api.StageDescriptor) { d.Entry = d.Dest + d.Size },
		},
		{
			desc:   "destination in untrained DRAM",
			mangle: func(d *api.StageDescriptor) { d.Dest = t210.DRAMBase },
		},
		{
			desc:      "destination outside any region",
			withSDRAM: true,
			mangle:    func(d *api.StageDescriptor) { d.Dest = t210.IRAMBase + t210.IRAMSize - 4 },
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			m := sim.New(nil)
			m.AddRAM(t210.IRAMBase, t210.IRAMSize)
			seq, ctx := completedSequencer(t, m, test.withSDRAM)
			defer ctx.Close()

			desc := stage(m, dest)
			test.mangle(&desc)

			err := handoff.Validate(seq, m, desc)
			var v *handoff.ValidationError
			if !errors.As(err, &v) {
				t.Fatalf("Validate: got %v, want *ValidationError", err)
			}
		})
	}
}

func TestValidateRequiresCompletedBringup(t *testing.T) {
	m := sim.New(nil)
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)

	seq, err := bringup.NewSequencer([]bringup.Domain{{Name: "osc", Enable: noop}})
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}

	desc := stage(m, t210.IRAMBase+0x30000)
	if err := handoff.Validate(seq, m, desc); err == nil {
		t.Fatal("Validate passed before bring-up ran")
	}
}

func TestRunRefusalIssuesNoWrites(t *testing.T) {
	m := sim.New(nil)
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	seq, ctx := completedSequencer(t, m, false)
	defer ctx.Close()

	before := len(m.Writes())

	desc := stage(m, t210.IRAMBase+0x30000)
	desc.SHA256[5] ^= 0xff

	if err := handoff.Run(ctx, seq, m, desc); err == nil {
		t.Fatal("Run accepted a corrupt stage")
	}

	if got := len(m.Writes()); got != before {
		t.Errorf("refused handoff issued %d register writes", got-before)
	}
}

func TestRunReleaseSequence(t *testing.T) {
	const dest = t210.IRAMBase + 0x30000

	m := sim.New(nil)
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	seq, ctx := completedSequencer(t, m, true)
	defer ctx.Close()

	desc := stage(m, dest)
	if err := handoff.Run(ctx, seq, m, desc); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sbLow := t210.SB.Base + t210.SBAa64ResetLow.Reg
	sbCsr := t210.SB.Base + t210.SBCsr.Reg
	cpuClr := t210.CAR.Base + t210.CARRstCpugCmplxClr.Reg

	type event struct {
		kind string
		addr uint32
		val  uint32
	}
	want := []event{
		{"w", sbLow, desc.Entry | 1},
		{"w", sbCsr, t210.SbCsrNsVectorWriteDisable},
		{"r", sbCsr, 0}, // the ordering fence
		{"w", cpuClr, 0x20000000},
		{"w", cpuClr, 0x41010001},
	}

	// The events must appear in this order; other accesses may interleave.
	ops := m.Ops()
	i := 0
	for _, op := range ops {
		if i == len(want) {
			break
		}
		w := want[i]
		if op.Kind == w.kind && op.Addr == w.addr && (op.Kind == "r" || op.Val == w.val) {
			i++
		}
	}
	if i != len(want) {
		t.Fatalf("release sequence stopped at step %d (%+v); trace:\n%v", i, want[i], ops)
	}
}
