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

package boot

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/cmd/imagepack/impl"
	"github.com/google/coldboot/internal/sim"
	"github.com/google/coldboot/soc/t210"
)

// testStages returns plausible stage binaries: the first reserves the
// header bytes, both carry recognizable patterns.
func testStages(t *testing.T) ([]byte, []byte) {
	t.Helper()
	stage1 := make([]byte, 0x200)
	for i := range stage1 {
		stage1[i] = byte(i * 13)
	}
	stage2 := make([]byte, 0x180)
	for i := range stage2 {
		stage2[i] = byte(i*5 + 1)
	}
	return stage1, stage2
}

// chainEnv wires an Env whose Jump continues into Main, the way the
// relocated first stage would on the device.
func chainEnv(m *sim.Model, manifest api.Manifest) (*Env, *int) {
	halts := 0
	env := &Env{
		Backend:      m,
		Mem:          m,
		Halt:         func() { halts++ },
		Scale:        2,
		DRAMID:       0,
		Stage1Digest: manifest.Stage1SHA256,
		Stage2Digest: manifest.Stage2SHA256,
	}
	env.Jump = func(entry uint32) { Main(env) }
	return env, &halts
}

func TestBootChain(t *testing.T) {
	resetFault()

	stage1, stage2 := testStages(t)
	image, manifest, err := impl.Build(stage1, stage2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	m := sim.NewDefault()
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	m.CopyIn(LoadBufferBase, image)

	env, halts := chainEnv(m, manifest)
	Relocate(env)

	if f := LastFault(); f.Cause != api.CauseNone {
		t.Fatalf("boot faulted: %v", f)
	}
	if *halts != 1 {
		t.Errorf("boot core halted %d times, want 1", *halts)
	}

	// The first stage must be byte-identical at its home address.
	h, err := api.ParseImageHeader(image)
	if err != nil {
		t.Fatalf("ParseImageHeader: %v", err)
	}
	if got := m.CopyOut(Stage1Home, h.Stage1Len); !bytes.Equal(got, image[:h.Stage1Len]) {
		t.Error("relocated first stage differs from image")
	}
	if got := m.CopyOut(Stage2Home, h.Stage2Len); !bytes.Equal(got, stage2) {
		t.Error("relocated second stage differs from image")
	}

	// The chain must end in the CPU reset release.
	released := false
	for _, op := range m.Writes() {
		if op.Addr == t210.CAR.Base+t210.CARRstCpugCmplxClr.Reg && op.Val == 0x41010001 {
			released = true
		}
	}
	if !released {
		t.Error("CPU reset was never released")
	}
}

func TestBootChainRefusesCorruptStage2(t *testing.T) {
	resetFault()

	stage1, stage2 := testStages(t)
	image, manifest, err := impl.Build(stage1, stage2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	manifest.Stage2SHA256[0] ^= 0xff

	m := sim.NewDefault()
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	m.CopyIn(LoadBufferBase, image)

	env, halts := chainEnv(m, manifest)
	Relocate(env)

	f := LastFault()
	if f.Cause != api.CauseBadDescriptor {
		t.Fatalf("fault cause %v, want %v", f.Cause, api.CauseBadDescriptor)
	}
	// The stage keeps its stable tag; the refusal reason travels in the
	// detail only.
	if f.Stage != "handoff" {
		t.Errorf("fault stage %q, want %q", f.Stage, "handoff")
	}
	if f.Detail == "" {
		t.Error("fault carries no detail")
	}
	if *halts == 0 {
		t.Error("boot core did not halt")
	}

	for _, op := range m.Writes() {
		if op.Addr == t210.CAR.Base+t210.CARRstCpugCmplxClr.Reg {
			t.Fatalf("release write issued after failed validation: %v", op)
		}
	}

	// The fault record must be in the scratch registers.
	if got := m.Reg(t210.PMC.Base + t210.PMCScratch200.Reg); got != uint32(api.CauseBadDescriptor) {
		t.Errorf("scratch fault cause %d, want %d", got, api.CauseBadDescriptor)
	}
	if got, want := m.Reg(t210.PMC.Base+t210.PMCScratch202.Reg), packTag("handoff"); got != want {
		t.Errorf("scratch stage tag %08x, want %08x", got, want)
	}
}

func TestRelocateRefusesCorruptStage1(t *testing.T) {
	resetFault()

	stage1, stage2 := testStages(t)
	image, manifest, err := impl.Build(stage1, stage2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	manifest.Stage1SHA256[0] ^= 0xff

	m := sim.NewDefault()
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	m.CopyIn(LoadBufferBase, image)

	jumped := false
	env := &Env{
		Backend:      m,
		Mem:          m,
		Jump:         func(uint32) { jumped = true },
		Halt:         func() {},
		Stage1Digest: manifest.Stage1SHA256,
	}
	Relocate(env)

	if f := LastFault(); f.Cause != api.CauseBadDescriptor || f.Stage != "stage1" {
		t.Fatalf("fault %v, want %v at stage %q", f, api.CauseBadDescriptor, "stage1")
	}
	if jumped {
		t.Error("jumped into a first stage that failed verification")
	}
}

func TestRelocateRejectsGarbageImage(t *testing.T) {
	resetFault()

	m := sim.New(nil)
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	// Nothing delivered: the buffer is all zeroes, so the magic check
	// must fail before anything else happens.

	jumped := false
	env := &Env{
		Backend: m,
		Mem:     m,
		Jump:    func(uint32) { jumped = true },
		Halt:    func() {},
	}
	Relocate(env)

	if f := LastFault(); f.Cause != api.CauseBadPlan {
		t.Fatalf("fault cause %v, want %v", f.Cause, api.CauseBadPlan)
	}
	if jumped {
		t.Error("jumped into an unvalidated image")
	}
}

func TestBringupFailureIsRecordedWithDomain(t *testing.T) {
	resetFault()

	stage1, stage2 := testStages(t)
	image, manifest, err := impl.Build(stage1, stage2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// No scripted reactions at all: the PMIC transfer is the first point
	// that needs the hardware to answer, so bring-up halts there.
	m := sim.New(nil)
	m.AddRAM(t210.IRAMBase, t210.IRAMSize)
	m.CopyIn(LoadBufferBase, image)

	env, _ := chainEnv(m, manifest)
	Relocate(env)

	f := LastFault()
	if f.Cause != api.CauseBringup {
		t.Fatalf("fault cause %v, want %v", f.Cause, api.CauseBringup)
	}
	if f.Domain != "pmic" {
		t.Errorf("fault domain %q, want %q", f.Domain, "pmic")
	}
}

func TestLastFaultReadableDuringBoot(t *testing.T) {
	resetFault()

	// An unscripted model fails bring-up, so the flow is guaranteed to
	// record a fault while the reader goroutine is polling.
	m := sim.New(nil)
	env := &Env{Backend: m, Mem: m, Halt: func() {}, Scale: 1}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Main(env)
	}()

	deadline := time.After(10 * time.Second)
	for LastFault().Cause == api.CauseNone {
		select {
		case <-deadline:
			t.Fatal("no fault observed while boot flow ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	<-done

	if f := LastFault(); f.Domain != "pmic" {
		t.Errorf("fault domain %q, want %q", f.Domain, "pmic")
	}
}

func TestPackTag(t *testing.T) {
	for _, test := range []struct {
		desc string
		in   string
		want uint32
	}{
		{desc: "empty", in: "", want: 0},
		{desc: "short", in: "mc", want: 0x636d},
		{desc: "exact", in: "sclk", want: 0x6b6c6373},
		{desc: "truncated", in: "ccplex-power", want: 0x6c706363},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if got := packTag(test.in); got != test.want {
				t.Errorf("packTag(%q) = %08x, want %08x", test.in, test.want, got)
			}
		})
	}
}
