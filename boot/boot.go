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

// Package boot wires the cold-boot flow together: relocation of the
// delivered image, hardware bring-up, and handoff to the application cores.
//
// Every failure funnels into one terminal state: record the fault, halt.
// There is no retry and no error return to a caller — past the exploit
// entry point there is no caller.
package boot

import (
	"errors"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/bringup"
	"github.com/google/coldboot/handoff"
	"github.com/google/coldboot/internal/verify"
	"github.com/google/coldboot/mmio"
	"github.com/google/coldboot/relocate"
)

// Env carries the platform bindings for one boot. The device build fills
// it with the raw backend and the assembly jump and halt; the emulator and
// tests substitute scripted implementations.
type Env struct {
	// Backend performs register access.
	Backend mmio.Backend

	// Mem is byte-addressed physical memory.
	Mem relocate.Memory

	// Jump transfers execution to the relocated first stage. It does not
	// return.
	Jump func(entry uint32)

	// Halt parks the boot core. It does not return on the device.
	Halt func()

	// Scale multiplies all hardware poll budgets.
	Scale int

	// DRAMID selects the DRAM parameter set.
	DRAMID int

	// Stage1Digest is the declared SHA-256 of the padded first stage,
	// from the image manifest. Empty skips the check.
	Stage1Digest []byte

	// Stage2Digest is the declared SHA-256 of the second stage, from the
	// image manifest.
	Stage2Digest []byte

	// Observe, if set, receives the sequencer before the bring-up walk
	// starts. The emulator monitor uses it; the device leaves it nil.
	Observe func(*bringup.Sequencer)
}

// fatal records the fault and halts. It returns only when the injected
// Halt does (tests); device halts never return.
func fatal(env *Env, f api.Fault) {
	recordFault(env.Backend, f)
	env.Halt()
}

// readHeader pulls the image header bytes out of the load buffer.
func readHeader(env *Env) (api.ImageHeader, error) {
	buf := make([]byte, api.ImageHeaderOffset+api.ImageHeaderSize)
	for i := range buf {
		buf[i] = env.Mem.Load8(LoadBufferBase + uint32(i))
	}
	return api.ParseImageHeader(buf)
}

// Relocate is the stage-zero flow: parse the delivered image, plan the
// moves, execute them, and jump to the relocated first stage.
func Relocate(env *Env) {
	h, err := readHeader(env)
	if err != nil {
		fatal(env, api.Fault{Cause: api.CauseBadPlan, Stage: "image-header"})
		return
	}

	descs, err := relocate.Stages(h, LoadBuffer(), Stage1Home, Stage2Home)
	if err != nil {
		fatal(env, api.Fault{Cause: api.CauseBadPlan, Stage: "stage-layout"})
		return
	}

	plan, err := relocate.New(descs, LoadBuffer(), []api.Range{IRAM()})
	if err != nil {
		fatal(env, api.Fault{Cause: api.CauseBadPlan, Stage: "plan"})
		return
	}

	plan.Execute(env.Mem)

	if len(env.Stage1Digest) > 0 {
		got := verify.SHA256Region(env.Mem, descs[0].DestRange())
		if err := verify.CheckDigest(got, env.Stage1Digest); err != nil {
			fatal(env, api.Fault{Cause: api.CauseBadDescriptor, Stage: "stage1", Detail: err.Error()})
			return
		}
	}

	env.Jump(descs[0].Entry)
}

// Main is the first-stage flow: bring the hardware up, validate the second
// stage and hand the application cores to it, then park.
func Main(env *Env) {
	seq, err := bringup.NewSequencer(bringup.T210Domains())
	if err != nil {
		fatal(env, api.Fault{Cause: api.CauseConfig, Stage: "domain-table"})
		return
	}
	if env.Observe != nil {
		env.Observe(seq)
	}

	ctx := bringup.NewContext(env.Backend, env.Scale, env.DRAMID)

	if err := seq.Run(ctx); err != nil {
		f := api.Fault{Cause: api.CauseBringup, Stage: "bringup", Detail: err.Error()}
		var halt *bringup.HaltError
		if errors.As(err, &halt) {
			f.Domain = halt.Domain
		}
		fatal(env, f)
		return
	}

	h, err := readHeader(env)
	if err != nil || h.Stage2Len == 0 {
		fatal(env, api.Fault{Cause: api.CauseBadDescriptor, Stage: "stage2-missing"})
		return
	}
	desc := api.StageDescriptor{
		Name:   "stage2",
		Source: LoadBufferBase + h.Stage1Len,
		Dest:   Stage2Home,
		Size:   h.Stage2Len,
		Entry:  Stage2Home,
		SHA256: env.Stage2Digest,
	}

	if err := handoff.Run(ctx, seq, env.Mem, desc); err != nil {
		// The scratch record keeps the stable stage tag; the reason
		// only reaches in-process readers.
		f := api.Fault{Cause: api.CauseBadDescriptor, Stage: "handoff", Detail: err.Error()}
		var v *handoff.ValidationError
		if errors.As(err, &v) {
			f.Detail = v.Reason
		}
		fatal(env, f)
		return
	}

	// The other core is running; this one is done for good.
	env.Halt()
}
