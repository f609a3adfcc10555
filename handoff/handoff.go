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

// Package handoff transfers control of the cold boot to the application
// CPU complex.
//
// The transfer is one-shot and unobservable from this side: once the reset
// releases, the boot processor learns nothing more about the other core.
// Every check therefore happens before the first release write, and a
// failed check means no release write is ever issued.
package handoff

import (
	"fmt"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/bringup"
	"github.com/google/coldboot/internal/verify"
	"github.com/google/coldboot/soc/t210"
)

// ValidationError reports a second-stage descriptor the controller refused
// to hand control to.
type ValidationError struct {
	Stage  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("handoff refused for %q: %s", e.Stage, e.Reason)
}

func refuse(stage, format string, args ...interface{}) error {
	return &ValidationError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that the relocated second stage may receive control:
// bring-up completed, destination inside memory the sequencer actually
// confirmed usable, entry within the image, and the relocated bytes match
// the declared digest.
func Validate(seq *bringup.Sequencer, mem verify.Loader, desc api.StageDescriptor) error {
	if !seq.Completed() {
		return refuse(desc.Name, "bring-up did not complete")
	}

	// IRAM is always usable; DRAM only once memory training succeeded.
	usable := []api.Range{{Base: t210.IRAMBase, Size: t210.IRAMSize}}
	if seq.Enabled("sdram") {
		usable = append(usable, api.Range{Base: t210.DRAMBase, Size: t210.DRAMSize})
	}
	if !verify.InRegions(desc.DestRange(), usable) {
		return refuse(desc.Name, "destination %v outside usable memory", desc.DestRange())
	}

	if desc.Entry < desc.Dest || desc.Entry >= desc.Dest+desc.Size {
		return refuse(desc.Name, "entry 0x%08x outside image %v", desc.Entry, desc.DestRange())
	}

	got := verify.SHA256Region(mem, desc.DestRange())
	if err := verify.CheckDigest(got, desc.SHA256); err != nil {
		return refuse(desc.Name, "%v", err)
	}
	return nil
}

// Release programs the reset vector and releases the CCPLEX out of reset.
// Callers must have run Validate; Release itself performs no checks and
// does not return control paths for failure — after the final write the
// other core is running.
func Release(ctx *bringup.Context, entry uint32) error {
	evp, err := ctx.View(t210.EVP)
	if err != nil {
		return err
	}
	sb, err := ctx.View(t210.SB)
	if err != nil {
		return err
	}
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}

	// A 32-bit secondary spin entry of zero keeps any warm-boot path from
	// wandering; the real entry goes in the AArch64 vector.
	evp.Write(t210.EVPCpuResetVector, 0)

	sb.Write(t210.SBAa64ResetLow, entry|1)
	sb.Write(t210.SBAa64ResetHi, 0)
	sb.Write(t210.SBCsr, t210.SbCsrNsVectorWriteDisable)

	// The readback forces the vector writes to post before any reset
	// releases; without it the store buffer may still hold them when the
	// other core starts fetching.
	sb.Barrier(t210.SBCsr)

	// MSELECT out of reset first, then the non-CPU partition logic, then
	// core 0 itself.
	car.Write(t210.CARRstDevVClr, 1<<3)
	car.Write(t210.CARRstCpugCmplxClr, 0x20000000)
	car.Write(t210.CARRstCpugCmplxClr, 0x41010001)
	return nil
}

// Run validates and, only on success, releases. The error from Validate
// comes back untouched so the caller can record its cause before halting.
func Run(ctx *bringup.Context, seq *bringup.Sequencer, mem verify.Loader, desc api.StageDescriptor) error {
	if err := Validate(seq, mem, desc); err != nil {
		return err
	}
	return Release(ctx, desc.Entry)
}
