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

package t210

import "github.com/google/coldboot/mmio"

// Secure boot registers. SB_AA64_RESET_LOW/HIGH hold the CCPLEX cold reset
// vector; SB_CSR gates further non-secure writes to it.
var (
	SBCsr          = mmio.Reg("SB_CSR", 0x000)
	SBPiromStart   = mmio.Reg("SB_PIROM_START", 0x004)
	SBAa64ResetLow = mmio.Reg("SB_AA64_RESET_LOW", 0x030)
	SBAa64ResetHi  = mmio.Reg("SB_AA64_RESET_HIGH", 0x034)
)

// SB_CSR fields.
const (
	// SbCsrNsVectorWriteDisable locks the reset vector against further
	// non-secure writes.
	SbCsrNsVectorWriteDisable = 1 << 1
)

// Exception vector registers.
var (
	EVPCpuResetVector = mmio.Reg("EVP_CPU_RESET_VECTOR", 0x100)
	EVPCopResetVector = mmio.Reg("EVP_COP_RESET_VECTOR", 0x200)
)

// AHB registers.
var (
	AHBArbitrationDisable = mmio.Reg("AHB_ARBITRATION_DISABLE", 0x004)
	AHBArbitrationXbar    = mmio.Reg("AHB_ARBITRATION_XBAR_CTRL", 0x0e0)
	AHBGizmoTZRAM         = mmio.Reg("AHB_GIZMO_TZRAM", 0x054)
	AHBSpareReg           = mmio.Reg("AHB_SPARE_REG", 0x110)
)

// AHB_ARBITRATION_XBAR_CTRL fields.
const (
	// AhbXbarMemInitDone reports boot-time memory arbitration setup.
	AhbXbarMemInitDone = 1 << 16
)
