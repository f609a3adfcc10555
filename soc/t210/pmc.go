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

// Power Management Controller registers.
//
// The PMC lives in the always-on domain; its scratch registers survive
// everything short of a cold power cycle, which is why the last-failure
// record goes there.
var (
	PMCCntrl       = mmio.Reg("CNTRL", 0x000)
	PMCPwrgateTgl  = mmio.Reg("PWRGATE_TOGGLE", 0x030)
	PMCPwrgateStat = mmio.Field{Name: "PWRGATE_STATUS", Reg: 0x038, Width: 32, Access: mmio.RO}
	PMCNoIoPower   = mmio.Reg("NO_IOPOWER", 0x044)
	PMCDdrPwr      = mmio.Reg("DDR_PWR", 0x0e8)
	PMCOscEdpdOver = mmio.Reg("OSC_EDPD_OVER", 0x1a4)
	PMCVddpSel     = mmio.Reg("VDDP_SEL", 0x1cc)
	PMCTscMult     = mmio.Reg("TSC_MULT", 0x2b4)
	PMCWeakBias    = mmio.Reg("WEAK_BIAS", 0x2c8)
	PMCRegShort    = mmio.Reg("REG_SHORT", 0x2cc)
	PMCCntrl2      = mmio.Reg("CNTRL2", 0x440)
	PMCIoDpd3Req   = mmio.Reg("IO_DPD3_REQ", 0x45c)
	PMCIoDpd4Req   = mmio.Reg("IO_DPD4_REQ", 0x464)
	PMCDdrCntrl    = mmio.Reg("DDR_CNTRL", 0x4e4)

	PMCScratch0  = mmio.Reg("SCRATCH0", 0x050)
	PMCScratch20 = mmio.Reg("SCRATCH20", 0x0a0)
	PMCScratch49 = mmio.Reg("SCRATCH49", 0x114)

	PMCSecureScratch21 = mmio.Reg("SECURE_SCRATCH21", 0x334)

	PMCScratch188 = mmio.Reg("SCRATCH188", 0x810)
	PMCScratch190 = mmio.Reg("SCRATCH190", 0x818)

	// Last-failure record. The debug interface reads these after a halt.
	PMCScratch200 = mmio.Reg("SCRATCH200", 0x840)
	PMCScratch201 = mmio.Reg("SCRATCH201", 0x844)
	PMCScratch202 = mmio.Reg("SCRATCH202", 0x848)
)

// PWRGATE_TOGGLE fields.
const (
	// PwrgateToggleStart requests the partition toggle; hardware clears it
	// when the request completes.
	PwrgateToggleStart = 1 << 8
)

// Power partition ids and their PWRGATE_STATUS masks.
const (
	PartCRAIL     = 0
	PartC0NC      = 15
	PartCE0       = 14
	PartCRAILMask = 1 << 0
	PartC0NCMask  = 1 << 15
	PartCE0Mask   = 1 << 14
)
