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

// Clock And Reset controller registers.
//
// The CAR contains the logic controlling most clocks and resets on the chip:
// PLL programming, clock source selection and dividers, and the per-device
// reset lines, grouped into banks L/H/U/V/W/X/Y.
var (
	CARSclkBurstPolicy = mmio.Reg("SCLK_BURST_POLICY", 0x028)
	CARSuperSclkDiv    = mmio.Reg("SUPER_SCLK_DIVIDER", 0x02c)
	CARClkSystemRate   = mmio.Reg("CLK_SYSTEM_RATE", 0x030)
	CARCclkBurstPolicy = mmio.Reg("CCLK_BURST_POLICY", 0x020)
	CARSuperCclkDiv    = mmio.Reg("SUPER_CCLK_DIVIDER", 0x024)
	CAROscCtrl         = mmio.Reg("OSC_CTRL", 0x050)

	// Device reset banks (direct access).
	CARRstDevL = mmio.Reg("RST_DEVICES_L", 0x004)
	CARRstDevH = mmio.Reg("RST_DEVICES_H", 0x008)
	CARRstDevU = mmio.Reg("RST_DEVICES_U", 0x00c)
	CARRstDevV = mmio.Reg("RST_DEVICES_V", 0x358)
	CARRstDevW = mmio.Reg("RST_DEVICES_W", 0x35c)
	CARRstDevX = mmio.Reg("RST_DEVICES_X", 0x28c)
	CARRstDevY = mmio.Reg("RST_DEVICES_Y", 0x2a4)

	// Clock out-enable banks (direct access).
	CARClkOutEnbL = mmio.Reg("CLK_OUT_ENB_L", 0x010)
	CARClkOutEnbH = mmio.Reg("CLK_OUT_ENB_H", 0x014)
	CARClkOutEnbU = mmio.Reg("CLK_OUT_ENB_U", 0x018)
	CARClkOutEnbV = mmio.Reg("CLK_OUT_ENB_V", 0x360)
	CARClkOutEnbW = mmio.Reg("CLK_OUT_ENB_W", 0x364)
	CARClkOutEnbX = mmio.Reg("CLK_OUT_ENB_X", 0x280)
	CARClkOutEnbY = mmio.Reg("CLK_OUT_ENB_Y", 0x298)

	// Set/clear aliases for the reset banks the boot path toggles.
	CARRstDevHSet = mmio.Field{Name: "RST_DEV_H_SET", Reg: 0x308, Width: 32, Access: mmio.WO}
	CARRstDevHClr = mmio.Field{Name: "RST_DEV_H_CLR", Reg: 0x30c, Width: 32, Access: mmio.WO}
	CARRstDevVClr = mmio.Field{Name: "RST_DEV_V_CLR", Reg: 0x434, Width: 32, Access: mmio.WO}

	// Set/clear aliases for the clock enable banks the boot path toggles.
	CARClkEnbLClr = mmio.Field{Name: "CLK_ENB_L_CLR", Reg: 0x324, Width: 32, Access: mmio.WO}
	CARClkEnbHSet = mmio.Field{Name: "CLK_ENB_H_SET", Reg: 0x328, Width: 32, Access: mmio.WO}
	CARClkEnbHClr = mmio.Field{Name: "CLK_ENB_H_CLR", Reg: 0x32c, Width: 32, Access: mmio.WO}
	CARClkEnbUClr = mmio.Field{Name: "CLK_ENB_U_CLR", Reg: 0x334, Width: 32, Access: mmio.WO}
	CARClkEnbVSet = mmio.Field{Name: "CLK_ENB_V_SET", Reg: 0x440, Width: 32, Access: mmio.WO}
	CARClkEnbXSet = mmio.Field{Name: "CLK_ENB_X_SET", Reg: 0x284, Width: 32, Access: mmio.WO}

	// PLLs.
	CARPllmBase  = mmio.Reg("PLLM_BASE", 0x090)
	CARPllmMisc1 = mmio.Reg("PLLM_MISC1", 0x098)
	CARPllmMisc2 = mmio.Reg("PLLM_MISC2", 0x09c)
	CARPlldBase  = mmio.Reg("PLLD_BASE", 0x0d0)
	CARPllxBase  = mmio.Reg("PLLX_BASE", 0x0e0)
	CARPllxMisc  = mmio.Reg("PLLX_MISC", 0x0e4)
	CARPllxMisc3 = mmio.Reg("PLLX_MISC_3", 0x518)
	CARPllmbBase = mmio.Reg("PLLMB_BASE", 0x5e8)

	// PLLM/PLLX lock status, read-only bit 27.
	CARPllmLock = mmio.Field{Name: "PLLM_BASE.LOCK", Reg: 0x090, Shift: 27, Width: 1, Access: mmio.RO}
	CARPllxLock = mmio.Field{Name: "PLLX_BASE.LOCK", Reg: 0x0e0, Shift: 27, Width: 1, Access: mmio.RO}

	// Clock sources.
	CARClkSourceI2C1    = mmio.Reg("CLK_SOURCE_I2C1", 0x124)
	CARClkSourceI2C5    = mmio.Reg("CLK_SOURCE_I2C5", 0x128)
	CARClkSourceEmc     = mmio.Reg("CLK_SOURCE_EMC", 0x19c)
	CARClkSourceEmcDll  = mmio.Reg("CLK_SOURCE_EMC_DLL", 0x664)
	CARClkSourceMselect = mmio.Reg("CLK_SOURCE_MSELECT", 0x3b4)
	CARClkSourceSe      = mmio.Reg("CLK_SOURCE_SE", 0x42c)
	CARClkSourceSor1    = mmio.Reg("CLK_SOURCE_SOR1", 0x410)
	CARClkSourceVi      = mmio.Reg("CLK_SOURCE_VI", 0x148)
	CARClkSourceHost1x  = mmio.Reg("CLK_SOURCE_HOST1X", 0x180)
	CARClkSourceNvenc   = mmio.Reg("CLK_SOURCE_NVENC", 0x6a0)
	CARClkSourceCsite   = mmio.Reg("CLK_SOURCE_CSITE", 0x1d4)

	// LVL2 clock gate overrides.
	CARLvl2ClkGateOvrA = mmio.Reg("LVL2_CLK_GATE_OVRA", 0x0f8)
	CARLvl2ClkGateOvrB = mmio.Reg("LVL2_CLK_GATE_OVRB", 0x0fc)
	CARLvl2ClkGateOvrC = mmio.Reg("LVL2_CLK_GATE_OVRC", 0x3a0)
	CARLvl2ClkGateOvrD = mmio.Reg("LVL2_CLK_GATE_OVRD", 0x3a4)
	CARLvl2ClkGateOvrE = mmio.Reg("LVL2_CLK_GATE_OVRE", 0x554)

	// CCPLEX reset and soft-reset control.
	CARCpuSoftrstCtrl2 = mmio.Reg("CPU_SOFTRST_CTRL2", 0x388)
	CARRstCpugCmplxClr = mmio.Field{Name: "RST_CPUG_CMPLX_CLR", Reg: 0x454, Width: 32, Access: mmio.WO}

	CARSpareReg0 = mmio.Reg("SPARE_REG0", 0x55c)
)

// CLK_SOURCE_EMC source selector values (bits 31:29).
const (
	EmcSrcPllm = 0 << 29
	EmcSrcPllp = 2 << 29
)

// SPARE_REG0 CLK_M divisor field, bits 3:2.
var CARSpareReg0ClkMDiv = mmio.Field{Name: "SPARE_REG0.CLK_M_DIV", Reg: 0x55c, Shift: 2, Width: 2, Access: mmio.RW}
