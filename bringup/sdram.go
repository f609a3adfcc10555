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

package bringup

import (
	"fmt"

	"github.com/google/coldboot/mmio"
	"github.com/google/coldboot/soc/t210"
)

// DRAMParams parameterizes the memory training sequence for one DRAM
// population. Real boot configuration tables carry several hundred values
// per entry; this carries the subset the training sequence below programs.
type DRAMParams struct {
	ID int

	// PLLM programming.
	PllmSetupControl    uint32
	PllmInputDivider    uint32
	PllmFeedbackDivider uint32
	PllmPostDivider     uint32

	// EMC clocking.
	EmcClockSource    uint32
	EmcClockSourceDll uint32

	// EMC configuration.
	EmcAdrCfg   uint32
	EmcCfg      uint32
	EmcDbg      uint32
	EmcFbioCfg5 uint32
	EmcPin      uint32

	// ZQ calibration.
	EmcZcalInterval uint32
	EmcZcalWaitCnt  uint32
	EmcMrwZqInit    uint32

	// Mode register programming.
	EmcMrw1 uint32
	EmcMrw2 uint32
	EmcMrw3 uint32

	// MC address decode.
	McEmemCfg    uint32
	McEmemAdrCfg uint32

	// PMC pad power.
	PmcVddpSel   uint32
	PmcNoIoPower uint32
	PmcRegShort  uint32
	PmcDdrCntrl  uint32
	PmcIoDpd3Req uint32
	PmcIoDpd4Req uint32
}

// dramTable holds the supported DRAM populations, indexed by the strapping
// id read from fuses. Values are for 4 GiB LPDDR4 at 204 MHz boot clock.
var dramTable = []DRAMParams{
	{
		ID:                  0,
		PllmSetupControl:    0x00000000,
		PllmInputDivider:    0x00000002,
		PllmFeedbackDivider: 0x00000042,
		PllmPostDivider:     0x00000000,
		EmcClockSource:      0x40000000,
		EmcClockSourceDll:   0x00000000,
		EmcAdrCfg:           0x00000001,
		EmcCfg:              0x73240000,
		EmcDbg:              0x01000000,
		EmcFbioCfg5:         0x9160a00d,
		EmcPin:              t210.EmcPinCke | t210.EmcPinCkeb,
		EmcZcalInterval:     0x00064000,
		EmcZcalWaitCnt:      0x000900c8,
		EmcMrwZqInit:        0x880a00ff,
		EmcMrw1:             0x08010004,
		EmcMrw2:             0x08020000,
		EmcMrw3:             0x080d0000,
		McEmemCfg:           0x00001000,
		McEmemAdrCfg:        0x00000001,
		PmcVddpSel:          0x00000001,
		PmcNoIoPower:        0x00000000,
		PmcRegShort:         0x00000000,
		PmcDdrCntrl:         0x0007ff8b,
		PmcIoDpd3Req:        0x8000cfff,
		PmcIoDpd4Req:        0x8000ffff,
	},
	{
		ID:                  1,
		PllmSetupControl:    0x00000000,
		PllmInputDivider:    0x00000002,
		PllmFeedbackDivider: 0x00000042,
		PllmPostDivider:     0x00000000,
		EmcClockSource:      0x40000000,
		EmcClockSourceDll:   0x00000000,
		EmcAdrCfg:           0x00000000,
		EmcCfg:              0x73240000,
		EmcDbg:              0x01000000,
		EmcFbioCfg5:         0x9160a00d,
		EmcPin:              t210.EmcPinCke,
		EmcZcalInterval:     0x00064000,
		EmcZcalWaitCnt:      0x000900c8,
		EmcMrwZqInit:        0x880a00ff,
		EmcMrw1:             0x08010004,
		EmcMrw2:             0x08020000,
		EmcMrw3:             0x080d0000,
		McEmemCfg:           0x00000800,
		McEmemAdrCfg:        0x00000000,
		PmcVddpSel:          0x00000001,
		PmcNoIoPower:        0x00000000,
		PmcRegShort:         0x00000000,
		PmcDdrCntrl:         0x0007ff8b,
		PmcIoDpd3Req:        0x8000cfff,
		PmcIoDpd4Req:        0x8000ffff,
	},
}

// Params returns the DRAM parameter set for the given strapping id.
func Params(id int) (DRAMParams, error) {
	for _, p := range dramTable {
		if p.ID == id {
			return p, nil
		}
	}
	return DRAMParams{}, fmt.Errorf("no DRAM parameters for strapping id %d", id)
}

// trainSDRAM runs the memory training sequence: pad power, PLLM spin-up and
// lock, EMC clocking, device reset and CKE, ZQ calibration, mode registers,
// refresh enable, and finally the MC address decode that makes the DRAM
// visible.
func trainSDRAM(ctx *Context, p DRAMParams) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}
	pmc, err := ctx.View(t210.PMC)
	if err != nil {
		return err
	}
	emc, err := ctx.View(t210.EMC)
	if err != nil {
		return err
	}
	mc, err := ctx.View(t210.MC)
	if err != nil {
		return err
	}

	// VDDQ/VDD2 rails up before any pad leaves deep power down.
	if err := I2C5.WriteByte(ctx, t210.Max77620Pwr, 0x22, 0x05); err != nil {
		return fmt.Errorf("sd1 voltage: %w", err)
	}
	if err := I2C5.WriteByte(ctx, t210.Max77620Pwr, 0x17, 0x28); err != nil {
		return fmt.Errorf("sd1 config: %w", err)
	}

	pmc.Write(t210.PMCVddpSel, p.PmcVddpSel)
	pmc.Write(t210.PMCNoIoPower, p.PmcNoIoPower)
	pmc.Write(t210.PMCRegShort, p.PmcRegShort)
	pmc.Write(t210.PMCDdrCntrl, p.PmcDdrCntrl)
	pmc.Write(t210.PMCIoDpd3Req, p.PmcIoDpd3Req)
	pmc.Write(t210.PMCIoDpd4Req, p.PmcIoDpd4Req)
	pmc.Write(t210.PMCWeakBias, 0)

	// Spin up PLLM and wait for lock. PLLMB stays down; the EMC runs off
	// PLLM alone at the boot rate.
	car.Write(t210.CARPllmbBase, car.Read(t210.CARPllmbBase)&^uint32(1<<30))
	car.Write(t210.CARPllmMisc1, p.PllmSetupControl)
	car.Write(t210.CARPllmMisc2, 0)
	car.Write(t210.CARPllmBase,
		p.PllmFeedbackDivider<<8|p.PllmInputDivider|(p.PllmPostDivider&0xffff)<<20|1<<30)
	if err := car.Wait(t210.CARPllmLock, mmio.Set(1), ctx.Budget(64)); err != nil {
		return fmt.Errorf("pllm lock: %w", err)
	}

	car.Write(t210.CARClkSourceEmc, p.EmcClockSource)
	if p.EmcClockSourceDll != 0 {
		car.Write(t210.CARClkSourceEmcDll, p.EmcClockSourceDll)
	}
	car.Write(t210.CARClkEnbHSet, 0x2000001)
	car.Write(t210.CARClkEnbXSet, 0x4000)
	car.Write(t210.CARRstDevHClr, 0x2000001)

	// Static EMC configuration.
	emc.Write(t210.EMCDbg, p.EmcDbg)
	emc.Write(t210.EMCAdrCfg, p.EmcAdrCfg)
	emc.Write(t210.EMCCfg, p.EmcCfg)
	emc.Write(t210.EMCFbioCfg5, p.EmcFbioCfg5)

	// Release device reset, assert CKE, give the devices their wake-up
	// NOPs, then wait for them to leave powerdown.
	emc.Write(t210.EMCPin, t210.EmcPinReset)
	emc.Write(t210.EMCNop, 0x00000101)
	emc.Write(t210.EMCPin, t210.EmcPinReset|p.EmcPin)
	if err := emc.Wait(t210.EMCStatus, mmio.Clear(t210.EmcStatusDramInPowerdown), ctx.Budget(128)); err != nil {
		return fmt.Errorf("dram powerdown exit: %w", err)
	}

	// ZQ calibration and mode registers.
	emc.Write(t210.EMCZcalWaitCnt, p.EmcZcalWaitCnt)
	emc.Write(t210.EMCMrw, p.EmcMrwZqInit)
	emc.Write(t210.EMCMrw, p.EmcMrw1)
	emc.Write(t210.EMCMrw, p.EmcMrw2)
	emc.Write(t210.EMCMrw, p.EmcMrw3)
	emc.Write(t210.EMCZcalInterval, p.EmcZcalInterval)

	// Latch the timing configuration and wait for it to propagate.
	emc.Write(t210.EMCTimingControl, 1)
	if err := emc.Wait(t210.EMCStatus, mmio.Clear(t210.EmcStatusTimingUpdateStalled), ctx.Budget(64)); err != nil {
		return fmt.Errorf("timing update: %w", err)
	}

	emc.Write(t210.EMCRefctrl, uint32(t210.EmcRefctrlRefEnable)|(p.EmcAdrCfg+1))

	// Open the DRAM aperture.
	mc.Write(t210.MCEmemAdrCfg, p.McEmemAdrCfg)
	mc.Write(t210.MCEmemCfg, p.McEmemCfg)
	mc.Write(t210.MCTimingCtrl, 1)

	return nil
}
