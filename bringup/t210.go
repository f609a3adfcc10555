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

// T210Domains returns the cold-boot domain table for the Tegra X1.
//
// The table is data; ordering comes from the Deps edges alone. The
// Sequencer walks it once, and a failure in any domain halts the walk.
func T210Domains() []Domain {
	return []Domain{
		{Name: "osc", Enable: enableOsc},
		{Name: "mbist", Deps: []string{"osc"}, Enable: enableMbist},
		{Name: "fuse", Deps: []string{"osc"}, Enable: enableFuse},
		{Name: "mc", Deps: []string{"osc"}, Enable: enableMc},
		{Name: "security", Deps: []string{"mbist"}, Enable: enableSecurity},
		{Name: "i2c5", Deps: []string{"osc"}, Enable: enableI2C5},
		{Name: "i2c1", Deps: []string{"osc"}, Enable: enableI2C1},
		{Name: "pmic", Deps: []string{"i2c5"}, Enable: enablePmic},
		{Name: "sclk", Deps: []string{"pmic"}, Enable: enableSclk},
		{Name: "sdram", Deps: []string{"mc", "pmic", "sclk"}, Enable: enableSdram},
		{Name: "ccplex-power", Deps: []string{"pmic", "sclk"}, Enable: enableCcplexPower},
	}
}

// enableOsc configures the oscillator path and the fixed time bases. Until
// this runs, nothing on the chip has a calibrated notion of time, so it has
// no dependencies and everything else depends on it.
func enableOsc(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}
	pmc, err := ctx.View(t210.PMC)
	if err != nil {
		return err
	}
	tmr, err := ctx.View(t210.TIMER)
	if err != nil {
		return err
	}
	ctr, err := ctx.View(t210.SYSCTR0)
	if err != nil {
		return err
	}

	// clk_m = osc/2 (38.4 MHz osc, 19.2 MHz clk_m).
	car.Write(t210.CARSpareReg0ClkMDiv, 1)

	ctr.Write(t210.SYSCTR0Cntfid, t210.CntFid19_2MHz)
	tmr.Write(t210.TIMERUSUsecCfg, t210.USecCfg38_4MHz)

	// 38.4 MHz crystal, full drive; value per the boot ROM convention.
	car.Write(t210.CAROscCtrl, 0x50000071)

	pmc.Write(t210.PMCOscEdpdOver, pmc.Read(t210.PMCOscEdpdOver)&0xffffff81|0x0e|1<<22)
	pmc.Write(t210.PMCCntrl2, pmc.Read(t210.PMCCntrl2)&0xffffefff|0x1000)

	car.Write(t210.CARClkSystemRate, 0x10)
	return nil
}

// enableMbist clears the level-2 clock gate overrides left over from the
// memory built-in self test the boot ROM runs, which otherwise keep parts
// of the fabric force-clocked.
func enableMbist(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}

	car.Write(t210.CARLvl2ClkGateOvrA, 0)
	car.Write(t210.CARLvl2ClkGateOvrB, 0)
	car.Write(t210.CARLvl2ClkGateOvrC, 0)
	car.Write(t210.CARLvl2ClkGateOvrD, 0)
	car.Write(t210.CARLvl2ClkGateOvrE, 0)

	// The self test leaves a handful of multimedia clocks sourced from
	// PLLs that are about to go down. Park them on safe sources and drop
	// PLLD before gating.
	car.Write(t210.CARPlldBase, car.Read(t210.CARPlldBase)&0x1f7fffff)
	car.Write(t210.CARClkSourceSor1, (car.Read(t210.CARClkSourceSor1)|0x8000)&0xffffbfff)
	car.Write(t210.CARClkSourceVi, car.Read(t210.CARClkSourceVi)&0x1fffffff|0x80000000)
	car.Write(t210.CARClkSourceHost1x, car.Read(t210.CARClkSourceHost1x)&0x1fffffff|0x80000000)
	car.Write(t210.CARClkSourceNvenc, car.Read(t210.CARClkSourceNvenc)&0x1fffffff|0x80000000)

	// Gate the clocks the self test left running.
	car.Write(t210.CARClkEnbLClr, 0x80000130)
	car.Write(t210.CARClkEnbHClr, 0x02000000)
	car.Write(t210.CARClkEnbUClr, 0x01f00200)
	return nil
}

// enableFuse locks fuse programming for the rest of the boot and hides the
// private key from non-TZ contexts. The SKU readback confirms the block is
// actually clocked and readable.
func enableFuse(ctx *Context) error {
	fuse, err := ctx.View(t210.FUSE)
	if err != nil {
		return err
	}

	fuse.Write(t210.FUSEDisableRegProg, 1)
	fuse.Write(t210.FUSEPrivateKeyDis,
		fuse.Read(t210.FUSEPrivateKeyDis)|t210.FusePrivateKeyDisTzSticky)

	if fuse.Read(t210.FUSESkuInfo) == 0xffffffff {
		return fmt.Errorf("fuse block unreadable")
	}
	return nil
}

// enableMc clocks the memory controller and points the AHB redirect at the
// on-chip RAM so fabric masters see a consistent view during boot. The
// controller is live after this, but the DRAM behind it is not; that is the
// sdram domain's job.
func enableMc(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}
	mc, err := ctx.View(t210.MC)
	if err != nil {
		return err
	}

	// MEM (bit 0) and EMC (bit 25), reset held through the clock ungate.
	car.Write(t210.CARRstDevHSet, 0x2000001)
	car.Write(t210.CARClkEnbHSet, 0x2000001)
	car.Write(t210.CARRstDevHClr, 0x2000001)

	mc.Write(t210.MCIramBom, t210.IRAMBase)
	mc.Write(t210.MCIramTom, t210.IRAMBase+t210.IRAMSize-0x1000)
	return nil
}

// enableSecurity brings up the security engine, its TZRAM backing store and
// the closed-loop DVFS block.
func enableSecurity(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}

	for _, c := range []Clock{ClockSE, ClockTZRAM, ClockCLDVFS} {
		if err := c.EnableOn(car, ctx.Budget(16)); err != nil {
			return err
		}
	}
	return nil
}

func enableI2C5(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}
	return ClockI2C5.EnableOn(car, ctx.Budget(16))
}

func enableI2C1(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}
	return ClockI2C1.EnableOn(car, ctx.Budget(16))
}

// max77620Init is the system PMIC configuration: flexible power sequencer
// slots, SD/LDO defaults and the backup battery charger.
var max77620Init = []struct{ reg, val uint8 }{
	{0x04, 0x40}, // CNFGBBC: charge the backup cell
	{0x41, 0x60}, // ONOFFCNFG1
	{0x43, 0x38}, // FPS_CFG0
	{0x44, 0x3a}, // FPS_CFG1
	{0x45, 0x38}, // FPS_CFG2
	{0x4a, 0x0f}, // FPS_LDO4
	{0x4e, 0xc7}, // FPS_LDO8
	{0x4f, 0x4f}, // FPS_SD0
	{0x50, 0x29}, // FPS_SD1
	{0x52, 0x1b}, // FPS_SD3
	{0x56, 0x22}, // SD0 voltage: 1.125V core
	{0x16, 0x2a}, // SD0 config
}

func enablePmic(ctx *Context) error {
	for _, w := range max77620Init {
		if err := I2C5.WriteByte(ctx, t210.Max77620Pwr, w.reg, w.val); err != nil {
			return fmt.Errorf("pmic reg %#02x: %w", w.reg, err)
		}
	}

	// Read the SD0 config back. A PMIC that dropped off the bus or
	// rejected the writes powers the wrong rails, which only shows up
	// later as an unexplainable SDRAM or CCPLEX failure.
	last := max77620Init[len(max77620Init)-1]
	got, err := I2C5.ReadByte(ctx, t210.Max77620Pwr, last.reg)
	if err != nil {
		return fmt.Errorf("pmic readback: %w", err)
	}
	if got != last.val {
		return fmt.Errorf("pmic reg %#02x reads %#02x, want %#02x", last.reg, got, last.val)
	}
	return nil
}

// enableSclk raises the system bus to its boot rate now that the core
// voltage is at its programmed level.
func enableSclk(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}

	car.Write(t210.CARSclkBurstPolicy,
		car.Read(t210.CARSclkBurstPolicy)&0xffff8888|0x3333)
	car.Write(t210.CARSuperSclkDiv, 0x80000000)
	car.Write(t210.CARClkSystemRate, 2)
	return nil
}

func enableSdram(ctx *Context) error {
	p, err := Params(ctx.dramID)
	if err != nil {
		return err
	}
	return trainSDRAM(ctx, p)
}

// enableCcplexPower takes the application CPU complex to the point where a
// reset release would start it: fast cluster selected, CPU rail up, PLLX
// locked, partitions ungated and RAM repair complete. It does not touch the
// reset lines themselves; handing off is a separate, validated step.
func enableCcplexPower(ctx *Context) error {
	car, err := ctx.View(t210.CAR)
	if err != nil {
		return err
	}
	flow, err := ctx.View(t210.FLOW)
	if err != nil {
		return err
	}

	// Run the CCPLEX on the fast cluster.
	flow.Write(t210.FLOWActiveClusterSlow, 0)

	// CPU rail via the MAX77621: ramp config, then 1.0V on both VOUT
	// registers so a dynamic-voltage switch is a no-op at first.
	cpuRail := []struct{ reg, val uint8 }{
		{0x02, 0x20},
		{0x03, 0x8d},
		{0x00, 0xb7},
		{0x01, 0xb7},
	}
	for _, w := range cpuRail {
		if err := I2C5.WriteByte(ctx, t210.Max77621Cpu, w.reg, w.val); err != nil {
			return fmt.Errorf("cpu rail reg %#02x: %w", w.reg, err)
		}
	}

	// Spin up PLLX and wait for lock.
	car.Write(t210.CARPllxMisc3, car.Read(t210.CARPllxMisc3)&^uint32(1<<3))
	car.Write(t210.CARPllxMisc, car.Read(t210.CARPllxMisc)|1<<18) // lock detection
	car.Write(t210.CARPllxBase, 1<<30|2<<8|0x4e)
	if err := car.Wait(t210.CARPllxLock, mmio.Set(1), ctx.Budget(64)); err != nil {
		return fmt.Errorf("pllx lock: %w", err)
	}

	if err := ClockMselect.EnableOn(car, ctx.Budget(16)); err != nil {
		return err
	}
	if err := ClockCoresight.EnableOn(car, ctx.Budget(16)); err != nil {
		return err
	}

	// CPU complex clock: burst to PLLX, divider bypassed, CPUG ungated.
	car.Write(t210.CARCclkBurstPolicy, 0x20008888)
	car.Write(t210.CARSuperCclkDiv, 0x80000000)
	car.Write(t210.CARClkEnbVSet, 1)

	// No soft reset delays on the way out of reset.
	car.Write(t210.CARCpuSoftrstCtrl2, car.Read(t210.CARCpuSoftrstCtrl2)&0xfffff000)

	// Ungate the rail, the non-CPU partition and core 0, in that order.
	pmc, err := ctx.View(t210.PMC)
	if err != nil {
		return err
	}
	parts := []struct {
		name string
		id   uint32
		mask uint32
	}{
		{"CRAIL", t210.PartCRAIL, t210.PartCRAILMask},
		{"C0NC", t210.PartC0NC, t210.PartC0NCMask},
		{"CE0", t210.PartCE0, t210.PartCE0Mask},
	}
	for _, p := range parts {
		if err := ungatePartition(ctx, pmc, p.name, p.id, p.mask); err != nil {
			return err
		}
	}

	// RAM repair on the fast cluster before anything runs from its RAMs.
	flow.Write(t210.FLOWRamRepair, t210.RamRepairReq)
	if err := flow.Wait(t210.FLOWRamRepairSts, mmio.Set(1), ctx.Budget(32)); err != nil {
		return fmt.Errorf("ram repair: %w", err)
	}
	return nil
}

// ungatePartition toggles one power partition on and waits for its status
// bit. Already-ungated partitions are left alone; the toggle interface is
// not idempotent.
func ungatePartition(ctx *Context, pmc *mmio.View, name string, id, mask uint32) error {
	if pmc.Read(t210.PMCPwrgateStat)&mask != 0 {
		return nil
	}
	pmc.Write(t210.PMCPwrgateTgl, t210.PwrgateToggleStart|id)
	if err := pmc.Wait(t210.PMCPwrgateTgl, mmio.Clear(t210.PwrgateToggleStart), ctx.Budget(16)); err != nil {
		return fmt.Errorf("partition %s toggle: %w", name, err)
	}
	if err := pmc.Wait(t210.PMCPwrgateStat, mmio.Set(mask), ctx.Budget(32)); err != nil {
		return fmt.Errorf("partition %s power: %w", name, err)
	}
	return nil
}
