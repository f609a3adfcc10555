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

// I2CBus is one of the Tegra I2C masters, used during bring-up solely to
// program the MAX77620/77621 power rails.
type I2CBus struct {
	// Name identifies the bus for diagnostics.
	Name string

	// Block is the controller's register block.
	Block mmio.Block
}

// The two buses the boot path uses.
var (
	I2C1 = I2CBus{Name: "I2C1", Block: t210.I2C1}
	I2C5 = I2CBus{Name: "I2C5", Block: t210.I2C5}
)

// loadConfig latches the master configuration and waits for the hardware to
// acknowledge by clearing the load bit.
func (b I2CBus) loadConfig(v *mmio.View, budget mmio.Budget) error {
	v.Write32(t210.I2CConfigLoad.Reg, t210.I2CConfigLoadMstr|t210.I2CConfigLoadTimeout|0x20)
	if err := v.Wait(t210.I2CConfigLoad, mmio.Clear(t210.I2CConfigLoadMstr), budget); err != nil {
		return fmt.Errorf("%s config load: %w", b.Name, err)
	}
	return nil
}

// transfer runs one CMD1 transaction of n payload bytes and checks the
// completion status.
func (b I2CBus) transfer(v *mmio.View, budget mmio.Budget, n int) error {
	// LENGTH = n as (n<<1)-2, NEW_MASTER_FSM, DEBOUNCE_CNT = 4T.
	v.Write32(t210.I2CCnfg.Reg, uint32((n<<1)-2)|t210.I2CCnfgNewMasterFsm)

	if err := b.loadConfig(v, budget); err != nil {
		return err
	}

	v.SetBits(t210.I2CCnfg, t210.I2CCnfgSend)

	if err := v.Wait(t210.I2CStatus, mmio.Clear(t210.I2CStatusBusy), budget); err != nil {
		return fmt.Errorf("%s busy: %w", b.Name, err)
	}
	if st := v.Read32(t210.I2CStatus.Reg) & t210.I2CStatusCmd1Stat; st != 0 {
		return fmt.Errorf("%s transfer failed: CMD1_STAT=%d", b.Name, st)
	}
	return nil
}

// WriteByte writes val to a device register over the bus.
func (b I2CBus) WriteByte(ctx *Context, dev, reg, val uint8) error {
	v, err := ctx.View(b.Block)
	if err != nil {
		return err
	}

	// 7-bit device address, write mode.
	v.Write32(t210.I2CCmdAddr0.Reg, uint32(dev)<<1)
	v.Write32(t210.I2CCmdData1.Reg, uint32(reg)|uint32(val)<<8)

	return b.transfer(v, ctx.Budget(32), 2)
}

// ReadByte reads a device register over the bus.
func (b I2CBus) ReadByte(ctx *Context, dev, reg uint8) (uint8, error) {
	v, err := ctx.View(b.Block)
	if err != nil {
		return 0, err
	}

	// Write the register index, then repeat-start in read mode.
	v.Write32(t210.I2CCmdAddr0.Reg, uint32(dev)<<1)
	v.Write32(t210.I2CCmdData1.Reg, uint32(reg))
	if err := b.transfer(v, ctx.Budget(32), 1); err != nil {
		return 0, err
	}

	v.Write32(t210.I2CCmdAddr0.Reg, uint32(dev)<<1|1)
	if err := b.transfer(v, ctx.Budget(32), 1); err != nil {
		return 0, err
	}

	return uint8(v.Read32(t210.I2CCmdData1.Reg)), nil
}
