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

// Clock describes one device clock: its reset bank, enable bank, bit index
// within both, and an optional source register programmed before ungating.
type Clock struct {
	// Name identifies the clock.
	Name string

	// ResetReg is the RST_DEVICES bank holding the device's reset line.
	ResetReg mmio.Field

	// EnableReg is the CLK_OUT_ENB bank holding the device's clock gate.
	EnableReg mmio.Field

	// SourceReg is the clock source register, or a zero Field if the
	// device has no mux.
	SourceReg mmio.Field

	// Index is the bit position in ResetReg and EnableReg.
	Index uint8

	// Source is the mux value written to SourceReg.
	Source uint32

	// Divisor is the divider value ORed into SourceReg.
	Divisor uint32
}

// Device clocks the bring-up path needs.
var (
	ClockSE = Clock{Name: "SE", ResetReg: t210.CARRstDevV, EnableReg: t210.CARClkOutEnbV,
		SourceReg: t210.CARClkSourceSe, Index: 31}

	ClockTZRAM = Clock{Name: "TZRAM", ResetReg: t210.CARRstDevV, EnableReg: t210.CARClkOutEnbV,
		Index: 30}

	ClockCLDVFS = Clock{Name: "CL_DVFS", ResetReg: t210.CARRstDevW, EnableReg: t210.CARClkOutEnbW,
		Index: 27}

	ClockCoresight = Clock{Name: "CORESIGHT", ResetReg: t210.CARRstDevU, EnableReg: t210.CARClkOutEnbU,
		SourceReg: t210.CARClkSourceCsite, Index: 9, Divisor: 4}

	ClockI2C1 = Clock{Name: "I2C1", ResetReg: t210.CARRstDevL, EnableReg: t210.CARClkOutEnbL,
		SourceReg: t210.CARClkSourceI2C1, Index: 12, Source: 6}

	ClockI2C5 = Clock{Name: "I2C5", ResetReg: t210.CARRstDevH, EnableReg: t210.CARClkOutEnbH,
		SourceReg: t210.CARClkSourceI2C5, Index: 15, Source: 6}

	ClockMselect = Clock{Name: "MSELECT", ResetReg: t210.CARRstDevV, EnableReg: t210.CARClkOutEnbV,
		SourceReg: t210.CARClkSourceMselect, Index: 3, Source: 6}
)

// EnableOn ungates the clock: hold the device in reset, program the source
// mux, open the clock gate, confirm the gate reads back open, then release
// reset. The readback doubles as the settle the hardware needs between
// ungating and reset release.
func (c Clock) EnableOn(car *mmio.View, b mmio.Budget) error {
	bit := uint32(1) << c.Index

	car.SetBits(c.ResetReg, bit)
	car.ClearBits(c.EnableReg, bit)

	if c.SourceReg.Name != "" {
		car.Write32(c.SourceReg.Reg, c.Source|c.Divisor)
	}

	car.SetBits(c.EnableReg, bit)
	if err := car.Wait(c.EnableReg, mmio.Set(bit), b); err != nil {
		return fmt.Errorf("clock %s gate: %w", c.Name, err)
	}

	car.ClearBits(c.ResetReg, bit)
	return nil
}
