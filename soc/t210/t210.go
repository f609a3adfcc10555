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

// Package t210 describes the Tegra X1 (T210) register blocks and memory map
// used during cold boot: the clock-and-reset controller, power management
// controller, flow controller, secure boot registers, timers, the memory
// and external-memory controllers, and the I2C masters needed to reach the
// PMIC.
//
// Only the registers the bring-up path touches are declared; the blocks
// themselves are of course much larger.
package t210

import "github.com/google/coldboot/mmio"

// Register blocks.
var (
	// CAR is the Clock And Reset controller.
	CAR = mmio.Block{Name: "CAR", Base: 0x60006000, Size: 0x1000}

	// PMC is the Power Management Controller.
	PMC = mmio.Block{Name: "PMC", Base: 0x7000e400, Size: 0xc00}

	// FLOW is the flow controller governing CPU halt and power events.
	FLOW = mmio.Block{Name: "FLOW", Base: 0x60007000, Size: 0x1000}

	// AHB holds the AHB arbitration and gizmo registers.
	AHB = mmio.Block{Name: "AHB", Base: 0x6000c000, Size: 0x200}

	// SB holds the secure boot registers, including the AArch64 reset
	// vector for the CCPLEX.
	SB = mmio.Block{Name: "SB", Base: 0x6000c200, Size: 0x200}

	// EVP holds the exception vector registers.
	EVP = mmio.Block{Name: "EVP", Base: 0x6000f000, Size: 0x1000}

	// TIMER holds the fixed-time-base registers.
	TIMER = mmio.Block{Name: "TIMER", Base: 0x60005000, Size: 0x1000}

	// SYSCTR0 is the system counter control block.
	SYSCTR0 = mmio.Block{Name: "SYSCTR0", Base: 0x700f0000, Size: 0x1000}

	// MC is the memory controller.
	MC = mmio.Block{Name: "MC", Base: 0x70019000, Size: 0x1000}

	// EMC is the external memory controller.
	EMC = mmio.Block{Name: "EMC", Base: 0x7001b000, Size: 0x1000}

	// I2C1 is the first I2C master (generic bus).
	I2C1 = mmio.Block{Name: "I2C1", Base: 0x7000c000, Size: 0x100}

	// I2C5 is the power I2C master wired to the MAX77620/77621 PMICs.
	I2C5 = mmio.Block{Name: "I2C5", Base: 0x7000d000, Size: 0x100}

	// FUSE is the fuse block, including the private-key-disable control.
	FUSE = mmio.Block{Name: "FUSE", Base: 0x7000f800, Size: 0x400}
)

// Memory map.
const (
	// IRAMBase is the start of on-chip RAM.
	IRAMBase = 0x40000000

	// IRAMSize is the on-chip RAM size (256 KiB).
	IRAMSize = 0x40000

	// DRAMBase is the start of external memory once the EMC is trained.
	DRAMBase = 0x80000000

	// DRAMSize is the span of the DRAM aperture. The top byte is held back
	// so [DRAMBase, DRAMBase+DRAMSize) stays representable in 32 bits.
	DRAMSize = 0x7fffffff
)
