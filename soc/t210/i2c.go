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

// I2C master registers, identical layout per controller instance.
var (
	I2CCnfg       = mmio.Reg("I2C_CNFG", 0x000)
	I2CCmdAddr0   = mmio.Reg("I2C_CMD_ADDR0", 0x004)
	I2CCmdData1   = mmio.Reg("I2C_CMD_DATA1", 0x00c)
	I2CStatus     = mmio.Field{Name: "I2C_STATUS", Reg: 0x01c, Width: 32, Access: mmio.RO}
	I2CClkDivisor = mmio.Reg("I2C_CLK_DIVISOR", 0x06c)
	I2CBusClear   = mmio.Reg("I2C_BUS_CLEAR_CONFIG", 0x084)
	I2CBusClrSts  = mmio.Field{Name: "I2C_BUS_CLEAR_STATUS", Reg: 0x088, Width: 32, Access: mmio.RO}
	I2CConfigLoad = mmio.Reg("I2C_CONFIG_LOAD", 0x08c)
)

// I2C_CNFG fields.
const (
	// I2CCnfgSend starts the transfer.
	I2CCnfgSend = 1 << 9

	// I2CCnfgNewMasterFsm selects the packet-mode master state machine,
	// debounce 4T. The transfer length is encoded in bits 1:3.
	I2CCnfgNewMasterFsm = 0x2800
)

// I2C_STATUS fields.
const (
	// I2CStatusBusy is set while a transfer is in flight.
	I2CStatusBusy = 1 << 8

	// I2CStatusCmd1Stat holds the completion code for CMD1 (0 = success).
	I2CStatusCmd1Stat = 0xf
)

// I2C_CONFIG_LOAD fields.
const (
	// I2CConfigLoadMstr latches the master configuration; hardware clears
	// the bit once the load completes.
	I2CConfigLoadMstr = 1 << 0

	// I2CConfigLoadTimeout latches the timeout configuration.
	I2CConfigLoadTimeout = 1 << 2
)

// PMIC device addresses on the power I2C bus.
const (
	Max77620Pwr = 0x3c
	Max77620Rtc = 0x68
	Max77621Cpu = 0x1b
	Max77621Gpu = 0x1c
)
