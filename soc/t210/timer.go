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

// Fixed time base registers. TIMERUS provides a free-running microsecond
// counter once USEC_CFG matches the oscillator frequency.
var (
	TIMERUSCntr    = mmio.Field{Name: "TIMERUS_CNTR_1US", Reg: 0x010, Width: 32, Access: mmio.RO}
	TIMERUSUsecCfg = mmio.Reg("TIMERUS_USEC_CFG", 0x014)
)

// USecCfg38_4MHz divides the 38.4 MHz oscillator down to 1 MHz
// ((0x5f+1)/(0x04+1) form, value taken from the boot ROM convention).
const USecCfg38_4MHz = 0x45f

// System counter registers.
var (
	SYSCTR0Cntcr  = mmio.Reg("SYSCTR0_CNTCR", 0x000)
	SYSCTR0Cntfid = mmio.Reg("SYSCTR0_CNTFID0", 0x020)
)

// CntFid19_2MHz is the system counter frequency id for the 19.2 MHz clk_m.
const CntFid19_2MHz = 0x124f800
