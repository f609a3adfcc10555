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

// Flow controller registers.
var (
	FLOWHaltCopEvents     = mmio.Reg("HALT_COP_EVENTS", 0x004)
	FLOWRamRepair         = mmio.Reg("RAM_REPAIR", 0x040)
	FLOWDbgQual           = mmio.Reg("FLOW_DBG_QUAL", 0x050)
	FLOWL2FlushControl    = mmio.Reg("L2FLUSH_CONTROL", 0x094)
	FLOWBpmpClusterCtrl   = mmio.Reg("BPMP_CLUSTER_CONTROL", 0x098)
	FLOWRamRepairSts      = mmio.Field{Name: "RAM_REPAIR.STS", Reg: 0x040, Shift: 1, Width: 1, Access: mmio.RO}
	FLOWActiveClusterSlow = mmio.Field{Name: "BPMP_CLUSTER_CONTROL.ACTIVE_CLUSTER", Reg: 0x098, Shift: 0, Width: 1, Access: mmio.RW}
)

// RAM_REPAIR fields.
const (
	RamRepairReq = 1 << 0
	RamRepairSts = 1 << 1
)

// HALT_COP_EVENTS mode: stop until an (unmaskable) event. With nothing left
// to wake it, this parks the boot processor for good.
const HaltCopStop = 2 << 29
