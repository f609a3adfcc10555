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

// Memory controller registers. The MC arbitrates internal clients onto the
// DRAM; the carveout registers fence off protected regions.
var (
	MCEmemCfg      = mmio.Reg("EMEM_CFG", 0x050)
	MCEmemAdrCfg   = mmio.Reg("EMEM_ADR_CFG", 0x054)
	MCTimingCtrl   = mmio.Reg("TIMING_CONTROL", 0x0fc)
	MCIramBom      = mmio.Reg("IRAM_BOM", 0x65c)
	MCIramTom      = mmio.Reg("IRAM_TOM", 0x660)
	MCVpBom        = mmio.Reg("VIDEO_PROTECT_BOM", 0x648)
	MCVpSizeMb     = mmio.Reg("VIDEO_PROTECT_SIZE_MB", 0x64c)
	MCVpRegCtrl    = mmio.Reg("VIDEO_PROTECT_REG_CTRL", 0x650)
	MCSecBom       = mmio.Reg("SEC_CARVEOUT_BOM", 0x670)
	MCSecSizeMb    = mmio.Reg("SEC_CARVEOUT_SIZE_MB", 0x674)
	MCSecRegCtrl   = mmio.Reg("SEC_CARVEOUT_REG_CTRL", 0x678)
	MCMtsBom       = mmio.Reg("MTS_CARVEOUT_BOM", 0x9a0)
	MCMtsSizeMb    = mmio.Reg("MTS_CARVEOUT_SIZE_MB", 0x9a4)
	MCMtsAdrHi     = mmio.Reg("MTS_CARVEOUT_ADR_HI", 0x9a8)
	MCMtsRegCtrl   = mmio.Reg("MTS_CARVEOUT_REG_CTRL", 0x9ac)
)

// External memory controller registers. Only the handful the training
// sequence touches; the full block runs to several hundred registers.
var (
	EMCIntstatus     = mmio.Reg("EMC_INTSTATUS", 0x000)
	EMCDbg           = mmio.Reg("EMC_DBG", 0x008)
	EMCCfg           = mmio.Reg("EMC_CFG", 0x00c)
	EMCAdrCfg        = mmio.Reg("EMC_ADR_CFG", 0x010)
	EMCRefctrl       = mmio.Reg("EMC_REFCTRL", 0x020)
	EMCPin           = mmio.Reg("EMC_PIN", 0x024)
	EMCTimingControl = mmio.Reg("EMC_TIMING_CONTROL", 0x028)
	EMCNop           = mmio.Reg("EMC_NOP", 0x0dc)
	EMCSelfRef       = mmio.Reg("EMC_SELF_REF", 0x0e0)
	EMCMrw           = mmio.Reg("EMC_MRW", 0x0e8)
	EMCFbioSpare     = mmio.Reg("EMC_FBIO_SPARE", 0x100)
	EMCFbioCfg5      = mmio.Reg("EMC_FBIO_CFG5", 0x104)
	EMCStatus        = mmio.Field{Name: "EMC_EMC_STATUS", Reg: 0x2b4, Width: 32, Access: mmio.RO}
	EMCCfgUpdate     = mmio.Reg("EMC_CFG_UPDATE", 0x2f0)
	EMCZcalInterval  = mmio.Reg("EMC_ZCAL_INTERVAL", 0x1f0)
	EMCZcalWaitCnt   = mmio.Reg("EMC_ZCAL_WAIT_CNT", 0x1f4)
	EMCZcalMrwCmd    = mmio.Reg("EMC_ZCAL_MRW_CMD", 0x1f8)
)

// EMC_EMC_STATUS fields.
const (
	// EmcStatusTimingUpdateStalled is set while a TIMING_CONTROL update is
	// still propagating.
	EmcStatusTimingUpdateStalled = 1 << 23

	// EmcStatusDramInPowerdown reflects both devices' powerdown state
	// (bits 4:5).
	EmcStatusDramInPowerdown = 3 << 4
)

// EMC_PIN fields.
const (
	EmcPinCke   = 1 << 0
	EmcPinDqm   = 1 << 4
	EmcPinCkeb  = 1 << 8
	EmcPinReset = 1 << 16
)

// EMC_REFCTRL fields.
const (
	// EmcRefctrlRefEnable turns on refresh for the populated devices.
	EmcRefctrlRefEnable = 1 << 31
)

// Fuse registers.
var (
	FUSECtrl           = mmio.Reg("FUSE_CTRL", 0x000)
	FUSEPrivateKeyDis  = mmio.Reg("FUSE_PRIVATEKEYDISABLE", 0x010)
	FUSEDisableRegProg = mmio.Reg("FUSE_DISABLEREGPROGRAM", 0x02c)
	FUSEWriteAccessSw  = mmio.Reg("FUSE_WRITE_ACCESS_SW", 0x030)
	FUSESkuInfo        = mmio.Field{Name: "FUSE_SKU_INFO", Reg: 0x110, Width: 32, Access: mmio.RO}
	FUSERamRepairSts   = mmio.Field{Name: "FUSE_RAM_REPAIR_STATUS", Reg: 0x118, Width: 32, Access: mmio.RO}
)

// FUSE_PRIVATEKEYDISABLE fields.
const (
	// FusePrivateKeyDisTzSticky hides the private key from everything but
	// the TZ context until the next reset.
	FusePrivateKeyDisTzSticky = 1 << 4
)
