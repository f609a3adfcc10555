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

package sim

import "github.com/google/coldboot/soc/t210"

// DefaultRules scripts the hardware reactions a clean cold boot observes:
// PLLs lock, request bits self-clear, power partitions report up, RAM
// repair completes.
func DefaultRules() []Rule {
	pllm := t210.CAR.Base + t210.CARPllmBase.Reg
	pllx := t210.CAR.Base + t210.CARPllxBase.Reg
	tgl := t210.PMC.Base + t210.PMCPwrgateTgl.Reg
	stat := t210.PMC.Base + t210.PMCPwrgateStat.Reg
	repair := t210.FLOW.Base + t210.FLOWRamRepair.Reg

	rules := []Rule{
		{Name: "pllm-lock", Addr: pllm, Mask: 1 << 30, Value: 1 << 30,
			Target: pllm, Set: 1 << 27, Reads: 2},
		{Name: "pllx-lock", Addr: pllx, Mask: 1 << 30, Value: 1 << 30,
			Target: pllx, Set: 1 << 27, Reads: 2},
		{Name: "ram-repair", Addr: repair, Mask: t210.RamRepairReq, Value: t210.RamRepairReq,
			Target: repair, Set: t210.RamRepairSts, Reads: 1},
	}

	for _, i2c := range []struct {
		name string
		base uint32
	}{
		{"i2c1", t210.I2C1.Base},
		{"i2c5", t210.I2C5.Base},
	} {
		load := i2c.base + t210.I2CConfigLoad.Reg
		rules = append(rules, Rule{
			Name: i2c.name + "-config-load",
			Addr: load, Mask: t210.I2CConfigLoadMstr, Value: t210.I2CConfigLoadMstr,
			Target: load, Clear: t210.I2CConfigLoadMstr, Reads: 1,
		})
	}

	// The PMIC answers register reads with the SD0 config value the
	// bring-up sequence expects. The reaction fires on the read-mode
	// address write and lands the byte in the data register.
	rules = append(rules, Rule{
		Name: "pmic-readback",
		Addr: t210.I2C5.Base + t210.I2CCmdAddr0.Reg,
		Mask: 0xffffffff, Value: uint32(t210.Max77620Pwr)<<1 | 1,
		Target: t210.I2C5.Base + t210.I2CCmdData1.Reg,
		Set:    0x2a, Clear: 0xff,
	})

	for _, part := range []struct {
		name string
		id   uint32
		mask uint32
	}{
		{"crail", t210.PartCRAIL, t210.PartCRAILMask},
		{"c0nc", t210.PartC0NC, t210.PartC0NCMask},
		{"ce0", t210.PartCE0, t210.PartCE0Mask},
	} {
		toggle := uint32(t210.PwrgateToggleStart) | part.id
		rules = append(rules,
			Rule{Name: "pwrgate-" + part.name + "-ack",
				Addr: tgl, Mask: 0xffffffff, Value: toggle,
				Target: tgl, Clear: t210.PwrgateToggleStart, Reads: 1},
			Rule{Name: "pwrgate-" + part.name + "-up",
				Addr: tgl, Mask: 0xffffffff, Value: toggle,
				Target: stat, Set: part.mask, Reads: 1},
		)
	}

	return rules
}
