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

package boot

import (
	"github.com/google/coldboot/mmio"
	"github.com/google/coldboot/soc/t210"
)

// DeviceHalt returns the terminal halt for the boot processor: ask the
// flow controller to stop the core on an event that never arrives, and
// spin in case the halt request is ignored.
func DeviceHalt(b mmio.Backend) func() {
	return func() {
		for {
			b.Store(t210.FLOW.Base+t210.FLOWHaltCopEvents.Reg, t210.HaltCopStop)
		}
	}
}
