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
	"sync"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/soc/t210"
)

// lastFault mirrors the scratch-register record for in-process readers.
// The emulator monitor polls it from HTTP handlers while the boot flow is
// still running, hence the lock. The device contract is the scratch
// registers alone.
var (
	faultMu   sync.Mutex
	lastFault api.Fault
)

// LastFault returns the most recently recorded fault, or a zero Fault.
func LastFault() api.Fault {
	faultMu.Lock()
	defer faultMu.Unlock()
	return lastFault
}

// resetFault clears the in-process record. Tests only.
func resetFault() {
	faultMu.Lock()
	defer faultMu.Unlock()
	lastFault = api.Fault{}
}

// recordFault packs the fault into the PMC scratch registers reserved for
// the last-failure record. It writes through the backend directly rather
// than a View: this runs on the failure path, where a live view may
// already hold the PMC block mid-sequence.
func recordFault(b backendStore, f api.Fault) {
	faultMu.Lock()
	lastFault = f
	faultMu.Unlock()
	base := t210.PMC.Base
	b.Store(base+t210.PMCScratch200.Reg, uint32(f.Cause))
	b.Store(base+t210.PMCScratch201.Reg, packTag(f.Domain))
	b.Store(base+t210.PMCScratch202.Reg, packTag(f.Stage))
}

type backendStore interface {
	Store(addr uint32, val uint32)
}

// packTag packs up to four ASCII bytes of a name, little-endian, for the
// debug interface to read back. Longer names truncate.
func packTag(s string) uint32 {
	var v uint32
	for i := 0; i < 4 && i < len(s); i++ {
		v |= uint32(s[i]) << (8 * i)
	}
	return v
}
