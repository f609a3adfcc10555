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

package mmio

import "unsafe"

// Backend performs the raw word loads and stores for a View.
//
// Device builds use Hardware; the emulator and tests install a scripted
// model instead.
type Backend interface {
	// Load returns the word at the given physical address.
	Load(addr uint32) uint32

	// Store writes the word at the given physical address.
	Store(addr uint32, val uint32)
}

// Hardware is the Backend for real register access.
//
// Every access crosses this method-call boundary, which the compiler neither
// elides nor reorders against other calls; that is the ordering guarantee
// the release-from-reset sequence relies on.
var Hardware Backend = hardware{}

type hardware struct{}

//go:nosplit
func (hardware) Load(addr uint32) uint32 {
	return *(*uint32)(unsafe.Pointer(uintptr(addr)))
}

//go:nosplit
func (hardware) Store(addr uint32, val uint32) {
	*(*uint32)(unsafe.Pointer(uintptr(addr))) = val
}
