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
	"github.com/google/coldboot/api"
	"github.com/google/coldboot/soc/t210"
)

// On-chip RAM layout during cold boot.
//
// The exploit delivers the image into LoadBuffer; the first stage runs
// relocated at Stage1Home, below the buffer so the forward copy can never
// overrun its own source; the second stage waits at Stage2Home until the
// handoff releases the application cores onto it.
const (
	// LoadBufferBase is where the delivery mechanism leaves the image.
	LoadBufferBase = 0x40010000

	// LoadBufferSize bounds the delivered image.
	LoadBufferSize = 0x20000

	// Stage1Home is the first stage's linked address.
	Stage1Home = 0x40003000

	// Stage2Home is the second stage's destination when it stays in
	// on-chip RAM.
	Stage2Home = 0x40030000

	// StackTop is the boot processor's stack, growing down from just
	// below the load buffer.
	StackTop = LoadBufferBase
)

// LoadBuffer returns the image delivery range.
func LoadBuffer() api.Range {
	return api.Range{Base: LoadBufferBase, Size: LoadBufferSize}
}

// IRAM returns the full on-chip RAM range.
func IRAM() api.Range {
	return api.Range{Base: t210.IRAMBase, Size: t210.IRAMSize}
}
