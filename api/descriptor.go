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

package api

import "fmt"

// StageDescriptor represents a loadable boot-stage image and related info.
type StageDescriptor struct {
	////// What's this image? //////

	// Name identifies the stage, e.g. "stage1", "stage2".
	Name string `json:"name"`

	////// Where is it, and where must it end up? //////

	// Source is the address the image currently occupies, typically inside
	// the exploit load buffer.
	Source uint32 `json:"source"`

	// Dest is the base address the image must be copied to.
	Dest uint32 `json:"dest"`

	// Size is the declared image size in bytes.
	Size uint32 `json:"size"`

	// Entry is the address execution enters once the image is in place.
	Entry uint32 `json:"entry"`

	////// What's its identity? //////

	// SHA256 is the digest over the image bytes as they must appear at Dest.
	// A zero-length digest means the stage is not integrity-checked; the
	// handoff controller refuses such descriptors.
	SHA256 []byte `json:"sha256,omitempty"`
}

// SourceRange returns the range the image currently occupies.
func (d StageDescriptor) SourceRange() Range {
	return Range{Base: d.Source, Size: d.Size}
}

// DestRange returns the range the image will occupy after relocation.
func (d StageDescriptor) DestRange() Range {
	return Range{Base: d.Dest, Size: d.Size}
}

// String returns a human-readable representation of the descriptor.
func (d StageDescriptor) String() string {
	return fmt.Sprintf("%s: %d bytes 0x%08x -> 0x%08x entry 0x%08x", d.Name, d.Size, d.Source, d.Dest, d.Entry)
}
