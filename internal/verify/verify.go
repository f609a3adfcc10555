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

// Package verify holds the integrity and bounds checks shared by the
// relocation and handoff paths.
package verify

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/google/coldboot/api"
)

// Loader reads bytes from physical memory.
type Loader interface {
	Load8(addr uint32) byte
}

// SHA256Region hashes the bytes of r as read through mem.
func SHA256Region(mem Loader, r api.Range) []byte {
	h := sha256.New()
	var buf [1]byte
	for i := uint32(0); i < r.Size; i++ {
		buf[0] = mem.Load8(r.Base + i)
		h.Write(buf[:])
	}
	return h.Sum(nil)
}

// CheckDigest compares a computed digest against the declared one. An empty
// declared digest is a refusal, not a pass: stages without integrity
// metadata never reach the release path.
func CheckDigest(got, want []byte) error {
	if len(want) != sha256.Size {
		return fmt.Errorf("declared digest is %d bytes, want %d", len(want), sha256.Size)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("digest mismatch: computed %x, declared %x", got, want)
	}
	return nil
}

// InRegions reports whether r lies entirely within one of the regions.
func InRegions(r api.Range, regions []api.Range) bool {
	for _, reg := range regions {
		if reg.Contains(r) {
			return true
		}
	}
	return false
}
