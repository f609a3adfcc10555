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

// Manifest travels alongside a packed image and carries the integrity
// metadata the image format itself does not: the declared digests of each
// stage as it must appear at its destination.
type Manifest struct {
	// Stage1SHA256 is the digest of the padded first stage, header
	// included.
	Stage1SHA256 []byte `json:"stage1_sha256"`

	// Stage2SHA256 is the digest of the second stage, or empty when the
	// image has none.
	Stage2SHA256 []byte `json:"stage2_sha256,omitempty"`
}
