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

package relocate

import (
	"github.com/google/coldboot/api"
)

// Stages derives the stage descriptors from a parsed image header and the
// load-buffer layout. The first stage occupies the front of the buffer;
// the second stage, if the header declares one, sits immediately after it.
//
// Digests are not carried here — the on-disk manifest supplies them, and the
// handoff controller enforces their presence for the second stage.
func Stages(h api.ImageHeader, buffer api.Range, stage1Dest, stage2Dest uint32) ([]api.StageDescriptor, error) {
	if h.Stage1Len == 0 {
		return nil, planErrorf("header declares an empty first stage")
	}
	total := h.Stage1Len + h.Stage2Len
	if total < h.Stage1Len || total > buffer.Size {
		return nil, planErrorf("header stage lengths %d+%d exceed load buffer %v", h.Stage1Len, h.Stage2Len, buffer)
	}

	descs := []api.StageDescriptor{{
		Name:   "stage1",
		Source: buffer.Base,
		Dest:   stage1Dest,
		Size:   h.Stage1Len,
		Entry:  stage1Dest,
	}}
	if h.Stage2Len > 0 {
		descs = append(descs, api.StageDescriptor{
			Name:   "stage2",
			Source: buffer.Base + h.Stage1Len,
			Dest:   stage2Dest,
			Size:   h.Stage2Len,
			Entry:  stage2Dest,
		})
	}
	return descs, nil
}
