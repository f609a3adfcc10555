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

import (
	"encoding/binary"
	"fmt"
)

// The payload image begins with a header-free code blob. A small header is
// embedded at a fixed offset inside the first-stage image; a second-stage
// blob, if any, is appended contiguously after the first stage.
const (
	// ImageMagic identifies a packed payload image ("CLDB").
	ImageMagic = 0x434c4442

	// ImageHeaderOffset is the fixed byte offset of the embedded header
	// within the first-stage image.
	ImageHeaderOffset = 0x10

	// ImageHeaderSize is the size of the embedded header in bytes.
	ImageHeaderSize = 16

	// ImageHeaderVersion is the current header layout version.
	ImageHeaderVersion = 1
)

// ImageHeader is the fixed-layout header embedded in a payload image.
type ImageHeader struct {
	// Magic must equal ImageMagic.
	Magic uint32

	// Version is the header layout version.
	Version uint32

	// Stage1Len is the total length in bytes of the first-stage image,
	// including the embedded header.
	Stage1Len uint32

	// Stage2Len is the length in bytes of the appended second-stage blob,
	// or zero if no second stage is present.
	Stage2Len uint32
}

// ParseImageHeader decodes the embedded header from a payload image.
func ParseImageHeader(image []byte) (ImageHeader, error) {
	if len(image) < ImageHeaderOffset+ImageHeaderSize {
		return ImageHeader{}, fmt.Errorf("image too short for header: %d bytes", len(image))
	}
	b := image[ImageHeaderOffset:]
	h := ImageHeader{
		Magic:     binary.LittleEndian.Uint32(b[0:]),
		Version:   binary.LittleEndian.Uint32(b[4:]),
		Stage1Len: binary.LittleEndian.Uint32(b[8:]),
		Stage2Len: binary.LittleEndian.Uint32(b[12:]),
	}
	if h.Magic != ImageMagic {
		return ImageHeader{}, fmt.Errorf("bad image magic 0x%08x", h.Magic)
	}
	if h.Version != ImageHeaderVersion {
		return ImageHeader{}, fmt.Errorf("unsupported image header version %d", h.Version)
	}
	return h, nil
}

// EncodeTo writes the header into image at the fixed header offset.
func (h ImageHeader) EncodeTo(image []byte) error {
	if len(image) < ImageHeaderOffset+ImageHeaderSize {
		return fmt.Errorf("image too short for header: %d bytes", len(image))
	}
	b := image[ImageHeaderOffset:]
	binary.LittleEndian.PutUint32(b[0:], h.Magic)
	binary.LittleEndian.PutUint32(b[4:], h.Version)
	binary.LittleEndian.PutUint32(b[8:], h.Stage1Len)
	binary.LittleEndian.PutUint32(b[12:], h.Stage2Len)
	return nil
}
