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

// Package impl packs boot-stage binaries into the delivery image format.
package impl

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/u-root/u-root/pkg/align"

	"github.com/google/coldboot/api"
)

// stageAlign pads the first stage so the second starts word-aligned.
const stageAlign = 4

// PackOpts are the options for packing an image (specified in main.go).
type PackOpts struct {
	// Stage1File is the first-stage binary. It must reserve the header
	// bytes at the fixed offset.
	Stage1File string

	// Stage2File is the second-stage binary; empty means no second stage.
	Stage2File string

	// OutputFile receives the packed image.
	OutputFile string

	// ManifestFile receives the JSON manifest with the stage digests.
	ManifestFile string
}

// Pack builds the image and manifest.
func Pack(opts PackOpts) error {
	if opts.Stage1File == "" {
		return errors.New("Stage1File is required")
	}
	if opts.OutputFile == "" {
		return errors.New("OutputFile is required")
	}

	stage1, err := os.ReadFile(opts.Stage1File)
	if err != nil {
		return fmt.Errorf("failed to read first stage: %w", err)
	}
	if len(stage1) < api.ImageHeaderOffset+api.ImageHeaderSize {
		return fmt.Errorf("first stage is %d bytes; too small to carry the header", len(stage1))
	}

	var stage2 []byte
	if opts.Stage2File != "" {
		if stage2, err = os.ReadFile(opts.Stage2File); err != nil {
			return fmt.Errorf("failed to read second stage: %w", err)
		}
	}

	image, m, err := Build(stage1, stage2)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.OutputFile, image, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	glog.Infof("Wrote %d byte image to %q", len(image), opts.OutputFile)

	if opts.ManifestFile != "" {
		j, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %w", err)
		}
		if err := os.WriteFile(opts.ManifestFile, j, 0644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		glog.Infof("Wrote manifest to %q", opts.ManifestFile)
	}
	return nil
}

// Build assembles the image bytes and manifest: pad the first stage, stamp
// the header into it, append the second stage, digest both as they will
// appear in memory.
func Build(stage1, stage2 []byte) ([]byte, api.Manifest, error) {
	padded := int(align.Up(uint(len(stage1)), stageAlign))
	image := make([]byte, padded, padded+len(stage2))
	copy(image, stage1)

	h := api.ImageHeader{
		Magic:     api.ImageMagic,
		Version:   api.ImageHeaderVersion,
		Stage1Len: uint32(padded),
		Stage2Len: uint32(len(stage2)),
	}
	if err := h.EncodeTo(image); err != nil {
		return nil, api.Manifest{}, fmt.Errorf("failed to encode header: %w", err)
	}
	image = append(image, stage2...)

	s1 := sha256.Sum256(image[:padded])
	m := api.Manifest{Stage1SHA256: s1[:]}
	if len(stage2) > 0 {
		s2 := sha256.Sum256(stage2)
		m.Stage2SHA256 = s2[:]
	}
	return image, m, nil
}
