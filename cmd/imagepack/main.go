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

// imagepack assembles boot-stage binaries into a delivery image plus a
// manifest carrying the stage digests.
package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/google/coldboot/cmd/imagepack/impl"
)

var (
	stage1   = flag.String("stage1", "", "Path to the first-stage binary.")
	stage2   = flag.String("stage2", "", "Path to the second-stage binary; optional.")
	output   = flag.String("output", "", "Path for the packed image.")
	manifest = flag.String("manifest", "", "Path for the JSON manifest; optional.")
)

func main() {
	flag.Parse()

	if err := impl.Pack(impl.PackOpts{
		Stage1File:   *stage1,
		Stage2File:   *stage2,
		OutputFile:   *output,
		ManifestFile: *manifest,
	}); err != nil {
		glog.Exitf("Failed to pack image: %v", err)
	}
}
