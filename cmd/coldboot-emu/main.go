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

// coldboot-emu runs the cold-boot flow against scripted hardware and
// serves the debug monitor API for it.
package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/google/coldboot/cmd/coldboot-emu/impl"
)

var (
	listenAddr = flag.String("listen", ":8090", "address:port to serve the monitor API on")
	imageFile  = flag.String("image", "", "Path to the packed payload image.")
	manifest   = flag.String("manifest", "", "Path to the image manifest.")
	scriptFile = flag.String("script", "", "Path to a hardware script; optional.")
	scale      = flag.Int("scale", 2, "Poll budget multiplier for the scripted hardware.")
)

func main() {
	flag.Parse()

	ctx := context.Background()
	if err := impl.Main(ctx, impl.ServerOpts{
		ListenAddr:   *listenAddr,
		ImageFile:    *imageFile,
		ManifestFile: *manifest,
		ScriptFile:   *scriptFile,
		Scale:        *scale,
	}); err != nil {
		glog.Exitf("Error running emulator: %q", err)
	}
}
