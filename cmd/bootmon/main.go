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

// bootmon watches a cold-boot monitor endpoint and reports the outcome.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/google/coldboot/cmd/bootmon/impl"
)

var (
	monitorURL = flag.String("monitor_url", "http://localhost:8090", "Base URL of the emulator monitor.")
	timeout    = flag.Duration("timeout", 30*time.Second, "Maximum time to wait for a terminal boot state.")
)

func main() {
	flag.Parse()

	ctx := context.Background()
	if err := impl.Watch(ctx, impl.MonitorOpts{
		MonitorURL: *monitorURL,
		Timeout:    *timeout,
	}); err != nil {
		glog.Exitf("Error watching boot: %v", err)
	}
}
