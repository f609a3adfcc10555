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

// Package impl polls a cold-boot monitor endpoint until the boot reaches a
// terminal state.
package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"

	"github.com/google/coldboot/api"
)

// MonitorOpts are the options for watching a boot (specified in main.go).
type MonitorOpts struct {
	// MonitorURL is the base URL of the emulator monitor.
	MonitorURL string

	// Timeout bounds the total watch time.
	Timeout time.Duration
}

// errStillRunning drives the retry loop while the sequencer walks.
var errStillRunning = errors.New("bring-up still in progress")

// Watch polls until the boot completes or halts. A halt is reported with
// the recorded fault and returned as an error.
func Watch(ctx context.Context, opts MonitorOpts) error {
	if opts.MonitorURL == "" {
		return errors.New("MonitorURL is required")
	}

	var last string
	poll := func() error {
		var d api.DomainsResponse
		if err := get(ctx, opts.MonitorURL+api.MonitorDomainsPath, &d); err != nil {
			return err
		}
		if s := summarize(d); s != last {
			glog.Infof("Boot state: %s", s)
			last = s
		}
		switch d.State {
		case "completed":
			return nil
		case "halted":
			var f api.FaultResponse
			if err := get(ctx, opts.MonitorURL+api.MonitorFaultPath, &f); err != nil {
				return backoff.Permanent(fmt.Errorf("boot halted; fault unavailable: %w", err))
			}
			return backoff.Permanent(fmt.Errorf("boot halted: %v", f.Fault))
		default:
			return errStillRunning
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = opts.Timeout
	if err := backoff.Retry(poll, backoff.WithContext(bo, ctx)); err != nil {
		return err
	}
	glog.Info("Boot completed")
	return nil
}

func summarize(d api.DomainsResponse) string {
	enabled := 0
	for _, dom := range d.Domains {
		if dom.Status == "enabled" {
			enabled++
		}
	}
	return fmt.Sprintf("%s (%d/%d domains enabled)", d.State, enabled, len(d.Domains))
}

func get(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	rsp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status fetching %q: %s", url, rsp.Status)
	}
	return json.NewDecoder(rsp.Body).Decode(v)
}
