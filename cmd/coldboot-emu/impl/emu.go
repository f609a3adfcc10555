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

// Package impl runs the cold-boot flow against scripted hardware and serves
// the monitor API over it.
package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/golang/glog"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/boot"
	"github.com/google/coldboot/internal/sim"
	"github.com/google/coldboot/soc/t210"
	"golang.org/x/sync/errgroup"
)

// ServerOpts are the options for the emulator (specified in main.go).
type ServerOpts struct {
	// ListenAddr is where the monitor API listens.
	ListenAddr string

	// ImageFile is the packed payload image.
	ImageFile string

	// ManifestFile is the image manifest with the stage digests.
	ManifestFile string

	// ScriptFile optionally overrides the scripted hardware reactions.
	ScriptFile string

	// Scale multiplies poll budgets; the scripted model needs only small
	// values.
	Scale int
}

// Main boots the scripted hardware and serves the monitor until ctx is
// cancelled. The monitor outlives the boot so the terminal state stays
// queryable.
func Main(ctx context.Context, opts ServerOpts) error {
	if opts.ImageFile == "" {
		return errors.New("ImageFile is required")
	}
	if opts.ManifestFile == "" {
		return errors.New("ManifestFile is required")
	}

	image, err := os.ReadFile(opts.ImageFile)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if uint32(len(image)) > boot.LoadBufferSize {
		return fmt.Errorf("image is %d bytes; load buffer holds %d", len(image), boot.LoadBufferSize)
	}

	mb, err := os.ReadFile(opts.ManifestFile)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest api.Manifest
	if err := json.Unmarshal(mb, &manifest); err != nil {
		return fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	var script *sim.Script
	if opts.ScriptFile != "" {
		f, err := os.Open(opts.ScriptFile)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		script, err = sim.ParseScript(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	model, dramID := sim.FromScript(script)
	model.AddRAM(t210.IRAMBase, t210.IRAMSize)
	model.CopyIn(boot.LoadBufferBase, image)

	mon := NewMonitor()

	env := &boot.Env{
		Backend:      model,
		Mem:          model,
		Halt:         func() { glog.Info("Boot core halted") },
		Scale:        opts.Scale,
		DRAMID:       dramID,
		Stage1Digest: manifest.Stage1SHA256,
		Stage2Digest: manifest.Stage2SHA256,
		Observe:      mon.SetSequencer,
	}
	env.Jump = func(entry uint32) {
		glog.Infof("First stage entered at 0x%08x", entry)
		boot.Main(env)
	}

	srv := &http.Server{Addr: opts.ListenAddr, Handler: mon.Router()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		boot.Relocate(env)
		if f := boot.LastFault(); f.Cause != api.CauseNone {
			glog.Errorf("Boot faulted: %v", f)
			return nil
		}
		glog.Info("Boot chain complete; handoff released")
		return nil
	})
	g.Go(func() error {
		glog.Infof("Monitor listening on %s", opts.ListenAddr)
		e := make(chan error, 1)
		go func() {
			e <- srv.ListenAndServe()
			close(e)
		}()
		<-ctx.Done()
		srv.Shutdown(context.Background())
		if err := <-e; err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	return g.Wait()
}
