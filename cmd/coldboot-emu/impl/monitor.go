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

package impl

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/google/coldboot/api"
	"github.com/google/coldboot/boot"
	"github.com/google/coldboot/bringup"
)

// Monitor serves the debug API over a running or finished boot.
type Monitor struct {
	mu  sync.Mutex
	seq *bringup.Sequencer
}

// NewMonitor returns a monitor with no sequencer yet attached.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// SetSequencer attaches the sequencer once the boot flow creates it.
func (m *Monitor) SetSequencer(seq *bringup.Sequencer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq = seq
}

// Router returns the monitor's HTTP routes.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(api.MonitorDomainsPath, m.getDomains).Methods("GET")
	r.HandleFunc(api.MonitorFaultPath, m.getFault).Methods("GET")
	return r
}

func (m *Monitor) getDomains(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	seq := m.seq
	m.mu.Unlock()

	resp := api.DomainsResponse{State: bringup.NotStarted.String()}
	if seq != nil {
		resp.State = seq.State().String()
		resp.Domains = seq.Statuses()
	}
	writeJSON(w, resp)
}

func (m *Monitor) getFault(w http.ResponseWriter, _ *http.Request) {
	f := boot.LastFault()
	writeJSON(w, api.FaultResponse{
		Faulted: f.Cause != api.CauseNone,
		Fault:   f,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Errorf("Failed to encode response: %v", err)
	}
}
