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

// Monitor API paths served by the emulator.
const (
	// MonitorDomainsPath returns a DomainsResponse.
	MonitorDomainsPath = "/v0/domains"

	// MonitorFaultPath returns a FaultResponse.
	MonitorFaultPath = "/v0/fault"
)

// DomainStatus describes one hardware domain's bring-up state.
type DomainStatus struct {
	// Name is the domain identifier.
	Name string `json:"name"`

	// Status is one of "uninitialized", "enabling", "enabled", "failed".
	Status string `json:"status"`

	// Deps lists the domains this domain depends on.
	Deps []string `json:"deps,omitempty"`
}

// DomainsResponse is the emulator's reply to a domains query.
type DomainsResponse struct {
	// State is the global sequencer state: "not-started", "running",
	// "completed" or "halted".
	State string `json:"state"`

	// Domains holds the per-domain status in topological order.
	Domains []DomainStatus `json:"domains"`
}

// FaultResponse is the emulator's reply to a fault query.
type FaultResponse struct {
	// Faulted reports whether a fault record is present.
	Faulted bool `json:"faulted"`

	// Fault is the recorded failure, meaningful only when Faulted is set.
	Fault Fault `json:"fault"`
}
