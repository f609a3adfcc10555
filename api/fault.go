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

import "fmt"

// Cause classifies a fatal boot failure.
type Cause uint32

const (
	// CauseNone means no fault has been recorded.
	CauseNone Cause = iota

	// CauseBadPlan means the relocation plan was invalid (overlapping
	// destinations, a descriptor exceeding its buffer, etc.).
	CauseBadPlan

	// CauseBringup means a hardware domain failed to come up.
	CauseBringup

	// CauseBadDescriptor means second-stage descriptor validation failed
	// before handoff.
	CauseBadDescriptor

	// CauseConfig means a static configuration defect was detected, e.g.
	// a cyclic domain dependency table.
	CauseConfig
)

// String returns a short identifier for the cause.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseBadPlan:
		return "bad-relocation-plan"
	case CauseBringup:
		return "bringup-failure"
	case CauseBadDescriptor:
		return "bad-descriptor"
	case CauseConfig:
		return "config-error"
	default:
		return fmt.Sprintf("cause(%d)", uint32(c))
	}
}

// Fault is the last-failure record left behind for the debug interface.
//
// The boot core guarantees nothing about failures beyond recording one of
// these in a fixed location and making no further hardware state changes.
type Fault struct {
	// Cause classifies the failure.
	Cause Cause `json:"cause"`

	// Domain names the hardware domain involved, if any.
	Domain string `json:"domain,omitempty"`

	// Stage names the enable step or boot phase that failed. It is a
	// short stable tag; the scratch record truncates it to four bytes.
	Stage string `json:"stage,omitempty"`

	// Detail elaborates on the failure for in-process readers (the
	// emulator monitor). It is not part of the scratch record.
	Detail string `json:"detail,omitempty"`
}

// String returns a human-readable representation of the fault.
func (f Fault) String() string {
	if f.Cause == CauseNone {
		return "no fault"
	}
	s := fmt.Sprintf("%s (domain %q, stage %q)", f.Cause, f.Domain, f.Stage)
	if f.Detail != "" {
		s += ": " + f.Detail
	}
	return s
}
