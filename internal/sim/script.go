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

package sim

import (
	"encoding/json"
	"fmt"
	"io"
)

// Script is the JSON-configurable part of a model: which DRAM parameter
// set the platform straps, and additional or replacement reaction rules.
type Script struct {
	// DRAMID is the strapping id handed to the bring-up context.
	DRAMID int `json:"dram_id"`

	// Extend keeps the default rules and appends Rules; false replaces
	// them entirely, which is how failure injection scripts work.
	Extend bool `json:"extend"`

	// Rules are the scripted hardware reactions.
	Rules []Rule `json:"rules"`
}

// ParseScript decodes a JSON script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	return &s, nil
}

// FromScript builds a model from a script. A nil script means the default
// rules and DRAM id 0.
func FromScript(s *Script) (*Model, int) {
	if s == nil {
		return NewDefault(), 0
	}
	rules := s.Rules
	if s.Extend {
		rules = append(DefaultRules(), s.Rules...)
	}
	return New(rules), s.DRAMID
}
