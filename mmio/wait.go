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

package mmio

import "fmt"

// Budget bounds a busy-poll. It is expressed as an iteration count because
// no timer can be assumed available during early bring-up.
type Budget struct {
	// Polls is the maximum number of reads issued before giving up.
	Polls int
}

// TimeoutError reports that a Wait exhausted its budget.
type TimeoutError struct {
	// Block names the register block polled.
	Block string

	// Field names the field polled.
	Field string

	// Polls is the number of reads issued.
	Polls int
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting on %s.%s after %d polls", e.Block, e.Field, e.Polls)
}

// Predicate decides whether a polled field value is ready.
type Predicate func(uint32) bool

// Set returns a Predicate that holds once all bits of mask are set in the
// field value.
func Set(mask uint32) Predicate {
	return func(v uint32) bool { return v&mask == mask }
}

// Clear returns a Predicate that holds once all bits of mask are clear in
// the field value.
func Clear(mask uint32) Predicate {
	return func(v uint32) bool { return v&mask == 0 }
}

// Eq returns a Predicate that holds once the field value equals want.
func Eq(want uint32) Predicate {
	return func(v uint32) bool { return v == want }
}

// Wait busy-polls the field until pred holds or the budget is exhausted.
//
// This is not a yield point: there is no scheduler to yield to. On timeout
// no further accesses are issued and a *TimeoutError is returned.
func (v *View) Wait(f Field, pred Predicate, b Budget) error {
	for i := 0; i < b.Polls; i++ {
		if pred(v.Read(f)) {
			return nil
		}
	}
	return &TimeoutError{Block: v.blk.Name, Field: f.Name, Polls: b.Polls}
}
