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

package bringup

import (
	"fmt"
	"sort"
	"strings"
)

// topoSort validates the domain table as a DAG and returns a deterministic
// topological order: Kahn's algorithm, breaking ties by table position so
// the emitted register sequence is reproducible run to run.
//
// Errors here are configuration defects in the static table, detected before
// any register access is issued.
func topoSort(table []Domain) ([]int, error) {
	index := make(map[string]int, len(table))
	for i, d := range table {
		if d.Name == "" {
			return nil, fmt.Errorf("domain %d has no name", i)
		}
		if _, dup := index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate domain %q", d.Name)
		}
		index[d.Name] = i
	}

	indeg := make([]int, len(table))
	succ := make([][]int, len(table))
	for i, d := range table {
		for _, dep := range d.Deps {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("domain %q depends on unknown domain %q", d.Name, dep)
			}
			if j == i {
				return nil, fmt.Errorf("domain %q depends on itself", d.Name)
			}
			succ[j] = append(succ[j], i)
			indeg[i]++
		}
	}

	var ready []int
	for i := range table {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	var order []int
	for len(ready) > 0 {
		sort.Ints(ready)
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, s := range succ[n] {
			indeg[s]--
			if indeg[s] == 0 {
				ready = append(ready, s)
			}
		}
	}

	if len(order) != len(table) {
		var cyc []string
		for i := range table {
			if indeg[i] > 0 {
				cyc = append(cyc, table[i].Name)
			}
		}
		return nil, fmt.Errorf("domain dependency cycle involving: %s", strings.Join(cyc, ", "))
	}
	return order, nil
}
