// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package valueset

import (
	"fmt"
	"strconv"
	"strings"
)

// RegionKind is the kind of memory object a value may point into
type RegionKind int

const (
	// ScalarKind is the region of values that are not pointers, e.g. integer constants
	ScalarKind RegionKind = iota
	// GlobalKind is the region of global memory
	GlobalKind
	// StackKind is the region of one stack frame
	StackKind
	// HeapKind is the region of one unknown heap object, identified by its allocation site
	HeapKind
)

// Region tags the values of a value set with the memory object they most plausibly belong to. Values from
// different regions are never combined arithmetically. Regions are comparable.
type Region struct {
	kind RegionKind
	id   uint64
}

// Scalar returns the region of non-pointer values
func Scalar() Region { return Region{kind: ScalarKind} }

// Global returns the region of global memory
func Global() Region { return Region{kind: GlobalKind} }

// Stack returns the region of the stack frame with the given id
func Stack(frame uint64) Region { return Region{kind: StackKind, id: frame} }

// Heap returns the region of the heap objects allocated at the given site
func Heap(site uint64) Region { return Region{kind: HeapKind, id: site} }

// Kind returns the kind of region
func (r Region) Kind() RegionKind { return r.kind }

// ID returns the frame id of a stack region, or the allocation site of a heap region
func (r Region) ID() uint64 { return r.id }

// Less orders regions by kind then id
func (r Region) Less(b Region) bool {
	if r.kind != b.kind {
		return r.kind < b.kind
	}
	return r.id < b.id
}

func (r Region) String() string {
	switch r.kind {
	case ScalarKind:
		return "scalar"
	case GlobalKind:
		return "global"
	case StackKind:
		return "stack(" + strconv.FormatUint(r.id, 10) + ")"
	case HeapKind:
		return "heap(" + strconv.FormatUint(r.id, 10) + ")"
	default:
		return "invalid"
	}
}

// ParseRegion parses the textual form of a region, as printed by String
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "scalar":
		return Scalar(), nil
	case "global":
		return Global(), nil
	}
	for kind, prefix := range map[RegionKind]string{StackKind: "stack(", HeapKind: "heap("} {
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
			id, err := strconv.ParseUint(s[len(prefix):len(s)-1], 0, 64)
			if err != nil {
				return Region{}, fmt.Errorf("invalid region id in %q: %w", s, err)
			}
			return Region{kind: kind, id: id}, nil
		}
	}
	return Region{}, fmt.Errorf("could not parse region %q", s)
}
