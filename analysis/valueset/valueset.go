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

// Package valueset implements region-tagged value sets: the abstract value of one abstract location, as a disjoint
// union of reduced interval congruences, each tagged with the memory region it belongs to.
//
// Value sets are immutable. Every operation returns a new value set, so a value set can be shared between locations
// and states without copying.
package valueset

import (
	"strings"

	"github.com/awslabs/ar-vsa/analysis/ric"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ValueSet is a set of (region, RIC) pairs with at most one RIC per region, or Top.
// The zero value is the empty value set, which denotes no possible value.
type ValueSet struct {
	// top is true when nothing is known about the value. entries is nil when top is true.
	top bool

	// entries must not be mutated once the value set has been returned to a caller
	entries map[Region]ric.RIC
}

// Top returns the value set about which nothing is known. Top is distinct from Default: it is not bounded in any
// region.
func Top() ValueSet {
	return ValueSet{top: true}
}

// Default returns the value set containing only the scalar 0
func Default() ValueSet {
	return Constant(0)
}

// Constant returns the value set containing only the scalar v
func Constant(v int64) ValueSet {
	return Of(Scalar(), ric.Exact(v))
}

// Of returns the value set containing r in region
func Of(region Region, r ric.RIC) ValueSet {
	return ValueSet{entries: map[Region]ric.RIC{region: r}}
}

// IsTop returns true if vs is top
func (vs ValueSet) IsTop() bool { return vs.top }

// IsEmpty returns true if vs contains no value
func (vs ValueSet) IsEmpty() bool { return !vs.top && len(vs.entries) == 0 }

// Len returns the number of regions in vs
func (vs ValueSet) Len() int { return len(vs.entries) }

// Lookup returns the RIC of region in vs. If vs is top, it returns ric.Top() and true.
func (vs ValueSet) Lookup(region Region) (ric.RIC, bool) {
	if vs.top {
		return ric.Top(), true
	}
	r, ok := vs.entries[region]
	return r, ok
}

// Regions returns the regions of vs in order
func (vs ValueSet) Regions() []Region {
	regions := maps.Keys(vs.entries)
	slices.SortFunc(regions, func(a, b Region) bool { return a.Less(b) })
	return regions
}

// Insert returns vs with r added to region. If region already has a RIC, the two are joined.
func (vs ValueSet) Insert(region Region, r ric.RIC) ValueSet {
	if vs.top {
		return vs
	}
	entries := vs.clone()
	if prev, ok := entries[region]; ok {
		r, _ = prev.Union(r)
	}
	entries[region] = r
	return ValueSet{entries: entries}
}

// ContainsValue returns true if v may be a value of vs in region
func (vs ValueSet) ContainsValue(region Region, v int64) bool {
	r, ok := vs.Lookup(region)
	return ok && r.Contains(v)
}

// IsSubsetOf returns true if every region of vs is in b, with a RIC that is a subset of b's
func (vs ValueSet) IsSubsetOf(b ValueSet) bool {
	if b.top {
		return true
	}
	if vs.top {
		return false
	}
	for region, r := range vs.entries {
		rb, ok := b.entries[region]
		if !ok || !r.IsSubsetOf(rb) {
			return false
		}
	}
	return true
}

// Intersect returns the intersection of vs and b. Regions present in only one operand are dropped, since values with
// different provenance never intersect. When a shared region cannot be refined because one side has an unsure
// bound, the other side is kept. It returns false if the intersection is empty.
func (vs ValueSet) Intersect(b ValueSet) (ValueSet, bool) {
	if vs.top {
		return b, !b.IsEmpty()
	}
	if b.top {
		return vs, !vs.IsEmpty()
	}
	entries := map[Region]ric.RIC{}
	for region, ra := range vs.entries {
		rb, ok := b.entries[region]
		if !ok {
			continue
		}
		switch {
		case ra.HasUnsureBound() && rb.HasUnsureBound():
			entries[region] = ra
		case ra.HasUnsureBound():
			entries[region] = rb
		case rb.HasUnsureBound():
			entries[region] = ra
		default:
			if r, ok := ra.Intersect(rb); ok {
				entries[region] = r
			}
		}
	}
	res := ValueSet{entries: entries}
	return res, len(entries) > 0
}

// Union returns the union of vs and b. Regions of both operands are kept; RICs of shared regions are joined.
func (vs ValueSet) Union(b ValueSet) ValueSet {
	if vs.top || b.top {
		return Top()
	}
	entries := vs.clone()
	for region, rb := range b.entries {
		if ra, ok := entries[region]; ok {
			entries[region], _ = ra.Union(rb)
		} else {
			entries[region] = rb
		}
	}
	return ValueSet{entries: entries}
}

// Widen extrapolates vs, the value at the previous iteration, with next. RICs of shared regions are widened, other
// regions behave like union. It returns the widened value set and true if it differs from vs.
func (vs ValueSet) Widen(next ValueSet) (ValueSet, bool) {
	if vs.top {
		return vs, false
	}
	if next.top {
		return Top(), true
	}
	entries := vs.clone()
	changed := false
	for region, rn := range next.entries {
		if rp, ok := entries[region]; ok {
			var c bool
			entries[region], c = rp.Widen(rn)
			changed = changed || c
		} else {
			entries[region] = rn
			changed = true
		}
	}
	return ValueSet{entries: entries}, changed
}

// Adjust returns vs where every RIC is shifted by delta
func (vs ValueSet) Adjust(delta int64) ValueSet {
	return vs.mapRICs(func(r ric.RIC) ric.RIC {
		adjusted, _ := r.Adjust(delta)
		return adjusted
	})
}

// RemoveLowerBounds returns vs where every RIC has lost its lower bound
func (vs ValueSet) RemoveLowerBounds() ValueSet {
	return vs.mapRICs(ric.RIC.RemoveLowerBounds)
}

// RemoveUpperBounds returns vs where every RIC has lost its upper bound
func (vs ValueSet) RemoveUpperBounds() ValueSet {
	return vs.mapRICs(ric.RIC.RemoveUpperBounds)
}

// Equal returns true if vs and b have the same regions with equal RICs
func (vs ValueSet) Equal(b ValueSet) bool {
	if vs.top || b.top {
		return vs.top == b.top
	}
	if len(vs.entries) != len(b.entries) {
		return false
	}
	for region, ra := range vs.entries {
		if rb, ok := b.entries[region]; !ok || !ra.Equal(rb) {
			return false
		}
	}
	return true
}

// String returns the regions of vs in order, e.g. "{scalar: 12, stack(0): [-16, 0]*8}"
func (vs ValueSet) String() string {
	if vs.top {
		return "T"
	}
	var parts []string
	for _, region := range vs.Regions() {
		parts = append(parts, region.String()+": "+vs.entries[region].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (vs ValueSet) mapRICs(f func(ric.RIC) ric.RIC) ValueSet {
	if vs.top {
		return vs
	}
	entries := make(map[Region]ric.RIC, len(vs.entries))
	for region, r := range vs.entries {
		entries[region] = f(r)
	}
	return ValueSet{entries: entries}
}

func (vs ValueSet) clone() map[Region]ric.RIC {
	entries := make(map[Region]ric.RIC, len(vs.entries)+1)
	for region, r := range vs.entries {
		entries[region] = r
	}
	return entries
}
