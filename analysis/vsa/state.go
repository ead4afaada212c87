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

package vsa

import (
	"github.com/awslabs/ar-vsa/analysis/aloc"
	"github.com/awslabs/ar-vsa/analysis/valueset"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// State maps abstract locations to their value set. Locations without an entry have the missing value set.
type State struct {
	values  map[aloc.ALoc]valueset.ValueSet
	missing valueset.ValueSet
}

// NewState returns an empty state where locations without an entry have the value set missing
func NewState(missing valueset.ValueSet) *State {
	return &State{
		values:  map[aloc.ALoc]valueset.ValueSet{},
		missing: missing,
	}
}

// Get returns the value set of loc, and false if loc has no entry and the missing value set was returned
func (s *State) Get(loc aloc.ALoc) (valueset.ValueSet, bool) {
	if vs, ok := s.values[loc]; ok {
		return vs, true
	}
	return s.missing, false
}

// Set replaces the value set of loc
// @mutates s
func (s *State) Set(loc aloc.ALoc, vs valueset.ValueSet) {
	s.values[loc] = vs
}

// Missing returns the value set of locations that have no entry
func (s *State) Missing() valueset.ValueSet {
	return s.missing
}

// Len returns the number of locations with an entry
func (s *State) Len() int {
	return len(s.values)
}

// Locations returns the locations with an entry, in increasing order
func (s *State) Locations() []aloc.ALoc {
	locs := maps.Keys(s.values)
	slices.SortFunc(locs, aloc.ALoc.Less)
	return locs
}

// Clone returns a copy of s. Value sets are immutable, so they are shared.
func (s *State) Clone() *State {
	return &State{
		values:  maps.Clone(s.values),
		missing: s.missing,
	}
}

// Join returns the state mapping every location to the union of its value sets in s and b
func (s *State) Join(b *State) *State {
	res := NewState(s.missing.Union(b.missing))
	for _, loc := range s.locationsWith(b) {
		x, _ := s.Get(loc)
		y, _ := b.Get(loc)
		res.values[loc] = x.Union(y)
	}
	return res
}

// Widen returns the state that extrapolates s, the previous state, with next, and true if it differs from s
func (s *State) Widen(next *State) (*State, bool) {
	res := NewState(s.missing)
	changed := false
	if !next.missing.IsSubsetOf(s.missing) {
		res.missing = s.missing.Union(next.missing)
		changed = true
	}
	for _, loc := range s.locationsWith(next) {
		x, _ := s.Get(loc)
		y, _ := next.Get(loc)
		w, c := x.Widen(y)
		res.values[loc] = w
		changed = changed || c
	}
	return res, changed
}

// Equal returns true if every location has the same value set in s and b
func (s *State) Equal(b *State) bool {
	if !s.missing.Equal(b.missing) {
		return false
	}
	for _, loc := range s.locationsWith(b) {
		x, _ := s.Get(loc)
		y, _ := b.Get(loc)
		if !x.Equal(y) {
			return false
		}
	}
	return true
}

// locationsWith returns the locations with an entry in s or in b
func (s *State) locationsWith(b *State) []aloc.ALoc {
	locs := maps.Keys(s.values)
	for loc := range b.values {
		if _, ok := s.values[loc]; !ok {
			locs = append(locs, loc)
		}
	}
	return locs
}
