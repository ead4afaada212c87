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

package ric

// BoundState is the state of one side of a RIC
type BoundState int

const (
	// Set means the index bound is known and the corresponding index field is meaningful
	Set BoundState = iota
	// NegativeInfinity means the RIC is not bounded below. Only valid for lower bounds.
	NegativeInfinity
	// PositiveInfinity means the RIC is not bounded above. Only valid for upper bounds.
	PositiveInfinity
	// Unsure means nothing is known about the bound. It must not be assumed bounded by any operation that
	// requires precision.
	Unsure
)

func (s BoundState) String() string {
	switch s {
	case Set:
		return "set"
	case NegativeInfinity:
		return "-inf"
	case PositiveInfinity:
		return "+inf"
	case Unsure:
		return "T"
	default:
		return "invalid"
	}
}

// openness orders bound states from the most precise to the least precise: a set bound, then infinity, then unsure.
func openness(s BoundState) int {
	switch s {
	case Set:
		return 0
	case NegativeInfinity, PositiveInfinity:
		return 1
	default:
		return 2
	}
}

// endpoint is the concrete value of one side of a RIC. The value is only meaningful when state is Set.
type endpoint struct {
	state BoundState
	value int64
}

func (e endpoint) isSet() bool { return e.state == Set }

// moreOpenLower returns the lower endpoint of the union of two ranges
func moreOpenLower(a, b endpoint) endpoint {
	if a.isSet() && b.isSet() {
		if b.value < a.value {
			return b
		}
		return a
	}
	if openness(b.state) > openness(a.state) {
		return b
	}
	return a
}

// moreOpenUpper returns the upper endpoint of the union of two ranges
func moreOpenUpper(a, b endpoint) endpoint {
	if a.isSet() && b.isSet() {
		if b.value > a.value {
			return b
		}
		return a
	}
	if openness(b.state) > openness(a.state) {
		return b
	}
	return a
}

// tighterLower returns the lower endpoint of the intersection of two ranges. Neither endpoint may be unsure.
// On ties, a is preferred.
func tighterLower(a, b endpoint) endpoint {
	if !a.isSet() {
		return b
	}
	if !b.isSet() {
		return a
	}
	if b.value > a.value {
		return b
	}
	return a
}

// tighterUpper returns the upper endpoint of the intersection of two ranges. Neither endpoint may be unsure.
// On ties, a is preferred.
func tighterUpper(a, b endpoint) endpoint {
	if !a.isSet() {
		return b
	}
	if !b.isSet() {
		return a
	}
	if b.value < a.value {
		return b
	}
	return a
}
