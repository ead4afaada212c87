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

/*
Package ric implements Reduced Interval Congruences (RICs), the numeric abstract domain of the value-set analysis.

A RIC denotes the arithmetic progression

	{ offset + k*alignment | lo <= k <= hi }

where each of the two index bounds can independently be set, open (negative or positive infinity) or unsure. An
unsure bound is the top element for that side: nothing is known, and operations that need a bound to be precise
(intersection, subset) refuse to reason about it.

RICs are values. The lattice operations never mutate their receiver; they return a new RIC and a boolean that
reports whether the operation succeeded. For example, intersecting two RICs that cannot hold simultaneously
returns false:

	a := ric.Must(ric.New(4, 0, 10, 0)) // {0, 4, ..., 40}
	b := ric.Must(ric.New(1, 0, 3, 41)) // {41, 42, 43, 44}
	_, ok := a.Intersect(b)             // ok == false

Values returned by the package are in canonical form: when the lower bound is set, the offset is the smallest
member of the progression and the lower index is zero, and singletons always have alignment 1. Use [RIC.Equal]
to compare RICs built by hand.
*/
package ric
