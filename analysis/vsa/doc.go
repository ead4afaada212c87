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
Package vsa implements a value-set analysis over the abstract locations of a lifted function.

An Analysis tracks, for one function, the value set of every abstract location (see package aloc). The lifter calls
the transfer functions (Assign, AssignConstant, Adjust, RemoveLowerBounds, RemoveUpperBounds) as it walks the
instructions of a block, and reads the results with Query. Solve runs the transfer functions of a whole Function to
a fixpoint, joining states where control flow merges and widening at loop headers.

Locations that have never been assigned have the value configured by the missing-entry option: the exact scalar 0
by default, or the unknown value set when missing-entry is "top".
*/
package vsa
