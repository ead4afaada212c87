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

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrZeroAlignment is returned when constructing a RIC with a zero alignment
	ErrZeroAlignment = errors.New("alignment must be positive")

	// ErrAlignmentTooLarge is returned when constructing a RIC with an alignment that does not fit in an int64
	ErrAlignmentTooLarge = errors.New("alignment does not fit in a signed 64-bit integer")

	// ErrInvertedBounds is returned when constructing a RIC whose set lower index exceeds its set upper index
	ErrInvertedBounds = errors.New("lower index bound exceeds upper index bound")

	// ErrInvalidBoundState is returned when a lower bound is +inf or an upper bound is -inf
	ErrInvalidBoundState = errors.New("invalid bound state")
)

// RIC is a reduced interval congruence: the set { offset + k*alignment | lo <= k <= hi } with independently
// relaxable lower and upper bounds.
// The zero value is the single value 0.
type RIC struct {
	// alignment is the stride of the progression. A zero alignment is read as 1 so that the zero value is valid.
	alignment uint64

	offset          int64
	indexLowerBound int64
	indexUpperBound int64

	lowerBoundState BoundState
	upperBoundState BoundState
}

// New returns the RIC { offset + k*alignment | lo <= k <= hi } with both bounds set.
func New(alignment uint64, lo int64, hi int64, offset int64) (RIC, error) {
	return NewWithStates(alignment, lo, hi, offset, Set, Set)
}

// NewWithStates returns a RIC with the given bound states. Index bounds of sides that are not Set are ignored.
// The result is in canonical form.
func NewWithStates(alignment uint64, lo int64, hi int64, offset int64,
	lowerState BoundState, upperState BoundState) (RIC, error) {
	if alignment == 0 {
		return RIC{}, ErrZeroAlignment
	}
	if alignment > math.MaxInt64 {
		return RIC{}, ErrAlignmentTooLarge
	}
	if lowerState == PositiveInfinity || lowerState < Set || lowerState > Unsure {
		return RIC{}, fmt.Errorf("lower bound %v: %w", lowerState, ErrInvalidBoundState)
	}
	if upperState == NegativeInfinity || upperState < Set || upperState > Unsure {
		return RIC{}, fmt.Errorf("upper bound %v: %w", upperState, ErrInvalidBoundState)
	}
	if lowerState == Set && upperState == Set && lo > hi {
		return RIC{}, fmt.Errorf("[%d, %d]: %w", lo, hi, ErrInvertedBounds)
	}
	r := RIC{
		alignment:       alignment,
		offset:          offset,
		indexLowerBound: lo,
		indexUpperBound: hi,
		lowerBoundState: lowerState,
		upperBoundState: upperState,
	}
	return r.canonical(), nil
}

// Must returns r and panics if err is not nil. It is intended for RICs built from constants.
func Must(r RIC, err error) RIC {
	if err != nil {
		panic(err)
	}
	return r
}

// Exact returns the RIC containing only v
func Exact(v int64) RIC {
	return RIC{alignment: 1, offset: v}
}

// Top returns the RIC where both bounds are unsure
func Top() RIC {
	return RIC{alignment: 1, lowerBoundState: Unsure, upperBoundState: Unsure}
}

// Alignment returns the stride of the progression
func (r RIC) Alignment() uint64 {
	if r.alignment == 0 {
		return 1
	}
	return r.alignment
}

// Offset returns the base of the progression
func (r RIC) Offset() int64 { return r.offset }

// IndexLowerBound returns the lower index bound. Only meaningful when LowerBoundState is Set.
func (r RIC) IndexLowerBound() int64 { return r.indexLowerBound }

// IndexUpperBound returns the upper index bound. Only meaningful when UpperBoundState is Set.
func (r RIC) IndexUpperBound() int64 { return r.indexUpperBound }

// LowerBoundState returns the state of the lower bound
func (r RIC) LowerBoundState() BoundState { return r.lowerBoundState }

// UpperBoundState returns the state of the upper bound
func (r RIC) UpperBoundState() BoundState { return r.upperBoundState }

// LowerEndpoint returns the smallest member of r when the lower bound is set
func (r RIC) LowerEndpoint() (int64, BoundState) {
	e := r.form().lo
	return e.value, e.state
}

// UpperEndpoint returns the largest member of r when the upper bound is set
func (r RIC) UpperEndpoint() (int64, BoundState) {
	e := r.form().hi
	return e.value, e.state
}

// IsExact returns the value of r and true if r contains exactly one value
func (r RIC) IsExact() (int64, bool) {
	f := r.form()
	if f.isSingleton() {
		return f.lo.value, true
	}
	return 0, false
}

// IsTop returns true if r contains every integer
func (r RIC) IsTop() bool {
	return r.Alignment() == 1 && r.lowerBoundState != Set && r.upperBoundState != Set
}

// HasUnsureBound returns true if either bound of r is unsure
func (r RIC) HasUnsureBound() bool {
	return r.lowerBoundState == Unsure || r.upperBoundState == Unsure
}

// Equal returns true if r and b have the same canonical representation, i.e. denote the same set.
func (r RIC) Equal(b RIC) bool {
	return r.canonical() == b.canonical()
}

// Contains returns true if v may be a member of r. Open and unsure bounds never reject a value.
func (r RIC) Contains(v int64) bool {
	f := r.form()
	if floorMod(v, f.stride) != floorMod(f.residue, f.stride) {
		return false
	}
	if f.lo.isSet() && v < f.lo.value {
		return false
	}
	if f.hi.isSet() && v > f.hi.value {
		return false
	}
	return true
}

// IsSubsetOf returns true if every member of r is provably a member of b. It returns false whenever b has an
// unsure bound, since an unknown bound cannot be proven to cover anything.
func (r RIC) IsSubsetOf(b RIC) bool {
	if b.HasUnsureBound() {
		return false
	}
	fa, fb := r.form(), b.form()
	if fa.isSingleton() {
		return b.Contains(fa.lo.value)
	}
	// a finer or equal stride fits in a coarser one only if it is a multiple of it, on the same class
	if uint64(fa.stride)%uint64(fb.stride) != 0 ||
		floorMod(fa.residue, fb.stride) != floorMod(fb.residue, fb.stride) {
		return false
	}
	if fb.lo.isSet() && !(fa.lo.isSet() && fa.lo.value >= fb.lo.value) {
		return false
	}
	if fb.hi.isSet() && !(fa.hi.isSet() && fa.hi.value <= fb.hi.value) {
		return false
	}
	return true
}

// Intersect returns the intersection of r and b. It returns false, and r unchanged, if either operand has an
// unsure bound or if the intersection is empty.
func (r RIC) Intersect(b RIC) (RIC, bool) {
	if r.HasUnsureBound() || b.HasUnsureBound() {
		return r, false
	}
	fa, fb := r.form(), b.form()
	if fa.isSingleton() {
		if b.Contains(fa.lo.value) {
			return r.canonical(), true
		}
		return r, false
	}
	if fb.isSingleton() {
		if r.Contains(fb.lo.value) {
			return b.canonical(), true
		}
		return r, false
	}
	residue, stride, ok := solveCongruences(fa.residue, fa.stride, fb.residue, fb.stride)
	if !ok {
		return r, false
	}
	res := form{
		stride:  stride,
		residue: residue,
		lo:      tighterLower(fa.lo, fb.lo),
		hi:      tighterUpper(fa.hi, fb.hi),
	}
	if res.lo.isSet() {
		if res.lo.value, ok = roundUp(res.lo.value, residue, stride); !ok {
			return r, false
		}
	}
	if res.hi.isSet() {
		if res.hi.value, ok = roundDown(res.hi.value, residue, stride); !ok {
			return r, false
		}
	}
	if res.lo.isSet() && res.hi.isSet() && res.lo.value > res.hi.value {
		return r, false
	}
	return res.ric(), true
}

// Union returns the smallest RIC containing both r and b. Union is always defined, so the boolean is always true.
// The stride of the result is the largest stride on which both operands fit, which is the smaller stride when one
// stride divides the other and both share a congruence class. Infinite and unsure bounds propagate.
func (r RIC) Union(b RIC) (RIC, bool) {
	fa, fb := r.form(), b.form()
	res := form{
		residue: fa.residue,
		lo:      moreOpenLower(fa.lo, fb.lo),
		hi:      moreOpenUpper(fa.hi, fb.hi),
	}
	res.stride = fa.join(fb)
	return res.ric(), true
}

// Widen extrapolates r, the value at the previous iteration, with next, the value at the current iteration.
// It returns the widened RIC and true if it differs from r.
// If next is included in r, r is returned. Otherwise, any side where next goes beyond r is relaxed to infinity and
// the stride moves to a common divisor of both strides. Each change either opens a side or replaces the stride by
// one of its proper divisors, so a sequence of widenings stabilizes after a bounded number of steps.
func (r RIC) Widen(next RIC) (RIC, bool) {
	prev := r.canonical()
	if next.IsSubsetOf(prev) {
		return prev, false
	}
	fp, fn := prev.form(), next.form()
	res := form{
		residue: fp.residue,
		lo:      widenLower(fp.lo, fn.lo),
		hi:      widenUpper(fp.hi, fn.hi),
	}
	res.stride = fp.join(fn)
	w := res.ric()
	return w, w != prev
}

func widenLower(prev, next endpoint) endpoint {
	if prev.state == Unsure || next.state == Unsure {
		return endpoint{state: Unsure}
	}
	if !prev.isSet() || !next.isSet() || next.value < prev.value {
		return endpoint{state: NegativeInfinity}
	}
	return prev
}

func widenUpper(prev, next endpoint) endpoint {
	if prev.state == Unsure || next.state == Unsure {
		return endpoint{state: Unsure}
	}
	if !prev.isSet() || !next.isSet() || next.value > prev.value {
		return endpoint{state: PositiveInfinity}
	}
	return prev
}

// Adjust returns r shifted by delta: the offset moves by delta and the index bounds are unchanged. Adjust always
// succeeds. If an endpoint leaves the int64 range, the addition wraps around, so both set endpoints are relaxed to
// infinity and only the congruence modulo the largest power of two dividing the stride is kept.
func (r RIC) Adjust(delta int64) (RIC, bool) {
	f := r.form()
	res := form{stride: f.stride, lo: f.lo, hi: f.hi}
	res.residue = int64((uint64(floorMod(f.residue, f.stride)) + uint64(floorMod(delta, f.stride))) % uint64(f.stride))
	overflow := false
	var ok bool
	if res.lo.isSet() {
		if res.lo.value, ok = addChecked(res.lo.value, delta); !ok {
			overflow = true
		}
	}
	if res.hi.isSet() {
		if res.hi.value, ok = addChecked(res.hi.value, delta); !ok {
			overflow = true
		}
	}
	if overflow {
		if res.lo.isSet() {
			res.lo = endpoint{state: NegativeInfinity}
		}
		if res.hi.isSet() {
			res.hi = endpoint{state: PositiveInfinity}
		}
		// 2^64 is a multiple of any power of two, so wrapping preserves residues modulo the stride's lowest bit
		res.stride &= -res.stride
		res.residue = floorMod(res.residue, res.stride)
	}
	return res.ric(), true
}

// RemoveLowerBounds returns r with its lower bound set to negative infinity
func (r RIC) RemoveLowerBounds() RIC {
	f := r.form()
	f.lo = endpoint{state: NegativeInfinity}
	return f.ric()
}

// RemoveUpperBounds returns r with its upper bound set to positive infinity
func (r RIC) RemoveUpperBounds() RIC {
	f := r.form()
	f.hi = endpoint{state: PositiveInfinity}
	return f.ric()
}

// String returns the RIC in the form [lo, hi]*stride where lo and hi are the endpoint values, -inf, +inf or T.
// Exact values are printed as plain integers.
func (r RIC) String() string {
	f := r.form()
	if f.isSingleton() {
		return strconv.FormatInt(f.lo.value, 10)
	}
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(endpointString(f.lo))
	sb.WriteString(", ")
	sb.WriteString(endpointString(f.hi))
	sb.WriteString("]")
	if f.stride > 1 {
		sb.WriteString("*" + strconv.FormatInt(f.stride, 10))
		if !f.lo.isSet() && !f.hi.isSet() && floorMod(f.residue, f.stride) != 0 {
			sb.WriteString("+" + strconv.FormatInt(floorMod(f.residue, f.stride), 10))
		}
	}
	return sb.String()
}

func endpointString(e endpoint) string {
	if e.isSet() {
		return strconv.FormatInt(e.value, 10)
	}
	return e.state.String()
}

// canonical returns the canonical representation of r
func (r RIC) canonical() RIC {
	return r.form().ric()
}

// form is the endpoint representation of a RIC used by the lattice operations: the set of values congruent to
// residue modulo stride, between lo and hi.
type form struct {
	stride  int64
	residue int64
	lo      endpoint
	hi      endpoint
}

func (r RIC) form() form {
	stride := int64(r.Alignment())
	f := form{
		stride:  stride,
		residue: r.offset,
		lo:      endpoint{state: r.lowerBoundState},
		hi:      endpoint{state: r.upperBoundState},
	}
	var ok bool
	if f.lo.isSet() {
		if f.lo.value, ok = mulAddChecked(r.offset, stride, r.indexLowerBound); !ok {
			f.lo = endpoint{state: NegativeInfinity}
		}
	}
	if f.hi.isSet() {
		if f.hi.value, ok = mulAddChecked(r.offset, stride, r.indexUpperBound); !ok {
			f.hi = endpoint{state: PositiveInfinity}
		}
	}
	if f.isSingleton() {
		f.stride, f.residue = 1, f.lo.value
	}
	return f
}

func (f form) isSingleton() bool {
	return f.lo.isSet() && f.hi.isSet() && f.lo.value == f.hi.value
}

// join returns the stride of the union of f and g. Singletons do not constrain the stride.
func (f form) join(g form) int64 {
	fs, gs := uint64(f.stride), uint64(g.stride)
	fr, gr := f.residue, g.residue
	if f.isSingleton() {
		fs, fr = 0, f.lo.value
	}
	if g.isSingleton() {
		gs, gr = 0, g.lo.value
	}
	s := joinStride(fs, fr, gs, gr)
	if s == 0 {
		return 1
	}
	return int64(s)
}

// ric converts the form back into a canonical RIC. The endpoints must be members of the congruence class.
func (f form) ric() RIC {
	r := RIC{
		alignment:       uint64(f.stride),
		lowerBoundState: f.lo.state,
		upperBoundState: f.hi.state,
	}
	switch {
	case f.isSingleton():
		r.alignment = 1
		r.offset = f.lo.value
	case f.lo.isSet():
		r.offset = f.lo.value
		if f.hi.isSet() {
			n := distance(f.hi.value, f.lo.value) / uint64(f.stride)
			if n > math.MaxInt64 {
				r.upperBoundState = PositiveInfinity
			} else {
				r.indexUpperBound = int64(n)
			}
		}
	case f.hi.isSet():
		r.offset = f.hi.value
	default:
		r.offset = floorMod(f.residue, f.stride)
	}
	return r
}
