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
	"math"
	"math/rand"
	"testing"
)

const window = 200

func randomRIC(rng *rand.Rand, allowUnsure bool) RIC {
	pick := func(open BoundState) BoundState {
		x := rng.Intn(10)
		switch {
		case x < 7:
			return Set
		case x < 9 || !allowUnsure:
			return open
		default:
			return Unsure
		}
	}
	lo := int64(rng.Intn(11) - 5)
	hi := lo + int64(rng.Intn(6))
	return Must(NewWithStates(uint64(rng.Intn(6)+1), lo, hi, int64(rng.Intn(41)-20),
		pick(NegativeInfinity), pick(PositiveInfinity)))
}

func members(r RIC) map[int64]bool {
	m := map[int64]bool{}
	for v := int64(-window); v <= window; v++ {
		if r.Contains(v) {
			m[v] = true
		}
	}
	return m
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		align  uint64
		lo, hi int64
		ls, us BoundState
		want   error
	}{
		{name: "zero alignment", align: 0, ls: Set, us: Set, want: ErrZeroAlignment},
		{name: "huge alignment", align: math.MaxInt64 + 1, ls: Set, us: Set, want: ErrAlignmentTooLarge},
		{name: "inverted", align: 1, lo: 3, hi: 2, ls: Set, us: Set, want: ErrInvertedBounds},
		{name: "lower +inf", align: 1, ls: PositiveInfinity, us: Set, want: ErrInvalidBoundState},
		{name: "upper -inf", align: 1, ls: Set, us: NegativeInfinity, want: ErrInvalidBoundState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithStates(tt.align, tt.lo, tt.hi, 0, tt.ls, tt.us)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	// An inverted range is fine if one side is not set
	if _, err := NewWithStates(1, 3, 2, 0, Set, PositiveInfinity); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestZeroValueIsExactZero(t *testing.T) {
	var r RIC
	if !r.Equal(Exact(0)) {
		t.Errorf("zero value should be exact 0, got %v", r)
	}
	if v, ok := r.IsExact(); !ok || v != 0 {
		t.Errorf("zero value should be exact 0, got %v", r)
	}
	if r.Alignment() != 1 {
		t.Errorf("zero value alignment should be 1, got %d", r.Alignment())
	}
}

func TestExactContains(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 8, 4096, math.MinInt64 + 1, math.MaxInt64 - 1} {
		r := Exact(v)
		if !r.Contains(v) {
			t.Errorf("Exact(%d) should contain %d", v, v)
		}
		if r.Contains(v + 1) {
			t.Errorf("Exact(%d) should not contain %d", v, v+1)
		}
	}
}

func TestContains(t *testing.T) {
	r := Must(New(4, 0, 2, 8)) // {8, 12, 16}
	for v, want := range map[int64]bool{4: false, 8: true, 10: false, 12: true, 16: true, 20: false} {
		if got := r.Contains(v); got != want {
			t.Errorf("%v.Contains(%d) = %v, want %v", r, v, got, want)
		}
	}
	open := Must(NewWithStates(4, 0, 2, 8, NegativeInfinity, Set)) // {..., 0, 4, 8, 12, 16}
	if !open.Contains(-400) || open.Contains(20) || open.Contains(-3) {
		t.Errorf("unexpected membership in %v", open)
	}
	if !Top().Contains(12345) {
		t.Errorf("top should contain everything")
	}
}

func TestCanonicalForm(t *testing.T) {
	a := Must(New(4, 2, 5, 0))  // {8, 12, 16, 20}
	b := Must(New(4, 0, 3, 8))  // same set
	c := Must(New(4, -1, 2, 12)) // same set
	if !a.Equal(b) || !b.Equal(c) {
		t.Errorf("expected equal RICs: %v %v %v", a, b, c)
	}
	if a.Offset() != 8 || a.IndexLowerBound() != 0 || a.IndexUpperBound() != 3 {
		t.Errorf("unexpected canonical form %+v", a)
	}
	single := Must(New(16, 3, 3, 0))
	if single.Alignment() != 1 || single.Offset() != 48 {
		t.Errorf("singletons should have alignment 1, got %+v", single)
	}
	if s := a.String(); s != "[8, 20]*4" {
		t.Errorf("unexpected string %q", s)
	}
}

func TestIsSubsetOf(t *testing.T) {
	tests := []struct {
		name string
		a, b RIC
		want bool
	}{
		{"exact in range", Exact(12), Must(New(4, 0, 4, 0)), true},
		{"exact off stride", Exact(13), Must(New(4, 0, 4, 0)), false},
		{"coarser stride fits", Must(New(8, 0, 2, 0)), Must(New(4, 0, 4, 0)), true},
		{"finer stride does not fit", Must(New(4, 0, 4, 0)), Must(New(8, 0, 2, 0)), false},
		{"congruence mismatch", Must(New(8, 0, 2, 2)), Must(New(4, 0, 4, 0)), false},
		{"out of range", Must(New(4, 0, 5, 0)), Must(New(4, 0, 4, 0)), false},
		{"open a in set b", Must(NewWithStates(4, 0, 4, 0, NegativeInfinity, Set)), Must(New(4, 0, 4, 0)), false},
		{"set a in open b", Must(New(4, 0, 4, 0)), Must(NewWithStates(4, 0, 0, 0, NegativeInfinity, PositiveInfinity)), true},
		{"unsure b", Exact(0), Top(), false},
		{"unsure a in open b", Must(NewWithStates(2, 0, 0, 0, Unsure, Set)), Must(NewWithStates(1, 0, 0, 0, NegativeInfinity, PositiveInfinity)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsSubsetOf(tt.b); got != tt.want {
				t.Errorf("%v.IsSubsetOf(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSubsetRoundTrip(t *testing.T) {
	pairs := [][2]RIC{
		{Must(New(4, 2, 5, 0)), Must(New(4, 0, 3, 8))},
		{Must(NewWithStates(3, 0, 9, 1, NegativeInfinity, Set)), Must(NewWithStates(3, 0, 0, 28, NegativeInfinity, Set))},
		{Must(NewWithStates(5, 0, 0, 2, NegativeInfinity, PositiveInfinity)), Must(NewWithStates(5, 0, 0, -3, NegativeInfinity, PositiveInfinity))},
	}
	for _, p := range pairs {
		if !p[0].IsSubsetOf(p[1]) || !p[1].IsSubsetOf(p[0]) {
			t.Errorf("%v and %v should be subsets of each other", p[0], p[1])
		}
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		a, b := randomRIC(rng, true), randomRIC(rng, true)
		if a.IsSubsetOf(b) {
			for v := range members(a) {
				if !b.Contains(v) {
					t.Fatalf("%v is a subset of %v but %d is only in the first", a, b, v)
				}
			}
			if b.IsSubsetOf(a) && !a.Equal(b) {
				t.Fatalf("%v and %v are mutual subsets but not equal", a, b)
			}
		}
	}
}

func TestIntersect(t *testing.T) {
	a := Must(New(4, 0, 10, 0)) // {0, 4, ..., 40}
	b := Must(New(1, 0, 3, 41)) // {41, ..., 44}
	if r, ok := a.Intersect(b); ok {
		t.Errorf("expected empty intersection, got %v", r)
	} else if r != a {
		t.Errorf("failed intersection should return the receiver unchanged, got %v", r)
	}

	c := Must(New(2, 0, 20, 0)) // even numbers in [0, 40]
	d := Must(New(3, 0, 20, 0)) // multiples of 3 in [0, 60]
	r, ok := c.Intersect(d)
	if !ok || !r.Equal(Must(New(6, 0, 6, 0))) {
		t.Errorf("expected multiples of 6 in [0, 36], got %v (%v)", r, ok)
	}

	if _, ok := Must(New(4, 0, 10, 0)).Intersect(Must(New(4, 0, 10, 1))); ok {
		t.Errorf("disjoint congruence classes should not intersect")
	}
	if _, ok := a.Intersect(Top()); ok {
		t.Errorf("intersection with an unsure bound should fail")
	}
	if r, ok := a.Intersect(Exact(8)); !ok || !r.Equal(Exact(8)) {
		t.Errorf("expected exact 8, got %v", r)
	}
}

func TestIntersectRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		a, b := randomRIC(rng, false), randomRIC(rng, false)
		r, ok := a.Intersect(b)
		common := 0
		for v := int64(-window); v <= window; v++ {
			both := a.Contains(v) && b.Contains(v)
			if both {
				common++
			}
			if ok && both != r.Contains(v) {
				t.Fatalf("%v ∩ %v = %v disagrees on %d", a, b, r, v)
			}
		}
		if ok != (common > 0) {
			t.Fatalf("%v ∩ %v: ok = %v but %d common members", a, b, ok, common)
		}
	}
}

func TestUnion(t *testing.T) {
	u, ok := Exact(0).Union(Exact(8))
	if !ok {
		t.Fatalf("union should always succeed")
	}
	// The union of two exact values is the two-element progression
	if !u.Equal(Must(New(8, 0, 1, 0))) || u.Contains(4) {
		t.Errorf("expected {0, 8}, got %v", u)
	}
	w, _ := Must(New(4, 0, 1, 0)).Union(Exact(8))
	if !w.Equal(Must(New(4, 0, 2, 0))) {
		t.Errorf("expected {0, 4, 8}, got %v", w)
	}
	x, _ := Must(New(4, 0, 2, 0)).Union(Must(New(6, 0, 1, 2)))
	// strides 4 and 6 with offsets 0 and 2 share the class of even numbers
	if x.Alignment() != 2 || !x.Contains(2) || !x.Contains(8) || x.Contains(10) {
		t.Errorf("unexpected union %v", x)
	}
	y, _ := Exact(3).Union(Must(NewWithStates(1, 0, 0, 0, Unsure, Set)))
	if y.LowerBoundState() != Unsure {
		t.Errorf("unsure bound should propagate, got %v", y)
	}
}

func TestUnionLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		a, b := randomRIC(rng, false), randomRIC(rng, false)
		ab, _ := a.Union(b)
		ba, _ := b.Union(a)
		if !ab.Equal(ba) {
			t.Fatalf("union not commutative: %v ∪ %v = %v but %v", a, b, ab, ba)
		}
		aa, _ := a.Union(a)
		if !aa.Equal(a) {
			t.Fatalf("%v ∪ itself = %v", a, aa)
		}
		if !a.IsSubsetOf(ab) || !b.IsSubsetOf(ab) {
			t.Fatalf("%v and %v should be subsets of %v", a, b, ab)
		}
	}
	for i := 0; i < 2000; i++ {
		a, b := randomRIC(rng, true), randomRIC(rng, true)
		ab, _ := a.Union(b)
		for v := int64(-window); v <= window; v++ {
			if (a.Contains(v) || b.Contains(v)) && !ab.Contains(v) {
				t.Fatalf("%v ∪ %v = %v misses %d", a, b, ab, v)
			}
		}
	}
}

func TestAdjust(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		r := randomRIC(rng, true)
		same, ok := r.Adjust(0)
		if !ok || !same.Equal(r) {
			t.Fatalf("Adjust(0) of %v gave %v", r, same)
		}
		d1, d2 := int64(rng.Intn(100)-50), int64(rng.Intn(100)-50)
		x, _ := r.Adjust(d1)
		y, _ := x.Adjust(d2)
		z, _ := r.Adjust(d1 + d2)
		if !y.Equal(z) {
			t.Fatalf("adjusting %v by %d then %d gave %v, by %d gave %v", r, d1, d2, y, d1+d2, z)
		}
	}
	r, _ := Must(New(4, 0, 2, 0)).Adjust(12)
	if !r.Equal(Must(New(4, 0, 2, 12))) {
		t.Errorf("unexpected adjusted RIC %v", r)
	}
	top, _ := Must(New(1, 0, 0, math.MaxInt64)).Adjust(1)
	if top.UpperBoundState() != PositiveInfinity || top.LowerBoundState() != NegativeInfinity {
		t.Errorf("overflowing endpoints should be relaxed, got %v", top)
	}
}

// Machine addition wraps, so values that overflow reappear at the other end of the int64 range
func TestAdjustOverflowWraps(t *testing.T) {
	tests := []struct {
		name   string
		r      RIC
		delta  int64
		stride uint64
	}{
		{"lower underflow", Must(New(1, 0, 5, math.MinInt64+5)), -10, 1},
		{"upper overflow", Must(New(4, 0, 2, math.MaxInt64-11)), 8, 4},
		{"non power of two stride", Must(New(6, 0, 3, math.MinInt64+2)), -12, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			adjusted, ok := test.r.Adjust(test.delta)
			if !ok {
				t.Fatalf("Adjust should always succeed")
			}
			if adjusted.LowerBoundState() != NegativeInfinity || adjusted.UpperBoundState() != PositiveInfinity {
				t.Errorf("both endpoints should be relaxed, got %v", adjusted)
			}
			if adjusted.Alignment() != test.stride {
				t.Errorf("expected stride %d, got %v", test.stride, adjusted)
			}
			lo, _ := test.r.LowerEndpoint()
			hi, _ := test.r.UpperEndpoint()
			for v := lo; ; v += int64(test.r.Alignment()) {
				if wrapped := v + test.delta; !adjusted.Contains(wrapped) {
					t.Errorf("%v adjusted by %d is %v, which misses %d", test.r, test.delta, adjusted, wrapped)
				}
				if v >= hi {
					break
				}
			}
		})
	}
}

func TestRemoveBounds(t *testing.T) {
	r := Must(New(4, 0, 2, 8))
	lo := r.RemoveLowerBounds()
	if lo.LowerBoundState() != NegativeInfinity || !lo.Contains(-8) || lo.Contains(20) {
		t.Errorf("unexpected %v", lo)
	}
	hi := r.RemoveUpperBounds()
	if hi.UpperBoundState() != PositiveInfinity || !hi.Contains(400) || hi.Contains(4) {
		t.Errorf("unexpected %v", hi)
	}
	both := lo.RemoveUpperBounds()
	if both.Contains(9) || !both.Contains(-4) || both.String() != "[-inf, +inf]*4" {
		t.Errorf("unexpected %v", both)
	}
}

// A counter incremented by 4 in a loop: the header value stabilizes on an open progression of stride 4.
func TestWidenCountingLoop(t *testing.T) {
	entry := Exact(0)
	header := entry
	var iterates []RIC
	converged := false
	for i := 0; i < 10; i++ {
		body, _ := header.Adjust(4)
		iterates = append(iterates, body)
		joined, _ := entry.Union(body)
		next, changed := header.Widen(joined)
		if !changed {
			converged = true
			break
		}
		header = next
	}
	if !converged {
		t.Fatalf("widening did not converge, last value %v", header)
	}
	if header.String() != "[0, +inf]*4" {
		t.Errorf("unexpected fixed point %v", header)
	}
	for _, it := range iterates {
		if !it.IsSubsetOf(header) {
			t.Errorf("iterate %v is not included in fixed point %v", it, header)
		}
	}
}

func TestWidenBoundedChain(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		s := randomRIC(rng, true)
		w := s
		changes := 0
		for k := 0; k < 30; k++ {
			s, _ = s.Union(randomRIC(rng, true))
			next, changed := w.Widen(s)
			if changed {
				changes++
			}
			for v := int64(-window); v <= window; v++ {
				if (w.Contains(v) || s.Contains(v)) && !next.Contains(v) {
					t.Fatalf("widen(%v, %v) = %v misses %d", w, s, next, v)
				}
			}
			w = next
		}
		// one step to leave a singleton, at most log2(256) stride reductions, two steps per side
		if changes > 13 {
			t.Fatalf("widening changed %d times, last value %v", changes, w)
		}
	}
}
