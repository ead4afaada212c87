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
	"testing"

	"github.com/awslabs/ar-vsa/analysis/ric"
)

func stackSlots(lo, hi int64) ric.RIC {
	return ric.Must(ric.New(8, 0, (hi-lo)/8, lo))
}

func TestRegionParse(t *testing.T) {
	for _, r := range []Region{Scalar(), Global(), Stack(0), Stack(3), Heap(42)} {
		p, err := ParseRegion(r.String())
		if err != nil {
			t.Fatalf("could not parse %q: %v", r.String(), err)
		}
		if p != r {
			t.Errorf("round trip of %v gave %v", r, p)
		}
	}
	if _, err := ParseRegion("stack(x)"); err == nil {
		t.Errorf("expected an error for an invalid stack id")
	}
	if Stack(1) == Heap(1) {
		t.Errorf("regions of different kinds must not be equal")
	}
}

func TestDefaultAndTop(t *testing.T) {
	d := Default()
	if !d.ContainsValue(Scalar(), 0) || d.ContainsValue(Scalar(), 1) || d.ContainsValue(Stack(0), 0) {
		t.Errorf("default should be the exact scalar 0, got %v", d)
	}
	if d.IsTop() || Top().Equal(d) {
		t.Errorf("top must be distinct from the default value set")
	}
	if !Top().ContainsValue(Stack(0), -8) {
		t.Errorf("top should contain every value of every region")
	}
	var empty ValueSet
	if !empty.IsEmpty() || empty.String() != "{}" {
		t.Errorf("zero value should be empty, got %v", empty)
	}
}

func TestInsertIsPersistent(t *testing.T) {
	a := Constant(8)
	b := a.Insert(Stack(0), stackSlots(-16, 0))
	if a.Len() != 1 || b.Len() != 2 {
		t.Errorf("insert should not modify its receiver: %v %v", a, b)
	}
	c := b.Insert(Scalar(), ric.Exact(16))
	if !c.ContainsValue(Scalar(), 8) || !c.ContainsValue(Scalar(), 16) || c.Len() != 2 {
		t.Errorf("inserting in an existing region should join the RICs, got %v", c)
	}
	if b.ContainsValue(Scalar(), 16) {
		t.Errorf("insert should not modify its receiver, got %v", b)
	}
}

func TestUnionKeepsRegions(t *testing.T) {
	a := Constant(4)
	b := Of(Stack(0), stackSlots(-16, 0))
	u := a.Union(b)
	if u.Len() != 2 || !u.ContainsValue(Scalar(), 4) || !u.ContainsValue(Stack(0), -8) {
		t.Errorf("unexpected union %v", u)
	}
	// no conflation across regions
	if u.ContainsValue(Scalar(), -8) || u.ContainsValue(Stack(0), 4) {
		t.Errorf("union should not mix regions: %v", u)
	}
	if !a.IsSubsetOf(u) || !b.IsSubsetOf(u) {
		t.Errorf("operands should be subsets of the union %v", u)
	}
	if !a.Union(Top()).IsTop() {
		t.Errorf("top should absorb in unions")
	}
}

func TestExactUnionPolicy(t *testing.T) {
	u := Constant(0).Union(Constant(8))
	r, ok := u.Lookup(Scalar())
	if !ok || u.Len() != 1 {
		t.Fatalf("expected a single scalar region, got %v", u)
	}
	if !r.Equal(ric.Must(ric.New(8, 0, 1, 0))) || u.ContainsValue(Scalar(), 4) {
		t.Errorf("the union of two exact values should be the two-element progression, got %v", u)
	}
	// with a stride of 4 already established, 8 extends the progression
	v := Of(Scalar(), ric.Must(ric.New(4, 0, 1, 0))).Union(Constant(8))
	if !v.Equal(Of(Scalar(), ric.Must(ric.New(4, 0, 2, 0)))) {
		t.Errorf("expected {0, 4, 8}, got %v", v)
	}
}

func TestIntersectDropsRegions(t *testing.T) {
	a := Constant(4).Insert(Stack(0), stackSlots(-32, 0))
	b := Of(Stack(0), stackSlots(-16, 16)).Insert(Global(), ric.Exact(0x1000))
	i, ok := a.Intersect(b)
	if !ok {
		t.Fatalf("expected non-empty intersection")
	}
	if i.Len() != 1 || !i.ContainsValue(Stack(0), -16) || i.ContainsValue(Stack(0), -24) {
		t.Errorf("unexpected intersection %v", i)
	}
	if _, ok := Constant(4).Intersect(Of(Global(), ric.Exact(4))); ok {
		t.Errorf("values from different regions should never intersect")
	}
	if _, ok := Constant(4).Intersect(Constant(5)); ok {
		t.Errorf("disjoint values should not intersect")
	}
	if r, ok := Top().Intersect(a); !ok || !r.Equal(a) {
		t.Errorf("top should be neutral for intersection, got %v", r)
	}
	// an unsure side cannot refine the other one
	u, ok := a.Intersect(Of(Stack(0), ric.Top()))
	if !ok || !u.Equal(Of(Stack(0), stackSlots(-32, 0))) {
		t.Errorf("unexpected intersection with unsure bounds %v", u)
	}
}

func TestWiden(t *testing.T) {
	prev := Constant(0).Insert(Stack(0), ric.Exact(-8))
	next := prev.Union(Constant(1)).Union(Of(Heap(1), ric.Exact(0)))
	w, changed := prev.Widen(next)
	if !changed {
		t.Fatalf("widening a larger value set should change it")
	}
	r, _ := w.Lookup(Scalar())
	if r.UpperBoundState() != ric.PositiveInfinity || r.LowerBoundState() != ric.Set {
		t.Errorf("growing scalar should be widened upwards, got %v", r)
	}
	if s, _ := w.Lookup(Stack(0)); !s.Equal(ric.Exact(-8)) {
		t.Errorf("stable region should not be widened, got %v", s)
	}
	if !w.ContainsValue(Heap(1), 0) {
		t.Errorf("new regions should be kept, got %v", w)
	}
	if _, changed := w.Widen(next); changed {
		t.Errorf("widening with an included value set should not change it")
	}
	if w2, changed := w.Widen(Top()); !changed || !w2.IsTop() {
		t.Errorf("widening to top should give top")
	}
}

func TestWidenChainTerminates(t *testing.T) {
	// loop iterates: the scalar counts up by 4, the stack pointer moves down by 8 and a heap
	// allocation appears after a few iterations
	iterate := func(i int64) ValueSet {
		vs := Of(Scalar(), ric.Must(ric.New(4, 0, i, 0))).Insert(Stack(0), stackSlots(-8*i, 0))
		if i >= 3 {
			vs = vs.Insert(Heap(7), ric.Must(ric.New(16, 0, i-3, 0)))
		}
		return vs
	}
	w := iterate(0)
	changes := 0
	for i := int64(1); i <= 50; i++ {
		next, changed := w.Widen(w.Union(iterate(i)))
		if changed {
			changes++
		}
		if !w.IsSubsetOf(next) {
			t.Fatalf("widening should be extensive, %v is not included in %v", w, next)
		}
		w = next
	}
	// each region's bounds can only be relaxed a finite number of times
	if changes > 6 {
		t.Errorf("widening changed the value set %d times, expected the chain to stabilize", changes)
	}
	for i := int64(0); i <= 50; i++ {
		if !iterate(i).IsSubsetOf(w) {
			t.Errorf("iterate %d is not included in the widened value set %v", i, w)
		}
	}
	if w.Len() != 3 {
		t.Errorf("expected scalar, stack and heap regions, got %v", w)
	}
	r, _ := w.Lookup(Scalar())
	if r.UpperBoundState() != ric.PositiveInfinity || !r.Contains(0) || r.Contains(2) {
		t.Errorf("scalar should be widened upwards and keep its stride, got %v", r)
	}
	s, _ := w.Lookup(Stack(0))
	if s.LowerBoundState() != ric.NegativeInfinity || s.UpperBoundState() != ric.Set {
		t.Errorf("stack region should be widened downwards only, got %v", s)
	}
	if _, changed := w.Widen(w.Union(iterate(100))); changed {
		t.Errorf("widened value set should be a post-fixpoint")
	}
}

func TestPointwiseOperations(t *testing.T) {
	vs := Constant(8).Insert(Stack(0), stackSlots(-16, 0))
	adj := vs.Adjust(4)
	if !adj.ContainsValue(Scalar(), 12) || !adj.ContainsValue(Stack(0), -12) || adj.ContainsValue(Stack(0), -16) {
		t.Errorf("unexpected adjusted value set %v", adj)
	}
	if !vs.Adjust(0).Equal(vs) {
		t.Errorf("adjusting by 0 should be the identity")
	}
	lo := vs.RemoveLowerBounds()
	if !lo.ContainsValue(Stack(0), -1024) || lo.ContainsValue(Scalar(), 16) || !lo.ContainsValue(Scalar(), -8) {
		t.Errorf("unexpected value set without lower bounds %v", lo)
	}
	hi := vs.RemoveUpperBounds()
	if !hi.ContainsValue(Stack(0), 1024) || hi.ContainsValue(Scalar(), 0) {
		t.Errorf("unexpected value set without upper bounds %v", hi)
	}
	if !Top().Adjust(4).IsTop() || !Top().RemoveLowerBounds().IsTop() {
		t.Errorf("pointwise operations should preserve top")
	}
}

func TestString(t *testing.T) {
	vs := Constant(12).Insert(Stack(0), stackSlots(-16, 0))
	if s := vs.String(); s != "{scalar: 12, stack(0): [-16, 0]*8}" {
		t.Errorf("unexpected string %q", s)
	}
	if Top().String() != "T" {
		t.Errorf("unexpected string for top")
	}
}
