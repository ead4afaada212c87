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
	"math"
	"math/big"
)

// floorMod returns v mod m in [0, m). m must be positive.
func floorMod(v int64, m int64) int64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// distance returns |a - b| without overflowing
func distance(a, b int64) uint64 {
	if a > b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// addChecked returns a+b and false if the addition overflows
func addChecked(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

// mulAddChecked returns offset + stride*index and false if the result does not fit in an int64
func mulAddChecked(offset int64, stride int64, index int64) (int64, bool) {
	if index == 0 {
		return offset, true
	}
	r := new(big.Int).Mul(big.NewInt(stride), big.NewInt(index))
	r.Add(r, big.NewInt(offset))
	if !r.IsInt64() {
		return 0, false
	}
	return r.Int64(), true
}

// roundUp returns the smallest x >= v such that x = residue mod stride, and false if x does not fit in an int64
func roundUp(v int64, residue int64, stride int64) (int64, bool) {
	d := floorMod(floorMod(residue, stride)-floorMod(v, stride), stride)
	return addChecked(v, d)
}

// roundDown returns the largest x <= v such that x = residue mod stride, and false if x does not fit in an int64
func roundDown(v int64, residue int64, stride int64) (int64, bool) {
	d := floorMod(floorMod(v, stride)-floorMod(residue, stride), stride)
	return addChecked(v, -d)
}

// solveCongruences returns the congruence class x = r mod m satisfying both x = r1 mod m1 and x = r2 mod m2
// (Chinese remainder theorem). It returns false if the two classes are disjoint. If the combined modulus does not
// fit in an int64, the class of the operand with the larger modulus is returned instead, which still contains
// every common member.
func solveCongruences(r1, m1, r2, m2 int64) (int64, int64, bool) {
	g := int64(gcd(uint64(m1), uint64(m2)))
	if floorMod(r1, g) != floorMod(r2, g) {
		return 0, 0, false
	}
	bm1, bm2 := big.NewInt(m1), big.NewInt(m2)
	bg := big.NewInt(g)
	lcm := new(big.Int).Mul(new(big.Int).Quo(bm1, bg), bm2)
	if !lcm.IsInt64() {
		if m1 >= m2 {
			return floorMod(r1, m1), m1, true
		}
		return floorMod(r2, m2), m2, true
	}
	// x = r1 + m1 * t where t = ((r2 - r1) / g) * inverse(m1 / g) mod (m2 / g)
	n := new(big.Int).Quo(bm2, bg)
	diff := new(big.Int).Sub(big.NewInt(r2), big.NewInt(r1))
	diff.Quo(diff, bg)
	t := big.NewInt(0)
	if n.Cmp(big.NewInt(1)) != 0 {
		inv := new(big.Int).ModInverse(new(big.Int).Quo(bm1, bg), n)
		t.Mul(diff, inv)
		t.Mod(t, n)
	}
	x := new(big.Int).Mul(bm1, t)
	x.Add(x, big.NewInt(r1))
	x.Mod(x, lcm)
	return x.Int64(), lcm.Int64(), true
}

// joinStride returns the largest stride s such that both progressions fit in one congruence class modulo s.
// A stride of zero denotes a single value. The result is zero only when both operands are the same single value.
func joinStride(s1 uint64, r1 int64, s2 uint64, r2 int64) uint64 {
	g := gcd(gcd(s1, s2), distance(r1, r2))
	if g > math.MaxInt64 {
		return 1
	}
	return g
}
