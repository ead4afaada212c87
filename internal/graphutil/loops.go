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

package graphutil

import (
	"sort"

	"github.com/awslabs/ar-vsa/internal/funcutil"
	"github.com/yourbasic/graph"
	"golang.org/x/tools/container/intsets"
	"gonum.org/v1/gonum/graph/flow"
	"gonum.org/v1/gonum/graph/simple"
)

// Edge is a directed edge of a CFG
type Edge struct {
	From int
	To   int
}

// Loops describes the cyclic structure of the part of a CFG reachable from its root
type Loops struct {
	// ReversePostorder lists the reachable nodes in reverse postorder of a depth-first traversal from the root
	ReversePostorder []int

	// BackEdges are the edges whose destination dominates their origin. Self-loops are back edges.
	BackEdges []Edge

	// Retreating are the edges to a node that is on the depth-first stack. Every cycle contains one. A retreating
	// edge that is not a back edge indicates an irreducible cycle.
	Retreating []Edge

	// Components are the reachable strongly connected components that contain a cycle
	Components [][]int

	// Headers are the destinations of back edges and retreating edges. Every cycle goes through a header.
	Headers *intsets.Sparse

	// SelfLoops is the number of nodes with an edge to themselves
	SelfLoops int
}

// Irreducible returns true if some cycle has more than one entry
func (l *Loops) Irreducible() bool {
	return len(l.Retreating) > len(l.BackEdges)
}

// FindLoops computes the loop structure of g from root. Dominators are computed with Gonum's Lengauer-Tarjan
// implementation, strongly connected components with yourbasic/graph.
func FindLoops(g *CFG, root int) *Loops {
	loops := &Loops{Headers: &intsets.Sparse{}}
	reachable := &intsets.Sparse{}
	loops.ReversePostorder, loops.Retreating = depthFirst(g, root, reachable)

	dt := flow.Dominators(simple.Node(root), g)
	for _, u := range loops.ReversePostorder {
		for _, v := range g.Successors(u) {
			if dominates(dt, v, u) {
				loops.BackEdges = append(loops.BackEdges, Edge{From: u, To: v})
			}
		}
	}
	for _, e := range loops.BackEdges {
		loops.Headers.Insert(e.To)
	}
	for _, e := range loops.Retreating {
		loops.Headers.Insert(e.To)
	}

	for _, component := range graph.StrongComponents(g) {
		if !reachable.Has(component[0]) {
			continue
		}
		if len(component) > 1 || g.HasEdgeFromTo(int64(component[0]), int64(component[0])) {
			sort.Ints(component)
			loops.Components = append(loops.Components, component)
		}
	}
	sort.Slice(loops.Components, func(i, j int) bool { return loops.Components[i][0] < loops.Components[j][0] })
	loops.SelfLoops = graph.Check(g).Loops
	return loops
}

// depthFirst returns the nodes reachable from root in reverse postorder, and the retreating edges of the traversal.
// The reachable nodes are added to the reachable set.
func depthFirst(g *CFG, root int, reachable *intsets.Sparse) ([]int, []Edge) {
	var postorder []int
	var retreating []Edge
	onStack := &intsets.Sparse{}

	var visit func(v int)
	visit = func(v int) {
		reachable.Insert(v)
		onStack.Insert(v)
		for _, w := range g.Successors(v) {
			if onStack.Has(w) {
				retreating = append(retreating, Edge{From: v, To: w})
			} else if !reachable.Has(w) {
				visit(w)
			}
		}
		onStack.Remove(v)
		postorder = append(postorder, v)
	}
	if root >= 0 && root < g.Order() {
		visit(root)
	}
	funcutil.Reverse(postorder)
	return postorder, retreating
}

// dominates returns true if a dominates b in the dominator tree dt. Every node dominates itself.
func dominates(dt flow.DominatorTree, a int, b int) bool {
	for n := int64(b); ; {
		if n == int64(a) {
			return true
		}
		d := dt.DominatorOf(n)
		if d == nil {
			return false
		}
		n = d.ID()
	}
}
