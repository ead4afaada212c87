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
	"github.com/awslabs/ar-vsa/internal/funcutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
)

// CFG is a control-flow graph over the dense node ids 0..n-1. It implements the methods to satisfy graph.Iterator
// of yourbasic/graph and Gonum's graph.Directed, so both libraries can run on the same representation.
//
// Unlike Gonum's simple graphs, a CFG may contain self-loops.
type CFG struct {
	// succs[x] lists the successors of x in insertion order, without duplicates
	succs [][]int64
	// preds[y] lists the predecessors of y in insertion order, without duplicates
	preds [][]int64
}

// NewCFG returns a graph with n nodes and no edges
func NewCFG(n int) *CFG {
	return &CFG{
		succs: make([][]int64, n),
		preds: make([][]int64, n),
	}
}

// AddEdge adds the edge from -> to. Adding an edge that already exists has no effect.
// Panics if one of the nodes is not in the graph.
func (c *CFG) AddEdge(from, to int) {
	if from < 0 || from >= len(c.succs) || to < 0 || to >= len(c.succs) {
		panic("graphutil: edge endpoint out of range")
	}
	if funcutil.Contains(c.succs[from], int64(to)) {
		return
	}
	c.succs[from] = append(c.succs[from], int64(to))
	c.preds[to] = append(c.preds[to], int64(from))
}

// Successors returns the successors of v
func (c *CFG) Successors(v int) []int {
	return funcutil.Map(c.succs[v], func(w int64) int { return int(w) })
}

// Predecessors returns the predecessors of v
func (c *CFG) Predecessors(v int) []int {
	return funcutil.Map(c.preds[v], func(w int64) int { return int(w) })
}

// Order implements the order of the graph.Iterator interface for the CFG
func (c *CFG) Order() int {
	return len(c.succs)
}

// Visit implements the graph.Iterator interface for the CFG
func (c *CFG) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(c.succs) {
		return false
	}
	for _, w := range c.succs[v] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

func (c *CFG) has(id int64) bool {
	return id >= 0 && id < int64(len(c.succs))
}

// Node implements the Graph interface
func (c *CFG) Node(id int64) graph.Node {
	if !c.has(id) {
		return nil
	}
	return simple.Node(id)
}

// Nodes returns the set of nodes in the graph, in increasing id order
func (c *CFG) Nodes() graph.Nodes {
	nodes := make([]graph.Node, len(c.succs))
	for i := range c.succs {
		nodes[i] = simple.Node(i)
	}
	return iterator.NewOrderedNodes(nodes)
}

// From returns the successors of the node id
func (c *CFG) From(id int64) graph.Nodes {
	if !c.has(id) {
		return graph.Empty
	}
	return toNodes(c.succs[id])
}

// To returns the predecessors of the node id
func (c *CFG) To(id int64) graph.Nodes {
	if !c.has(id) {
		return graph.Empty
	}
	return toNodes(c.preds[id])
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c *CFG) HasEdgeBetween(xid, yid int64) bool {
	return c.HasEdgeFromTo(xid, yid) || c.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo returns a boolean indicating whether there is an edge from uid to vid
func (c *CFG) HasEdgeFromTo(uid, vid int64) bool {
	return c.has(uid) && funcutil.Contains(c.succs[uid], vid)
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c *CFG) Edge(uid, vid int64) graph.Edge {
	if !c.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}

func toNodes(ids []int64) graph.Nodes {
	nodes := funcutil.Map(ids, func(id int64) graph.Node { return simple.Node(id) })
	return iterator.NewOrderedNodes(nodes)
}
