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
	"errors"
	"fmt"
	"sort"

	"github.com/awslabs/ar-vsa/analysis/config"
	"github.com/awslabs/ar-vsa/internal/funcutil"
	"github.com/awslabs/ar-vsa/internal/graphutil"
	"golang.org/x/tools/container/intsets"
)

// ErrIterationLimit is returned by Solve when the fixpoint is not reached within the max-iterations option
var ErrIterationLimit = errors.New("iteration limit reached")

// Result holds the states computed by Solve for every block reachable from the entry
type Result struct {
	// Function is the function that was solved
	Function *Function

	// Iterations is the number of blocks processed before reaching the fixpoint
	Iterations int

	// WideningPoints are the ids of the blocks where states are widened, in increasing order
	WideningPoints []int

	// Irreducible is true if the function has a cycle with more than one entry
	Irreducible bool

	entry map[int]*State
	exit  map[int]*State
}

// Entry returns the state at the start of block id, and false if the block is not reachable
func (r *Result) Entry(id int) (*State, bool) {
	s, ok := r.entry[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Exit returns the state at the end of block id, and false if the block is not reachable
func (r *Result) Exit(id int) (*State, bool) {
	s, ok := r.exit[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Blocks returns the ids of the reachable blocks in increasing order
func (r *Result) Blocks() []int {
	return funcutil.SortedKeys(r.exit)
}

// solver holds the per-block states of one run of Solve. Blocks are identified by their position in the function.
type solver struct {
	a        *Analysis
	fn       *Function
	cfg      *graphutil.CFG
	root     int
	initial  *State
	loops    *graphutil.Loops
	entry    []*State
	exit     []*State
	visits   []int
	worklist []int
	onList   intsets.Sparse
}

// Solve computes the states at the entry and exit of every block of fn. The state at the entry of the function is
// the current state of the analysis, which is not modified.
//
// This is the convergence loop of a monotone framework: the blocks are processed in reverse postorder, and
// when the exit state of a block changes its successors are added to the worklist. At merge points, the states of
// the predecessors are joined. At loop headers (destinations of back edges and retreating edges), the new state is
// widened with the previous one, after widening-delay joins. Widening ensures termination; max-iterations bounds the
// number of blocks processed and ErrIterationLimit is returned when it is reached.
func (a *Analysis) Solve(fn *Function) (*Result, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	cfg, root := fn.Graph()
	s := &solver{
		a:       a,
		fn:      fn,
		cfg:     cfg,
		root:    root,
		initial: a.state.Clone(),
		entry:   make([]*State, len(fn.Blocks)),
		exit:    make([]*State, len(fn.Blocks)),
		visits:  make([]int, len(fn.Blocks)),
	}
	s.loops = graphutil.FindLoops(s.cfg, s.root)

	res := &Result{
		Function:    fn,
		Irreducible: s.loops.Irreducible(),
		entry:       map[int]*State{},
		exit:        map[int]*State{},
	}
	for _, h := range s.loops.Headers.AppendTo(nil) {
		res.WideningPoints = append(res.WideningPoints, fn.Blocks[h].ID)
	}
	sort.Ints(res.WideningPoints)
	if a.logger.LogsDebug() {
		a.logger.Debugf("%s: %d blocks, %d loops, widening points %v\n",
			fn.Name, len(fn.Blocks), len(s.loops.Components), res.WideningPoints)
		if res.Irreducible {
			a.logger.Debugf("%s: irreducible control flow\n", fn.Name)
		}
	}

	maxIterations := a.config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = config.DefaultMaxIterations
	}
	for _, i := range s.loops.ReversePostorder {
		s.push(i)
	}
	for len(s.worklist) > 0 {
		i := s.worklist[0]
		s.worklist = s.worklist[1:]
		s.onList.Remove(i)
		if res.Iterations >= maxIterations {
			a.logger.Errorf("%s: no fixpoint after %d iterations\n", fn.Name, res.Iterations)
			return nil, fmt.Errorf("%w: function %s, %d blocks processed", ErrIterationLimit, fn.Name,
				res.Iterations)
		}
		changed, err := s.processBlock(i)
		if err != nil {
			return nil, err
		}
		res.Iterations++
		if changed {
			for _, succ := range s.cfg.Successors(i) {
				s.push(succ)
			}
		}
	}

	for i, b := range fn.Blocks {
		if s.exit[i] != nil {
			res.entry[b.ID] = s.entry[i]
			res.exit[b.ID] = s.exit[i]
		}
	}
	a.logger.Debugf("%s: fixpoint reached after %d iterations\n", fn.Name, res.Iterations)
	return res, nil
}

// push adds block i to the worklist, if it is not already present
func (s *solver) push(i int) {
	if s.onList.Insert(i) {
		s.worklist = append(s.worklist, i)
	}
}

// input returns the join of the exit states of the predecessors of block i that have been processed, and false if
// there is none. The entry block also receives the initial state.
func (s *solver) input(i int) (*State, bool) {
	var in *State
	if i == s.root {
		in = s.initial.Clone()
	}
	for _, pred := range s.cfg.Predecessors(i) {
		if out := s.exit[pred]; out != nil {
			if in == nil {
				in = out.Clone()
			} else {
				in = in.Join(out)
			}
		}
	}
	return in, in != nil
}

// processBlock recomputes the entry and exit states of block i, and returns true if the exit state changed
func (s *solver) processBlock(i int) (bool, error) {
	in, ok := s.input(i)
	if !ok {
		return false, nil
	}
	if prev := s.entry[i]; prev != nil && s.loops.Headers.Has(i) {
		s.visits[i]++
		if s.visits[i] > s.a.config.WideningDelay {
			var widened bool
			in, widened = prev.Widen(in)
			if widened {
				s.a.logger.Tracef("%s: widened block %d\n", s.fn.Name, s.fn.Blocks[i].ID)
			}
		} else {
			in = prev.Join(in)
		}
	}
	if s.entry[i] != nil && s.exit[i] != nil && s.entry[i].Equal(in) {
		return false, nil
	}
	s.entry[i] = in
	out := in.Clone()
	for _, e := range s.fn.Blocks[i].Effects {
		if err := s.a.apply(out, e); err != nil {
			return false, err
		}
	}
	if prev := s.exit[i]; prev != nil && prev.Equal(out) {
		return false, nil
	}
	s.exit[i] = out
	return true, nil
}
