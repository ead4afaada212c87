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

	"github.com/awslabs/ar-vsa/analysis/aloc"
	"github.com/awslabs/ar-vsa/analysis/valueset"
	"github.com/awslabs/ar-vsa/internal/graphutil"
	"gopkg.in/yaml.v3"
)

// EffectKind classifies the effect of an instruction on the abstract locations
type EffectKind string

const (
	// MoveEffect copies the value set of Src into Dest
	MoveEffect EffectKind = "move"
	// ConstEffect sets Dest to the scalar Value
	ConstEffect EffectKind = "const"
	// AddEffect adds the constant Value to Dest
	AddEffect EffectKind = "add"
	// DropLowerEffect removes the lower bounds of Dest
	DropLowerEffect EffectKind = "drop-lower"
	// DropUpperEffect removes the upper bounds of Dest
	DropUpperEffect EffectKind = "drop-upper"
	// PointerEffect sets Dest to the address Value in Region
	PointerEffect EffectKind = "pointer"
	// ForgetEffect sets Dest to the unknown value set
	ForgetEffect EffectKind = "forget"
	// NoEffect does not change any location
	NoEffect EffectKind = "none"
)

// ErrInvalidFunction is returned when a function description is malformed
var ErrInvalidFunction = errors.New("invalid function")

// Effect is the classified effect of one lifted instruction
type Effect struct {
	Kind   EffectKind
	Dest   aloc.ALoc
	Src    aloc.ALoc
	Value  int64
	Region valueset.Region
}

func (e Effect) format(names aloc.RegisterNames) string {
	switch e.Kind {
	case MoveEffect:
		return fmt.Sprintf("%s = %s", e.Dest.Format(names), e.Src.Format(names))
	case ConstEffect:
		return fmt.Sprintf("%s = %d", e.Dest.Format(names), e.Value)
	case AddEffect:
		return fmt.Sprintf("%s += %d", e.Dest.Format(names), e.Value)
	case PointerEffect:
		return fmt.Sprintf("%s = &%s[%d]", e.Dest.Format(names), e.Region, e.Value)
	case NoEffect:
		return string(NoEffect)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Dest.Format(names))
	}
}

// Block is a basic block of a lifted function
type Block struct {
	ID      int
	Succs   []int
	Effects []Effect
}

// Function is the control-flow graph of a lifted function, with the classified effects of its instructions
type Function struct {
	Name   string
	Entry  int
	Blocks []*Block

	// index maps block ids to positions in Blocks
	index map[int]int
}

// Validate checks that the block ids are unique, that the entry and every successor are blocks of the function,
// and that every effect has a known kind.
func (fn *Function) Validate() error {
	fn.index = make(map[int]int, len(fn.Blocks))
	for i, b := range fn.Blocks {
		if b == nil {
			return fmt.Errorf("%w %s: nil block at position %d", ErrInvalidFunction, fn.Name, i)
		}
		if _, ok := fn.index[b.ID]; ok {
			return fmt.Errorf("%w %s: duplicate block id %d", ErrInvalidFunction, fn.Name, b.ID)
		}
		fn.index[b.ID] = i
	}
	if _, ok := fn.index[fn.Entry]; !ok {
		return fmt.Errorf("%w %s: entry block %d does not exist", ErrInvalidFunction, fn.Name, fn.Entry)
	}
	for _, b := range fn.Blocks {
		for _, s := range b.Succs {
			if _, ok := fn.index[s]; !ok {
				return fmt.Errorf("%w %s: block %d has unknown successor %d", ErrInvalidFunction, fn.Name, b.ID, s)
			}
		}
		for _, e := range b.Effects {
			if !validKind(e.Kind) {
				return fmt.Errorf("%w %s: block %d has unknown effect kind %q", ErrInvalidFunction, fn.Name, b.ID,
					e.Kind)
			}
		}
	}
	return nil
}

// Block returns the block with the given id, or nil if there is none. The function must have been validated.
func (fn *Function) Block(id int) *Block {
	if i, ok := fn.index[id]; ok {
		return fn.Blocks[i]
	}
	return nil
}

// Graph returns the control-flow graph of fn and the node of its entry block. Node i is the block at position i in
// Blocks. The function must have been validated.
func (fn *Function) Graph() (*graphutil.CFG, int) {
	g := graphutil.NewCFG(len(fn.Blocks))
	for i, b := range fn.Blocks {
		for _, succ := range b.Succs {
			g.AddEdge(i, fn.index[succ])
		}
	}
	return g, fn.index[fn.Entry]
}

func validKind(k EffectKind) bool {
	switch k {
	case MoveEffect, ConstEffect, AddEffect, DropLowerEffect, DropUpperEffect, PointerEffect, ForgetEffect,
		NoEffect:
		return true
	}
	return false
}

// program is the YAML document read by LoadFunctions
type program struct {
	Functions []rawFunction `yaml:"functions"`
}

type rawFunction struct {
	Name   string     `yaml:"name"`
	Entry  int        `yaml:"entry"`
	Blocks []rawBlock `yaml:"blocks"`
}

type rawBlock struct {
	ID      int         `yaml:"id"`
	Succs   []int       `yaml:"succs"`
	Effects []rawEffect `yaml:"effects"`
}

type rawEffect struct {
	Kind   EffectKind `yaml:"kind"`
	Dest   string     `yaml:"dest"`
	Src    string     `yaml:"src"`
	Value  int64      `yaml:"value"`
	Region string     `yaml:"region"`
}

// LoadFunctions parses the functions in the YAML document b. Abstract locations are parsed with aloc.Parse, using
// names to resolve register names. Every function is validated.
//
// Example:
//
//	functions:
//	  - name: count
//	    entry: 0
//	    blocks:
//	      - id: 0
//	        succs: [1]
//	        effects:
//	          - {kind: const, dest: rax, value: 0}
//	      - id: 1
//	        succs: [1, 2]
//	        effects:
//	          - {kind: add, dest: rax, value: 4}
//	      - id: 2
func LoadFunctions(b []byte, names aloc.RegisterNames) ([]*Function, error) {
	var p program
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("could not unmarshal functions: %w", err)
	}
	var functions []*Function
	for _, rf := range p.Functions {
		fn, err := rf.convert(names)
		if err != nil {
			return nil, err
		}
		if err := fn.Validate(); err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}
	return functions, nil
}

func (rf rawFunction) convert(names aloc.RegisterNames) (*Function, error) {
	fn := &Function{Name: rf.Name, Entry: rf.Entry}
	for _, rb := range rf.Blocks {
		block := &Block{ID: rb.ID, Succs: rb.Succs}
		for i, re := range rb.Effects {
			e, err := re.convert(names)
			if err != nil {
				return nil, fmt.Errorf("%w %s: block %d, effect %d: %v", ErrInvalidFunction, rf.Name, rb.ID, i, err)
			}
			block.Effects = append(block.Effects, e)
		}
		fn.Blocks = append(fn.Blocks, block)
	}
	return fn, nil
}

func (re rawEffect) convert(names aloc.RegisterNames) (Effect, error) {
	e := Effect{Kind: re.Kind, Value: re.Value, Region: valueset.Scalar()}
	if !validKind(re.Kind) {
		return e, fmt.Errorf("unknown effect kind %q", re.Kind)
	}
	if re.Kind == NoEffect {
		return e, nil
	}
	dest, err := aloc.Parse(re.Dest, names)
	if err != nil {
		return e, fmt.Errorf("destination: %w", err)
	}
	e.Dest = dest
	if re.Kind == MoveEffect {
		src, err := aloc.Parse(re.Src, names)
		if err != nil {
			return e, fmt.Errorf("source: %w", err)
		}
		e.Src = src
	}
	if re.Kind == PointerEffect {
		region, err := valueset.ParseRegion(re.Region)
		if err != nil {
			return e, fmt.Errorf("region: %w", err)
		}
		e.Region = region
	}
	return e, nil
}
