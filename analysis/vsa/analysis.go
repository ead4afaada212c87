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
	"fmt"

	"github.com/awslabs/ar-vsa/analysis/aloc"
	"github.com/awslabs/ar-vsa/analysis/config"
	"github.com/awslabs/ar-vsa/analysis/ric"
	"github.com/awslabs/ar-vsa/analysis/valueset"
)

// FunctionContext identifies the function being analyzed
type FunctionContext struct {
	// Name is the name of the function, used in logs
	Name string
}

// Analysis is the value-set analysis of one function. It holds the current state, which the transfer functions
// update in place.
type Analysis struct {
	ctx    FunctionContext
	config *config.Config
	logger *config.LogGroup
	names  aloc.RegisterNames
	state  *State
}

// New returns an analysis of the function ctx with an empty state.
// If cfg is nil, the default configuration is used. If logger is nil, a logger is built from the configuration.
func New(ctx FunctionContext, cfg *config.Config, logger *config.LogGroup) *Analysis {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	a := &Analysis{
		ctx:    ctx,
		config: cfg,
		logger: logger,
		names:  aloc.RegisterNames(cfg.RegisterNames),
	}
	a.state = a.emptyState()
	logger.Infof("Created VSA for function %s\n", ctx.Name)
	return a
}

// missing returns the value set of locations that have never been assigned
func (a *Analysis) missing() valueset.ValueSet {
	if a.config.MissingEntryIsTop() {
		return valueset.Top()
	}
	return valueset.Default()
}

func (a *Analysis) emptyState() *State {
	return NewState(a.missing())
}

// Context returns the function context of the analysis
func (a *Analysis) Context() FunctionContext {
	return a.ctx
}

// State returns a copy of the current state
func (a *Analysis) State() *State {
	return a.state.Clone()
}

// Assign copies the value set of src to dest, replacing the previous value of dest. If src has never been assigned,
// dest receives the missing value set.
func (a *Analysis) Assign(dest aloc.ALoc, src aloc.ALoc) {
	a.assign(a.state, dest, src)
}

// AssignConstant sets dest to the exact scalar value v
func (a *Analysis) AssignConstant(dest aloc.ALoc, v int64) {
	a.set(a.state, dest, valueset.Constant(v))
}

// AssignValueSet sets dest to vs
func (a *Analysis) AssignValueSet(dest aloc.ALoc, vs valueset.ValueSet) {
	a.set(a.state, dest, vs)
}

// Adjust adds delta to every value of dest
func (a *Analysis) Adjust(dest aloc.ALoc, delta int64) {
	a.set(a.state, dest, a.get(a.state, dest).Adjust(delta))
}

// RemoveLowerBounds removes the lower bounds of every RIC of dest
func (a *Analysis) RemoveLowerBounds(dest aloc.ALoc) {
	a.set(a.state, dest, a.get(a.state, dest).RemoveLowerBounds())
}

// RemoveUpperBounds removes the upper bounds of every RIC of dest
func (a *Analysis) RemoveUpperBounds(dest aloc.ALoc) {
	a.set(a.state, dest, a.get(a.state, dest).RemoveUpperBounds())
}

// Forget sets dest to the unknown value set
func (a *Analysis) Forget(dest aloc.ALoc) {
	a.set(a.state, dest, valueset.Top())
}

// Query returns the value set of loc. Value sets are immutable, so the result is a snapshot.
func (a *Analysis) Query(loc aloc.ALoc) valueset.ValueSet {
	return a.get(a.state, loc)
}

// Apply applies the effect e to the current state
func (a *Analysis) Apply(e Effect) error {
	return a.apply(a.state, e)
}

func (a *Analysis) apply(s *State, e Effect) error {
	if a.logger.LogsTrace() {
		a.logger.Tracef("%s: %s\n", a.ctx.Name, e.format(a.names))
	}
	switch e.Kind {
	case MoveEffect:
		a.assign(s, e.Dest, e.Src)
	case ConstEffect:
		a.set(s, e.Dest, valueset.Constant(e.Value))
	case AddEffect:
		a.set(s, e.Dest, a.get(s, e.Dest).Adjust(e.Value))
	case DropLowerEffect:
		a.set(s, e.Dest, a.get(s, e.Dest).RemoveLowerBounds())
	case DropUpperEffect:
		a.set(s, e.Dest, a.get(s, e.Dest).RemoveUpperBounds())
	case PointerEffect:
		a.set(s, e.Dest, valueset.Of(e.Region, ric.Exact(e.Value)))
	case ForgetEffect:
		a.set(s, e.Dest, valueset.Top())
	case NoEffect:
	default:
		return fmt.Errorf("%w %s: unknown effect kind %q", ErrInvalidFunction, a.ctx.Name, e.Kind)
	}
	return nil
}

func (a *Analysis) assign(s *State, dest aloc.ALoc, src aloc.ALoc) {
	a.set(s, dest, a.get(s, src))
}

// get returns the value set of loc in s, logging when the missing value set is used
func (a *Analysis) get(s *State, loc aloc.ALoc) valueset.ValueSet {
	vs, ok := s.Get(loc)
	if !ok && a.logger.LogsDebug() {
		a.logger.Debugf("%s: %s has never been assigned, using %s\n", a.ctx.Name, loc.Format(a.names), vs)
	}
	return vs
}

func (a *Analysis) set(s *State, loc aloc.ALoc, vs valueset.ValueSet) {
	if a.logger.LogsTrace() {
		a.logger.Tracef("%s: %s <- %s\n", a.ctx.Name, loc.Format(a.names), vs)
	}
	s.Set(loc, vs)
}
