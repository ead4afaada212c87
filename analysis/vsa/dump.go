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
	"io"
	"strings"

	"github.com/awslabs/ar-vsa/analysis/aloc"
	"github.com/awslabs/ar-vsa/analysis/valueset"
)

// Dump writes the current state to w, one location per line
func (a *Analysis) Dump(w io.Writer) error {
	return DumpState(w, a.state, a.names)
}

// DumpState writes s to w, one location per line in the format
//
//	<aloc> -> <region>:<ric> <region>:<ric> ...
//
// preceded by a tab. Registers are printed with names when names has an entry for them. An empty state is printed
// as "Empty value set".
func DumpState(w io.Writer, s *State, names aloc.RegisterNames) error {
	if s.Len() == 0 {
		_, err := fmt.Fprintln(w, "Empty value set")
		return err
	}
	for _, loc := range s.Locations() {
		vs, _ := s.Get(loc)
		if _, err := fmt.Fprintf(w, "\t%s -> %s\n", loc.Format(names), formatValueSet(vs)); err != nil {
			return err
		}
	}
	return nil
}

func formatValueSet(vs valueset.ValueSet) string {
	if vs.IsTop() {
		return "T"
	}
	if vs.IsEmpty() {
		return "{}"
	}
	var parts []string
	for _, region := range vs.Regions() {
		r, _ := vs.Lookup(region)
		parts = append(parts, region.String()+":"+r.String())
	}
	return strings.Join(parts, " ")
}
