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

// Package loops implements a front-end that prints the loop structure of lifted functions.
package loops

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/ar-vsa/analysis/vsa"
	"github.com/awslabs/ar-vsa/cmd/vsa/tools"
	"github.com/awslabs/ar-vsa/internal/formatutil"
	"github.com/awslabs/ar-vsa/internal/funcutil"
	"github.com/awslabs/ar-vsa/internal/graphutil"
)

// Usage is the usage message of the loops sub-command
const Usage = `Print the loops, widening points and irreducible cycles of the functions.

Usage:
  vsa loops [options] functions.yaml...

Use the -help flag to display the options.
`

// Run prints the loop structure of the functions in the files given as arguments
func Run(flags tools.CommonFlags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	formatutil.SetColors(!cfg.NoColor)
	functions, err := tools.LoadFunctions(cfg, flags.FlagSet.Args())
	if err != nil {
		return err
	}
	for _, fn := range functions {
		printLoops(os.Stdout, fn)
	}
	return nil
}

func printLoops(w io.Writer, fn *vsa.Function) {
	g, root := fn.Graph()
	loops := graphutil.FindLoops(g, root)
	ids := funcutil.Map(fn.Blocks, func(b *vsa.Block) int { return b.ID })
	blockIDs := func(nodes []int) string {
		return fmt.Sprint(funcutil.Map(nodes, func(i int) int { return ids[i] }))
	}
	edges := func(es []graphutil.Edge) string {
		return strings.Join(funcutil.Map(es, func(e graphutil.Edge) string {
			return fmt.Sprintf("%d->%d", ids[e.From], ids[e.To])
		}), " ")
	}

	fmt.Fprintf(w, "%s: %d blocks, %d reachable\n", formatutil.Bold(fn.Name), len(fn.Blocks),
		len(loops.ReversePostorder))
	fmt.Fprintf(w, "  widening points: %s\n", blockIDs(loops.Headers.AppendTo(nil)))
	fmt.Fprintf(w, "  back edges: %s\n", edges(loops.BackEdges))
	for _, component := range loops.Components {
		fmt.Fprintf(w, "  loop: %s\n", blockIDs(component))
	}
	if loops.SelfLoops > 0 {
		fmt.Fprintf(w, "  self loops: %d\n", loops.SelfLoops)
	}
	if loops.Irreducible() {
		fmt.Fprintf(w, "  %s: retreating edges %s\n", formatutil.Yellow("irreducible"), edges(loops.Retreating))
	}
}
