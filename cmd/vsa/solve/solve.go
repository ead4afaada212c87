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

// Package solve implements the front-end to the value-set analysis fixpoint.
package solve

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-vsa/analysis/aloc"
	"github.com/awslabs/ar-vsa/analysis/config"
	"github.com/awslabs/ar-vsa/analysis/vsa"
	"github.com/awslabs/ar-vsa/cmd/vsa/tools"
	"github.com/awslabs/ar-vsa/internal/formatutil"
	"github.com/awslabs/ar-vsa/internal/funcutil"
)

// Usage is the usage message of the solve sub-command
const Usage = `Compute the value sets of the abstract locations at the end of every block.

Usage:
  vsa solve [options] functions.yaml...

Use the -help flag to display the options.

Examples:
% vsa solve -config config.yaml functions.yaml
`

// Flags represents the parsed solve sub-command flags.
type Flags struct {
	tools.CommonFlags
	jobs int
}

// NewFlags returns the parsed solve flags from args.
func NewFlags(args []string) (Flags, error) {
	cmd, configPath, verbose := tools.NewUnparsedFlagSet("solve")
	jobs := cmd.Int("jobs", 1, "number of functions solved in parallel")
	tools.SetUsage(cmd, Usage)
	if err := cmd.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command solve with args %v: %v", args, err)
	}
	return Flags{
		CommonFlags: tools.CommonFlags{FlagSet: cmd, ConfigPath: *configPath, Verbose: *verbose},
		jobs:        *jobs,
	}, nil
}

type report struct {
	out bytes.Buffer
	err error
}

// Run runs the analysis with flags, printing the results on standard output.
func Run(flags Flags) error {
	return run(flags.ConfigPath, flags.Verbose, flags.jobs, flags.FlagSet.Args(), os.Stdout)
}

func run(configPath string, verbose bool, jobs int, files []string, w io.Writer) error {
	cfg, err := tools.LoadConfig(configPath, verbose)
	if err != nil {
		return err
	}
	formatutil.SetColors(!cfg.NoColor)
	logger := config.NewLogGroup(cfg)
	functions, err := tools.LoadFunctions(cfg, files)
	if err != nil {
		return err
	}
	logger.Infof("Solving %d functions\n", len(functions))

	reports := funcutil.MapParallel(functions, func(fn *vsa.Function) *report {
		return solveFunction(cfg, logger, fn)
	}, jobs)

	var firstErr error
	failed := 0
	for _, r := range reports {
		if _, err := w.Write(r.out.Bytes()); err != nil {
			return err
		}
		if r.err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d functions failed: %w", failed, len(functions), firstErr)
	}
	return nil
}

func solveFunction(cfg *config.Config, logger *config.LogGroup, fn *vsa.Function) *report {
	r := &report{}
	a := vsa.New(vsa.FunctionContext{Name: fn.Name}, cfg, logger)
	res, err := a.Solve(fn)
	if err != nil {
		fmt.Fprintf(&r.out, "%s: %s\n", formatutil.Bold(fn.Name), formatutil.Red("failed"))
		r.err = err
		return r
	}
	fmt.Fprintf(&r.out, "%s: %s after %d iterations, widening points %v\n",
		formatutil.Bold(fn.Name), formatutil.Green("fixpoint"), res.Iterations, res.WideningPoints)
	for _, id := range res.Blocks() {
		s, _ := res.Exit(id)
		fmt.Fprintf(&r.out, "%s\n", formatutil.Faint(fmt.Sprintf("block %d:", id)))
		if err := vsa.DumpState(&r.out, s, aloc.RegisterNames(cfg.RegisterNames)); err != nil {
			r.err = err
			return r
		}
	}
	return r
}
