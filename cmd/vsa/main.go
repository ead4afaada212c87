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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/ar-vsa/analysis"
	"github.com/awslabs/ar-vsa/cmd/vsa/loops"
	"github.com/awslabs/ar-vsa/cmd/vsa/solve"
	"github.com/awslabs/ar-vsa/cmd/vsa/tools"
)

const usage = `VSA: value-set analysis of lifted functions
Usage:
  vsa [tool] [options] <functions file(s)>
Tools:
  - solve: computes the value sets at the end of every block of the functions
  - loops: prints the loops and widening points of the functions
Examples:
  Solve the functions of a file: vsa solve -config config.yaml functions.yaml`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "solve":
		flags, err := solve.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := solve.Run(flags); err != nil {
			errExit(err)
		}
	case "loops":
		flags, err := tools.NewCommonFlags("loops", args, loops.Usage)
		if err != nil {
			errExit(err)
		}
		if err := loops.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
