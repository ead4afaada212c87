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

// Package tools contains utility types and functions for the vsa tool frontends.
package tools

import (
	"flag"
	"fmt"
	"os"

	"github.com/awslabs/ar-vsa/analysis/aloc"
	"github.com/awslabs/ar-vsa/analysis/config"
	"github.com/awslabs/ar-vsa/analysis/vsa"
)

// CommonFlags represents a parsed CLI sub-command flags.
// E.g., for the command `vsa solve ...`, "solve" is the sub-command.
type CommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath string
	Verbose    bool
}

// NewUnparsedFlagSet returns a flag set with a given name and the flags -config and -verbose. Sub-commands that need
// other flags add them before parsing.
func NewUnparsedFlagSet(name string) (*flag.FlagSet, *string, *bool) {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := cmd.String("config", "", "config file path for analysis")
	verbose := cmd.Bool("verbose", false, "verbose printing on standard error")
	return cmd, configPath, verbose
}

// NewCommonFlags returns a parsed flag set with a given name.
// Returns an error if args are invalid.
// Prints cmdUsage along with flag docs as the --help message.
func NewCommonFlags(name string, args []string, cmdUsage string) (CommonFlags, error) {
	cmd, configPath, verbose := NewUnparsedFlagSet(name)
	SetUsage(cmd, cmdUsage)
	if err := cmd.Parse(args); err != nil {
		return CommonFlags{}, fmt.Errorf("failed to parse command %s with args %v: %v", name, args, err)
	}
	return CommonFlags{
		FlagSet:    cmd,
		ConfigPath: *configPath,
		Verbose:    *verbose,
	}, nil
}

// SetUsage sets cmd's usage (for --help flag) to output the string cmdUsage
// followed by each flag's documentation.
func SetUsage(cmd *flag.FlagSet, cmdUsage string) {
	cmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", cmdUsage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		cmd.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// LoadConfig loads the config file from configPath. If configPath is empty, the default configuration is returned.
// If verbose is true, the log level is raised to debug.
func LoadConfig(configPath string, verbose bool) (*config.Config, error) {
	cfg := config.NewDefault()
	if configPath != "" {
		config.SetGlobalConfig(configPath)
		var err error
		cfg, err = config.LoadGlobal()
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
		}
	}
	if verbose && cfg.LogLevel < int(config.DebugLevel) {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}

// LoadFunctions reads the functions in each of the files
func LoadFunctions(cfg *config.Config, files []string) ([]*vsa.Function, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no function file specified")
	}
	var functions []*vsa.Function
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("could not read functions file: %w", err)
		}
		fns, err := vsa.LoadFunctions(b, aloc.RegisterNames(cfg.RegisterNames))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		functions = append(functions, fns...)
	}
	return functions, nil
}
