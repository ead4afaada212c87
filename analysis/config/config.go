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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the settings of the value-set analysis.
// If some field is not defined in the config file, it will have its default value.
type Config struct {
	Options `yaml:"options"`

	// RegisterNames maps register ids to names. The names are used when printing value sets and when parsing
	// abstract locations in lifted function files.
	RegisterNames map[uint]string `yaml:"register-names"`
}

// Options are the analysis options
type Options struct {
	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level" toml:"log-level"`

	// MissingEntry sets the value of abstract locations that have never been assigned. "zero" (the default) treats
	// them as the exact scalar 0, which models zero-initialized registers but is unsound if the location holds an
	// unknown value. "top" treats them as unknown.
	MissingEntry string `yaml:"missing-entry" toml:"missing-entry"`

	// WideningDelay is the number of times a loop header is joined normally before widening is applied. Larger
	// values give more precise results at the cost of more iterations.
	WideningDelay int `yaml:"widening-delay" toml:"widening-delay"`

	// MaxIterations bounds the number of blocks processed by the fixpoint computation of one function. If
	// MaxIterations <= 0, DefaultMaxIterations is used.
	MaxIterations int `yaml:"max-iterations" toml:"max-iterations"`

	// NoColor disables colors in the tool's output
	NoColor bool `yaml:"no-color" toml:"no-color"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		RegisterNames: map[uint]string{},
		Options: Options{
			LogLevel:      int(InfoLevel),
			MissingEntry:  MissingEntryZero,
			WideningDelay: 0,
			MaxIterations: DefaultMaxIterations,
			NoColor:       false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes reads a configuration from the contents b of the file filename
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if strings.HasSuffix(filename, ".toml") {
		if err := unmarshalToml(b, cfg); err != nil {
			return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
		}
	} else if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("invalid log-level %d, should be between %d and %d",
			cfg.LogLevel, ErrLevel, TraceLevel)
	}

	switch cfg.MissingEntry {
	case "":
		cfg.MissingEntry = MissingEntryZero
	case MissingEntryZero, MissingEntryTop:
	default:
		return nil, fmt.Errorf("invalid missing-entry %q, should be %q or %q",
			cfg.MissingEntry, MissingEntryZero, MissingEntryTop)
	}

	if cfg.WideningDelay < 0 {
		return nil, fmt.Errorf("invalid widening-delay %d, should be non-negative", cfg.WideningDelay)
	}

	// Set the MaxIterations default if it is <= 0
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	if cfg.RegisterNames == nil {
		cfg.RegisterNames = map[uint]string{}
	}
	return cfg, nil
}

// tomlConfig is the layout of TOML config files. TOML keys are strings, so register ids are parsed separately.
type tomlConfig struct {
	Options       Options           `toml:"options"`
	RegisterNames map[string]string `toml:"register-names"`
}

func unmarshalToml(b []byte, cfg *Config) error {
	raw := tomlConfig{Options: cfg.Options}
	meta, err := toml.Decode(string(b), &raw)
	if err != nil {
		return err
	}
	cfg.Options = raw.Options
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys %v", undecoded)
	}
	for key, name := range raw.RegisterNames {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid register id %q: %w", key, err)
		}
		cfg.RegisterNames[uint(id)] = name
	}
	return nil
}

// MissingEntryIsTop returns true if locations that have never been assigned should be treated as unknown
func (c Config) MissingEntryIsTop() bool {
	return c.MissingEntry == MissingEntryTop
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
