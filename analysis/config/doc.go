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

/*
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml format, or in toml format when the filename ends with ".toml". The top-level fields can be any of the fields defined in the Config
struct type. For example, a valid config file is as follows:

	options:
	  log-level: 4
	  missing-entry: top
	  widening-delay: 2
	  max-iterations: 500
	  no-color: true
	register-names:
	  0: rax
	  7: rsp

# Unsound options

The default value of missing-entry is "zero", which gives the exact value 0 to any location read before being
written. This matches zero-initialized registers, but any conclusion drawn from such a location is unsound when the
location actually holds an unknown value. Set missing-entry to "top" for sound results.
*/
package config
