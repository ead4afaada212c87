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

package tools

import "regexp"

// Captures errors happening before any analysis starts (functions could not be parsed)
var regexCouldNotUnmarshal = regexp.MustCompile("could not unmarshal (functions|config file)")

// Captures errors in the description of a function
var regexInvalidFunction = regexp.MustCompile("invalid function .*: (block \\d+ has unknown successor|entry block)")

// Captures the error returned when the fixpoint is not reached
var regexIterationLimit = regexp.MustCompile("iteration limit reached")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotUnmarshal.MatchString(errMsg) {
		return "check the YAML syntax of the file; functions files contain a list of functions under \"functions\""
	}
	if regexInvalidFunction.MatchString(errMsg) {
		return "the entry and every successor must be the id of a block of the same function"
	}
	if regexIterationLimit.MatchString(errMsg) {
		return "increase max-iterations in the config file, or reduce widening-delay"
	}
	return ""
}
