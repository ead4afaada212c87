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

// Package aloc defines abstract locations (a-locs): the places a value can live in a lifted machine function.
// An a-loc is either a register, a slot in the local stack frame, or a global memory address.
package aloc

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant of an abstract location
type Kind int

const (
	// RegisterKind is the kind of register a-locs. The payload is the register id.
	RegisterKind Kind = iota
	// GlobalKind is the kind of global memory a-locs. The payload is the absolute address.
	GlobalKind
	// LocalKind is the kind of stack frame a-locs. The payload is the frame-relative offset.
	LocalKind
)

func (k Kind) String() string {
	switch k {
	case RegisterKind:
		return "register"
	case GlobalKind:
		return "global"
	case LocalKind:
		return "local"
	default:
		return "invalid"
	}
}

// ALoc is an abstract location. ALocs are comparable values: two a-locs are equal if and only if both their kind
// and their payload are equal, which makes them usable as map keys.
type ALoc struct {
	kind    Kind
	payload uint64
}

// Register returns the a-loc of the register with the given id. The lifter is responsible for resolving aliases,
// e.g. mapping a sub-register to its 64-bit super register, before naming the a-loc.
func Register(id uint) ALoc {
	return ALoc{kind: RegisterKind, payload: uint64(id)}
}

// Global returns the a-loc of the global memory location at addr
func Global(addr uint64) ALoc {
	return ALoc{kind: GlobalKind, payload: addr}
}

// Local returns the a-loc of the stack slot at the frame-relative offset
func Local(offset int64) ALoc {
	return ALoc{kind: LocalKind, payload: uint64(offset)}
}

// Kind returns the kind of the a-loc
func (a ALoc) Kind() Kind { return a.kind }

// IsRegister returns true if a is a register a-loc
func (a ALoc) IsRegister() bool { return a.kind == RegisterKind }

// IsGlobal returns true if a is a global memory a-loc
func (a ALoc) IsGlobal() bool { return a.kind == GlobalKind }

// IsLocal returns true if a is a local memory a-loc
func (a ALoc) IsLocal() bool { return a.kind == LocalKind }

// Register returns the register id. Only meaningful when a.IsRegister()
func (a ALoc) Register() uint { return uint(a.payload) }

// GlobalAddress returns the global address. Only meaningful when a.IsGlobal()
func (a ALoc) GlobalAddress() uint64 { return a.payload }

// LocalOffset returns the stack frame offset. Only meaningful when a.IsLocal()
func (a ALoc) LocalOffset() int64 { return int64(a.payload) }

// Less orders a-locs by kind, then payload. The order is only used to print locations deterministically.
func (a ALoc) Less(b ALoc) bool {
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	if a.kind == LocalKind {
		return a.LocalOffset() < b.LocalOffset()
	}
	return a.payload < b.payload
}

func (a ALoc) String() string {
	return a.Format(nil)
}

// RegisterNames maps register ids to the architecture's register names
type RegisterNames map[uint]string

// Format returns the textual form of the a-loc, using names to print registers when a name is known.
func (a ALoc) Format(names RegisterNames) string {
	switch a.kind {
	case RegisterKind:
		if name, ok := names[a.Register()]; ok {
			return name
		}
		return "r" + strconv.FormatUint(a.payload, 10)
	case GlobalKind:
		return fmt.Sprintf("global[0x%x]", a.payload)
	case LocalKind:
		return fmt.Sprintf("local[%d]", a.LocalOffset())
	default:
		return "invalid"
	}
}

// Parse parses the textual form of an a-loc: r<id>, global[<addr>] or local[<offset>]. Numbers are parsed with
// strconv base 0, so hexadecimal addresses with a 0x prefix are accepted. If names is non-nil, register names
// are also resolved.
func Parse(s string, names RegisterNames) (ALoc, error) {
	s = strings.TrimSpace(s)
	if inner, ok := bracketed(s, "global"); ok {
		addr, err := strconv.ParseUint(inner, 0, 64)
		if err != nil {
			return ALoc{}, fmt.Errorf("invalid global address in %q: %w", s, err)
		}
		return Global(addr), nil
	}
	if inner, ok := bracketed(s, "local"); ok {
		offset, err := strconv.ParseInt(inner, 0, 64)
		if err != nil {
			return ALoc{}, fmt.Errorf("invalid local offset in %q: %w", s, err)
		}
		return Local(offset), nil
	}
	for id, name := range names {
		if name == s {
			return Register(id), nil
		}
	}
	if strings.HasPrefix(s, "r") {
		id, err := strconv.ParseUint(s[1:], 10, 32)
		if err == nil {
			return Register(uint(id)), nil
		}
	}
	return ALoc{}, fmt.Errorf("could not parse abstract location %q", s)
}

func bracketed(s string, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix+"[") || !strings.HasSuffix(s, "]") {
		return "", false
	}
	return strings.TrimSpace(s[len(prefix)+1 : len(s)-1]), true
}
