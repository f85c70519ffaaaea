// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"strings"
)

// Env selects the encoding dialect and version of a module.
type Env int

const (
	// EnvUnknown is not a valid environment
	EnvUnknown Env = iota
	// EnvUniversal10 is version 1.0 of the instruction set
	EnvUniversal10
	// EnvUniversal11 is version 1.1 of the instruction set
	EnvUniversal11
	// EnvLLVM reads LLVM IR text and lowers it onto version 1.1
	EnvLLVM
)

// Version is a binary version word: major in bits 16-23, minor in bits 8-15.
type Version uint32

// MakeVersion builds a version word.
func MakeVersion(major, minor uint8) Version {
	return Version(uint32(major)<<16 | uint32(minor)<<8)
}

// Major returns the major version number.
func (v Version) Major() uint8 { return uint8(v >> 16) }

// Minor returns the minor version number.
func (v Version) Minor() uint8 { return uint8(v >> 8) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

var (
	// Version10 is the 1.0 version word
	Version10 = MakeVersion(1, 0)
	// Version11 is the 1.1 version word
	Version11 = MakeVersion(1, 1)
)

var envNames = map[Env]string{
	EnvUniversal10: "universal1.0",
	EnvUniversal11: "universal1.1",
	EnvLLVM:        "llvm",
}

func (e Env) String() string {
	if n, ok := envNames[e]; ok {
		return n
	}
	return "unknown"
}

// Version returns the binary version produced for modules built in env.
func (e Env) Version() Version {
	switch e {
	case EnvUniversal10:
		return Version10
	default:
		return Version11
	}
}

// ParseEnv parses an environment name such as "universal1.1" or "llvm".
func ParseEnv(s string) (Env, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for e, n := range envNames {
		if s == n {
			return e, nil
		}
	}
	return EnvUnknown, fmt.Errorf("unknown environment '%s'", s)
}

// EnvNames lists the accepted environment names.
func EnvNames() []string {
	return []string{envNames[EnvUniversal10], envNames[EnvUniversal11], envNames[EnvLLVM]}
}
