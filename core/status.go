// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package core contains the most basic objects of iropt.
// These are result IDs, pass statuses, environments, the opcode grammar and diagnostics.
package core

// Status represents the outcome of running a pass or a pipeline of passes.
type Status int

const (
	// Failure means the transformation could not complete. The module
	// content afterwards is unspecified.
	Failure Status = iota
	// SuccessWithoutChange means the module is bit-for-bit unchanged.
	SuccessWithoutChange
	// SuccessWithChange means the module was modified.
	SuccessWithChange
)

func (s Status) String() string {
	switch s {
	case Failure:
		return "Failure"
	case SuccessWithoutChange:
		return "SuccessWithoutChange"
	case SuccessWithChange:
		return "SuccessWithChange"
	default:
		return "Status(?)"
	}
}

// Changed reports whether the status commits to a modified module.
func (s Status) Changed() bool {
	return s == SuccessWithChange
}

// Failed reports whether the status is a Failure.
func (s Status) Failed() bool {
	return s == Failure
}

// Combine aggregates two outcomes: Failure dominates, then a change,
// otherwise no change.
func Combine(a, b Status) Status {
	switch {
	case a == Failure || b == Failure:
		return Failure
	case a == SuccessWithChange || b == SuccessWithChange:
		return SuccessWithChange
	default:
		return SuccessWithoutChange
	}
}

// ID identifies a value produced by an instruction. IDs are unique within
// a module; 0 means "no result".
type ID uint32

// NoID is the zero ID.
const NoID ID = 0
