// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"iropt/logger"
)

type errorType int

//go:generate go run golang.org/x/tools/cmd/stringer -type=errorType
const (
	noError       errorType = 0
	internalError errorType = 1
	buildError    errorType = 2
	passFailure   errorType = 3
	usageError    errorType = 4
)

type vError struct {
	typ errorType
	fn  string
	err error
}

// vfail reports that the pipeline failed on input fn. The diagnostics
// were already delivered, so the error carries no message.
func vfail(fn string) *vError {
	return &vError{
		typ: passFailure,
		fn:  fn,
	}
}

func (e *vError) Error() string {
	switch e.typ {
	case passFailure:
		logger.Debugf("%v: %s", e.typ, e.fn)
		return ""
	default:
		return e.err.Error()
	}
}

func (e *vError) Unwrap() error {
	return e.err
}

func (e *vError) Code() int {
	return int(e.typ)
}

func verror(typ errorType, err error) *vError {
	return &vError{
		typ: typ,
		err: err,
	}
}

func getErrorType(err error) string {
	if err == nil {
		return noError.String()
	}
	var e *vError
	if errors.As(err, &e) {
		return e.typ.String()
	}
	// plain errors come from cobra's flag and argument parsing
	return usageError.String()
}

func getErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var e *vError
	if errors.As(err, &e) {
		return e.Code()
	}
	return int(usageError)
}

func getErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *vError
	if errors.As(err, &e) && e.typ == passFailure {
		return fmt.Sprintf("optimization of %s failed", e.fn)
	}
	return err.Error()
}
