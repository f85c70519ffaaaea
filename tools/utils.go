// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"fmt"
	"io"
	"os"

	"iropt/logger"
)

const fileMode = 0600

// Stdio is the file name standing for standard input or output.
const Stdio = "-"

// MockFileExistsErr is a mock error returned by FileExists in tests
var MockFileExistsErr error

// FileExists returns nil if a file exists otherwise an error
func FileExists(fn string) error {
	if MockFileExistsErr != nil {
		return MockFileExistsErr
	}
	if fn == Stdio {
		return nil
	}
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fn)
	}
	return nil
}

// FilesExist returns the first error of FileExists over fns.
func FilesExist(fns []string) error {
	for _, fn := range fns {
		if err := FileExists(fn); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile reads fn, or standard input if fn is Stdio.
func ReadFile(fn string) ([]byte, error) {
	logger.Debugf("Read file '%s'", fn)
	if fn == Stdio {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(fn)
}

// WriteFile writes data to fn, truncating it, or to standard output if
// fn is Stdio.
func WriteFile(fn string, data []byte) error {
	logger.Debugf("Dump file '%s'", fn)
	if fn == Stdio {
		_, err := os.Stdout.Write(data)
		return err
	}
	out, err := os.OpenFile(fn,
		os.O_TRUNC|os.O_WRONLY|os.O_CREATE, fileMode)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warnf("error closing file: %v", err)
		}
	}()
	_, err = out.Write(data)
	return err
}
