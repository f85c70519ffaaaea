// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var sampleText = strings.Join([]string{
	`OpName %1 "unused"`,
	"%1 = OpConstant 7",
	"%2 = OpConstant 2",
	"%3 = OpFunction",
	"%4 = OpLabel",
	"OpNop",
	"%5 = OpIAdd %2 %2",
	"OpReturn",
	"OpFunctionEnd",
}, "\n") + "\n"

// writeInput writes content into a fresh file of the test's temporary
// directory and returns its path.
func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0600))
	return fn
}

func readOutput(t *testing.T, fn string) string {
	t.Helper()
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	return string(data)
}

// resetFlags restores the command line state between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	rootFlags.env = "universal1.1"
	rootFlags.outputFn = ""
	assembleFlags.skipNop = false
	disassembleFlags.header = false
	disassembleFlags.color = false
	disassembleFlags.skipNop = false
	optimizeFlags.passes = nil
	optimizeFlags.config = ""
	optimizeFlags.verify = false
	optimizeFlags.checkStatus = false
	optimizeFlags.skipNop = false
	optimizeFlags.printDiff = false
	optimizeFlags.stats = false
	optimizeFlags.text = false
	optimizeFlags.jobs = 0
}
