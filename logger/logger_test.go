// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"iropt/core"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetFileDescriptor(os.Stdout)
	defer SetLevel(GetLevel())

	SetLevel(WARN)
	Errorf("e%d", 1)
	Warn("w")
	Info("i")
	Debugf("d%d", 1)
	assert.Equal(t, "e1\nw\n", buf.String())

	buf.Reset()
	SetWriter(nil)
	Error("dropped")
	assert.Equal(t, "", buf.String())
}

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out Level
	}{{"error", ERROR}, {"WARN", WARN}, {"Info", INFO}, {"DEBUG", DEBUG}} {
		l, err := ParseLevel(tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.out, l)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConsumer(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetFileDescriptor(os.Stdout)
	defer SetLevel(GetLevel())
	SetLevel(INFO)

	c := Consumer()
	c.Emit(core.LevelError, "a.s", core.Position{Line: 3, Column: 2}, "bad")
	c.Emitf(core.LevelDebug, "", "hidden")
	c.Emitf(core.LevelInfo, "pass", "note")
	out := buf.String()
	assert.Contains(t, out, "a.s:3:2: bad")
	assert.Contains(t, out, "pass: note")
	assert.NotContains(t, out, "hidden")
}
