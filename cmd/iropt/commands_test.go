// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iropt/core"
	"iropt/module"
	"iropt/pass"
	"iropt/tools"
)

func TestAssembleDisassemble(t *testing.T) {
	resetFlags(t)
	fn := writeInput(t, "m.s", sampleText)
	bin := outputName(fn, ".bin")
	assert.Equal(t, strings.TrimSuffix(fn, ".s")+".bin", bin)

	require.NoError(t, Assemble(fn, bin))
	words, err := tools.ReadWords(bin)
	require.NoError(t, err)
	assert.Equal(t, core.MagicNumber, words[0])

	txt := filepath.Join(filepath.Dir(fn), "m.txt")
	require.NoError(t, Disassemble(bin, txt))
	assert.Equal(t, sampleText, readOutput(t, txt))

	disassembleFlags.skipNop = true
	require.NoError(t, Disassemble(bin, txt))
	assert.NotContains(t, readOutput(t, txt), "OpNop")
}

func TestBuildErrorCode(t *testing.T) {
	resetFlags(t)
	fn := writeInput(t, "bad.s", "%1 = OpFrobnicate\n")
	err := Assemble(fn, fn+".bin")
	require.Error(t, err)
	assert.Equal(t, int(buildError), getErrorCode(err))
	assert.Equal(t, "buildError", getErrorType(err))
}

func TestUnknownEnv(t *testing.T) {
	resetFlags(t)
	rootFlags.env = "vulkan"
	err := Info(writeInput(t, "m.s", sampleText))
	assert.Equal(t, int(usageError), getErrorCode(err))
}

func TestInfo(t *testing.T) {
	resetFlags(t)
	assert.NoError(t, Info(writeInput(t, "m.s", sampleText)))
	err := Info(filepath.Join(t.TempDir(), "missing.s"))
	assert.Equal(t, int(usageError), getErrorCode(err))
}

func TestOptimize(t *testing.T) {
	resetFlags(t)
	optimizeFlags.passes = []string{"strip-nop", "strip-debug", "eliminate-dead-constants", "compact-ids"}
	optimizeFlags.verify = true
	optimizeFlags.checkStatus = true
	optimizeFlags.printDiff = true
	p, err := newPipeline()
	require.NoError(t, err)

	a := writeInput(t, "a.s", sampleText)
	b := writeInput(t, "b.s", sampleText)
	require.NoError(t, Optimize(context.Background(), p, core.EnvUniversal11, []string{a, b}))

	want := strings.Join([]string{
		"%1 = OpConstant 2",
		"%2 = OpFunction",
		"%3 = OpLabel",
		"%4 = OpIAdd %1 %1",
		"OpReturn",
		"OpFunctionEnd",
	}, "\n") + "\n"
	assert.Equal(t, want, readOutput(t, strings.TrimSuffix(a, ".s")+".opt.s"))
	assert.Equal(t, want, readOutput(t, strings.TrimSuffix(b, ".s")+".opt.s"))
}

func TestOptimizeBinary(t *testing.T) {
	resetFlags(t)
	fn := writeInput(t, "m.s", sampleText)
	bin := fn + ".bin"
	require.NoError(t, Assemble(fn, bin))

	optimizeFlags.passes = []string{"null"}
	optimizeFlags.skipNop = true
	rootFlags.outputFn = filepath.Join(filepath.Dir(fn), "out.bin")
	p, err := newPipeline()
	require.NoError(t, err)
	require.NoError(t, Optimize(context.Background(), p, core.EnvUniversal11, []string{bin}))

	in, err := tools.ReadWords(bin)
	require.NoError(t, err)
	out, err := tools.ReadWords(rootFlags.outputFn)
	require.NoError(t, err)
	assert.Len(t, out, len(in)-1)

	err = Optimize(context.Background(), p, core.EnvUniversal11, []string{bin, bin})
	assert.Equal(t, int(usageError), getErrorCode(err))
}

func TestOptimizeFailure(t *testing.T) {
	resetFlags(t)
	optimizeFlags.passes = []string{"remove-ids:%2"}
	p, err := newPipeline()
	require.NoError(t, err)

	fn := writeInput(t, "m.s", sampleText)
	err = Optimize(context.Background(), p, core.EnvUniversal11, []string{fn})
	require.Error(t, err)
	assert.Equal(t, int(passFailure), getErrorCode(err))
	assert.Equal(t, "optimization of "+fn+" failed", getErrorMessage(err))
}

func init() {
	pass.Register("panicking", "panics while processing", func([]string) (pass.Factory, error) {
		m := &pass.Mock{Status: core.SuccessWithChange, Mutate: func(*module.Module) {
			panic("boom")
		}}
		return m.Factory(), nil
	})
}

func TestOptimizePanic(t *testing.T) {
	resetFlags(t)
	optimizeFlags.passes = []string{"panicking"}
	p, err := newPipeline()
	require.NoError(t, err)

	fn := writeInput(t, "m.s", sampleText)
	err = Optimize(context.Background(), p, core.EnvUniversal11, []string{fn})
	require.Error(t, err)
	assert.Equal(t, int(internalError), getErrorCode(err))
	assert.Contains(t, getErrorMessage(err), "panic: boom")
}

func TestOptimizeMissingInput(t *testing.T) {
	resetFlags(t)
	optimizeFlags.passes = []string{"strip-nop"}
	p, err := newPipeline()
	require.NoError(t, err)

	good := writeInput(t, "good.s", sampleText)
	missing := filepath.Join(t.TempDir(), "missing.s")
	err = Optimize(context.Background(), p, core.EnvUniversal11, []string{good, missing})
	assert.Equal(t, int(usageError), getErrorCode(err))
	assert.NoFileExists(t, strings.TrimSuffix(good, ".s")+".opt.s")
}

func TestNewPipeline(t *testing.T) {
	testCases := []struct {
		name   string
		passes []string
		config string
		err    bool
		count  int
	}{
		{name: "none", err: true},
		{name: "unknown", passes: []string{"frobnicate"}, err: true},
		{name: "bad args", passes: []string{"remove-ids:x"}, err: true},
		{name: "flags", passes: []string{"null", "remove-ids:1,2"}, count: 2},
		{name: "config", config: "passes:\n  - name: strip-nop\n", passes: []string{"null"}, count: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			optimizeFlags.passes = tc.passes
			if tc.config != "" {
				optimizeFlags.config = writeInput(t, "p.yaml", tc.config)
			}
			p, err := newPipeline()
			if tc.err {
				assert.Equal(t, int(usageError), getErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, p.Passes, tc.count)
		})
	}
}

func TestPipelineEnv(t *testing.T) {
	resetFlags(t)
	optimizeFlags.config = writeInput(t, "p.toml", "env = \"universal1.0\"\n[[passes]]\nname = \"null\"\n")
	p, err := newPipeline()
	require.NoError(t, err)

	env, err := pipelineEnv(p, false)
	require.NoError(t, err)
	assert.Equal(t, core.EnvUniversal10, env)

	env, err = pipelineEnv(p, true)
	require.NoError(t, err)
	assert.Equal(t, core.EnvUniversal11, env)
}

func TestParsePassArg(t *testing.T) {
	ps := parsePassArg("remove-ids:1,%2")
	assert.Equal(t, "remove-ids", ps.Name)
	assert.Equal(t, []string{"1", "%2"}, ps.Args)
	assert.Empty(t, parsePassArg("null").Args)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, 0, getErrorCode(nil))
	assert.Equal(t, "noError", getErrorType(nil))
	plain := errors.New("unknown flag: --frobnicate")
	assert.Equal(t, int(usageError), getErrorCode(plain))
	assert.Equal(t, usageError.String(), getErrorType(plain))
	assert.Equal(t, int(internalError), getErrorCode(verror(internalError, plain)))
	assert.Equal(t, internalError.String(), getErrorType(verror(internalError, plain)))
	assert.Equal(t, "boom", getErrorMessage(verror(internalError, errors.New("boom"))))
	assert.Equal(t, uint(3), defaultJobs(3))
}
