// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package passtest provides a fixture for testing passes by round trip:
// assemble text, run passes, serialize and compare the disassembly.
package passtest

import (
	"slices"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iropt/codec"
	"iropt/core"
	"iropt/optimizer"
	"iropt/pass"
)

// Fixture holds the codec tools, the message consumer and the pass
// manager of a test.
type Fixture struct {
	t        *testing.T
	env      core.Env
	tools    *codec.Tools
	consumer core.MessageConsumer
	cfg      optimizer.Config
	manager  *optimizer.Manager
}

// Option configures a Fixture.
type Option func(f *Fixture)

// WithEnv selects the environment used to assemble sources.
func WithEnv(env core.Env) Option {
	return func(f *Fixture) { f.env = env }
}

// WithManagerConfig configures the pass manager used by RunAndCheck.
func WithManagerConfig(cfg optimizer.Config) Option {
	return func(f *Fixture) { f.cfg = cfg }
}

// New returns a fixture for the universal 1.1 environment without a
// message consumer.
func New(t *testing.T, opts ...Option) *Fixture {
	f := &Fixture{t: t, env: core.EnvUniversal11}
	for _, opt := range opts {
		opt(f)
	}
	f.tools = codec.NewTools(f.env)
	f.manager = optimizer.NewManager(f.cfg)
	return f
}

// SetMessageConsumer installs the sink used by the codec, by passes
// created afterwards and by the pass manager.
func (f *Fixture) SetMessageConsumer(c core.MessageConsumer) {
	f.consumer = c
	f.tools.SetMessageConsumer(c)
	f.manager.SetMessageConsumer(c)
}

// Manager returns the pass manager of the fixture.
func (f *Fixture) Manager() *optimizer.Manager {
	return f.manager
}

type outcome struct {
	text    string
	status  core.Status
	changed bool // the serialized module differs after the pass
}

func (f *Fixture) run(p pass.Pass, original string, skipNop bool) (outcome, bool) {
	f.t.Helper()
	m, err := codec.Build(f.env, f.consumer, original)
	if !assert.NoError(f.t, err, "assembling failed for:\n%s", original) {
		return outcome{status: core.Failure}, false
	}
	before, err := m.ToBinary(false)
	require.NoError(f.t, err)

	status := p.Process(m)

	after, err := m.ToBinary(false)
	require.NoError(f.t, err)
	words := after
	if skipNop {
		words, err = m.ToBinary(true)
		require.NoError(f.t, err)
	}
	text, err := f.tools.Disassemble(words)
	assert.NoError(f.t, err, "disassembling failed for:\n%s", original)
	return outcome{text: text, status: status, changed: !slices.Equal(before, after)}, true
}

// OptimizeAndDisassemble runs p on the module assembled from original
// and returns the disassembly of the result with the pass status.
func (f *Fixture) OptimizeAndDisassemble(p pass.Pass, original string, skipNop bool) (string, core.Status) {
	f.t.Helper()
	o, _ := f.run(p, original, skipNop)
	return o.text, o.status
}

// SinglePassRunAndDisassemble creates a pass with the fixture's sink and
// works as OptimizeAndDisassemble.
func (f *Fixture) SinglePassRunAndDisassemble(factory pass.Factory, assembly string, skipNop bool) (string, core.Status) {
	f.t.Helper()
	return f.OptimizeAndDisassemble(factory(f.consumer), assembly, skipNop)
}

// SinglePassRunAndCheck runs a single pass without the pass manager and
// checks that it succeeds, that its status matches whether the module
// changed and that the result disassembles to expected.
func (f *Fixture) SinglePassRunAndCheck(factory pass.Factory, original, expected string, skipNop bool) {
	f.t.Helper()
	o, ok := f.run(factory(f.consumer), original, skipNop)
	if !ok {
		return
	}
	assert.NotEqual(f.t, core.Failure, o.status)
	assert.Equal(f.t, o.changed, o.status == core.SuccessWithChange,
		"pass returned %v but the module changed=%v", o.status, o.changed)
	assert.Equal(f.t, expected, o.text)
}

// AddPass appends a pass to the fixture's manager.
func (f *Fixture) AddPass(factory pass.Factory) {
	f.manager.Add(factory)
}

// RenewPassManager drops every pass added so far. The sink is kept.
func (f *Fixture) RenewPassManager() {
	f.manager.Reset()
}

func (f *Fixture) runManager(original string) (string, core.Status) {
	f.t.Helper()
	if f.manager.Len() == 0 {
		f.t.Fatal("no passes added to the manager")
	}
	m, err := codec.Build(f.env, nil, original)
	require.NoError(f.t, err, "assembling failed for:\n%s", original)

	status := f.manager.Run(m)

	words, err := m.ToBinary(false)
	require.NoError(f.t, err)
	text, err := f.tools.Disassemble(words)
	assert.NoError(f.t, err)
	return text, status
}

// RunAndCheck runs the passes added so far on the module assembled from
// original and checks the disassembly against expected. It returns the
// pipeline status.
func (f *Fixture) RunAndCheck(original, expected string) core.Status {
	f.t.Helper()
	text, status := f.runManager(original)
	assert.Equal(f.t, expected, text)
	return status
}

// RunAndCheckGolden works as RunAndCheck, comparing against the golden
// file testdata/golden/<name>.golden.
func (f *Fixture) RunAndCheckGolden(name, original string) core.Status {
	f.t.Helper()
	text, status := f.runManager(original)
	g := goldie.New(f.t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(f.t, name, []byte(text))
	return status
}

// Assemble joins lines into source text, one instruction per line.
func Assemble(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
