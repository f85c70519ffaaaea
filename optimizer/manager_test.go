// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package optimizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iropt/codec"
	"iropt/core"
	"iropt/module"
	"iropt/pass"
)

const src = `%1 = OpConstant 7
%2 = OpFunction
%3 = OpLabel
OpNop
OpReturn
OpFunctionEnd
`

func build(t *testing.T) *module.Module {
	m, err := codec.Build(core.EnvUniversal11, nil, src)
	require.NoError(t, err)
	return m
}

func stripNop(m *module.Module) {
	m.RemoveIf(func(in *module.Instruction) bool { return in.Opcode.IsNop() })
}

func TestRunAggregation(t *testing.T) {
	testCases := []struct {
		statuses []core.Status
		out      core.Status
		calls    []int
	}{
		{[]core.Status{core.SuccessWithoutChange}, core.SuccessWithoutChange, []int{1}},
		{[]core.Status{core.SuccessWithoutChange, core.SuccessWithChange}, core.SuccessWithChange, []int{1, 1}},
		{[]core.Status{core.SuccessWithChange, core.SuccessWithoutChange}, core.SuccessWithChange, []int{1, 1}},
		{[]core.Status{core.SuccessWithChange, core.Failure, core.SuccessWithChange}, core.Failure, []int{1, 1, 0}},
		{[]core.Status{core.Failure, core.SuccessWithoutChange}, core.Failure, []int{1, 0}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc.statuses), func(t *testing.T) {
			stats := NewStats()
			mgr := NewManager(Config{Stats: stats})
			mocks := make([]*pass.Mock, len(tc.statuses))
			for i, s := range tc.statuses {
				mocks[i] = &pass.Mock{Status: s, Label: fmt.Sprintf("p%d", i)}
				mgr.Add(mocks[i].Factory())
			}
			assert.Equal(t, len(tc.statuses), mgr.Len())
			assert.Equal(t, tc.out, mgr.Run(build(t)))
			for i, m := range mocks {
				assert.Equal(t, tc.calls[i], m.Calls, m.Label)
			}
			assert.Equal(t, 1, stats.Count(Runs))
		})
	}
}

func TestRunPanics(t *testing.T) {
	mgr := NewManager(Config{})
	assert.Panics(t, func() { mgr.Run(build(t)) })
	mgr.Add(pass.NewNull)
	assert.Panics(t, func() { mgr.Run(nil) })
}

func TestConsumerForwarding(t *testing.T) {
	var bag core.Bag
	mgr := NewManager(Config{})
	mgr.SetMessageConsumer(bag.Consumer())
	mgr.Add(pass.NewRemoveIDs(42))
	assert.Equal(t, core.Failure, mgr.Run(build(t)))
	assert.Equal(t, 1, bag.Len())

	mgr.Reset()
	assert.Equal(t, 0, mgr.Len())
	mgr.Add(pass.NewRemoveIDs(43))
	assert.Equal(t, core.Failure, mgr.Run(build(t)))
	assert.Equal(t, 2, bag.Len(), "the sink survives a reset")
	assert.Equal(t, []string{"remove-ids"}, mgr.Names())
}

func TestCheckStatus(t *testing.T) {
	testCases := []struct {
		name   string
		mock   pass.Mock
		out    core.Status
		reject bool
	}{
		{"honest change", pass.Mock{Status: core.SuccessWithChange, Mutate: stripNop}, core.SuccessWithChange, false},
		{"honest no change", pass.Mock{Status: core.SuccessWithoutChange}, core.SuccessWithoutChange, false},
		{"hidden change", pass.Mock{Status: core.SuccessWithoutChange, Mutate: stripNop}, core.Failure, true},
		{"claimed change", pass.Mock{Status: core.SuccessWithChange}, core.Failure, true},
		{"bound only", pass.Mock{Status: core.SuccessWithoutChange, Mutate: func(m *module.Module) { m.TakeNextID() }}, core.Failure, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var bag core.Bag
			stats := NewStats()
			mgr := NewManager(Config{CheckStatus: true, Stats: stats})
			mgr.SetMessageConsumer(bag.Consumer())
			mgr.Add(tc.mock.Factory())
			assert.Equal(t, tc.out, mgr.Run(build(t)))
			if tc.reject {
				require.Equal(t, 1, bag.Len())
				assert.Equal(t, core.LevelInternalError, bag.Items()[0].Level)
				assert.Equal(t, 1, stats.Count(Rejected))
			} else {
				assert.Equal(t, 0, bag.Len())
			}
		})
	}
}

func TestVerify(t *testing.T) {
	var bag core.Bag
	breaker := &pass.Mock{Status: core.SuccessWithChange, Mutate: func(m *module.Module) {
		m.Functions[0].Blocks[0].Insts[1].Operands = nil
		m.Functions[0].Blocks[0].Insts[1].Opcode = core.OpReturnValue
	}}
	after := &pass.Mock{Status: core.SuccessWithChange}

	mgr := NewManager(Config{Verify: true})
	mgr.SetMessageConsumer(bag.Consumer())
	mgr.Add(breaker.Factory())
	mgr.Add(after.Factory())
	assert.Equal(t, core.Failure, mgr.Run(build(t)))
	assert.Equal(t, 0, after.Calls)
	require.Equal(t, 1, bag.Len())
	assert.Contains(t, bag.Items()[0].Message, "invalid after pass")
}

func TestStats(t *testing.T) {
	stats := NewStats()
	stats.AddTime("p", 2)
	stats.AddTime("p", 4)
	mean, sd, cnt := stats.GetTime("p")
	assert.EqualValues(t, 3, mean)
	assert.EqualValues(t, 1, sd)
	assert.Equal(t, 2, cnt)

	_, _, cnt = stats.GetTime("missing")
	assert.Equal(t, 0, cnt)

	stats.Inc(Changed)
	assert.Contains(t, stats.String(), "Changed: 1")
	assert.Contains(t, stats.String(), "Mean time p: 3ns")
}
