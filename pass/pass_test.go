// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iropt/core"
	"iropt/module"
	"iropt/pass"
	"iropt/passtest"
)

var withNop = passtest.Assemble(
	`OpName %1 "main"`,
	"%1 = OpFunction",
	"%2 = OpLabel",
	"OpNop",
	"OpReturn",
	"OpFunctionEnd",
)

var withoutNop = strings.Replace(withNop, "OpNop\n", "", 1)

var constants = passtest.Assemble(
	`OpName %3 "unused"`,
	`OpName %4 "used"`,
	"%3 = OpConstant 1",
	"%4 = OpConstant 2",
	"%5 = OpUndef",
	"%1 = OpFunction",
	"%2 = OpLabel",
	"%6 = OpIAdd %4 %4",
	"OpReturn",
	"OpFunctionEnd",
)

var liveConstants = passtest.Assemble(
	`OpName %4 "used"`,
	"%4 = OpConstant 2",
	"%1 = OpFunction",
	"%2 = OpLabel",
	"%6 = OpIAdd %4 %4",
	"OpReturn",
	"OpFunctionEnd",
)

func TestNull(t *testing.T) {
	f := passtest.New(t)
	f.SinglePassRunAndCheck(pass.NewNull, withNop, withNop, false)
}

func TestNullSkipNop(t *testing.T) {
	f := passtest.New(t)
	text, status := f.SinglePassRunAndDisassemble(pass.NewNull, withNop, true)
	assert.Equal(t, core.SuccessWithoutChange, status)
	assert.Equal(t, withoutNop, text)
}

func TestStripNop(t *testing.T) {
	f := passtest.New(t)
	f.SinglePassRunAndCheck(pass.NewStripNop, withNop, withoutNop, false)
	f.SinglePassRunAndCheck(pass.NewStripNop, withoutNop, withoutNop, false)
}

func TestStripDebug(t *testing.T) {
	testCases := []struct {
		name     string
		original string
		expected string
	}{
		{
			"all debug",
			passtest.Assemble(
				`OpSource "kernel.c"`,
				`OpSourceContinued "more"`,
				`%1 = OpString "file"`,
				`OpName %2 "x"`,
				"%2 = OpUndef",
			),
			passtest.Assemble("%2 = OpUndef"),
		},
		{
			"string in use",
			passtest.Assemble(
				`%1 = OpString "file"`,
				`OpName %1 "s"`,
				"%2 = OpCopyObject %1",
			),
			passtest.Assemble(
				`%1 = OpString "file"`,
				"%2 = OpCopyObject %1",
			),
		},
		{
			"nothing to strip",
			passtest.Assemble("%2 = OpUndef"),
			passtest.Assemble("%2 = OpUndef"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := passtest.New(t)
			f.SinglePassRunAndCheck(pass.NewStripDebug, tc.original, tc.expected, false)
		})
	}
}

func TestEliminateDeadConstants(t *testing.T) {
	f := passtest.New(t)
	f.SinglePassRunAndCheck(pass.NewEliminateDeadConstants, constants, liveConstants, false)
	// convergent: a second run finds nothing
	f.SinglePassRunAndCheck(pass.NewEliminateDeadConstants, liveConstants, liveConstants, false)
}

func TestCompactIDs(t *testing.T) {
	f := passtest.New(t)
	compacted := passtest.Assemble(
		`OpName %1 "used"`,
		"%1 = OpConstant 2",
		"%2 = OpFunction",
		"%3 = OpLabel",
		"%4 = OpIAdd %1 %1",
		"OpReturn",
		"OpFunctionEnd",
	)
	f.SinglePassRunAndCheck(pass.NewCompactIDs, liveConstants, compacted, false)
	f.SinglePassRunAndCheck(pass.NewCompactIDs, compacted, compacted, false)
}

func TestRemoveIDs(t *testing.T) {
	f := passtest.New(t)
	f.SinglePassRunAndCheck(pass.NewRemoveIDs(5), constants,
		strings.Replace(constants, "%5 = OpUndef\n", "", 1), false)

	testCases := []struct {
		ids  []core.ID
		diag string
	}{
		{[]core.ID{3}, "remove-ids: error: %3 is still used by 1 instructions"},
		{[]core.ID{5, 42}, "remove-ids: error: %42 is not defined"},
		{[]core.ID{2}, "remove-ids: error: %2 is defined by OpLabel and cannot be removed"},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc.ids), func(t *testing.T) {
			var bag core.Bag
			f := passtest.New(t)
			f.SetMessageConsumer(bag.Consumer())
			text, status := f.SinglePassRunAndDisassemble(pass.NewRemoveIDs(tc.ids...), constants, false)
			assert.Equal(t, core.Failure, status)
			assert.Equal(t, constants, text, "a failed removal must not touch the module")
			require.Equal(t, 1, bag.Len())
			assert.Equal(t, tc.diag, bag.Items()[0].String())
		})
	}
}

func TestRemoveIDsChain(t *testing.T) {
	chain := passtest.Assemble(
		"%1 = OpFunction",
		"%2 = OpLabel",
		"%5 = OpUndef",
		"%6 = OpCopyObject %5",
		"OpReturn",
		"OpFunctionEnd",
	)
	f := passtest.New(t)
	f.SinglePassRunAndCheck(pass.NewRemoveIDs(6, 5), chain, passtest.Assemble(
		"%1 = OpFunction",
		"%2 = OpLabel",
		"OpReturn",
		"OpFunctionEnd",
	), false)

	var bag core.Bag
	f.SetMessageConsumer(bag.Consumer())
	_, status := f.SinglePassRunAndDisassemble(pass.NewRemoveIDs(5), chain, false)
	assert.Equal(t, core.Failure, status)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, "remove-ids: error: %5 is still used by 1 instructions", bag.Items()[0].String())
}

func TestPipelineGolden(t *testing.T) {
	f := passtest.New(t)
	f.AddPass(pass.NewStripNop)
	f.AddPass(pass.NewEliminateDeadConstants)
	f.AddPass(pass.NewCompactIDs)
	src := strings.Replace(constants, "OpReturn\n", "OpNop\nOpReturn\n", 1)
	assert.Equal(t, core.SuccessWithChange, f.RunAndCheckGolden("cleanup", src))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"compact-ids",
		"eliminate-dead-constants",
		"null",
		"remove-ids",
		"strip-debug",
		"strip-nop",
	}, pass.Names())
	assert.NotEmpty(t, pass.Help("strip-nop"))

	testCases := []struct {
		name string
		args []string
		ok   bool
	}{
		{"strip-nop", nil, true},
		{"strip-nop", []string{"x"}, false},
		{"frobnicate", nil, false},
		{"remove-ids", []string{"%3,5", " 7"}, true},
		{"remove-ids", nil, false},
		{"remove-ids", []string{"%0"}, false},
		{"remove-ids", []string{"x"}, false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s%v", tc.name, tc.args), func(t *testing.T) {
			f, err := pass.Lookup(tc.name, tc.args)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.name, pass.Name(f(nil)))
		})
	}

	assert.Panics(t, func() { pass.Register("null", "", nil) })
}

type anonymous struct{}

func (anonymous) Process(*module.Module) core.Status { return core.SuccessWithoutChange }

func TestName(t *testing.T) {
	assert.Equal(t, "mock", pass.Name(&pass.Mock{}))
	assert.Equal(t, "m2", pass.Name(&pass.Mock{Label: "m2"}))
	assert.Equal(t, "pass_test.anonymous", pass.Name(anonymous{}))
	assert.Equal(t, "null", pass.Name(pass.NewNull(nil)))
}
