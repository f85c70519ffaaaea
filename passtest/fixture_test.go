// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package passtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"iropt/core"
	"iropt/module"
	"iropt/optimizer"
	"iropt/pass"
)

var original = Assemble(
	"%1 = OpFunction",
	"%2 = OpLabel",
	"OpNop",
	"OpReturn",
	"OpFunctionEnd",
)

var stripped = Assemble(
	"%1 = OpFunction",
	"%2 = OpLabel",
	"OpReturn",
	"OpFunctionEnd",
)

func TestAssemble(t *testing.T) {
	assert.Equal(t, "OpNop\nOpReturn\n", Assemble("OpNop", "OpReturn"))
}

// Serialization owns one elision, the IR owns the other; the text is the
// same but the statuses differ.
func TestNopElision(t *testing.T) {
	f := New(t)

	text, status := f.SinglePassRunAndDisassemble(pass.NewNull, original, true)
	assert.Equal(t, stripped, text)
	assert.Equal(t, core.SuccessWithoutChange, status)

	text, status = f.SinglePassRunAndDisassemble(pass.NewStripNop, original, false)
	assert.Equal(t, stripped, text)
	assert.Equal(t, core.SuccessWithChange, status)

	f.SinglePassRunAndCheck(pass.NewNull, original, stripped, true)
	f.SinglePassRunAndCheck(pass.NewStripNop, original, stripped, false)
}

func TestRoundTripIdentity(t *testing.T) {
	f := New(t)
	text, status := f.OptimizeAndDisassemble(pass.NewNull(nil), original, false)
	assert.Equal(t, original, text)
	assert.Equal(t, core.SuccessWithoutChange, status)
}

func TestRunAndCheck(t *testing.T) {
	var bag core.Bag
	f := New(t, WithManagerConfig(optimizer.Config{CheckStatus: true}))
	f.SetMessageConsumer(bag.Consumer())

	f.AddPass(pass.NewNull)
	f.AddPass(pass.NewStripNop)
	assert.Equal(t, core.SuccessWithChange, f.RunAndCheck(original, stripped))
	assert.Equal(t, 2, f.Manager().Len())

	f.RenewPassManager()
	assert.Equal(t, 0, f.Manager().Len())

	fail := &pass.Mock{Status: core.Failure}
	after := &pass.Mock{Status: core.SuccessWithChange, Mutate: func(m *module.Module) {
		m.RemoveIf(func(in *module.Instruction) bool { return in.Opcode.IsNop() })
	}}
	f.AddPass(after.Factory())
	f.AddPass(fail.Factory())
	f.AddPass(after.Factory())
	assert.Equal(t, core.Failure, f.RunAndCheck(original, stripped))
	assert.Equal(t, 1, after.Calls)
	assert.Equal(t, 1, fail.Calls)
	assert.False(t, bag.HasErrors())
}

func TestEnv(t *testing.T) {
	f := New(t, WithEnv(core.EnvUniversal10))
	src := Assemble("%1 = OpUndef", "%2 = OpSelect %1 %1 %1")
	var bag core.Bag
	f.SetMessageConsumer(bag.Consumer())
	m, err := f.tools.Build(src)
	assert.Nil(t, m)
	assert.Error(t, err)
	assert.True(t, bag.HasErrors())
}
