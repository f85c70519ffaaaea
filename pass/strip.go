// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"iropt/core"
	"iropt/module"
)

// StripNop removes every OpNop instruction from the module.
type StripNop struct {
	Base
}

// NewStripNop creates a StripNop pass.
func NewStripNop(consumer core.MessageConsumer) Pass {
	return &StripNop{Base: NewBase("strip-nop", consumer)}
}

// Process removes the OpNop instructions.
func (p *StripNop) Process(m *module.Module) core.Status {
	n := m.RemoveIf(func(in *module.Instruction) bool {
		return in.Opcode.IsNop()
	})
	if n > 0 {
		p.Debugf("removed %d OpNop", n)
	}
	return changed(n > 0)
}

// StripDebug removes debug-only instructions. OpString is kept while
// non-debug instructions still reference it.
type StripDebug struct {
	Base
}

// NewStripDebug creates a StripDebug pass.
func NewStripDebug(consumer core.MessageConsumer) Pass {
	return &StripDebug{Base: NewBase("strip-debug", consumer)}
}

// Process removes the debug instructions.
func (p *StripDebug) Process(m *module.Module) core.Status {
	n := m.RemoveIf(func(in *module.Instruction) bool {
		return in.Opcode.IsDebug() && in.Result == core.NoID
	})
	n += m.RemoveIf(func(in *module.Instruction) bool {
		return in.Opcode == core.OpString && m.NumUses(in.Result) == 0
	})
	if n > 0 {
		p.Debugf("removed %d debug instructions", n)
	}
	return changed(n > 0)
}
