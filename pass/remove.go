// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"iropt/core"
	"iropt/module"
)

// RemoveIDs removes the instructions defining a fixed set of IDs. It
// fails, without touching the module, if any of them is undefined,
// still referenced by an instruction outside the set, or defines a
// function, parameter or label.
type RemoveIDs struct {
	Base
	ids []core.ID
}

// NewRemoveIDs returns a factory for a RemoveIDs pass targeting ids.
func NewRemoveIDs(ids ...core.ID) Factory {
	targets := append([]core.ID(nil), ids...)
	return func(consumer core.MessageConsumer) Pass {
		return &RemoveIDs{Base: NewBase("remove-ids", consumer), ids: targets}
	}
}

// Process removes the targets.
func (p *RemoveIDs) Process(m *module.Module) core.Status {
	targets := make(map[core.ID]bool, len(p.ids))
	for _, id := range p.ids {
		targets[id] = true
	}
	victims := make(map[*module.Instruction]bool, len(p.ids))
	ok := true
	for _, id := range p.ids {
		in, has := m.Def(id)
		switch {
		case !has:
			p.Errorf("%s is not defined", module.FormatID(id))
			ok = false
		case in.Opcode == core.OpFunction || in.Opcode == core.OpFunctionParameter || in.Opcode == core.OpLabel:
			p.Errorf("%s is defined by %v and cannot be removed", module.FormatID(id), in.Opcode)
			ok = false
		default:
			n := 0
			for _, user := range m.Uses(id) {
				if !targets[user.Result] {
					n++
				}
			}
			if n > 0 {
				p.Errorf("%s is still used by %d instructions", module.FormatID(id), n)
				ok = false
			}
			victims[in] = true
		}
	}
	if !ok {
		return core.Failure
	}
	n := m.RemoveIf(func(in *module.Instruction) bool { return victims[in] })
	return changed(n > 0)
}
