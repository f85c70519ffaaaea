// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"iropt/core"
	"iropt/module"
)

// EliminateDeadConstants removes constants and undefs nothing refers to.
// Names attached to a removed constant go with it.
type EliminateDeadConstants struct {
	Base
}

// NewEliminateDeadConstants creates an EliminateDeadConstants pass.
func NewEliminateDeadConstants(consumer core.MessageConsumer) Pass {
	return &EliminateDeadConstants{Base: NewBase("eliminate-dead-constants", consumer)}
}

func isConstant(op core.Opcode) bool {
	switch op {
	case core.OpConstant, core.OpConstantTrue, core.OpConstantFalse, core.OpUndef:
		return true
	default:
		return false
	}
}

// Process removes dead constants until none is left.
func (p *EliminateDeadConstants) Process(m *module.Module) core.Status {
	total := 0
	for {
		dead := make(map[core.ID]bool)
		m.ForEachInst(func(in *module.Instruction) {
			if isConstant(in.Opcode) {
				dead[in.Result] = true
			}
		})
		m.ForEachInst(func(in *module.Instruction) {
			if in.Opcode == core.OpName {
				return
			}
			in.ForEachID(func(id *core.ID) {
				delete(dead, *id)
			})
		})
		if len(dead) == 0 {
			break
		}
		total += m.RemoveIf(func(in *module.Instruction) bool {
			if in.Opcode == core.OpName {
				return dead[in.Operands[0].ID]
			}
			return isConstant(in.Opcode) && dead[in.Result]
		})
	}
	if total > 0 {
		p.Debugf("removed %d instructions", total)
	}
	return changed(total > 0)
}
