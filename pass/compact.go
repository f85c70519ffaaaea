// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"iropt/core"
	"iropt/module"
)

// CompactIDs renumbers results densely in declaration order and lowers
// the bound accordingly.
type CompactIDs struct {
	Base
}

// NewCompactIDs creates a CompactIDs pass.
func NewCompactIDs(consumer core.MessageConsumer) Pass {
	return &CompactIDs{Base: NewBase("compact-ids", consumer)}
}

// Process renumbers the module.
func (p *CompactIDs) Process(m *module.Module) core.Status {
	mapping := make(map[core.ID]core.ID)
	next := core.ID(1)
	identity := true
	m.ForEachInst(func(in *module.Instruction) {
		if in.Result == core.NoID {
			return
		}
		mapping[in.Result] = next
		if in.Result != next {
			identity = false
		}
		next++
	})
	if identity && m.Header.Bound == uint32(next) {
		return core.SuccessWithoutChange
	}
	m.Renumber(mapping)
	return core.SuccessWithChange
}
