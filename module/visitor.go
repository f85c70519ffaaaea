// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import "iropt/core"

// VisitCallback is called for every instruction when visiting the module.
type VisitCallback func(in *Instruction)

// ForEachInst visits every instruction in module order: the preamble
// first, then each function from OpFunction to OpFunctionEnd.
func (m *Module) ForEachInst(cb VisitCallback) {
	for _, in := range m.Preamble {
		cb(in)
	}
	for _, f := range m.Functions {
		f.ForEachInst(cb)
	}
}

// ForEachInst visits the instructions of the function in order.
func (f *Function) ForEachInst(cb VisitCallback) {
	if f.Def != nil {
		cb(f.Def)
	}
	for _, in := range f.Params {
		cb(in)
	}
	for _, b := range f.Blocks {
		b.ForEachInst(cb)
	}
	if f.End != nil {
		cb(f.End)
	}
}

// ForEachInst visits the label and the instructions of the block.
func (b *BasicBlock) ForEachInst(cb VisitCallback) {
	if b.Label != nil {
		cb(b.Label)
	}
	for _, in := range b.Insts {
		cb(in)
	}
}

// ForEachFunction calls cb for every function in order.
func (m *Module) ForEachFunction(cb func(f *Function)) {
	for _, f := range m.Functions {
		cb(f)
	}
}

// Count returns how many instructions with opcode op the module has.
func (m *Module) Count(op core.Opcode) int {
	n := 0
	m.ForEachInst(func(in *Instruction) {
		if in.Opcode == op {
			n++
		}
	})
	return n
}

// NumInsts returns the total number of instructions.
func (m *Module) NumInsts() int {
	n := 0
	m.ForEachInst(func(*Instruction) { n++ })
	return n
}

// Uses returns the instructions referencing id, in module order.
func (m *Module) Uses(id core.ID) []*Instruction {
	var uses []*Instruction
	m.ForEachInst(func(in *Instruction) {
		if in.Uses(id) {
			uses = append(uses, in)
		}
	})
	return uses
}

// NumUses returns the number of instructions referencing id.
func (m *Module) NumUses(id core.ID) int {
	n := 0
	m.ForEachInst(func(in *Instruction) {
		if in.Uses(id) {
			n++
		}
	})
	return n
}
