// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"
	"slices"

	"iropt/core"
)

// KillInst removes in from the module and drops its result from the ID
// table. Only preamble and block body instructions can be killed. It
// returns false if in is not part of the module; it panics if the result
// of in is still referenced.
func (m *Module) KillInst(in *Instruction) bool {
	return m.RemoveIf(func(x *Instruction) bool { return x == in }) == 1
}

// RemoveIf removes every preamble or block body instruction for which
// pred returns true and reports how many were removed. Labels, function
// delimiters and parameters are never passed to pred. Removing an
// instruction whose result is referenced by a kept instruction panics
// and leaves the module unchanged.
func (m *Module) RemoveIf(pred func(in *Instruction) bool) int {
	victims := make(map[*Instruction]bool)
	each := func(list []*Instruction) {
		for _, in := range list {
			if pred(in) {
				victims[in] = true
			}
		}
	}
	each(m.Preamble)
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			each(b.Insts)
		}
	}
	if len(victims) == 0 {
		return 0
	}

	dead := make(map[core.ID]bool)
	for in := range victims {
		if in.Result != core.NoID {
			dead[in.Result] = true
		}
	}
	m.ForEachInst(func(in *Instruction) {
		if victims[in] {
			return
		}
		in.ForEachID(func(id *core.ID) {
			if dead[*id] {
				panic(fmt.Errorf("module: removing %%%d which is still used by %v", *id, in))
			}
		})
	})

	keep := func(in *Instruction) bool { return victims[in] }
	m.Preamble = slices.DeleteFunc(m.Preamble, keep)
	for _, f := range m.Functions {
		for _, b := range f.Blocks {
			b.Insts = slices.DeleteFunc(b.Insts, keep)
		}
	}
	for id := range dead {
		delete(m.defs, id)
	}
	return len(victims)
}

// ReplaceAllUses rewrites every operand referencing from so it references
// to instead, and returns the number of rewritten operands. It panics if
// to is not defined.
func (m *Module) ReplaceAllUses(from, to core.ID) int {
	if !m.HasDef(to) {
		panic(fmt.Errorf("module: replacing uses of %%%d with undefined %%%d", from, to))
	}
	n := 0
	m.ForEachInst(func(in *Instruction) {
		in.ForEachID(func(id *core.ID) {
			if *id == from {
				*id = to
				n++
			}
		})
	})
	return n
}

// Renumber rewrites results and operands according to mapping; IDs not in
// mapping are kept. The ID table is rebuilt and Bound is set to the
// smallest valid value. A mapping that makes two results collide panics.
func (m *Module) Renumber(mapping map[core.ID]core.ID) {
	var top core.ID
	m.ForEachInst(func(in *Instruction) {
		if to, ok := mapping[in.Result]; ok && in.Result != core.NoID {
			in.Result = to
		}
		in.ForEachID(func(id *core.ID) {
			if to, ok := mapping[*id]; ok {
				*id = to
			}
		})
		if in.Result > top {
			top = in.Result
		}
	})
	m.Header.Bound = uint32(top) + 1
	if err := m.Reindex(); err != nil {
		panic(err)
	}
}
