// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Clone returns a deep copy of the module with its own ID table.
func (m *Module) Clone() *Module {
	c := new(Module)
	if err := copier.CopyWithOption(c, m, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Errorf("module: clone: %w", err))
	}
	if err := c.Reindex(); err != nil {
		panic(fmt.Errorf("module: clone: %w", err))
	}
	return c
}

// Equal reports whether m and o have the same header and instructions.
func (m *Module) Equal(o *Module) bool {
	if m.Header != o.Header {
		return false
	}
	var a, b []*Instruction
	m.ForEachInst(func(in *Instruction) { a = append(a, in) })
	o.ForEachInst(func(in *Instruction) { b = append(b, in) })
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
