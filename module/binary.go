// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"

	"iropt/core"
)

// ToBinary serializes the module into words. If skipNop is set, OpNop
// instructions are left out of the output; the module itself is never
// modified.
func (m *Module) ToBinary(skipNop bool) ([]uint32, error) {
	words := []uint32{
		core.MagicNumber,
		uint32(m.Header.Version),
		m.Header.Generator,
		m.Header.Bound,
		m.Header.Schema,
	}
	var err error
	m.ForEachInst(func(in *Instruction) {
		if err != nil || (skipNop && in.Opcode.IsNop()) {
			return
		}
		words, err = in.appendWords(words)
	})
	if err != nil {
		return nil, fmt.Errorf("serializing module: %w", err)
	}
	return words, nil
}
