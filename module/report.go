// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"
	"io"
	"sort"

	"iropt/core"
)

// Summary counts the parts of a module.
type Summary struct {
	Version      core.Version
	Bound        uint32
	Preamble     int
	Functions    int
	Declarations int
	Blocks       int
	Instructions int
	Opcodes      map[core.Opcode]int
}

// Summarize computes the summary of the module.
func (m *Module) Summarize() Summary {
	s := Summary{
		Version:   m.Header.Version,
		Bound:     m.Header.Bound,
		Preamble:  len(m.Preamble),
		Functions: len(m.Functions),
		Opcodes:   make(map[core.Opcode]int),
	}
	for _, f := range m.Functions {
		if len(f.Blocks) == 0 {
			s.Declarations++
		}
		s.Blocks += len(f.Blocks)
	}
	m.ForEachInst(func(in *Instruction) {
		s.Instructions++
		s.Opcodes[in.Opcode]++
	})
	return s
}

// PrintSummary writes a human readable summary of the module to w.
func (m *Module) PrintSummary(w io.Writer) error {
	s := m.Summarize()
	ops := make([]core.Opcode, 0, len(s.Opcodes))
	for op := range s.Opcodes {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	printf("== SUMMARY ===================================\n\n")
	printf("Module\n")
	printf("  Version      : %v\n", s.Version)
	printf("  Bound        : %d\n", s.Bound)
	printf("\n")
	printf("Structure\n")
	printf("  Preamble     : %d\n", s.Preamble)
	printf("  Functions    : %d (%d declarations)\n", s.Functions, s.Declarations)
	printf("  Blocks       : %d\n", s.Blocks)
	printf("  Instructions : %d\n", s.Instructions)
	printf("\n")
	printf("Opcodes\n")
	for _, op := range ops {
		printf("  %-20s: %d\n", op, s.Opcodes[op])
	}
	printf("\n")
	return err
}
