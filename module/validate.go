// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"errors"
	"fmt"
	"strings"

	"iropt/core"
)

// Validate checks the structural invariants of the module: instruction
// grammar, version availability, result uniqueness, ID bound, ID table
// consistency, that every referenced ID is defined and that structural
// opcodes only appear where they belong. All violations are joined into
// the returned error.
func (m *Module) Validate() error {
	v := &validator{m: m, seen: make(map[core.ID]*Instruction)}
	for _, in := range m.Preamble {
		v.inst("preamble", in)
		if isStructural(in.Opcode) || in.Opcode.IsTerminator() {
			v.errorf("preamble: %v outside of a function", in.Opcode)
		}
	}
	for _, f := range m.Functions {
		v.function(f)
	}

	for _, use := range v.uses {
		if _, ok := v.seen[use.id]; !ok {
			v.errorf("%v uses undefined %s", use.in, FormatID(use.id))
		}
	}
	if len(m.defs) != len(v.seen) {
		v.errorf("ID table has %d entries, module defines %d", len(m.defs), len(v.seen))
	}
	return errors.Join(v.errs...)
}

type use struct {
	in *Instruction
	id core.ID
}

type validator struct {
	m    *Module
	seen map[core.ID]*Instruction
	uses []use
	errs []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func isStructural(op core.Opcode) bool {
	switch op {
	case core.OpFunction, core.OpFunctionParameter, core.OpFunctionEnd, core.OpLabel:
		return true
	default:
		return false
	}
}

func (v *validator) function(f *Function) {
	where := fmt.Sprintf("function %s", FormatID(f.ID()))
	if f.Def == nil || f.Def.Opcode != core.OpFunction {
		v.errorf("%s: missing OpFunction", where)
		return
	}
	v.inst(where, f.Def)
	for _, p := range f.Params {
		if p.Opcode != core.OpFunctionParameter {
			v.errorf("%s: %v in parameter list", where, p.Opcode)
		}
		v.inst(where, p)
	}
	for _, b := range f.Blocks {
		if b.Label == nil || b.Label.Opcode != core.OpLabel {
			v.errorf("%s: block without OpLabel", where)
			continue
		}
		v.inst(where, b.Label)
		for i, in := range b.Insts {
			v.inst(where, in)
			if isStructural(in.Opcode) {
				v.errorf("%s: %v inside block %s", where, in.Opcode, FormatID(b.ID()))
			}
			if in.Opcode.IsTerminator() && i != len(b.Insts)-1 {
				v.errorf("%s: %v is not the last instruction of block %s", where, in.Opcode, FormatID(b.ID()))
			}
		}
	}
	if f.End == nil || f.End.Opcode != core.OpFunctionEnd {
		v.errorf("%s: missing OpFunctionEnd", where)
		return
	}
	v.inst(where, f.End)
}

func (v *validator) inst(where string, in *Instruction) {
	op := in.Opcode
	if !op.Known() {
		v.errorf("%s: unknown opcode %d", where, uint16(op))
		return
	}
	if !op.AvailableIn(v.m.Header.Version) {
		v.errorf("%s: %v is not available in version %v", where, op, v.m.Header.Version)
	}
	if err := op.CheckArity(len(in.Operands)); err != nil {
		v.errorf("%s: %w", where, err)
	}
	for i, o := range in.Operands {
		if want := op.OperandKindAt(i); want != core.KindNone && o.Kind != want {
			v.errorf("%s: %v operand %d is %v, expected %v", where, op, i, o.Kind, want)
		}
		if o.Kind == core.KindString && strings.IndexByte(o.Str, 0) >= 0 {
			v.errorf("%s: %v operand %d contains a NUL character", where, op, i)
		}
		if o.Kind == core.KindID {
			v.uses = append(v.uses, use{in: in, id: o.ID})
		}
	}

	switch {
	case op.HasResult() && in.Result == core.NoID:
		v.errorf("%s: %v has no result ID", where, op)
	case !op.HasResult() && in.Result != core.NoID:
		v.errorf("%s: %v cannot define %s", where, op, FormatID(in.Result))
	}
	if in.Result == core.NoID {
		return
	}
	if uint32(in.Result) >= v.m.Header.Bound {
		v.errorf("%s: %s is out of bound %d", where, FormatID(in.Result), v.m.Header.Bound)
	}
	if _, dup := v.seen[in.Result]; dup {
		v.errorf("%s: %s is defined more than once", where, FormatID(in.Result))
		return
	}
	v.seen[in.Result] = in
	if def, ok := v.m.defs[in.Result]; !ok || def != in {
		v.errorf("%s: ID table is stale for %s", where, FormatID(in.Result))
	}
}
