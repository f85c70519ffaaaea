// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package codec

import (
	"errors"
	"fmt"

	"iropt/core"
	"iropt/module"
)

// locator returns the position of operand i of the instruction being
// added, or of the instruction itself when i is negative.
type locator func(i int) core.Position

type pendingUse struct {
	id  core.ID
	pos core.Position
}

// builder assembles a flat instruction stream into the module tree.
// Errors are reported through report and counted; finish refuses to
// return a module once any error was seen.
type builder struct {
	m      *module.Module
	fn     *module.Function
	block  *module.BasicBlock
	uses   []pendingUse
	errs   []error
	report func(pos core.Position, msg string)
}

func newBuilder(v core.Version, report func(pos core.Position, msg string)) *builder {
	return &builder{
		m:      module.New(v),
		report: report,
	}
}

func (b *builder) errorf(pos core.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.errs = append(b.errs, errors.New(msg))
	b.report(pos, msg)
}

func (b *builder) failed() bool {
	return len(b.errs) > 0
}

// check validates in against the grammar and reports every violation.
func (b *builder) check(in *module.Instruction, loc locator) bool {
	op := in.Opcode
	if !op.Known() {
		b.errorf(loc(-1), "unknown opcode %d", uint16(op))
		return false
	}
	ok := true
	if v := b.m.Header.Version; !op.AvailableIn(v) {
		b.errorf(loc(-1), "%v is not available in version %v", op, v)
		ok = false
	}
	if err := op.CheckArity(len(in.Operands)); err != nil {
		b.errorf(loc(-1), "%v", err)
		ok = false
	}
	for i, o := range in.Operands {
		if want := op.OperandKindAt(i); want != core.KindNone && want != o.Kind {
			b.errorf(loc(i), "%v operand %d must be %v, got %v", op, i, want, o.Kind)
			ok = false
		}
		if o.Kind == core.KindID && o.ID == core.NoID {
			b.errorf(loc(i), "%%0 is not a valid ID")
			ok = false
		}
	}
	switch {
	case op.HasResult() && in.Result == core.NoID:
		b.errorf(loc(-1), "%v requires a result ID", op)
		ok = false
	case !op.HasResult() && in.Result != core.NoID:
		b.errorf(loc(-1), "%v does not produce a result", op)
		ok = false
	}
	return ok
}

// add places in into the tree according to its opcode.
func (b *builder) add(in *module.Instruction, loc locator) {
	if !b.check(in, loc) {
		return
	}
	if in.Result != core.NoID && b.m.HasDef(in.Result) {
		b.errorf(loc(-1), "%s is defined more than once", module.FormatID(in.Result))
		return
	}
	for i, o := range in.Operands {
		if o.Kind == core.KindID {
			b.uses = append(b.uses, pendingUse{id: o.ID, pos: loc(i)})
		}
	}

	switch in.Opcode {
	case core.OpFunction:
		if b.fn != nil {
			b.errorf(loc(-1), "OpFunction inside function %s", module.FormatID(b.fn.ID()))
			return
		}
		b.fn = &module.Function{Def: in}
		b.block = nil
		b.m.Functions = append(b.m.Functions, b.fn)
	case core.OpFunctionParameter:
		if b.fn == nil || len(b.fn.Blocks) > 0 {
			b.errorf(loc(-1), "OpFunctionParameter must follow OpFunction")
			return
		}
		b.fn.AddParam(in)
	case core.OpLabel:
		if b.fn == nil {
			b.errorf(loc(-1), "OpLabel outside of a function")
			return
		}
		b.block = &module.BasicBlock{Label: in}
		b.fn.AddBlock(b.block)
	case core.OpFunctionEnd:
		if b.fn == nil {
			b.errorf(loc(-1), "OpFunctionEnd without OpFunction")
			return
		}
		b.fn.End = in
		b.fn, b.block = nil, nil
	default:
		switch {
		case b.fn == nil:
			if in.Opcode.IsTerminator() {
				b.errorf(loc(-1), "%v outside of a function", in.Opcode)
				return
			}
			b.m.Preamble = append(b.m.Preamble, in)
		case b.block == nil:
			b.errorf(loc(-1), "%v before the first OpLabel of function %s", in.Opcode, module.FormatID(b.fn.ID()))
			return
		case b.block.Terminator() != nil:
			b.errorf(loc(-1), "%v after the terminator of block %s", in.Opcode, module.FormatID(b.block.ID()))
			return
		default:
			b.block.AddInst(in)
		}
	}
	if in.Result != core.NoID {
		b.m.Define(in)
	}
}

// finish checks forward references and returns the module, or an error
// if anything was reported.
func (b *builder) finish(end core.Position) (*module.Module, error) {
	if b.fn != nil {
		b.errorf(end, "function %s is missing OpFunctionEnd", module.FormatID(b.fn.ID()))
	}
	for _, u := range b.uses {
		if !b.m.HasDef(u.id) {
			b.errorf(u.pos, "%s is used but never defined", module.FormatID(u.id))
		}
	}
	if !b.failed() {
		if err := b.m.Validate(); err != nil {
			b.errorf(end, "invalid module: %v", err)
		}
	}
	if b.failed() {
		return nil, fmt.Errorf("building module: %w", errors.Join(b.errs...))
	}
	return b.m, nil
}
