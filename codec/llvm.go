// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"
	"math"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"iropt/core"
	"iropt/module"
)

// lowerer translates an LLVM IR module into the flat instruction stream
// consumed by the builder.
type lowerer struct {
	next   core.ID
	ids    map[value.Value]core.ID
	consts map[uint32]core.ID

	names      []*module.Instruction
	vars       []*module.Instruction
	constInsts []*module.Instruction
	body       []*module.Instruction
}

func newLowerer() *lowerer {
	return &lowerer{
		next:   1,
		ids:    make(map[value.Value]core.ID),
		consts: make(map[uint32]core.ID),
	}
}

func (l *lowerer) fresh() core.ID {
	id := l.next
	l.next++
	return id
}

func (l *lowerer) name(id core.ID, name string) {
	if name == "" {
		return
	}
	l.names = append(l.names, module.NewInst(core.OpName, core.NoID,
		module.IDOperand(id), module.StringOperand(name)))
}

// constant hoists c as a 32-bit literal. Negative values are stored in
// two's complement; anything wider is rejected.
func (l *lowerer) constant(c *constant.Int) (core.ID, error) {
	if !c.X.IsInt64() || c.X.Int64() < math.MinInt32 || c.X.Int64() > math.MaxUint32 {
		return core.NoID, fmt.Errorf("unsupported constant %v: does not fit in 32 bits", c.X)
	}
	v := uint32(c.X.Int64())
	if id, ok := l.consts[v]; ok {
		return id, nil
	}
	id := l.fresh()
	l.consts[v] = id
	l.constInsts = append(l.constInsts, module.NewInst(core.OpConstant, id, module.LiteralOperand(v)))
	return id, nil
}

func (l *lowerer) operand(v value.Value) (module.Operand, error) {
	if c, ok := v.(*constant.Int); ok {
		id, err := l.constant(c)
		return module.IDOperand(id), err
	}
	if id, ok := l.ids[v]; ok {
		return module.IDOperand(id), nil
	}
	return module.Operand{}, fmt.Errorf("unsupported operand %v (%T)", v.Ident(), v)
}

func (l *lowerer) emit(op core.Opcode, result core.ID, vals ...value.Value) error {
	in := module.NewInst(op, result)
	for _, v := range vals {
		o, err := l.operand(v)
		if err != nil {
			return err
		}
		in.Operands = append(in.Operands, o)
	}
	l.body = append(l.body, in)
	return nil
}

// produces reports whether inst defines a value in the lowered form.
func produces(inst ir.Instruction) bool {
	switch inst.(type) {
	case *ir.InstAdd, *ir.InstSub, *ir.InstMul, *ir.InstICmp, *ir.InstSelect,
		*ir.InstAlloca, *ir.InstLoad, *ir.InstCall, *ir.InstPhi:
		return true
	default:
		return false
	}
}

func (l *lowerer) lowerModule(m *ir.Module) error {
	for _, g := range m.Globals {
		id := l.fresh()
		l.ids[g] = id
		l.name(id, g.Name())
		l.vars = append(l.vars, module.NewInst(core.OpVariable, id))
	}
	for _, f := range m.Funcs {
		id := l.fresh()
		l.ids[f] = id
		l.name(id, f.Name())
	}
	for _, f := range m.Funcs {
		if err := l.lowerFunc(f); err != nil {
			return fmt.Errorf("function @%s: %w", f.Name(), err)
		}
	}
	return nil
}

func (l *lowerer) lowerFunc(f *ir.Func) error {
	l.body = append(l.body, module.NewInst(core.OpFunction, l.ids[f]))
	for _, p := range f.Params {
		id := l.fresh()
		l.ids[p] = id
		l.body = append(l.body, module.NewInst(core.OpFunctionParameter, id))
	}
	// Blocks and results can be referenced before they appear.
	for _, b := range f.Blocks {
		l.ids[b] = l.fresh()
		for _, inst := range b.Insts {
			if produces(inst) {
				l.ids[inst.(value.Value)] = l.fresh()
			}
		}
	}
	for _, b := range f.Blocks {
		l.body = append(l.body, module.NewInst(core.OpLabel, l.ids[b]))
		for _, inst := range b.Insts {
			if err := l.lowerInst(inst); err != nil {
				return err
			}
		}
		if err := l.lowerTerm(b.Term); err != nil {
			return err
		}
	}
	l.body = append(l.body, module.NewInst(core.OpFunctionEnd, core.NoID))
	return nil
}

func (l *lowerer) result(inst ir.Instruction) core.ID {
	return l.ids[inst.(value.Value)]
}

func (l *lowerer) lowerInst(inst ir.Instruction) error {
	switch inst := inst.(type) {
	case *ir.InstAdd:
		return l.emit(core.OpIAdd, l.result(inst), inst.X, inst.Y)
	case *ir.InstSub:
		return l.emit(core.OpISub, l.result(inst), inst.X, inst.Y)
	case *ir.InstMul:
		return l.emit(core.OpIMul, l.result(inst), inst.X, inst.Y)
	case *ir.InstICmp:
		switch inst.Pred {
		case enum.IPredEQ:
			return l.emit(core.OpIEqual, l.result(inst), inst.X, inst.Y)
		case enum.IPredSLT:
			return l.emit(core.OpSLessThan, l.result(inst), inst.X, inst.Y)
		default:
			return fmt.Errorf("unsupported icmp predicate %v", inst.Pred)
		}
	case *ir.InstSelect:
		return l.emit(core.OpSelect, l.result(inst), inst.Cond, inst.ValueTrue, inst.ValueFalse)
	case *ir.InstAlloca:
		return l.emit(core.OpVariable, l.result(inst))
	case *ir.InstLoad:
		return l.emit(core.OpLoad, l.result(inst), inst.Src)
	case *ir.InstStore:
		return l.emit(core.OpStore, core.NoID, inst.Dst, inst.Src)
	case *ir.InstCall:
		if _, ok := inst.Callee.(*ir.Func); !ok {
			return fmt.Errorf("unsupported indirect call through %v", inst.Callee.Ident())
		}
		return l.emit(core.OpFunctionCall, l.result(inst), append([]value.Value{inst.Callee}, inst.Args...)...)
	case *ir.InstPhi:
		vals := make([]value.Value, 0, 2*len(inst.Incs))
		for _, inc := range inst.Incs {
			vals = append(vals, inc.X, inc.Pred)
		}
		return l.emit(core.OpPhi, l.result(inst), vals...)
	default:
		return fmt.Errorf("unsupported instruction %T", inst)
	}
}

func (l *lowerer) lowerTerm(term ir.Terminator) error {
	switch term := term.(type) {
	case *ir.TermRet:
		if term.X == nil {
			return l.emit(core.OpReturn, core.NoID)
		}
		return l.emit(core.OpReturnValue, core.NoID, term.X)
	case *ir.TermBr:
		return l.emit(core.OpBranch, core.NoID, term.Target)
	case *ir.TermCondBr:
		return l.emit(core.OpBranchConditional, core.NoID, term.Cond, term.TargetTrue, term.TargetFalse)
	case *ir.TermUnreachable:
		return l.emit(core.OpUnreachable, core.NoID)
	default:
		return fmt.Errorf("unsupported terminator %T", term)
	}
}

func (l *lowerer) stream() []*module.Instruction {
	out := make([]*module.Instruction, 0, len(l.names)+len(l.vars)+len(l.constInsts)+len(l.body))
	out = append(out, l.names...)
	out = append(out, l.vars...)
	out = append(out, l.constInsts...)
	return append(out, l.body...)
}

// llvmBuild parses LLVM IR text and lowers it onto the 1.1 grammar.
func llvmBuild(consumer core.MessageConsumer, source, text string) (*module.Module, error) {
	fail := func(err error) (*module.Module, error) {
		consumer.Emit(core.LevelError, source, core.Position{}, err.Error())
		return nil, fmt.Errorf("building module: %w", err)
	}
	name := source
	if name == "" {
		name = "input.ll"
	}
	m, err := asm.ParseString(name, text)
	if err != nil {
		return fail(err)
	}
	l := newLowerer()
	if err := l.lowerModule(m); err != nil {
		return fail(err)
	}

	b := newBuilder(core.EnvLLVM.Version(), func(pos core.Position, msg string) {
		consumer.Emit(core.LevelError, source, pos, msg)
	})
	for i, in := range l.stream() {
		pos := core.Position{Index: i}
		b.add(in, func(int) core.Position { return pos })
	}
	return b.finish(core.Position{})
}
