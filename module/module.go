// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"

	"iropt/core"
)

// Header holds the module-level words written before any instruction.
type Header struct {
	Version   core.Version
	Generator uint32
	Bound     uint32 // every result ID is smaller than Bound
	Schema    uint32
}

// Module is the in-memory representation of a program. It owns its
// preamble instructions and functions; IDs referenced by operands are
// resolved through the module's ID table.
type Module struct {
	Header    Header
	Preamble  []*Instruction // module-level instructions before the first function
	Functions []*Function

	defs map[core.ID]*Instruction
}

// Function is a sequence of basic blocks delimited by OpFunction and
// OpFunctionEnd. A function without blocks is a declaration.
type Function struct {
	Def    *Instruction
	Params []*Instruction
	Blocks []*BasicBlock
	End    *Instruction
}

// BasicBlock is a labelled sequence of instructions. The first block of
// a function is its entry block.
type BasicBlock struct {
	Label *Instruction
	Insts []*Instruction
}

// New returns an empty module of version v.
func New(v core.Version) *Module {
	return &Module{
		Header: Header{
			Version:   v,
			Generator: core.GeneratorID,
			Bound:     1,
		},
		defs: make(map[core.ID]*Instruction),
	}
}

// NewFunction returns a function with result id and no blocks.
func NewFunction(id core.ID) *Function {
	return &Function{
		Def: NewInst(core.OpFunction, id),
		End: NewInst(core.OpFunctionEnd, core.NoID),
	}
}

// NewBlock returns an empty block labelled id.
func NewBlock(id core.ID) *BasicBlock {
	return &BasicBlock{Label: NewInst(core.OpLabel, id)}
}

// ID returns the result ID of the function.
func (f *Function) ID() core.ID {
	if f.Def == nil {
		return core.NoID
	}
	return f.Def.Result
}

// Entry returns the entry block, or nil for a declaration.
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// AddParam appends a parameter instruction.
func (f *Function) AddParam(in *Instruction) {
	f.Params = append(f.Params, in)
}

// AddBlock appends a block.
func (f *Function) AddBlock(b *BasicBlock) {
	f.Blocks = append(f.Blocks, b)
}

// ID returns the label ID of the block.
func (b *BasicBlock) ID() core.ID {
	if b.Label == nil {
		return core.NoID
	}
	return b.Label.Result
}

// AddInst appends an instruction to the block.
func (b *BasicBlock) AddInst(in *Instruction) {
	b.Insts = append(b.Insts, in)
}

// Terminator returns the last instruction if it ends the block, or nil.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Insts) == 0 {
		return nil
	}
	if last := b.Insts[len(b.Insts)-1]; last.Opcode.IsTerminator() {
		return last
	}
	return nil
}

// Def looks up the instruction defining id.
func (m *Module) Def(id core.ID) (*Instruction, bool) {
	in, ok := m.defs[id]
	return in, ok
}

// HasDef reports whether id is defined in the module.
func (m *Module) HasDef(id core.ID) bool {
	_, ok := m.defs[id]
	return ok
}

// NumDefs returns the size of the ID table.
func (m *Module) NumDefs() int {
	return len(m.defs)
}

// Define registers the result of in in the ID table. Defining a zero or
// already defined ID is a programming error and panics.
func (m *Module) Define(in *Instruction) {
	if err := m.define(in); err != nil {
		panic(err)
	}
}

func (m *Module) define(in *Instruction) error {
	if in.Result == core.NoID {
		return fmt.Errorf("module: %v defines no result", in.Opcode)
	}
	if _, has := m.defs[in.Result]; has {
		return fmt.Errorf("module: already has a definition of %%%d", in.Result)
	}
	if m.defs == nil {
		m.defs = make(map[core.ID]*Instruction)
	}
	m.defs[in.Result] = in
	if uint32(in.Result) >= m.Header.Bound {
		m.Header.Bound = uint32(in.Result) + 1
	}
	return nil
}

// TakeNextID reserves a fresh ID and grows Bound.
func (m *Module) TakeNextID() core.ID {
	if m.Header.Bound == 0 {
		m.Header.Bound = 1
	}
	id := core.ID(m.Header.Bound)
	m.Header.Bound++
	return id
}

// AddPreamble appends a module-level instruction and defines its result.
func (m *Module) AddPreamble(in *Instruction) {
	m.Preamble = append(m.Preamble, in)
	if in.Result != core.NoID {
		m.Define(in)
	}
}

// AddFunction appends a function and defines every result inside it.
func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
	f.ForEachInst(func(in *Instruction) {
		if in.Result != core.NoID {
			m.Define(in)
		}
	})
}

// Reindex rebuilds the ID table from the instruction tree. It fails if
// two instructions define the same ID. Bound is left untouched.
func (m *Module) Reindex() error {
	bound := m.Header.Bound
	m.defs = make(map[core.ID]*Instruction)
	var err error
	m.ForEachInst(func(in *Instruction) {
		if err != nil || in.Result == core.NoID {
			return
		}
		err = m.define(in)
	})
	m.Header.Bound = bound
	return err
}

// Function returns the function with result id.
func (m *Module) Function(id core.ID) (*Function, bool) {
	for _, f := range m.Functions {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}
