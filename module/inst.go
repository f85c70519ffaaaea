// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"

	"fortio.org/safecast"

	"iropt/core"
)

// Operand is a single operand of an instruction. Only the field matching
// Kind is meaningful.
type Operand struct {
	Kind    core.OperandKind
	ID      core.ID
	Literal uint32
	Str     string
}

// IDOperand returns an operand referencing id.
func IDOperand(id core.ID) Operand {
	return Operand{Kind: core.KindID, ID: id}
}

// LiteralOperand returns a literal number operand.
func LiteralOperand(v uint32) Operand {
	return Operand{Kind: core.KindLiteral, Literal: v}
}

// StringOperand returns a literal string operand.
func StringOperand(s string) Operand {
	return Operand{Kind: core.KindString, Str: s}
}

// NumWords returns the encoded size of the operand.
func (o Operand) NumWords() int {
	if o.Kind == core.KindString {
		return core.StringWords(o.Str)
	}
	return 1
}

// Instruction is one operation of the IR. Result is core.NoID for
// instructions that do not define a value.
type Instruction struct {
	Opcode   core.Opcode
	Result   core.ID
	Operands []Operand
}

// NewInst creates an instruction.
func NewInst(op core.Opcode, result core.ID, operands ...Operand) *Instruction {
	return &Instruction{
		Opcode:   op,
		Result:   result,
		Operands: operands,
	}
}

// ForEachID calls fn with a pointer to every ID operand, so fn may
// rewrite it in place.
func (in *Instruction) ForEachID(fn func(id *core.ID)) {
	for i := range in.Operands {
		if in.Operands[i].Kind == core.KindID {
			fn(&in.Operands[i].ID)
		}
	}
}

// Uses reports whether in references id as an operand.
func (in *Instruction) Uses(id core.ID) bool {
	for _, o := range in.Operands {
		if o.Kind == core.KindID && o.ID == id {
			return true
		}
	}
	return false
}

// NumWords returns the encoded length of the instruction, including the
// leading word-count/opcode word.
func (in *Instruction) NumWords() int {
	n := 1
	if in.Result != core.NoID {
		n++
	}
	for _, o := range in.Operands {
		n += o.NumWords()
	}
	return n
}

// Equal reports whether in and o encode to the same words.
func (in *Instruction) Equal(o *Instruction) bool {
	if in.Opcode != o.Opcode || in.Result != o.Result || len(in.Operands) != len(o.Operands) {
		return false
	}
	for i := range in.Operands {
		if in.Operands[i] != o.Operands[i] {
			return false
		}
	}
	return true
}

func (in *Instruction) String() string {
	return formatInst(in, nil)
}

func (in *Instruction) appendWords(words []uint32) ([]uint32, error) {
	count, err := safecast.Conv[uint16](in.NumWords())
	if err != nil {
		return words, fmt.Errorf("%v needs %d words, more than %d: %w", in.Opcode, in.NumWords(), core.MaxWordCount, err)
	}
	words = append(words, uint32(count)<<16|uint32(in.Opcode))
	if in.Result != core.NoID {
		words = append(words, uint32(in.Result))
	}
	for _, o := range in.Operands {
		switch o.Kind {
		case core.KindID:
			words = append(words, uint32(o.ID))
		case core.KindLiteral:
			words = append(words, o.Literal)
		case core.KindString:
			words = append(words, core.EncodeString(o.Str)...)
		default:
			return words, fmt.Errorf("%v has an operand of kind %v", in.Opcode, o.Kind)
		}
	}
	return words, nil
}
