// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package core

import "fmt"

// OperandKind is the kind of an instruction operand.
type OperandKind int

const (
	// KindNone marks the absence of an operand
	KindNone OperandKind = iota
	// KindID is a reference to a result ID
	KindID
	// KindLiteral is a 32-bit literal number
	KindLiteral
	// KindString is a NUL-terminated literal string
	KindString
)

func (k OperandKind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindLiteral:
		return "literal"
	case KindString:
		return "string"
	default:
		return "none"
	}
}

// Opcode is the numeric operation code of an instruction.
type Opcode uint16

// Opcodes known to the grammar.
const (
	OpNop               Opcode = 0
	OpUndef             Opcode = 1
	OpSourceContinued   Opcode = 2
	OpSource            Opcode = 3
	OpName              Opcode = 5
	OpString            Opcode = 7
	OpExtension         Opcode = 10
	OpCapability        Opcode = 17
	OpConstantTrue      Opcode = 41
	OpConstantFalse     Opcode = 42
	OpConstant          Opcode = 43
	OpFunction          Opcode = 54
	OpFunctionParameter Opcode = 55
	OpFunctionEnd       Opcode = 56
	OpFunctionCall      Opcode = 57
	OpVariable          Opcode = 59
	OpLoad              Opcode = 61
	OpStore             Opcode = 62
	OpCopyObject        Opcode = 83
	OpIAdd              Opcode = 128
	OpISub              Opcode = 130
	OpIMul              Opcode = 132
	OpSelect            Opcode = 169
	OpIEqual            Opcode = 170
	OpSLessThan         Opcode = 177
	OpPhi               Opcode = 245
	OpLabel             Opcode = 248
	OpBranch            Opcode = 249
	OpBranchConditional Opcode = 250
	OpReturn            Opcode = 253
	OpReturnValue       Opcode = 254
	OpUnreachable       Opcode = 255
)

// OpcodeInfo is the grammar entry of an opcode.
type OpcodeInfo struct {
	Name       string
	Result     bool          // whether the instruction defines a result ID
	Operands   []OperandKind // fixed operands, in order
	Rest       OperandKind   // kind repeated zero or more times after Operands
	MinVersion Version
	Terminator bool // ends a basic block
	Debug      bool // carries no semantics
}

var (
	id1 = []OperandKind{KindID}
	id2 = []OperandKind{KindID, KindID}
	id3 = []OperandKind{KindID, KindID, KindID}
	str = []OperandKind{KindString}
)

var grammar = map[Opcode]*OpcodeInfo{
	OpNop:               {Name: "OpNop"},
	OpUndef:             {Name: "OpUndef", Result: true},
	OpSourceContinued:   {Name: "OpSourceContinued", Operands: str, Debug: true},
	OpSource:            {Name: "OpSource", Operands: str, Debug: true},
	OpName:              {Name: "OpName", Operands: []OperandKind{KindID, KindString}, Debug: true},
	OpString:            {Name: "OpString", Result: true, Operands: str, Debug: true},
	OpExtension:         {Name: "OpExtension", Operands: str},
	OpCapability:        {Name: "OpCapability", Operands: []OperandKind{KindLiteral}},
	OpConstantTrue:      {Name: "OpConstantTrue", Result: true},
	OpConstantFalse:     {Name: "OpConstantFalse", Result: true},
	OpConstant:          {Name: "OpConstant", Result: true, Operands: []OperandKind{KindLiteral}},
	OpFunction:          {Name: "OpFunction", Result: true},
	OpFunctionParameter: {Name: "OpFunctionParameter", Result: true},
	OpFunctionEnd:       {Name: "OpFunctionEnd"},
	OpFunctionCall:      {Name: "OpFunctionCall", Result: true, Operands: id1, Rest: KindID},
	OpVariable:          {Name: "OpVariable", Result: true},
	OpLoad:              {Name: "OpLoad", Result: true, Operands: id1},
	OpStore:             {Name: "OpStore", Operands: id2},
	OpCopyObject:        {Name: "OpCopyObject", Result: true, Operands: id1},
	OpIAdd:              {Name: "OpIAdd", Result: true, Operands: id2},
	OpISub:              {Name: "OpISub", Result: true, Operands: id2},
	OpIMul:              {Name: "OpIMul", Result: true, Operands: id2},
	OpSelect:            {Name: "OpSelect", Result: true, Operands: id3, MinVersion: Version11},
	OpIEqual:            {Name: "OpIEqual", Result: true, Operands: id2},
	OpSLessThan:         {Name: "OpSLessThan", Result: true, Operands: id2},
	OpPhi:               {Name: "OpPhi", Result: true, Rest: KindID},
	OpLabel:             {Name: "OpLabel", Result: true},
	OpBranch:            {Name: "OpBranch", Operands: id1, Terminator: true},
	OpBranchConditional: {Name: "OpBranchConditional", Operands: id3, Terminator: true},
	OpReturn:            {Name: "OpReturn", Terminator: true},
	OpReturnValue:       {Name: "OpReturnValue", Operands: id1, Terminator: true},
	OpUnreachable:       {Name: "OpUnreachable", Terminator: true},
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(grammar))
	for op, info := range grammar {
		m[info.Name] = op
	}
	return m
}()

// Info returns the grammar entry of the opcode, or nil if it is unknown.
func (op Opcode) Info() *OpcodeInfo {
	return grammar[op]
}

// Known reports whether op is part of the grammar.
func (op Opcode) Known() bool {
	_, ok := grammar[op]
	return ok
}

func (op Opcode) String() string {
	if info := grammar[op]; info != nil {
		return info.Name
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// IsNop reports whether op is a semantic no-op.
func (op Opcode) IsNop() bool {
	return op == OpNop
}

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	info := grammar[op]
	return info != nil && info.Terminator
}

// IsDebug reports whether op only carries debug information.
func (op Opcode) IsDebug() bool {
	info := grammar[op]
	return info != nil && info.Debug
}

// HasResult reports whether op defines a result ID.
func (op Opcode) HasResult() bool {
	info := grammar[op]
	return info != nil && info.Result
}

// AvailableIn reports whether op can be encoded in a module of version v.
func (op Opcode) AvailableIn(v Version) bool {
	info := grammar[op]
	return info != nil && v >= info.MinVersion
}

// LookupOpcode finds an opcode by its name, eg, "OpIAdd".
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := byName[name]
	return op, ok
}

// OperandKindAt returns the expected kind of the i-th operand of op, or
// KindNone if op does not take that many operands.
func (op Opcode) OperandKindAt(i int) OperandKind {
	info := grammar[op]
	switch {
	case info == nil || i < 0:
		return KindNone
	case i < len(info.Operands):
		return info.Operands[i]
	default:
		return info.Rest
	}
}

// CheckArity returns an error if n operands do not fit the grammar of op.
func (op Opcode) CheckArity(n int) error {
	info := grammar[op]
	if info == nil {
		return fmt.Errorf("unknown opcode %d", uint16(op))
	}
	want := len(info.Operands)
	switch {
	case n < want:
		return fmt.Errorf("%s expects at least %d operands, got %d", info.Name, want, n)
	case n > want && info.Rest == KindNone:
		return fmt.Errorf("%s expects %d operands, got %d", info.Name, want, n)
	default:
		return nil
	}
}
