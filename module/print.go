// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"iropt/core"
)

type palette struct {
	op, id, lit, str, comment func(a ...interface{}) string
}

func forced(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintFunc()
}

var (
	plain = &palette{
		op:      fmt.Sprint,
		id:      fmt.Sprint,
		lit:     fmt.Sprint,
		str:     fmt.Sprint,
		comment: fmt.Sprint,
	}
	colored = &palette{
		op:      forced(color.FgCyan),
		id:      forced(color.FgYellow),
		lit:     forced(color.FgMagenta),
		str:     forced(color.FgGreen),
		comment: forced(color.FgHiBlack),
	}
)

// FormatID returns the textual form of an ID, eg, "%7".
func FormatID(id core.ID) string {
	return "%" + strconv.FormatUint(uint64(id), 10)
}

func formatOperand(o Operand, p *palette) string {
	switch o.Kind {
	case core.KindID:
		return p.id(FormatID(o.ID))
	case core.KindLiteral:
		return p.lit(strconv.FormatUint(uint64(o.Literal), 10))
	case core.KindString:
		return p.str(strconv.Quote(o.Str))
	default:
		return "?"
	}
}

func formatInst(in *Instruction, p *palette) string {
	if p == nil {
		p = plain
	}
	var sb strings.Builder
	if in.Result != core.NoID {
		sb.WriteString(p.id(FormatID(in.Result)))
		sb.WriteString(" = ")
	}
	sb.WriteString(p.op(in.Opcode.String()))
	for _, o := range in.Operands {
		sb.WriteByte(' ')
		sb.WriteString(formatOperand(o, p))
	}
	return sb.String()
}

// Lines returns the textual form of the module, one instruction per line.
func (m *Module) Lines(opts PrintOptions) []string {
	var lines []string
	p := plain
	if opts.Color {
		p = colored
	}
	if opts.Header {
		for _, h := range []string{
			fmt.Sprintf("; Version: %v", m.Header.Version),
			fmt.Sprintf("; Generator: 0x%08x", m.Header.Generator),
			fmt.Sprintf("; Bound: %d", m.Header.Bound),
			fmt.Sprintf("; Schema: %d", m.Header.Schema),
		} {
			lines = append(lines, p.comment(h))
		}
	}
	m.ForEachInst(func(in *Instruction) {
		if opts.SkipNop && in.Opcode.IsNop() {
			return
		}
		lines = append(lines, formatInst(in, p))
	})
	return lines
}

// Print writes the textual form of the module to w.
func (m *Module) Print(w io.Writer, opts PrintOptions) error {
	bw := bufio.NewWriter(w)
	for _, l := range m.Lines(opts) {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (m *Module) String() string {
	var sb strings.Builder
	for _, l := range m.Lines(DefaultPrintOptions()) {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
