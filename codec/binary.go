// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"
	"math/bits"

	"fortio.org/safecast"

	"iropt/core"
	"iropt/module"
)

func binaryBuild(consumer core.MessageConsumer, source string, words []uint32) (*module.Module, error) {
	fail := func(index int, format string, args ...any) (*module.Module, error) {
		msg := fmt.Sprintf(format, args...)
		consumer.Emit(core.LevelError, source, core.Position{Index: index}, fmt.Sprintf("word %d: %s", index, msg))
		return nil, fmt.Errorf("parsing module: word %d: %s", index, msg)
	}

	if len(words) < core.HeaderWords {
		return fail(0, "truncated header: %d words", len(words))
	}
	switch words[0] {
	case core.MagicNumber:
	case bits.ReverseBytes32(core.MagicNumber):
		return fail(0, "byte-swapped module")
	default:
		return fail(0, "bad magic number 0x%08x", words[0])
	}
	version := core.Version(words[1])
	if version != core.Version10 && version != core.Version11 {
		return fail(1, "unsupported version %v", version)
	}

	b := newBuilder(version, func(pos core.Position, msg string) {
		consumer.Emit(core.LevelError, source, pos, fmt.Sprintf("word %d: %s", pos.Index, msg))
	})
	at := func(i int) core.Position { return core.Position{Index: i} }

	for i := core.HeaderWords; i < len(words); {
		count, err := safecast.Conv[int](words[i] >> 16)
		if err != nil || count == 0 {
			b.errorf(at(i), "invalid word count %d", words[i]>>16)
			break
		}
		end := i + count
		if end > len(words) {
			b.errorf(at(i), "instruction needs %d words, only %d left", count, len(words)-i)
			break
		}
		op := core.Opcode(words[i] & 0xFFFF)
		if !op.Known() {
			b.errorf(at(i), "unknown opcode %d", uint16(op))
			i = end
			continue
		}

		in := module.NewInst(op, core.NoID)
		j := i + 1
		if op.HasResult() {
			if j >= end {
				b.errorf(at(i), "%v is missing its result", op)
				i = end
				continue
			}
			in.Result = core.ID(words[j])
			j++
		}
		starts := make([]int, 0, end-j)
		for ok := true; ok && j < end; {
			starts = append(starts, j)
			switch kind := op.OperandKindAt(len(in.Operands)); kind {
			case core.KindID:
				in.Operands = append(in.Operands, module.IDOperand(core.ID(words[j])))
				j++
			case core.KindLiteral:
				in.Operands = append(in.Operands, module.LiteralOperand(words[j]))
				j++
			case core.KindString:
				s, n, err := core.DecodeString(words[j:end])
				if err != nil {
					b.errorf(at(j), "%v", err)
					ok = false
					break
				}
				in.Operands = append(in.Operands, module.StringOperand(s))
				j += n
			default:
				b.errorf(at(j), "%v has %d trailing words", op, end-j)
				ok = false
			}
		}
		if j == end {
			start := i
			b.add(in, func(k int) core.Position {
				if k < 0 || k >= len(starts) {
					return at(start)
				}
				return at(starts[k])
			})
		}
		i = end
	}

	m, err := b.finish(at(len(words)))
	if err != nil {
		return nil, err
	}
	bound := words[3]
	if bound < m.Header.Bound {
		return fail(3, "bound %d does not cover ID %d", bound, m.Header.Bound-1)
	}
	m.Header.Generator = words[2]
	m.Header.Bound = bound
	m.Header.Schema = words[4]
	return m, nil
}
