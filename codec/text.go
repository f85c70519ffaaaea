// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"iropt/core"
	"iropt/module"
)

type token struct {
	text string
	col  int // 1-based
}

// tokenize splits a line into whitespace separated tokens, keeping quoted
// strings whole and dropping a trailing ';' comment. On error, the
// returned column points at the offending character.
func tokenize(line string) ([]token, int, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == ';':
			return toks, 0, nil
		case c == '"':
			j := i + 1
			for ; j < len(line); j++ {
				if line[j] == '\\' {
					j++
					continue
				}
				if line[j] == '"' {
					break
				}
			}
			if j >= len(line) {
				return toks, i + 1, errors.New("unterminated string")
			}
			toks = append(toks, token{text: line[i : j+1], col: i + 1})
			i = j + 1
		default:
			j := i
			for j < len(line) && !strings.ContainsRune(" \t\r;\"", rune(line[j])) {
				j++
			}
			toks = append(toks, token{text: line[i:j], col: i + 1})
			i = j
		}
	}
	return toks, 0, nil
}

func parseID(s string) (core.ID, error) {
	if !strings.HasPrefix(s, "%") {
		return core.NoID, fmt.Errorf("expected an ID, got %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil || v == 0 {
		return core.NoID, fmt.Errorf("invalid ID %q", s)
	}
	return core.ID(v), nil
}

func parseLiteral(s string) (uint32, error) {
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base, digits = 16, s[2:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid literal %q", s)
	}
	return uint32(v), nil
}

func parseOperand(s string) (module.Operand, error) {
	switch {
	case strings.HasPrefix(s, "%"):
		id, err := parseID(s)
		return module.IDOperand(id), err
	case strings.HasPrefix(s, `"`):
		str, err := strconv.Unquote(s)
		if err != nil {
			return module.Operand{}, fmt.Errorf("invalid string %s", s)
		}
		if strings.IndexByte(str, 0) >= 0 {
			return module.Operand{}, fmt.Errorf("string %s contains a NUL character", s)
		}
		return module.StringOperand(str), nil
	default:
		v, err := parseLiteral(s)
		return module.LiteralOperand(v), err
	}
}

// textBuild assembles textual source into a module.
func textBuild(v core.Version, consumer core.MessageConsumer, source, text string) (*module.Module, error) {
	b := newBuilder(v, func(pos core.Position, msg string) {
		consumer.Emit(core.LevelError, source, pos, msg)
	})
	lines := strings.Split(text, "\n")
	for n, line := range lines {
		at := func(col int) core.Position {
			return core.Position{Line: n + 1, Column: col}
		}
		toks, col, err := tokenize(line)
		if err != nil {
			b.errorf(at(col), "%v", err)
			continue
		}
		if len(toks) == 0 {
			continue
		}

		result := core.NoID
		if len(toks) >= 2 && toks[1].text == "=" {
			id, err := parseID(toks[0].text)
			if err != nil {
				b.errorf(at(toks[0].col), "%v", err)
				continue
			}
			result = id
			toks = toks[2:]
			if len(toks) == 0 {
				b.errorf(at(len(line)+1), "missing opcode after '='")
				continue
			}
		}

		op, ok := core.LookupOpcode(toks[0].text)
		if !ok {
			b.errorf(at(toks[0].col), "unknown opcode %q", toks[0].text)
			continue
		}
		in := module.NewInst(op, result)
		bad := false
		for _, t := range toks[1:] {
			o, err := parseOperand(t.text)
			if err != nil {
				b.errorf(at(t.col), "%v", err)
				bad = true
				continue
			}
			in.Operands = append(in.Operands, o)
		}
		if bad {
			continue
		}
		opTok, args := toks[0], toks[1:]
		b.add(in, func(i int) core.Position {
			if i < 0 || i >= len(args) {
				return at(opTok.col)
			}
			return at(args[i].col)
		})
	}
	return b.finish(core.Position{Line: len(lines), Column: 1})
}
