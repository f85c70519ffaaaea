// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"encoding/binary"
	"fmt"
)

// WordsToBytes encodes words in little-endian byte order.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, 0, 4*len(words))
	for _, w := range words {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

// BytesToWords decodes little-endian words. The length of data must be a
// multiple of four.
func BytesToWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("binary of %d bytes is not a sequence of words", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return words, nil
}

// ReadWords reads a binary module from fn, or standard input if fn is
// Stdio.
func ReadWords(fn string) ([]uint32, error) {
	data, err := ReadFile(fn)
	if err != nil {
		return nil, err
	}
	words, err := BytesToWords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return words, nil
}

// WriteWords writes a binary module to fn, or standard output if fn is
// Stdio.
func WriteWords(fn string, words []uint32) error {
	return WriteFile(fn, WordsToBytes(words))
}

// IsBinary reports whether data starts with the little-endian magic
// number.
func IsBinary(data []byte, magic uint32) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == magic
}
