// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"strings"
)

// Binary layout constants.
const (
	// MagicNumber is the first word of every binary module.
	MagicNumber uint32 = 0x49524F50
	// GeneratorID identifies binaries written by this tool.
	GeneratorID uint32 = 0x0001_0000
	// HeaderWords is the number of words in the module header.
	HeaderWords = 5
	// MaxWordCount is the largest encodable instruction length.
	MaxWordCount = 0xFFFF
)

const wordBytes = 4

// EncodeString packs s into little-endian words, NUL-terminated and
// zero-padded to a word boundary.
func EncodeString(s string) []uint32 {
	b := []byte(s)
	b = append(b, 0)
	for len(b)%wordBytes != 0 {
		b = append(b, 0)
	}
	words := make([]uint32, 0, len(b)/wordBytes)
	for i := 0; i < len(b); i += wordBytes {
		words = append(words, uint32(b[i])|
			uint32(b[i+1])<<8|
			uint32(b[i+2])<<16|
			uint32(b[i+3])<<24)
	}
	return words
}

// StringWords returns the number of words EncodeString(s) produces.
func StringWords(s string) int {
	return len(s)/wordBytes + 1
}

// DecodeString unpacks a string from the start of words. It returns the
// string and the number of words consumed.
func DecodeString(words []uint32) (string, int, error) {
	var sb strings.Builder
	for i, w := range words {
		for k := 0; k < wordBytes; k++ {
			c := byte(w >> (8 * k))
			if c == 0 {
				return sb.String(), i + 1, nil
			}
			sb.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string literal")
}
