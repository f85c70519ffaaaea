// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

// PrintOptions controls the textual form produced by Print.
type PrintOptions struct {
	Header  bool // emit the module header as comments
	Color   bool // highlight opcodes and IDs with ANSI escapes
	SkipNop bool // leave OpNop out of the listing
}

// DefaultPrintOptions returns the options used by String.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{}
}
