// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"iropt/logger"
	"iropt/module"
	"iropt/tools"
)

var disassembleCmd = cobra.Command{
	Use:   "dis [flags] <input.bin|->",
	Short: "Prints a module in its canonical text form",
	Args:  IsArgs1,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := rootFlags.outputFn
		if out == "" {
			out = tools.Stdio
		}
		return Disassemble(args[0], out)
	},

	DisableFlagsInUseLine: true,
}

var disassembleFlags struct {
	header  bool
	color   bool
	skipNop bool
}

func initDisassemble() {
	rootCmd.AddCommand(&disassembleCmd)
	flags := disassembleCmd.Flags()
	flags.BoolVar(&disassembleFlags.header, "header", false, "print the module header as comments")
	flags.BoolVar(&disassembleFlags.color, "color", false, "highlight opcodes and IDs")
	addSkipNopFlag(flags, &disassembleFlags.skipNop, "listing")
}

// Disassemble loads fn, binary or text, and writes its canonical text
// to out.
func Disassemble(fn, out string) error {
	env, err := getEnv()
	if err != nil {
		return err
	}
	in, err := loadModule(fn, env, logger.Consumer())
	if err != nil {
		return err
	}
	opts := module.DefaultPrintOptions()
	opts.Header = disassembleFlags.header
	opts.Color = disassembleFlags.color
	opts.SkipNop = disassembleFlags.skipNop
	return writeText(in.mod, out, opts)
}
