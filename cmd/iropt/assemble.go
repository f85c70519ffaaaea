// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"iropt/logger"
)

var assembleCmd = cobra.Command{
	Use:   "as [flags] <input.s|->",
	Short: "Assembles a text module into its binary form",
	Args:  IsArgs1,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Assemble(args[0], outputName(args[0], ".bin"))
	},

	DisableFlagsInUseLine: true,
}

var assembleFlags struct {
	skipNop bool
}

func initAssemble() {
	rootCmd.AddCommand(&assembleCmd)
	flags := assembleCmd.Flags()
	addSkipNopFlag(flags, &assembleFlags.skipNop, "binary")
}

// Assemble builds the text module fn and writes its binary to out.
func Assemble(fn, out string) error {
	env, err := getEnv()
	if err != nil {
		return err
	}
	in, err := loadModule(fn, env, logger.Consumer())
	if err != nil {
		return err
	}
	logger.Infof("Assemble '%s' -> '%s'", fn, out)
	return writeBinary(in.mod, out, assembleFlags.skipNop)
}
