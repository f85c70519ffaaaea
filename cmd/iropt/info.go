// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"iropt/logger"
)

func initInfo() {
	var infoCmd = cobra.Command{
		Use:   "info <input>...",
		Short: "Prints information about the input file(s).",
		Args:  IsArgsn,

		DisableFlagsInUseLine: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			for _, fn := range args {
				if err := Info(fn); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(&infoCmd)
}

// Info loads fn, validates it and prints a summary.
func Info(fn string) error {
	env, err := getEnv()
	if err != nil {
		return err
	}
	in, err := loadModule(fn, env, logger.Consumer())
	if err != nil {
		return err
	}
	logger.Debugf("Info %s", fn)

	var sb strings.Builder
	if err := in.mod.PrintSummary(&sb); err != nil {
		return verror(internalError, err)
	}
	logger.Printf("%s\n", fn)
	logger.Print(sb.String())
	return nil
}
