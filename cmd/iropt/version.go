// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"iropt/core"
	"iropt/logger"
)

var (
	name    = "iropt"
	version = "latest"
)

var versionCmd = cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Printf("%s %s (environments: %v)\n", name, version, core.EnvNames())
	},
}

func init() {
	versionCmd.SetHelpFunc(func(command *cobra.Command, strings []string) {})
	rootCmd.AddCommand(&versionCmd)
}
