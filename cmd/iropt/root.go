// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the main iropt program of this project.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iropt/core"
	"iropt/logger"
	"iropt/tools"
)

var rootCmd = cobra.Command{
	Use:           "iropt",
	Short:         "",
	Long:          "",
	SilenceUsage:  true,
	SilenceErrors: true,

	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("run 'iropt -h' for help")
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logger.ParseLevel(rootFlags.log)
		if err != nil {
			logger.Warnf("%v, using ERROR", err)
		}
		logger.SetLevel(level)
		if rootFlags.debug {
			logger.SetLevel(logger.DEBUG)
		}
		if rootFlags.quiet {
			logger.SetFileDescriptor(nil)
		}
	},
}

func init() {
	tools.RegEnv("IROPT_DEFAULT_ENV", core.EnvUniversal11.String(), "Default target environment of text inputs")
	tools.RegEnv("IROPT_DEFAULT_LOG", "ERROR", "Default log level")

	helpMessage :=
		`iropt -- Assemble, inspect and optimize IR modules`

	helpMessage += "\n\nEnvironment Variables:"
	for _, ev := range tools.GetEnvvars() {
		helpMessage += "\n  " + ev.Name + " " +
			"(default: \"" + ev.Defv + "\")\n\t" + ev.Desc
	}
	rootCmd.Long = helpMessage

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.log, "log", tools.GetEnv("IROPT_DEFAULT_LOG"), "log level (ERROR|WARN|INFO|DEBUG)")
	flags.StringVarP(&rootFlags.env, "env", "e", tools.GetEnv("IROPT_DEFAULT_ENV"), "target environment of text inputs")
	flags.StringVarP(&rootFlags.outputFn, "output", "o", "", "output file ('-' for stdout)")
	flags.BoolVarP(&rootFlags.debug, "debug", "d", false, "set debug mode")
	flags.BoolVarP(&rootFlags.quiet, "quiet", "q", false, "do not produce output")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	initAssemble()
	initDisassemble()
	initOptimize()
	initInfo()
}

var rootFlags struct {
	log      string
	env      string
	debug    bool
	quiet    bool
	outputFn string
}

func getEnv() (core.Env, error) {
	env, err := core.ParseEnv(rootFlags.env)
	if err != nil {
		return core.EnvUnknown, verror(usageError, err)
	}
	return env, nil
}

func handlePanic() {
	e := recover()
	if e == nil {
		return
	}
	logger.Errorf("panic: %v", e)
	os.Exit(int(internalError))
}

func main() {
	if !rootFlags.debug {
		defer handlePanic()
	}
	if err := rootCmd.Execute(); err != nil {
		if msg := getErrorMessage(err); msg != "" {
			logger.Error(msg)
		}
		os.Exit(getErrorCode(err))
	}
}
