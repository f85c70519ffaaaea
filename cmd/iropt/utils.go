// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"iropt/codec"
	"iropt/core"
	"iropt/logger"
	"iropt/module"
	"iropt/tools"
)

// IsArgsn ensures there are 1 or more arguments
func IsArgsn(_ *cobra.Command, args []string) error {
	if len(args) < 1 {
		return verror(usageError, fmt.Errorf("no input file specified"))
	}
	return nil
}

// IsArgs1 ensures there is exactly one argument
func IsArgs1(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return verror(usageError, fmt.Errorf("expected one input file, got %d", len(args)))
	}
	return nil
}

// input is a module loaded from a file together with the format it was
// read in.
type input struct {
	fn     string
	binary bool
	mod    *module.Module
}

// loadModule reads fn as a binary module if it starts with the magic
// number, and as text for env otherwise.
func loadModule(fn string, env core.Env, consumer core.MessageConsumer) (*input, error) {
	logger.Debugf("Load '%s'", fn)
	if err := tools.FileExists(fn); err != nil {
		return nil, verror(usageError, err)
	}
	data, err := tools.ReadFile(fn)
	if err != nil {
		return nil, verror(internalError, err)
	}

	in := &input{fn: fn, binary: tools.IsBinary(data, core.MagicNumber)}
	if in.binary {
		words, err := tools.BytesToWords(data)
		if err != nil {
			return nil, verror(buildError, fmt.Errorf("%s: %w", fn, err))
		}
		in.mod, err = codec.ParseSource(consumer, fn, words)
		if err != nil {
			return nil, verror(buildError, errors.New(fn+": could not parse module"))
		}
		return in, nil
	}
	in.mod, err = codec.BuildSource(env, consumer, fn, string(data))
	if err != nil {
		return nil, verror(buildError, errors.New(fn+": could not build module"))
	}
	return in, nil
}

// writeBinary serializes m into fn. Binary output to a terminal is
// refused.
func writeBinary(m *module.Module, fn string, skipNop bool) error {
	if fn == tools.Stdio && term.IsTerminal(int(os.Stdout.Fd())) {
		return verror(usageError, fmt.Errorf("refusing to write a binary module to a terminal, use -o"))
	}
	words, err := m.ToBinary(skipNop)
	if err != nil {
		return verror(internalError, err)
	}
	if err := tools.WriteWords(fn, words); err != nil {
		return verror(internalError, err)
	}
	return nil
}

// writeText renders m into fn.
func writeText(m *module.Module, fn string, opts module.PrintOptions) error {
	var sb strings.Builder
	if err := m.Print(&sb, opts); err != nil {
		return verror(internalError, err)
	}
	if err := tools.WriteFile(fn, []byte(sb.String())); err != nil {
		return verror(internalError, err)
	}
	return nil
}

// outputName returns the output file of input fn: the -o flag if given,
// otherwise fn with its extension replaced by ext. Standard input maps to
// standard output.
func outputName(fn, ext string) string {
	if rootFlags.outputFn != "" {
		return rootFlags.outputFn
	}
	if fn == tools.Stdio {
		return tools.Stdio
	}
	return strings.TrimSuffix(fn, filepath.Ext(fn)) + ext
}

func addSkipNopFlag(flags *pflag.FlagSet, p *bool, what string) {
	flags.BoolVar(p, "skip-nop", false, "leave OpNop out of the "+what)
}
