// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"
	"strings"

	"iropt/core"
	"iropt/module"
)

// Build assembles text into a module for env. Failures are reported to
// consumer with their position and no module is returned.
func Build(env core.Env, consumer core.MessageConsumer, text string) (*module.Module, error) {
	return BuildSource(env, consumer, "", text)
}

// BuildSource works as Build and names the input in diagnostics.
func BuildSource(env core.Env, consumer core.MessageConsumer, source, text string) (*module.Module, error) {
	switch env {
	case core.EnvUniversal10, core.EnvUniversal11:
		return textBuild(env.Version(), consumer, source, text)
	case core.EnvLLVM:
		return llvmBuild(consumer, source, text)
	default:
		err := fmt.Errorf("unsupported environment %v", env)
		consumer.Emit(core.LevelError, source, core.Position{}, err.Error())
		return nil, err
	}
}

// Assemble builds text and serializes the result.
func Assemble(env core.Env, consumer core.MessageConsumer, text string) ([]uint32, error) {
	m, err := Build(env, consumer, text)
	if err != nil {
		return nil, err
	}
	words, err := m.ToBinary(false)
	if err != nil {
		consumer.Emit(core.LevelError, "", core.Position{}, err.Error())
		return nil, err
	}
	return words, nil
}

// Parse decodes a binary module.
func Parse(consumer core.MessageConsumer, words []uint32) (*module.Module, error) {
	return binaryBuild(consumer, "", words)
}

// ParseSource works as Parse and names the input in diagnostics.
func ParseSource(consumer core.MessageConsumer, source string, words []uint32) (*module.Module, error) {
	return binaryBuild(consumer, source, words)
}

// DisassembleOption adjusts the textual rendering.
type DisassembleOption func(o *module.PrintOptions)

// WithHeader prints the module header as comments.
func WithHeader() DisassembleOption {
	return func(o *module.PrintOptions) { o.Header = true }
}

// WithColor highlights the listing with ANSI escapes.
func WithColor() DisassembleOption {
	return func(o *module.PrintOptions) { o.Color = true }
}

// Disassemble parses words and renders the canonical text.
func Disassemble(consumer core.MessageConsumer, words []uint32, opts ...DisassembleOption) (string, error) {
	m, err := Parse(consumer, words)
	if err != nil {
		return "", err
	}
	po := module.DefaultPrintOptions()
	for _, opt := range opts {
		opt(&po)
	}
	var sb strings.Builder
	if err := m.Print(&sb, po); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Tools bundles the codec operations for one environment and one sink.
type Tools struct {
	env      core.Env
	consumer core.MessageConsumer
}

// NewTools returns codec tools for env with no message consumer.
func NewTools(env core.Env) *Tools {
	return &Tools{env: env}
}

// Env returns the environment the tools were created for.
func (t *Tools) Env() core.Env {
	return t.env
}

// SetMessageConsumer installs the sink receiving codec diagnostics.
func (t *Tools) SetMessageConsumer(c core.MessageConsumer) {
	t.consumer = c
}

// Build assembles text into a module.
func (t *Tools) Build(text string) (*module.Module, error) {
	return Build(t.env, t.consumer, text)
}

// Assemble assembles text into binary words.
func (t *Tools) Assemble(text string) ([]uint32, error) {
	return Assemble(t.env, t.consumer, text)
}

// Disassemble renders binary words as text.
func (t *Tools) Disassemble(words []uint32, opts ...DisassembleOption) (string, error) {
	return Disassemble(t.consumer, words, opts...)
}
