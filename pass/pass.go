// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pass defines the contract of a module transformation and
// provides a handful of generic passes plus a registry to create them by
// name.
package pass

import (
	"fmt"

	"iropt/core"
	"iropt/module"
)

// Pass interface consists of one function that transforms the module in
// place and reports the outcome. A pass returning core.Failure leaves
// the module in an unspecified state.
type Pass interface {
	Process(m *module.Module) core.Status
}

// Factory creates a pass reporting to consumer. Per-pass configuration
// is captured by the factory itself.
type Factory func(consumer core.MessageConsumer) Pass

// Named is implemented by passes that want to be reported by name.
type Named interface {
	Name() string
}

// Name returns the name of p for reports and logs.
func Name(p Pass) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

// Base holds what most passes need: a name and the message consumer.
type Base struct {
	name     string
	consumer core.MessageConsumer
}

// NewBase creates a Base.
func NewBase(name string, consumer core.MessageConsumer) Base {
	return Base{name: name, consumer: consumer}
}

// Name returns the name of the pass.
func (b *Base) Name() string {
	return b.name
}

// Consumer returns the message consumer of the pass, possibly nil.
func (b *Base) Consumer() core.MessageConsumer {
	return b.consumer
}

// Errorf emits an error diagnostic attributed to the pass.
func (b *Base) Errorf(format string, args ...any) {
	b.consumer.Emitf(core.LevelError, b.name, format, args...)
}

// Warnf emits a warning attributed to the pass.
func (b *Base) Warnf(format string, args ...any) {
	b.consumer.Emitf(core.LevelWarning, b.name, format, args...)
}

// Debugf emits a debug message attributed to the pass.
func (b *Base) Debugf(format string, args ...any) {
	b.consumer.Emitf(core.LevelDebug, b.name, format, args...)
}

func changed(yes bool) core.Status {
	if yes {
		return core.SuccessWithChange
	}
	return core.SuccessWithoutChange
}
