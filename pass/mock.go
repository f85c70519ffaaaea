// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"iropt/core"
	"iropt/module"
)

// Mock is a simple mock pass for testing. It applies Mutate, if set, and
// returns Status.
type Mock struct {
	Status core.Status
	Mutate func(m *module.Module)
	Label  string
	Calls  int
}

// Factory returns a factory handing out this very mock.
func (p *Mock) Factory() Factory {
	return func(core.MessageConsumer) Pass {
		return p
	}
}

// Name returns the label of the mock.
func (p *Mock) Name() string {
	if p.Label == "" {
		return "mock"
	}
	return p.Label
}

// Process records the call and returns the configured status.
func (p *Mock) Process(m *module.Module) core.Status {
	p.Calls++
	if p.Mutate != nil {
		p.Mutate(m)
	}
	return p.Status
}
