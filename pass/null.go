// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"iropt/core"
	"iropt/module"
)

// Null is a pass that never changes the module.
type Null struct {
	Base
}

// NewNull creates a Null pass.
func NewNull(consumer core.MessageConsumer) Pass {
	return &Null{Base: NewBase("null", consumer)}
}

// Process does nothing.
func (p *Null) Process(*module.Module) core.Status {
	return core.SuccessWithoutChange
}
