// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package module provides the in-memory IR: a module owning its preamble
// and functions, functions owning basic blocks, blocks owning
// instructions. Cross references between instructions are result IDs
// resolved through the module's ID table. A module can be mutated,
// validated, cloned, serialized to words and pretty-printed.
package module
