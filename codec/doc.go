// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package codec converts between the textual assembly, the binary word
// encoding and the in-memory module. It also lowers a subset of LLVM IR
// onto the same instruction set. A failing conversion never returns a
// partial module: it emits diagnostics and returns an error.
package codec
