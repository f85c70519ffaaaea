// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package logger

import (
	"github.com/fatih/color"

	"iropt/core"
)

var (
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	infoColor = color.New(color.FgCyan).SprintFunc()
	dbgColor  = color.New(color.FgHiBlack).SprintFunc()
)

// Consumer returns a message consumer printing diagnostics through the
// logger, filtered by the current level.
func Consumer() core.MessageConsumer {
	return func(d core.Diagnostic) {
		switch d.Level {
		case core.LevelFatal, core.LevelInternalError, core.LevelError:
			Error(errColor(d.Level.String()+":"), format(d))
		case core.LevelWarning:
			Warn(warnColor("warning:"), format(d))
		case core.LevelInfo:
			Info(infoColor("info:"), format(d))
		default:
			Debug(dbgColor("debug:"), format(d))
		}
	}
}

func format(d core.Diagnostic) string {
	loc := d.Source
	if p := d.Position.String(); p != "" {
		if loc != "" {
			loc += ":"
		}
		loc += p
	}
	if loc == "" {
		return d.Message
	}
	return loc + ": " + d.Message
}
