// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"sync"
)

// Level is the severity of a diagnostic.
type Level int

const (
	// LevelFatal reports an unrecoverable condition
	LevelFatal Level = iota
	// LevelInternalError reports a defect in the tool itself
	LevelInternalError
	// LevelError reports a defect in the input
	LevelError
	// LevelWarning reports a suspicious input
	LevelWarning
	// LevelInfo is informational
	LevelInfo
	// LevelDebug is for debugging output
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelFatal:
		return "fatal"
	case LevelInternalError:
		return "internal error"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// IsError reports whether l is Error or worse.
func (l Level) IsError() bool {
	return l <= LevelError
}

// Position is a location in a textual source. A zero Line means the
// position is unknown.
type Position struct {
	Line   int
	Column int
	Index  int // word or byte index, depending on the producer
}

// Known reports whether the position carries a location.
func (p Position) Known() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.Known() {
		return ""
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is a structured message produced by the codec or by a pass.
type Diagnostic struct {
	Level    Level
	Source   string
	Position Position
	Message  string
}

func (d Diagnostic) String() string {
	loc := d.Source
	if p := d.Position.String(); p != "" {
		if loc != "" {
			loc += ":"
		}
		loc += p
	}
	if loc == "" {
		return fmt.Sprintf("%v: %s", d.Level, d.Message)
	}
	return fmt.Sprintf("%s: %v: %s", loc, d.Level, d.Message)
}

// MessageConsumer receives diagnostics synchronously. A nil consumer
// drops everything.
type MessageConsumer func(d Diagnostic)

// Emit delivers a diagnostic to c, if c is not nil.
func (c MessageConsumer) Emit(level Level, source string, pos Position, msg string) {
	if c == nil {
		return
	}
	c(Diagnostic{Level: level, Source: source, Position: pos, Message: msg})
}

// Emitf works as Emit with a format string and no position.
func (c MessageConsumer) Emitf(level Level, source string, format string, args ...any) {
	c.Emit(level, source, Position{}, fmt.Sprintf(format, args...))
}

// Bag collects diagnostics. It is safe to share one Bag between
// independent pipelines.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Consumer returns a MessageConsumer appending to the bag.
func (b *Bag) Consumer() MessageConsumer {
	return func(d Diagnostic) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.items = append(b.items, d)
	}
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// HasErrors returns true if at least one diagnostic is an error or worse.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.items {
		if d.Level.IsError() {
			return true
		}
	}
	return false
}

// Reset drops all collected diagnostics.
func (b *Bag) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
}

// Tee returns a consumer that forwards to every non-nil consumer in cs.
func Tee(cs ...MessageConsumer) MessageConsumer {
	return func(d Diagnostic) {
		for _, c := range cs {
			if c != nil {
				c(d)
			}
		}
	}
}
