// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logger implements a simple logger with a few error levels.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the amount of detail in which the log is output.
type Level int

const (
	fatal Level = iota
	// ERROR only log errors
	ERROR
	// WARN only log warnings and errors
	WARN
	// INFO log information, warnings and errors
	INFO
	// DEBUG log as much as possible
	DEBUG
)

// ParseLevel converts a level name such as "INFO" into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "ERROR":
		return ERROR, nil
	case "WARN":
		return WARN, nil
	case "INFO":
		return INFO, nil
	case "DEBUG":
		return DEBUG, nil
	default:
		return ERROR, fmt.Errorf("unknown log level %q", s)
	}
}

var (
	mu     sync.Mutex
	logger *bufio.Writer
	level  = ERROR
)

func init() {
	logger = bufio.NewWriter(os.Stdout)
}

// SetFileDescriptor sets the file descriptor to which the output is sent.
// If fd is nil, no output is shown.
func SetFileDescriptor(fd *os.File) {
	if fd == nil {
		SetWriter(nil)
		return
	}
	SetWriter(fd)
}

// SetWriter sets the writer to which the output is sent. If w is nil, no
// output is shown.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		logger = nil
		return
	}
	logger = bufio.NewWriter(w)
}

// SetLevel reconfigures the error level of the logger.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the current error level.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func enabled(l Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return logger != nil && level >= l
}

// Error works as fmt.Print, but it adds a newline at the end of the format string.
func Error(args ...any) {
	if !enabled(ERROR) {
		return
	}
	Println(args...)
}

// Errorf works as fmt.Printf, but it adds a newline at the end of the format string.
func Errorf(format string, args ...any) {
	if !enabled(ERROR) {
		return
	}
	Printf(format, args...)
	Println()
}

// Warn works as fmt.Print when error level is WARN. It adds a newline at the end of the format string.
func Warn(args ...any) {
	if !enabled(WARN) {
		return
	}
	Println(args...)
}

// Warnf works as fmt.Printf when error level is WARN. It adds a newline at the end of the format string.
func Warnf(format string, args ...any) {
	if !enabled(WARN) {
		return
	}
	Printf(format, args...)
	Println()
}

// Info works as fmt.Print when error level is INFO. It adds a newline at the end of the format string.
func Info(args ...any) {
	if !enabled(INFO) {
		return
	}
	Println(args...)
}

// Infof works as fmt.Printf when error level is INFO. It adds a newline at the end of the format string.
func Infof(format string, args ...any) {
	if !enabled(INFO) {
		return
	}
	Printf(format, args...)
	Println()
}

// Debug works as fmt.Print when error level is DEBUG. It adds a newline at the end of the format string.
func Debug(args ...any) {
	if !enabled(DEBUG) {
		return
	}
	Println(args...)
}

// Debugf works as fmt.Printf when error level is DEBUG. It adds a newline at the end of the format string.
func Debugf(format string, args ...any) {
	if !enabled(DEBUG) {
		return
	}
	Printf(format, args...)
	Println()
}

// Print works as fmt.Print, but flushes the file descriptor.
func Print(args ...any) {
	fprint(fmt.Sprint(args...))
}

// Println works as fmt.Println, but flushes the file descriptor.
func Println(args ...any) {
	fprint(fmt.Sprintln(args...))
}

// Printf works as fmt.Printf, but flushes the file descriptor.
func Printf(format string, args ...any) {
	fprint(fmt.Sprintf(format, args...))
}

func fprint(s string) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return
	}
	if _, err := logger.WriteString(s); err != nil {
		fail()
	}
	if logger.Flush() != nil {
		fail()
	}
}

func fail() {
	// use fatal instead of panic to make linter happy
	log.Fatal()
}
