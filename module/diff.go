// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package module

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addColor = color.New(color.FgGreen).SprintFunc()
	delColor = color.New(color.FgRed).SprintFunc()
)

// DiffKind tells whether a listing line was kept, added or removed.
type DiffKind int

const (
	// DiffKeep marks a line present in both listings
	DiffKeep DiffKind = iota
	// DiffAdd marks a line only present in the new listing
	DiffAdd
	// DiffRemove marks a line only present in the old listing
	DiffRemove
)

// DiffEntry is one line of a listing diff.
type DiffEntry struct {
	Kind DiffKind
	Text string
}

// Diff compares the listings of two modules line by line.
func Diff(before, after *Module) []DiffEntry {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(before.String(), after.String())
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)

	var entries []DiffEntry
	for _, d := range diffs {
		kind := DiffKeep
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = DiffAdd
		case diffmatchpatch.DiffDelete:
			kind = DiffRemove
		}
		for _, l := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			entries = append(entries, DiffEntry{Kind: kind, Text: l})
		}
	}
	return entries
}

// Changed reports whether any entry is an addition or a removal.
func Changed(entries []DiffEntry) bool {
	for _, e := range entries {
		if e.Kind != DiffKeep {
			return true
		}
	}
	return false
}

// PrintDiff writes the added and removed lines of entries to w.
func PrintDiff(w io.Writer, entries []DiffEntry) error {
	for _, e := range entries {
		var line string
		switch e.Kind {
		case DiffAdd:
			line = addColor("+ " + e.Text)
		case DiffRemove:
			line = delColor("- " + e.Text)
		default:
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
