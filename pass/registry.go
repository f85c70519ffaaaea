// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package pass

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"iropt/core"
)

// Constructor creates a factory from textual arguments, eg, the ones of
// a command-line flag or a pipeline file entry.
type Constructor func(args []string) (Factory, error)

type entry struct {
	help string
	ctor Constructor
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]entry)
)

// Register makes a pass available by name. Registering a name twice
// panics.
func Register(name, help string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Errorf("pass: %q registered twice", name))
	}
	registry[name] = entry{help: help, ctor: ctor}
}

// Lookup creates the factory of the pass registered as name.
func Lookup(name string, args []string) (Factory, error) {
	registryMu.RLock()
	e, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown pass %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	f, err := e.ctor(args)
	if err != nil {
		return nil, fmt.Errorf("pass %s: %w", name, err)
	}
	return f, nil
}

// Names returns the registered pass names in order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Help returns the description of a registered pass.
func Help(name string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name].help
}

func noArgs(f Factory) Constructor {
	return func(args []string) (Factory, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("takes no arguments, got %q", args)
		}
		return f, nil
	}
}

// ParseID parses "%5" or "5" into an ID.
func ParseID(s string) (core.ID, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "%"), 10, 32)
	if err != nil || v == 0 {
		return core.NoID, fmt.Errorf("invalid ID %q", s)
	}
	return core.ID(v), nil
}

func init() {
	Register("null", "do nothing", noArgs(NewNull))
	Register("strip-nop", "remove OpNop instructions", noArgs(NewStripNop))
	Register("strip-debug", "remove debug instructions", noArgs(NewStripDebug))
	Register("eliminate-dead-constants", "remove unreferenced constants", noArgs(NewEliminateDeadConstants))
	Register("compact-ids", "renumber result IDs densely", noArgs(NewCompactIDs))
	Register("remove-ids", "remove the instructions defining the given IDs", func(args []string) (Factory, error) {
		ids := make([]core.ID, 0, len(args))
		for _, a := range args {
			for _, s := range strings.Split(a, ",") {
				if s = strings.TrimSpace(s); s == "" {
					continue
				}
				id, err := ParseID(s)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("needs at least one ID")
		}
		return NewRemoveIDs(ids...), nil
	})
}
