// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Envvar describes an environment variable understood by the tools.
type Envvar struct {
	Name string
	Defv string
	Desc string
}

var (
	envMu   sync.Mutex
	envvars = make(map[string]Envvar)
)

// RegEnv registers an environment variable with its default value and a
// description for the help message. Registering a name twice panics.
func RegEnv(name, defv, desc string) {
	envMu.Lock()
	defer envMu.Unlock()
	if _, has := envvars[name]; has {
		panic(fmt.Sprintf("environment variable %s registered twice", name))
	}
	envvars[name] = Envvar{Name: name, Defv: defv, Desc: desc}
}

// GetEnv looks for the value of a registered environment variable.
// If not set returns its default value.
func GetEnv(name string) string {
	envMu.Lock()
	ev, has := envvars[name]
	envMu.Unlock()
	if !has {
		panic(fmt.Sprintf("environment variable %s not registered", name))
	}
	if val, ok := os.LookupEnv(name); ok {
		return val
	}
	return ev.Defv
}

// GetEnvvars returns the registered environment variables sorted by name.
func GetEnvvars() []Envvar {
	envMu.Lock()
	defer envMu.Unlock()
	var evs []Envvar
	for _, ev := range envvars {
		evs = append(evs, ev)
	}
	sort.Slice(evs, func(i, j int) bool {
		return evs[i].Name < evs[j].Name
	})
	return evs
}
