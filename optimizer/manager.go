// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package optimizer runs an ordered sequence of passes over a module and
// aggregates their outcome.
package optimizer

import (
	"errors"
	"slices"
	"time"

	"iropt/core"
	"iropt/module"
	"iropt/pass"
)

// Config represents the configuration of the manager.
type Config struct {
	// Verify validates the module after every successful pass.
	Verify bool
	// CheckStatus compares the serialized module before and after every
	// pass against the status the pass reported.
	CheckStatus bool
	// Stats, if set, receives counts and timings.
	Stats *Stats
}

// Manager is the object that coordinates the passes. It is not safe for
// concurrent use; run independent modules on independent managers.
type Manager struct {
	cfg      Config
	consumer core.MessageConsumer
	passes   []pass.Pass
}

// NewManager returns a new manager without passes.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// SetMessageConsumer installs the sink handed to passes added afterwards.
func (m *Manager) SetMessageConsumer(c core.MessageConsumer) {
	m.consumer = c
}

// Consumer returns the current sink.
func (m *Manager) Consumer() core.MessageConsumer {
	return m.consumer
}

// Add creates a pass with the manager's sink and appends it.
func (m *Manager) Add(f pass.Factory) {
	m.passes = append(m.passes, f(m.consumer))
}

// Len returns the number of configured passes.
func (m *Manager) Len() int {
	return len(m.passes)
}

// Names returns the names of the configured passes in order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.passes))
	for i, p := range m.passes {
		names[i] = pass.Name(p)
	}
	return names
}

// Reset drops every pass. The sink and configuration are kept.
func (m *Manager) Reset() {
	m.passes = nil
}

// Run applies the passes to mod in order. It stops at the first pass
// returning Failure and returns Failure; otherwise it returns
// SuccessWithChange if any pass changed the module. Running without
// passes or without a module panics.
func (m *Manager) Run(mod *module.Module) core.Status {
	if len(m.passes) == 0 {
		panic(errors.New("optimizer: no passes configured"))
	}
	if mod == nil {
		panic(errors.New("optimizer: nil module"))
	}
	if st := m.cfg.Stats; st != nil {
		st.Inc(Runs)
	}

	status := core.SuccessWithoutChange
	for _, p := range m.passes {
		s := m.runPass(p, mod)
		if s == core.Failure {
			return core.Failure
		}
		status = core.Combine(status, s)
	}
	return status
}

func (m *Manager) runPass(p pass.Pass, mod *module.Module) core.Status {
	name := pass.Name(p)
	var before []uint32
	if m.cfg.CheckStatus {
		var err error
		if before, err = mod.ToBinary(false); err != nil {
			m.consumer.Emitf(core.LevelInternalError, name, "cannot serialize module before pass: %v", err)
			return core.Failure
		}
	}

	ts := time.Now()
	s := p.Process(mod)
	if st := m.cfg.Stats; st != nil {
		st.AddTime(name, time.Since(ts))
		st.Inc(typeOf(s))
	}
	if s == core.Failure {
		return s
	}

	if m.cfg.Verify {
		if err := mod.Validate(); err != nil {
			m.reject(name, "module is invalid after pass: %v", err)
			return core.Failure
		}
	}
	if m.cfg.CheckStatus {
		after, err := mod.ToBinary(false)
		if err != nil {
			m.reject(name, "cannot serialize module after pass: %v", err)
			return core.Failure
		}
		same := slices.Equal(before, after)
		switch {
		case s == core.SuccessWithoutChange && !same:
			m.reject(name, "pass reported %v but modified the module", s)
			return core.Failure
		case s == core.SuccessWithChange && same:
			m.reject(name, "pass reported %v but the module is unchanged", s)
			return core.Failure
		}
	}
	return s
}

func (m *Manager) reject(name, format string, args ...any) {
	if st := m.cfg.Stats; st != nil {
		st.Inc(Rejected)
	}
	m.consumer.Emitf(core.LevelInternalError, name, format, args...)
}
