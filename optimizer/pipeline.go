// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package optimizer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"iropt/core"
	"iropt/pass"
)

// PassSpec names a registered pass and its arguments.
type PassSpec struct {
	Name string   `yaml:"name" toml:"name"`
	Args []string `yaml:"args" toml:"args"`
}

// Pipeline is the content of a pipeline file.
type Pipeline struct {
	Env         string     `yaml:"env" toml:"env"`
	Verify      bool       `yaml:"verify" toml:"verify"`
	CheckStatus bool       `yaml:"check_status" toml:"check_status"`
	SkipNop     bool       `yaml:"skip_nop" toml:"skip_nop"`
	Passes      []PassSpec `yaml:"passes" toml:"passes"`
}

// LoadPipeline reads a .yaml, .yml or .toml pipeline file.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePipeline(strings.TrimPrefix(filepath.Ext(path), "."), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParsePipeline decodes a pipeline document in format "yaml", "yml" or
// "toml". Unknown fields are rejected.
func ParsePipeline(format string, data []byte) (*Pipeline, error) {
	var p Pipeline
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decoding pipeline: %w", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return nil, fmt.Errorf("decoding pipeline: %w", err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("decoding pipeline: unknown field %q", keys[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported pipeline format %q", format)
	}
	for i, ps := range p.Passes {
		if ps.Name == "" {
			return nil, fmt.Errorf("pass %d has no name", i)
		}
	}
	return &p, nil
}

// Environment returns the environment requested by the pipeline, or
// core.EnvUnknown if it does not name one.
func (p *Pipeline) Environment() (core.Env, error) {
	if p.Env == "" {
		return core.EnvUnknown, nil
	}
	return core.ParseEnv(p.Env)
}

// ManagerConfig returns the manager configuration of the pipeline.
func (p *Pipeline) ManagerConfig(stats *Stats) Config {
	return Config{
		Verify:      p.Verify,
		CheckStatus: p.CheckStatus,
		Stats:       stats,
	}
}

// Configure adds the passes of the pipeline to mgr. Nothing is added if
// any pass cannot be created.
func (p *Pipeline) Configure(mgr *Manager) error {
	factories := make([]pass.Factory, 0, len(p.Passes))
	for _, ps := range p.Passes {
		f, err := pass.Lookup(ps.Name, ps.Args)
		if err != nil {
			return err
		}
		factories = append(factories, f)
	}
	for _, f := range factories {
		mgr.Add(f)
	}
	return nil
}
