// Copyright (C) 2024 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package optimizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iropt/core"
)

const yamlPipeline = `
env: universal1.0
verify: true
check_status: true
passes:
  - name: strip-nop
  - name: remove-ids
    args: ["%1"]
`

const tomlPipeline = `
env = "universal1.0"
verify = true
check_status = true

[[passes]]
name = "strip-nop"

[[passes]]
name = "remove-ids"
args = ["%1"]
`

func TestLoadPipeline(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"p.yaml": yamlPipeline,
		"p.toml": tomlPipeline,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			p, err := LoadPipeline(path)
			require.NoError(t, err)
			env, err := p.Environment()
			require.NoError(t, err)
			assert.Equal(t, core.EnvUniversal10, env)
			assert.False(t, p.SkipNop)

			cfg := p.ManagerConfig(nil)
			assert.True(t, cfg.Verify)
			assert.True(t, cfg.CheckStatus)

			mgr := NewManager(cfg)
			require.NoError(t, p.Configure(mgr))
			assert.Equal(t, []string{"strip-nop", "remove-ids"}, mgr.Names())
			assert.Equal(t, core.SuccessWithChange, mgr.Run(build(t)))
		})
	}
}

func TestParsePipelineErrors(t *testing.T) {
	testCases := []struct {
		name   string
		format string
		data   string
	}{
		{"yaml unknown field", "yaml", "passes: []\nfrobnicate: true\n"},
		{"toml unknown field", "toml", "frobnicate = true\n"},
		{"unnamed pass", "yml", "passes:\n  - args: [x]\n"},
		{"format", "json", "{}"},
		{"bad yaml", "yaml", "passes: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePipeline(tc.format, []byte(tc.data))
			assert.Error(t, err)
		})
	}

	_, err := LoadPipeline(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigureUnknownPass(t *testing.T) {
	p, err := ParsePipeline("yaml", []byte("passes:\n  - name: strip-nop\n  - name: nope\n"))
	require.NoError(t, err)
	mgr := NewManager(Config{})
	assert.Error(t, p.Configure(mgr))
	assert.Equal(t, 0, mgr.Len(), "nothing is added on error")

	env, err := p.Environment()
	assert.NoError(t, err)
	assert.Equal(t, core.EnvUnknown, env)
}
