// Copyright 2025 The wakekeep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
state_dir: /var/tmp/wk
inhibitor:
  command: /usr/bin/caffeinate
  args: ["-d", "-i"]
log:
  level: debug
  format: json
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/var/tmp/wk", cfg.StateDir)
		assert.Equal(t, "/usr/bin/caffeinate", cfg.Inhibitor.Command)
		assert.Equal(t, []string{"-d", "-i"}, cfg.Inhibitor.Args)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("malformed file returns defaults and an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("state_dir: [not: valid"), 0o600))

		cfg, err := Load(path)
		require.Error(t, err)
		require.NotNil(t, cfg, "Load must always return a usable config")
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty path falls back to default location", func(t *testing.T) {
		// Point XDG_CONFIG_HOME at an empty dir so no real config leaks in.
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestResolveStateDir(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv(StateDirEnv, "/env/dir")
		cfg := &Config{StateDir: "/file/dir"}
		assert.Equal(t, "/env/dir", cfg.ResolveStateDir())
	})

	t.Run("config value next", func(t *testing.T) {
		t.Setenv(StateDirEnv, "")
		cfg := &Config{StateDir: "/file/dir"}
		assert.Equal(t, "/file/dir", cfg.ResolveStateDir())
	})

	t.Run("default last", func(t *testing.T) {
		t.Setenv(StateDirEnv, "")
		cfg := &Config{}
		assert.Equal(t, DefaultStateDir(), cfg.ResolveStateDir())
	})
}

func TestConfigDir(t *testing.T) {
	t.Run("respects XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")
		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/custom/xdg", "wakekeep"), dir)
	})

	t.Run("falls back to ~/.config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "wakekeep"), dir)
	})
}
