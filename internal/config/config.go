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

// Package config loads wakekeep configuration.
//
// Configuration is entirely optional: the hook must work with zero setup, so
// every value has a default and a missing or malformed config file is treated
// as no config file at all. Precedence for the state directory is
// WAKEKEEP_STATE_DIR, then the config file, then a per-user directory under
// the platform temp location.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StateDirEnv overrides the registry state directory.
const StateDirEnv = "WAKEKEEP_STATE_DIR"

// Config holds the wakekeep configuration.
type Config struct {
	// StateDir is the directory holding per-session registry entries and
	// the lifecycle log. Empty means the default temp location.
	StateDir string `yaml:"state_dir"`

	// Inhibitor configures the auxiliary process.
	Inhibitor Inhibitor `yaml:"inhibitor"`

	// Log configures advisory logging.
	Log Log `yaml:"log"`
}

// Inhibitor configures the sleep-inhibitor process.
type Inhibitor struct {
	// Command is the inhibitor binary. Empty means the platform default.
	Command string `yaml:"command"`

	// Args are the inhibitor arguments. Only used when Command is set.
	Args []string `yaml:"args"`
}

// Log configures advisory logging output.
type Log struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Format is the output format (text, json).
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{}
}

// Load reads configuration from the given path, or from the default
// location when path is empty. A missing file yields the defaults. A
// malformed file returns an error alongside the defaults so the caller can
// log it and continue; the returned Config is always usable.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// ResolveStateDir returns the directory for registry entries, applying the
// environment override, then the config file value, then the default.
func (c *Config) ResolveStateDir() string {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir
	}
	if c.StateDir != "" {
		return c.StateDir
	}
	return DefaultStateDir()
}

// DefaultStateDir returns the default scratch location for registry state.
// It is shared across all sessions on the host.
func DefaultStateDir() string {
	return filepath.Join(os.TempDir(), "wakekeep")
}
