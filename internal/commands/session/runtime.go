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

// Package session implements the wakekeep session commands: start, stop,
// and status.
//
// start and stop are the hook surface the host invokes; they are fail-open
// and always succeed. status is a human diagnostic command and reports
// real errors.
package session

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/wakekeep/wakekeep/internal/commands/shared"
	"github.com/wakekeep/wakekeep/internal/config"
	"github.com/wakekeep/wakekeep/internal/inhibitor"
	"github.com/wakekeep/wakekeep/internal/lifecycle"
	"github.com/wakekeep/wakekeep/internal/log"
)

// Files kept inside the state directory alongside the registry entries.
const (
	auditLogName     = "lifecycle.log"
	inhibitorLogName = "inhibitor.log"
)

// runtime bundles everything a session command needs.
type runtime struct {
	cfg      *config.Config
	stateDir string
	ctl      *lifecycle.Controller
	logger   *slog.Logger
}

// newLogger builds the advisory logger from environment and flags.
// Flags take precedence over the environment, which takes precedence over
// the config file (applied later in newRuntime only when flags and env
// said nothing).
func newLogger(cfg *config.Config) *slog.Logger {
	logCfg := log.FromEnv()

	if cfg != nil && cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg != nil && cfg.Log.Format != "" {
		logCfg.Format = log.Format(cfg.Log.Format)
	}
	if shared.GetVerbose() {
		logCfg.Level = "debug"
	}
	if shared.GetQuiet() {
		logCfg.Level = "error"
	}

	return log.New(logCfg)
}

// newRuntime wires registry, spawner, and controller from flags, env, and
// config. It never fails: a broken config degrades to defaults.
func newRuntime() *runtime {
	cfg, cfgErr := config.Load(shared.GetConfigPath())
	logger := newLogger(cfg)
	if cfgErr != nil {
		logger.Warn("ignoring config", log.Error(cfgErr))
	}

	stateDir := shared.GetStateDir()
	if stateDir == "" {
		stateDir = cfg.ResolveStateDir()
	}

	def := inhibitor.Resolve(cfg.Inhibitor)

	// Inhibitor output is discarded unless someone is debugging.
	inhibitorLog := ""
	if shared.GetVerbose() {
		inhibitorLog = filepath.Join(stateDir, inhibitorLogName)
	}

	ctl := lifecycle.NewController(lifecycle.ControllerConfig{
		Registry:     lifecycle.NewRegistry(stateDir),
		Binary:       def.Binary,
		Args:         def.Args,
		Audit:        lifecycle.NewAuditLogger(filepath.Join(stateDir, auditLogName)),
		Logger:       logger,
		InhibitorLog: inhibitorLog,
	})

	return &runtime{
		cfg:      cfg,
		stateDir: stateDir,
		ctl:      ctl,
		logger:   logger,
	}
}

// supported reports whether this invocation should manage an inhibitor at
// all. The built-in inhibitor only exists on macOS; a config override
// names an explicit command and so works anywhere.
func (rt *runtime) supported() bool {
	return inhibitor.Supported() || rt.cfg.Inhibitor.Command != ""
}

// failOpen runs fn and absorbs every failure mode, including panics.
// The host invokes start/stop synchronously inside its own pipeline; a
// supervisor failure must never surface there, so this is the single
// boundary where internal errors become success.
func failOpen(logger *slog.Logger, op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from panic", "op", op, "panic", fmt.Sprint(r))
		}
	}()

	if err := fn(); err != nil {
		logger.Warn("operation failed", "op", op, log.Error(err))
	}
}
