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

package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"syscall"
)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Registry persists session-to-PID records. Required.
	Registry *Registry

	// Binary is the inhibitor executable. Required.
	Binary string

	// Args are the inhibitor arguments.
	Args []string

	// Spawner launches inhibitor processes. Defaults to NewSpawner().
	Spawner *Spawner

	// Audit receives lifecycle events. Optional.
	Audit *AuditLogger

	// Logger receives advisory diagnostics. Defaults to a discard logger.
	Logger *slog.Logger

	// InhibitorLog, when non-empty, receives the inhibitor's output
	// instead of the null device.
	InhibitorLog string
}

// Controller binds sessions to inhibitor processes with idempotent Start
// and Stop operations. At most one inhibitor is tracked per session.
type Controller struct {
	registry     *Registry
	spawner      *Spawner
	binary       string
	args         []string
	marker       string
	audit        *AuditLogger
	logger       *slog.Logger
	inhibitorLog string
}

// NewController creates a Controller from cfg, filling in defaults.
func NewController(cfg ControllerConfig) *Controller {
	spawner := cfg.Spawner
	if spawner == nil {
		spawner = NewSpawner()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		registry:     cfg.Registry,
		spawner:      spawner,
		binary:       cfg.Binary,
		args:         cfg.Args,
		marker:       filepath.Base(cfg.Binary),
		audit:        cfg.Audit,
		logger:       logger,
		inhibitorLog: cfg.InhibitorLog,
	}
}

// Start starts the inhibitor for sessionID, replacing any prior one.
// Calling Start twice without an intervening Stop never double-tracks: the
// first step is an unconditional Stop, so the previous inhibitor is torn
// down before the new one is spawned and registered. Returns the new PID.
func (c *Controller) Start(sessionID string) (int, error) {
	// Replace semantics. A Stop failure is logged but never blocks the
	// new spawn; the worst case is a leaked inhibitor, which is harmless
	// beyond minor resource waste.
	if err := c.Stop(sessionID); err != nil {
		c.logger.Debug("pre-start stop failed", "session_id", sessionID, "error", err)
	}

	pid, err := c.spawnInhibitor()
	if err != nil {
		if c.audit != nil {
			_ = c.audit.LogStartFailure(sessionID, err)
		}
		return 0, fmt.Errorf("spawning inhibitor: %w", err)
	}

	if err := c.registry.Write(sessionID, pid); err != nil {
		// The inhibitor is running but untracked; reap it rather than
		// leak it, since no later Stop could find it.
		_ = SendSignal(pid, syscall.SIGTERM)
		if c.audit != nil {
			_ = c.audit.LogStartFailure(sessionID, err)
		}
		return 0, fmt.Errorf("registering inhibitor: %w", err)
	}

	if c.audit != nil {
		_ = c.audit.LogStart(sessionID, pid)
	}
	c.logger.Debug("inhibitor started", "session_id", sessionID, "pid", pid)

	return pid, nil
}

// Stop terminates and deregisters the inhibitor for sessionID.
// It is idempotent: no registry entry, a dead PID, or a PID reused by an
// unrelated process all succeed and leave the session with no entry.
// Termination failure is ignored, never surfaced.
func (c *Controller) Stop(sessionID string) error {
	pid, err := c.registry.Read(sessionID)
	if err != nil {
		if errors.Is(err, ErrNoEntry) {
			return nil
		}
		// A corrupt record is treated as absent: clear it and report
		// the session stopped.
		c.logger.Debug("clearing unreadable registry entry", "session_id", sessionID, "error", err)
		return c.registry.Clear(sessionID)
	}

	switch {
	case !IsProcessRunning(pid):
		if c.audit != nil {
			_ = c.audit.LogStalePID(sessionID, pid, "process not running")
		}
	case !ProcessMatches(pid, c.marker):
		// PID reused by an unrelated process; do not signal it.
		if c.audit != nil {
			_ = c.audit.LogStalePID(sessionID, pid, "PID reused by another process")
		}
	default:
		// Failure here means the process died between the checks or we
		// lack permission; either way the entry is cleared below.
		if err := SendSignal(pid, syscall.SIGTERM); err != nil {
			c.logger.Debug("terminating inhibitor failed", "session_id", sessionID, "pid", pid, "error", err)
		}
		if c.audit != nil {
			_ = c.audit.LogStop(sessionID, pid)
		}
	}

	return c.registry.Clear(sessionID)
}

// SessionStatus describes one tracked session for diagnostics.
type SessionStatus struct {
	// Label is the human-readable registry record name.
	Label string `json:"label"`

	// PID is the registered inhibitor process id.
	PID int `json:"pid"`

	// Running reports whether the PID is alive.
	Running bool `json:"running"`

	// Inhibitor reports whether the live PID still looks like the
	// inhibitor wakekeep spawned (false for reused PIDs).
	Inhibitor bool `json:"inhibitor"`
}

// Status returns every registry entry joined with process liveness.
func (c *Controller) Status() ([]SessionStatus, error) {
	entries, err := c.registry.List()
	if err != nil {
		return nil, err
	}

	statuses := make([]SessionStatus, 0, len(entries))
	for _, e := range entries {
		running := IsProcessRunning(e.PID)
		statuses = append(statuses, SessionStatus{
			Label:     e.Label,
			PID:       e.PID,
			Running:   running,
			Inhibitor: running && ProcessMatches(e.PID, c.marker),
		})
	}

	return statuses, nil
}

// spawnInhibitor launches the configured inhibitor.
func (c *Controller) spawnInhibitor() (int, error) {
	if c.inhibitorLog != "" {
		return c.spawner.SpawnDetachedWithLog(c.binary, c.args, c.inhibitorLog)
	}
	return c.spawner.SpawnDetached(c.binary, c.args)
}
