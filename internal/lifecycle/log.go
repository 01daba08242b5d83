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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AuditEvent is one line of the lifecycle audit log.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"` // "start", "start_failure", "stop", "stale_pid"
	SessionID string    `json:"session_id,omitempty"`
	PID       int       `json:"pid,omitempty"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// AuditLogger appends lifecycle events to a JSONL file. Every method is
// best-effort: the returned error exists for tests and diagnostics, and
// callers on the hook path discard it.
type AuditLogger struct {
	logPath string
}

// NewAuditLogger creates an audit logger writing to logPath.
func NewAuditLogger(logPath string) *AuditLogger {
	return &AuditLogger{
		logPath: logPath,
	}
}

// LogStart records a successful inhibitor start.
func (l *AuditLogger) LogStart(sessionID string, pid int) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "start",
		SessionID: sessionID,
		PID:       pid,
		Success:   true,
		Message:   "inhibitor started",
	})
}

// LogStartFailure records a failed inhibitor start.
func (l *AuditLogger) LogStartFailure(sessionID string, err error) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "start_failure",
		SessionID: sessionID,
		Success:   false,
		Message:   "inhibitor failed to start",
		Error:     err.Error(),
	})
}

// LogStop records an inhibitor stop.
func (l *AuditLogger) LogStop(sessionID string, pid int) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "stop",
		SessionID: sessionID,
		PID:       pid,
		Success:   true,
		Message:   "inhibitor stopped",
	})
}

// LogStalePID records a registry entry whose PID no longer belongs to a
// live inhibitor.
func (l *AuditLogger) LogStalePID(sessionID string, pid int, reason string) error {
	return l.writeEvent(AuditEvent{
		Timestamp: time.Now(),
		Event:     "stale_pid",
		SessionID: sessionID,
		PID:       pid,
		Success:   true,
		Message:   fmt.Sprintf("stale registry entry cleared: %s", reason),
	})
}

// writeEvent appends a single JSON line to the audit log.
func (l *AuditLogger) writeEvent(event AuditEvent) error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o700); err != nil {
		return fmt.Errorf("creating audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing audit event: %w", err)
	}

	return nil
}
