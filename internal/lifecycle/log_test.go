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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAuditEvents(t *testing.T, path string) []AuditEvent {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}

	var events []AuditEvent
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var ev AuditEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("audit line is not valid JSON: %v\nline: %s", err, line)
		}
		events = append(events, ev)
	}
	return events
}

func TestAuditLogger(t *testing.T) {
	t.Run("appends one JSON line per event", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lifecycle.log")
		audit := NewAuditLogger(path)

		if err := audit.LogStart("s1", 100); err != nil {
			t.Fatalf("LogStart() error = %v", err)
		}
		if err := audit.LogStop("s1", 100); err != nil {
			t.Fatalf("LogStop() error = %v", err)
		}
		if err := audit.LogStalePID("s2", 42, "process not running"); err != nil {
			t.Fatalf("LogStalePID() error = %v", err)
		}
		if err := audit.LogStartFailure("s3", errors.New("exec failed")); err != nil {
			t.Fatalf("LogStartFailure() error = %v", err)
		}

		events := readAuditEvents(t, path)
		if len(events) != 4 {
			t.Fatalf("audit log has %d events, want 4", len(events))
		}

		if events[0].Event != "start" || events[0].SessionID != "s1" || events[0].PID != 100 || !events[0].Success {
			t.Errorf("start event = %+v", events[0])
		}
		if events[1].Event != "stop" || events[1].PID != 100 {
			t.Errorf("stop event = %+v", events[1])
		}
		if events[2].Event != "stale_pid" || !strings.Contains(events[2].Message, "process not running") {
			t.Errorf("stale_pid event = %+v", events[2])
		}
		if events[3].Event != "start_failure" || events[3].Success || events[3].Error != "exec failed" {
			t.Errorf("start_failure event = %+v", events[3])
		}

		for _, ev := range events {
			if ev.Timestamp.IsZero() {
				t.Errorf("event %q has zero timestamp", ev.Event)
			}
		}
	})

	t.Run("creates the log directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "lifecycle.log")
		audit := NewAuditLogger(path)

		if err := audit.LogStart("s1", 1); err != nil {
			t.Fatalf("LogStart() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("audit log not created: %v", err)
		}
	})
}
