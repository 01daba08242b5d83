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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistry_WriteRead(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		if err := reg.Write("session-1", 1234); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		pid, err := reg.Read("session-1")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if pid != 1234 {
			t.Errorf("Read() = %d, want 1234", pid)
		}
	})

	t.Run("overwrite replaces prior value", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		if err := reg.Write("session-1", 100); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := reg.Write("session-1", 200); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		pid, err := reg.Read("session-1")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if pid != 200 {
			t.Errorf("Read() after overwrite = %d, want 200", pid)
		}

		// Exactly one record file exists for the session.
		entries, err := reg.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("List() returned %d entries, want 1", len(entries))
		}
	})

	t.Run("missing entry returns ErrNoEntry", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		_, err := reg.Read("never-written")
		if !errors.Is(err, ErrNoEntry) {
			t.Errorf("Read() error = %v, want ErrNoEntry", err)
		}
	})

	t.Run("garbage record returns ErrInvalidPID", func(t *testing.T) {
		dir := t.TempDir()
		reg := NewRegistry(dir)

		if err := os.WriteFile(reg.Path("s1"), []byte("not a pid\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		_, err := reg.Read("s1")
		if !errors.Is(err, ErrInvalidPID) {
			t.Errorf("Read() error = %v, want ErrInvalidPID", err)
		}
	})

	t.Run("non-positive pid returns ErrInvalidPID", func(t *testing.T) {
		dir := t.TempDir()
		reg := NewRegistry(dir)

		if err := os.WriteFile(reg.Path("s1"), []byte("-5\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		_, err := reg.Read("s1")
		if !errors.Is(err, ErrInvalidPID) {
			t.Errorf("Read() error = %v, want ErrInvalidPID", err)
		}
	})

	t.Run("creates state directory on first write", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "state")
		reg := NewRegistry(dir)

		if err := reg.Write("s1", 42); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("state directory not created: %v", err)
		}
		if mode := info.Mode() & os.ModePerm; mode != 0o700 {
			t.Errorf("state directory mode = %04o, want 0700", mode)
		}
	})
}

func TestRegistry_Clear(t *testing.T) {
	t.Run("removes the record", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		if err := reg.Write("s1", 99); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := reg.Clear("s1"); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}

		_, err := reg.Read("s1")
		if !errors.Is(err, ErrNoEntry) {
			t.Errorf("Read() after Clear error = %v, want ErrNoEntry", err)
		}
	})

	t.Run("clearing a missing record is not an error", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		if err := reg.Clear("never-written"); err != nil {
			t.Errorf("Clear() error = %v, want nil", err)
		}
	})
}

func TestRegistry_Namespacing(t *testing.T) {
	t.Run("distinct ids use distinct files", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		if reg.Path("a") == reg.Path("b") {
			t.Error("Path(a) == Path(b), sessions would collide")
		}

		if err := reg.Write("a", 1); err != nil {
			t.Fatalf("Write(a) error = %v", err)
		}
		if err := reg.Write("b", 2); err != nil {
			t.Fatalf("Write(b) error = %v", err)
		}

		pidA, err := reg.Read("a")
		if err != nil {
			t.Fatalf("Read(a) error = %v", err)
		}
		pidB, err := reg.Read("b")
		if err != nil {
			t.Fatalf("Read(b) error = %v", err)
		}

		if pidA != 1 || pidB != 2 {
			t.Errorf("Read(a), Read(b) = %d, %d, want 1, 2", pidA, pidB)
		}

		// Clearing one leaves the other untouched.
		if err := reg.Clear("a"); err != nil {
			t.Fatalf("Clear(a) error = %v", err)
		}
		if pidB, err = reg.Read("b"); err != nil || pidB != 2 {
			t.Errorf("Read(b) after Clear(a) = %d, %v, want 2, nil", pidB, err)
		}
	})

	t.Run("hostile ids stay inside the state directory", func(t *testing.T) {
		dir := t.TempDir()
		reg := NewRegistry(dir)

		for _, id := range []string{
			"../../etc/passwd",
			"/absolute/path",
			"with spaces and $(stuff)",
			strings.Repeat("x", 500),
		} {
			path := reg.Path(id)
			if filepath.Dir(path) != dir {
				t.Errorf("Path(%q) = %q escapes state directory", id, path)
			}
		}
	})

	t.Run("similar ids do not collide", func(t *testing.T) {
		reg := NewRegistry(t.TempDir())

		// Both sanitize to the same label; the hash must keep them apart.
		if reg.Path("a/b") == reg.Path("a?b") {
			t.Error("sanitized ids collided")
		}
	})

	t.Run("file name is deterministic", func(t *testing.T) {
		regA := NewRegistry("/some/dir")
		regB := NewRegistry("/some/dir")

		if regA.Path("sess") != regB.Path("sess") {
			t.Error("Path() not deterministic across instances")
		}
	})
}

func TestRegistry_List(t *testing.T) {
	t.Run("missing directory yields empty list", func(t *testing.T) {
		reg := NewRegistry(filepath.Join(t.TempDir(), "absent"))

		entries, err := reg.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("List() returned %d entries, want 0", len(entries))
		}
	})

	t.Run("returns written entries and skips garbage", func(t *testing.T) {
		dir := t.TempDir()
		reg := NewRegistry(dir)

		if err := reg.Write("s1", 10); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := reg.Write("s2", 20); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		// Unparseable record and an unrelated file are both skipped.
		if err := os.WriteFile(filepath.Join(dir, "broken-deadbeef.pid"), []byte("junk"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		entries, err := reg.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("List() returned %d entries, want 2", len(entries))
		}

		pids := map[int]bool{}
		for _, e := range entries {
			pids[e.PID] = true
			if e.Label == "" {
				t.Error("List() entry has empty label")
			}
		}
		if !pids[10] || !pids[20] {
			t.Errorf("List() pids = %v, want {10, 20}", pids)
		}
	})
}
