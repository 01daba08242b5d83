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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNoEntry is returned when no registry record exists for a session.
	ErrNoEntry = errors.New("no registry entry for session")

	// ErrInvalidPID is returned when a registry record contains invalid data.
	ErrInvalidPID = errors.New("invalid PID in registry entry")
)

const (
	registrySuffix = ".pid"

	// maxLabelLen bounds the readable portion of a registry file name.
	// The hash suffix carries the uniqueness; the label is for humans.
	maxLabelLen = 40
)

// Entry is one persisted session-to-PID association.
type Entry struct {
	// Label is the human-readable portion of the record's file name,
	// derived from the session id.
	Label string

	// PID is the registered inhibitor process id.
	PID int

	// Path is the record's location on disk.
	Path string
}

// Registry is a filesystem-backed map from session id to inhibitor PID.
// Each session gets its own file, so sessions never contend with each
// other and no cross-session locking is needed. Within a session the host
// serializes events; under a race the last write wins.
type Registry struct {
	dir string
}

// NewRegistry creates a registry rooted at dir. The directory is created
// lazily on the first Write.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

// Dir returns the registry's state directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Path returns the record location for the given session id. The name is
// derived deterministically from the id: a sanitized label plus a short
// content hash, so arbitrary id strings (path separators, very long
// tokens) can neither collide nor escape the directory.
func (r *Registry) Path(sessionID string) string {
	return filepath.Join(r.dir, recordName(sessionID))
}

// Write persists pid for sessionID, overwriting any prior record.
// The record is written to a temp file and renamed so a reader never
// observes a partially written PID.
func (r *Registry) Write(sessionID string, pid int) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	path := r.Path(sessionID)

	tmp, err := os.CreateTemp(r.dir, recordName(sessionID)+".tmp")
	if err != nil {
		return fmt.Errorf("creating registry temp file: %w", err)
	}

	if _, err := fmt.Fprintf(tmp, "%d\n", pid); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing registry entry: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing registry temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing registry entry: %w", err)
	}

	return nil
}

// Read returns the persisted PID for sessionID.
// Returns ErrNoEntry when no record exists and ErrInvalidPID when the
// record cannot be parsed; callers treat both as "no prior process".
func (r *Registry) Read(sessionID string) (int, error) {
	data, err := os.ReadFile(r.Path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNoEntry
		}
		return 0, fmt.Errorf("reading registry entry: %w", err)
	}

	return parsePID(data)
}

// Clear removes the record for sessionID. Clearing a session with no
// record is not an error.
func (r *Registry) Clear(sessionID string) error {
	if err := os.Remove(r.Path(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing registry entry: %w", err)
	}
	return nil
}

// List enumerates all registry records. Records that cannot be parsed are
// skipped; a missing state directory yields an empty list.
func (r *Registry) List() ([]Entry, error) {
	dirents, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, registrySuffix) {
			continue
		}

		path := filepath.Join(r.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		pid, err := parsePID(data)
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Label: strings.TrimSuffix(name, registrySuffix),
			PID:   pid,
			Path:  path,
		})
	}

	return entries, nil
}

// parsePID parses a registry record body: a decimal PID on the first line.
func parsePID(data []byte) (int, error) {
	s := strings.TrimSpace(string(data))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}

	pid, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPID, s)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: PID must be positive, got %d", ErrInvalidPID, pid)
	}

	return pid, nil
}

// recordName maps a session id to a registry file name.
func recordName(sessionID string) string {
	label := sanitizeLabel(sessionID)
	sum := sha256.Sum256([]byte(sessionID))
	return label + "-" + hex.EncodeToString(sum[:4]) + registrySuffix
}

// sanitizeLabel reduces a session id to a short, filesystem-safe label.
func sanitizeLabel(sessionID string) string {
	var b strings.Builder
	for _, r := range sessionID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
		if b.Len() >= maxLabelLen {
			break
		}
	}
	if b.Len() == 0 {
		return "session"
	}
	return b.String()
}
