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

// Package hook parses the event payload the host delivers on stdin.
//
// The host invokes wakekeep once per lifecycle event and pipes a JSON
// document describing the event. Only the session identifier matters to the
// supervisor; everything else is carried for diagnostics.
package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultSessionID is used when the payload is absent, malformed, or does
// not name a session. All untagged invocations share this one session.
const DefaultSessionID = "default"

// maxPayloadSize caps how much of stdin is read. Hook payloads are small;
// the cap keeps a misbehaving host from stalling the hook with an unbounded
// stream.
const maxPayloadSize = 64 * 1024

// ErrEmptyPayload is returned when the input contains no data.
var ErrEmptyPayload = errors.New("empty hook payload")

// Payload is the event document delivered by the host.
// Unknown fields are ignored.
type Payload struct {
	SessionID      string `json:"session_id"`
	HookEventName  string `json:"hook_event_name"`
	TranscriptPath string `json:"transcript_path"`
	CWD            string `json:"cwd"`
}

// ReadPayload reads and decodes a hook payload from r.
// It returns an error for empty or malformed input so tests can assert on
// failure modes; callers on the hook path should use ResolveSessionID,
// which absorbs these errors.
func ReadPayload(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("reading hook payload: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding hook payload: %w", err)
	}

	return &p, nil
}

// ResolveSessionID extracts the session identifier from a hook payload.
// Every failure mode (unreadable input, empty input, malformed JSON, a
// missing or empty session_id field) resolves to DefaultSessionID. It
// never fails the caller and has no side effects.
func ResolveSessionID(r io.Reader) string {
	p, err := ReadPayload(r)
	if err != nil {
		return DefaultSessionID
	}

	if p.SessionID == "" {
		return DefaultSessionID
	}

	return p.SessionID
}
