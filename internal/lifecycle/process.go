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
	"fmt"
	"os"
	"strings"
	"syscall"
)

// IsProcessRunning checks if a process with the given PID exists.
func IsProcessRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so send signal 0: it delivers
	// nothing but reports whether the process exists and is signallable.
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}

// ProcessMatches reports whether the process's command line contains
// marker. This guards against stale registry entries whose PID has been
// reused by an unrelated process: wakekeep only ever signals a PID whose
// command line still looks like the inhibitor it spawned. Any failure to
// read the command line reports false, the safe direction.
func ProcessMatches(pid int, marker string) bool {
	if marker == "" {
		return false
	}

	cmd, err := processCommand(pid)
	if err != nil {
		return false
	}

	return strings.Contains(cmd, marker)
}

// SendSignal sends a signal to the given process.
func SendSignal(pid int, sig syscall.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := proc.Signal(sig); err != nil {
		return fmt.Errorf("signalling process %d with %v: %w", pid, sig, err)
	}

	return nil
}
