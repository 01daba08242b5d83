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
	"os/exec"
	"path/filepath"
	"syscall"
)

// Spawner launches inhibitor processes fully detached from the hook.
type Spawner struct {
	// Env holds the environment for spawned processes.
	Env []string
}

// NewSpawner creates a spawner inheriting the current environment.
func NewSpawner() *Spawner {
	return &Spawner{
		Env: os.Environ(),
	}
}

// SpawnDetached spawns a detached background process with its output
// discarded. The process:
//   - runs in its own session and process group, so it is not terminated
//     when the hook (or the hook's parent shell) exits
//   - has stdin closed and stdout/stderr pointed at the null device
//
// Returns the PID of the spawned process without waiting on it.
func (s *Spawner) SpawnDetached(binary string, args []string) (int, error) {
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	return s.spawn(binary, args, devnull, devnull)
}

// SpawnDetachedWithLog is like SpawnDetached but appends the process's
// stdout and stderr to the file at logPath, creating its directory if
// needed.
func (s *Spawner) SpawnDetachedWithLog(binary string, args []string, logPath string) (int, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return 0, fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return 0, fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	return s.spawn(binary, args, logFile, logFile)
}

// spawn starts binary detached with the given output streams.
func (s *Spawner) spawn(binary string, args []string, stdout, stderr *os.File) (int, error) {
	cmd := exec.Command(binary, args...)
	cmd.Env = s.Env

	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Detach: a new session implies a new process group, so neither the
	// hook's exit nor a signal to the hook's group reaches the child.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Setsid:  true,
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", binary, err)
	}

	pid := cmd.Process.Pid

	// Release rather than Wait: the hook exits immediately and the child
	// keeps running. Release failure leaves the child running, so the PID
	// is still returned.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("process started but failed to release: %w", err)
	}

	return pid, nil
}
