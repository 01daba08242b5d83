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

package session

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/wakekeep/wakekeep/internal/hook"
	"github.com/wakekeep/wakekeep/internal/log"
)

// NewStopCommand creates the stop command.
func NewStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the sleep inhibitor for a session",
		Long: `Stop the sleep inhibitor for the session named in the hook payload
on stdin and remove its registry entry.

stop is idempotent: a session with no inhibitor, a tracked process that
already exited, or a PID that now belongs to an unrelated process all
succeed and leave the session untracked. Like start, it is fail-open and
always exits 0.`,
		Example: `  # Invoked by the host with a hook payload on stdin
  echo '{"session_id":"abc-123"}' | wakekeep stop

  # No payload: the default session is used
  wakekeep stop < /dev/null`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runStop(cmd.InOrStdin())
			return nil
		},
	}
}

func runStop(stdin io.Reader) {
	rt := newRuntime()

	failOpen(rt.logger, "stop", func() error {
		if !rt.supported() {
			rt.logger.Debug("no inhibitor on this platform, skipping stop")
			return nil
		}

		sessionID := hook.ResolveSessionID(stdin)

		if err := rt.ctl.Stop(sessionID); err != nil {
			return err
		}

		rt.logger.Info("inhibitor stopped", log.SessionIDKey, sessionID)
		return nil
	})
}
