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

// NewStartCommand creates the start command.
func NewStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the sleep inhibitor for a session",
		Long: `Start the sleep inhibitor for the session named in the hook payload
on stdin.

If an inhibitor is already tracked for the session it is replaced, never
duplicated: start is stop followed by spawn-and-register. The inhibitor is
spawned fully detached and keeps running after this command exits.

start is fail-open: it always exits 0, even on internal failure, so it can
never block the host operation that invoked it. On platforms without a
sleep inhibitor it does nothing.`,
		Example: `  # Invoked by the host with a hook payload on stdin
  echo '{"session_id":"abc-123"}' | wakekeep start

  # No payload: the default session is used
  wakekeep start < /dev/null`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runStart(cmd.InOrStdin())
			return nil
		},
	}
}

func runStart(stdin io.Reader) {
	rt := newRuntime()

	failOpen(rt.logger, "start", func() error {
		if !rt.supported() {
			rt.logger.Debug("no inhibitor on this platform, skipping start")
			return nil
		}

		sessionID := hook.ResolveSessionID(stdin)

		pid, err := rt.ctl.Start(sessionID)
		if err != nil {
			return err
		}

		rt.logger.Info("inhibitor running",
			log.SessionIDKey, sessionID,
			log.PIDKey, pid,
			log.StateDirKey, rt.stateDir)
		return nil
	})
}
