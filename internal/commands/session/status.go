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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wakekeep/wakekeep/internal/commands/shared"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracked sessions and inhibitor liveness",
		Long: `List every session with a registry entry, the inhibitor PID it tracks,
and whether that PID is still a live inhibitor process.

A STALE entry means the registry still names a PID whose process exited or
was reused; the next start or stop for that session cleans it up. Unlike
start and stop, status reports real errors.`,
		Example: `  # Human-readable listing
  wakekeep status

  # Machine-readable listing
  wakekeep status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout())
		},
	}
}

func runStatus(out io.Writer) error {
	rt := newRuntime()

	statuses, err := rt.ctl.Status()
	if err != nil {
		return fmt.Errorf("reading registry: %w", err)
	}

	if shared.GetJSON() {
		return json.NewEncoder(out).Encode(map[string]any{
			"state_dir": rt.stateDir,
			"sessions":  statuses,
		})
	}

	fmt.Fprintln(out, shared.Header.Render("Tracked sessions"))
	fmt.Fprintf(out, "%s %s\n\n", shared.Muted.Render("State dir:"), rt.stateDir)

	if len(statuses) == 0 {
		fmt.Fprintln(out, shared.Muted.Render("No sessions tracked."))
		return nil
	}

	for _, s := range statuses {
		label := "STALE"
		if s.Inhibitor {
			label = "RUNNING"
		}
		fmt.Fprintf(out, "%s %s %s\n",
			shared.RenderStatus(s.Inhibitor, label),
			shared.Bold.Render(s.Label),
			shared.Muted.Render(fmt.Sprintf("(pid %d)", s.PID)))
	}

	return nil
}
