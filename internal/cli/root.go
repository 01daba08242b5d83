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

// Package cli builds the root wakekeep command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/wakekeep/wakekeep/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for wakekeep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wakekeep",
		Short: "wakekeep - session-scoped sleep inhibitor supervisor",
		Long: `wakekeep keeps the machine awake while an AI coding-assistant session
is active. The host invokes it as a lifecycle hook: 'wakekeep start' spawns
a detached sleep inhibitor bound to the session named on stdin, and
'wakekeep stop' tears it down. Both commands always exit 0 so a supervisor
failure can never block the host.

Run 'wakekeep status' to inspect tracked sessions.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves
	}

	// Get flag pointers from shared package
	verbose, quiet, json, configPath, stateDir := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(configPath, "config", "", "Path to config file (default: ~/.config/wakekeep/config.yaml)")
	cmd.PersistentFlags().StringVar(stateDir, "state-dir", "", "Registry state directory (default: $WAKEKEEP_STATE_DIR or the system temp dir)")

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}
