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

/*
Package cli provides the root command and shared configuration for the
wakekeep CLI.

This package creates the main Cobra command tree and handles global concerns
like version information and persistent flags. Individual commands are
implemented in the internal/commands subpackages.

# Command Tree

The CLI is organized as:

	wakekeep
	├── start      Start the sleep inhibitor for a session (hook surface)
	├── stop       Stop the sleep inhibitor for a session (hook surface)
	├── status     Show tracked sessions
	├── version    Show version
	└── help       Show help

# Usage

From main.go:

	cli.SetVersion(version, commit, date)
	rootCmd := cli.NewRootCommand()
	// ... add commands ...
	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))
	err := rootCmd.Execute()

# Global Flags

All commands inherit these flags:

	--verbose, -v    Enable verbose output
	--quiet, -q      Suppress non-error output
	--json           Output in JSON format
	--config         Path to config file
	--state-dir      Registry state directory

# Exit Codes

start and stop always exit 0; they run inside the host's hook pipeline and
must never fail it. status, version, and help exit 1 on error.
*/
package cli
