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

package main

import (
	"fmt"
	"os"

	"github.com/wakekeep/wakekeep/internal/cli"
	"github.com/wakekeep/wakekeep/internal/commands/session"
	versioncmd "github.com/wakekeep/wakekeep/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()

	rootCmd.AddCommand(session.NewStartCommand())
	rootCmd.AddCommand(session.NewStopCommand())
	rootCmd.AddCommand(session.NewStatusCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))

	if err := rootCmd.Execute(); err != nil {
		// start and stop run inside the host's hook pipeline and must
		// never fail it, even when cobra itself rejects the invocation
		// (an unknown flag, say). Everything else reports normally.
		if isHookInvocation(os.Args[1:]) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isHookInvocation reports whether the first non-flag argument names one
// of the fail-open hook commands.
func isHookInvocation(args []string) bool {
	for _, arg := range args {
		if len(arg) > 0 && arg[0] == '-' {
			continue
		}
		return arg == "start" || arg == "stop"
	}
	return false
}
