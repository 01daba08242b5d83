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
Package lifecycle binds host sessions to detached inhibitor processes.

The package has three layers. The Registry persists one PID record per
session in a shared state directory, named deterministically from the
session id so concurrent sessions never collide. The Spawner launches the
inhibitor fully detached (its own session and process group, stdio
redirected away) so it outlives the short-lived hook invocation. The
Controller composes the two into idempotent Start and Stop operations.

# Registry

	reg := lifecycle.NewRegistry("/tmp/wakekeep")
	if err := reg.Write("session-1", 1234); err != nil {
	    // Handle error
	}
	pid, err := reg.Read("session-1")

A registry record existing does not mean the process is alive. Liveness is
a separate query:

	if lifecycle.IsProcessRunning(pid) {
	    // Still up
	}

# Controller

Start is defined as Stop followed by spawn-and-register, so a second Start
for the same session replaces rather than duplicates the inhibitor:

	ctl := lifecycle.NewController(lifecycle.ControllerConfig{
	    Registry: reg,
	    Binary:   "caffeinate",
	    Args:     []string{"-dims"},
	})
	pid, err := ctl.Start("session-1")
	...
	err = ctl.Stop("session-1")

Stop is idempotent and tolerates stale records: a PID whose process already
exited, or was reused by an unrelated process, is cleared without being
signalled. Errors from Start and Stop are real (tests assert on them); the
command layer above this package converts every outcome to success.
*/
package lifecycle
