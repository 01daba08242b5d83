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

// Package inhibitor defines the sleep-inhibitor process wakekeep manages.
//
// The default inhibitor is macOS caffeinate, which holds power assertions
// for as long as it runs. On other platforms there is no equivalent
// single-binary inhibitor, so the hook is a no-op there.
package inhibitor

import (
	"runtime"

	"github.com/wakekeep/wakekeep/internal/config"
)

// DefaultBinary is the platform sleep inhibitor.
const DefaultBinary = "caffeinate"

// defaultArgs hold display, idle, disk, and system sleep assertions.
var defaultArgs = []string{"-dims"}

// Definition is a resolved inhibitor command.
type Definition struct {
	Binary string
	Args   []string
}

// Supported reports whether the sleep inhibitor is meaningful on this
// platform. When false, start and stop short-circuit to success without
// touching the registry or spawning anything.
func Supported() bool {
	return runtime.GOOS == "darwin"
}

// Resolve returns the inhibitor command, applying any config override.
// An override makes the definition usable on any platform, which is how
// tests and non-darwin experimentation supply a stand-in process.
func Resolve(cfg config.Inhibitor) Definition {
	if cfg.Command != "" {
		return Definition{
			Binary: cfg.Command,
			Args:   cfg.Args,
		}
	}

	return Definition{
		Binary: DefaultBinary,
		Args:   defaultArgs,
	}
}
