// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symconfig

import "time"

type Config struct {
	// Address lookup tool ("dwarfdump" by default). Must accept
	// "--lookup <addr> --arch <arch> <dSYM>" (Xcode dwarfdump and llvm-dwarfdump do).
	Dwarfdump string `json:"dwarfdump,omitempty" yaml:"dwarfdump,omitempty"`
	// Timeout for a single lookup, in time.ParseDuration format ("1m" by default).
	// A lookup that does not finish in time is killed and the frame is left unresolved.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Architecture used when the crash report does not name one next to the process ("armv7" by default).
	DefaultArch string `json:"default_arch,omitempty" yaml:"default_arch,omitempty"`
	// Demangle C++/Rust function names returned by the lookup tool.
	Demangle bool `json:"demangle,omitempty" yaml:"demangle,omitempty"`
	// Append a space to frame lines even if nothing was resolved for them
	// (the historical symby output format). By default such lines are left untouched.
	KeepEmptySuffix bool `json:"keep_empty_suffix,omitempty" yaml:"keep_empty_suffix,omitempty"`
	// Log verbosity (same as -v flag).
	Verbosity int `json:"verbosity,omitempty" yaml:"verbosity,omitempty"`

	// Implementation details beyond this point. Filled after parsing.
	LookupTimeout time.Duration `json:"-" yaml:"-"`
}
