// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package crashreport

import (
	"regexp"
)

// DefaultArch is used when the report does not name the architecture of the crashed binary.
// If the guess is wrong, lookups silently fail to resolve.
const DefaultArch = "armv7"

// Target identifies the binary whose frames are symbolicated.
type Target struct {
	ProcessName string
	Arch        string
}

// Analyze extracts process name and architecture from report text.
// If the architecture is not found, fallbackArch (or DefaultArch if it's empty) is used.
func Analyze(text []byte, fallbackArch string) Target {
	name := ExtractProcessName(text)
	return Target{
		ProcessName: name,
		Arch:        ExtractArchitecture(text, name, fallbackArch),
	}
}

// Matches e.g. "Process:         My App [1234]", but not "Parent Process: launchd [1]".
var processRe = regexp.MustCompile(`(?m)^[ \t]*Process:[ \t]+([^\n]+?)[ \t]+\[[0-9]+\]`)

// ExtractProcessName returns the name from the first "Process: <name> [<pid>]" line,
// or an empty string if there is none.
func ExtractProcessName(text []byte) string {
	match := processRe.FindSubmatch(text)
	if match == nil {
		return ""
	}
	return string(match[1])
}

// ExtractArchitecture looks for the first occurrence of the process name as a whole word
// followed by an ARM architecture token (armv7, armv7s, arm64, arm64e),
// as in the "Binary Images:" section. Returns fallback (or DefaultArch) if not found.
func ExtractArchitecture(text []byte, processName, fallback string) string {
	if fallback == "" {
		fallback = DefaultArch
	}
	if processName == "" {
		return fallback
	}
	match := archRegexp(processName).FindSubmatch(text)
	if match == nil {
		return fallback
	}
	return string(match[1])
}

// archRegexp deliberately accepts arm64/arm64e in addition to the armv<N> family,
// so 64-bit reports are looked up with their real architecture instead of the armv7 fallback.
func archRegexp(processName string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)(?:^|[^\w.])` + regexp.QuoteMeta(processName) +
		`[ \t]+(armv[0-9]+[a-z0-9]*|arm64e?)\b`)
}
