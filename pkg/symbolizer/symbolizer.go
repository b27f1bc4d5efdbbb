// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package symbolizer resolves memory addresses of an app binary to function names
// and source locations using the debug information in its dSYM bundle.
package symbolizer

import (
	"fmt"
	"strings"
)

// Annotation is debug info for a single address.
// Any part may be missing: Func is empty if the lookup tool did not report
// the enclosing function, File is empty if it did not report a line table entry
// (Line and Column are meaningful only with File).
type Annotation struct {
	Func   string
	File   string
	Line   int
	Column int
}

// Empty returns true if nothing was resolved.
func (a Annotation) Empty() bool {
	return a.Func == "" && a.File == ""
}

// String renders the annotation as it is appended to frame lines, e.g.
// "-[AppDelegate crash] in AppDelegate.m, line 42, col 7".
func (a Annotation) String() string {
	var parts []string
	if a.Func != "" {
		parts = append(parts, a.Func)
	}
	if a.File != "" {
		parts = append(parts, fmt.Sprintf("in %v, line %v, col %v", a.File, a.Line, a.Column))
	}
	return strings.Join(parts, " ")
}

// Resolver looks up addr in the arch slice of the bundle.
// Resolver never fails: failures result in an empty (or partial) Annotation.
type Resolver interface {
	Resolve(addr, arch, bundle string) Annotation
}

// ResolverFunc allows to use an ordinary function as Resolver.
type ResolverFunc func(addr, arch, bundle string) Annotation

func (f ResolverFunc) Resolve(addr, arch, bundle string) Annotation {
	return f(addr, arch, bundle)
}
