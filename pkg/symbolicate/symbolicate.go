// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package symbolicate annotates stack frames of the crashed app in a crash report
// with function names and source locations.
//
// A frame line looks like:
//
//	3   MyApp                         	0x0001abcd 0x1000 + 109517
//
// Such lines get the resolved annotation appended, all other lines are left intact:
//
//	3   MyApp                         	0x0001abcd 0x1000 + 109517 main in main.m, line 42, col 7
package symbolicate

import (
	"regexp"
	"strings"

	"github.com/symby/symby/pkg/crashreport"
	"github.com/symby/symby/pkg/log"
	"github.com/symby/symby/pkg/stat"
	"github.com/symby/symby/pkg/symbolizer"
)

var (
	statFrames = stat.New("frames", "Number of app frame lines",
		stat.Console, stat.Prometheus("symby_frames_total"))
	statResolved = stat.New("resolved", "Number of fully resolved frames (function and location)",
		stat.Console, stat.Prometheus("symby_frames_resolved_total"))
	statPartial = stat.New("partial", "Number of frames with only function or only location resolved",
		stat.Console, stat.Prometheus("symby_frames_partial_total"))
	statUnresolved = stat.New("unresolved", "Number of frames nothing was resolved for",
		stat.Console, stat.Prometheus("symby_frames_unresolved_total"))
)

type Options struct {
	// KeepEmptySuffix appends the separating space to a frame line even if nothing was resolved.
	KeepEmptySuffix bool
}

// Symbolicator rewrites crash report lines. It holds no per-report state,
// Line/Lines/Text can be called any number of times.
type Symbolicator struct {
	target   crashreport.Target
	bundle   string
	resolver symbolizer.Resolver
	opts     Options
	frameRe  *regexp.Regexp
}

func New(target crashreport.Target, bundle string, resolver symbolizer.Resolver, opts Options) *Symbolicator {
	return &Symbolicator{
		target:   target,
		bundle:   bundle,
		resolver: resolver,
		opts:     opts,
		frameRe:  frameRegexp(target.ProcessName),
	}
}

// frameRegexp matches "<index> <processName> <0x + 8 hex digits>...".
// The name must be surrounded by whitespace, so MyApp does not match MyAppExtra frames.
func frameRegexp(processName string) *regexp.Regexp {
	if processName == "" {
		return nil
	}
	return regexp.MustCompile(`^[0-9]+[ \t]+` + regexp.QuoteMeta(processName) +
		`[ \t]+(0x[0-9a-fA-F]{8})\b`)
}

// MatchFrame returns the address if line is a frame of the target process.
func (s *Symbolicator) MatchFrame(line string) (string, bool) {
	if s.frameRe == nil {
		return "", false
	}
	match := s.frameRe.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Line returns the line with the annotation appended if it's a frame of the target process,
// or the line itself otherwise.
func (s *Symbolicator) Line(line string) string {
	addr, ok := s.MatchFrame(line)
	if !ok {
		return line
	}
	statFrames.Add(1)
	ann := s.resolver.Resolve(addr, s.target.Arch, s.bundle)
	switch {
	case ann.Empty():
		statUnresolved.Add(1)
		log.Logf(1, "unresolved frame %v", addr)
	case ann.Func == "" || ann.File == "":
		statPartial.Add(1)
	default:
		statResolved.Add(1)
	}
	suffix := ann.String()
	if suffix == "" && !s.opts.KeepEmptySuffix {
		return line
	}
	return line + " " + suffix
}

// Lines symbolicates lines one by one, in order.
func (s *Symbolicator) Lines(lines []string) []string {
	res := make([]string, len(lines))
	for i, line := range lines {
		res[i] = s.Line(line)
	}
	return res
}

// Text symbolicates a whole report. The result has the same number of lines as text
// (empty lines and the trailing newline are preserved).
func (s *Symbolicator) Text(text []byte) []byte {
	lines := strings.Split(string(text), "\n")
	return []byte(strings.Join(s.Lines(lines), "\n"))
}
