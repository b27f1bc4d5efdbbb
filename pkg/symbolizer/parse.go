// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"bytes"
	"regexp"
	"strconv"
)

// dwarfdump --lookup prints several optional blocks, we match the two we need independently.
// If the output format changes, the corresponding matcher tests catch it.
var (
	// "    start_addr: 0x0001ab00 -[AppDelegate application:didFinishLaunchingWithOptions:]"
	startAddrRe = regexp.MustCompile(`\bstart_addr:[ \t]+0x[0-9a-fA-F]{8}[ \t]+([^\n]+)`)
	// "Line table file: 'AppDelegate.m' line 42, column 7 with start address 0x0001abc8"
	lineTableRe = regexp.MustCompile(`\bLine table file:[ \t]*'([^\n]+)'[ \t]+line[ \t]+([0-9]+),[ \t]*column[ \t]+([0-9]+)`)
)

// Parse extracts debug info from dwarfdump --lookup output.
func Parse(output []byte) Annotation {
	var ann Annotation
	if fn, ok := ParseStartAddr(output); ok {
		ann.Func = fn
	}
	if file, line, col, ok := ParseLineTable(output); ok {
		ann.File, ann.Line, ann.Column = file, line, col
	}
	return ann
}

// ParseStartAddr returns the function description following the first start_addr: label.
func ParseStartAddr(output []byte) (string, bool) {
	match := startAddrRe.FindSubmatch(output)
	if match == nil {
		return "", false
	}
	fn := string(bytes.TrimSpace(match[1]))
	return fn, fn != ""
}

// ParseLineTable returns file, line and column of the first line table entry.
func ParseLineTable(output []byte) (file string, line, col int, ok bool) {
	match := lineTableRe.FindSubmatch(output)
	if match == nil {
		return "", 0, 0, false
	}
	line, err := strconv.Atoi(string(match[2]))
	if err != nil {
		return "", 0, 0, false
	}
	col, err = strconv.Atoi(string(match[3]))
	if err != nil {
		return "", 0, 0, false
	}
	return string(match[1]), line, col, true
}
