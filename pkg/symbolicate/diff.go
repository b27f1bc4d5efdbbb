// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolicate

import (
	"fmt"
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns changed lines of the symbolicated report in a unified-diff-like format
// without context lines. Hunk headers contain 1-based line numbers in the original report:
//
//	@@ 23 @@
//	-1   MyApp 0x0001abcd 0x1000 + 109517
//	+1   MyApp 0x0001abcd 0x1000 + 109517 main in main.m, line 42, col 7
func Diff(original, annotated []byte) string {
	diffMatcher := dmp.New()
	from, to, lines := diffMatcher.DiffLinesToChars(string(original), string(annotated))
	diffs := diffMatcher.DiffCharsToLines(diffMatcher.DiffMain(from, to, false), lines)
	buf := new(strings.Builder)
	line := 1
	inHunk := false
	for _, diff := range diffs {
		text := splitLines(diff.Text)
		if diff.Type == dmp.DiffEqual {
			line += len(text)
			inHunk = false
			continue
		}
		if !inHunk {
			fmt.Fprintf(buf, "@@ %v @@\n", line)
			inHunk = true
		}
		prefix := "+"
		if diff.Type == dmp.DiffDelete {
			prefix = "-"
			line += len(text)
		}
		for _, ln := range text {
			fmt.Fprintf(buf, "%v%v\n", prefix, ln)
		}
	}
	return buf.String()
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\n")
	}
	return lines
}
