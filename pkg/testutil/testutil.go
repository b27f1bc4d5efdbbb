// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

func IterCount() int {
	iters := 1000
	if testing.Short() {
		iters /= 10
	}
	return iters
}

func RandSource(t *testing.T) rand.Source {
	seed := time.Now().UnixNano()
	if fixed := os.Getenv("SYMBY_SEED"); fixed != "" {
		seed, _ = strconv.ParseInt(fixed, 0, 64)
	}
	if os.Getenv("CI") != "" {
		seed = 0 // deterministic CI runs
	}
	t.Logf("seed=%v", seed)
	return rand.NewSource(seed)
}

var reportWords = []string{
	"0", "1", "12", "Thread", "Crashed:", "Process:", "[1234]", "+", "0x1000", "0x0001abcd",
	"0x3a8a5f7a", "0x0000000100004e21", "libobjc.A.dylib", "UIKit", "objc_msgSend",
	"armv7", "armv7s", "arm64", "-[UIApplication", "sendAction:to:from:forEvent:]",
	"\t", " ", "  ", "", "(", ")", "'", "\r", "é", "\\",
}

// RandReportLine returns a random line resembling crash report content.
// If name is not empty, it's mixed into the line as well (also as part of bigger words).
// The line never contains '\n'.
func RandReportLine(r *rand.Rand, name string) string {
	words := reportWords
	if name != "" {
		words = append(words[:len(words):len(words)], name, name+"Extra", "Not"+name, name+".framework")
	}
	n := r.Intn(8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[r.Intn(len(words))]
	}
	sep := []string{" ", "\t", "   "}[r.Intn(3)]
	return strings.Join(parts, sep)
}

// RandFrameLine returns a random frame line of the process name with the given address.
func RandFrameLine(r *rand.Rand, name, addr string) string {
	pad := strings.Repeat(" ", 1+r.Intn(30))
	return fmt.Sprintf("%v%v%v\t%v 0x1000 + %v", r.Intn(64), pad, name, addr, r.Intn(1<<20))
}
