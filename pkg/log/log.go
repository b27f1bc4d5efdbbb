// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log provides functionality similar to standard log package with some extensions:
//   - verbosity levels
//   - global verbosity setting that can be used by multiple packages
//   - ability to redirect all output (stdout is reserved for the symbolicated report)
package log

import (
	"flag"
	"fmt"
	"io"
	golog "log"
	"os"
	"sync"
)

var (
	flagV  = flag.Int("v", 0, "verbosity")
	mu     sync.Mutex
	logger = golog.New(os.Stderr, "", golog.LstdFlags)
)

// SetVerbosity overrides the -v flag, e.g. with a value coming from a config file.
func SetVerbosity(v int) {
	mu.Lock()
	defer mu.Unlock()
	*flagV = v
}

// V reports whether messages of verbosity level v are printed.
func V(v int) bool {
	mu.Lock()
	defer mu.Unlock()
	return v <= *flagV
}

// SetOutput redirects log output. Returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := logger.Writer()
	logger.SetOutput(w)
	return prev
}

func Logf(v int, msg string, args ...interface{}) {
	if !V(v) {
		return
	}
	logger.Output(2, fmt.Sprintf(msg, args...))
}

func Errorf(msg string, args ...interface{}) {
	logger.Output(2, "ERROR: "+fmt.Sprintf(msg, args...))
}

type VerboseWriter int

func (w VerboseWriter) Write(data []byte) (int, error) {
	Logf(int(w), "%s", data)
	return len(data), nil
}
