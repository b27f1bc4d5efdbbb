// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"flag"
	"fmt"
	"io"
)

// SetFlags returns names of the flags that were explicitly passed on the command line.
// Tools use it to let command line flags override config file values.
func SetFlags(set *flag.FlagSet) map[string]bool {
	res := make(map[string]bool)
	set.Visit(func(f *flag.Flag) {
		res[f.Name] = true
	})
	return res
}

// PrintUsage prints the usage line followed by flag defaults.
func PrintUsage(w io.Writer, set *flag.FlagSet, usage string) {
	fmt.Fprintf(w, "usage: %v\n", usage)
	set.SetOutput(w)
	set.PrintDefaults()
}
