// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"errors"
	"time"

	"github.com/ianlancetaylor/demangle"
	"github.com/symby/symby/pkg/log"
	"github.com/symby/symby/pkg/osutil"
	"github.com/symby/symby/pkg/stat"
)

const DefaultTimeout = time.Minute

var (
	statLookups = stat.New("lookups", "Number of dwarfdump invocations",
		stat.Prometheus("symby_lookups_total"))
	statLookupErrors = stat.New("lookup errors", "Number of failed dwarfdump invocations",
		stat.Console, stat.Prometheus("symby_lookup_errors_total"))
	statLookupTimeouts = stat.New("lookup timeouts", "Number of killed hanging dwarfdump invocations",
		stat.Console, stat.Prometheus("symby_lookup_timeouts_total"))
	statLookupLatency = stat.New("lookup latency", "dwarfdump invocation latency (ms)",
		stat.Distribution{}, stat.Prometheus("symby_lookup_latency_ms"))
)

// Dwarfdump resolves addresses by running "dwarfdump --lookup <addr> --arch <arch> <bundle>",
// one process per address.
type Dwarfdump struct {
	// Bin is the lookup tool ("dwarfdump" if empty).
	Bin string
	// Timeout bounds a single invocation (DefaultTimeout if zero).
	Timeout time.Duration
	// Demangle demangles C++/Rust function names.
	Demangle bool
}

func (d *Dwarfdump) Resolve(addr, arch, bundle string) Annotation {
	bin := d.Bin
	if bin == "" {
		bin = "dwarfdump"
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	statLookups.Add(1)
	start := time.Now()
	output, err := osutil.RunCmd(timeout, "", bin, "--lookup", addr, "--arch", arch, bundle)
	statLookupLatency.Add(int(time.Since(start) / time.Millisecond))
	if err != nil {
		err = osutil.PrependContext(bin, err)
		statLookupErrors.Add(1)
		var verr *osutil.VerboseError
		if errors.As(err, &verr) && verr.Timeout {
			statLookupTimeouts.Add(1)
		}
		log.Logf(1, "failed to look up %v (%v) in %v: %v", addr, arch, bundle, err)
		return Annotation{}
	}
	ann := Parse(output)
	if ann.Empty() {
		log.Logf(2, "nothing found for %v (%v) in %v, %v output:", addr, arch, bundle, bin)
		log.VerboseWriter(2).Write(output)
	}
	if d.Demangle {
		ann.Func = demangleName(ann.Func)
	}
	return ann
}

func demangleName(name string) string {
	if name == "" {
		return name
	}
	if d, err := demangle.ToString(name); err == nil {
		return d
	}
	return name
}
