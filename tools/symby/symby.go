// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// symby symbolicates iOS crash reports: frames of the crashed app get
// function name and source location appended, the rest of the report is left intact.
// Addresses are resolved with dwarfdump against the app dSYM.
//
// Usage:
//
//	symby [flags] MyApp.crash MyApp.app.dSYM
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/symby/symby/pkg/config"
	"github.com/symby/symby/pkg/crashreport"
	"github.com/symby/symby/pkg/log"
	"github.com/symby/symby/pkg/osutil"
	"github.com/symby/symby/pkg/stat"
	"github.com/symby/symby/pkg/symbolicate"
	"github.com/symby/symby/pkg/symbolizer"
	"github.com/symby/symby/pkg/symconfig"
	"github.com/symby/symby/pkg/tool"
)

var (
	flagConfig    = flag.String("config", "", "JSON or YAML (.yaml/.yml) config file")
	flagDwarfdump = flag.String("dwarfdump", "dwarfdump", "address lookup tool")
	flagTimeout   = flag.Duration("timeout", symbolizer.DefaultTimeout, "timeout for a single address lookup")
	flagArch      = flag.String("arch", crashreport.DefaultArch, "architecture to use if the report does not name one")
	flagDemangle  = flag.Bool("demangle", false, "demangle C++/Rust function names")
	flagKeepEmpty = flag.Bool("keep_empty_suffix", false, "append a space to frame lines even if nothing was resolved")
	flagDiff      = flag.Bool("diff", false, "print only changed lines instead of the whole report")
	flagOutDir    = flag.String("outdir", "", "save original and symbolicated reports to a new subdir of outdir")
	flagMetrics   = flag.String("metrics_file", "", "save run metrics in Prometheus text format to the file")
)

const usage = "symby [flags] MyApp.crash MyApp.app.dSYM"

func main() {
	flag.Usage = func() {
		tool.PrintUsage(os.Stderr, flag.CommandLine, usage)
	}
	flag.Parse()
	os.Exit(symby(flag.Args(), tool.SetFlags(flag.CommandLine), os.Stdout))
}

// symby runs the tool on the positional args and returns the process exit code.
// set contains names of the explicitly passed flags.
func symby(args []string, set map[string]bool, stdout io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(stdout, "\nUsage: %v\n\n", usage)
		return tool.ExitCode
	}
	if msg := checkInputs(args[0], args[1]); msg != "" {
		fmt.Fprintf(stdout, "\n%v\nUsage: %v\n\n", msg, usage)
		return tool.ExitCode
	}
	cfg, err := loadConfig(*flagConfig, set)
	if err != nil {
		log.Errorf("%v", err)
		return tool.ExitCode
	}
	opts := outputOptions{
		diff:        *flagDiff,
		outDir:      *flagOutDir,
		metricsFile: *flagMetrics,
	}
	if err := run(cfg, args[0], args[1], opts, stdout); err != nil {
		log.Errorf("%v", err)
		return tool.ExitCode
	}
	return 0
}

// checkInputs returns a message for the user if any of the inputs does not exist.
func checkInputs(reportPath, bundlePath string) string {
	if !osutil.IsExist(reportPath) {
		return "You provided an invalid crash report file."
	}
	if !osutil.IsExist(bundlePath) {
		return "You provided an invalid dSYM file."
	}
	return ""
}

// loadConfig loads the config file (if any) and applies explicitly set flags on top of it.
func loadConfig(file string, set map[string]bool) (*symconfig.Config, error) {
	cfg, err := symconfig.LoadFile(file, func(cfg *symconfig.Config) {
		if set["dwarfdump"] {
			cfg.Dwarfdump = *flagDwarfdump
		}
		if set["timeout"] {
			cfg.Timeout = flagTimeout.String()
		}
		if set["arch"] {
			cfg.DefaultArch = *flagArch
		}
		if set["demangle"] {
			cfg.Demangle = *flagDemangle
		}
		if set["keep_empty_suffix"] {
			cfg.KeepEmptySuffix = *flagKeepEmpty
		}
	})
	if err != nil {
		return nil, err
	}
	if !set["v"] && cfg.Verbosity != 0 {
		log.SetVerbosity(cfg.Verbosity)
	}
	return cfg, nil
}

type outputOptions struct {
	diff        bool
	outDir      string
	metricsFile string
}

func run(cfg *symconfig.Config, reportPath, bundlePath string, opts outputOptions, w io.Writer) error {
	rep, err := crashreport.Load(reportPath)
	if err != nil {
		return err
	}
	target := rep.Analyze(cfg.DefaultArch)
	if target.ProcessName == "" {
		log.Logf(0, "no process name in %v, nothing to symbolicate", reportPath)
	}
	log.Logf(1, "symbolicating %q (%v) frames with %v", target.ProcessName, target.Arch, bundlePath)
	resolver := &symbolizer.Dwarfdump{
		Bin:      cfg.Dwarfdump,
		Timeout:  cfg.LookupTimeout,
		Demangle: cfg.Demangle,
	}
	symb := symbolicate.New(target, bundlePath, resolver, symbolicate.Options{
		KeepEmptySuffix: cfg.KeepEmptySuffix,
	})
	annotated := symb.Text(rep.Text)
	out := annotated
	if len(out) != 0 && !bytes.HasSuffix(out, []byte{'\n'}) {
		out = append(out[:len(out):len(out)], '\n')
	}
	if opts.diff {
		_, err = io.WriteString(w, symbolicate.Diff(rep.Text, annotated))
	} else {
		_, err = w.Write(out)
	}
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		dir, err := saveReport(opts.outDir, cfg, rep, target, out)
		if err != nil {
			return err
		}
		log.Logf(0, "saved symbolicated report to %v", dir)
	}
	for _, st := range stat.Collect(stat.Console) {
		log.Logf(1, "%-16v: %v", st.Name, st.Value)
	}
	if opts.metricsFile != "" {
		if err := stat.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// saveReport saves the original report, the symbolicated report, a short description
// and the effective config into a new unique subdirectory of outDir.
func saveReport(outDir string, cfg *symconfig.Config, rep *crashreport.Report, target crashreport.Target,
	out []byte) (string, error) {
	dir := filepath.Join(outDir, uuid.NewString())
	if err := osutil.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	desc := fmt.Sprintf("report: %v\nprocess: %v\narch: %v\n", rep.Path, target.ProcessName, target.Arch)
	files := []struct {
		name string
		data []byte
	}{
		{"description", []byte(desc)},
		{"report", rep.Text},
		{"symbolicated", out},
	}
	for _, f := range files {
		if err := osutil.WriteFile(filepath.Join(dir, f.name), f.data); err != nil {
			return "", fmt.Errorf("failed to write %v: %w", f.name, err)
		}
	}
	if err := config.SaveFile(filepath.Join(dir, "config.json"), cfg); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return dir, nil
}
