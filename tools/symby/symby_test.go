// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symby/symby/pkg/log"
	"github.com/symby/symby/pkg/osutil"
	"github.com/symby/symby/pkg/symconfig"
)

const testReport = `Process:         MyApp [1234]

Thread 0 Crashed:
0   libobjc.A.dylib               	0x3a8a5f7a objc_msgSend + 26
1   MyApp                         	0x0001abcd 0x1000 + 109517
2   MyApp                         	0x00badbad 0x1000 + 12266413

Binary Images:
0x1000 - 0x5afff +MyApp armv7s  <2f1e> /var/MyApp.app/MyApp
`

type testEnv struct {
	report string
	bundle string
	cfg    *symconfig.Config
}

func setup(t *testing.T) *testEnv {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	dir := t.TempDir()
	env := &testEnv{
		report: filepath.Join(dir, "MyApp.crash"),
		bundle: filepath.Join(dir, "MyApp.app.dSYM"),
	}
	require.NoError(t, osutil.WriteFile(env.report, []byte(testReport)))
	require.NoError(t, osutil.MkdirAll(env.bundle))
	dwarfdump := filepath.Join(dir, "dwarfdump")
	require.NoError(t, osutil.WriteExecFile(dwarfdump, []byte(`#!/bin/sh
if [ "$4" != "armv7s" ]; then exit 1; fi
if [ "$2" = "0x0001abcd" ]; then
	echo "    start_addr: 0x0001ab00 -[AppDelegate crash]"
	echo "Line table file: 'AppDelegate.m' line 42, column 7 with start address 0x0001abc8"
fi
`)))
	env.cfg = symconfig.Default()
	env.cfg.Dwarfdump = dwarfdump
	require.NoError(t, symconfig.Complete(env.cfg))
	return env
}

func TestRun(t *testing.T) {
	env := setup(t)
	out := new(bytes.Buffer)
	require.NoError(t, run(env.cfg, env.report, env.bundle, outputOptions{}, out))
	want := strings.Replace(testReport, "0x1000 + 109517\n",
		"0x1000 + 109517 -[AppDelegate crash] in AppDelegate.m, line 42, col 7\n", 1)
	assert.Equal(t, want, out.String())
}

func TestRunAddsTrailingNewline(t *testing.T) {
	env := setup(t)
	require.NoError(t, osutil.WriteFile(env.report, []byte("Process: MyApp [1]\nno frames")))
	out := new(bytes.Buffer)
	require.NoError(t, run(env.cfg, env.report, env.bundle, outputOptions{}, out))
	assert.Equal(t, "Process: MyApp [1]\nno frames\n", out.String())
}

func TestRunDiff(t *testing.T) {
	env := setup(t)
	out := new(bytes.Buffer)
	require.NoError(t, run(env.cfg, env.report, env.bundle, outputOptions{diff: true}, out))
	assert.Equal(t, "@@ 5 @@\n"+
		"-1   MyApp                         \t0x0001abcd 0x1000 + 109517\n"+
		"+1   MyApp                         \t0x0001abcd 0x1000 + 109517 "+
		"-[AppDelegate crash] in AppDelegate.m, line 42, col 7\n", out.String())

	// The newline appended to the output is not a change of the report.
	require.NoError(t, osutil.WriteFile(env.report, []byte("Process: MyApp [1]\nno frames")))
	out.Reset()
	require.NoError(t, run(env.cfg, env.report, env.bundle, outputOptions{diff: true}, out))
	assert.Equal(t, "", out.String())

	require.NoError(t, osutil.WriteFile(env.report, []byte("Process: MyApp [1]\n"+
		"1 MyApp 0x0001abcd 0x1000 + 109517\n"+
		"Binary Images:\n0x1000 - 0x5afff +MyApp armv7s")))
	out.Reset()
	require.NoError(t, run(env.cfg, env.report, env.bundle, outputOptions{diff: true}, out))
	assert.Equal(t, "@@ 2 @@\n"+
		"-1 MyApp 0x0001abcd 0x1000 + 109517\n"+
		"+1 MyApp 0x0001abcd 0x1000 + 109517 -[AppDelegate crash] in AppDelegate.m, line 42, col 7\n",
		out.String())
}

func TestRunOutDirAndMetrics(t *testing.T) {
	env := setup(t)
	outDir := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "symby.prom")
	out := new(bytes.Buffer)
	opts := outputOptions{outDir: outDir, metricsFile: metrics}
	require.NoError(t, run(env.cfg, env.report, env.bundle, opts, out))

	dirs, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	dir := filepath.Join(outDir, dirs[0].Name())
	original, err := os.ReadFile(filepath.Join(dir, "report"))
	require.NoError(t, err)
	assert.Equal(t, testReport, string(original))
	symbolicated, err := os.ReadFile(filepath.Join(dir, "symbolicated"))
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(symbolicated))
	desc, err := os.ReadFile(filepath.Join(dir, "description"))
	require.NoError(t, err)
	assert.Contains(t, string(desc), "process: MyApp\narch: armv7s\n")
	savedCfg, err := symconfig.LoadFile(filepath.Join(dir, "config.json"), nil)
	require.NoError(t, err)
	assert.Equal(t, env.cfg, savedCfg)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "symby_frames_total")
	assert.Contains(t, string(data), "symby_lookup_latency_ms_count")
}

func TestRunMissingReport(t *testing.T) {
	env := setup(t)
	err := run(env.cfg, env.report+".missing", env.bundle, outputOptions{}, new(bytes.Buffer))
	assert.ErrorContains(t, err, "failed to read crash report")
}

func TestExitCode(t *testing.T) {
	env := setup(t)
	logOut := new(bytes.Buffer)
	defer log.SetOutput(log.SetOutput(logOut))
	defer func(dwarfdump, cfg string) {
		*flagDwarfdump, *flagConfig = dwarfdump, cfg
	}(*flagDwarfdump, *flagConfig)
	*flagDwarfdump = env.cfg.Dwarfdump
	set := map[string]bool{"dwarfdump": true}

	const usageText = "Usage: symby [flags] MyApp.crash MyApp.app.dSYM\n\n"
	tests := []struct {
		name   string
		args   []string
		exit   int
		stdout string
	}{
		{
			name:   "no args",
			args:   nil,
			exit:   1,
			stdout: "\n" + usageText,
		},
		{
			name:   "one arg",
			args:   []string{env.report},
			exit:   1,
			stdout: "\n" + usageText,
		},
		{
			name:   "too many args",
			args:   []string{env.report, env.bundle, env.bundle},
			exit:   1,
			stdout: "\n" + usageText,
		},
		{
			name:   "missing report",
			args:   []string{env.report + ".missing", env.bundle},
			exit:   1,
			stdout: "\nYou provided an invalid crash report file.\n" + usageText,
		},
		{
			name:   "missing dSYM",
			args:   []string{env.report, env.bundle + ".missing"},
			exit:   1,
			stdout: "\nYou provided an invalid dSYM file.\n" + usageText,
		},
		{
			name: "ok",
			args: []string{env.report, env.bundle},
			exit: 0,
			stdout: strings.Replace(testReport, "0x1000 + 109517\n",
				"0x1000 + 109517 -[AppDelegate crash] in AppDelegate.m, line 42, col 7\n", 1),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			assert.Equal(t, test.exit, symby(test.args, set, out))
			assert.Equal(t, test.stdout, out.String())
		})
	}

	// Broken config file.
	*flagConfig = filepath.Join(t.TempDir(), "symby.cfg")
	require.NoError(t, osutil.WriteFile(*flagConfig, []byte(`{"timeout": "soon"}`)))
	out := new(bytes.Buffer)
	assert.Equal(t, 1, symby([]string{env.report, env.bundle}, set, out))
	assert.Empty(t, out.String())
	assert.Contains(t, logOut.String(), "ERROR: bad config param timeout")
}

func TestCheckInputs(t *testing.T) {
	env := setup(t)
	assert.Equal(t, "", checkInputs(env.report, env.bundle))
	assert.Equal(t, "You provided an invalid crash report file.", checkInputs(env.report+"x", env.bundle))
	assert.Equal(t, "You provided an invalid dSYM file.", checkInputs(env.report, env.bundle+"x"))
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "symby.yml")
	require.NoError(t, osutil.WriteFile(file, []byte("dwarfdump: llvm-dwarfdump\ntimeout: 10s\ndefault_arch: arm64\n")))

	cfg, err := loadConfig(file, nil)
	require.NoError(t, err)
	assert.Equal(t, "llvm-dwarfdump", cfg.Dwarfdump)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout)
	assert.Equal(t, "arm64", cfg.DefaultArch)

	defer func(old time.Duration, arch string) {
		*flagTimeout, *flagArch = old, arch
	}(*flagTimeout, *flagArch)
	*flagTimeout = 3 * time.Second
	*flagArch = "armv6"
	cfg, err = loadConfig(file, map[string]bool{"timeout": true, "arch": true})
	require.NoError(t, err)
	assert.Equal(t, "llvm-dwarfdump", cfg.Dwarfdump)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout)
	assert.Equal(t, "armv6", cfg.DefaultArch)

	cfg, err = loadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "dwarfdump", cfg.Dwarfdump)
	assert.Equal(t, "armv7", cfg.DefaultArch)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.cfg"), nil)
	assert.Error(t, err)
}
