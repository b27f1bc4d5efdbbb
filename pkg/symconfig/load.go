// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symconfig

import (
	"fmt"
	"regexp"
	"time"

	"github.com/symby/symby/pkg/config"
	"github.com/symby/symby/pkg/crashreport"
	"github.com/symby/symby/pkg/symbolizer"
)

// LoadFile loads a JSON or YAML (by .yaml/.yml extension) config on top of the defaults.
// An empty filename means defaults only. If override is not nil, it's applied to the loaded
// config before validation (e.g. to apply command line flags).
func LoadFile(filename string, override func(*Config)) (*Config, error) {
	cfg := Default()
	if filename != "" {
		if err := config.LoadFile(filename, cfg); err != nil {
			return nil, err
		}
	}
	if override != nil {
		override(cfg)
	}
	if err := Complete(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with default values, Complete is not yet called on it.
func Default() *Config {
	return &Config{
		Dwarfdump:   "dwarfdump",
		Timeout:     symbolizer.DefaultTimeout.String(),
		DefaultArch: crashreport.DefaultArch,
	}
}

var archRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func Complete(cfg *Config) error {
	if cfg.Dwarfdump == "" {
		return fmt.Errorf("config param dwarfdump is empty")
	}
	if cfg.DefaultArch == "" {
		cfg.DefaultArch = crashreport.DefaultArch
	}
	if !archRe.MatchString(cfg.DefaultArch) {
		return fmt.Errorf("bad config param default_arch: %q", cfg.DefaultArch)
	}
	if cfg.Timeout == "" {
		cfg.Timeout = symbolizer.DefaultTimeout.String()
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("bad config param timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("bad config param timeout: %v, want > 0", cfg.Timeout)
	}
	cfg.LookupTimeout = timeout
	if cfg.Verbosity < 0 {
		return fmt.Errorf("bad config param verbosity: %v", cfg.Verbosity)
	}
	return nil
}
