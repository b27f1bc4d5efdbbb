// Copyright 2026 symby project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package crashreport loads iOS crash reports and extracts the identity
// (process name and architecture) of the binary that crashed.
package crashreport

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// Report is a crash report as loaded from disk.
// Text must not be modified after loading.
type Report struct {
	Path string
	Text []byte
}

// Load reads the crash report at path. Reports with .xz suffix are decompressed.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crash report: %w", err)
	}
	if strings.HasSuffix(path, ".xz") {
		if data, err = decompress(data); err != nil {
			return nil, fmt.Errorf("failed to decompress crash report %v: %w", path, err)
		}
	}
	return &Report{
		Path: path,
		Text: data,
	}, nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Analyze derives the target identity of the report.
func (rep *Report) Analyze(fallbackArch string) Target {
	return Analyze(rep.Text, fallbackArch)
}
