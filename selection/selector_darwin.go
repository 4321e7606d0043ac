// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

//go:build darwin

package selection

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// finderSelectionScript asks Finder for the POSIX path of a single
// selected item. Zero or multiple selected items produce empty output.
const finderSelectionScript = `tell application "Finder"
	set sel to selection
	if (count of sel) is 1 then
		POSIX path of (item 1 of sel as alias)
	end if
end tell`

// scriptRunner runs the osascript query; injectable for tests.
type scriptRunner interface {
	Run(ctx context.Context, script string) ([]byte, error)
}

type osascriptRunner struct{}

func (osascriptRunner) Run(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}

// finderSelector queries Finder through osascript.
type finderSelector struct {
	timeout time.Duration
	runner  scriptRunner
}

func newPlatformSelector(opts Options) Selector {
	return &finderSelector{timeout: opts.Timeout, runner: osascriptRunner{}}
}

func (s *finderSelector) Current(ctx context.Context) (string, bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.runner.Run(queryCtx, finderSelectionScript)
	if err != nil {
		if queryCtx.Err() == context.DeadlineExceeded {
			return "", false, fmt.Errorf("file manager selection query timed out after %s", s.timeout)
		}
		return "", false, fmt.Errorf("file manager selection query failed: %w", err)
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", false, nil
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return "", false, fmt.Errorf("selected path is not accessible: %w", statErr)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("%w: %s is a directory, select a single image file", ErrNotAFile, path)
	}

	return path, true, nil
}
