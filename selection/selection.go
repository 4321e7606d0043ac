// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

// Package selection queries the host file manager for the currently
// selected file, so interactive mode can accept a bare direction token.
// The capability is optional: platforms without a scripting bridge report
// ErrUnavailable and the interactive loop degrades gracefully.
package selection

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds one selection query. The scripting bridge is
// expected to answer in well under a second; anything longer means the
// file manager is wedged and the user should get an error, not a hang.
const DefaultTimeout = 5 * time.Second

var (
	// ErrUnavailable indicates the platform has no file-manager query support.
	ErrUnavailable = errors.New("file manager selection is not supported on this platform")

	// ErrNotAFile indicates the selection resolved to a directory or other
	// non-file. Reported as a distinct error so the loop can tell the user
	// to select a single image file.
	ErrNotAFile = errors.New("current selection is not a file")
)

// Selector reports the file currently selected in the host file manager.
type Selector interface {
	// Current returns the selected file's path. ok is false when nothing
	// suitable is selected; err reports query failures and timeouts.
	Current(ctx context.Context) (path string, ok bool, err error)
}

// Options configures a platform selector.
type Options struct {
	// Timeout bounds one query. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// New returns the selector for the current platform.
func New(opts Options) Selector {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return newPlatformSelector(opts)
}
