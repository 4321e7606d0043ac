// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

package fileutil

import (
	"fmt"
	"io"
	"os"
	"time"
)

// File permissions
const (
	// DirPermission is the default permission for creating directories (rwxr-x---)
	DirPermission = 0750
	// FilePermission is the default permission for creating files (rw-r--r--)
	FilePermission = 0644
)

// EnsureDir creates a directory (and any missing parents) with secure
// permissions. It is a no-op if the directory already exists.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if err := os.MkdirAll(path, DirPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// FileExists reports whether path references an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDirWritable reports whether dir exists, is a directory, and accepts a
// new file. The probe file is removed before returning.
func IsDirWritable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe, err := os.CreateTemp(dir, ".writecheck-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}

// CopyFile copies src to dst, creating or truncating dst. The copy is
// synced to disk before the function returns so a subsequent crash cannot
// leave a half-written destination that looks complete.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- caller controls the path
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePermission) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to sync destination file: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	return nil
}

// ReplaceFile atomically renames src over dst. Both paths must be on the
// same volume for the rename to be atomic; callers arrange for that by
// creating src in dst's directory.
//
// A few retries with backoff mitigate transient rename races (antivirus
// scanners and file indexers briefly holding the target open).
func ReplaceFile(src, dst string) error {
	var renameErr error
	for attempt := 0; attempt < 5; attempt++ {
		renameErr = os.Rename(src, dst)
		if renameErr == nil {
			return nil
		}
		if attempt < 4 { // Don't sleep on last attempt
			delay := time.Duration(20*(attempt+1)) * time.Millisecond // 20ms, 40ms, 60ms, 80ms
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("failed to rename file into place: %w", renameErr)
}
