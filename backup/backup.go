// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

// Package backup implements the safe-replace-with-backup file operation:
// copy the original image to a collision-safe backup path, then atomically
// swap the rotated temporary file into place. The original is replaced
// only after its backup copy has been written.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/picsafe/rotate/fileutil"
	"github.com/picsafe/rotate/logutil"
)

// DefaultDirName is the backup subdirectory created next to each source file.
const DefaultDirName = "rotate_bkup"

// maxNameAttempts bounds the collision-suffix search.
const maxNameAttempts = 10000

// defaultLowSpaceBytes triggers a low-disk warning below this much free
// space on the backup volume.
const defaultLowSpaceBytes = 256 << 20 // 256 MiB

// Replacement errors. Callers match with errors.Is.
var (
	// ErrDirUnavailable indicates no backup directory could be created,
	// neither next to the source nor under the fallback location. The
	// backup step is never silently skipped.
	ErrDirUnavailable = errors.New("backup directory unavailable")

	// ErrNameExhausted indicates the collision-suffix search hit its bound.
	ErrNameExhausted = errors.New("backup name attempts exhausted")

	// ErrCopyFailed indicates the original could not be copied to its backup path.
	ErrCopyFailed = errors.New("backup copy failed")

	// ErrReplaceFailed indicates the final rename over the original failed.
	ErrReplaceFailed = errors.New("replace failed")
)

// Options configures a Replacer.
type Options struct {
	// Cache memoizes backup directory resolution. Defaults to a fresh cache.
	Cache *DirCache

	// DirName is the backup subdirectory name. Defaults to DefaultDirName.
	DirName string

	// FallbackDir receives backups when the co-located directory cannot be
	// created. Defaults to <home>/<DirName>.
	FallbackDir string

	// LowSpaceBytes sets the free-space warning threshold for the backup
	// volume. Zero uses the default; the warning never blocks a rotation.
	LowSpaceBytes uint64
}

// Replacer performs the backup-then-replace sequence for one process.
// It is not safe for concurrent use; rotations run strictly sequentially.
type Replacer struct {
	cache         *DirCache
	dirName       string
	fallbackDir   string
	lowSpaceBytes uint64
	log           *logutil.ComponentLogger
}

// NewReplacer creates a Replacer.
func NewReplacer(opts Options) *Replacer {
	cache := opts.Cache
	if cache == nil {
		cache = NewDirCache()
	}
	dirName := opts.DirName
	if dirName == "" {
		dirName = DefaultDirName
	}
	lowSpace := opts.LowSpaceBytes
	if lowSpace == 0 {
		lowSpace = defaultLowSpaceBytes
	}
	return &Replacer{
		cache:         cache,
		dirName:       dirName,
		fallbackDir:   opts.FallbackDir,
		lowSpaceBytes: lowSpace,
		log:           logutil.NewLogger("backup"),
	}
}

// Replace backs up srcPath and then atomically renames tmpPath over it.
// It returns the backup file's path.
//
// Failure contract: on any error the original file at srcPath is unchanged
// and tmpPath has been removed, except for ErrReplaceFailed where the
// verified backup copy is intentionally kept.
func (r *Replacer) Replace(srcPath, tmpPath string) (string, error) {
	backupDir, err := r.resolveDir(filepath.Dir(srcPath))
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	backupPath, err := uniquePath(backupDir, filepath.Base(srcPath))
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	r.warnLowSpace(backupDir)

	if err := fileutil.CopyFile(srcPath, backupPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	if err := fileutil.ReplaceFile(tmpPath, srcPath); err != nil {
		_ = os.Remove(tmpPath)
		// The backup copy stays; it is a valid copy of the unchanged original.
		return "", fmt.Errorf("%w: %v", ErrReplaceFailed, err)
	}

	r.log.Debug("replaced original", "src", srcPath, "backup", backupPath)
	return backupPath, nil
}

// resolveDir returns a usable backup directory for files in srcDir,
// preferring the cached resolution. A cached directory that has since
// vanished or become unwritable is re-resolved rather than trusted.
func (r *Replacer) resolveDir(srcDir string) (string, error) {
	if cached, ok := r.cache.Get(srcDir); ok {
		if fileutil.IsDirWritable(cached) {
			return cached, nil
		}
		r.cache.Invalidate(srcDir)
	}

	local := filepath.Join(srcDir, r.dirName)
	localErr := fileutil.EnsureDir(local)
	if localErr == nil {
		r.cache.Put(srcDir, local)
		return local, nil
	}

	fallback, fallbackErr := r.resolveFallback()
	if fallbackErr != nil {
		return "", fmt.Errorf("%w: %v; fallback: %v", ErrDirUnavailable, localErr, fallbackErr)
	}

	r.log.Warn("cannot create backup directory next to source, using fallback",
		"wanted", local, "fallback", fallback)
	r.cache.Put(srcDir, fallback)
	return fallback, nil
}

func (r *Replacer) resolveFallback() (string, error) {
	dir := r.fallbackDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, r.dirName)
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// warnLowSpace logs a warning when the backup volume is nearly full.
// Best effort only; usage probes fail on some filesystems and that must
// never block a rotation.
func (r *Replacer) warnLowSpace(dir string) {
	usage, err := disk.Usage(dir)
	if err != nil {
		return
	}
	if usage.Free < r.lowSpaceBytes {
		r.log.Warn("backup volume is low on space", "dir", dir, "freeBytes", usage.Free)
	}
}

// uniquePath returns a path for filename in dir that does not collide with
// an existing file, suffixing _1, _2, ... before the extension as needed.
func uniquePath(dir, filename string) (string, error) {
	candidate := filepath.Join(dir, filename)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	for i := 1; i <= maxNameAttempts; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s in %s", ErrNameExhausted, filename, dir)
}
