// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

package backup

import "sync"

// DirCache memoizes the resolved backup directory per source directory so
// repeated rotations in one interactive session skip the mkdir/stat dance.
// It is an explicit object rather than package state so tests inject a
// fresh cache per case. Entries carry no correctness obligation; the
// Replacer re-validates before trusting one.
type DirCache struct {
	mu   sync.Mutex
	dirs map[string]string
}

// NewDirCache creates an empty cache.
func NewDirCache() *DirCache {
	return &DirCache{dirs: make(map[string]string)}
}

// Get returns the cached backup directory for srcDir.
func (c *DirCache) Get(srcDir string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dir, ok := c.dirs[srcDir]
	return dir, ok
}

// Put records the resolved backup directory for srcDir.
func (c *DirCache) Put(srcDir, backupDir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirs[srcDir] = backupDir
}

// Invalidate drops the entry for srcDir.
func (c *DirCache) Invalidate(srcDir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dirs, srcDir)
}

// Len returns the number of cached entries.
func (c *DirCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dirs)
}
