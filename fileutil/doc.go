// Package fileutil provides the file system primitives the rotate CLI is
// built on: directory creation with secure permissions, synced copies, and
// atomic in-place replacement.
//
// # Atomic Replacement
//
// ReplaceFile renames a fully-written temporary file over its target. On
// POSIX filesystems a same-directory rename is atomic, so no reader ever
// observes a partially-rotated image at the original path. The rename is
// retried a few times with a short backoff to ride out transient locks.
//
// # Permissions
//
//   - DirPermission (0750): rwxr-x--- for created directories
//   - FilePermission (0644): rw-r--r-- for created files
package fileutil
