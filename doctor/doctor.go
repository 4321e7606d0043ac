// Package doctor verifies the environment the rotate CLI depends on:
// external tool binaries, the file-manager scripting bridge, the backup
// fallback directory, and free disk space.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/picsafe/rotate/cliout"
	"github.com/picsafe/rotate/config"
	"github.com/picsafe/rotate/fileutil"
	"github.com/picsafe/rotate/transform"
)

// Status classifies a check result.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is one environment check result.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// lowSpaceBytes is the free-space threshold below which the disk check warns.
const lowSpaceBytes = 256 << 20

// Run executes all environment checks.
func Run(cfg config.Config) []Check {
	checks := []Check{
		toolCheck(transform.ToolJpegtran, cfg.JpegtranPath, "lossless JPEG rotation"),
		toolCheck(transform.ToolMagick, cfg.MagickPath, "PNG rotation"),
		selectionCheck(),
		fallbackDirCheck(cfg),
	}
	checks = append(checks, diskCheck())
	return checks
}

// HasFailure reports whether any check failed outright.
func HasFailure(checks []Check) bool {
	for _, c := range checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Print renders check results to the terminal.
func Print(checks []Check) {
	cliout.Header("rotate doctor")
	for _, c := range checks {
		switch c.Status {
		case StatusOK:
			cliout.Success("%s: %s", c.Name, c.Detail)
		case StatusWarn:
			cliout.Warning("%s: %s", c.Name, c.Detail)
		default:
			cliout.Error("%s: %s", c.Name, c.Detail)
		}
	}
}

func toolCheck(name, configured, purpose string) Check {
	path, err := transform.LookupTool(name, configured)
	if err != nil {
		return Check{
			Name:   name,
			Status: StatusFail,
			Detail: fmt.Sprintf("not found (%s): %v", purpose, err),
		}
	}
	return Check{Name: name, Status: StatusOK, Detail: path}
}

func selectionCheck() Check {
	if runtime.GOOS != "darwin" {
		return Check{
			Name:   "file manager selection",
			Status: StatusWarn,
			Detail: fmt.Sprintf("not supported on %s; bare-direction commands need a path", runtime.GOOS),
		}
	}
	path, err := exec.LookPath("osascript")
	if err != nil {
		return Check{
			Name:   "file manager selection",
			Status: StatusWarn,
			Detail: "osascript not found; bare-direction commands need a path",
		}
	}
	return Check{Name: "file manager selection", Status: StatusOK, Detail: path}
}

func fallbackDirCheck(cfg config.Config) Check {
	dir := cfg.BackupFallbackDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Check{Name: "backup fallback", Status: StatusFail, Detail: err.Error()}
		}
		dir = filepath.Join(home, cfg.BackupDirName)
	}

	if err := fileutil.EnsureDir(dir); err != nil {
		return Check{
			Name:   "backup fallback",
			Status: StatusFail,
			Detail: fmt.Sprintf("%s: %v", dir, err),
		}
	}
	if !fileutil.IsDirWritable(dir) {
		return Check{
			Name:   "backup fallback",
			Status: StatusFail,
			Detail: fmt.Sprintf("%s is not writable", dir),
		}
	}
	return Check{Name: "backup fallback", Status: StatusOK, Detail: dir}
}

func diskCheck() Check {
	home, err := os.UserHomeDir()
	if err != nil {
		return Check{Name: "disk space", Status: StatusWarn, Detail: err.Error()}
	}
	usage, err := disk.Usage(home)
	if err != nil {
		return Check{Name: "disk space", Status: StatusWarn, Detail: fmt.Sprintf("could not probe: %v", err)}
	}
	detail := fmt.Sprintf("%s free on %s", humanBytes(usage.Free), home)
	if usage.Free < lowSpaceBytes {
		return Check{Name: "disk space", Status: StatusWarn, Detail: detail + " (backups may fail)"}
	}
	return Check{Name: "disk space", Status: StatusOK, Detail: detail}
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
