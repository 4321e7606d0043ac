package transform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// commonToolDirs returns directories searched when a tool is not in PATH.
// GUI-launched shells on macOS often miss the Homebrew prefix, so checking
// these directly makes the tool usable from Finder-adjacent contexts.
func commonToolDirs() []string {
	if runtime.GOOS == "windows" {
		return nil
	}

	dirs := []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		"/usr/bin",
		"/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"))
	}
	return dirs
}

// LookupTool resolves the executable path for an external tool.
// Resolution order: explicit configured path, PATH, then common install
// directories. Returns ErrToolNotFound when nothing matches.
func LookupTool(name, configured string) (string, error) {
	if configured != "" {
		if path, err := exec.LookPath(configured); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: configured path %q is not an executable", ErrToolNotFound, configured)
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	for _, dir := range commonToolDirs() {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s (install it and ensure it is on PATH)", ErrToolNotFound, name)
}
