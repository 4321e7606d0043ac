package transform

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner is an interface for running external commands.
// This allows for substituting a fake transformer in tests without
// spawning real tools.
type Runner interface {
	// Run executes a command and returns captured stdout and stderr.
	// A non-zero exit status is reported through err (*exec.ExitError).
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner uses os/exec to run commands.
type ExecRunner struct{}

// Run executes a command, capturing stdout and stderr separately.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- name is a resolved tool path, args are built internally

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
