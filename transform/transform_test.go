package transform

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picsafe/rotate/rotation"
)

// fakeRunner is a test double for Runner.
type fakeRunner struct {
	// calls records every invocation as name followed by args.
	calls [][]string
	// writeOutput, when non-empty, is written to the detected output path.
	writeOutput []byte
	// stderr is returned as captured stderr.
	stderr []byte
	// err is returned from Run.
	err error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(f.writeOutput) > 0 {
		if out := outputArg(args); out != "" {
			if err := os.WriteFile(out, f.writeOutput, 0644); err != nil {
				return nil, nil, err
			}
		}
	}
	return nil, f.stderr, f.err
}

// outputArg finds the output path in either tool's argument layout.
func outputArg(args []string) string {
	for i, a := range args {
		if a == "-outfile" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if len(args) > 0 {
		return args[len(args)-1]
	}
	return ""
}

// fakeTool creates an executable file so LookupTool resolves it.
func fakeTool(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool fixture requires a unix executable bit")
	}
	path := filepath.Join(t.TempDir(), "faketool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755))
	return path
}

// realExitError produces a genuine *exec.ExitError for the fake runner.
func realExitError(t *testing.T, code int) error {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("exit error fixture requires sh")
	}
	err := exec.Command("sh", "-c", "exit "+itoa(code)).Run()
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	return err
}

func itoa(n int) string {
	return string(rune('0' + n))
}

func jpegFixture(t *testing.T) rotation.Request {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("original jpeg"), 0644))
	req, err := rotation.Resolve(path, "r")
	require.NoError(t, err)
	return req
}

func TestTransformJpegSuccess(t *testing.T) {
	req := jpegFixture(t)
	runner := &fakeRunner{writeOutput: []byte("rotated jpeg")}
	tr := New(Options{Runner: runner, JpegtranPath: fakeTool(t)})

	tmpPath, err := tr.Transform(context.Background(), req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpPath) })

	assert.Equal(t, filepath.Dir(req.Path), filepath.Dir(tmpPath), "temp output must share the source directory")

	require.Len(t, runner.calls, 1)
	args := runner.calls[0][1:]
	assert.Equal(t, []string{"-rotate", "90", "-copy", "all", "-trim", "-outfile", tmpPath, req.Path}, args)

	content, err := os.ReadFile(tmpPath)
	require.NoError(t, err)
	assert.Equal(t, "rotated jpeg", string(content))
}

func TestTransformPngArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))
	req, err := rotation.Resolve(path, "l")
	require.NoError(t, err)

	runner := &fakeRunner{writeOutput: []byte("rotated png")}
	tr := New(Options{Runner: runner, MagickPath: fakeTool(t)})

	tmpPath, err := tr.Transform(context.Background(), req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpPath) })

	require.Len(t, runner.calls, 1)
	args := runner.calls[0][1:]
	assert.Equal(t, []string{"convert", req.Path, "-rotate", "270", tmpPath}, args)
}

func TestTransformToolFailure(t *testing.T) {
	req := jpegFixture(t)
	runner := &fakeRunner{
		stderr: []byte("Not a JPEG file: starts with 0x89 0x50"),
		err:    realExitError(t, 2),
	}
	tr := New(Options{Runner: runner, JpegtranPath: fakeTool(t)})

	_, err := tr.Transform(context.Background(), req)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, ToolJpegtran, toolErr.Tool)
	assert.Equal(t, 2, toolErr.ExitCode)
	assert.Contains(t, toolErr.Stderr, "Not a JPEG file")

	// Source untouched, no temp files left behind.
	content, readErr := os.ReadFile(req.Path)
	require.NoError(t, readErr)
	assert.Equal(t, "original jpeg", string(content))
	assertNoTempFiles(t, filepath.Dir(req.Path))
}

func TestTransformEmptyOutput(t *testing.T) {
	req := jpegFixture(t)
	runner := &fakeRunner{} // exits zero, writes nothing
	tr := New(Options{Runner: runner, JpegtranPath: fakeTool(t)})

	_, err := tr.Transform(context.Background(), req)
	require.ErrorIs(t, err, ErrEmptyOutput)
	assertNoTempFiles(t, filepath.Dir(req.Path))
}

func TestTransformToolNotFound(t *testing.T) {
	req := jpegFixture(t)
	tr := New(Options{
		Runner:       &fakeRunner{},
		JpegtranPath: filepath.Join(t.TempDir(), "no-such-jpegtran"),
	})

	_, err := tr.Transform(context.Background(), req)
	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Tool: "jpegtran", ExitCode: 1, Stderr: "bad header\n"}
	assert.Equal(t, "jpegtran exited with status 1: bad header", err.Error())

	quiet := &ToolError{Tool: "magick", ExitCode: 3}
	assert.Equal(t, "magick exited with status 3", quiet.Error())
}

func TestLookupToolConfiguredMissing(t *testing.T) {
	_, err := LookupTool("jpegtran", filepath.Join(t.TempDir(), "absent"))
	require.ErrorIs(t, err, ErrToolNotFound)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".rotate-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}
