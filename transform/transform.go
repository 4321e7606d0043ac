// Package transform invokes the external rotation tools: jpegtran for
// lossless JPEG rotation and ImageMagick for PNG. Output goes to a
// temporary file in the source's directory so the caller's final rename
// never crosses a volume boundary.
package transform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/picsafe/rotate/logutil"
	"github.com/picsafe/rotate/rotation"
)

// DefaultTimeout bounds one tool invocation. Both tools normally return in
// well under a second; the bound exists so a wedged process cannot hang
// the interactive loop forever.
const DefaultTimeout = 2 * time.Minute

// Tool binary names.
const (
	ToolJpegtran = "jpegtran"
	ToolMagick   = "magick"
)

// Options configures a Transformer.
type Options struct {
	// Runner executes external commands. Defaults to ExecRunner.
	Runner Runner

	// JpegtranPath overrides PATH lookup for jpegtran.
	JpegtranPath string

	// MagickPath overrides PATH lookup for magick.
	MagickPath string

	// Timeout bounds a single tool invocation. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Transformer rotates images by delegating to external tools.
type Transformer struct {
	runner       Runner
	jpegtranPath string
	magickPath   string
	timeout      time.Duration
	log          *logutil.ComponentLogger
}

// New creates a Transformer.
func New(opts Options) *Transformer {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transformer{
		runner:       runner,
		jpegtranPath: opts.JpegtranPath,
		magickPath:   opts.MagickPath,
		timeout:      timeout,
		log:          logutil.NewLogger("transform"),
	}
}

// Transform rotates the request's image into a temporary file in the same
// directory as the source and returns that file's path. On any failure the
// temporary file is removed and the source is untouched.
//
// Success requires all three: tool exit status zero, output file present,
// output size greater than zero.
func (t *Transformer) Transform(ctx context.Context, req rotation.Request) (string, error) {
	toolName, toolPath, err := t.tool(req.Kind)
	if err != nil {
		return "", err
	}

	tmpPath, err := makeTempOutput(req.Path)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary output file: %w", err)
	}

	args := buildArgs(req, tmpPath)

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.log.Debug("invoking external tool", "tool", toolName, "angle", req.Angle(), "path", req.Path)

	_, stderr, runErr := t.runner.Run(runCtx, toolPath, args...)
	if runErr != nil {
		_ = os.Remove(tmpPath)
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s", toolName, t.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", &ToolError{Tool: toolName, ExitCode: exitErr.ExitCode(), Stderr: string(stderr)}
		}
		if errors.Is(runErr, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
		}
		return "", fmt.Errorf("failed to run %s: %w", toolName, runErr)
	}

	info, statErr := os.Stat(tmpPath)
	if statErr != nil || info.Size() == 0 {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w (tool: %s)", ErrEmptyOutput, toolName)
	}

	return tmpPath, nil
}

// tool resolves the tool name and executable path for an image kind.
func (t *Transformer) tool(kind rotation.Kind) (name, path string, err error) {
	switch kind {
	case rotation.PNG:
		path, err = LookupTool(ToolMagick, t.magickPath)
		return ToolMagick, path, err
	default:
		path, err = LookupTool(ToolJpegtran, t.jpegtranPath)
		return ToolJpegtran, path, err
	}
}

// makeTempOutput creates an empty temp file next to src, preserving the
// extension so the tools infer the right encoder.
func makeTempOutput(src string) (string, error) {
	dir := filepath.Dir(src)
	ext := filepath.Ext(src)

	f, err := os.CreateTemp(dir, ".rotate-*"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// buildArgs assembles the tool command line for a request.
//
// jpegtran: -copy all preserves every metadata marker (EXIF included);
// -trim drops the partial MCU blocks a rotation would otherwise leave as
// visual garbage along one edge.
func buildArgs(req rotation.Request, tmpPath string) []string {
	angle := strconv.Itoa(req.Angle())
	if req.Kind == rotation.PNG {
		return []string{"convert", req.Path, "-rotate", angle, tmpPath}
	}
	return []string{
		"-rotate", angle,
		"-copy", "all",
		"-trim",
		"-outfile", tmpPath,
		req.Path,
	}
}
