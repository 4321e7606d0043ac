package transform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound indicates the external tool binary is absent from the
	// system. Kept distinct from a tool that ran and failed so the CLI can
	// point the user at an install step instead of a cryptic exec error.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrEmptyOutput indicates the tool exited zero but its output file is
	// missing or zero bytes. The original is never replaced in that case.
	ErrEmptyOutput = errors.New("transform produced empty or missing output")
)

// ToolError reports an external tool that ran and failed.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
