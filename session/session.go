// Package session implements the interactive ("persistent") mode: a
// blocking read-process-print loop over stdin. Each line is either
// "<path> <direction>" or a bare direction resolved against the file
// manager's current selection. Errors are reported and the loop continues.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/browser"
	"golang.org/x/term"

	"github.com/picsafe/rotate/cliout"
	"github.com/picsafe/rotate/logutil"
	"github.com/picsafe/rotate/notify"
	"github.com/picsafe/rotate/rotation"
	"github.com/picsafe/rotate/rotator"
	"github.com/picsafe/rotate/selection"
)

// Rotator performs one rotation per command line.
type Rotator interface {
	Rotate(ctx context.Context, path, token string) (rotator.Result, error)
}

// Options configures a Session.
type Options struct {
	// In is the command source. Defaults to os.Stdin.
	In io.Reader

	// Out receives all session output. Defaults to os.Stdout.
	Out io.Writer

	// Rotator executes rotations. Required.
	Rotator Rotator

	// Selector resolves bare direction tokens against the file manager's
	// current selection. Optional.
	Selector selection.Selector

	// Notifier announces completed rotations. Optional.
	Notifier notify.Notifier

	// Opener opens a file in the default viewer. Defaults to browser.OpenFile.
	Opener func(path string) error
}

// Session is one interactive loop. Strictly sequential: a command is fully
// processed before the next line is read.
type Session struct {
	in          io.Reader
	out         io.Writer
	rotator     Rotator
	selector    selection.Selector
	notifier    notify.Notifier
	opener      func(string) error
	lastRotated string
	log         *logutil.ComponentLogger
}

// New creates a Session.
func New(opts Options) *Session {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	opener := opts.Opener
	if opener == nil {
		opener = browser.OpenFile
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.New(notify.Config{})
	}
	return &Session{
		in:       in,
		out:      out,
		rotator:  opts.Rotator,
		selector: opts.Selector,
		notifier: notifier,
		opener:   opener,
		log:      logutil.NewLogger("session"),
	}
}

// Run processes commands until an exit token, end of input, or context
// cancellation. It always returns nil on a graceful exit; the loop itself
// never propagates a per-command failure.
func (s *Session) Run(ctx context.Context) error {
	s.banner()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		s.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		case line, open := <-lines:
			if !open {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return nil
			}
			if s.handle(ctx, line) {
				fmt.Fprintln(s.out, "Goodbye!")
				return nil
			}
		}
	}
}

// handle processes one line and reports whether the session should end.
func (s *Session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch strings.ToLower(line) {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		s.banner()
		return false
	case "open", "view":
		s.openLast()
		return false
	}

	fields := strings.Fields(line)
	if len(fields) == 1 {
		s.rotateSelected(ctx, fields[0])
		return false
	}

	token := fields[len(fields)-1]
	path := strings.Join(fields[:len(fields)-1], " ")
	// Strip the escapes macOS inserts when a file is dragged onto the terminal.
	path = strings.ReplaceAll(path, `\ `, " ")
	path = strings.ReplaceAll(path, `\'`, "'")

	s.rotate(ctx, path, token)
	return false
}

// rotateSelected resolves a bare direction against the file manager selection.
func (s *Session) rotateSelected(ctx context.Context, token string) {
	if _, err := rotation.ParseDirection(token); err != nil {
		s.errorf("Provide <image_path> <direction>, for example: /path/to/image.jpg r")
		return
	}

	if s.selector == nil {
		s.errorf("No file selected: file manager integration is not available, provide a path")
		return
	}

	path, ok, err := s.selector.Current(ctx)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if !ok {
		s.errorf("No file selected: select a single image in the file manager and retry")
		return
	}

	s.rotate(ctx, path, token)
}

func (s *Session) rotate(ctx context.Context, path, token string) {
	result, err := s.rotator.Rotate(ctx, path, token)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	fmt.Fprintf(s.out, "%s Rotated %s (%s)\n", cliout.SymbolCheck, result.Path, result.Direction)
	fmt.Fprintf(s.out, "  Original backed up to: %s\n\n", result.BackupPath)
	s.lastRotated = result.Path

	if s.notifier.IsAvailable() {
		err := s.notifier.Send(ctx, notify.Notification{
			Title:   "rotate",
			Message: fmt.Sprintf("Rotated %s (%s)", result.Path, result.Direction),
		})
		if err != nil {
			s.log.Debug("notification failed", "error", err)
		}
	}
}

func (s *Session) openLast() {
	if s.lastRotated == "" {
		s.errorf("Nothing rotated yet in this session")
		return
	}
	if err := s.opener(s.lastRotated); err != nil {
		s.errorf("Failed to open %s: %v", s.lastRotated, err)
	}
}

func (s *Session) errorf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, "%s %s\n\n", cliout.SymbolCross, fmt.Sprintf(format, args...))
}

func (s *Session) banner() {
	fmt.Fprintln(s.out, "Interactive Image Rotation Tool")
	fmt.Fprintln(s.out, strings.Repeat("=", 40))
	fmt.Fprintln(s.out, "Enter: <image_path> <direction>")
	fmt.Fprintln(s.out, "   or: <direction>   (rotates the file selected in the file manager)")
	fmt.Fprintln(s.out, "Direction: l (left), r (right), f (flip)")
	fmt.Fprintln(s.out, "Commands: open, help, exit")
	fmt.Fprintln(s.out, strings.Repeat("=", 40))
	fmt.Fprintln(s.out)
}

// prompt prints ">> " only when reading from a real terminal, so piped
// input does not interleave prompts with results.
func (s *Session) prompt() {
	if f, ok := s.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.out, ">> ")
	}
}
