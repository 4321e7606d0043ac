package cliout

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes for consistent styling
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
)

// Unicode symbols for modern CLI output
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolArrow   = "→"
	SymbolDot     = "•"
)

// ASCII fallback symbols for terminals that don't support Unicode
const (
	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
	ASCIIArrow   = "->"
	ASCIIDot     = "*"
)

var (
	mu      sync.RWMutex
	noColor = detectNoColor()
	out     io.Writer = os.Stdout
)

// detectNoColor honors the NO_COLOR convention and disables color when
// stdout is not a terminal.
func detectNoColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

// SetOutput redirects output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

func color(code string) string {
	mu.RLock()
	defer mu.RUnlock()
	if noColor {
		return ""
	}
	return code
}

func writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// supportsUnicode detects if the terminal supports Unicode symbols.
var supportsUnicode = detectUnicodeSupport()

// detectUnicodeSupport checks if the terminal can display Unicode properly.
func detectUnicodeSupport() bool {
	if runtime.GOOS == "windows" {
		// Windows Terminal, VS Code terminal, and modern PowerShell support Unicode
		if os.Getenv("WT_SESSION") != "" {
			return true
		}
		if os.Getenv("TERM_PROGRAM") == "vscode" {
			return true
		}
		if os.Getenv("PSModulePath") != "" {
			return true
		}
		if os.Getenv("TERM") != "" {
			return true
		}
		// Default to ASCII for old Windows Console/CMD
		return false
	}

	// Unix-like systems generally support Unicode
	return true
}

// getIcon returns the appropriate icon based on Unicode support.
func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// Header prints a bold header with a divider.
func Header(text string) {
	fmt.Fprintf(writer(), "\n%s%s%s\n", color(Bold), text, color(Reset))
	fmt.Fprintln(writer(), strings.Repeat("=", len(text)))
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	check := getIcon(SymbolCheck, ASCIICheck)
	fmt.Fprintf(writer(), "%s%s%s %s\n", color(BrightGreen), check, color(Reset), msg)
}

// Error prints an error message with a red X.
func Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	cross := getIcon(SymbolCross, ASCIICross)
	fmt.Fprintf(writer(), "%s%s%s %s\n", color(BrightRed), cross, color(Reset), msg)
}

// Warning prints a warning message with a yellow triangle.
func Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	warning := getIcon(SymbolWarning, ASCIIWarning)
	fmt.Fprintf(writer(), "%s%s%s  %s\n", color(BrightYellow), warning, color(Reset), msg)
}

// Info prints an info message with a blue info icon.
func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	info := getIcon(SymbolInfo, ASCIIInfo)
	fmt.Fprintf(writer(), "%s%s%s  %s\n", color(BrightBlue), info, color(Reset), msg)
}

// Item prints an indented item.
func Item(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(writer(), "   %s\n", msg)
}

// Label prints an aligned name/value pair.
func Label(name, value string) {
	fmt.Fprintf(writer(), "  %s%-14s%s %s\n", color(Bold), name+":", color(Reset), value)
}
